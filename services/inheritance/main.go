package inheritance

import (
	c "clinfilter/api/models/constants"
	cls "clinfilter/api/models/constants/classification"
	im "clinfilter/api/models/constants/inheritance-mode"
	"clinfilter/api/models/ped"
	"clinfilter/api/models/variants"
)

// Result pairs a classification with a human-readable reason string
// kept for audit by downstream review tooling. Rejected is a normal
// outcome, not an error: validation failures travel as errors instead.
type Result struct {
	Classification c.Classification
	Reason         string
}

// CandidateVariant ties a routed trio record to its verdict and the
// inheritance mode it was evaluated under
type CandidateVariant struct {
	Variant *variants.TrioRecord
	Check   c.Classification
	Reason  string
	Mode    c.InheritanceMode
}

// engine carries the state shared by the autosomal and allosomal rule
// sets: the trio's variant list for one gene, the family, the gene's
// annotated inheritance modes and the engine's own supported modes.
// Parental affected statuses are plain fields so the per-variant
// checks stay pure over them.
type engine struct {
	Variants  []*variants.TrioRecord
	Trio      *ped.Family
	GeneModes map[c.InheritanceMode]bool
	Modes     map[c.InheritanceMode]bool

	MotherAffected bool
	FatherAffected bool

	child *variants.Variant
	mom   *variants.Variant
	dad   *variants.Variant

	Candidates   []*CandidateVariant
	CompoundHets []*CandidateVariant
}

func newEngine(trioVariants []*variants.TrioRecord, trio *ped.Family,
	geneModes map[c.InheritanceMode]bool, supportedModes map[c.InheritanceMode]bool) engine {

	return engine{
		Variants:       trioVariants,
		Trio:           trio,
		GeneModes:      geneModes,
		Modes:          supportedModes,
		MotherAffected: trio.MotherAffected(),
		FatherAffected: trio.FatherAffected(),
	}
}

// MatchesGeneMode is the boolean gate consumed by the outer per-gene
// candidate-collection loop: the engine only runs when its supported
// modes intersect the gene's annotated ones
func (e *engine) MatchesGeneMode() bool {
	return im.Intersects(e.Modes, e.GeneModes)
}

// SetTrioGenotypes points the engine at one trio record's genotypes.
// A parent missing from the pedigree resolves to nil, never to a
// homozygous-reference stand-in.
func (e *engine) SetTrioGenotypes(trio *variants.TrioRecord) {
	e.child = trio.Child

	e.mom = nil
	if e.Trio.Mother != nil {
		e.mom = trio.Mother
	}

	e.dad = nil
	if e.Trio.Father != nil {
		e.dad = trio.Father
	}
}

// Route appends the variant to the candidates list (single-variant and
// hemizygous verdicts) or the compound-het list (deferred partners);
// anything else is dropped silently. Compound-het pairing downstream
// relies on this list discipline.
func (e *engine) Route(trio *variants.TrioRecord, result Result, mode c.InheritanceMode) {
	entry := &CandidateVariant{
		Variant: trio,
		Check:   result.Classification,
		Reason:  result.Reason,
		Mode:    mode,
	}

	switch result.Classification {
	case cls.SingleVariant, cls.Hemizygous:
		e.Candidates = append(e.Candidates, entry)
	case cls.CompoundHetPartner:
		e.CompoundHets = append(e.CompoundHets, entry)
	}
}

// Results hands back the routed candidate and compound-het lists
func (e *engine) Results() ([]*CandidateVariant, []*CandidateVariant) {
	return e.Candidates, e.CompoundHets
}

// hasCnvVariant reports whether any record in the trio's variant list
// is structural; an apparent transmission error can be explained by an
// overlapping copy-number change
func (e *engine) hasCnvVariant() bool {
	for _, trio := range e.Variants {
		if trio.IsCnv() {
			return true
		}
	}
	return false
}

// nil-safe genotype helpers for optional parents

func isHomRef(v *variants.Variant) bool {
	return v != nil && v.IsHomRef()
}

func isHet(v *variants.Variant) bool {
	return v != nil && v.IsHet()
}

func isHomAlt(v *variants.Variant) bool {
	return v != nil && v.IsHomAlt()
}

func isNotRef(v *variants.Variant) bool {
	return v != nil && v.IsNotRef()
}

func isNotAlt(v *variants.Variant) bool {
	return v == nil || v.IsNotAlt()
}

// refOrMissing treats an absent parent as compatible with a
// reference call without asserting one was observed
func refOrMissing(v *variants.Variant) bool {
	return v == nil || v.IsHomRef()
}

// nonMendelian downgrades an impossible transmission pattern to a
// deferred compound-het partner when a CNV in the same trio could
// explain the apparent error
func (e *engine) nonMendelian() Result {
	if e.hasCnvVariant() {
		return Result{cls.CompoundHetPartner, "non-mendelian, but CNV might affect call"}
	}
	return Result{cls.Rejected, "non-mendelian trio"}
}
