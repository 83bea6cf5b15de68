package inheritance

import (
	"fmt"

	c "clinfilter/api/models/constants"
	cls "clinfilter/api/models/constants/classification"
	im "clinfilter/api/models/constants/inheritance-mode"
	"clinfilter/api/models/ped"
	"clinfilter/api/models/variants"
)

// Autosomal is the base rule set for chromosomes not subject to
// sex-linked dosage
type Autosomal struct {
	engine
}

func NewAutosomal(trioVariants []*variants.TrioRecord, trio *ped.Family,
	geneModes map[c.InheritanceMode]bool) *Autosomal {

	supported := im.NewModeSet(im.Monoallelic, im.Biallelic, im.Both)
	return &Autosomal{engine: newEngine(trioVariants, trio, geneModes, supported)}
}

// CheckVariants classifies every trio record under every inheritance
// mode shared between the engine and the gene, routing verdicts to the
// candidate lists. A validation failure aborts the batch: point
// variant genotypes are expected to be well formed by this stage.
func (a *Autosomal) CheckVariants() error {
	if !a.MatchesGeneMode() {
		return nil
	}

	for _, trio := range a.Variants {
		// structural records are judged by the CNV extension instead
		if trio.IsCnv() {
			continue
		}
		for _, mode := range im.Intersection(a.Modes, a.GeneModes) {
			result, err := a.ClassifyVariant(trio, mode)
			if err != nil {
				return err
			}
			a.Route(trio, result, mode)
		}
	}
	return nil
}

// ClassifyVariant decides whether one trio record's inheritance
// pattern is compatible with the variant being causal under the given
// mode
func (a *Autosomal) ClassifyVariant(trio *variants.TrioRecord, mode c.InheritanceMode) (Result, error) {
	if !a.Modes[mode] {
		return Result{}, fmt.Errorf("unknown autosomal inheritance mode: %s", mode)
	}

	a.SetTrioGenotypes(trio)

	switch {
	case a.child.IsHomRef():
		return Result{cls.Rejected, "child homozygous reference"}, nil
	case a.child.IsHet():
		return a.checkHeterozygous(mode), nil
	case a.child.IsHomAlt():
		return a.checkHomozygous(mode), nil
	}

	return a.nonMendelian(), nil
}

func (a *Autosomal) checkHeterozygous(mode c.InheritanceMode) Result {
	if a.mom == nil && a.dad == nil {
		return Result{cls.SingleVariant, "no parental information"}
	}

	if refOrMissing(a.mom) && refOrMissing(a.dad) {
		return Result{cls.SingleVariant, "apparent de novo"}
	}

	// transmitted from an affected parent, with the other parent a
	// non-carrier or affected themselves
	if (isNotRef(a.dad) && a.FatherAffected && (refOrMissing(a.mom) || a.MotherAffected)) ||
		(isNotRef(a.mom) && a.MotherAffected && (refOrMissing(a.dad) || a.FatherAffected)) {
		return Result{cls.SingleVariant, "transmitted from aff, other parent non-carrier or aff"}
	}

	// recessive genes keep single hets around for pairing, provided
	// neither parent is homozygous alternate
	if mode == im.Biallelic && isNotAlt(a.mom) && isNotAlt(a.dad) {
		return Result{cls.CompoundHetPartner, "het candidate in recessive gene, parents not hom alt"}
	}

	// a single unaffected carrier parent contradicts full penetrance
	// under a dominant mode; defer pending a second hit instead of
	// rejecting outright
	if isNotRef(a.mom) != isNotRef(a.dad) {
		return Result{cls.CompoundHetPartner, "transmitted from unaffected parent, deferred pending second hit"}
	}

	return Result{cls.Rejected, "variant not compatible with being causal"}
}

func (a *Autosomal) checkHomozygous(mode c.InheritanceMode) Result {
	if a.mom == nil && a.dad == nil {
		return Result{cls.SingleVariant, "no parental information"}
	}

	// with partial parental data the present parent must be a carrier
	if a.mom == nil || a.dad == nil {
		present := a.mom
		if present == nil {
			present = a.dad
		}
		if present.IsNotRef() {
			return Result{cls.SingleVariant, "biallelic, incomplete parental information"}
		}
		return a.nonMendelian()
	}

	// a homozygous child needs an alternate allele from each parent
	if a.mom.IsHomRef() || a.dad.IsHomRef() {
		return a.nonMendelian()
	}

	// a homozygous-alternate parent carrying a causal variant must be
	// affected themselves
	if (a.mom.IsHomAlt() && !a.MotherAffected) || (a.dad.IsHomAlt() && !a.FatherAffected) {
		return Result{cls.Rejected, "variant not compatible with being causal"}
	}

	return Result{cls.SingleVariant, "biallelic, confirmed inheritance"}
}
