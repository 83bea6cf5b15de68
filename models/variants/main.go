package variants

import (
	"fmt"
	"strconv"
	"strings"

	c "clinfilter/api/models/constants"
	"clinfilter/api/models/constants/chromosome"
	cg "clinfilter/api/models/constants/cnv-genotype"
	ictx "clinfilter/api/models/constants/inheritance-context"
	s "clinfilter/api/models/constants/sex"
	vk "clinfilter/api/models/constants/variant-kind"
	z "clinfilter/api/models/constants/zygosity"
	"clinfilter/api/models/panel"
	"clinfilter/api/utils"
)

// population allele-frequency keys scanned by the MAF filter
var populationFrequencyTags = []string{
	"AFR_AF", "AMR_AF", "ASN_AF", "DDD_AF", "EAS_AF",
	"ESP_AF", "EUR_AF", "MAX_AF", "SAS_AF", "UK10K_cohort_AF",
}

var lofConsequences = []string{
	"transcript_ablation", "splice_donor_variant", "splice_acceptor_variant",
	"frameshift_variant", "stop_gained", "coding_sequence_variant",
}

var missenseConsequences = []string{
	"stop_lost", "initiator_codon_variant", "inframe_insertion",
	"inframe_deletion", "missense_variant", "transcript_amplification",
}

// AlleleSet holds the distinct alleles carried at a locus.
// Zygosity predicates are exact set-equality against the three
// reference sets computed for the current inheritance context.
type AlleleSet map[string]bool

func NewAlleleSet(alleles ...string) AlleleSet {
	set := AlleleSet{}
	for _, allele := range alleles {
		set[allele] = true
	}
	return set
}

func (a AlleleSet) Equals(b AlleleSet) bool {
	if len(a) != len(b) {
		return false
	}
	for allele := range a {
		if !b[allele] {
			return false
		}
	}
	return true
}

// Variant is one called variant (point or structural) for a single
// individual. The derived zygotic state is a pure function of
// {genotype field, chromosome, subject sex}: SetGenotype recomputes
// it and must be re-run whenever any of those change.
type Variant struct {
	Kind c.VariantKind

	Chrom  string
	Pos    int
	Id     string
	Ref    string
	Alt    string
	Qual   string
	Filter string

	Info   map[string]string
	Format map[string]string

	Sex     c.Sex
	Gene    string
	Context c.InheritanceContext

	// non-reference allele count for point variants
	genotype    int
	genotypeSet bool
	defaulted   bool
	CnvGenotype c.CnvGenotype

	alleles AlleleSet
	homRef  AlleleSet
	het     AlleleSet
	homAlt  AlleleSet
}

func NewPointVariant(chrom string, pos int, id string, ref string, alt string, qual string, filter string) *Variant {
	return &Variant{
		Kind:   vk.Point,
		Chrom:  chromosome.Normalize(chrom),
		Pos:    pos,
		Id:     id,
		Ref:    ref,
		Alt:    alt,
		Qual:   qual,
		Filter: filter,
		Info:   map[string]string{},
		Format: map[string]string{},
	}
}

func NewStructuralVariant(chrom string, pos int, id string, ref string, alt string, filter string) *Variant {
	return &Variant{
		Kind:   vk.Structural,
		Chrom:  chromosome.Normalize(chrom),
		Pos:    pos,
		Id:     id,
		Ref:    ref,
		Alt:    alt,
		Filter: filter,
		Info:   map[string]string{},
		Format: map[string]string{},
	}
}

func (v *Variant) IsCnv() bool {
	return v.Kind == vk.Structural
}

// AddInfo parses a semicolon-delimited key=value (or bare-flag) info
// string into the variant's annotation map and derives the gene field
func (v *Variant) AddInfo(info string) {
	for _, entry := range strings.Split(info, ";") {
		if entry == "" {
			continue
		}
		splits := strings.SplitN(entry, "=", 2)
		if len(splits) == 2 {
			v.Info[splits[0]] = splits[1]
		} else {
			// bare flag
			v.Info[splits[0]] = ""
		}
	}
	v.setGeneFromInfo()
}

// AddFormat zips a colon-delimited format key string against the
// matching sample value string
func (v *Variant) AddFormat(formatKeys string, sampleValues string) {
	keys := strings.Split(formatKeys, ":")
	values := strings.Split(sampleValues, ":")
	for i, key := range keys {
		if i >= len(values) {
			break
		}
		v.Format[key] = values[i]
	}
}

func (v *Variant) HasInfo(key string) bool {
	_, ok := v.Info[key]
	return ok
}

// SetSex records the subject's sex and re-resolves the inheritance
// context; callers must (re)invoke SetGenotype afterwards
func (v *Variant) SetSex(code string) {
	v.Sex = s.Parse(code)
	v.Context = v.contextAt(v.Pos)
}

// contextAt resolves the inheritance context the variant would have
// at the given position, given its chromosome and the subject's sex
func (v *Variant) contextAt(position int) c.InheritanceContext {
	if !chromosome.IsAllosome(v.Chrom) {
		return ictx.Autosomal
	}

	if chromosome.IsX(v.Chrom) {
		if chromosome.InPseudoautosomalX(position) {
			return ictx.Autosomal
		}
		switch v.Sex {
		case s.Male:
			return ictx.XLinkedMale
		case s.Female:
			return ictx.XLinkedFemale
		}
		return ictx.Unknown
	}

	// Y chromosome
	if chromosome.InPseudoautosomalY(position) {
		return ictx.Autosomal
	}
	switch v.Sex {
	case s.Male:
		// a male's single Y copy gets the hemizygous treatment
		return ictx.XLinkedMale
	case s.Female:
		return ictx.YLinkedFemale
	}
	return ictx.Unknown
}

// SetGenotype derives the zygotic state from the raw genotype field
// (point variants) or the alternate-allele tag (structural variants).
// Returned errors are validation failures, not classifications.
func (v *Variant) SetGenotype() error {
	v.defaulted = false

	if v.IsCnv() {
		return v.setCnvGenotype()
	}

	gt, ok := v.Format["GT"]
	if !ok {
		return fmt.Errorf("cannot find a genotype for variant %s", v.Key())
	}

	count, err := v.convertGenotype(gt)
	if err != nil {
		return err
	}
	v.genotype = count
	v.genotypeSet = true

	return v.setAlleles()
}

// SetDefaultGenotype materializes a homozygous-reference no-call for
// individuals lacking a genotype (e.g. absent parents). The engine can
// tell this default apart from a verified call via IsDefaultGenotype.
func (v *Variant) SetDefaultGenotype() error {
	v.defaulted = true

	if v.IsCnv() {
		v.CnvGenotype = cg.Ref
		return nil
	}

	v.genotype = 0
	v.genotypeSet = true
	return v.setAlleles()
}

func (v *Variant) IsDefaultGenotype() bool {
	return v.defaulted
}

func (v *Variant) setCnvGenotype() error {
	// structural variants may straddle the pseudoautosomal boundary;
	// resolve the context at both breakpoints and, if they disagree,
	// the allosomal one wins
	if chromosome.IsAllosome(v.Chrom) {
		startContext := v.contextAt(v.Pos)
		endContext := v.contextAt(v.End())
		v.Context = startContext
		if startContext != endContext && startContext == ictx.Autosomal {
			v.Context = endContext
		}
	} else {
		v.Context = ictx.Autosomal
	}

	if v.Context == ictx.YLinkedFemale {
		return fmt.Errorf("cannot have CNV on female Y chromosome at %s", v.Key())
	}

	genotype, err := cg.FromAltAllele(v.Alt)
	if err != nil {
		return err
	}
	v.CnvGenotype = genotype
	return nil
}

// convertGenotype maps a two-character genotype encoding (phased or
// unphased) to a count of non-reference alleles in {0, 1, 2}.
func (v *Variant) convertGenotype(genotype string) (int, error) {
	if len(genotype) == 1 {
		return 0, fmt.Errorf("genotype is only a single character: %s", genotype)
	}

	var allele1, allele2 string
	if strings.Contains(genotype, "/") {
		splits := strings.Split(genotype, "/")
		allele1, allele2 = splits[0], splits[1]
	} else if strings.Contains(genotype, "|") {
		splits := strings.Split(genotype, "|")
		allele1, allele2 = splits[0], splits[1]
	} else {
		return 0, fmt.Errorf("genotype lacks an allele separator: %s", genotype)
	}

	if _, err := strconv.Atoi(allele1); err != nil {
		return 0, fmt.Errorf("non-numeric allele in genotype %s", genotype)
	}
	if _, err := strconv.Atoi(allele2); err != nil {
		return 0, fmt.Errorf("non-numeric allele in genotype %s", genotype)
	}

	// two differing alleles collapse to heterozygous. Strictly some
	// calls have two different non-reference alleles, but those are
	// poorly called indels where one allele is likely the reference.
	if allele1 != allele2 {
		return 1, nil
	}
	if allele1 == "0" && allele2 == "0" {
		return 0, nil
	}
	return 2, nil
}

func (v *Variant) setAlleles() error {
	if err := v.setReferenceGenotypes(); err != nil {
		return err
	}
	return v.convertGenotypeCodeToAlleles()
}

// setReferenceGenotypes computes the three reference allele-sets the
// zygosity predicates compare against under the current context
func (v *Variant) setReferenceGenotypes() error {
	switch v.Context {
	case ictx.Autosomal, ictx.XLinkedFemale:
		v.homRef = NewAlleleSet(v.Ref, v.Ref)
		v.het = NewAlleleSet(v.Ref, v.Alt)
		v.homAlt = NewAlleleSet(v.Alt, v.Alt)
	case ictx.XLinkedMale:
		v.homRef = NewAlleleSet(v.Ref)
		v.het = NewAlleleSet()
		v.homAlt = NewAlleleSet(v.Alt)
	default:
		return fmt.Errorf("unknown inheritance context for variant %s", v.Key())
	}
	return nil
}

func (v *Variant) convertGenotypeCodeToAlleles() error {
	switch v.Context {
	case ictx.Autosomal, ictx.XLinkedFemale:
		return v.convertAutosomalGenotypeCodeToAlleles()
	case ictx.XLinkedMale:
		return v.convertAllosomalGenotypeCodeToAlleles()
	}
	return fmt.Errorf("unknown inheritance context for variant %s", v.Key())
}

func (v *Variant) convertAutosomalGenotypeCodeToAlleles() error {
	switch v.genotype {
	case 0:
		v.alleles = NewAlleleSet(v.Ref, v.Ref)
	case 1:
		v.alleles = NewAlleleSet(v.Ref, v.Alt)
	case 2:
		v.alleles = NewAlleleSet(v.Alt, v.Alt)
	default:
		return fmt.Errorf("unknown genotype '%d'", v.genotype)
	}
	return nil
}

func (v *Variant) convertAllosomalGenotypeCodeToAlleles() error {
	// males are haploid for X outside the pseudoautosomal regions
	switch v.genotype {
	case 0:
		v.alleles = NewAlleleSet(v.Ref)
	case 2:
		v.alleles = NewAlleleSet(v.Alt)
	case 1:
		return fmt.Errorf("heterozygous X-chromosome male at %s", v.Key())
	default:
		return fmt.Errorf("unknown genotype '%d'", v.genotype)
	}
	return nil
}

func (v *Variant) IsHet() bool {
	if v.IsCnv() {
		return cg.IsAlt(v.CnvGenotype)
	}
	return v.alleles.Equals(v.het)
}

func (v *Variant) IsHomAlt() bool {
	if v.IsCnv() {
		return cg.IsAlt(v.CnvGenotype)
	}
	return v.alleles.Equals(v.homAlt)
}

func (v *Variant) IsHomRef() bool {
	if v.IsCnv() {
		return v.CnvGenotype == cg.Ref
	}
	return v.alleles.Equals(v.homRef)
}

func (v *Variant) IsNotRef() bool {
	if v.IsCnv() {
		return cg.IsAlt(v.CnvGenotype)
	}
	return !v.alleles.Equals(v.homRef)
}

func (v *Variant) IsNotAlt() bool {
	if v.IsCnv() {
		return v.CnvGenotype == cg.Ref
	}
	return !v.alleles.Equals(v.homAlt)
}

// Zygosity reports the derived state as a reporting enum
func (v *Variant) Zygosity() c.Zygosity {
	switch {
	case v.IsHomRef():
		if v.Context == ictx.XLinkedMale {
			return z.Reference
		}
		return z.HomozygousReference
	case v.IsHet():
		return z.Heterozygous
	case v.IsHomAlt():
		if v.Context == ictx.XLinkedMale {
			return z.Alternate
		}
		return z.HomozygousAlternate
	}
	return z.Unknown
}

// Key identifies the variant: chrom:pos for point variants,
// chrom:start-end for structural ones
func (v *Variant) Key() string {
	if v.IsCnv() {
		start, end := v.Range()
		return fmt.Sprintf("%s:%d-%d", v.Chrom, start, end)
	}
	return fmt.Sprintf("%s:%d", v.Chrom, v.Pos)
}

// Range returns the [start, end] span; point variants span one base
func (v *Variant) Range() (int, int) {
	return v.Pos, v.End()
}

func (v *Variant) End() int {
	if end, err := strconv.Atoi(v.Info["END"]); err == nil {
		return end
	}
	return v.Pos
}

// StructuralLength reads the SVLEN annotation (0 when absent)
func (v *Variant) StructuralLength() int {
	length, err := strconv.Atoi(v.Info["SVLEN"])
	if err != nil {
		return 0
	}
	return length
}

// CopyNumber reads the CNS annotation, the integer copy-number state
func (v *Variant) CopyNumber() (int, error) {
	cns, err := strconv.Atoi(v.Info["CNS"])
	if err != nil {
		return 0, fmt.Errorf("variant %s lacks a usable copy-number state", v.Key())
	}
	return cns, nil
}

// setGeneFromInfo derives the gene field; point and structural
// variants annotate genes differently
func (v *Variant) setGeneFromInfo() {
	if !v.IsCnv() {
		v.Gene = v.Info["HGNC"]
		return
	}

	// some structural records lack HGNC but carry HGNC_ALL or a bare
	// overlapping-gene count
	if hgncAll, ok := v.Info["HGNC_ALL"]; ok {
		v.Gene = hgncAll
	} else if _, ok := v.Info["HGNC"]; !ok && v.HasInfo("NUMBERGENES") {
		v.Gene = ""
		if count, err := strconv.Atoi(v.Info["NUMBERGENES"]); err == nil && count > 0 {
			v.Gene = "."
		}
	} else {
		v.Gene = v.Info["HGNC"]
	}
}

// Genes splits the gene annotation into a list of symbols
func (v *Variant) Genes() []string {
	if v.Gene == "" {
		return []string{}
	}
	return strings.Split(v.Gene, ",")
}

// FixGeneIDs prunes reported genes whose known panel coordinates do
// not actually intersect the variant's range. The reported annotation
// is sometimes wrong; genes absent from the panel are kept as-is to
// allow analyses without a curated gene set.
func (v *Variant) FixGeneIDs(knownGenes panel.KnownGenes) {
	start, end := v.Range()

	var genes []string
	for _, gene := range v.Genes() {
		if !knownGenes.Has(gene) {
			genes = append(genes, gene)
			continue
		}

		entry := knownGenes[gene]
		if start <= entry.End && end >= entry.Start {
			genes = append(genes, gene)
		}
	}

	if len(genes) > 0 {
		v.Gene = strings.Join(genes, ",")
	}
}

// OverlappingKnownGenes lists the variant's genes present in the panel
func (v *Variant) OverlappingKnownGenes(knownGenes panel.KnownGenes) []string {
	var overlapping []string
	for _, gene := range v.Genes() {
		if knownGenes.Has(gene) {
			overlapping = append(overlapping, gene)
		}
	}
	return overlapping
}

// MaxAlleleFrequency scans the population frequency annotations and
// returns the highest, or -1 when none are annotated
func (v *Variant) MaxAlleleFrequency() float64 {
	maxFreq := -1.0
	for _, tag := range populationFrequencyTags {
		value, ok := v.Info[tag]
		if !ok {
			continue
		}
		// fields can carry comma-separated per-allele frequencies
		for _, frequency := range strings.Split(value, ",") {
			if parsed, err := strconv.ParseFloat(frequency, 64); err == nil && parsed > maxFreq {
				maxFreq = parsed
			}
		}
	}
	return maxFreq
}

func (v *Variant) IsLof() bool {
	return utils.StringInSlice(v.Info["CQ"], lofConsequences)
}

func (v *Variant) IsMissense() bool {
	return utils.StringInSlice(v.Info["CQ"], missenseConsequences)
}

// CheckFilters applies the point-variant record-level criteria and
// reports the last checked filter alongside the verdict
func (v *Variant) CheckFilters(knownGenes panel.KnownGenes) (bool, string) {
	// exclude variants without functional consequences
	if !v.IsLof() && !v.IsMissense() {
		return false, "consequence"
	}

	// exclude variants common in any population
	maxMaf := v.MaxAlleleFrequency()
	if maxMaf > 0.01 {
		return false, "MAF"
	}

	// exclude variants outside known disorder genes, unless no such
	// gene set is available
	if knownGenes != nil && len(v.OverlappingKnownGenes(knownGenes)) == 0 {
		return false, "HGNC"
	}

	// exclude non-PASS records, except low-VQSLOD calls backed by a
	// de novo caller
	if v.Filter != "PASS" && v.Filter != "." {
		if v.Filter != "LOW_VQSLOD" || (!v.HasInfo("DENOVO-SNP") && !v.HasInfo("DENOVO-INDEL")) {
			return false, "FILTER"
		}
	}

	return true, "passed all"
}

// PassesFilters checks whether the record passes user defined criteria.
// For structural variants a genotype validation failure is converted
// into a filtered-out outcome here rather than aborting the batch;
// for point variants the same failure is fatal upstream.
func (v *Variant) PassesFilters(knownGenes panel.KnownGenes) bool {
	if v.IsCnv() {
		// some CNV calls sit on the female Y chromosome or carry a
		// malformed allele tag; those fail quietly
		if err := v.SetGenotype(); err != nil {
			return false
		}
		return true
	}

	passes, _ := v.CheckFilters(knownGenes)
	return passes
}
