package inheritance

import (
	c "clinfilter/api/models/constants"
	"clinfilter/api/models/constants/chromosome"
	cls "clinfilter/api/models/constants/classification"
	cg "clinfilter/api/models/constants/cnv-genotype"
	im "clinfilter/api/models/constants/inheritance-mode"
	"clinfilter/api/models/constants/sex"
	"clinfilter/api/models/panel"
	"clinfilter/api/models/ped"
	"clinfilter/api/models/variants"
)

// structural variants this large are candidates on size alone
const (
	autosomalCnvLengthThreshold = 1000000
	xChromCnvLengthThreshold    = 500000
)

// CNVInheritance layers structural-variant rules on top of the
// genotype model: dosage-mechanism matching against the gene panel,
// syndrome-region overlap and the large-CNV fallback
type CNVInheritance struct {
	Variant *variants.TrioRecord
	Trio    *ped.Family

	KnownGenes      panel.KnownGenes
	SyndromeRegions panel.SyndromeRegions
}

func NewCNVInheritance(trioVariant *variants.TrioRecord, trio *ped.Family,
	knownGenes panel.KnownGenes, syndromeRegions panel.SyndromeRegions) *CNVInheritance {

	return &CNVInheritance{
		Variant:         trioVariant,
		Trio:            trio,
		KnownGenes:      knownGenes,
		SyndromeRegions: syndromeRegions,
	}
}

// CheckCandidacy decides whether the structural variant stands as a
// candidate on its own, defers as a compound partner, or drops out
func (s *CNVInheritance) CheckCandidacy() Result {
	if s.PassesNonDdg2pFilter() ||
		(s.KnownGenes != nil && s.PassesDdg2pFilter()) ||
		(s.SyndromeRegions != nil && s.CheckCnvRegionOverlap(s.SyndromeRegions)) {
		return Result{cls.SingleVariant, "cnv"}
	}

	if s.CheckCompoundInheritance() {
		return Result{cls.CompoundHetPartner, "compound_cnv"}
	}

	return Result{cls.Rejected, "variant not compatible with being causal"}
}

// InheritanceMatchesParentalAffectedStatus checks the CNV caller's
// reported inheritance state against the pedigree: an inherited call
// needs the transmitting parent to be affected, a de novo call (or any
// unrecognised state) is unconstrained
func (s *CNVInheritance) InheritanceMatchesParentalAffectedStatus(inheritance string) bool {
	switch inheritance {
	case "paternal":
		return s.Trio.FatherAffected()
	case "maternal":
		return s.Trio.MotherAffected()
	case "biparental", "inheritedDuo":
		return s.Trio.MotherAffected() || s.Trio.FatherAffected()
	}
	return true
}

// PassesNonDdg2pFilter accepts large CNVs outside the curated panel,
// provided the caller's inheritance state fits the parental statuses
func (s *CNVInheritance) PassesNonDdg2pFilter() bool {
	inheritance := s.Variant.Child.Format["INHERITANCE"]
	if !s.InheritanceMatchesParentalAffectedStatus(inheritance) {
		return false
	}
	return s.Variant.Child.StructuralLength() > autosomalCnvLengthThreshold
}

// PassesDdg2pFilter requires an exact symbol match against the panel;
// "Both DD and IF" entries bypass the mechanism check entirely, other
// entries need a robust confirmed status plus a mechanism or
// intragenic-duplication match under one of the gene's modes. Any one
// overlapping gene passing passes the variant.
func (s *CNVInheritance) PassesDdg2pFilter() bool {
	if len(s.KnownGenes) == 0 {
		return false
	}

	for _, gene := range s.Variant.Child.Genes() {
		entry, ok := s.KnownGenes[gene]
		if !ok {
			continue
		}

		if entry.IsBothDDAndIF() {
			return true
		}
		if !entry.HasRobustStatus() {
			continue
		}

		for mode := range entry.Inheritance {
			if s.PassesGeneInheritance(gene, mode) || s.PassesIntragenicDup(gene, mode) {
				return true
			}
		}
	}

	return false
}

// PassesGeneInheritance checks that the variant's copy-number state
// and genotype are consistent with at least one of the gene's dosage
// mechanisms for the given mode
func (s *CNVInheritance) PassesGeneInheritance(gene string, mode c.InheritanceMode) bool {
	entry, ok := s.KnownGenes[gene]
	if !ok || !entry.SupportsMode(mode) {
		return false
	}

	child := s.Variant.Child
	copyNumber, err := child.CopyNumber()
	if err != nil {
		return false
	}

	switch mode {
	case im.Monoallelic, im.Biallelic, im.Both:
	case im.XLinkedDominant:
		if !chromosome.IsX(s.Variant.Chrom()) {
			return false
		}
	case im.Hemizygous:
		if !chromosome.IsX(s.Variant.Chrom()) {
			return false
		}
		if child.Sex == sex.Female && child.CnvGenotype != cg.Dup {
			return false
		}
	default:
		// modes such as Mosaic or Imprinted have no CNV dosage model
		return false
	}

	for mechanism := range entry.MechanismsFor(mode) {
		switch mechanism {
		case im.LossOfFunction:
			// a male's single X copy makes any deletion a complete loss
			if mode == im.Hemizygous && child.Sex == sex.Male {
				if child.CnvGenotype == cg.Del {
					return true
				}
				continue
			}
			if copyNumber == 0 && child.CnvGenotype == cg.Del {
				return true
			}
		case im.IncreasedGeneDosage:
			if copyNumber > 2 && child.CnvGenotype == cg.Dup {
				return true
			}
		case im.Uncertain:
			return true
		}
	}

	return false
}

// PassesIntragenicDup accepts duplications that disrupt a gene rather
// than copying it whole: at least one breakpoint must fall strictly
// inside the gene. Only meaningful under dominant modes.
func (s *CNVInheritance) PassesIntragenicDup(gene string, mode c.InheritanceMode) bool {
	if mode != im.Monoallelic && mode != im.XLinkedDominant {
		return false
	}
	if s.Variant.Child.CnvGenotype != cg.Dup {
		return false
	}

	entry, ok := s.KnownGenes[gene]
	if !ok {
		return false
	}

	start, end := s.Variant.Child.Range()
	return (start > entry.Start && start < entry.End) ||
		(end > entry.Start && end < entry.End)
}

// CheckCnvRegionOverlap matches the CNV against the known syndrome
// regions: same chromosome, same expected copy number, reciprocal
// overlap of at least 1% of the shorter interval from both viewpoints
func (s *CNVInheritance) CheckCnvRegionOverlap(regions panel.SyndromeRegions) bool {
	copyNumber, err := s.Variant.Child.CopyNumber()
	if err != nil {
		return false
	}

	start, end := s.Variant.Child.Range()
	for _, region := range regions {
		if chromosome.Normalize(region.Chrom) != s.Variant.Chrom() {
			continue
		}
		if region.CopyNumber != copyNumber {
			continue
		}
		if HasEnoughOverlap(start, end, region.Start, region.End) {
			return true
		}
	}
	return false
}

// HasEnoughOverlap requires the shared span to cover at least 1% of
// each interval. Interval lengths are inclusive, so single-base
// records still compute.
func HasEnoughOverlap(startA int, endA int, startB int, endB int) bool {
	overlapStart := startA
	if startB > overlapStart {
		overlapStart = startB
	}
	overlapEnd := endA
	if endB < overlapEnd {
		overlapEnd = endB
	}

	overlap := (overlapEnd - overlapStart) + 1
	if overlap <= 0 {
		return false
	}

	forward := float64(overlap) / float64((endA-startA)+1)
	reverse := float64(overlap) / float64((endB-startB)+1)

	return forward >= 0.01 && reverse >= 0.01
}

// CheckCompoundInheritance defers partial or dosage-increasing CNVs
// for compound pairing: large ones on size alone, smaller ones only
// when an overlapping panel gene supports a recessive-style mode
func (s *CNVInheritance) CheckCompoundInheritance() bool {
	copyNumber, err := s.Variant.Child.CopyNumber()
	if err != nil || copyNumber == 0 {
		return false
	}

	onX := chromosome.IsX(s.Variant.Chrom())

	threshold := autosomalCnvLengthThreshold
	if onX {
		threshold = xChromCnvLengthThreshold
	}
	if s.Variant.Child.StructuralLength() > threshold {
		return true
	}

	for _, gene := range s.Variant.Child.OverlappingKnownGenes(s.KnownGenes) {
		entry := s.KnownGenes[gene]
		if entry.SupportsMode(im.Biallelic) {
			return true
		}
		if entry.SupportsMode(im.Hemizygous) && onX &&
			s.Trio.Child != nil && s.Trio.Child.IsFemale() && copyNumber == 1 {
			return true
		}
	}

	return false
}
