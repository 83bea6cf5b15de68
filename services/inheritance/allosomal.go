package inheritance

import (
	"fmt"

	c "clinfilter/api/models/constants"
	cls "clinfilter/api/models/constants/classification"
	im "clinfilter/api/models/constants/inheritance-mode"
	"clinfilter/api/models/ped"
	"clinfilter/api/models/variants"
)

// Allosomal overrides the classification rules for X/Y loci: females
// follow rules structurally similar to the autosomal set, males are
// haploid
type Allosomal struct {
	engine
}

func NewAllosomal(trioVariants []*variants.TrioRecord, trio *ped.Family,
	geneModes map[c.InheritanceMode]bool) *Allosomal {

	supported := im.NewModeSet(im.XLinkedDominant, im.Hemizygous)
	return &Allosomal{engine: newEngine(trioVariants, trio, geneModes, supported)}
}

func (a *Allosomal) validateMode(mode c.InheritanceMode) error {
	if mode != im.XLinkedDominant && mode != im.Hemizygous {
		return fmt.Errorf("unknown allosomal inheritance mode: %s", mode)
	}
	return nil
}

func (a *Allosomal) CheckVariants() error {
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

func (a *Allosomal) ClassifyVariant(trio *variants.TrioRecord, mode c.InheritanceMode) (Result, error) {
	if err := a.validateMode(mode); err != nil {
		return Result{}, err
	}

	a.SetTrioGenotypes(trio)

	if a.mom == nil && a.dad == nil {
		return a.CheckVariantWithoutParents(mode)
	}

	switch {
	case a.child.IsHomRef():
		return Result{cls.Rejected, "child homozygous reference"}, nil
	case a.child.IsHomAlt():
		return a.CheckHomozygous(mode)
	case a.child.IsHet():
		return a.CheckHeterozygous(mode)
	}

	return a.nonMendelian(), nil
}

// CheckVariantWithoutParents classifies a child's call when no
// parental data is available at all
func (a *Allosomal) CheckVariantWithoutParents(mode c.InheritanceMode) (Result, error) {
	if err := a.validateMode(mode); err != nil {
		return Result{}, err
	}

	// female het: a single X hit only stands alone under a dominant
	// mode; hemizygous genes defer it for pairing-style review
	if a.child.IsHet() {
		if mode == im.Hemizygous {
			return Result{cls.Hemizygous, "allosomal without parents"}, nil
		}
		return Result{cls.SingleVariant, "allosomal without parents"}, nil
	}

	if a.child.IsHomAlt() {
		return Result{cls.SingleVariant, "allosomal without parents"}, nil
	}

	return Result{cls.Rejected, "child homozygous reference"}, nil
}

// CheckHeterozygous handles heterozygous children; only females can be
// heterozygous on X, male het calls fail genotype validation upstream
func (a *Allosomal) CheckHeterozygous(mode c.InheritanceMode) (Result, error) {
	if err := a.validateMode(mode); err != nil {
		return Result{}, err
	}

	if a.mom == nil && a.dad == nil {
		return a.CheckVariantWithoutParents(mode)
	}

	if isHomRef(a.mom) && isHomRef(a.dad) {
		return Result{cls.SingleVariant, "female x chrom de novo"}, nil
	}

	if (isNotRef(a.dad) && a.FatherAffected && (refOrMissing(a.mom) || a.MotherAffected)) ||
		(isNotRef(a.mom) && a.MotherAffected && (refOrMissing(a.dad) || a.FatherAffected)) {
		return Result{cls.SingleVariant, "x chrom transmitted from aff, other parent non-carrier or aff"}, nil
	}

	if mode == im.Hemizygous && a.child.IsHet() {
		return Result{cls.CompoundHetPartner, "x chrom het in hemizygous gene, deferred pending second hit"}, nil
	}

	return Result{cls.Rejected, "variant not compatible with being causal"}, nil
}

// CheckHomozygous handles homozygous/hemizygous-alternate children
func (a *Allosomal) CheckHomozygous(mode c.InheritanceMode) (Result, error) {
	if err := a.validateMode(mode); err != nil {
		return Result{}, err
	}

	if a.mom == nil && a.dad == nil {
		return a.CheckVariantWithoutParents(mode)
	}

	if a.Trio.Child != nil && a.Trio.Child.IsMale() {
		// males inherit their X from the mother alone
		if isHomRef(a.mom) {
			return Result{cls.SingleVariant, "male X chrom de novo"}, nil
		}
		if (isHet(a.mom) && !a.MotherAffected) || (isHomAlt(a.mom) && a.MotherAffected) {
			return Result{cls.SingleVariant, "male X chrom inherited from het mother or hom affected mother"}, nil
		}
		return Result{cls.Rejected, "variant not compatible with being causal"}, nil
	}

	// a homozygous female needs an alternate allele from each parent
	if isHomRef(a.mom) || isHomRef(a.dad) {
		return a.nonMendelian(), nil
	}

	if mode == im.Hemizygous && (a.MotherAffected || a.FatherAffected) {
		return Result{cls.SingleVariant, "testing"}, nil
	}

	return Result{cls.Rejected, "variant not compatible with being causal"}, nil
}
