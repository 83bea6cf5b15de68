package inheritance

import (
	"strconv"
	"testing"

	c "clinfilter/api/models/constants"
	cls "clinfilter/api/models/constants/classification"
	cg "clinfilter/api/models/constants/cnv-genotype"
	im "clinfilter/api/models/constants/inheritance-mode"
	"clinfilter/api/models/panel"
	"clinfilter/api/models/variants"

	"github.com/stretchr/testify/assert"
)

func makeCnv(t *testing.T, sexCode string, inheritance string, chrom string, pos int) *variants.Variant {
	v := variants.NewStructuralVariant(chrom, pos, ".", "A", "<DUP>", "PASS")
	v.AddInfo("HGNC=TEST;HGNC_ALL=TEST;END=16000000;SVLEN=5000;CNS=3")
	v.AddFormat("INHERITANCE:DP", inheritance+":50")
	v.SetSex(sexCode)
	assert.NoError(t, v.SetGenotype())
	return v
}

func makeCnvTrio(t *testing.T, childSex string, chrom string, pos int) *variants.TrioRecord {
	trio := variants.NewTrioRecord(makeCnv(t, childSex, "unknown", chrom, pos))
	trio.AddMotherVariant(makeCnv(t, "F", "unknown", chrom, pos))
	trio.AddFatherVariant(makeCnv(t, "M", "unknown", chrom, pos))
	return trio
}

func makeTestPanel(mode c.InheritanceMode, mechanism c.DosageMechanism) panel.KnownGenes {
	return panel.KnownGenes{
		"TEST": &panel.KnownGene{
			Symbol: "TEST",
			Inheritance: map[c.InheritanceMode]map[c.DosageMechanism]bool{
				mode: {mechanism: true},
			},
			Status: map[string]bool{panel.StatusConfirmed: true},
			Chrom:  "1",
			Start:  5000,
			End:    6000,
		},
	}
}

func makeCnvInheritance(t *testing.T, childSex string) *CNVInheritance {
	fam := makeFamily(childSex, "1", "1")
	trio := makeCnvTrio(t, childSex, "1", 15000000)
	knownGenes := makeTestPanel(im.Monoallelic, im.LossOfFunction)
	regions := panel.SyndromeRegions{{Chrom: "1", Start: 1000, End: 2000, CopyNumber: 1}}

	return NewCNVInheritance(trio, fam, knownGenes, regions)
}

func TestInheritanceMatchesParentalAffectedStatus(t *testing.T) {
	inh := makeCnvInheritance(t, "F")

	t.Run("should require an affected father for paternal inheritance", func(t *testing.T) {
		inh.Trio = makeFamily("F", "1", "2")
		assert.True(t, inh.InheritanceMatchesParentalAffectedStatus("paternal"))

		inh.Trio = makeFamily("F", "1", "1")
		assert.False(t, inh.InheritanceMatchesParentalAffectedStatus("paternal"))
	})

	t.Run("should require an affected mother for maternal inheritance", func(t *testing.T) {
		inh.Trio = makeFamily("F", "1", "1")
		assert.False(t, inh.InheritanceMatchesParentalAffectedStatus("maternal"))

		inh.Trio = makeFamily("F", "2", "1")
		assert.True(t, inh.InheritanceMatchesParentalAffectedStatus("maternal"))
	})

	t.Run("should accept either affected parent for biparental inheritance", func(t *testing.T) {
		for _, state := range []string{"biparental", "inheritedDuo"} {
			inh.Trio = makeFamily("F", "1", "1")
			assert.False(t, inh.InheritanceMatchesParentalAffectedStatus(state))

			inh.Trio = makeFamily("F", "1", "2")
			assert.True(t, inh.InheritanceMatchesParentalAffectedStatus(state))

			inh.Trio = makeFamily("F", "2", "1")
			assert.True(t, inh.InheritanceMatchesParentalAffectedStatus(state))
		}
	})

	t.Run("should not constrain de novo calls", func(t *testing.T) {
		inh.Trio = makeFamily("F", "1", "1")
		assert.True(t, inh.InheritanceMatchesParentalAffectedStatus("deNovo"))
	})
}

func TestPassesNonDdg2pFilter(t *testing.T) {
	inh := makeCnvInheritance(t, "F")
	inh.Variant.Child.Format["INHERITANCE"] = "deNovo"

	t.Run("should pass a sufficiently long de novo duplication", func(t *testing.T) {
		inh.Variant.Child.Info["SVLEN"] = "1000001"
		assert.True(t, inh.PassesNonDdg2pFilter())
	})

	t.Run("should fail an insufficiently long de novo duplication", func(t *testing.T) {
		inh.Variant.Child.Info["SVLEN"] = "999999"
		assert.False(t, inh.PassesNonDdg2pFilter())
	})
}

func TestPassesGeneInheritance(t *testing.T) {
	inh := makeCnvInheritance(t, "M")
	child := inh.Variant.Child
	child.Chrom = "1"
	child.Info["CNS"] = "3"
	child.CnvGenotype = cg.Dup

	setMechanism := func(mode c.InheritanceMode, mechanism c.DosageMechanism) {
		inh.KnownGenes = makeTestPanel(mode, mechanism)
	}

	t.Run("should pass a duplication under increased gene dosage", func(t *testing.T) {
		setMechanism(im.Monoallelic, im.IncreasedGeneDosage)
		assert.True(t, inh.PassesGeneInheritance("TEST", im.Monoallelic))
	})

	t.Run("should fail a duplication under loss of function", func(t *testing.T) {
		setMechanism(im.Monoallelic, im.LossOfFunction)
		assert.False(t, inh.PassesGeneInheritance("TEST", im.Monoallelic))
	})

	t.Run("should pass a full deletion under loss of function", func(t *testing.T) {
		child.CnvGenotype = cg.Del
		child.Info["CNS"] = "0"
		setMechanism(im.Monoallelic, im.LossOfFunction)
		assert.True(t, inh.PassesGeneInheritance("TEST", im.Monoallelic))

		setMechanism(im.Monoallelic, im.IncreasedGeneDosage)
		assert.False(t, inh.PassesGeneInheritance("TEST", im.Monoallelic))
	})

	t.Run("should pass any call under an uncertain mechanism", func(t *testing.T) {
		child.CnvGenotype = cg.Del
		child.Info["CNS"] = "1"
		setMechanism(im.Monoallelic, im.Uncertain)
		assert.True(t, inh.PassesGeneInheritance("TEST", im.Monoallelic))
	})

	t.Run("should check copy number for biallelic genes", func(t *testing.T) {
		child.CnvGenotype = cg.Del
		child.Info["CNS"] = "3"
		setMechanism(im.Biallelic, im.IncreasedGeneDosage)
		assert.False(t, inh.PassesGeneInheritance("TEST", im.Biallelic))

		child.Info["CNS"] = "0"
		setMechanism(im.Biallelic, im.LossOfFunction)
		assert.True(t, inh.PassesGeneInheritance("TEST", im.Biallelic))
	})

	t.Run("should require the X chromosome for X-linked dominant genes", func(t *testing.T) {
		child.CnvGenotype = cg.Dup
		child.Info["CNS"] = "3"
		setMechanism(im.XLinkedDominant, im.IncreasedGeneDosage)

		child.Chrom = "1"
		assert.False(t, inh.PassesGeneInheritance("TEST", im.XLinkedDominant))

		child.Chrom = "X"
		assert.True(t, inh.PassesGeneInheritance("TEST", im.XLinkedDominant))
	})

	t.Run("should restrict female hemizygous calls to duplications", func(t *testing.T) {
		child.Chrom = "X"
		child.SetSex("F")
		child.CnvGenotype = cg.Dup
		child.Info["CNS"] = "3"
		setMechanism(im.Hemizygous, im.IncreasedGeneDosage)
		assert.True(t, inh.PassesGeneInheritance("TEST", im.Hemizygous))

		child.CnvGenotype = cg.Del
		child.Info["CNS"] = "1"
		setMechanism(im.Hemizygous, im.LossOfFunction)
		assert.False(t, inh.PassesGeneInheritance("TEST", im.Hemizygous))
	})

	t.Run("should accept either deletion or duplication for male hemizygous calls", func(t *testing.T) {
		child.Chrom = "X"
		child.SetSex("M")
		child.CnvGenotype = cg.Del
		child.Info["CNS"] = "1"
		setMechanism(im.Hemizygous, im.LossOfFunction)
		assert.True(t, inh.PassesGeneInheritance("TEST", im.Hemizygous))

		child.CnvGenotype = cg.Dup
		child.Info["CNS"] = "3"
		setMechanism(im.Hemizygous, im.IncreasedGeneDosage)
		assert.True(t, inh.PassesGeneInheritance("TEST", im.Hemizygous))
	})

	t.Run("should fail modes with no dosage model", func(t *testing.T) {
		child.Chrom = "1"
		child.Info["CNS"] = "1"
		setMechanism(im.Mosaic, im.IncreasedGeneDosage)
		assert.False(t, inh.PassesGeneInheritance("TEST", im.Mosaic))
	})
}

func TestPassesDdg2pFilter(t *testing.T) {
	inh := makeCnvInheritance(t, "F")
	child := inh.Variant.Child
	child.Chrom = "1"
	child.Info["CNS"] = "3"
	child.CnvGenotype = cg.Dup

	t.Run("should fail without any panel", func(t *testing.T) {
		inh.KnownGenes = panel.KnownGenes{}
		assert.False(t, inh.PassesDdg2pFilter())

		inh.KnownGenes = nil
		assert.False(t, inh.PassesDdg2pFilter())
	})

	t.Run("should pass a matching mechanism in a confirmed gene", func(t *testing.T) {
		inh.KnownGenes = makeTestPanel(im.Monoallelic, im.IncreasedGeneDosage)
		assert.True(t, inh.PassesDdg2pFilter())
	})

	t.Run("should require an exact symbol match", func(t *testing.T) {
		inh.KnownGenes = makeTestPanel(im.Monoallelic, im.IncreasedGeneDosage)
		child.Gene = "TEST1"
		assert.False(t, inh.PassesDdg2pFilter())
		child.Gene = "TEST"
	})

	t.Run("should bypass the mechanism check for Both DD and IF genes", func(t *testing.T) {
		inh.KnownGenes = makeTestPanel(im.Monoallelic, im.LossOfFunction)
		inh.KnownGenes["TEST"].Status = map[string]bool{panel.StatusBothDDAndIF: true}
		assert.True(t, inh.PassesDdg2pFilter())
	})

	t.Run("should fail genes without a robust confirmed status", func(t *testing.T) {
		inh.KnownGenes = makeTestPanel(im.Monoallelic, im.LossOfFunction)
		inh.KnownGenes["TEST"].Status = map[string]bool{panel.StatusPossible: true}
		assert.False(t, inh.PassesDdg2pFilter())
	})

	t.Run("should pass when any overlapping gene passes", func(t *testing.T) {
		inh.KnownGenes = makeTestPanel(im.Monoallelic, im.LossOfFunction)
		inh.KnownGenes["TEST"].Status = map[string]bool{panel.StatusPossible: true}
		inh.KnownGenes["TEST2"] = &panel.KnownGene{
			Symbol: "TEST2",
			Inheritance: map[c.InheritanceMode]map[c.DosageMechanism]bool{
				im.Monoallelic: {im.IncreasedGeneDosage: true},
			},
			Status: map[string]bool{panel.StatusBothDDAndIF: true},
		}
		assert.False(t, inh.PassesDdg2pFilter())

		child.Gene = "TEST,TEST2"
		assert.True(t, inh.PassesDdg2pFilter())
	})
}

func TestPassesIntragenicDup(t *testing.T) {
	inh := makeCnvInheritance(t, "F")
	child := inh.Variant.Child
	child.CnvGenotype = cg.Dup
	inh.KnownGenes = makeTestPanel(im.Monoallelic, im.LossOfFunction)

	setRange := func(start int, end int) {
		child.Pos = start
		child.Info["END"] = strconv.Itoa(end)
	}

	t.Run("should pass a duplication inside the gene", func(t *testing.T) {
		setRange(5200, 5800)
		assert.True(t, inh.PassesIntragenicDup("TEST", im.Monoallelic))
	})

	t.Run("should fail a duplication surrounding the whole gene", func(t *testing.T) {
		setRange(4800, 6200)
		assert.False(t, inh.PassesIntragenicDup("TEST", im.Monoallelic))
	})

	t.Run("should fail a duplication matching the gene span exactly", func(t *testing.T) {
		setRange(5000, 6000)
		assert.False(t, inh.PassesIntragenicDup("TEST", im.Monoallelic))
	})

	t.Run("should pass a duplication protruding past one boundary", func(t *testing.T) {
		setRange(5200, 6200)
		assert.True(t, inh.PassesIntragenicDup("TEST", im.Monoallelic))

		setRange(4800, 5800)
		assert.True(t, inh.PassesIntragenicDup("TEST", im.Monoallelic))
	})

	t.Run("should only apply under dominant modes", func(t *testing.T) {
		setRange(5200, 5800)
		assert.True(t, inh.PassesIntragenicDup("TEST", im.XLinkedDominant))
		assert.False(t, inh.PassesIntragenicDup("TEST", im.Biallelic))
	})

	t.Run("should fail deletions", func(t *testing.T) {
		setRange(5200, 5800)
		child.CnvGenotype = cg.Del
		assert.False(t, inh.PassesIntragenicDup("TEST", im.Monoallelic))
	})
}

func TestCheckCnvRegionOverlap(t *testing.T) {
	inh := makeCnvInheritance(t, "F")
	child := inh.Variant.Child
	child.Chrom = "1"
	child.Pos = 1000
	child.AddInfo("END=2000")
	child.Info["CNS"] = "1"

	t.Run("should fail without any overlapping region", func(t *testing.T) {
		regions := panel.SyndromeRegions{
			{Chrom: "2", Start: 5000, End: 6000, CopyNumber: 1},
			{Chrom: "3", Start: 8000, End: 9000, CopyNumber: 0},
		}
		assert.False(t, inh.CheckCnvRegionOverlap(regions))
	})

	t.Run("should fail a range match on the wrong chromosome", func(t *testing.T) {
		regions := panel.SyndromeRegions{{Chrom: "2", Start: 1000, End: 2000, CopyNumber: 1}}
		assert.False(t, inh.CheckCnvRegionOverlap(regions))
	})

	t.Run("should fail a mismatched copy number", func(t *testing.T) {
		regions := panel.SyndromeRegions{{Chrom: "1", Start: 1000, End: 2000, CopyNumber: 2}}
		assert.False(t, inh.CheckCnvRegionOverlap(regions))
	})

	t.Run("should pass a full match", func(t *testing.T) {
		regions := panel.SyndromeRegions{{Chrom: "1", Start: 1000, End: 2000, CopyNumber: 1}}
		assert.True(t, inh.CheckCnvRegionOverlap(regions))
	})
}

func TestHasEnoughOverlap(t *testing.T) {
	t.Run("should pass full overlap", func(t *testing.T) {
		assert.True(t, HasEnoughOverlap(1000, 2000, 1000, 2000))
	})

	t.Run("should pass exactly one percent overlap", func(t *testing.T) {
		assert.True(t, HasEnoughOverlap(1000, 1010, 1000, 2000))
	})

	t.Run("should fail just under one percent overlap", func(t *testing.T) {
		assert.False(t, HasEnoughOverlap(1000, 1009, 1000, 2000))
	})

	t.Run("should be symmetric in its intervals", func(t *testing.T) {
		assert.True(t, HasEnoughOverlap(1000, 2000, 1000, 1010))
		assert.False(t, HasEnoughOverlap(1000, 2000, 1000, 1009))
	})

	t.Run("should handle single-base intervals", func(t *testing.T) {
		assert.True(t, HasEnoughOverlap(1000, 1000, 1000, 1050))
	})
}

func TestCheckCompoundInheritance(t *testing.T) {
	setUp := func(t *testing.T, childSex string, chrom string, mode c.InheritanceMode) *CNVInheritance {
		fam := makeFamily(childSex, "1", "1")
		trio := makeCnvTrio(t, childSex, chrom, 15000000)
		return NewCNVInheritance(trio, fam, makeTestPanel(mode, im.IncreasedGeneDosage), nil)
	}

	t.Run("should pass a large dosage-increasing CNV on size alone", func(t *testing.T) {
		inh := setUp(t, "F", "1", im.Biallelic)
		inh.Variant.Child.Info["CNS"] = "3"
		inh.Variant.Child.Info["SVLEN"] = "1000001"
		assert.True(t, inh.CheckCompoundInheritance())
	})

	t.Run("should fail a full deletion", func(t *testing.T) {
		inh := setUp(t, "F", "1", im.Biallelic)
		inh.Variant.Child.Info["CNS"] = "0"
		inh.Variant.Child.Info["SVLEN"] = "1000001"
		assert.False(t, inh.CheckCompoundInheritance())
	})

	t.Run("should pass a small CNV overlapping a biallelic panel gene", func(t *testing.T) {
		inh := setUp(t, "F", "1", im.Biallelic)
		inh.Variant.Child.Info["CNS"] = "1"
		inh.Variant.Child.Info["SVLEN"] = "999999"
		assert.True(t, inh.CheckCompoundInheritance())
	})

	t.Run("should fail a small CNV with no panel support", func(t *testing.T) {
		inh := setUp(t, "F", "1", im.Monoallelic)
		inh.Variant.Child.Info["CNS"] = "1"
		inh.Variant.Child.Info["SVLEN"] = "999999"
		assert.False(t, inh.CheckCompoundInheritance())
	})

	t.Run("should use the lower size threshold on the X chromosome", func(t *testing.T) {
		inh := setUp(t, "F", "X", im.Monoallelic)
		inh.Variant.Child.Info["CNS"] = "1"
		inh.Variant.Child.Info["SVLEN"] = "500001"
		assert.True(t, inh.CheckCompoundInheritance())
	})

	t.Run("should pass a small single-copy X CNV in a hemizygous gene for a female", func(t *testing.T) {
		inh := setUp(t, "F", "X", im.Hemizygous)
		inh.Variant.Child.Info["CNS"] = "1"
		inh.Variant.Child.Info["SVLEN"] = "499999"
		assert.True(t, inh.CheckCompoundInheritance())

		// wrong chromosome
		autosomal := setUp(t, "F", "1", im.Hemizygous)
		autosomal.Variant.Child.Info["CNS"] = "1"
		autosomal.Variant.Child.Info["SVLEN"] = "499999"
		assert.False(t, autosomal.CheckCompoundInheritance())

		// wrong sex
		male := setUp(t, "M", "X", im.Hemizygous)
		male.Variant.Child.Info["CNS"] = "1"
		male.Variant.Child.Info["SVLEN"] = "499999"
		assert.False(t, male.CheckCompoundInheritance())

		// wrong copy number
		inh.Variant.Child.Info["CNS"] = "3"
		assert.False(t, inh.CheckCompoundInheritance())
	})
}

func TestCheckCandidacy(t *testing.T) {
	t.Run("should accept a panel-supported CNV as a single candidate", func(t *testing.T) {
		inh := makeCnvInheritance(t, "F")
		inh.KnownGenes = makeTestPanel(im.Monoallelic, im.IncreasedGeneDosage)
		inh.Variant.Child.Info["CNS"] = "3"

		result := inh.CheckCandidacy()
		assert.Equal(t, cls.SingleVariant, result.Classification)
		assert.Equal(t, "cnv", result.Reason)
	})

	t.Run("should defer a compound-only CNV", func(t *testing.T) {
		fam := makeFamily("F", "1", "1")
		trio := makeCnvTrio(t, "F", "1", 15000000)
		inh := NewCNVInheritance(trio, fam, makeTestPanel(im.Biallelic, im.IncreasedGeneDosage), nil)
		inh.Variant.Child.Info["CNS"] = "1"

		result := inh.CheckCandidacy()
		assert.Equal(t, cls.CompoundHetPartner, result.Classification)
		assert.Equal(t, "compound_cnv", result.Reason)
	})

	t.Run("should reject an unsupported CNV", func(t *testing.T) {
		fam := makeFamily("F", "1", "1")
		trio := makeCnvTrio(t, "F", "1", 15000000)
		inh := NewCNVInheritance(trio, fam, nil, nil)
		inh.Variant.Child.Info["CNS"] = "0"

		result := inh.CheckCandidacy()
		assert.Equal(t, cls.Rejected, result.Classification)
	})
}

