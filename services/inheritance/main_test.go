package inheritance

import (
	"testing"

	c "clinfilter/api/models/constants"
	cls "clinfilter/api/models/constants/classification"
	im "clinfilter/api/models/constants/inheritance-mode"
	"clinfilter/api/models/ped"
	"clinfilter/api/models/variants"

	"github.com/stretchr/testify/assert"
)

// fixture helpers shared by the autosomal/allosomal/cnv tests

func makeFamily(childSex string, momAffected string, dadAffected string) *ped.Family {
	fam := ped.NewFamily("fam")
	fam.AddChild("child", "child.vcf", "2", childSex)
	_ = fam.AddMother("mother", "mother.vcf", momAffected, "2")
	_ = fam.AddFather("father", "father.vcf", dadAffected, "1")
	fam.SetChild()
	return fam
}

func makeChildOnlyFamily(childSex string) *ped.Family {
	fam := ped.NewFamily("fam")
	fam.AddChild("child", "child.vcf", "2", childSex)
	fam.SetChild()
	return fam
}

// genotypeFromCode maps the compact per-person codes used throughout
// the tests (0=hom ref, 1=het, 2=hom alt) to raw genotype fields
func genotypeFromCode(code byte) string {
	switch code {
	case '0':
		return "0/0"
	case '1':
		return "0/1"
	default:
		return "1/1"
	}
}

func makePointVariant(t *testing.T, chrom string, pos int, genotype string, sexCode string) *variants.Variant {
	v := variants.NewPointVariant(chrom, pos, ".", "A", "G", "50", "PASS")
	v.AddInfo("HGNC=TEST;CQ=stop_gained")
	v.AddFormat("GT:DP", genotype+":50")
	v.SetSex(sexCode)
	assert.NoError(t, v.SetGenotype())
	return v
}

// makeTrio builds one trio record from a child[/mother[/father]] code
// string, e.g. "210" for a hom alt child, het mother, hom ref father
func makeTrio(t *testing.T, fam *ped.Family, chrom string, pos int, codes string) *variants.TrioRecord {
	childSex := "F"
	if fam.Child.IsMale() {
		childSex = "M"
	}

	trio := variants.NewTrioRecord(makePointVariant(t, chrom, pos, genotypeFromCode(codes[0]), childSex))
	if len(codes) > 1 {
		trio.AddMotherVariant(makePointVariant(t, chrom, pos, genotypeFromCode(codes[1]), "F"))
	}
	if len(codes) > 2 {
		trio.AddFatherVariant(makePointVariant(t, chrom, pos, genotypeFromCode(codes[2]), "M"))
	}
	return trio
}

func TestEngineRouting(t *testing.T) {
	fam := makeFamily("F", "1", "1")
	trio := makeTrio(t, fam, "1", 15000000, "100")
	eng := newEngine([]*variants.TrioRecord{trio}, fam, im.NewModeSet(im.Monoallelic), im.NewModeSet(im.Monoallelic))

	t.Run("should append single-variant and hemizygous verdicts to candidates", func(t *testing.T) {
		eng.Candidates, eng.CompoundHets = nil, nil
		eng.Route(trio, Result{cls.SingleVariant, "apparent de novo"}, im.Monoallelic)
		eng.Route(trio, Result{cls.Hemizygous, "allosomal without parents"}, im.Hemizygous)
		assert.Len(t, eng.Candidates, 2)
		assert.Empty(t, eng.CompoundHets)
		assert.Equal(t, "apparent de novo", eng.Candidates[0].Reason)
	})

	t.Run("should append compound-het partners to the compound list", func(t *testing.T) {
		eng.Candidates, eng.CompoundHets = nil, nil
		eng.Route(trio, Result{cls.CompoundHetPartner, "deferred"}, im.Biallelic)
		assert.Empty(t, eng.Candidates)
		assert.Len(t, eng.CompoundHets, 1)
		assert.Equal(t, im.Biallelic, eng.CompoundHets[0].Mode)
	})

	t.Run("should drop rejected verdicts silently", func(t *testing.T) {
		eng.Candidates, eng.CompoundHets = nil, nil
		eng.Route(trio, Result{cls.Rejected, "non-mendelian trio"}, im.Monoallelic)
		assert.Empty(t, eng.Candidates)
		assert.Empty(t, eng.CompoundHets)
	})
}

func TestMatchesGeneMode(t *testing.T) {
	fam := makeFamily("F", "1", "1")
	trio := makeTrio(t, fam, "1", 15000000, "100")

	t.Run("should match when the gene's annotated modes intersect the engine's", func(t *testing.T) {
		eng := NewAutosomal([]*variants.TrioRecord{trio}, fam, im.NewModeSet(im.Biallelic, im.Mosaic))
		assert.True(t, eng.MatchesGeneMode())
	})

	t.Run("should not match a gene annotated only with an unsupported mode", func(t *testing.T) {
		eng := NewAutosomal([]*variants.TrioRecord{trio}, fam, im.NewModeSet(im.Mosaic))
		assert.False(t, eng.MatchesGeneMode())

		assert.NoError(t, eng.CheckVariants())
		assert.Empty(t, eng.Candidates)
		assert.Empty(t, eng.CompoundHets)
	})
}

func TestSetTrioGenotypes(t *testing.T) {
	t.Run("should resolve absent pedigree parents to nil genotypes", func(t *testing.T) {
		fam := makeChildOnlyFamily("F")
		trio := makeTrio(t, fam, "1", 15000000, "1")
		eng := newEngine([]*variants.TrioRecord{trio}, fam, im.NewModeSet(im.Monoallelic), im.NewModeSet(im.Monoallelic))

		eng.SetTrioGenotypes(trio)
		assert.NotNil(t, eng.child)
		assert.Nil(t, eng.mom)
		assert.Nil(t, eng.dad)
	})
}

func TestNonMendelianDowngrade(t *testing.T) {
	fam := makeFamily("F", "1", "1")

	t.Run("should reject a transmission error outright without a CNV nearby", func(t *testing.T) {
		trio := makeTrio(t, fam, "1", 15000000, "200")
		eng := newEngine([]*variants.TrioRecord{trio}, fam, im.NewModeSet(im.Biallelic), im.NewModeSet(im.Biallelic))
		eng.SetTrioGenotypes(trio)

		result := eng.nonMendelian()
		assert.Equal(t, cls.Rejected, result.Classification)
		assert.Equal(t, "non-mendelian trio", result.Reason)
	})

	t.Run("should downgrade to compound-het partner when a CNV shares the locus", func(t *testing.T) {
		trio := makeTrio(t, fam, "1", 15000000, "200")

		cnvChild := variants.NewStructuralVariant("1", 14990000, ".", "A", "<DEL>", "PASS")
		cnvChild.AddInfo("HGNC=TEST;END=15010000;SVLEN=20000;CNS=1")
		cnvChild.SetSex("F")
		assert.NoError(t, cnvChild.SetGenotype())
		cnvTrio := variants.NewTrioRecord(cnvChild)

		eng := newEngine([]*variants.TrioRecord{trio, cnvTrio}, fam, im.NewModeSet(im.Biallelic), im.NewModeSet(im.Biallelic))
		eng.SetTrioGenotypes(trio)

		result := eng.nonMendelian()
		assert.Equal(t, cls.CompoundHetPartner, result.Classification)
		assert.Equal(t, "non-mendelian, but CNV might affect call", result.Reason)
	})
}

// classification helpers used by the autosomal and allosomal tests

func classifyAutosomal(t *testing.T, fam *ped.Family, codes string, mode c.InheritanceMode) Result {
	trio := makeTrio(t, fam, "1", 15000000, codes)
	eng := NewAutosomal([]*variants.TrioRecord{trio}, fam, im.NewModeSet(mode))
	result, err := eng.ClassifyVariant(trio, mode)
	assert.NoError(t, err)
	return result
}

func classifyAllosomal(t *testing.T, fam *ped.Family, codes string, mode c.InheritanceMode) Result {
	trio := makeTrio(t, fam, "X", 15000000, codes)
	eng := NewAllosomal([]*variants.TrioRecord{trio}, fam, im.NewModeSet(mode))
	result, err := eng.ClassifyVariant(trio, mode)
	assert.NoError(t, err)
	return result
}
