package variants

// TrioRecord groups one child call with the optional mother and father
// calls for the same locus. A nil parent means parental data was
// unavailable, not that the parent is homozygous reference.
type TrioRecord struct {
	Child  *Variant
	Mother *Variant
	Father *Variant
}

func NewTrioRecord(child *Variant) *TrioRecord {
	return &TrioRecord{Child: child}
}

func (t *TrioRecord) AddMotherVariant(mother *Variant) {
	t.Mother = mother
}

func (t *TrioRecord) AddFatherVariant(father *Variant) {
	t.Father = father
}

func (t *TrioRecord) IsCnv() bool {
	return t.Child.IsCnv()
}

func (t *TrioRecord) Chrom() string {
	return t.Child.Chrom
}

func (t *TrioRecord) Gene() string {
	return t.Child.Gene
}

func (t *TrioRecord) Key() string {
	return t.Child.Key()
}
