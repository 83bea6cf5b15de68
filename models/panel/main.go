package panel

import (
	c "clinfilter/api/models/constants"
)

// Confirmed-status labels robust enough to report against
const (
	StatusConfirmed   string = "Confirmed DD Gene"
	StatusProbable    string = "Probable DD gene"
	StatusBothDDAndIF string = "Both DD and IF"
	StatusPossible    string = "Possible DD Gene"
)

// KnownGene is one curated gene-disease panel entry (DDG2P shaped):
// the inheritance modes the gene is reported under, the dosage
// mechanisms per mode, its confirmed-status labels and GENCODE range.
type KnownGene struct {
	Symbol string

	Inheritance map[c.InheritanceMode]map[c.DosageMechanism]bool
	Status      map[string]bool

	Chrom string
	Start int
	End   int
}

// Modes collects the inheritance modes this gene is annotated with
func (kg *KnownGene) Modes() map[c.InheritanceMode]bool {
	modes := map[c.InheritanceMode]bool{}
	for mode := range kg.Inheritance {
		modes[mode] = true
	}
	return modes
}

func (kg *KnownGene) SupportsMode(mode c.InheritanceMode) bool {
	_, ok := kg.Inheritance[mode]
	return ok
}

func (kg *KnownGene) MechanismsFor(mode c.InheritanceMode) map[c.DosageMechanism]bool {
	return kg.Inheritance[mode]
}

// HasRobustStatus reports whether any of the gene's confirmed-status
// labels is in the reporting allow-list
func (kg *KnownGene) HasRobustStatus() bool {
	return kg.Status[StatusConfirmed] || kg.Status[StatusProbable]
}

func (kg *KnownGene) IsBothDDAndIF() bool {
	return kg.Status[StatusBothDDAndIF]
}

// KnownGenes is the full panel keyed by gene symbol, loaded once
// per run and treated as read-only thereafter
type KnownGenes map[string]*KnownGene

func (kgs KnownGenes) Has(symbol string) bool {
	if kgs == nil {
		return false
	}
	_, ok := kgs[symbol]
	return ok
}

// SyndromeRegion is one (chromosome, range) -> expected copy-number
// record, relevant only to structural variants
type SyndromeRegion struct {
	Chrom      string `json:"chrom"`
	Start      int    `json:"start"`
	End        int    `json:"end"`
	CopyNumber int    `json:"copyNumber"`
}

type SyndromeRegions []SyndromeRegion
