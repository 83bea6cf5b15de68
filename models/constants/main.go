package constants

/*
	Defines a set of base level
	constants and enums to be used
	throughout the clinical filter and
	it's associated services.
*/
type Zygosity int
type Sex int
type AffectedStatus int
type InheritanceContext int
type Classification int
type CnvGenotype int
type VariantKind int

type InheritanceMode string
type DosageMechanism string
