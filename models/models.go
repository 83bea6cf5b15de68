package models

var VcfHeaders = []string{"chrom", "pos", "id", "ref", "alt", "qual", "filter", "info", "format"}

// PED columns, in file order (pedigree files carry no header row)
var PedHeaders = []string{"familyId", "individualId", "paternalId", "maternalId", "sex", "affectedStatus", "vcfPath"}
