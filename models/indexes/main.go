package indexes

import (
	"time"
)

// ClassificationResult is one candidate-variant verdict as indexed for
// downstream reporting
type ClassificationResult struct {
	FamilyId  string `json:"familyId"`
	ProbandId string `json:"probandId"`

	Gene       string `json:"gene"`
	VariantKey string `json:"variantKey"`
	Chrom      string `json:"chrom"`
	Pos        int    `json:"pos"`

	Classification  string `json:"classification"`
	Reason          string `json:"reason"`
	InheritanceMode string `json:"inheritanceMode"`

	CreatedTime time.Time `json:"createdTime"`
}

var MAPPING_FIELDS_KEYWORD_IG256 = map[string]interface{}{
	"keyword": map[string]interface{}{
		"type":         "keyword",
		"ignore_above": 256,
	},
}
var MAPPING_TEXT = map[string]interface{}{"type": "text", "fields": MAPPING_FIELDS_KEYWORD_IG256}
var MAPPING_LONG = map[string]interface{}{"type": "long"}
var MAPPING_DATE = map[string]interface{}{"type": "date"}

var CLASSIFICATIONS_INDEX_MAPPING = map[string]interface{}{
	"properties": map[string]interface{}{
		"familyId":        MAPPING_TEXT,
		"probandId":       MAPPING_TEXT,
		"gene":            MAPPING_TEXT,
		"variantKey":      MAPPING_TEXT,
		"chrom":           MAPPING_TEXT,
		"pos":             MAPPING_LONG,
		"classification":  MAPPING_TEXT,
		"reason":          MAPPING_TEXT,
		"inheritanceMode": MAPPING_TEXT,
		"createdTime":     MAPPING_DATE,
	},
}
