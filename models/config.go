package models

type Config struct {
	Debug bool `yaml:"debug" envconfig:"CLINFILTER_DEBUG"`

	Api struct {
		Url  string `yaml:"url" envconfig:"CLINFILTER_API_URL"`
		Port string `yaml:"port" envconfig:"CLINFILTER_API_INTERNAL_PORT"`

		TrioConcurrencyLevel int `yaml:"trioConcurrencyLevel" envconfig:"CLINFILTER_TRIO_CONCURRENCY_LEVEL" default:"4"`
	} `yaml:"api"`

	Filter struct {
		PedPath             string `yaml:"pedPath" envconfig:"CLINFILTER_PED_PATH"`
		KnownGenesPath      string `yaml:"knownGenesPath" envconfig:"CLINFILTER_KNOWN_GENES_PATH"`
		KnownGenesUrl       string `yaml:"knownGenesUrl" envconfig:"CLINFILTER_KNOWN_GENES_URL"`
		SyndromeRegionsPath string `yaml:"syndromeRegionsPath" envconfig:"CLINFILTER_SYNDROME_REGIONS_PATH"`

		// optional locus to emit verbose filter decisions for
		DebugChrom string `yaml:"debugChrom" envconfig:"CLINFILTER_DEBUG_CHROM"`
		DebugPos   int    `yaml:"debugPos" envconfig:"CLINFILTER_DEBUG_POS"`
	} `yaml:"filter"`

	Elasticsearch struct {
		Url      string `yaml:"url" envconfig:"CLINFILTER_ES_URL"`
		Username string `yaml:"username" envconfig:"CLINFILTER_ES_USERNAME"`
		Password string `yaml:"password" envconfig:"CLINFILTER_ES_PASSWORD"`
	} `yaml:"elasticsearch"`
}
