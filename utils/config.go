package utils

import (
	"os"

	"clinfilter/api/models"

	"gopkg.in/yaml.v2"
)

// OverrideConfigFromFile layers a YAML configuration file over the
// environment-derived config; absent file is not an error so
// deployments can run on environment variables alone
func OverrideConfigFromFile(cfg *models.Config, path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer f.Close()

	return yaml.NewDecoder(f).Decode(cfg)
}
