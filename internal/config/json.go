package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mlaplante/passvault/internal/flagx"
)

// JsonConfig mirrors Config for JSON unmarshalling. Fields absent from the
// file keep their previous value.
type JsonConfig struct {
	DatabaseDSN     *string  `json:"database_dsn"`
	EncryptionKey   *string  `json:"encryption_key"`
	AllowedHTMLTags []string `json:"allowed_html_tags"`
	LogLevel        *string  `json:"log_level"`
}

// parseJson overlays values from the JSON file named by the -c/-config
// flags, when one is given.
func parseJson(config *Config) error {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return nil
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", jsonConfigFile, err)
	}

	if c.DatabaseDSN != nil {
		config.DatabaseDSN = *c.DatabaseDSN
	}
	if c.EncryptionKey != nil {
		config.EncryptionKey = *c.EncryptionKey
	}
	if c.AllowedHTMLTags != nil {
		config.AllowedHTMLTags = c.AllowedHTMLTags
	}
	if c.LogLevel != nil {
		config.LogLevel = *c.LogLevel
	}
	return nil
}
