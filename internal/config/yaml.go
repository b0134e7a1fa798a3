package config

import (
	"encoding/json"
	"fmt"

	"github.com/goccy/go-yaml"
)

// FromYAML decodes a Config from its YAML (or JSON, a YAML subset) form.
// The YAML form is equivalent to the SDL form; SDL stays canonical.
func FromYAML(data []byte) (*Config, error) {
	jsonData, err := yaml.YAMLToJSON(data)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	var c Config
	if err := json.Unmarshal(jsonData, &c); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &c, nil
}

// ToYAML serializes the config for inspection and round-tripping.
func (c *Config) ToYAML() ([]byte, error) {
	return yaml.Marshal(c)
}
