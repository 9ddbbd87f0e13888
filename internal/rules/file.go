package rules

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type fileRule struct {
	Name             string   `yaml:"name"`
	MerchantContains []string `yaml:"merchant_contains"`
	Subcategory      string   `yaml:"subcategory"`
}

type fileConfig struct {
	Rules []fileRule `yaml:"rules"`
}

// LoadFile reads keyword rules from a YAML file. An empty path yields no rules.
func LoadFile(path string) ([]Rule, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rules file: %w", err)
	}

	return Parse(data)
}

// Parse decodes rules from YAML.
func Parse(data []byte) ([]Rule, error) {
	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing rules file: %w", err)
	}

	rules := make([]Rule, 0, len(cfg.Rules))

	for i, fr := range cfg.Rules {
		name := fr.Name
		if name == "" {
			name = fmt.Sprintf("rule #%d", i+1)
		}

		if len(fr.MerchantContains) == 0 {
			return nil, fmt.Errorf("%s: merchant_contains is empty", name)
		}

		if fr.Subcategory == "" {
			return nil, fmt.Errorf("%s: subcategory is required", name)
		}

		rules = append(rules, Rule{
			Name:        name,
			Subcategory: fr.Subcategory,
			Match:       MerchantContains(fr.MerchantContains...),
		})
	}

	return rules, nil
}
