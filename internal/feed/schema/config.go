package schema

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FieldRef names one (table, field) pair.
type FieldRef struct {
	Table string `yaml:"table"`
	Field string `yaml:"field"`
}

// MappingConfig carries the feed-facing mapping knobs: the static rename
// table, the text-unwrap exception list, and the lookup-name fixups covering
// known naming inconsistencies between the feed and the reference tables.
// Loaded once at process start and read-only thereafter.
type MappingConfig struct {
	// Renames normalizes feed-specific key names before snake-casing applies.
	Renames map[string]string `yaml:"renames"`

	// TextExceptions lists fields the feed occasionally wraps in a bare
	// {"#text": value} shape without signaling it via LookupName.
	TextExceptions []FieldRef `yaml:"text_exceptions"`

	// LookupFixups maps feed-supplied lookup names onto registry names, e.g.
	// names that differ by a literal space.
	LookupFixups map[string]string `yaml:"lookup_fixups"`
}

// DefaultMappingConfig returns the mapping shipped with the binary.
func DefaultMappingConfig() MappingConfig {
	return MappingConfig{
		Renames: map[string]string{
			"ID":         "ddf_id",
			"#text":      "text",
			"Type":       "type",
			"ListingKey": "listing",
		},
		TextExceptions: []FieldRef{
			{Table: "listing", Field: "public_remarks"},
			{Table: "address", Field: "street_address"},
		},
		LookupFixups: map[string]string{
			"Measure Unit": "MeasureUnit",
			"Heating Type": "HeatingType",
		},
	}
}

// LoadMappingConfig merges an optional YAML override file over the defaults.
// An empty path returns the defaults unchanged.
func LoadMappingConfig(path string) (MappingConfig, error) {
	cfg := DefaultMappingConfig()
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read mapping config: %w", err)
	}

	var override MappingConfig
	if err := yaml.Unmarshal(raw, &override); err != nil {
		return cfg, fmt.Errorf("parse mapping config: %w", err)
	}

	for k, v := range override.Renames {
		cfg.Renames[k] = v
	}
	for k, v := range override.LookupFixups {
		cfg.LookupFixups[k] = v
	}
	cfg.TextExceptions = append(cfg.TextExceptions, override.TextExceptions...)
	return cfg, nil
}

// IsTextException reports whether (table, field) is on the unwrap list.
func (c MappingConfig) IsTextException(table, field string) bool {
	for _, ref := range c.TextExceptions {
		if ref.Table == table && ref.Field == field {
			return true
		}
	}
	return false
}

// FixupLookupName maps a feed-supplied lookup name onto its registry name.
func (c MappingConfig) FixupLookupName(name string) string {
	if fixed, ok := c.LookupFixups[name]; ok {
		return fixed
	}
	return name
}
