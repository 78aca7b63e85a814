package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"squirrelstash/internal/domain"
)

// Preset names accepted in the "preset" field of a ruleset file.
const (
	PresetClassic             = "classic"
	PresetNumericWhileHolding = "numeric_while_holding"
)

var presets = map[string]domain.Ruleset{
	PresetClassic:             domain.RulesetClassic,
	PresetNumericWhileHolding: domain.RulesetNumericWhileHolding,
}

// Preset returns the named ruleset.
func Preset(name string) (domain.Ruleset, bool) {
	r, ok := presets[name]
	return r, ok
}

type rulesetHeader struct {
	Preset string `json:"preset"`
}

// ParseRuleset reads a ruleset document. Fields present in the document override the
// chosen preset (classic when absent); anything still zero falls back to the defaults.
func ParseRuleset(data []byte) (domain.Ruleset, error) {
	var hdr rulesetHeader
	if err := json.Unmarshal(data, &hdr); err != nil {
		return domain.Ruleset{}, fmt.Errorf("failed to unmarshal ruleset: %w", err)
	}
	name := hdr.Preset
	if name == "" {
		name = PresetClassic
	}
	rules, ok := Preset(name)
	if !ok {
		return domain.Ruleset{}, fmt.Errorf("unknown ruleset preset %q", hdr.Preset)
	}

	if err := json.Unmarshal(data, &rules); err != nil {
		return domain.Ruleset{}, fmt.Errorf("failed to unmarshal ruleset: %w", err)
	}
	rules = rules.WithDefaults()
	if err := rules.Validate(); err != nil {
		return domain.Ruleset{}, fmt.Errorf("invalid ruleset: %w", err)
	}
	return rules, nil
}

var (
	ruleset  *domain.Ruleset
	loadOnce sync.Once
	loadErr  error
)

// LoadRuleset loads the ruleset from path once per process.
func LoadRuleset(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read ruleset: %w", err)
			return
		}
		r, err := ParseRuleset(data)
		if err != nil {
			loadErr = err
			return
		}
		ruleset = &r
	})
	return loadErr
}

// GetRuleset returns the loaded ruleset, or the default when none was loaded.
func GetRuleset() domain.Ruleset {
	if ruleset == nil {
		return domain.DefaultRuleset()
	}
	return *ruleset
}
