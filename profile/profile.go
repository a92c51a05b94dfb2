// Package profile loads the target profile describing where the assembler
// places the text and data segments.
package profile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// TargetProfile represents the configuration for one assembly target.
type TargetProfile struct {
	Name     string `yaml:"name"`
	TextBase uint32 `yaml:"text_base"`
	DataBase uint32 `yaml:"data_base"`
}

// Default returns the profile used when no file is given: text at
// 0x00000000 and data at 0x10000000.
func Default() *TargetProfile {
	return &TargetProfile{
		Name:     "rv32i-bare",
		TextBase: 0x00000000,
		DataBase: 0x10000000,
	}
}

// Load reads a target profile from a YAML file. Fields absent from the
// file keep their default values.
func Load(filename string) (*TargetProfile, error) {
	raw, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open profile: %w", err)
	}

	prof := Default()
	if err := yaml.Unmarshal(raw, prof); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}
	return prof, nil
}
