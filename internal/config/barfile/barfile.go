// Package barfile decodes the YAML file describing what the bar shows.
package barfile

import (
	"fmt"
	"os"

	"github.com/atomicstack/modbar/internal/module"
	"github.com/atomicstack/modbar/internal/modules"
	"gopkg.in/yaml.v3"
)

// Bar is the decoded bar file. Each section lists module descriptions in
// display order.
type Bar struct {
	Position  module.Position
	IconTheme map[string]string
	Start     []module.Config
	Center    []module.Config
	End       []module.Config
}

// Load reads and decodes the bar file at path.
func Load(path string) (Bar, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Bar{}, fmt.Errorf("read bar config: %w", err)
	}
	bar, err := Parse(data)
	if err != nil {
		return Bar{}, fmt.Errorf("%s: %w", path, err)
	}
	return bar, nil
}

// Parse decodes a bar file.
func Parse(data []byte) (Bar, error) {
	var raw struct {
		Position  string            `yaml:"position"`
		IconTheme map[string]string `yaml:"icon_theme"`
		Start     []yaml.Node       `yaml:"start"`
		Center    []yaml.Node       `yaml:"center"`
		End       []yaml.Node       `yaml:"end"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Bar{}, fmt.Errorf("parse bar config: %w", err)
	}
	position, err := module.ParsePosition(raw.Position)
	if err != nil {
		return Bar{}, err
	}
	bar := Bar{Position: position, IconTheme: raw.IconTheme}
	sections := []struct {
		name  string
		nodes []yaml.Node
		dst   *[]module.Config
	}{
		{"start", raw.Start, &bar.Start},
		{"center", raw.Center, &bar.Center},
		{"end", raw.End, &bar.End},
	}
	for _, section := range sections {
		cfgs, err := modules.DecodeList(section.nodes)
		if err != nil {
			return Bar{}, fmt.Errorf("%s section: %w", section.name, err)
		}
		*section.dst = cfgs
	}
	return bar, nil
}
