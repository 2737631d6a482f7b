package custom

import (
	"fmt"

	"github.com/atomicstack/modbar/internal/module"
	"github.com/atomicstack/modbar/internal/widget"
	"gopkg.in/yaml.v3"
)

// Config describes a custom group: widgets for the bar and, optionally, for
// a popup.
type Config struct {
	Bar   []WidgetConfig
	Popup []WidgetConfig

	common widget.CommonConfig
}

// NewConfig assembles a custom group programmatically.
func NewConfig(common widget.CommonConfig, bar, popup []WidgetConfig) *Config {
	return &Config{Bar: bar, Popup: popup, common: common}
}

func (c *Config) Kind() string { return Name }

func (c *Config) Common() *widget.CommonConfig { return &c.common }

// WidgetConfig is one node of the tree: either a primitive widget or a
// nested module, plus the common presentation options.
type WidgetConfig struct {
	Node   WidgetOrModule
	Common widget.CommonConfig
}

// WidgetOrModule holds exactly one of Widget or Module.
type WidgetOrModule struct {
	Widget Widget
	Module module.Config
}

// WidgetNode wraps a primitive widget description.
func WidgetNode(w Widget, common widget.CommonConfig) WidgetConfig {
	return WidgetConfig{Node: WidgetOrModule{Widget: w}, Common: common}
}

// ModuleNode wraps a nested module description.
func ModuleNode(m module.Config, common widget.CommonConfig) WidgetConfig {
	return WidgetConfig{Node: WidgetOrModule{Module: m}, Common: common}
}

// ModuleDecoder decodes a nested module description. It is supplied by the
// module registry so this package never names concrete module kinds.
type ModuleDecoder func(node *yaml.Node) (module.Config, error)

// DecodeConfig decodes a custom group from node.
func DecodeConfig(node *yaml.Node, decodeModule ModuleDecoder) (*Config, error) {
	var raw struct {
		Bar                 []yaml.Node `yaml:"bar"`
		Popup               []yaml.Node `yaml:"popup"`
		widget.CommonConfig `yaml:",inline"`
	}
	if err := node.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode custom module: %w", err)
	}
	bar, err := decodeWidgetConfigs(raw.Bar, decodeModule)
	if err != nil {
		return nil, err
	}
	popup, err := decodeWidgetConfigs(raw.Popup, decodeModule)
	if err != nil {
		return nil, err
	}
	return NewConfig(raw.CommonConfig, bar, popup), nil
}

func decodeWidgetConfigs(nodes []yaml.Node, decodeModule ModuleDecoder) ([]WidgetConfig, error) {
	if len(nodes) == 0 {
		return nil, nil
	}
	out := make([]WidgetConfig, 0, len(nodes))
	for i := range nodes {
		wc, err := decodeWidgetConfig(&nodes[i], decodeModule)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", nodes[i].Line, err)
		}
		out = append(out, wc)
	}
	return out, nil
}

// decodeWidgetConfig tries the widget kinds first and falls back to a
// module, so a type name shared by both resolves to the widget.
func decodeWidgetConfig(node *yaml.Node, decodeModule ModuleDecoder) (WidgetConfig, error) {
	var head struct {
		Type                string `yaml:"type"`
		widget.CommonConfig `yaml:",inline"`
	}
	if err := node.Decode(&head); err != nil {
		return WidgetConfig{}, err
	}
	w, ok, err := decodeWidget(head.Type, node, decodeModule)
	if err != nil {
		return WidgetConfig{}, err
	}
	if ok {
		return WidgetNode(w, head.CommonConfig), nil
	}
	if decodeModule == nil {
		return WidgetConfig{}, fmt.Errorf("unknown widget type %q", head.Type)
	}
	m, err := decodeModule(node)
	if err != nil {
		return WidgetConfig{}, err
	}
	return ModuleNode(m, head.CommonConfig), nil
}

func decodeWidget(kind string, node *yaml.Node, decodeModule ModuleDecoder) (Widget, bool, error) {
	var (
		w   Widget
		err error
	)
	switch kind {
	case "box":
		var raw struct {
			Orientation string      `yaml:"orientation"`
			Widgets     []yaml.Node `yaml:"widgets"`
		}
		if err = node.Decode(&raw); err != nil {
			break
		}
		box := &BoxWidget{Orientation: raw.Orientation}
		box.Widgets, err = decodeWidgetConfigs(raw.Widgets, decodeModule)
		w = box
	case "label":
		label := &LabelWidget{}
		err = node.Decode(label)
		w = label
	case "button":
		button := &ButtonWidget{}
		err = node.Decode(button)
		w = button
	case "image":
		image := &ImageWidget{}
		err = node.Decode(image)
		w = image
	case "slider":
		slider := &SliderWidget{}
		err = node.Decode(slider)
		w = slider
	case "progress":
		progress := &ProgressWidget{}
		err = node.Decode(progress)
		w = progress
	default:
		return nil, false, nil
	}
	if err != nil {
		return nil, true, fmt.Errorf("decode %s widget: %w", kind, err)
	}
	return w, true, nil
}
