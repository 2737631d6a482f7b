// Package modules is the closed set of module kinds compiled into the bar.
// It decodes module descriptions and builds them, erasing each concrete
// module type so the bar can hold them uniformly.
package modules

import (
	"fmt"
	"time"

	"github.com/atomicstack/modbar/internal/command"
	"github.com/atomicstack/modbar/internal/module"
	"github.com/atomicstack/modbar/internal/modules/clock"
	"github.com/atomicstack/modbar/internal/modules/custom"
	"github.com/atomicstack/modbar/internal/modules/script"
	"github.com/atomicstack/modbar/internal/widget"
	"gopkg.in/yaml.v3"
)

// Kind describes one compiled-in module kind.
type Kind struct {
	Name        string
	Description string
	// Popup says whether the kind shows a popup: "yes", "no" or "optional".
	Popup string
}

var kinds = []Kind{
	{Name: custom.Name, Description: "composite group of widgets and nested modules", Popup: "optional"},
	{Name: clock.Name, Description: "current time with a calendar popup", Popup: "yes"},
	{Name: script.Name, Description: "last line of a periodically run command", Popup: "no"},
}

// Kinds lists the module kinds in registration order.
func Kinds() []Kind {
	return append([]Kind(nil), kinds...)
}

// UnknownKindError reports a description whose type names no module.
type UnknownKindError struct {
	Kind string
}

func (e *UnknownKindError) Error() string {
	if e.Kind == "" {
		return "module description has no type"
	}
	return fmt.Sprintf("unknown module type %q", e.Kind)
}

// Decode reads one module description.
func Decode(node *yaml.Node) (module.Config, error) {
	var head struct {
		Type string `yaml:"type"`
	}
	if err := node.Decode(&head); err != nil {
		return nil, err
	}
	var cfg module.Config
	switch head.Type {
	case custom.Name:
		return custom.DecodeConfig(node, Decode)
	case clock.Name:
		cfg = &clock.Config{}
	case script.Name:
		cfg = &script.Config{}
	default:
		return nil, &UnknownKindError{Kind: head.Type}
	}
	if err := node.Decode(cfg); err != nil {
		return nil, fmt.Errorf("decode %s module: %w", head.Type, err)
	}
	return cfg, nil
}

// DecodeList reads a sequence of module descriptions.
func DecodeList(nodes []yaml.Node) ([]module.Config, error) {
	out := make([]module.Config, 0, len(nodes))
	for i := range nodes {
		cfg, err := Decode(&nodes[i])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", nodes[i].Line, err)
		}
		out = append(out, cfg)
	}
	return out, nil
}

// Factory builds every compiled-in module kind.
type Factory struct{}

func (Factory) Create(cfg module.Config, id module.ID, app *module.App, name string, info module.Info, popups module.Popups) (module.Parts[widget.Widget], error) {
	switch c := cfg.(type) {
	case *custom.Config:
		return build[*widget.Box, struct{}, command.ExecEvent](custom.New(c), id, app, name, info, popups)
	case *clock.Config:
		return build[*clock.Clock, time.Time, command.ExecEvent](clock.New(c), id, app, name, info, popups)
	case *script.Config:
		return build[*script.Output, string, command.ExecEvent](script.New(c), id, app, name, info, popups)
	default:
		return module.Parts[widget.Widget]{}, &UnknownKindError{Kind: cfg.Kind()}
	}
}

func build[W widget.Widget, S, R any](m module.Module[W, S, R], id module.ID, app *module.App, name string, info module.Info, popups module.Popups) (module.Parts[widget.Widget], error) {
	parts, err := module.Create(m, id, app, name, info, popups)
	if err != nil {
		return module.Parts[widget.Widget]{}, err
	}
	return parts.Erase(), nil
}
