package widget

import (
	"fmt"
	"strings"
)

// Orientation is the main axis of a bar or container.
type Orientation int

const (
	Horizontal Orientation = iota
	Vertical
)

func (o Orientation) String() string {
	if o == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// ConfigError reports a malformed configuration value.
type ConfigError struct {
	Field string
	Value string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s %q in config", e.Field, e.Value)
}

// ParseOrientation accepts horizontal, vertical, h or v, ignoring case.
func ParseOrientation(value string) (Orientation, error) {
	switch strings.ToLower(value) {
	case "horizontal", "h":
		return Horizontal, nil
	case "vertical", "v":
		return Vertical, nil
	default:
		return Horizontal, &ConfigError{Field: "orientation", Value: value}
	}
}

// SetLength applies a fixed length along the bar's main axis: a width under a
// horizontal bar and a height under a vertical one.
func SetLength(w Sizable, length int, bar Orientation) {
	if w == nil || length <= 0 {
		return
	}
	switch bar {
	case Horizontal:
		w.SetWidth(length)
	case Vertical:
		w.SetHeight(length)
	}
}
