package module

import (
	"fmt"
	"strings"

	"github.com/atomicstack/modbar/internal/theme"
	"github.com/atomicstack/modbar/internal/widget"
)

// Position is the screen edge a bar is attached to.
type Position int

const (
	Top Position = iota
	Bottom
	Left
	Right
)

func (p Position) String() string {
	switch p {
	case Bottom:
		return "bottom"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "top"
	}
}

// Orientation returns the bar's main axis.
func (p Position) Orientation() widget.Orientation {
	if p == Left || p == Right {
		return widget.Vertical
	}
	return widget.Horizontal
}

// ParsePosition accepts top, bottom, left or right, ignoring case.
func ParsePosition(value string) (Position, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "top":
		return Top, nil
	case "bottom":
		return Bottom, nil
	case "left":
		return Left, nil
	case "right":
		return Right, nil
	default:
		return Top, &widget.ConfigError{Field: "position", Value: value}
	}
}

// Info is the read-only metadata handed to a module at construction.
type Info struct {
	Position Position
	Output   string
	Icons    *theme.Icons
}

// Orientation is shorthand for Position.Orientation.
func (i Info) Orientation() widget.Orientation {
	return i.Position.Orientation()
}

func (i Info) String() string {
	return fmt.Sprintf("%s@%s", i.Position, i.Output)
}
