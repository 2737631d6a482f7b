package barfile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/atomicstack/modbar/internal/module"
	"github.com/atomicstack/modbar/internal/modules"
	"github.com/atomicstack/modbar/internal/modules/clock"
	"github.com/atomicstack/modbar/internal/modules/custom"
	"github.com/atomicstack/modbar/internal/widget"
)

const sample = `
position: left
icon_theme:
  battery: B
start:
  - type: custom
    name: launcher
    bar:
      - type: button
        label: run
        on_click: "!echo hi"
center:
  - type: clock
    format: "15:04"
end:
  - type: script
    command: date
`

func TestParseReadsSectionsInOrder(t *testing.T) {
	bar, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if bar.Position != module.Left {
		t.Fatalf("expected left position, got %v", bar.Position)
	}
	if bar.IconTheme["battery"] != "B" {
		t.Fatalf("expected icon override, got %v", bar.IconTheme)
	}
	if len(bar.Start) != 1 || len(bar.Center) != 1 || len(bar.End) != 1 {
		t.Fatalf("unexpected section sizes %d/%d/%d", len(bar.Start), len(bar.Center), len(bar.End))
	}
	if _, ok := bar.Start[0].(*custom.Config); !ok {
		t.Fatalf("expected custom module in start, got %T", bar.Start[0])
	}
	if bar.Start[0].Common().Name != "launcher" {
		t.Fatalf("expected name launcher, got %q", bar.Start[0].Common().Name)
	}
	if _, ok := bar.Center[0].(*clock.Config); !ok {
		t.Fatalf("expected clock in center, got %T", bar.Center[0])
	}
}

func TestParseDefaultsToTop(t *testing.T) {
	bar, err := Parse([]byte("center: []\n"))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if bar.Position != module.Top {
		t.Fatalf("expected top, got %v", bar.Position)
	}
}

func TestParseRejectsBadPosition(t *testing.T) {
	_, err := Parse([]byte("position: sideways\n"))
	var cfgErr *widget.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
}

func TestParseRejectsUnknownModule(t *testing.T) {
	_, err := Parse([]byte("end:\n  - type: weather\n"))
	var unknown *modules.UnknownKindError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownKindError, got %v", err)
	}
}

func TestLoadReportsMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}
