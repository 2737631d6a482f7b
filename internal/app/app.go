package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/atomicstack/modbar/internal/backend"
	"github.com/atomicstack/modbar/internal/config/barfile"
	"github.com/atomicstack/modbar/internal/logging"
	"github.com/atomicstack/modbar/internal/logging/events"
	"github.com/atomicstack/modbar/internal/metrics"
	"github.com/atomicstack/modbar/internal/module"
	"github.com/atomicstack/modbar/internal/modules"
	"github.com/atomicstack/modbar/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
)

// Config describes user-provided application options.
type Config struct {
	BarFile     string
	Position    string
	Output      string
	MetricsAddr string
	Watch       bool
}

const reloadInterval = 500 * time.Millisecond

// Run bootstraps and executes the Bubble Tea program.
func Run(cfg Config) error {
	bar, err := barfile.Load(cfg.BarFile)
	if err != nil {
		return err
	}

	handle := module.NewApp(modules.Factory{})
	defer handle.Stop()

	if cfg.MetricsAddr != "" {
		go func() {
			if err := metrics.Serve(handle.Context(), cfg.MetricsAddr); err != nil {
				logging.Error(fmt.Errorf("serve metrics: %w", err), "addr", cfg.MetricsAddr)
			}
		}()
	}

	var watcher *backend.Watcher
	if cfg.Watch {
		watcher, err = backend.NewWatcher(cfg.BarFile, reloadInterval)
		if err != nil {
			return fmt.Errorf("watch %s: %w", cfg.BarFile, err)
		}
		defer watcher.Stop()
	}

	model := ui.NewModel(ui.Options{
		App:      handle,
		Bar:      bar,
		BarPath:  cfg.BarFile,
		Position: cfg.Position,
		Output:   cfg.Output,
		Watcher:  watcher,
	})
	defer model.Close()

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(handle.Context()))
	_, err = program.Run()
	if errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, context.Canceled) {
		return nil
	}
	if err != nil {
		logging.Error(err)
	}
	events.App.Stop("exit")
	return err
}
