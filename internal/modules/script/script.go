// Package script runs a shell command on an interval and shows the last
// line of its output.
package script

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/atomicstack/modbar/internal/command"
	"github.com/atomicstack/modbar/internal/logging"
	"github.com/atomicstack/modbar/internal/module"
	"github.com/atomicstack/modbar/internal/theme"
	"github.com/atomicstack/modbar/internal/widget"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/truncate"
)

// Name is the module kind.
const Name = "script"

const DefaultInterval = 10 * time.Second

var ErrNoCommand = errors.New("script module has no command")

// Config describes a polled command.
type Config struct {
	Command             string `yaml:"command"`
	Interval            int    `yaml:"interval"`
	OnClick             string `yaml:"on_click"`
	Truncate            uint   `yaml:"truncate"`
	widget.CommonConfig `yaml:",inline"`
}

func (c *Config) Kind() string { return Name }

func (c *Config) Common() *widget.CommonConfig { return &c.CommonConfig }

func (c *Config) interval() time.Duration {
	if c.Interval <= 0 {
		return DefaultInterval
	}
	return time.Duration(c.Interval) * time.Millisecond
}

// Context is the construction bundle for a script module.
type Context = module.Context[string, command.ExecEvent]

// Module is the script module.
type Module struct {
	cfg *Config
}

func New(cfg *Config) *Module {
	return &Module{cfg: cfg}
}

func (m *Module) Name() string { return Name }

// SpawnController starts the command interpreter and the poller. Each poll
// waits for the previous run, so a slow command never overlaps itself. A run
// still going when the controller terminates is left to finish and its
// output dropped; only stopping the app cancels it.
func (m *Module) SpawnController(_ module.Info, ctx *Context, rx <-chan command.ExecEvent) error {
	if strings.TrimSpace(m.cfg.Command) == "" {
		return ErrNoCommand
	}
	c, err := ctx.Spawn(rx, command.Handler(ctx))
	if err != nil {
		return err
	}
	runCtx := context.Background()
	if ctx.App != nil {
		runCtx = ctx.App.Context()
	}
	go m.poll(runCtx, c.Done(), ctx)
	return nil
}

func (m *Module) poll(ctx context.Context, done <-chan struct{}, mctx *Context) {
	source := command.Shell(m.cfg.Command)
	ticker := time.NewTicker(m.cfg.interval())
	defer ticker.Stop()
	for {
		out, err := source.Run(ctx)
		select {
		case <-done:
			return
		default:
		}
		switch {
		case ctx.Err() != nil:
			return
		case err != nil:
			logging.Error(err, "module", mctx.ID, "command", m.cfg.Command)
		default:
			mctx.Updates.Send(lastLine(out))
		}
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func lastLine(out string) string {
	out = strings.TrimRight(out, "\n")
	if i := strings.LastIndexByte(out, '\n'); i >= 0 {
		return out[i+1:]
	}
	return out
}

func (m *Module) IntoWidget(ctx *Context, _ module.Info) (module.Parts[*Output], error) {
	return module.Parts[*Output]{Widget: &Output{
		id:       ctx.ID,
		sub:      ctx.Subscribe(),
		tx:       ctx.Tx,
		onClick:  m.cfg.OnClick,
		truncate: m.cfg.Truncate,
	}}, nil
}

// Output shows the most recent line broadcast by the controller.
type Output struct {
	Text string

	id       module.ID
	sub      *module.Subscription[string]
	tx       *module.Sender[command.ExecEvent]
	onClick  string
	truncate uint
	focused  bool
}

func (o *Output) Init() tea.Cmd {
	return o.sub.Wait(o.id)
}

func (o *Output) Update(msg tea.Msg) tea.Cmd {
	line, ok := msg.(module.Message[string])
	if !ok || !line.From(o.sub) {
		return nil
	}
	o.Text = line.Value
	if o.truncate > 0 {
		o.Text = truncate.StringWithTail(o.Text, o.truncate, "…")
	}
	return o.sub.Wait(o.id)
}

func (o *Output) View() string {
	styles := theme.Default()
	if o.focused {
		return styles.FocusedButton.Render(o.Text)
	}
	return styles.Label.Render(o.Text)
}

func (o *Output) Focus()        { o.focused = true }
func (o *Output) Blur()         { o.focused = false }
func (o *Output) Focused() bool { return o.focused }

func (o *Output) Activate() tea.Cmd {
	if o.onClick != "" {
		_ = o.tx.TrySend(command.ExecEvent{Cmd: o.onClick, ID: o.id})
	}
	return nil
}
