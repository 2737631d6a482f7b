// Package clock shows the current time. Its controller ticks and broadcasts
// the time to every subscribed widget; activating the clock toggles a
// calendar popup.
package clock

import (
	"fmt"
	"strings"
	"time"

	"github.com/atomicstack/modbar/internal/command"
	"github.com/atomicstack/modbar/internal/module"
	"github.com/atomicstack/modbar/internal/theme"
	"github.com/atomicstack/modbar/internal/widget"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Name is the module kind.
const Name = "clock"

const (
	DefaultFormat   = "15:04"
	DefaultInterval = time.Second
)

// Config describes a clock.
type Config struct {
	Format              string `yaml:"format"`
	Interval            int    `yaml:"interval"`
	OnClick             string `yaml:"on_click"`
	widget.CommonConfig `yaml:",inline"`
}

func (c *Config) Kind() string { return Name }

func (c *Config) Common() *widget.CommonConfig { return &c.CommonConfig }

func (c *Config) layout() string {
	if strings.TrimSpace(c.Format) == "" {
		return DefaultFormat
	}
	return c.Format
}

func (c *Config) interval() time.Duration {
	if c.Interval <= 0 {
		return DefaultInterval
	}
	return time.Duration(c.Interval) * time.Millisecond
}

func (c *Config) onClick() string {
	if c.OnClick == "" {
		return command.PopupToggle
	}
	return c.OnClick
}

// Context is the construction bundle for a clock.
type Context = module.Context[time.Time, command.ExecEvent]

// Module is the clock module.
type Module struct {
	cfg *Config
	now func() time.Time
}

// New returns a clock for cfg.
func New(cfg *Config) *Module {
	return &Module{cfg: cfg, now: time.Now}
}

func (m *Module) Name() string { return Name }

// SpawnController starts the command interpreter and the ticker. The
// ticker stops once the controller terminates.
func (m *Module) SpawnController(_ module.Info, ctx *Context, rx <-chan command.ExecEvent) error {
	c, err := ctx.Spawn(rx, command.Handler(ctx))
	if err != nil {
		return err
	}
	stop := c.Done()
	appDone := make(<-chan struct{})
	if ctx.App != nil {
		appDone = ctx.App.Context().Done()
	}
	go func() {
		ticker := time.NewTicker(m.cfg.interval())
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-appDone:
				return
			case <-ticker.C:
				ctx.Updates.Send(m.now())
			}
		}
	}()
	return nil
}

func (m *Module) IntoWidget(ctx *Context, _ module.Info) (module.Parts[*Clock], error) {
	clock := &Clock{
		id:      ctx.ID,
		layout:  m.cfg.layout(),
		now:     m.now(),
		sub:     ctx.Subscribe(),
		onClick: m.cfg.onClick(),
		tx:      ctx.Tx,
	}
	return module.Parts[*Clock]{Widget: clock}, nil
}

// IntoPopup shows a calendar for the current month.
func (m *Module) IntoPopup(_ *module.Sender[command.ExecEvent], sub *module.Subscription[time.Time], ctx *Context, _ module.Info) (widget.Widget, bool) {
	return &Calendar{id: ctx.ID, now: m.now(), sub: sub}, true
}

// Clock is the bar widget.
type Clock struct {
	id      module.ID
	layout  string
	now     time.Time
	sub     *module.Subscription[time.Time]
	onClick string
	tx      *module.Sender[command.ExecEvent]
	focused bool
}

func (c *Clock) Init() tea.Cmd {
	return c.sub.Wait(c.id)
}

func (c *Clock) Update(msg tea.Msg) tea.Cmd {
	tick, ok := msg.(module.Message[time.Time])
	if !ok || !tick.From(c.sub) {
		return nil
	}
	c.now = tick.Value
	return c.sub.Wait(c.id)
}

func (c *Clock) View() string {
	styles := theme.Default()
	if c.focused {
		return styles.FocusedButton.Render(c.now.Format(c.layout))
	}
	return styles.Label.Render(c.now.Format(c.layout))
}

func (c *Clock) Focus()        { c.focused = true }
func (c *Clock) Blur()         { c.focused = false }
func (c *Clock) Focused() bool { return c.focused }

func (c *Clock) Activate() tea.Cmd {
	_ = c.tx.TrySend(command.ExecEvent{Cmd: c.onClick, ID: c.id})
	return nil
}

// Calendar is the popup widget: the month of the last tick with today
// highlighted.
type Calendar struct {
	id  module.ID
	now time.Time
	sub *module.Subscription[time.Time]
}

func (c *Calendar) Init() tea.Cmd {
	return c.sub.Wait(c.id)
}

func (c *Calendar) Update(msg tea.Msg) tea.Cmd {
	tick, ok := msg.(module.Message[time.Time])
	if !ok || !tick.From(c.sub) {
		return nil
	}
	c.now = tick.Value
	return c.sub.Wait(c.id)
}

func (c *Calendar) View() string {
	return renderMonth(c.now)
}

func renderMonth(now time.Time) string {
	styles := theme.Default()
	var b strings.Builder
	b.WriteString(lipgloss.PlaceHorizontal(20, lipgloss.Center, now.Format("January 2006")))
	b.WriteString("\nMo Tu We Th Fr Sa Su\n")

	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	offset := (int(first.Weekday()) + 6) % 7
	b.WriteString(strings.Repeat("   ", offset))
	days := first.AddDate(0, 1, -1).Day()
	for day := 1; day <= days; day++ {
		cell := fmt.Sprintf("%2d", day)
		if day == now.Day() {
			cell = styles.FocusedButton.Render(cell)
		}
		b.WriteString(cell)
		switch {
		case day == days:
		case (offset+day)%7 == 0:
			b.WriteString("\n")
		default:
			b.WriteString(" ")
		}
	}
	return b.String()
}
