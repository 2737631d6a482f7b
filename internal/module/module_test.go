package module

import (
	"errors"
	"io"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/atomicstack/modbar/internal/logging"
	"github.com/atomicstack/modbar/internal/widget"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logging.SetOutput(io.Discard)
	os.Exit(m.Run())
}

type fakeWidget struct {
	text string
	tx   *Sender[string]
}

func (w *fakeWidget) Init() tea.Cmd          { return nil }
func (w *fakeWidget) Update(tea.Msg) tea.Cmd { return nil }
func (w *fakeWidget) View() string           { return w.text }

type echoModule struct {
	failController bool
	failWidget     bool

	mu      sync.Mutex
	handled []string
	ctx     *Context[string, string]
}

func (m *echoModule) Name() string { return "echo" }

func (m *echoModule) SpawnController(_ Info, ctx *Context[string, string], rx <-chan string) error {
	m.ctx = ctx
	if m.failController {
		return errors.New("controller refused")
	}
	_, err := ctx.Spawn(rx, func(_ *Controller, msg string) {
		m.mu.Lock()
		m.handled = append(m.handled, msg)
		m.mu.Unlock()
		ctx.Updates.Send(strings.ToUpper(msg))
	})
	return err
}

func (m *echoModule) IntoWidget(ctx *Context[string, string], _ Info) (Parts[*fakeWidget], error) {
	if m.failWidget {
		return Parts[*fakeWidget]{}, errors.New("widget refused")
	}
	return Parts[*fakeWidget]{Widget: &fakeWidget{text: ctx.Name, tx: ctx.Tx}}, nil
}

func (m *echoModule) received() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.handled...)
}

type popupModule struct {
	echoModule
}

func (m *popupModule) IntoPopup(_ *Sender[string], _ *Subscription[string], ctx *Context[string, string], _ Info) (widget.Widget, bool) {
	return &fakeWidget{text: "popup " + ctx.Name}, true
}

type recordingPopups struct {
	registered   map[ID]widget.Widget
	unregistered []ID
}

func newRecordingPopups() *recordingPopups {
	return &recordingPopups{registered: map[ID]widget.Widget{}}
}

func (r *recordingPopups) Register(id ID, node widget.Widget, _ []widget.Widget) {
	r.registered[id] = node
}

func (r *recordingPopups) Unregister(id ID) {
	delete(r.registered, id)
	r.unregistered = append(r.unregistered, id)
}

func waitTerminated(t *testing.T, c *Controller) {
	t.Helper()
	select {
	case <-c.Done():
	case <-time.After(2 * time.Second):
		t.Fatalf("controller %d did not terminate, state %s", c.ID(), c.State())
	}
	require.Equal(t, Terminated, c.State())
}

func TestCreateWiresControllerAndWidget(t *testing.T) {
	m := &echoModule{}
	app := NewApp(nil)
	defer app.Stop()

	parts, err := Create[*fakeWidget, string, string](m, NextID(), app, "echo-1", Info{}, nil)
	require.NoError(t, err)
	require.NotNil(t, parts.Widget)
	require.Equal(t, "echo-1", parts.Widget.View())
	require.Equal(t, "echo", parts.Kind())

	sub := m.ctx.Subscribe()
	require.NoError(t, parts.Widget.tx.TrySend("a"))
	require.NoError(t, parts.Widget.tx.TrySend("b"))

	for _, want := range []string{"A", "B"} {
		select {
		case got := <-sub.C:
			require.Equal(t, want, got)
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for %s", want)
		}
	}
	require.Equal(t, []string{"a", "b"}, m.received())

	ctrl := parts.Controller()
	require.NotNil(t, ctrl)
	time.Sleep(20 * time.Millisecond)
	require.Equal(t, Running, ctrl.State(), "controller must not stop while its channel is open")

	parts.Close()
	waitTerminated(t, ctrl)
	parts.Close()

	_, ok := <-sub.C
	require.False(t, ok, "subscription should close with the module")
}

func TestCreateWidgetFailureAbandonsController(t *testing.T) {
	m := &echoModule{failWidget: true}
	id := NextID()

	_, err := Create[*fakeWidget, string, string](m, id, NewApp(nil), "broken", Info{}, nil)
	require.Error(t, err)

	var cerr *ConstructionError
	require.True(t, errors.As(err, &cerr))
	require.Equal(t, "widget", cerr.Stage)
	require.Equal(t, id, cerr.ID)

	require.NotNil(t, m.ctx.Controller())
	waitTerminated(t, m.ctx.Controller())
}

func TestCreateControllerFailure(t *testing.T) {
	m := &echoModule{failController: true}
	popups := newRecordingPopups()

	_, err := Create[*fakeWidget, string, string](m, NextID(), NewApp(nil), "", Info{}, popups)
	var cerr *ConstructionError
	require.ErrorAs(t, err, &cerr)
	require.Equal(t, "controller", cerr.Stage)
	require.Empty(t, popups.registered)
	require.ErrorIs(t, m.ctx.Tx.TrySend("late"), ErrChannelClosed)
}

func TestCreateRegistersPopupFromPopupper(t *testing.T) {
	m := &popupModule{}
	popups := newRecordingPopups()
	id := NextID()

	parts, err := Create[*fakeWidget, string, string](m, id, NewApp(nil), "clock", Info{}, popups)
	require.NoError(t, err)
	require.NotNil(t, parts.Popup)
	require.Contains(t, popups.registered, id)
	require.Equal(t, "popup clock", popups.registered[id].View())

	parts.Close()
	require.Equal(t, []ID{id}, popups.unregistered)
	waitTerminated(t, parts.Controller())
}

func TestSpawnTwiceFails(t *testing.T) {
	tx := NewSender[string](NextID(), 1)
	ctx := &Context[struct{}, string]{ID: NextID(), Tx: tx, Updates: NewBroadcast[struct{}](1)}
	first, err := ctx.Spawn(tx.receiver(), func(*Controller, string) {})
	require.NoError(t, err)

	_, err = ctx.Spawn(tx.receiver(), func(*Controller, string) {})
	require.ErrorIs(t, err, ErrControllerExists)

	tx.Close()
	waitTerminated(t, first)
}

func TestControllerDrainsInFlightWork(t *testing.T) {
	tx := NewSender[int](NextID(), 4)
	release := make(chan struct{})
	started := make(chan struct{})
	ctrl := spawn(NextID(), tx.receiver(), func(c *Controller, _ int) {
		c.Go(func() {
			close(started)
			<-release
		})
	})

	require.NoError(t, tx.TrySend(1))
	<-started
	tx.Close()

	require.Eventually(t, func() bool { return ctrl.State() == Draining }, 2*time.Second, 5*time.Millisecond)
	close(release)
	waitTerminated(t, ctrl)
}

func TestInvalidMessagesDoNotStopController(t *testing.T) {
	tx := NewSender[string](NextID(), 4)
	var mu sync.Mutex
	var seen []string
	ctrl := spawn(NextID(), tx.receiver(), func(_ *Controller, msg string) {
		mu.Lock()
		defer mu.Unlock()
		if msg == "bad" {
			return
		}
		seen = append(seen, msg)
	})
	require.NoError(t, tx.TrySend("bad"))
	require.NoError(t, tx.TrySend("good"))
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) == 1
	}, 2*time.Second, 5*time.Millisecond)
	require.Equal(t, Running, ctrl.State())
	tx.Close()
	waitTerminated(t, ctrl)
}
