package ui

import (
	"github.com/atomicstack/modbar/internal/backend"
	"github.com/atomicstack/modbar/internal/logging"
	"github.com/atomicstack/modbar/internal/module"
	tea "github.com/charmbracelet/bubbletea"
)

func waitForBackendEvent(w *backend.Watcher) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-w.Events()
		if !ok {
			return backendDoneMsg{}
		}
		return backendEventMsg{event: evt}
	}
}

type backendEventMsg struct {
	event backend.Event
}

type backendDoneMsg struct{}

// handleBackendEventMsg rebuilds the bar from a reloaded file. A file that
// fails to load leaves the running bar in place.
func (m *Model) handleBackendEventMsg(msg tea.Msg) tea.Cmd {
	eventMsg, ok := msg.(backendEventMsg)
	if !ok {
		return nil
	}
	var cmd tea.Cmd
	if err := eventMsg.event.Err; err != nil {
		logging.Error(err, "path", eventMsg.event.Path)
		m.errMsg = err.Error()
	} else {
		m.errMsg = ""
		cmd = m.build(eventMsg.event.Bar)
	}
	if m.backend != nil {
		return batch([]tea.Cmd{cmd, waitForBackendEvent(m.backend)})
	}
	return cmd
}

func (m *Model) handleBackendDoneMsg(tea.Msg) tea.Cmd {
	m.backend = nil
	return nil
}

func waitForAppEvent(app *module.App) tea.Cmd {
	return func() tea.Msg {
		select {
		case ev := <-app.Events():
			return appEventMsg{event: ev}
		case <-app.Context().Done():
			return nil
		}
	}
}

type appEventMsg struct {
	event module.Event
}

// handleAppEventMsg applies a popup intent raised by a controller.
func (m *Model) handleAppEventMsg(msg tea.Msg) tea.Cmd {
	eventMsg, ok := msg.(appEventMsg)
	if !ok {
		return nil
	}
	visible, _ := m.popups.Visible()
	if err := m.popups.Apply(eventMsg.event); err != nil {
		logging.Error(err, "event", eventMsg.event.String())
	}
	m.restoreFocus(visible)
	if m.app == nil {
		return nil
	}
	return waitForAppEvent(m.app)
}
