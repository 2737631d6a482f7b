// Package command implements the small vocabulary controllers understand:
// "!"-prefixed process invocations and the popup directives.
package command

import (
	"errors"
	"fmt"
	"strings"

	"github.com/atomicstack/modbar/internal/module"
	"github.com/kballard/go-shellquote"
)

// ExecEvent is what a UI element sends to its controller.
type ExecEvent struct {
	Cmd  string
	Args []string
	ID   module.ID
}

const (
	ScriptPrefix = "!"

	PopupToggle = "popup:toggle"
	PopupOpen   = "popup:open"
	PopupClose  = "popup:close"
)

// ErrInvalidCommand is wrapped by every CommandError.
var ErrInvalidCommand = errors.New("invalid command")

// CommandError reports a command string a controller cannot interpret.
type CommandError struct {
	Cmd    string
	Reason string
}

func (e *CommandError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("received invalid command: '%s'", e.Cmd)
	}
	return fmt.Sprintf("received invalid command: '%s': %s", e.Cmd, e.Reason)
}

func (e *CommandError) Unwrap() error {
	return ErrInvalidCommand
}

// Command is the parsed form of a command string.
type Command interface {
	isCommand()
}

// Popup is one of the reserved popup directives.
type Popup struct {
	Directive string
}

func (Popup) isCommand()  {}
func (Script) isCommand() {}

// Event converts the directive into the UI event for module id.
func (p Popup) Event(id module.ID) module.Event {
	switch p.Directive {
	case PopupOpen:
		return module.OpenPopup{ID: id}
	case PopupClose:
		return module.ClosePopup{}
	default:
		return module.TogglePopup{ID: id}
	}
}

// Parse interprets cmd. After the "!" prefix the remainder is split with
// shell quoting rules: the first word names the executable and the rest are
// its leading arguments. Repeated spaces never produce empty arguments.
func Parse(cmd string) (Command, error) {
	switch cmd {
	case PopupToggle, PopupOpen, PopupClose:
		return Popup{Directive: cmd}, nil
	}
	if !strings.HasPrefix(cmd, ScriptPrefix) {
		return nil, &CommandError{Cmd: cmd}
	}
	words, err := shellquote.Split(strings.TrimPrefix(cmd, ScriptPrefix))
	if err != nil {
		return nil, &CommandError{Cmd: cmd, Reason: err.Error()}
	}
	if len(words) == 0 {
		return nil, &CommandError{Cmd: cmd, Reason: "missing executable"}
	}
	return Script{Name: words[0], Args: words[1:]}, nil
}

// Resolve parses ev.Cmd and, for scripts, appends ev.Args verbatim after any
// arguments embedded in the string.
func Resolve(ev ExecEvent) (Command, error) {
	parsed, err := Parse(ev.Cmd)
	if err != nil {
		return nil, err
	}
	if script, ok := parsed.(Script); ok {
		return script.WithArgs(ev.Args...), nil
	}
	return parsed, nil
}
