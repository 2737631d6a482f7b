package events

import "github.com/atomicstack/modbar/internal/logging"

type ModuleTracer struct{}

type ControllerTracer struct{}

type CommandTracer struct{}

var (
	Module     = ModuleTracer{}
	Controller = ControllerTracer{}
	Command    = CommandTracer{}
)

func (ModuleTracer) Created(id uint64, kind, name string, popup bool) {
	logging.Trace("module.created", map[string]interface{}{"id": id, "kind": kind, "name": name, "popup": popup})
}

func (ModuleTracer) Failed(id uint64, kind, name string, err error) {
	logging.Trace("module.failed", map[string]interface{}{"id": id, "kind": kind, "name": name, "error": err.Error()})
}

func (ModuleTracer) Closed(id uint64, kind string) {
	logging.Trace("module.closed", map[string]interface{}{"id": id, "kind": kind})
}

func (ControllerTracer) State(id uint64, state string) {
	logging.Trace("controller.state", map[string]interface{}{"id": id, "state": state})
}

func (ControllerTracer) Dropped(id uint64, err error) {
	logging.Trace("controller.dropped", map[string]interface{}{"id": id, "error": err.Error()})
}

func (CommandTracer) Queue(id uint64, cmd string, args []string) {
	logging.Trace("command.queue", map[string]interface{}{"id": id, "cmd": cmd, "args": args})
}

func (CommandTracer) Exec(id uint64, name string, args []string) {
	logging.Trace("command.exec", map[string]interface{}{"id": id, "name": name, "args": args})
}

func (CommandTracer) Result(id uint64, name string, output string) {
	logging.Trace("command.result", map[string]interface{}{"id": id, "name": name, "output": output})
}

func (CommandTracer) Popup(id uint64, directive string) {
	logging.Trace("command.popup", map[string]interface{}{"id": id, "directive": directive})
}

func (CommandTracer) Invalid(id uint64, cmd string) {
	logging.Trace("command.invalid", map[string]interface{}{"id": id, "cmd": cmd})
}
