package command

import (
	"context"

	"github.com/atomicstack/modbar/internal/logging"
	"github.com/atomicstack/modbar/internal/logging/events"
	"github.com/atomicstack/modbar/internal/metrics"
	"github.com/atomicstack/modbar/internal/module"
)

// Handler returns the controller handler interpreting ExecEvents for the
// module owning ctx. Invalid commands are reported and skipped. Scripts run
// as controller jobs so the receive loop keeps draining, and their results
// are discarded. Popup directives are forwarded to the UI.
func Handler[S any](ctx *module.Context[S, ExecEvent]) module.Handler[ExecEvent] {
	return func(c *module.Controller, ev ExecEvent) {
		id := ev.ID
		if id == 0 {
			id = ctx.ID
		}
		events.Command.Queue(uint64(id), ev.Cmd, ev.Args)

		parsed, err := Resolve(ev)
		if err != nil {
			logging.Error(err, "module", ctx.ID)
			events.Command.Invalid(uint64(id), ev.Cmd)
			metrics.CommandHandled(metrics.OutcomeInvalid)
			return
		}

		switch cmd := parsed.(type) {
		case Script:
			metrics.CommandHandled(metrics.OutcomeScript)
			runCtx := context.Background()
			if ctx.App != nil {
				runCtx = ctx.App.Context()
			}
			c.Go(func() {
				events.Command.Exec(uint64(id), cmd.Name, cmd.Args)
				out, err := cmd.Run(runCtx)
				if err != nil {
					logging.Error(err, "module", ctx.ID, "command", cmd.String())
					metrics.CommandHandled(metrics.OutcomeFailed)
					return
				}
				events.Command.Result(uint64(id), cmd.Name, out)
			})
		case Popup:
			metrics.CommandHandled(metrics.OutcomePopup)
			ev := cmd.Event(id)
			events.Command.Popup(uint64(id), ev.String())
			ctx.Emit(ev)
		}
	}
}
