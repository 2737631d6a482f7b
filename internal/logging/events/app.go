package events

import "github.com/atomicstack/modbar/internal/logging"

type AppTracer struct{}

var App = AppTracer{}

func (AppTracer) Start(payload map[string]interface{}) {
	logging.Trace("app.start", payload)
}

func (AppTracer) Reload(path string, modules int) {
	logging.Trace("app.reload", map[string]interface{}{"path": path, "modules": modules})
}

func (AppTracer) Stop(reason string) {
	logging.Trace("app.stop", map[string]interface{}{"reason": reason})
}
