package events

import "github.com/atomicstack/modbar/internal/logging"

type UITracer struct{}

type PopupTracer struct{}

var (
	UI    = UITracer{}
	Popup = PopupTracer{}
)

func (UITracer) Focus(index int, kind string) {
	logging.Trace("ui.focus", map[string]interface{}{"index": index, "kind": kind})
}

func (UITracer) Activate(index int, kind string) {
	logging.Trace("ui.activate", map[string]interface{}{"index": index, "kind": kind})
}

func (UITracer) Resize(width, height int) {
	logging.Trace("ui.resize", map[string]interface{}{"width": width, "height": height})
}

func (PopupTracer) Register(id uint64, triggers int) {
	logging.Trace("popup.register", map[string]interface{}{"id": id, "triggers": triggers})
}

func (PopupTracer) Unregister(id uint64) {
	logging.Trace("popup.unregister", map[string]interface{}{"id": id})
}

func (PopupTracer) Open(id uint64) {
	logging.Trace("popup.open", map[string]interface{}{"id": id})
}

func (PopupTracer) Close(id uint64) {
	logging.Trace("popup.close", map[string]interface{}{"id": id})
}

func (PopupTracer) Unknown(id uint64) {
	logging.Trace("popup.unknown", map[string]interface{}{"id": id})
}
