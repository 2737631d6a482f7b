// Package module implements the lifecycle shared by every bar module.
//
// A module pairs a widget, owned by the Bubble Tea program, with a controller
// goroutine that owns the module's non-UI state:
//   - Create allocates a bounded Sender (UI to controller) and a Broadcast
//     (controller to UI), spawns the controller, then builds the widget on the
//     caller's goroutine. A failure in either step closes both channels so a
//     half-built module is abandoned rather than leaked.
//   - Controllers consume their receive channel in order. Closing the channel
//     is the only way to stop one: the controller drains in-flight work and
//     terminates.
//   - Popup directives and other intents reach the UI through App events; a
//     controller never touches widgets directly.
//
// Concrete module kinds are reached through the Factory held by App, so code
// that composes modules (the bar, the custom group) never names them.
package module
