// Package ui contains the Bubble Tea program that draws the bar. The Model
// is the single UI scheduler: every widget and the popup registry are only
// touched from its Update loop.
//
// Message flow:
//   - Key presses and window resizes go to typed handlers registered by
//     message type. Everything else is forwarded to every widget on the bar
//     and to every registered popup node, which is how broadcast values from
//     controllers (module.Message) reach the widgets that subscribed.
//   - Controllers never touch widgets. Popup intents they raise arrive on
//     the App event channel; Update waits on it and applies each event to
//     the popup registry.
//
// Lifetime:
//   - The bar is built from a barfile.Bar. Each section is a container of
//     modules added in configuration order; a module that fails to build is
//     logged and skipped.
//   - When a backend.Watcher reports a new bar file the whole bar is torn
//     down: every module is closed, which closes its channels so the
//     controllers drain and stop, and its popup is unregistered. The bar is
//     then rebuilt from the new description.
package ui
