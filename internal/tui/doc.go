/*
Package tui runs the power-off dialog and the daemon's event dispatch loop.

# Architecture

The dialog is a Bubble Tea program. Its Update method is the only place
daemon state changes:
  - ipc events (Connected, DataReceived, Disconnected) arrive through
    Program.Send from the socket reader goroutines and drive the Tracker
  - key presses resolve through the keybind registry to an action
  - window size and focus messages drive the dialog Controller
  - a periodic tick flushes the history journal

Because every event is handled on this one goroutine, the Tracker and the
Controller need no locking, and a connection's Disconnected is always
handled after its DataReceived events.

# Files

  - model.go: Model, Update and lifecycle
  - ipc.go: socket event handling
  - keys.go: key resolution and actions
  - render.go: the dialog view
  - init.go: Run wires the socket server, the program and the journal
*/
package tui
