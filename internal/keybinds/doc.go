/*
Package keybinds maps keyboard events to dialog actions.

# Overview

A Registry holds one keymap per context. The dialog resolves every key
under ContextDefault:

	action, ok := registry.Match(keybinds.ContextDefault, msg.String())

The lookup is exact on the (context, key) pair. A key with no binding
resolves to nothing and must be ignored by the caller.

# Actions

  - Shutdown: power the machine off
  - Close: hide the dialog
  - Quit: stop the daemon

Any other action name may be bound. It resolves normally but the dialog
does nothing with it.

# Configuration File Format

Overrides live in keybinds.jsonc in the config directory. Comments and
trailing commas are accepted. Each entry maps an action to a
comma-separated key list and replaces that action's default keys:

	{
	  // "y" confirms as well as enter
	  "default": {
	    "Shutdown": "enter,y",
	    "Close": "c,esc,n",
	  },
	}

# Validation

The validator reports:
  - Empty or malformed keys
  - Shutdown or Close left without a key (error)
  - ctrl+c rebound away from Quit (warning)
  - Unknown action names (warning)

The registry is built once at startup and only read afterwards.
*/
package keybinds
