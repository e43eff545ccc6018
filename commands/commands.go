// Package commands holds the built-in commands every interpreter session
// starts with. Hosts register their own commands alongside these through
// the same registry.
package commands

import (
	"github.com/hostsh/hostsh/core/command"
)

// builtins collects constructors so RegisterBuiltins stays one loop.
var builtins = []func() *command.Command{
	Cat,
	Echo,
	Env,
	Exit,
	Grep,
	Help,
	Wc,
}

// RegisterBuiltins installs every built-in command into reg.
func RegisterBuiltins(reg *command.Registry) {
	for _, ctor := range builtins {
		reg.Register(ctor())
	}
}
