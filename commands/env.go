package commands

import (
	"fmt"

	"github.com/hostsh/hostsh/core/command"
)

// Env prints the session variable table, one KEY=value per line in
// sorted order.
func Env() *command.Command {
	cmd := command.New("env", func(ctx *command.Context) int {
		for _, envDef := range ctx.Vars.Environ() {
			fmt.Fprintln(ctx.Stdout, envDef)
		}
		return 0
	})
	cmd.Use = "env"
	cmd.Short = "Print the session environment."
	return cmd
}
