package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/hostsh/hostsh/core/command"
)

// Help lists the registered commands, or prints the usage of a single
// command when given its name.
func Help() *command.Command {
	cmd := command.New("help", func(ctx *command.Context) int {
		name, _ := ctx.Positional[0].(string)

		if name != "" {
			target, ok := ctx.Registry.Lookup(name)
			if !ok {
				fmt.Fprintf(ctx.Stderr, "help: no such command: %s\n", name)
				return 1
			}
			if target.Use != "" {
				fmt.Fprintln(ctx.Stdout, "usage:", target.Use)
			}
			if target.Short != "" {
				fmt.Fprintln(ctx.Stdout, target.Short)
			}
			return 0
		}

		w := tabwriter.NewWriter(ctx.Stdout, 2, 8, 2, ' ', 0)
		for _, n := range ctx.Registry.Names() {
			c, _ := ctx.Registry.Lookup(n)
			fmt.Fprintf(w, "%s\t%s\n", n, c.Short)
		}
		w.Flush()
		return 0
	})
	cmd.Use = "help [COMMAND]"
	cmd.Short = "List commands or show one command's usage."
	return cmd.MustAddArg("command-name", command.ArgSpec{
		NArgs:   1,
		Default: "",
	})
}
