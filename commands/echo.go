package commands

import (
	"fmt"
	"strings"

	"github.com/hostsh/hostsh/core/command"
)

// Echo writes its arguments to stdout separated by single spaces.
func Echo() *command.Command {
	cmd := command.New("echo", func(ctx *command.Context) int {
		fmt.Fprintln(ctx.Stdout, strings.Join(ctx.PositionalStrings(), " "))
		return 0
	})
	cmd.Use = "echo [ARG]..."
	cmd.Short = "Display a line of text."
	return cmd.MustAddArg("user-input", command.ArgSpec{All: true})
}
