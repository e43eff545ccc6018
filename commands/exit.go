package commands

import (
	"fmt"

	"github.com/hostsh/hostsh/core/command"
)

// Exit requests the end of the interpreter session with an optional
// return code.
func Exit() *command.Command {
	cmd := command.New("exit", func(ctx *command.Context) int {
		code, ok := ctx.Positional[0].(int)
		if !ok {
			fmt.Fprintln(ctx.Stderr, "exit: numeric argument required")
			code = 2
		}
		if ctx.Exit != nil {
			ctx.Exit(code)
		}
		return code
	})
	cmd.Use = "exit [CODE]"
	cmd.Short = "End the session."
	return cmd.MustAddArg("retcode", command.ArgSpec{
		NArgs:   1,
		Dtype:   command.IntType,
		Default: 0,
	})
}
