package commands

import (
	"fmt"
	"time"

	"github.com/hostsh/hostsh/core/command"
)

// The small utilities below declare their schemas through FromFunc
// instead of AddArg; the parameter list is derived from the function
// signature.

func mustFromFunc(name, short string, fn interface{}, params []string, defaults map[string]interface{}) func() *command.Command {
	cmd, err := command.FromFunc(name, fn, params, defaults)
	if err != nil {
		panic(err)
	}
	cmd.Short = short
	return func() *command.Command { return cmd }
}

var derived = []func() *command.Command{
	mustFromFunc("true", "Do nothing, successfully.",
		func() int { return 0 }, nil, nil),

	mustFromFunc("false", "Do nothing, unsuccessfully.",
		func() int { return 1 }, nil, nil),

	mustFromFunc("sleep", "Pause for a number of seconds.",
		func(seconds float64) int {
			time.Sleep(time.Duration(seconds * float64(time.Second)))
			return 0
		}, []string{"seconds"}, nil),

	mustFromFunc("seq", "Print a sequence of numbers.",
		func(ctx *command.Context, last int) int {
			for i := 1; i <= last; i++ {
				fmt.Fprintln(ctx.Stdout, i)
			}
			return 0
		}, []string{"last"}, nil),
}

func init() {
	builtins = append(builtins, derived...)
}
