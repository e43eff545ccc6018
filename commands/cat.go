package commands

import (
	"fmt"
	"io"

	"github.com/hostsh/hostsh/core/command"
)

// Cat concatenates the named files to stdout, or copies stdin when no
// file is given.
func Cat() *command.Command {
	cmd := command.New("cat", func(ctx *command.Context) int {
		files := ctx.PositionalStrings()
		if len(files) == 0 {
			if _, err := io.Copy(ctx.Stdout, ctx.Stdin); err != nil {
				fmt.Fprintf(ctx.Stderr, "cat: %v\n", err)
				return 1
			}
			return 0
		}

		for _, path := range files {
			fd, err := ctx.FS.Open(path)
			if err != nil {
				fmt.Fprintf(ctx.Stderr, "cat: %v\n", err)
				return 1
			}

			_, err = io.Copy(ctx.Stdout, fd)
			fd.Close()
			if err != nil {
				fmt.Fprintf(ctx.Stderr, "cat: %v\n", err)
				return 1
			}
		}

		return 0
	})
	cmd.Use = "cat [FILE]..."
	cmd.Short = "Concatenate files to standard output."
	return cmd.MustAddArg("file", command.ArgSpec{All: true})
}
