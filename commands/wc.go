package commands

import (
	"fmt"
	"io"
	"unicode"

	"github.com/hostsh/hostsh/core/command"
)

type wcCount struct {
	bytes int
	lines int
	words int

	inSpace bool
}

func (w *wcCount) Write(data []byte) (int, error) {
	for _, c := range data {
		isFirstByte := w.bytes == 0
		w.bytes++

		if c == '\n' {
			w.lines++
		}

		if unicode.IsSpace(rune(c)) {
			w.inSpace = true
		} else {
			if w.inSpace || isFirstByte {
				w.words++
			}
			w.inSpace = false
		}
	}

	return len(data), nil
}

// Wc counts newlines, words, and bytes on stdin, which is what it mostly
// does at the end of a pipeline.
func Wc() *command.Command {
	cmd := command.New("wc", func(ctx *command.Context) int {
		var count wcCount
		if _, err := io.Copy(&count, ctx.Stdin); err != nil {
			fmt.Fprintf(ctx.Stderr, "wc: %v\n", err)
			return 1
		}

		onlyLines := ctx.BoolOption("l")
		onlyWords := ctx.BoolOption("w")
		onlyBytes := ctx.BoolOption("c")
		nonePicked := !onlyLines && !onlyWords && !onlyBytes

		var cols []int
		if onlyLines || nonePicked {
			cols = append(cols, count.lines)
		}
		if onlyWords || nonePicked {
			cols = append(cols, count.words)
		}
		if onlyBytes || nonePicked {
			cols = append(cols, count.bytes)
		}

		for i, col := range cols {
			if i != 0 {
				fmt.Fprint(ctx.Stdout, " ")
			}
			fmt.Fprint(ctx.Stdout, col)
		}
		fmt.Fprintln(ctx.Stdout)

		return 0
	})
	cmd.Use = "wc [-lwc]"
	cmd.Short = "Count newlines, words, and bytes on standard input."
	return cmd.
		MustAddArg("-l", command.ArgSpec{Bool: true}).
		MustAddArg("-w", command.ArgSpec{Bool: true}).
		MustAddArg("-c", command.ArgSpec{Bool: true})
}
