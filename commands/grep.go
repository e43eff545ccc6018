package commands

import (
	"bufio"
	"fmt"
	"regexp"

	"github.com/hostsh/hostsh/core/command"
)

// Grep filters stdin to the lines matching a pattern. -i ignores case,
// -v inverts the match, -n prefixes line numbers.
func Grep() *command.Command {
	cmd := command.New("grep", func(ctx *command.Context) int {
		pattern, _ := ctx.Positional[0].(string)
		if ctx.BoolOption("i") {
			pattern = "(?i)" + pattern
		}
		regex, err := regexp.Compile(pattern)
		if err != nil {
			fmt.Fprintf(ctx.Stderr, "grep: %v\n", err)
			return 2
		}

		invert := ctx.BoolOption("v")
		showLineNumbers := ctx.BoolOption("n")

		matched := false
		scanner := bufio.NewScanner(ctx.Stdin)
		lineNo := 1
		for scanner.Scan() {
			line := scanner.Bytes()
			if regex.Match(line) != invert {
				matched = true
				if showLineNumbers {
					fmt.Fprintf(ctx.Stdout, "%d:", lineNo)
				}
				fmt.Fprintf(ctx.Stdout, "%s\n", line)
			}
			lineNo++
		}

		if !matched {
			return 1
		}
		return 0
	})
	cmd.Use = "grep [-ivn] PATTERN"
	cmd.Short = "Filter standard input to lines matching a pattern."
	return cmd.
		MustAddArg("pattern", command.ArgSpec{NArgs: 1}).
		MustAddArg("-i", command.ArgSpec{Bool: true}).
		MustAddArg("-v", command.ArgSpec{Bool: true}).
		MustAddArg("-n", command.ArgSpec{Bool: true})
}
