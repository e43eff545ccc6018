// Package command holds the registry hosts populate with callable commands
// and the binder that maps a flat argument list onto a command's declared
// positional and optional parameters.
package command

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// NArgsAll makes a parameter consume every remaining token.
const NArgsAll = -1

// Dtype converts one raw token into a typed value.
type Dtype func(raw string) (interface{}, error)

// Built-in dtypes.
var (
	StringType Dtype = func(raw string) (interface{}, error) { return raw, nil }
	IntType    Dtype = func(raw string) (interface{}, error) { return strconv.Atoi(raw) }
	FloatType  Dtype = func(raw string) (interface{}, error) { return strconv.ParseFloat(raw, 64) }
	BoolType   Dtype = func(raw string) (interface{}, error) { return strconv.ParseBool(raw) }
)

// ParamSpec declares one parameter of a command. Optional parameters may
// have several flag spellings; all spellings share the same spec.
type ParamSpec struct {
	// FormattedName is the canonical name: longest spelling, dashes
	// stripped, inner dashes replaced with underscores.
	FormattedName string

	// Spellings are the accepted flag forms, e.g. ["-k", "--kwarg"].
	// Positional parameters have a single spelling equal to their name.
	Spellings []string

	// Dtype converts bound values; nil leaves them as strings.
	Dtype Dtype

	// NArgs is the number of tokens the parameter consumes: 0 only for
	// boolean switches, NArgsAll for "the rest of the line".
	NArgs int

	// Bool marks a zero-arity switch; binding yields true.
	Bool bool

	// Default is bound when the parameter is absent. A positional
	// without a default is required.
	Default interface{}
}

// ArgSpec is the host-facing declaration passed to AddArg.
type ArgSpec struct {
	NArgs   int
	All     bool
	Dtype   Dtype
	Default interface{}
	Bool    bool
}

// ProcessFunc is the callable behind a command. It runs on its own
// worker with fully resolved streams and bound arguments, and returns the
// stage's exit code.
type ProcessFunc func(ctx *Context) int

// Command is one registered callable with its parameter schema.
type Command struct {
	// Name is the unique registry key users type.
	Name string
	// Use holds a one line usage string.
	Use string
	// Short holds a one line description of the command.
	Short string

	Fn ProcessFunc

	// Positional parameters in declared order. An NArgsAll positional
	// must be last.
	Positional []*ParamSpec

	// Optional maps each flag spelling to its (shared) spec.
	Optional map[string]*ParamSpec
}

// New builds a command with an empty schema.
func New(name string, fn ProcessFunc) *Command {
	return &Command{
		Name:     name,
		Fn:       fn,
		Optional: make(map[string]*ParamSpec),
	}
}

// AddArg declares a parameter. A name with a leading '-' declares an
// optional flag; '|' separates alternate spellings ("-k|--kwarg").
// Everything else declares a positional parameter.
func (c *Command) AddArg(name string, spec ArgSpec) error {
	if name == "" {
		return fmt.Errorf("%s: empty parameter name", c.Name)
	}

	nargs := spec.NArgs
	if spec.All {
		nargs = NArgsAll
	}

	if !strings.HasPrefix(name, "-") {
		if spec.Bool {
			return fmt.Errorf("%s: positional %q cannot be a boolean switch", c.Name, name)
		}
		if nargs == 0 {
			nargs = 1
		}
		// Multi-token arity exists only for flags; a positional takes one
		// token or the rest of the line.
		if nargs != 1 && nargs != NArgsAll {
			return fmt.Errorf("%s: positional %q must take one token or all remaining tokens", c.Name, name)
		}
		c.Positional = append(c.Positional, &ParamSpec{
			FormattedName: formatName(name),
			Spellings:     []string{name},
			Dtype:         spec.Dtype,
			NArgs:         nargs,
			Default:       spec.Default,
		})
		return nil
	}

	// Optional flag.
	switch {
	case spec.Bool && nargs > 0:
		return fmt.Errorf("%s: boolean flag %q cannot accept values", c.Name, name)
	case !spec.Bool && nargs == 0 && !spec.All:
		nargs = 1
	case spec.Bool:
		nargs = 0
	}

	spellings := strings.Split(name, "|")
	param := &ParamSpec{
		FormattedName: longestFormatted(spellings),
		Spellings:     spellings,
		Dtype:         spec.Dtype,
		NArgs:         nargs,
		Bool:          spec.Bool,
		Default:       spec.Default,
	}

	for _, spelling := range spellings {
		c.Optional[spelling] = param
	}
	return nil
}

// MustAddArg is AddArg for static declarations; it panics on schema errors.
func (c *Command) MustAddArg(name string, spec ArgSpec) *Command {
	if err := c.AddArg(name, spec); err != nil {
		panic(err)
	}
	return c
}

func formatName(spelling string) string {
	return strings.ReplaceAll(strings.TrimLeft(spelling, "-"), "-", "_")
}

// longestFormatted picks the canonical name from a set of spellings, so
// "-k|--kwarg" formats to "kwarg".
func longestFormatted(spellings []string) string {
	best := ""
	for _, s := range spellings {
		if formatted := formatName(s); len(formatted) > len(best) {
			best = formatted
		}
	}
	return best
}

// Registry maps command names to commands. It is mutated only by the
// session's dispatch goroutine; the last registration for a name wins.
type Registry struct {
	commands map[string]*Command
}

func NewRegistry() *Registry {
	return &Registry{commands: make(map[string]*Command)}
}

// Register adds cmd under its name, replacing any previous registration.
func (r *Registry) Register(cmd *Command) {
	r.commands[cmd.Name] = cmd
}

// Lookup finds a command by name.
func (r *Registry) Lookup(name string) (*Command, bool) {
	cmd, ok := r.commands[name]
	return cmd, ok
}

// Names returns the registered command names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
