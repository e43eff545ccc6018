package command

import (
	"fmt"
	"io"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Environ is the slice of the interpreter's variable table a callable may
// touch. The concrete table lives with the session.
type Environ interface {
	Getenv(key string) string
	Setenv(key, value string)
	Environ() []string
}

// Context carries everything one invocation needs: bound arguments, the
// resolved streams for this pipeline stage, and the session facilities the
// builtins use. Callables must use these streams, never the process-wide
// ones; concurrent stages would otherwise interleave.
type Context struct {
	// Cmd is the command being invoked.
	Cmd *Command

	// Positional holds the bound positional values in declared order,
	// converted by each parameter's dtype.
	Positional []interface{}

	// Options maps formatted option names to bound values: true for
	// switches, []string for valued options. Absent options are absent
	// from the map; use Option to fall back to declared defaults.
	Options map[string]interface{}

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Vars is the session variable table.
	Vars Environ

	// FS is the filesystem file arguments resolve against, shared with
	// the session's redirections.
	FS afero.Fs

	// Registry is the session command registry, e.g. for help or for
	// commands that register other commands at runtime.
	Registry *Registry

	// Exit requests the end of the interpreter session. Wired by the
	// front-end; nil when the host did not provide one.
	Exit func(code int)

	Log *zap.Logger
}

// Option returns the bound value for an optional parameter, falling back
// to its declared default. ok is false when neither exists.
func (ctx *Context) Option(formattedName string) (interface{}, bool) {
	if v, ok := ctx.Options[formattedName]; ok {
		return v, true
	}
	for _, spec := range ctx.Cmd.Optional {
		if spec.FormattedName == formattedName && spec.Default != nil {
			return spec.Default, true
		}
	}
	return nil, false
}

// BoolOption reports whether a switch was set.
func (ctx *Context) BoolOption(formattedName string) bool {
	v, ok := ctx.Option(formattedName)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// StringOption returns the first value of a valued option, or its default,
// or "".
func (ctx *Context) StringOption(formattedName string) string {
	v, ok := ctx.Option(formattedName)
	if !ok {
		return ""
	}
	switch val := v.(type) {
	case string:
		return val
	case []string:
		if len(val) > 0 {
			return val[0]
		}
		return ""
	default:
		return fmt.Sprintf("%v", val)
	}
}

// PositionalStrings renders the positional values back to strings, which
// is what variadic text-oriented commands want.
func (ctx *Context) PositionalStrings() []string {
	out := make([]string, 0, len(ctx.Positional))
	for _, v := range ctx.Positional {
		if s, ok := v.(string); ok {
			out = append(out, s)
			continue
		}
		out = append(out, fmt.Sprintf("%v", v))
	}
	return out
}
