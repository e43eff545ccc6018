package interp

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
)

// Reserved variable names maintained by the dispatch loop.
const (
	// VarExitCode holds the last pipeline's exit code ("$?").
	VarExitCode = "?"
	// VarShellPID holds the interpreter's own process id ("$!", "$$").
	VarShellPID = "!"
	// varSelfPID backs "$$".
	varSelfPID = "$"
)

var expandRegex = regexp.MustCompile(`\$([a-zA-Z_][a-zA-Z0-9_]*|[?!$])`)

// Vars is the session variable table: process environment plus shell-local
// assignments and the reserved entries. Only the session's dispatch
// goroutine writes to it, but concurrently running commands may read, so
// access is guarded.
type Vars struct {
	mu  sync.RWMutex
	env map[string]string
}

// NewVars creates an empty table.
func NewVars() *Vars {
	return &Vars{env: make(map[string]string)}
}

// NewVarsFromEnviron seeds a table from "key=value" pairs (typically
// os.Environ()) and the reserved entries for the given interpreter pid.
func NewVarsFromEnviron(environ []string, pid int) *Vars {
	v := NewVars()
	for _, entry := range environ {
		split := strings.SplitN(entry, "=", 2)
		key, value := split[0], ""
		if len(split) > 1 {
			value = split[1]
		}
		v.Setenv(key, value)
	}

	v.Setenv(VarExitCode, "0")
	v.Setenv(VarShellPID, fmt.Sprintf("%d", pid))
	v.Setenv(varSelfPID, fmt.Sprintf("%d", pid))
	return v
}

// Getenv retrieves the value for key, "" when unset.
func (v *Vars) Getenv(key string) string {
	value, _ := v.LookupEnv(key)
	return value
}

// LookupEnv retrieves the value for key and whether it was present.
func (v *Vars) LookupEnv(key string) (string, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	value, ok := v.env[key]
	return value, ok
}

// Setenv sets key to value.
func (v *Vars) Setenv(key, value string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.env[key] = value
}

// Environ returns the table as sorted "key=value" pairs.
func (v *Vars) Environ() []string {
	v.mu.RLock()
	defer v.mu.RUnlock()

	out := make([]string, 0, len(v.env))
	for k, val := range v.env {
		out = append(out, fmt.Sprintf("%s=%s", k, val))
	}
	sort.Strings(out)
	return out
}

// Expand replaces $NAME, $?, $! and $$ references with table values.
// Missing variables expand to the empty string.
func (v *Vars) Expand(s string) string {
	return expandRegex.ReplaceAllStringFunc(s, func(match string) string {
		return v.Getenv(match[1:])
	})
}
