// Package interp executes linked syntax trees: it expands variables and
// command substitutions, resolves each node's streams, and dispatches every
// stage as a job. All interpreter state travels in an explicit Session;
// there are no package-level tables.
package interp

import (
	"io"
	"os"
	"os/exec"
	"strconv"
	"sync/atomic"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/hostsh/hostsh/core/command"
)

// Session is the whole mutable state of one interpreter instance. The
// variable table and registry are only written by the goroutine running
// Execute; jobs never touch them except through a command.Context.
type Session struct {
	Vars     *Vars
	Registry *command.Registry

	// Default standard streams for stages without redirections.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// FS opens file redirection targets. Hosts can sandbox redirection
	// by swapping in a memory or read-only filesystem.
	FS afero.Fs

	// LookPath resolves names missing from the registry to external
	// executables.
	LookPath func(name string) (string, error)

	Log *zap.Logger

	exitRequested atomic.Bool
	exitCode      atomic.Int32
}

// NewSession builds a session with OS defaults: the process environment,
// streams, filesystem and PATH resolution.
func NewSession(registry *command.Registry) *Session {
	return &Session{
		Vars:     NewVarsFromEnviron(os.Environ(), os.Getpid()),
		Registry: registry,
		Stdin:    os.Stdin,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		FS:       afero.NewOsFs(),
		LookPath: exec.LookPath,
		Log:      zap.NewNop(),
	}
}

// RequestExit asks the owning front-end loop to end the session. Wired
// into command contexts so the exit builtin can reach it.
func (s *Session) RequestExit(code int) {
	s.exitCode.Store(int32(code))
	s.exitRequested.Store(true)
}

// ExitRequested reports whether a command asked to end the session, and
// with which code.
func (s *Session) ExitRequested() (int, bool) {
	return int(s.exitCode.Load()), s.exitRequested.Load()
}

// SetExitCode records a pipeline result in the $? variable.
func (s *Session) SetExitCode(code int) {
	s.Vars.Setenv(VarExitCode, strconv.Itoa(code))
}
