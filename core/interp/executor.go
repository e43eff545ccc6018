package interp

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/hostsh/hostsh/core/ast"
	"github.com/hostsh/hostsh/core/command"
	"github.com/hostsh/hostsh/core/job"
)

var assignmentRegex = regexp.MustCompile(`^([a-zA-Z_][a-zA-Z0-9_]*)=(.*)$`)

// CommandNotFoundError reports a name that resolved neither in the
// registry nor as an external executable. It is reported to the error
// stream and never aborts the line.
type CommandNotFoundError struct {
	Name string
}

func (e *CommandNotFoundError) Error() string {
	return fmt.Sprintf("%s: command not found", e.Name)
}

// StreamSet carries caller-supplied stream overrides into Execute, used
// when recursing into a subshell. A nil field means no override.
//
// Overrides replace only Inherited destinations: a stage's own linked pipe
// or file redirection always wins, mirroring the linker's rule that
// parse-time redirections are never overwritten.
type StreamSet struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Execute walks an ordered, linked node list and dispatches each node as a
// job. It returns the job of the last node that produced one; assignment
// lines and unresolved commands produce none. Syntax and binding errors
// abort the line and surface as the returned error.
func (s *Session) Execute(nodes []ast.Node, ov StreamSet) (job.Job, error) {
	var lastJob job.Job

	for _, node := range nodes {
		switch n := node.(type) {
		case *ast.CommandNode:
			j, err := s.executeCommand(n, ov)
			if err != nil {
				return nil, err
			}
			if j != nil {
				lastJob = j
			}

		case *ast.SubshellNode:
			j, err := s.executeSubshell(n, ov)
			if err != nil {
				return nil, err
			}
			if j != nil {
				lastJob = j
			}
		}
	}

	return lastJob, nil
}

func (s *Session) executeCommand(n *ast.CommandNode, ov StreamSet) (job.Job, error) {
	args, err := s.expandArgs(n.Args)
	if err != nil {
		return nil, err
	}
	if len(args) == 0 {
		return nil, nil
	}

	// NAME=value as the first word is an assignment, not a dispatch.
	if m := assignmentRegex.FindStringSubmatch(args[0]); m != nil {
		s.Vars.Setenv(m[1], strings.TrimSpace(m[2]))
		return nil, nil
	}

	streams, err := s.resolveStreams(&n.StdStreams, ov)
	if err != nil {
		return nil, err
	}

	name := args[0]
	if cmd, ok := s.Registry.Lookup(name); ok {
		return s.startGoJob(cmd, args[1:], streams)
	}

	path, err := s.LookPath(name)
	if err != nil {
		// Non-fatal: report and continue the line with no job for
		// this node.
		notFound := &CommandNotFoundError{Name: name}
		fmt.Fprintln(streams.Stderr, notFound.Error())
		closeOwned(streams)
		s.Log.Debug("command not found", zap.String("name", name))
		return nil, nil
	}

	j, err := job.StartProc(path, args, streams, job.Capture{})
	if err != nil {
		fmt.Fprintf(streams.Stderr, "%s: %v\n", name, err)
		closeOwned(streams)
		return nil, nil
	}

	s.Log.Debug("started process job",
		zap.String("id", j.ID().String()),
		zap.String("path", path),
		zap.Int("pid", j.PID()))
	return j, nil
}

func (s *Session) startGoJob(cmd *command.Command, args []string, streams job.Streams) (job.Job, error) {
	bound, err := command.Bind(cmd, args)
	if err != nil {
		closeOwned(streams)
		return nil, err
	}

	ctx := &command.Context{
		Cmd:        cmd,
		Positional: bound.Positional,
		Options:    bound.Options,
		Stdin:      streams.Stdin,
		Stdout:     streams.Stdout,
		Stderr:     streams.Stderr,
		Vars:       s.Vars,
		FS:         s.FS,
		Registry:   s.Registry,
		Exit:       s.RequestExit,
		Log:        s.Log,
	}

	j := job.StartGo(cmd.Name, func() int { return cmd.Fn(ctx) }, streams, job.Capture{})
	s.Log.Debug("started in-process job",
		zap.String("id", j.ID().String()),
		zap.String("name", cmd.Name))
	return j, nil
}

func (s *Session) executeSubshell(n *ast.SubshellNode, ov StreamSet) (job.Job, error) {
	streams, err := s.resolveStreams(&n.StdStreams, ov)
	if err != nil {
		return nil, err
	}

	j, err := s.Execute(n.Children, StreamSet{
		Stdin:  streams.Stdin,
		Stdout: streams.Stdout,
		Stderr: streams.Stderr,
	})
	if err != nil {
		closeOwned(streams)
		return nil, err
	}

	// The subshell owns its redirected handles and pipe ends; release
	// them once the final child finishes so downstream stages see EOF.
	if len(streams.Owned) > 0 {
		if j == nil {
			closeOwned(streams)
		} else {
			go func() {
				j.Wait(0)
				closeOwned(streams)
			}()
		}
	}

	return j, nil
}

// expandArgs produces the final word list for one command: variable
// references expanded in every literal, substitutions executed and
// replaced by their captured output.
func (s *Session) expandArgs(args []ast.Arg) ([]string, error) {
	var out []string
	for _, arg := range args {
		switch a := arg.(type) {
		case ast.Literal:
			out = append(out, s.Vars.Expand(string(a)))
		case *ast.Substitution:
			text, err := s.resolveSubstitution(a)
			if err != nil {
				return nil, err
			}
			out = append(out, text)
		}
	}
	return out, nil
}

// resolveSubstitution runs a $( ... ) tree with its final stage's stdout
// captured, and returns the captured text with only trailing whitespace
// trimmed; embedded newlines are preserved.
func (s *Session) resolveSubstitution(sub *ast.Substitution) (string, error) {
	if len(sub.Inner) == 0 {
		return "", nil
	}

	// Substitution trees are built at parse time but linked lazily, when
	// the argument is actually expanded.
	if _, err := ast.LinkPipes(sub.Inner); err != nil {
		return "", err
	}

	capture, err := job.NewPipe()
	if err != nil {
		return "", err
	}

	// Point the final stage's stdout at the capture pipe, beating any
	// destination set at parse time.
	sub.Inner[len(sub.Inner)-1].Streams().Stdout = &ast.PipeDest{Pipe: capture}

	// Drain concurrently with the run: output larger than one pipe buffer
	// would otherwise block the final stage against this read.
	var data []byte
	var readErr error
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		data, readErr = io.ReadAll(capture.ReadEnd())
	}()

	j, err := s.Execute(sub.Inner, StreamSet{})
	if err != nil {
		capture.Close()
		<-drained
		return "", err
	}

	if j != nil {
		j.Wait(0)
	}

	// The owning job has closed the write end (or never took it); make
	// sure of it so the drain terminates.
	capture.CloseWrite()
	<-drained
	capture.CloseRead()
	if readErr != nil {
		return "", readErr
	}

	return strings.TrimRight(string(data), " \t\r\n"), nil
}

// resolveStreams turns a node's destinations into concrete handles:
// caller override for Inherited streams, pipe ends for linked pipes, and
// files opened through the session filesystem for redirections. The
// returned Owned handles belong to the job the node becomes.
func (s *Session) resolveStreams(std *ast.StdStreams, ov StreamSet) (job.Streams, error) {
	streams := job.Streams{}

	switch d := std.Stdin.(type) {
	case ast.Inherited:
		if ov.Stdin != nil {
			streams.Stdin = ov.Stdin
		} else {
			streams.Stdin = s.Stdin
		}
	case *ast.PipeDest:
		streams.Stdin = d.Pipe.ReadEnd()
		streams.Owned = append(streams.Owned, d.Pipe.ReadEndCloser())
	case *ast.FileDest:
		fd, err := s.FS.Open(d.Path)
		if err != nil {
			closeOwned(streams)
			return job.Streams{}, err
		}
		streams.Stdin = fd
		streams.Owned = append(streams.Owned, fd)
	default:
		closeOwned(streams)
		return job.Streams{}, &ast.SyntaxError{Msg: "dangling pipe"}
	}

	var err error
	streams.Stdout, err = s.resolveOutput(std.Stdout, ov.Stdout, s.Stdout, &streams)
	if err != nil {
		closeOwned(streams)
		return job.Streams{}, err
	}

	streams.Stderr, err = s.resolveOutput(std.Stderr, ov.Stderr, s.Stderr, &streams)
	if err != nil {
		closeOwned(streams)
		return job.Streams{}, err
	}

	return streams, nil
}

func (s *Session) resolveOutput(dest ast.StreamDest, override, fallback io.Writer, streams *job.Streams) (io.Writer, error) {
	switch d := dest.(type) {
	case ast.Inherited:
		if override != nil {
			return override, nil
		}
		return fallback, nil
	case *ast.PipeDest:
		streams.Owned = append(streams.Owned, d.Pipe.WriteEndCloser())
		return d.Pipe.WriteEnd(), nil
	case *ast.FileDest:
		flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
		if d.Mode == ast.ModeAppend {
			flags = os.O_WRONLY | os.O_CREATE | os.O_APPEND
		}
		fd, err := s.FS.OpenFile(d.Path, flags, 0644)
		if err != nil {
			return nil, err
		}
		streams.Owned = append(streams.Owned, fd)
		return fd, nil
	default:
		return nil, &ast.SyntaxError{Msg: "dangling pipe"}
	}
}

func closeOwned(streams job.Streams) {
	for _, c := range streams.Owned {
		if c != nil {
			_ = c.Close()
		}
	}
}
