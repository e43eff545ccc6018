// Package job provides a uniform handle over one executing pipeline stage,
// whether it runs as a goroutine inside the host process or as an external
// OS process. The two implementations share lifecycle, waiting, and the
// stream-ownership discipline that makes EOF propagate along a pipeline.
package job

import (
	"io"
	"time"

	"github.com/google/uuid"
)

// State describes where a job is in its lifecycle. Jobs transition
// Running -> Completed or Running -> Failed and are never reused.
type State int32

const (
	Running State = iota
	Completed
	Failed
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Job is a running pipeline stage.
type Job interface {
	// ID identifies the job in logs and the session job table.
	ID() uuid.UUID

	// State reports the job's current lifecycle state.
	State() State

	// Poll returns the exit code without blocking. ok is false while the
	// job is still running.
	Poll() (code int, ok bool)

	// Wait blocks until the job finishes or timeout elapses. A timeout
	// <= 0 waits forever. ok is false if the timeout elapsed first;
	// no error is raised for a timeout.
	Wait(timeout time.Duration) (code int, ok bool)

	// Communicate optionally writes input to the job's stdin and closes
	// it to signal end-of-input, waits for the job to finish, then
	// drains and returns any captured stdout and stderr.
	Communicate(input []byte) (stdout, stderr string, err error)

	// Terminate asks the job to stop. Best effort: it delivers SIGTERM
	// to external processes and is a no-op placeholder for in-process
	// jobs, which have no preemptive cancellation.
	Terminate() error

	// Kill forcibly stops the job where possible. Same caveats as
	// Terminate.
	Kill() error
}

// Streams holds the resolved standard streams for one job plus the handles
// the job owns. Owned handles are closed when the job finishes, success or
// failure; for pipe write ends this close is the sole EOF propagation
// mechanism.
type Streams struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Owned handles closed exactly once when the job completes.
	Owned []io.Closer
}

// Capture identifies pipes whose read ends Communicate drains after the
// job finishes. The job must also own the corresponding write ends so the
// drain terminates.
type Capture struct {
	Out *Pipe
	Err *Pipe

	// In, when set, is the pipe feeding the job's stdin; Communicate
	// writes its input to the write end and closes it.
	In *Pipe
}

func closeAll(closers []io.Closer) {
	for _, c := range closers {
		if c != nil {
			_ = c.Close()
		}
	}
}

// drainPipe reads the capture pipe to EOF and returns the decoded text.
// The read end is closed afterwards.
func drainPipe(p *Pipe) (string, error) {
	if p == nil {
		return "", nil
	}
	defer p.CloseRead()
	data, err := io.ReadAll(p.ReadEnd())
	return string(data), err
}

type drainResult struct {
	text string
	err  error
}

// drainAsync starts draining a capture pipe on its own goroutine. Drains
// must overlap the wait for the job: a stage writing more than one pipe
// buffer to a captured stream would otherwise block against the drain
// and never finish.
func drainAsync(p *Pipe) <-chan drainResult {
	ch := make(chan drainResult, 1)
	go func() {
		text, err := drainPipe(p)
		ch <- drainResult{text: text, err: err}
	}()
	return ch
}
