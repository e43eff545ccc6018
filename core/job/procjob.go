package job

import (
	"os"
	"os/exec"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/google/uuid"
)

// ProcJob runs a pipeline stage as an external OS process.
type ProcJob struct {
	id  uuid.UUID
	cmd *exec.Cmd

	capture Capture

	done chan struct{}
	code atomic.Int32
	st   atomic.Int32
}

var _ Job = (*ProcJob)(nil)

// StartProc starts path with argv as an external process wired to the
// resolved streams. Pipe ends handed to the child are closed on the parent
// side once the child holds them, so the child is the only writer and EOF
// propagates when it exits. Remaining owned handles are closed when the
// process finishes.
func StartProc(path string, argv []string, streams Streams, capture Capture) (*ProcJob, error) {
	cmd := exec.Command(path)
	cmd.Args = argv
	cmd.Stdin = streams.Stdin
	cmd.Stdout = streams.Stdout
	cmd.Stderr = streams.Stderr

	j := &ProcJob{
		id:      uuid.New(),
		cmd:     cmd,
		capture: capture,
		done:    make(chan struct{}),
	}

	if err := cmd.Start(); err != nil {
		closeAll(streams.Owned)
		return nil, err
	}

	// The child has duplicates of any *os.File handles now; close the
	// parent copies of pipe ends immediately and keep the rest (e.g.
	// redirection files) until the process exits.
	var deferred []interface{ Close() error }
	for _, c := range streams.Owned {
		if isPipeEnd(c, capture) {
			_ = c.Close()
		} else if c != nil {
			deferred = append(deferred, c)
		}
	}

	go func() {
		defer close(j.done)

		err := cmd.Wait()
		for _, c := range deferred {
			_ = c.Close()
		}

		switch e := err.(type) {
		case nil:
			j.code.Store(0)
			j.st.Store(int32(Completed))
		case *exec.ExitError:
			j.code.Store(int32(e.ExitCode()))
			j.st.Store(int32(Failed))
		default:
			j.code.Store(1)
			j.st.Store(int32(Failed))
		}
	}()

	return j, nil
}

// isPipeEnd reports whether the owned handle is a pipe end rather than a
// plain file. Capture pipe ends stay open in the parent only on the sides
// Communicate needs.
func isPipeEnd(c interface{ Close() error }, capture Capture) bool {
	switch c.(type) {
	case writeEndCloser, readEndCloser:
		return true
	}
	if f, ok := c.(*os.File); ok {
		for _, p := range []*Pipe{capture.Out, capture.Err, capture.In} {
			if p != nil && (f == p.ReadEnd() || f == p.WriteEnd()) {
				return true
			}
		}
	}
	return false
}

func (j *ProcJob) ID() uuid.UUID { return j.id }

// PID returns the operating system process id.
func (j *ProcJob) PID() int {
	if j.cmd.Process == nil {
		return 0
	}
	return j.cmd.Process.Pid
}

func (j *ProcJob) State() State {
	return State(j.st.Load())
}

func (j *ProcJob) Poll() (int, bool) {
	select {
	case <-j.done:
		return int(j.code.Load()), true
	default:
		return 0, false
	}
}

func (j *ProcJob) Wait(timeout time.Duration) (int, bool) {
	if timeout <= 0 {
		<-j.done
		return int(j.code.Load()), true
	}

	select {
	case <-j.done:
		return int(j.code.Load()), true
	case <-time.After(timeout):
		return 0, false
	}
}

func (j *ProcJob) Communicate(input []byte) (string, string, error) {
	if in := j.capture.In; in != nil {
		if len(input) > 0 {
			if _, err := in.WriteEnd().Write(input); err != nil {
				return "", "", err
			}
		}
		if err := in.CloseWrite(); err != nil {
			return "", "", err
		}
	}

	outCh := drainAsync(j.capture.Out)
	errCh := drainAsync(j.capture.Err)

	j.Wait(0)

	stdout, stderr := <-outCh, <-errCh
	if stdout.err != nil {
		return "", "", stdout.err
	}
	if stderr.err != nil {
		return stdout.text, "", stderr.err
	}

	return stdout.text, stderr.text, nil
}

// Terminate delivers SIGTERM to the process.
func (j *ProcJob) Terminate() error {
	if j.cmd.Process == nil {
		return nil
	}
	return j.cmd.Process.Signal(syscall.SIGTERM)
}

// Kill delivers SIGKILL to the process.
func (j *ProcJob) Kill() error {
	if j.cmd.Process == nil {
		return nil
	}
	return j.cmd.Process.Kill()
}
