package job

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/hostsh/hostsh/core/command"
)

// GoJob runs an in-process callable on its own goroutine while presenting
// the same lifecycle as an external process.
type GoJob struct {
	id      uuid.UUID
	name    string
	streams Streams
	capture Capture

	done chan struct{}
	code atomic.Int32
	st   atomic.Int32
}

var _ Job = (*GoJob)(nil)

// StartGo launches fn on a dedicated goroutine. The job's owned stream
// handles are closed when fn returns, even if it panics; that close is
// what delivers EOF to downstream pipeline stages.
func StartGo(name string, fn func() int, streams Streams, capture Capture) *GoJob {
	j := &GoJob{
		id:      uuid.New(),
		name:    name,
		streams: streams,
		capture: capture,
		done:    make(chan struct{}),
	}

	go j.run(fn)

	return j
}

func (j *GoJob) run(fn func() int) {
	defer close(j.done)
	defer closeAll(j.streams.Owned)

	code, failure := j.invoke(fn)
	if failure != nil {
		if j.streams.Stderr != nil {
			argErr := &command.ArgumentError{Command: j.name, Cause: failure}
			fmt.Fprintln(j.streams.Stderr, argErr.Error())
		}
		if code == 0 {
			code = 1
		}
		j.code.Store(int32(code))
		j.st.Store(int32(Failed))
		return
	}

	j.code.Store(int32(code))
	if code == 0 {
		j.st.Store(int32(Completed))
	} else {
		j.st.Store(int32(Failed))
	}
}

// invoke runs the callable, converting a panic into a failure instead of
// letting it escape to the dispatch goroutine.
func (j *GoJob) invoke(fn func() int) (code int, failure error) {
	defer func() {
		if r := recover(); r != nil {
			code = 1
			failure = fmt.Errorf("%v", r)
		}
	}()

	return fn(), nil
}

func (j *GoJob) ID() uuid.UUID { return j.id }

// Name returns the command name the job was started with.
func (j *GoJob) Name() string { return j.name }

func (j *GoJob) State() State {
	return State(j.st.Load())
}

func (j *GoJob) Poll() (int, bool) {
	select {
	case <-j.done:
		return int(j.code.Load()), true
	default:
		return 0, false
	}
}

func (j *GoJob) Wait(timeout time.Duration) (int, bool) {
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

func (j *GoJob) Communicate(input []byte) (string, string, error) {
	if in := j.capture.In; in != nil {
		if len(input) > 0 {
			if _, err := in.WriteEnd().Write(input); err != nil {
				return "", "", err
			}
		}
		// Close stdin so the callable sees end-of-input.
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

// Terminate is a documented no-op: goroutines cannot be preempted. True
// cancellation needs a cooperative token the callable polls.
func (j *GoJob) Terminate() error { return nil }

// Kill is equivalent to Terminate for in-process jobs.
func (j *GoJob) Kill() error { return j.Terminate() }
