package core

import (
	"encoding/binary"
	"io"
	"sync"
	"time"
)

type transcriptFd int

const (
	fdStdin  transcriptFd = 0
	fdStdout transcriptFd = 1
	fdStderr transcriptFd = 2
)

type transcriptOp int

const (
	opWrite transcriptOp = 3
)

type transcriptDir int

const (
	dirRead  transcriptDir = 1
	dirWrite transcriptDir = 2
)

// Recorder copies everything a session reads and writes into a
// transcript stream using the User Mode Linux recording format, which
// existing honeypot log tooling understands.
type Recorder struct {
	mu  sync.Mutex
	out io.Writer
}

// NewRecorder builds a recorder writing transcript events to out.
func NewRecorder(out io.Writer) *Recorder {
	return &Recorder{out: out}
}

func (r *Recorder) logEvent(timestamp time.Time, fd transcriptFd, data []byte) error {
	sec := timestamp.UnixNano() / int64(time.Second)
	usec := (timestamp.UnixNano() % int64(time.Second)) / int64(time.Microsecond)

	direction := dirWrite
	if fd == fdStdin {
		direction = dirRead
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	eventData := []interface{}{
		int32(opWrite),
		uint32(0), // TTY, always 0
		int32(len(data)),
		int32(direction),
		uint32(sec),
		uint32(usec),
	}

	for _, v := range eventData {
		if err := binary.Write(r.out, binary.LittleEndian, v); err != nil {
			return err
		}
	}

	if len(data) > 0 {
		if _, err := r.out.Write(data); err != nil {
			return err
		}
	}

	return nil
}

type recordedReader struct {
	r        *Recorder
	fd       transcriptFd
	delegate io.Reader
}

func (rr *recordedReader) Read(p []byte) (int, error) {
	n, err := rr.delegate.Read(p)
	if n > 0 {
		_ = rr.r.logEvent(time.Now(), rr.fd, p[:n])
	}
	return n, err
}

type recordedWriter struct {
	r        *Recorder
	fd       transcriptFd
	delegate io.Writer
}

func (rw *recordedWriter) Write(p []byte) (int, error) {
	n, err := rw.delegate.Write(p)
	if n > 0 {
		_ = rw.r.logEvent(time.Now(), rw.fd, p[:n])
	}
	return n, err
}

// Stdin wraps a session input so reads land in the transcript.
func (r *Recorder) Stdin(in io.Reader) io.Reader {
	return &recordedReader{r: r, fd: fdStdin, delegate: in}
}

// Stdout wraps a session output so writes land in the transcript.
func (r *Recorder) Stdout(out io.Writer) io.Writer {
	return &recordedWriter{r: r, fd: fdStdout, delegate: out}
}

// Stderr wraps a session error output so writes land in the transcript.
func (r *Recorder) Stderr(out io.Writer) io.Writer {
	return &recordedWriter{r: r, fd: fdStderr, delegate: out}
}
