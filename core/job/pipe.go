package job

import (
	"os"
	"sync"
)

// Pipe is one unidirectional OS-level byte channel connecting two pipeline
// stages. The producing stage owns the write end and the consuming stage
// owns the read end; each end is closed exactly once. Closing the write end
// is what lets the reader observe EOF, so ownership is not optional.
type Pipe struct {
	r, w *os.File

	closeR sync.Once
	closeW sync.Once
}

// NewPipe allocates an OS pipe.
func NewPipe() (*Pipe, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, err
	}
	return &Pipe{r: r, w: w}, nil
}

// ReadEnd returns the consumer's end of the pipe.
func (p *Pipe) ReadEnd() *os.File { return p.r }

// WriteEnd returns the producer's end of the pipe.
func (p *Pipe) WriteEnd() *os.File { return p.w }

// CloseRead closes the read end. Safe to call more than once.
func (p *Pipe) CloseRead() error {
	var err error
	p.closeR.Do(func() { err = p.r.Close() })
	return err
}

// CloseWrite closes the write end, delivering EOF to the reader.
// Safe to call more than once.
func (p *Pipe) CloseWrite() error {
	var err error
	p.closeW.Do(func() { err = p.w.Close() })
	return err
}

// Close closes both ends.
func (p *Pipe) Close() error {
	wErr := p.CloseWrite()
	rErr := p.CloseRead()
	if wErr != nil {
		return wErr
	}
	return rErr
}

// writeCloser adapts the write end for callers that close through the pipe,
// so double closes from the owning job are harmless.
type writeEndCloser struct{ p *Pipe }

func (w writeEndCloser) Close() error { return w.p.CloseWrite() }

// readEndCloser is the read-end counterpart of writeEndCloser.
type readEndCloser struct{ p *Pipe }

func (r readEndCloser) Close() error { return r.p.CloseRead() }

// WriteEndCloser returns a closer for the write end that is safe against
// double closes.
func (p *Pipe) WriteEndCloser() interface{ Close() error } { return writeEndCloser{p} }

// ReadEndCloser returns a closer for the read end that is safe against
// double closes.
func (p *Pipe) ReadEndCloser() interface{ Close() error } { return readEndCloser{p} }
