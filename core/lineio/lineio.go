// Package lineio holds the line-reading and tokenization contract the
// interpreter depends on, along with default implementations backed by
// readline and shlex. Hosts embedding the interpreter in another surface
// (a TUI, a network session, a test harness) supply their own.
package lineio

import (
	"io"

	"github.com/abiosoft/readline"
	shlex "github.com/anmitsu/go-shlex"
)

// Tokenizer splits a raw line into word tokens. Quoting rules are the
// tokenizer's business; the syntax builder only sees the resulting words.
type Tokenizer interface {
	Tokenize(line string) ([]string, error)
}

// LineReader produces raw input lines, one prompt at a time.
type LineReader interface {
	// ReadLine displays prompt and blocks for one line of input.
	// It returns io.EOF when the input is exhausted.
	ReadLine(prompt string) (string, error)

	// AppendHistory records a line for recall in later ReadLine calls.
	AppendHistory(line string)

	Close() error
}

// ShlexTokenizer tokenizes lines with POSIX-style quoting.
type ShlexTokenizer struct{}

var _ Tokenizer = ShlexTokenizer{}

func (ShlexTokenizer) Tokenize(line string) ([]string, error) {
	return shlex.Split(line, true)
}

// ReadlineConfig configures a ReadlineReader.
type ReadlineConfig struct {
	// HistoryFile persists history across sessions when non-empty.
	HistoryFile string

	// Stdin/Stdout/Stderr override the process streams, e.g. for
	// serving a session over a network connection.
	Stdin  io.ReadCloser
	Stdout io.Writer
	Stderr io.Writer

	// IsTerminal reports whether the streams are attached to a
	// terminal. Nil means "assume yes".
	IsTerminal func() bool

	// Width reports the terminal width. Nil uses the readline default.
	Width func() int
}

// ReadlineReader is a LineReader with editing and history.
type ReadlineReader struct {
	rl *readline.Instance
}

var _ LineReader = (*ReadlineReader)(nil)

// NewReadlineReader builds a LineReader on top of readline.
func NewReadlineReader(cfg ReadlineConfig) (*ReadlineReader, error) {
	rlCfg := &readline.Config{
		HistoryFile: cfg.HistoryFile,
		Stdout:      cfg.Stdout,
		Stderr:      cfg.Stderr,
	}
	if cfg.Stdin != nil {
		rlCfg.Stdin = readline.NewCancelableStdin(cfg.Stdin)
	}
	if cfg.IsTerminal != nil {
		rlCfg.FuncIsTerminal = cfg.IsTerminal
	}
	if cfg.Width != nil {
		rlCfg.FuncGetWidth = cfg.Width
	}

	if err := rlCfg.Init(); err != nil {
		return nil, err
	}

	rl, err := readline.NewEx(rlCfg)
	if err != nil {
		return nil, err
	}

	return &ReadlineReader{rl: rl}, nil
}

func (r *ReadlineReader) ReadLine(prompt string) (string, error) {
	r.rl.SetPrompt(prompt)
	line, err := r.rl.Readline()
	if err == readline.ErrInterrupt {
		// Treat ^C as an abandoned line rather than an error.
		return "", nil
	}
	return line, err
}

func (r *ReadlineReader) AppendHistory(line string) {
	_ = r.rl.SaveHistory(line)
}

func (r *ReadlineReader) Close() error {
	return r.rl.Close()
}
