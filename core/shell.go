// Package core wires the interpreter pieces into runnable surfaces: the
// interactive shell loop and the SSH front-end.
package core

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"github.com/hostsh/hostsh/core/ast"
	"github.com/hostsh/hostsh/core/config"
	"github.com/hostsh/hostsh/core/interp"
	"github.com/hostsh/hostsh/core/lineio"
)

// EnvPrompt overrides the configured prompt when set in the session.
const EnvPrompt = "PS1"

var errColor = color.New(color.FgRed)

// Shell is the interactive front-end: it reads lines, parses them, and
// runs them on its session until the input ends or a command requests
// exit.
type Shell struct {
	Session *interp.Session
	Reader  lineio.LineReader
	Tok     lineio.Tokenizer

	cfg *config.Config
}

// NewShell builds a shell around an existing session. The caller keeps
// ownership of the reader and closes it after Run returns.
func NewShell(cfg *config.Config, session *interp.Session, reader lineio.LineReader) *Shell {
	return &Shell{
		Session: session,
		Reader:  reader,
		Tok:     lineio.ShlexTokenizer{},
		cfg:     cfg,
	}
}

func (s *Shell) prompt() string {
	if ps1 := s.Session.Vars.Getenv(EnvPrompt); ps1 != "" {
		return s.Session.Vars.Expand(ps1)
	}
	return s.cfg.Prompt
}

// Run is the interactive loop. It returns the session's final exit code.
func (s *Shell) Run() int {
	if s.cfg.Motd != "" {
		fmt.Fprint(s.Session.Stdout, s.cfg.Motd)
	}

	for {
		line, err := s.Reader.ReadLine(s.prompt())
		switch {
		case errors.Is(err, io.EOF):
			code, _ := s.Session.ExitRequested()
			return code

		case err != nil:
			s.Session.Log.Warn("read line", zap.Error(err))
			continue

		case strings.TrimSpace(line) == "":
			continue
		}

		s.Reader.AppendHistory(line)

		if err := s.Interpret(line); err != nil {
			errColor.Fprintln(s.Session.Stderr, err.Error())
		}

		if code, ok := s.Session.ExitRequested(); ok {
			return code
		}
	}
}

// Interpret parses and runs one input line to completion, recording the
// final stage's exit code in $?. Parse and binding errors are returned;
// command failures only show up in $?.
func (s *Shell) Interpret(line string) error {
	tokens, err := s.Tok.Tokenize(line)
	if err != nil {
		return &ast.SyntaxError{Msg: "unexpected end of line"}
	}
	tokens = lineio.JoinSubstitutions(tokens)
	if len(tokens) == 0 {
		return nil
	}

	nodes, err := ast.Build(tokens, s.Tok)
	if err != nil {
		return err
	}
	if _, err := ast.LinkPipes(nodes); err != nil {
		return err
	}

	j, err := s.Session.Execute(nodes, interp.StreamSet{})
	if err != nil {
		return err
	}

	if j != nil {
		code, _ := j.Wait(0)
		s.Session.SetExitCode(code)
	}
	return nil
}

// RunOnce parses and runs a single command line non-interactively,
// returning its exit code. Used for `hostsh run -c` and SSH exec
// requests.
func (s *Shell) RunOnce(line string) int {
	if err := s.Interpret(line); err != nil {
		errColor.Fprintln(s.Session.Stderr, err.Error())
		return 2
	}
	if code, ok := s.Session.ExitRequested(); ok {
		return code
	}
	if v := s.Session.Vars.Getenv(interp.VarExitCode); v != "" {
		if code, err := strconv.Atoi(v); err == nil {
			return code
		}
	}
	return 0
}
