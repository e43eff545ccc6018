package core

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hostsh/hostsh/commands"
	"github.com/hostsh/hostsh/core/command"
	"github.com/hostsh/hostsh/core/config"
	"github.com/hostsh/hostsh/core/interp"
)

// scriptReader feeds a fixed list of lines, then EOF.
type scriptReader struct {
	lines   []string
	history []string
}

func (r *scriptReader) ReadLine(prompt string) (string, error) {
	if len(r.lines) == 0 {
		return "", io.EOF
	}
	line := r.lines[0]
	r.lines = r.lines[1:]
	return line, nil
}

func (r *scriptReader) AppendHistory(line string) {
	r.history = append(r.history, line)
}

func (r *scriptReader) Close() error { return nil }

type shellFixture struct {
	shell *Shell
	out   *bytes.Buffer
	err   *bytes.Buffer
}

func newShellFixture(t *testing.T, lines ...string) *shellFixture {
	t.Helper()

	registry := command.NewRegistry()
	commands.RegisterBuiltins(registry)

	session := interp.NewSession(registry)
	f := &shellFixture{out: &bytes.Buffer{}, err: &bytes.Buffer{}}
	session.Vars = interp.NewVarsFromEnviron(nil, 1)
	session.Stdin = strings.NewReader("")
	session.Stdout = f.out
	session.Stderr = f.err
	session.FS = afero.NewMemMapFs()
	session.LookPath = func(string) (string, error) { return "", command.ErrNotFound }

	cfg := &config.Config{Prompt: "$ ", Motd: ""}
	f.shell = NewShell(cfg, session, &scriptReader{lines: lines})
	return f
}

func TestShellRunExecutesLines(t *testing.T) {
	f := newShellFixture(t, "echo one", "echo two")

	code := f.shell.Run()
	assert.Equal(t, 0, code)
	assert.Equal(t, "one\ntwo\n", f.out.String())
}

func TestShellRunPrintsMotd(t *testing.T) {
	f := newShellFixture(t)
	f.shell.cfg.Motd = "welcome\n"

	f.shell.Run()
	assert.Equal(t, "welcome\n", f.out.String())
}

func TestShellRunSkipsBlankLines(t *testing.T) {
	f := newShellFixture(t, "", "   ", "echo hi")

	f.shell.Run()
	assert.Equal(t, "hi\n", f.out.String())

	reader := f.shell.Reader.(*scriptReader)
	assert.Equal(t, []string{"echo hi"}, reader.history, "blank lines stay out of history")
}

func TestShellRunStopsOnExit(t *testing.T) {
	f := newShellFixture(t, "exit 3", "echo unreachable")

	code := f.shell.Run()
	assert.Equal(t, 3, code)
	assert.Empty(t, f.out.String())
}

func TestShellRunContinuesPastErrors(t *testing.T) {
	f := newShellFixture(t, "echo )", "echo ok")

	code := f.shell.Run()
	assert.Equal(t, 0, code)
	assert.Contains(t, f.err.String(), "syntax error")
	assert.Equal(t, "ok\n", f.out.String())
}

func TestShellInterpretSetsExitCode(t *testing.T) {
	f := newShellFixture(t)

	require.NoError(t, f.shell.Interpret("false"))
	assert.Equal(t, "1", f.shell.Session.Vars.Getenv(interp.VarExitCode))

	require.NoError(t, f.shell.Interpret("true"))
	assert.Equal(t, "0", f.shell.Session.Vars.Getenv(interp.VarExitCode))
}

func TestShellInterpretAssignmentKeepsExitCode(t *testing.T) {
	f := newShellFixture(t)

	require.NoError(t, f.shell.Interpret("false"))
	require.NoError(t, f.shell.Interpret("FOO=bar"))

	// Assignments produce no job, so $? is left alone.
	assert.Equal(t, "1", f.shell.Session.Vars.Getenv(interp.VarExitCode))
}

func TestShellInterpretUnterminatedQuote(t *testing.T) {
	f := newShellFixture(t)

	err := f.shell.Interpret(`echo "open`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected end of line")
}

func TestShellPromptPrefersPS1(t *testing.T) {
	f := newShellFixture(t)

	assert.Equal(t, "$ ", f.shell.prompt())

	f.shell.Session.Vars.Setenv("USER", "root")
	f.shell.Session.Vars.Setenv(EnvPrompt, "$USER> ")
	assert.Equal(t, "root> ", f.shell.prompt())
}

func TestShellRunOnce(t *testing.T) {
	f := newShellFixture(t)

	code := f.shell.RunOnce("echo hi")
	assert.Equal(t, 0, code)
	assert.Equal(t, "hi\n", f.out.String())

	assert.Equal(t, 1, f.shell.RunOnce("false"))
	assert.Equal(t, 2, f.shell.RunOnce("echo )"))
}

func TestShellRunOnceExitWins(t *testing.T) {
	f := newShellFixture(t)
	assert.Equal(t, 4, f.shell.RunOnce("exit 4"))
}
