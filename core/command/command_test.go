package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddArgPositional(t *testing.T) {
	cmd := New("cp", nopFn)
	require.NoError(t, cmd.AddArg("source", ArgSpec{}))

	require.Len(t, cmd.Positional, 1)
	spec := cmd.Positional[0]
	assert.Equal(t, "source", spec.FormattedName)
	assert.Equal(t, []string{"source"}, spec.Spellings)
	assert.Equal(t, 1, spec.NArgs, "positionals default to one token")
}

func TestAddArgFlagSpellings(t *testing.T) {
	cmd := New("grep", nopFn)
	require.NoError(t, cmd.AddArg("-i|--ignore-case", ArgSpec{Bool: true}))

	short := cmd.Optional["-i"]
	long := cmd.Optional["--ignore-case"]
	require.NotNil(t, short)
	assert.Same(t, short, long, "spellings share one spec")
	assert.Equal(t, "ignore_case", short.FormattedName)
	assert.True(t, short.Bool)
	assert.Equal(t, 0, short.NArgs)
}

func TestAddArgValuedFlagDefaultsToOneToken(t *testing.T) {
	cmd := New("head", nopFn)
	require.NoError(t, cmd.AddArg("-n", ArgSpec{}))
	assert.Equal(t, 1, cmd.Optional["-n"].NArgs)
}

func TestAddArgRejectsMultiTokenPositional(t *testing.T) {
	cmd := New("join", nopFn)
	assert.Error(t, cmd.AddArg("pair", ArgSpec{NArgs: 2}),
		"a positional takes one token or the rest of the line")

	require.NoError(t, cmd.AddArg("rest", ArgSpec{All: true}))
}

func TestAddArgRejectsBoolPositional(t *testing.T) {
	cmd := New("bad", nopFn)
	assert.Error(t, cmd.AddArg("flag", ArgSpec{Bool: true}))
}

func TestAddArgRejectsValuedBoolFlag(t *testing.T) {
	cmd := New("bad", nopFn)
	assert.Error(t, cmd.AddArg("-b", ArgSpec{Bool: true, NArgs: 2}))
}

func TestAddArgRejectsEmptyName(t *testing.T) {
	cmd := New("bad", nopFn)
	assert.Error(t, cmd.AddArg("", ArgSpec{}))
}

func TestRegistryLastRegistrationWins(t *testing.T) {
	registry := NewRegistry()

	first := New("echo", func(ctx *Context) int { return 1 })
	second := New("echo", func(ctx *Context) int { return 2 })
	registry.Register(first)
	registry.Register(second)

	cmd, ok := registry.Lookup("echo")
	require.True(t, ok)
	assert.Same(t, second, cmd)
}

func TestRegistryNamesSorted(t *testing.T) {
	registry := NewRegistry()
	for _, name := range []string{"wc", "cat", "echo"} {
		registry.Register(New(name, nopFn))
	}
	assert.Equal(t, []string{"cat", "echo", "wc"}, registry.Names())
}

func TestRegistryLookupMissing(t *testing.T) {
	registry := NewRegistry()
	_, ok := registry.Lookup("nope")
	assert.False(t, ok)
}

func TestContextOptionFallsBackToDefault(t *testing.T) {
	cmd := New("head", nopFn)
	cmd.MustAddArg("-n", ArgSpec{NArgs: 1, Default: "10"})

	ctx := &Context{Cmd: cmd, Options: map[string]interface{}{}}
	v, ok := ctx.Option("n")
	require.True(t, ok)
	assert.Equal(t, "10", v)

	ctx.Options["n"] = []string{"5"}
	assert.Equal(t, "5", ctx.StringOption("n"))
}

func TestContextPositionalStrings(t *testing.T) {
	ctx := &Context{Positional: []interface{}{"a", 2, 1.5}}
	assert.Equal(t, []string{"a", "2", "1.5"}, ctx.PositionalStrings())
}
