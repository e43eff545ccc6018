package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nopFn(ctx *Context) int { return 0 }

func TestBindPositionalsThenOptions(t *testing.T) {
	cmd := New("greet", nopFn)
	cmd.MustAddArg("name", ArgSpec{NArgs: 1})
	cmd.MustAddArg("-b", ArgSpec{Bool: true})
	cmd.MustAddArg("-k|--kwarg", ArgSpec{NArgs: 1})

	bound, err := Bind(cmd, []string{"alice", "-b", "-k", "x"})
	require.NoError(t, err)

	assert.Equal(t, []interface{}{"alice"}, bound.Positional)
	assert.Equal(t, map[string]interface{}{
		"b":     true,
		"kwarg": []string{"x"},
	}, bound.Options)
}

func TestBindPositionalDefault(t *testing.T) {
	cmd := New("exit", nopFn)
	cmd.MustAddArg("retcode", ArgSpec{NArgs: 1, Dtype: IntType, Default: 0})

	bound, err := Bind(cmd, nil)
	require.NoError(t, err)
	assert.Equal(t, []interface{}{0}, bound.Positional)

	bound, err = Bind(cmd, []string{"3"})
	require.NoError(t, err)
	assert.Equal(t, []interface{}{3}, bound.Positional)
}

func TestBindMissingRequiredPositional(t *testing.T) {
	cmd := New("grep", nopFn)
	cmd.MustAddArg("pattern", ArgSpec{NArgs: 1})

	_, err := Bind(cmd, nil)
	require.Error(t, err)

	var countErr *ArgumentCountError
	require.ErrorAs(t, err, &countErr)
	assert.Equal(t, "pattern", countErr.Param)
	assert.Equal(t, 1, countErr.Want)
	assert.Equal(t, 0, countErr.Got)
}

func TestBindVariadicPositional(t *testing.T) {
	cmd := New("echo", nopFn)
	cmd.MustAddArg("words", ArgSpec{All: true})

	bound, err := Bind(cmd, []string{"a", "b", "c"})
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"a", "b", "c"}, bound.Positional)

	bound, err = Bind(cmd, nil)
	require.NoError(t, err)
	assert.Empty(t, bound.Positional)
}

func TestBindVariadicConsumesFlagLikeTokens(t *testing.T) {
	cmd := New("echo", nopFn)
	cmd.MustAddArg("words", ArgSpec{All: true})
	cmd.MustAddArg("-n", ArgSpec{Bool: true})

	// Positionals bind first, so a trailing variadic swallows everything
	// and the flag never matches.
	bound, err := Bind(cmd, []string{"-n", "hello"})
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"-n", "hello"}, bound.Positional)
	assert.Empty(t, bound.Options)
}

func TestBindUnknownOption(t *testing.T) {
	cmd := New("ls", nopFn)

	_, err := Bind(cmd, []string{"-z"})
	require.Error(t, err)

	var unknownErr *UnknownOptionError
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, "-z", unknownErr.Option)
}

func TestBindOptionMissingValue(t *testing.T) {
	cmd := New("head", nopFn)
	cmd.MustAddArg("-n", ArgSpec{NArgs: 1})

	_, err := Bind(cmd, []string{"-n"})
	require.Error(t, err)

	var countErr *ArgumentCountError
	require.ErrorAs(t, err, &countErr)
	assert.Equal(t, "-n", countErr.Param)
}

func TestBindOptionMultipleValues(t *testing.T) {
	cmd := New("join", nopFn)
	cmd.MustAddArg("-p|--pair", ArgSpec{NArgs: 2})

	bound, err := Bind(cmd, []string{"-p", "left", "right"})
	require.NoError(t, err)
	assert.Equal(t, []string{"left", "right"}, bound.Options["pair"])
}

func TestBindVariadicOption(t *testing.T) {
	cmd := New("run", nopFn)
	cmd.MustAddArg("--args", ArgSpec{All: true})

	bound, err := Bind(cmd, []string{"--args", "a", "b", "c"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, bound.Options["args"])
}

func TestBindTypeConversion(t *testing.T) {
	cmd := New("sleep", nopFn)
	cmd.MustAddArg("seconds", ArgSpec{NArgs: 1, Dtype: FloatType})

	bound, err := Bind(cmd, []string{"1.5"})
	require.NoError(t, err)
	assert.Equal(t, []interface{}{1.5}, bound.Positional)
}

func TestBindTypeConversionError(t *testing.T) {
	cmd := New("exit", nopFn)
	cmd.MustAddArg("retcode", ArgSpec{NArgs: 1, Dtype: IntType})

	_, err := Bind(cmd, []string{"banana"})
	require.Error(t, err)

	var convErr *TypeConversionError
	require.ErrorAs(t, err, &convErr)
	assert.Equal(t, "retcode", convErr.Param)
	assert.Equal(t, "banana", convErr.Value)
}

func TestBindFlagSpellingsShareOneSpec(t *testing.T) {
	cmd := New("grep", nopFn)
	cmd.MustAddArg("-i|--ignore-case", ArgSpec{Bool: true})

	short, err := Bind(cmd, []string{"-i"})
	require.NoError(t, err)
	long, err := Bind(cmd, []string{"--ignore-case"})
	require.NoError(t, err)

	// Both spellings land under the canonical name.
	assert.Equal(t, true, short.Options["ignore_case"])
	assert.Equal(t, true, long.Options["ignore_case"])
}

func TestBindAbsentOptionLeftUnset(t *testing.T) {
	cmd := New("wc", nopFn)
	cmd.MustAddArg("-l", ArgSpec{Bool: true})

	bound, err := Bind(cmd, nil)
	require.NoError(t, err)
	_, present := bound.Options["l"]
	assert.False(t, present)
}
