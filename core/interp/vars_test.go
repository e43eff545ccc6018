package interp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVarsFromEnviron(t *testing.T) {
	v := NewVarsFromEnviron([]string{"LANG=C", "EMPTY=", "NOVALUE"}, 99)

	assert.Equal(t, "C", v.Getenv("LANG"))
	assert.Equal(t, "", v.Getenv("EMPTY"))

	_, ok := v.LookupEnv("NOVALUE")
	assert.True(t, ok, "a bare key is present with an empty value")

	assert.Equal(t, "0", v.Getenv(VarExitCode))
	assert.Equal(t, "99", v.Getenv(VarShellPID))
}

func TestVarsExpand(t *testing.T) {
	v := NewVarsFromEnviron([]string{"USER=root", "HOME=/root"}, 7)
	v.Setenv(VarExitCode, "2")

	cases := map[string]string{
		"$USER":         "root",
		"hello $USER":   "hello root",
		"$HOME/bin":     "/root/bin",
		"$?":            "2",
		"$$":            "7",
		"$!":            "7",
		"$MISSING":      "",
		"a$MISSING/b":   "a/b",
		"no references": "no references",
		"$USER$HOME":    "root/root",
	}
	for input, want := range cases {
		assert.Equal(t, want, v.Expand(input), "input %q", input)
	}
}

func TestVarsEnvironSorted(t *testing.T) {
	v := NewVars()
	v.Setenv("B", "2")
	v.Setenv("A", "1")
	v.Setenv("C", "3")

	assert.Equal(t, []string{"A=1", "B=2", "C=3"}, v.Environ())
}

func TestVarsLookupEnvMissing(t *testing.T) {
	v := NewVars()
	_, ok := v.LookupEnv("NOPE")
	assert.False(t, ok)
}
