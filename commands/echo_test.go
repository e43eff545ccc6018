package commands

import "testing"

func TestEcho(t *testing.T) {
	cases := goldenTestSuite{
		"no-args": {Args: []string{}},
		"words":   {Args: []string{"hello", "world"}},
		"spaces":  {Args: []string{"a b", "c"}},
	}

	cases.Run(t, Echo)
}
