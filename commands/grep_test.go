package commands

import "testing"

func TestGrep(t *testing.T) {
	input := "alpha\nbeta\ngamma\n"

	cases := goldenTestSuite{
		"match":           {Args: []string{"ma"}, Stdin: input},
		"line-numbers":    {Args: []string{"a", "-n"}, Stdin: input},
		"invert":          {Args: []string{"beta", "-v"}, Stdin: input},
		"ignore-case":     {Args: []string{"ALPHA", "-i"}, Stdin: input},
		"bad-pattern":     {Args: []string{"("}, Stdin: input},
		"missing-pattern": {Args: []string{}},
	}

	cases.Run(t, Grep)
}
