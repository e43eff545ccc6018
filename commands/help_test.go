package commands

import "testing"

func TestHelp(t *testing.T) {
	cases := goldenTestSuite{
		"list":    {Args: []string{}},
		"one":     {Args: []string{"echo"}},
		"unknown": {Args: []string{"nope"}},
	}

	cases.Run(t, Help)
}
