package ast

import (
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hostsh/hostsh/core/lineio"
)

func TestBuild(t *testing.T) {
	g := goldie.New(
		t,
		goldie.WithFixtureDir(filepath.Join("testdata", "golden")),
		goldie.WithDiffEngine(goldie.ColoredDiff),
		goldie.WithTestNameForDir(true),
	)

	cases := map[string][]string{
		"simple":            {"echo", "hi"},
		"pipeline":          {"a", "|", "b"},
		"three-stage":       {"a", "|", "b", "|", "c"},
		"redirects":         {"a", ">>", "log", "2>", "err.txt", "<", "in.txt"},
		"subshell-redirect": {"(", "a", "|", "b", ")", ">", "f.txt"},
		"piped-subshell":    {"a", "|", "(", "b", ")"},
		"after-subshell":    {"(", "a", ")", "b"},
		"substitution":      {"echo", "$(date)"},
		"nested-subst":      {"echo", "$(echo $(date))"},
	}

	for tn, tokens := range cases {
		t.Run(tn, func(t *testing.T) {
			nodes, err := Build(tokens, lineio.ShlexTokenizer{})
			require.NoError(t, err)
			g.Assert(t, tn, []byte(Render(nodes)))
		})
	}
}

func TestBuildErrors(t *testing.T) {
	cases := map[string]struct {
		tokens []string
		want   string
	}{
		"close-without-open": {
			tokens: []string{")"},
			want:   `syntax error: unbalanced, too many ')'`,
		},
		"open-without-close": {
			tokens: []string{"(", "a"},
			want:   `syntax error: unbalanced, missing ')'`,
		},
		"leading-pipe": {
			tokens: []string{"|", "a"},
			want:   `syntax error: pipe "|" with no previous command`,
		},
		"leading-redirect": {
			tokens: []string{">", "f"},
			want:   `syntax error: redirection ">" with no previous command`,
		},
		"redirect-without-target": {
			tokens: []string{"a", ">"},
			want:   `syntax error: missing target for ">"`,
		},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			_, err := Build(tc.tokens, lineio.ShlexTokenizer{})
			require.Error(t, err)

			var syntaxErr *SyntaxError
			require.ErrorAs(t, err, &syntaxErr)
			assert.Equal(t, tc.want, err.Error())
		})
	}
}

func TestBuildEmpty(t *testing.T) {
	nodes, err := Build(nil, lineio.ShlexTokenizer{})
	require.NoError(t, err)
	assert.Empty(t, nodes)
}
