package commands

import (
	"bytes"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/hostsh/hostsh/core/command"
)

// fakeEnv is a fixed variable table for tests.
type fakeEnv map[string]string

func (f fakeEnv) Getenv(key string) string { return f[key] }
func (f fakeEnv) Setenv(key, value string) { f[key] = value }
func (f fakeEnv) Environ() []string {
	var entries []string
	for k, v := range f {
		entries = append(entries, fmt.Sprintf("%s=%s", k, v))
	}
	sort.Strings(entries)
	return entries
}

type goldenTest struct {
	Args  []string
	Stdin string
	Files map[string]string
}

type goldenTestSuite map[string]goldenTest

func (gts goldenTestSuite) Run(t *testing.T, ctor func() *command.Command) {
	t.Helper()

	g := goldie.New(
		t,
		goldie.WithFixtureDir(filepath.Join("testdata", "golden")),
		goldie.WithDiffEngine(goldie.ColoredDiff),
		goldie.WithTestNameForDir(true),
	)

	registry := command.NewRegistry()
	RegisterBuiltins(registry)

	for tn, tc := range gts {
		t.Run(tn, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			for name, contents := range tc.Files {
				if err := afero.WriteFile(fs, name, []byte(contents), 0644); err != nil {
					t.Fatal(err)
				}
			}

			cmd := ctor()
			var out bytes.Buffer

			bound, err := command.Bind(cmd, tc.Args)
			if err != nil {
				fmt.Fprintln(&out, err.Error())
				g.Assert(t, tn, out.Bytes())
				return
			}

			ctx := &command.Context{
				Cmd:        cmd,
				Positional: bound.Positional,
				Options:    bound.Options,
				Stdin:      strings.NewReader(tc.Stdin),
				Stdout:     &out,
				Stderr:     &out,
				Vars:       fakeEnv{"A": "1", "B": "2"},
				FS:         fs,
				Registry:   registry,
				Log:        zap.NewNop(),
			}

			cmd.Fn(ctx)
			g.Assert(t, tn, out.Bytes())
		})
	}
}
