package cmd

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hostsh/hostsh/commands"
	"github.com/hostsh/hostsh/core"
	"github.com/hostsh/hostsh/core/command"
	"github.com/hostsh/hostsh/core/config"
	"github.com/hostsh/hostsh/core/interp"
	"github.com/hostsh/hostsh/core/lineio"
)

var runCommandLine string

// runCmd runs the interpreter on the local terminal
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run an interactive interpreter session on the local terminal.",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		logger, closeLogger, err := newLogger(cfg)
		if err != nil {
			return err
		}

		session := newLocalSession(cfg)
		session.Log = logger

		if runCommandLine != "" {
			shell := core.NewShell(cfg, session, nil)
			code := shell.RunOnce(runCommandLine)
			closeLogger()
			if code != 0 {
				os.Exit(code)
			}
			return nil
		}

		reader, err := lineio.NewReadlineReader(lineio.ReadlineConfig{
			HistoryFile: filepath.Join(cfgPath, config.HistoryName),
		})
		if err != nil {
			closeLogger()
			return err
		}

		shell := core.NewShell(cfg, session, reader)
		code := shell.Run()

		reader.Close()
		closeLogger()
		if code != 0 {
			os.Exit(code)
		}
		return nil
	},
}

// newLocalSession builds a session over the process streams, seeded from
// the configuration.
func newLocalSession(cfg *config.Config) *interp.Session {
	registry := command.NewRegistry()
	commands.RegisterBuiltins(registry)

	session := interp.NewSession(registry)
	for _, def := range cfg.Env {
		if k, v, ok := strings.Cut(def, "="); ok {
			session.Vars.Setenv(k, v)
		}
	}
	if !cfg.AllowExternal {
		session.LookPath = func(string) (string, error) { return "", command.ErrNotFound }
	}
	return session
}

func init() {
	runCmd.Flags().StringVarP(&runCommandLine, "command", "c", "", "run a single command line and exit")
	rootCmd.AddCommand(runCmd)
}
