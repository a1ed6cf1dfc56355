package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"stockledger/internal/config"
)

func shellCmd(a *app, cfg config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Run commands interactively against one open store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.open(); err != nil {
				return err
			}
			home, err := os.UserHomeDir()
			if err != nil {
				home = "."
			}
			rl, err := readline.NewEx(&readline.Config{
				Prompt:            "stock> ",
				HistoryFile:       filepath.Join(home, ".stockctl_history"),
				InterruptPrompt:   "^C",
				EOFPrompt:         "exit",
				HistorySearchFold: true,
			})
			if err != nil {
				return fmt.Errorf("init readline: %w", err)
			}
			defer rl.Close()
			return runShell(rl, a, cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
}

type lineReader interface {
	Readline() (string, error)
}

func runShell(rl lineReader, a *app, cfg config.Config, out, errOut io.Writer) error {
	fmt.Fprintf(out, "stockctl shell on %s; 'help' lists commands, 'exit' quits\n", a.dbPath)
	for {
		line, err := rl.Readline()
		if err != nil {
			if err == io.EOF || err == readline.ErrInterrupt {
				return nil
			}
			return err
		}
		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}
		switch strings.ToLower(args[0]) {
		case "exit", "quit", `\q`:
			return nil
		case "shell":
			fmt.Fprintln(errOut, "already in the shell")
			continue
		}

		// the store stays open across commands; flags are rebound per line
		dbPath, backupDir := a.dbPath, a.backupDir
		root := newRootCmd(a, cfg)
		root.SetArgs(args)
		root.SetErr(errOut)
		root.SetOut(out)
		if err := root.Execute(); err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
		}
		a.dbPath, a.backupDir = dbPath, backupDir
	}
}
