package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/chzyer/readline"
	"github.com/joacominatel/dcon/internal/app"
	"github.com/joacominatel/dcon/internal/config"
	"github.com/spf13/cobra"
)

const (
	historyFile  = "history"
	historyLimit = 1000
	replPrompt   = "dcon> "
)

func (r *root) interactiveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "interactive",
		Aliases: []string{"repl"},
		Short:   "Start an interactive SQL session",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.withService(cmd, func(ctx context.Context, svc *app.Service) error {
				rl, err := r.newReadline()
				if err != nil {
					return err
				}
				defer rl.Close()
				return app.NewSession(svc, rl, r.stdout).Run(ctx)
			})
		},
	}
}

func (r *root) newReadline() (*readline.Instance, error) {
	items := make([]readline.PrefixCompleterInterface, 0, len(app.MetaCommands()))
	for _, c := range app.MetaCommands() {
		items = append(items, readline.PcItem(c))
	}

	rc := &readline.Config{
		Prompt:            replPrompt,
		HistoryLimit:      historyLimit,
		HistorySearchFold: true,
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		AutoComplete:      readline.NewPrefixCompleter(items...),
		Stdout:            r.stdout,
		Stderr:            r.stderr,
	}
	if f, ok := r.stdin.(*os.File); ok {
		rc.Stdin = f
	} else {
		rc.Stdin = io.NopCloser(r.stdin)
	}

	// History is best effort; a missing home directory only disables it.
	if dir, err := config.Dir(); err == nil {
		if err := os.MkdirAll(dir, 0o700); err == nil {
			rc.HistoryFile = filepath.Join(dir, historyFile)
		} else {
			r.logger.Warn("history disabled", "error", err)
		}
	}

	return readline.NewEx(rc)
}
