package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joacominatel/dcon/internal/app"
	"github.com/joacominatel/dcon/internal/tui"
	"github.com/spf13/cobra"
)

func (r *root) browseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Open the full-screen database browser",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			conn := app.NewConnection(r.dial)
			defer func() {
				if err := conn.Disconnect(context.Background()); err != nil {
					r.logger.Warn("close connection", "error", err)
				}
			}()

			m := tui.NewModel(ctx, conn, r.settings.Connection)
			p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx), tea.WithInput(r.stdin), tea.WithOutput(r.stdout))
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("run browser: %w", err)
			}
			return nil
		},
	}
}
