package cli

import (
	"context"

	"github.com/joacominatel/dcon/internal/app"
	"github.com/spf13/cobra"
)

func (r *root) connectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "connect",
		Short: "Test the connection and show session details",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.withService(cmd, func(ctx context.Context, svc *app.Service) error {
				return svc.Connect(ctx)
			})
		},
	}
}

func (r *root) queryCommand() *cobra.Command {
	var sql string
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Run a SQL statement",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.withService(cmd, func(ctx context.Context, svc *app.Service) error {
				return svc.Query(ctx, sql)
			})
		},
	}
	cmd.Flags().StringVar(&sql, "sql", "", "SQL to execute")
	_ = cmd.MarkFlagRequired("sql")
	return cmd
}
