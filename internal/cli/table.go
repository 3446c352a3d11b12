package cli

import (
	"context"

	"github.com/joacominatel/dcon/internal/app"
	"github.com/spf13/cobra"
)

func (r *root) tableCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "table",
		Short: "Manage tables",
	}

	var system bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List tables and views",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.withService(cmd, func(ctx context.Context, svc *app.Service) error {
				return svc.ListTables(ctx, system)
			})
		},
	}
	list.Flags().BoolVar(&system, "system", false, "include system schemas")

	var table, schema string
	describe := &cobra.Command{
		Use:   "describe",
		Short: "Show the columns of a table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.withService(cmd, func(ctx context.Context, svc *app.Service) error {
				return svc.DescribeTable(ctx, table, schema)
			})
		},
	}
	describe.Flags().StringVar(&table, "table", "", "table name")
	describe.Flags().StringVar(&schema, "schema", "", "schema name (default public)")
	_ = describe.MarkFlagRequired("table")

	var sql string
	var createConfirmed bool
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a table from a CREATE TABLE statement",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.withService(cmd, func(ctx context.Context, svc *app.Service) error {
				return svc.CreateTable(ctx, sql, createConfirmed)
			})
		},
	}
	create.Flags().StringVar(&sql, "sql", "", "CREATE TABLE statement")
	create.Flags().BoolVar(&createConfirmed, "confirm", false, "skip the confirmation prompt")
	_ = create.MarkFlagRequired("sql")

	var dropTable string
	var confirmed bool
	drop := &cobra.Command{
		Use:   "drop",
		Short: "Drop a table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.withService(cmd, func(ctx context.Context, svc *app.Service) error {
				return svc.DropTable(ctx, dropTable, confirmed)
			})
		},
	}
	drop.Flags().StringVar(&dropTable, "table", "", "table name")
	drop.Flags().BoolVar(&confirmed, "confirm", false, "skip the confirmation prompt")
	_ = drop.MarkFlagRequired("table")

	cmd.AddCommand(list, describe, create, drop)
	return cmd
}
