package cli

import (
	"context"

	"github.com/joacominatel/dcon/internal/app"
	"github.com/joacominatel/dcon/internal/database"
	"github.com/spf13/cobra"
)

func (r *root) crudCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crud",
		Short: "Create, read, update and delete rows",
	}

	var insTable, insData string
	create := &cobra.Command{
		Use:   "create",
		Short: "Insert one row from a JSON object",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.withService(cmd, func(ctx context.Context, svc *app.Service) error {
				return svc.Insert(ctx, insTable, insData)
			})
		},
	}
	create.Flags().StringVar(&insTable, "table", "", "table name")
	create.Flags().StringVar(&insData, "data", "", `row as a JSON object, e.g. '{"name":"Ana"}'`)
	_ = create.MarkFlagRequired("table")
	_ = create.MarkFlagRequired("data")

	var opts database.SelectOptions
	var limit, offset int64
	read := &cobra.Command{
		Use:   "read",
		Short: "Select rows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("limit") {
				opts.Limit = &limit
			}
			if cmd.Flags().Changed("offset") {
				opts.Offset = &offset
			}
			return r.withService(cmd, func(ctx context.Context, svc *app.Service) error {
				return svc.Read(ctx, opts)
			})
		},
	}
	read.Flags().StringVar(&opts.Table, "table", "", "table name")
	read.Flags().StringVar(&opts.Where, "filter", "", "WHERE condition")
	read.Flags().StringVar(&opts.Columns, "columns", "", "comma separated columns (default *)")
	read.Flags().Int64Var(&limit, "limit", 0, "maximum rows")
	read.Flags().Int64Var(&offset, "offset", 0, "rows to skip")
	read.Flags().StringVar(&opts.OrderBy, "order", "", "ORDER BY clause")
	_ = read.MarkFlagRequired("table")

	var updTable, updData, updWhere string
	var updConfirmed bool
	update := &cobra.Command{
		Use:   "update",
		Short: "Update matching rows from a JSON object",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.withService(cmd, func(ctx context.Context, svc *app.Service) error {
				return svc.Update(ctx, updTable, updData, updWhere, updConfirmed)
			})
		},
	}
	update.Flags().StringVar(&updTable, "table", "", "table name")
	update.Flags().StringVar(&updData, "data", "", "columns to set as a JSON object")
	update.Flags().StringVar(&updWhere, "filter", "", "WHERE condition")
	update.Flags().BoolVar(&updConfirmed, "confirm", false, "skip the confirmation prompt")
	for _, f := range []string{"table", "data", "filter"} {
		_ = update.MarkFlagRequired(f)
	}

	var delTable, delWhere string
	var delConfirmed bool
	del := &cobra.Command{
		Use:   "delete",
		Short: "Delete matching rows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.withService(cmd, func(ctx context.Context, svc *app.Service) error {
				return svc.Delete(ctx, delTable, delWhere, delConfirmed)
			})
		},
	}
	del.Flags().StringVar(&delTable, "table", "", "table name")
	del.Flags().StringVar(&delWhere, "filter", "", "WHERE condition")
	del.Flags().BoolVar(&delConfirmed, "confirm", false, "skip the confirmation prompt")
	_ = del.MarkFlagRequired("table")
	_ = del.MarkFlagRequired("filter")

	cmd.AddCommand(create, read, update, del)
	return cmd
}
