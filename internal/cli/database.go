package cli

import (
	"context"

	"github.com/joacominatel/dcon/internal/app"
	"github.com/spf13/cobra"
)

func (r *root) databaseCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "database",
		Aliases: []string{"db"},
		Short:   "Manage databases",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List databases",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.withService(cmd, func(ctx context.Context, svc *app.Service) error {
				return svc.ListDatabases(ctx)
			})
		},
	}

	var name, owner, encoding string
	var createConfirmed bool
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.withService(cmd, func(ctx context.Context, svc *app.Service) error {
				return svc.CreateDatabase(ctx, name, owner, encoding, createConfirmed)
			})
		},
	}
	create.Flags().StringVar(&name, "name", "", "database name")
	create.Flags().StringVar(&owner, "owner", "", "database owner")
	create.Flags().StringVar(&encoding, "encoding", "UTF8", "character encoding")
	create.Flags().BoolVar(&createConfirmed, "confirm", false, "skip the confirmation prompt")
	_ = create.MarkFlagRequired("name")

	var dropName string
	var confirmed bool
	drop := &cobra.Command{
		Use:   "drop",
		Short: "Drop a database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.withService(cmd, func(ctx context.Context, svc *app.Service) error {
				return svc.DropDatabase(ctx, dropName, confirmed)
			})
		},
	}
	drop.Flags().StringVar(&dropName, "name", "", "database name")
	drop.Flags().BoolVar(&confirmed, "confirm", false, "skip the confirmation prompt")
	_ = drop.MarkFlagRequired("name")

	var infoName string
	info := &cobra.Command{
		Use:   "info",
		Short: "Show details of a database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.withService(cmd, func(ctx context.Context, svc *app.Service) error {
				return svc.DatabaseInfo(ctx, infoName)
			})
		},
	}
	info.Flags().StringVar(&infoName, "name", "", "database name (default: the connected database)")

	cmd.AddCommand(list, create, drop, info)
	return cmd
}
