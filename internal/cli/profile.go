package cli

import (
	"fmt"

	"github.com/joacominatel/dcon/internal/config"
	"github.com/joacominatel/dcon/internal/database"
	"github.com/joacominatel/dcon/internal/output"
	"github.com/spf13/cobra"
)

func (r *root) profileCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage saved connection profiles",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List saved profiles",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			p := r.printer()
			if len(r.cfg.Profiles) == 0 {
				p.Warn("No profiles saved.")
				return nil
			}
			p.Title("Saved Profiles:")
			return p.Records(profileRecords(r.cfg))
		},
	}

	var savePassword, makeDefault bool
	save := &cobra.Command{
		Use:   "save NAME",
		Short: "Save the current connection settings as a profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			name := args[0]
			conn := r.settings.Connection
			if err := conn.Validate(); err != nil {
				return err
			}
			r.cfg.SaveProfile(config.ProfileFrom(name, conn))
			if makeDefault {
				r.cfg.DefaultProfile = name
			}
			if savePassword {
				if conn.Password == "" {
					return database.NewError(database.KindInvalidConfiguration, "no password to save", nil)
				}
				if err := r.secrets.Set(name, conn.Password); err != nil {
					return err
				}
			}
			if err := r.loader.Save(r.cfg); err != nil {
				return err
			}
			r.printer().Success("Profile '%s' saved.", name)
			return nil
		},
	}
	save.Flags().BoolVar(&savePassword, "save-password", false, "store the password in the OS keyring")
	save.Flags().BoolVar(&makeDefault, "default", false, "use this profile when --profile is not given")

	del := &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a saved profile and its stored password",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			name := args[0]
			if !r.cfg.RemoveProfile(name) {
				return database.NewError(database.KindInvalidConfiguration, fmt.Sprintf("profile %q not found", name), nil)
			}
			if err := r.secrets.Delete(name); err != nil {
				r.logger.Warn("stored password not removed", "profile", name, "error", err)
			}
			if err := r.loader.Save(r.cfg); err != nil {
				return err
			}
			r.printer().Success("Profile '%s' deleted.", name)
			return nil
		},
	}

	cmd.AddCommand(list, save, del)
	return cmd
}

func profileRecords(cfg *config.Config) output.Records {
	rows := make([][]string, len(cfg.Profiles))
	for i, p := range cfg.Profiles {
		def := ""
		if p.Name == cfg.DefaultProfile {
			def = "*"
		}
		rows[i] = []string{p.Name, p.DisplayString(), def}
	}
	return output.Records{
		Header: []string{"Name", "Connection", "Default"},
		Rows:   rows,
		Value:  cfg.Profiles,
	}
}
