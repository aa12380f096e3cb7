package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewInitDBCommand creates the initdb command.
func NewInitDBCommand(rootOpts *RootOptions) *cobra.Command {
	var reset bool

	cmd := &cobra.Command{
		Use:   "initdb",
		Short: "Create the database schema",
		Long: `Apply the embedded schema migrations.

With --reset every chore chart table is dropped first. All data is lost.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			db, err := rootOpts.connect()
			if err != nil {
				return err
			}
			defer db.Close()

			if reset {
				if err := db.Reset(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Dropped existing tables.")
			}
			if err := db.RunMigrations(ctx); err != nil {
				return fmt.Errorf("failed to run migrations: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Database initialized.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&reset, "reset", false, "drop all tables before creating the schema (destructive)")
	return cmd
}
