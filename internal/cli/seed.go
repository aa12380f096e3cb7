package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"chorechart/internal/service"
)

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create kids, chores and assignments from a YAML file",
		Long: `Create kids, master chores and assignments from a YAML file.

Kids and chores are matched by name, so running the same file again only adds
what is missing. Example:

  kids:
    - name: Ada
      avatar_color: "#ff8800"
  chores:
    - name: Make bed
      icon: "🛏️"
      assign:
        - kid: all
          frequency: daily`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(file)
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", file, err)
			}
			defer f.Close()

			db, err := rootOpts.openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			result, err := service.NewBackupService(db).Seed(cmd.Context(), f)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %d kids, %d chores and %d assignments (%d already assigned).\n",
				result.KidsCreated, result.ChoresCreated, result.AssignmentsCreated, result.AssignmentsSkipped)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML seed file (required)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
