package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"chorechart/internal/service"
)

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the database to a JSON backup",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := rootOpts.openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			if output == "" {
				output = fmt.Sprintf("backup_%s.json", time.Now().Format("20060102_150405"))
			}

			var w io.Writer = cmd.OutOrStdout()
			if output != "-" {
				if dir := filepath.Dir(output); dir != "." && dir != "" {
					if err := os.MkdirAll(dir, 0755); err != nil {
						return fmt.Errorf("failed to create output directory: %w", err)
					}
				}
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", output, err)
				}
				defer f.Close()
				w = f
			}

			backup, err := service.NewBackupService(db).Export(cmd.Context(), w)
			if err != nil {
				return err
			}
			if output != "-" {
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d kids, %d chores, %d assignments, %d completions and %d stars to %s\n",
					len(backup.Kids), len(backup.Chores), len(backup.Assignments), len(backup.Completions), len(backup.Stars), output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, - for stdout (default: backup_YYYYMMDD_HHMMSS.json)")
	return cmd
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		input     string
		clearData bool
		confirm   bool
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Restore a JSON backup",
		Long: `Restore a JSON backup produced by export.

Without --clear the backup is merged into the existing data and ids must not
clash. With --clear all existing data is deleted first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(input)
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", input, err)
			}
			defer f.Close()

			if clearData && !confirm {
				fmt.Fprint(cmd.OutOrStdout(), "WARNING: This will delete all existing data. Type 'yes' to confirm: ")
				answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if strings.TrimSpace(answer) != "yes" {
					fmt.Fprintln(cmd.OutOrStdout(), "Import cancelled.")
					return nil
				}
			}

			db, err := rootOpts.openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			backup, err := service.NewBackupService(db).Import(cmd.Context(), f, clearData)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d kids, %d chores, %d assignments, %d completions and %d stars.\n",
				len(backup.Kids), len(backup.Chores), len(backup.Assignments), len(backup.Completions), len(backup.Stars))
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "backup file to restore (required)")
	cmd.Flags().BoolVar(&clearData, "clear", false, "delete existing data before importing (destructive)")
	cmd.Flags().BoolVarP(&confirm, "yes", "y", false, "do not ask for confirmation")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}
