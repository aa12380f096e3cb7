// Package cli implements the chorectl operator commands.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"chorechart/internal/config"
	"chorechart/internal/database"
	"chorechart/internal/logging"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	DatabaseType string
	DatabasePath string
	DatabaseURL  string
	LogLevel     string
}

// NewRootCommand creates the root command for chorectl.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "chorectl",
		Short: "Chore chart maintenance tool",
		Long: `Operator commands for the chore chart database.

The database is chosen by DATABASE_TYPE, DB_PATH and DATABASE_URL (a .env file
is read when present). The flags below override those values.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Setup(opts.LogLevel, "text", cmd.ErrOrStderr())
		},
	}

	cmd.PersistentFlags().StringVar(&opts.DatabaseType, "db-type", "", "database type: sqlite, postgres or mysql")
	cmd.PersistentFlags().StringVar(&opts.DatabasePath, "db-path", "", "SQLite database path")
	cmd.PersistentFlags().StringVar(&opts.DatabaseURL, "database-url", "", "PostgreSQL or MySQL connection URL")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "info", "log level")

	cmd.AddCommand(NewInitDBCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewImportCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))

	return cmd
}

// config merges the flag overrides into the environment configuration.
func (o *RootOptions) config() *config.Config {
	cfg := config.Load()
	if o.DatabaseType != "" {
		cfg.DatabaseType = o.DatabaseType
	}
	if o.DatabasePath != "" {
		cfg.DatabasePath = o.DatabasePath
	}
	if o.DatabaseURL != "" {
		cfg.DatabaseURL = o.DatabaseURL
	}
	return cfg
}

// openDB connects to the configured database and brings the schema up to date.
func (o *RootOptions) openDB(ctx context.Context) (*database.DB, error) {
	db, err := o.connect()
	if err != nil {
		return nil, err
	}
	if err := db.RunMigrations(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return db, nil
}

func (o *RootOptions) connect() (*database.DB, error) {
	db, err := database.InitializeWithConfig(o.config())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return db, nil
}
