package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"
)

//go:embed migrations
var migrationFiles embed.FS

// Tables in dependency order, parents first.
var schemaTables = []string{
	"kids",
	"chores_master",
	"chore_assignments",
	"chore_completions",
	"stars",
}

// RunMigrations executes the embedded SQL migrations for the active dialect
func (db *DB) RunMigrations(ctx context.Context) error {
	// Create migrations table if it doesn't exist
	if _, err := db.ExecContext(ctx, db.Dialect.CreateMigrationsTableQuery()); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	dir := path.Join("migrations", db.Dialect.MigrationsSubdir())
	files, err := fs.Glob(migrationFiles, path.Join(dir, "*.sql"))
	if err != nil {
		return fmt.Errorf("failed to read migration files: %w", err)
	}

	// Sort files to ensure they run in order
	sort.Strings(files)

	for _, file := range files {
		filename := path.Base(file)

		hasRun, err := db.hasMigrationRun(ctx, filename)
		if err != nil {
			return fmt.Errorf("failed to check migration status: %w", err)
		}
		if hasRun {
			continue
		}

		content, err := migrationFiles.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", filename, err)
		}

		if err := db.executeMigration(ctx, filename, string(content)); err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", filename, err)
		}

		log.WithField("migration", filename).Info("Migration completed")
	}

	return nil
}

// Reset drops every application table and the migrations record so the
// next RunMigrations starts from an empty schema.
func (db *DB) Reset(ctx context.Context) error {
	tables := append([]string{"migrations"}, schemaTables...)
	for i := len(tables) - 1; i >= 0; i-- {
		if _, err := db.ExecContext(ctx, "DROP TABLE IF EXISTS "+tables[i]); err != nil {
			return fmt.Errorf("failed to drop table %s: %w", tables[i], err)
		}
	}
	return nil
}

// Tables returns the application tables in dependency order, parents first.
func Tables() []string {
	out := make([]string, len(schemaTables))
	copy(out, schemaTables)
	return out
}

// hasMigrationRun checks if a migration has already been executed
func (db *DB) hasMigrationRun(ctx context.Context, filename string) (bool, error) {
	var count int
	query := "SELECT COUNT(*) FROM migrations WHERE filename = ?"
	if err := db.QueryRowContext(ctx, query, filename).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// executeMigration runs each statement of a migration and records it, all in
// one transaction where the engine supports transactional DDL.
func (db *DB) executeMigration(ctx context.Context, filename, content string) error {
	return db.WithTx(ctx, func(tx *Tx) error {
		for _, stmt := range splitStatements(content) {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return err
			}
		}
		_, err := tx.ExecContext(ctx, "INSERT INTO migrations (filename) VALUES (?)", filename)
		return err
	})
}

// splitStatements breaks a migration file into individual statements. MySQL
// rejects multi-statement Exec calls unless the DSN opts in, so every dialect
// executes one statement at a time.
func splitStatements(content string) []string {
	var stmts []string
	for _, part := range strings.Split(content, ";") {
		var lines []string
		for _, line := range strings.Split(part, "\n") {
			if strings.HasPrefix(strings.TrimSpace(line), "--") {
				continue
			}
			lines = append(lines, line)
		}
		stmt := strings.TrimSpace(strings.Join(lines, "\n"))
		if stmt != "" {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}
