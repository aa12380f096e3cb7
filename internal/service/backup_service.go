package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"chorechart/internal/database"
	"chorechart/internal/models"
	"chorechart/internal/repository"
	"chorechart/internal/schedule"
)

const backupVersion = "1.0"

// BackupData represents the complete database backup structure
type BackupData struct {
	Version      string              `json:"version"`
	ExportedAt   time.Time           `json:"exported_at"`
	DatabaseType string              `json:"database_type"`
	Kids         []models.Kid        `json:"kids"`
	Chores       []models.Chore      `json:"chores_master"`
	Assignments  []models.Assignment `json:"chore_assignments"`
	Completions  []models.Completion `json:"chore_completions"`
	Stars        []models.Star       `json:"stars"`
}

// BackupService handles database backup, restore and seeding
type BackupService struct {
	db *database.DB
}

// NewBackupService creates a new backup service
func NewBackupService(db *database.DB) *BackupService {
	return &BackupService{db: db}
}

// Export writes a JSON backup of every table to w
func (s *BackupService) Export(ctx context.Context, w io.Writer) (*BackupData, error) {
	log.Info("Starting database export...")

	backup := &BackupData{
		Version:      backupVersion,
		ExportedAt:   time.Now().UTC(),
		DatabaseType: s.db.Dialect.DriverName(),
	}

	steps := []struct {
		name string
		fn   func(context.Context, *BackupData) error
	}{
		{"kids", s.exportKids},
		{"chores", s.exportChores},
		{"assignments", s.exportAssignments},
		{"completions", s.exportCompletions},
		{"stars", s.exportStars},
	}
	for _, step := range steps {
		if err := step.fn(ctx, backup); err != nil {
			return nil, fmt.Errorf("failed to export %s: %w", step.name, err)
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(backup); err != nil {
		return nil, fmt.Errorf("failed to encode backup: %w", err)
	}

	log.WithFields(log.Fields{
		"kids":        len(backup.Kids),
		"chores":      len(backup.Chores),
		"assignments": len(backup.Assignments),
		"completions": len(backup.Completions),
		"stars":       len(backup.Stars),
	}).Info("Database exported successfully")
	return backup, nil
}

func (s *BackupService) exportKids(ctx context.Context, backup *BackupData) error {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name, avatar_color, balloons, train_track_length, train_laps_completed, created_at FROM kids ORDER BY id")
	if err != nil {
		return err
	}
	defer rows.Close()

	backup.Kids = []models.Kid{}
	for rows.Next() {
		var k models.Kid
		if err := rows.Scan(&k.ID, &k.Name, &k.AvatarColor, &k.Balloons, &k.TrainTrackLength, &k.TrainLapsCompleted, &k.CreatedAt); err != nil {
			return err
		}
		backup.Kids = append(backup.Kids, k)
	}
	return rows.Err()
}

func (s *BackupService) exportChores(ctx context.Context, backup *BackupData) error {
	chores, err := repository.NewChoreRepository(s.db).GetAllChores(ctx)
	if err != nil {
		return err
	}
	backup.Chores = chores
	return nil
}

func (s *BackupService) exportAssignments(ctx context.Context, backup *BackupData) error {
	rows, err := s.db.QueryContext(ctx, "SELECT id, kid_id, chore_id, frequency, is_active FROM chore_assignments ORDER BY id")
	if err != nil {
		return err
	}
	defer rows.Close()

	backup.Assignments = []models.Assignment{}
	for rows.Next() {
		var a models.Assignment
		if err := rows.Scan(&a.ID, &a.KidID, &a.ChoreID, &a.Frequency, &a.IsActive); err != nil {
			return err
		}
		backup.Assignments = append(backup.Assignments, a)
	}
	return rows.Err()
}

func (s *BackupService) exportCompletions(ctx context.Context, backup *BackupData) error {
	rows, err := s.db.QueryContext(ctx, "SELECT id, assignment_id, kid_id, chore_id, date_completed, completed_at FROM chore_completions ORDER BY id")
	if err != nil {
		return err
	}
	defer rows.Close()

	backup.Completions = []models.Completion{}
	for rows.Next() {
		var c models.Completion
		var assignmentID sql.NullInt64
		if err := rows.Scan(&c.ID, &assignmentID, &c.KidID, &c.ChoreID, &c.DateCompleted, &c.CompletedAt); err != nil {
			return err
		}
		if assignmentID.Valid {
			id := assignmentID.Int64
			c.AssignmentID = &id
		}
		backup.Completions = append(backup.Completions, c)
	}
	return rows.Err()
}

func (s *BackupService) exportStars(ctx context.Context, backup *BackupData) error {
	rows, err := s.db.QueryContext(ctx, "SELECT id, kid_id, date_awarded, type, reason FROM stars ORDER BY id")
	if err != nil {
		return err
	}
	defer rows.Close()

	backup.Stars = []models.Star{}
	for rows.Next() {
		var st models.Star
		var starType string
		if err := rows.Scan(&st.ID, &st.KidID, &st.DateAwarded, &starType, &st.Reason); err != nil {
			return err
		}
		st.Type = models.StarType(starType)
		backup.Stars = append(backup.Stars, st)
	}
	return rows.Err()
}

// Import restores a JSON backup from r in one transaction. With clearData set the
// existing rows are removed first; otherwise ids in the backup must not clash.
func (s *BackupService) Import(ctx context.Context, r io.Reader, clearData bool) (*BackupData, error) {
	var backup BackupData
	if err := json.NewDecoder(r).Decode(&backup); err != nil {
		return nil, fmt.Errorf("failed to decode backup: %w", err)
	}

	log.WithFields(log.Fields{
		"version":     backup.Version,
		"exported_at": backup.ExportedAt,
		"source":      backup.DatabaseType,
	}).Info("Starting database import")

	err := s.db.WithTx(ctx, func(tx *database.Tx) error {
		if clearData {
			tables := database.Tables()
			for i := len(tables) - 1; i >= 0; i-- {
				table := tables[i]
				if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
					return fmt.Errorf("failed to clear %s: %w", table, err)
				}
			}
		}

		for _, k := range backup.Kids {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO kids (id, name, avatar_color, balloons, train_track_length, train_laps_completed, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
				k.ID, k.Name, k.AvatarColor, k.Balloons, k.TrainTrackLength, k.TrainLapsCompleted, k.CreatedAt); err != nil {
				return fmt.Errorf("failed to import kid %d: %w", k.ID, err)
			}
		}
		for _, c := range backup.Chores {
			if _, err := tx.ExecContext(ctx, "INSERT INTO chores_master (id, name, icon) VALUES (?, ?, ?)", c.ID, c.Name, c.Icon); err != nil {
				return fmt.Errorf("failed to import chore %d: %w", c.ID, err)
			}
		}
		for _, a := range backup.Assignments {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO chore_assignments (id, kid_id, chore_id, frequency, is_active) VALUES (?, ?, ?, ?, ?)",
				a.ID, a.KidID, a.ChoreID, a.Frequency, a.IsActive); err != nil {
				return fmt.Errorf("failed to import assignment %d: %w", a.ID, err)
			}
		}
		for _, c := range backup.Completions {
			var assignmentID interface{}
			if c.AssignmentID != nil {
				assignmentID = *c.AssignmentID
			}
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO chore_completions (id, assignment_id, kid_id, chore_id, date_completed, completed_at) VALUES (?, ?, ?, ?, ?, ?)",
				c.ID, assignmentID, c.KidID, c.ChoreID, c.DateCompleted, c.CompletedAt); err != nil {
				return fmt.Errorf("failed to import completion %d: %w", c.ID, err)
			}
		}
		for _, st := range backup.Stars {
			if !st.Type.Valid() {
				return fmt.Errorf("star %d has unknown type %q", st.ID, st.Type)
			}
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO stars (id, kid_id, date_awarded, type, reason) VALUES (?, ?, ?, ?, ?)",
				st.ID, st.KidID, st.DateAwarded, string(st.Type), st.Reason); err != nil {
				return fmt.Errorf("failed to import star %d: %w", st.ID, err)
			}
		}

		return resetSequences(ctx, tx)
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"kids":        len(backup.Kids),
		"chores":      len(backup.Chores),
		"assignments": len(backup.Assignments),
		"completions": len(backup.Completions),
		"stars":       len(backup.Stars),
	}).Info("Database import completed successfully")
	return &backup, nil
}

// resetSequences moves PostgreSQL id sequences past the imported ids. SQLite
// and MySQL advance their counters on explicit inserts.
func resetSequences(ctx context.Context, tx *database.Tx) error {
	if tx.GetDialect().DriverName() != "postgres" {
		return nil
	}
	for _, table := range database.Tables() {
		query := fmt.Sprintf("SELECT setval(pg_get_serial_sequence('%[1]s', 'id'), COALESCE((SELECT MAX(id) FROM %[1]s), 0) + 1, false)", table)
		if _, err := tx.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to reset sequence for %s: %w", table, err)
		}
	}
	return nil
}

// SeedFile describes kids, chores and assignments to create
type SeedFile struct {
	Kids   []SeedKid   `yaml:"kids"`
	Chores []SeedChore `yaml:"chores"`
}

// SeedKid is a kid entry in a seed file
type SeedKid struct {
	Name             string `yaml:"name"`
	AvatarColor      string `yaml:"avatar_color"`
	TrainTrackLength int    `yaml:"train_track_length"`
}

// SeedChore is a master chore and the kids it is assigned to
type SeedChore struct {
	Name   string       `yaml:"name"`
	Icon   string       `yaml:"icon"`
	Assign []SeedAssign `yaml:"assign"`
}

// SeedAssign names a kid (or "all") and a frequency
type SeedAssign struct {
	Kid       string `yaml:"kid"`
	Frequency string `yaml:"frequency"`
}

// SeedResult counts what a seed run created
type SeedResult struct {
	KidsCreated        int
	ChoresCreated      int
	AssignmentsCreated int
	AssignmentsSkipped int
}

// Seed reads a YAML seed file and creates whatever is missing. Kids and
// chores are matched by name so running the same file twice is harmless.
func (s *BackupService) Seed(ctx context.Context, r io.Reader) (*SeedResult, error) {
	var seed SeedFile
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&seed); err != nil {
		return nil, fmt.Errorf("failed to decode seed file: %w", err)
	}

	// Validate frequencies before touching the database.
	for _, chore := range seed.Chores {
		for _, a := range chore.Assign {
			if _, err := schedule.Parse(a.Frequency); err != nil {
				return nil, fmt.Errorf("chore %q: %w", chore.Name, err)
			}
		}
	}

	catalog := NewCatalogService(s.db)
	result := &SeedResult{}

	kids, err := catalog.ListKids(ctx)
	if err != nil {
		return nil, err
	}
	kidIDs := make(map[string]int64, len(kids))
	for _, k := range kids {
		kidIDs[strings.ToLower(k.Name)] = k.ID
	}
	for _, k := range seed.Kids {
		if _, ok := kidIDs[strings.ToLower(strings.TrimSpace(k.Name))]; ok {
			continue
		}
		kid, err := catalog.CreateKid(ctx, k.Name, k.AvatarColor, k.TrainTrackLength)
		if err != nil {
			return nil, fmt.Errorf("kid %q: %w", k.Name, err)
		}
		kidIDs[strings.ToLower(kid.Name)] = kid.ID
		result.KidsCreated++
	}

	chores, err := catalog.ListChores(ctx)
	if err != nil {
		return nil, err
	}
	choreIDs := make(map[string]int64, len(chores))
	for _, c := range chores {
		choreIDs[strings.ToLower(c.Name)] = c.ID
	}

	for _, c := range seed.Chores {
		key := strings.ToLower(strings.TrimSpace(c.Name))
		choreID, ok := choreIDs[key]
		if !ok {
			chore, err := catalog.CreateChore(ctx, c.Name, c.Icon)
			if err != nil {
				return nil, fmt.Errorf("chore %q: %w", c.Name, err)
			}
			choreID = chore.ID
			choreIDs[key] = choreID
			result.ChoresCreated++
		}

		for _, a := range c.Assign {
			selector := strings.TrimSpace(a.Kid)
			if !strings.EqualFold(selector, AllKids) {
				kidID, ok := kidIDs[strings.ToLower(selector)]
				if !ok {
					return nil, fmt.Errorf("chore %q: unknown kid %q", c.Name, a.Kid)
				}
				selector = strconv.FormatInt(kidID, 10)
			}
			assigned, err := catalog.AssignChore(ctx, selector, choreID, a.Frequency)
			if err != nil {
				return nil, fmt.Errorf("chore %q: %w", c.Name, err)
			}
			result.AssignmentsCreated += len(assigned.AssignmentIDs)
			result.AssignmentsSkipped += assigned.Skipped
		}
	}

	log.WithFields(log.Fields{
		"kids":        result.KidsCreated,
		"chores":      result.ChoresCreated,
		"assignments": result.AssignmentsCreated,
		"skipped":     result.AssignmentsSkipped,
	}).Info("Seed completed")
	return result, nil
}
