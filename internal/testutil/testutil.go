// Package testutil provides fixtures shared by package tests.
package testutil

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"chorechart/internal/database"
)

// NewTestDB opens a migrated SQLite database in a temporary directory
func NewTestDB(t testing.TB) *database.DB {
	t.Helper()
	db, err := database.Initialize(filepath.Join(t.TempDir(), "chores.db"))
	if err != nil {
		t.Fatalf("failed to initialize test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// Clock is a settable time source
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock returns a clock frozen at now
func NewClock(now time.Time) *Clock {
	return &Clock{now: now}
}

// Now returns the current fake time
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set moves the clock to t
func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// AddDays moves the clock forward by n calendar days
func (c *Clock) AddDays(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.AddDate(0, 0, n)
}

// Monday is a fixed Monday at noon UTC.
var Monday = time.Date(2024, time.June, 3, 12, 0, 0, 0, time.UTC)

// CreateKid inserts a kid directly and returns its id
func CreateKid(t testing.TB, db *database.DB, name string, trackLength int) int64 {
	t.Helper()
	id, err := db.ExecReturningID(context.Background(),
		"INSERT INTO kids (name, avatar_color, train_track_length) VALUES (?, ?, ?)", name, "#ff8800", trackLength)
	if err != nil {
		t.Fatalf("failed to create kid: %v", err)
	}
	return id
}

// CreateChore inserts a master chore directly and returns its id
func CreateChore(t testing.TB, db *database.DB, name string) int64 {
	t.Helper()
	id, err := db.ExecReturningID(context.Background(), "INSERT INTO chores_master (name, icon) VALUES (?, ?)", name, "")
	if err != nil {
		t.Fatalf("failed to create chore: %v", err)
	}
	return id
}

// Assign inserts an active assignment directly and returns its id
func Assign(t testing.TB, db *database.DB, kidID, choreID int64, frequency string) int64 {
	t.Helper()
	id, err := db.ExecReturningID(context.Background(),
		"INSERT INTO chore_assignments (kid_id, chore_id, frequency, is_active) VALUES (?, ?, ?, ?)", kidID, choreID, frequency, true)
	if err != nil {
		t.Fatalf("failed to create assignment: %v", err)
	}
	return id
}

// SetBalloons overwrites a kid's balloon count
func SetBalloons(t testing.TB, db *database.DB, kidID int64, balloons int) {
	t.Helper()
	if _, err := db.ExecContext(context.Background(), "UPDATE kids SET balloons = ? WHERE id = ?", balloons, kidID); err != nil {
		t.Fatalf("failed to set balloons: %v", err)
	}
}

// AddStar inserts a star directly
func AddStar(t testing.TB, db *database.DB, kidID int64, day, starType string) int64 {
	t.Helper()
	id, err := db.ExecReturningID(context.Background(),
		"INSERT INTO stars (kid_id, date_awarded, type, reason) VALUES (?, ?, ?, ?)", kidID, day, starType, "")
	if err != nil {
		t.Fatalf("failed to add star: %v", err)
	}
	return id
}

// CountRows counts rows in a table matching an optional where clause
func CountRows(t testing.TB, db *database.DB, table, where string, args ...interface{}) int {
	t.Helper()
	query := "SELECT COUNT(*) FROM " + table
	if where != "" {
		query += " WHERE " + where
	}
	var n int
	if err := db.QueryRowContext(context.Background(), query, args...).Scan(&n); err != nil {
		t.Fatalf("failed to count %s: %v", table, err)
	}
	return n
}
