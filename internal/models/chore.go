package models

import "time"

// Chore is an entry in the master chore catalog
type Chore struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// Assignment binds a chore to a kid with a recurrence rule
type Assignment struct {
	ID        int64  `json:"id"`
	KidID     int64  `json:"kid_id"`
	ChoreID   int64  `json:"chore_id"`
	Frequency string `json:"frequency"`
	IsActive  bool   `json:"is_active"`
}

// AssignmentDetail is an assignment joined with kid and chore names
type AssignmentDetail struct {
	Assignment
	KidName   string `json:"kid_name"`
	ChoreName string `json:"chore_name"`
	ChoreIcon string `json:"chore_icon"`
}

// DueChore is an assignment due on a given day and whether it is done
type DueChore struct {
	AssignmentID   int64  `json:"assignment_id"`
	KidID          int64  `json:"kid_id"`
	ChoreID        int64  `json:"chore_id"`
	ChoreName      string `json:"chore_name"`
	ChoreIcon      string `json:"chore_icon"`
	Frequency      string `json:"frequency"`
	CompletedToday bool   `json:"completed_today"`
}

// Completion records that an assignment was done on a calendar day.
// AssignmentID is nil for rows imported without an owning assignment.
type Completion struct {
	ID            int64     `json:"id"`
	AssignmentID  *int64    `json:"assignment_id"`
	KidID         int64     `json:"kid_id"`
	ChoreID       int64     `json:"chore_id"`
	DateCompleted string    `json:"date_completed"`
	CompletedAt   time.Time `json:"completed_at"`
}
