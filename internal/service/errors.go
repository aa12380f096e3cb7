package service

import (
	"errors"
	"fmt"
)

// ErrNotFound is wrapped by every missing-entity error so callers can match
// the whole family with errors.Is.
var ErrNotFound = errors.New("not found")

var (
	ErrKidNotFound        = fmt.Errorf("kid %w", ErrNotFound)
	ErrChoreNotFound      = fmt.Errorf("chore %w", ErrNotFound)
	ErrAssignmentNotFound = fmt.Errorf("assignment %w", ErrNotFound)
	ErrNoMatchingStars    = fmt.Errorf("matching stars %w", ErrNotFound)
)
