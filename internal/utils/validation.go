package utils

import (
	"fmt"
	"regexp"
	"strings"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateEmail checks if an email address is valid
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ValidationError{Field: "email", Message: "email is required"}
	}
	if !emailRegex.MatchString(email) {
		return ValidationError{Field: "email", Message: "invalid email format"}
	}
	return nil
}

// ValidateName checks that a kid or chore name is present and sane
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ValidationError{Field: "name", Message: "name is required"}
	}
	if len(name) > 100 {
		return ValidationError{Field: "name", Message: "name must be at most 100 characters"}
	}
	return nil
}

// ValidatePositive checks that n is greater than zero
func ValidatePositive(field string, n int) error {
	if n <= 0 {
		return ValidationError{Field: field, Message: fmt.Sprintf("%s must be a positive number", field)}
	}
	return nil
}

// ValidateID checks that an identifier was supplied
func ValidateID(field string, id int64) error {
	if id <= 0 {
		return ValidationError{Field: field, Message: fmt.Sprintf("%s is required", field)}
	}
	return nil
}
