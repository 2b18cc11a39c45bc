package core

import (
	"errors"
	"strings"
)

// ValidationError is a local, pre-network failure. It never corresponds to
// a request that reached the server.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Problems) == 0 {
		return "validation failed"
	}
	return strings.Join(e.Problems, "\n")
}

func validationErrorf(problems ...string) *ValidationError {
	return &ValidationError{Problems: problems}
}

// IsValidation reports whether the error was raised locally before any
// network call.
func IsValidation(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}
