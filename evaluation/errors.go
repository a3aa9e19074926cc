package evaluation

import (
	"errors"
	"fmt"
)

var (
	// ErrUndefined matches every UndefinedError.
	ErrUndefined        = errors.New("undefined measure")
	ErrUniverse         = errors.New("inconsistent universe")
	ErrAlreadyRetrieved = errors.New("already retrieved")
	ErrNotCandidate     = errors.New("not a retrievable candidate")
)

// UndefinedError is returned when a measure cannot be computed, e.g.
// because the universe is unknown or nothing has been evaluated yet.
type UndefinedError struct {
	Measure string
	Reason  string
}

func (e *UndefinedError) Error() string {
	return fmt.Sprintf("%s is undefined: %s", e.Measure, e.Reason)
}

func (e *UndefinedError) Is(target error) bool {
	return target == ErrUndefined
}

func undefined(measure, reason string) error {
	return &UndefinedError{Measure: measure, Reason: reason}
}

const (
	zeroDivision    = "division by zero"
	unknownUniverse = "unknown universe"
	noRows          = "empty evaluation sheet"
)
