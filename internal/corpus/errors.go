package corpus

import (
	"errors"
	"fmt"
)

var (
	// ErrLoad matches every *LoadError via errors.Is.
	ErrLoad = errors.New("corpus load failed")

	// ErrNotFound is returned by Get for an unknown identifier. It is an
	// expected outcome, not a fault.
	ErrNotFound = errors.New("talk not found")

	// ErrDuplicateID is returned when two records share an identifier.
	ErrDuplicateID = errors.New("duplicate talk id")

	// ErrNoTalksTable is returned by SQLiteSource for a database the import
	// command never wrote.
	ErrNoTalksTable = errors.New("talks table not found (run the import command first)")
)

// LoadError reports that a record source was unreadable or structurally
// invalid. Missing optional fields never cause a LoadError.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load corpus from %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrLoad) true for any LoadError.
func (e *LoadError) Is(target error) bool { return target == ErrLoad }

func asLoadError(source string, err error) error {
	var le *LoadError
	if errors.As(err, &le) {
		return le
	}
	return &LoadError{Source: source, Err: err}
}
