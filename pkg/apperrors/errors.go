package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidInput = errors.New("invalid input")
	ErrNoUserTables = errors.New("no user tables in schema")
)

// ViewNotFoundError reports an operation against a view that does not exist
// in the engine catalog. Carries the offending name as structured data.
type ViewNotFoundError struct {
	ViewName string
}

func (e *ViewNotFoundError) Error() string {
	return fmt.Sprintf("view %q does not exist, cannot rename", e.ViewName)
}

func (e *ViewNotFoundError) Unwrap() error { return ErrNotFound }

// ViewExistsError reports a rename target that already resolves in the
// engine catalog.
type ViewExistsError struct {
	ViewName string
}

func (e *ViewExistsError) Error() string {
	return fmt.Sprintf("view %q already exists, cannot rename to an existing name", e.ViewName)
}

func (e *ViewExistsError) Unwrap() error { return ErrConflict }
