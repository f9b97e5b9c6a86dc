package engine

import (
	"errors"
	"strings"
)

// ErrorKind classifies catalog failures so callers never have to match on
// driver message text.
type ErrorKind int

const (
	// KindOther covers failures that are neither clearly "not found" nor
	// "already exists". Callers must propagate these unchanged.
	KindOther ErrorKind = iota
	KindNotFound
	KindAlreadyExists
)

// CatalogError is a query failure attributed to the engine catalog.
type CatalogError struct {
	Kind    ErrorKind
	Message string
}

func (e *CatalogError) Error() string { return e.Message }

// AsCatalogError unwraps err to a *CatalogError if it is one.
func AsCatalogError(err error) (*CatalogError, bool) {
	var ce *CatalogError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// IsNotFound reports whether err is a catalog error of kind KindNotFound.
func IsNotFound(err error) bool {
	ce, ok := AsCatalogError(err)
	return ok && ce.Kind == KindNotFound
}

// IsAlreadyExists reports whether err is a catalog error of kind
// KindAlreadyExists.
func IsAlreadyExists(err error) bool {
	ce, ok := AsCatalogError(err)
	return ok && ce.Kind == KindAlreadyExists
}

// ClassifyMessage maps a raw driver error message to an ErrorKind. Message
// substrings vary by engine, so the mapping lives here in the adapter layer
// and nowhere else.
func ClassifyMessage(msg string) ErrorKind {
	m := strings.ToLower(msg)
	switch {
	case strings.Contains(m, "already exists"):
		return KindAlreadyExists
	case strings.Contains(m, "does not exist"),
		strings.Contains(m, "not found"),
		strings.Contains(m, "no such table"),
		strings.Contains(m, "no such view"),
		strings.Contains(m, "catalog error"):
		return KindNotFound
	default:
		return KindOther
	}
}
