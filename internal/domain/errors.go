package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrValidation    = errors.New("validation error")
)

// Parse error kinds. A *ParseError always matches exactly one of these via errors.Is.
var (
	ErrMalformedNumber       = errors.New("malformed number")
	ErrMalformedIndexedValue = errors.New("malformed indexed value")
	ErrMalformedArticleBlock = errors.New("malformed article block")
	ErrMalformedLine         = errors.New("malformed line")
)

// ParseError reports which grammar rule failed and at which byte offset of the line.
type ParseError struct {
	Kind   error  // one of the ErrMalformed* sentinels
	Rule   string // grammar rule, e.g. "timestamp", "user marker"
	Offset int
	Err    error // underlying cause, may be nil
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s at offset %d: %v", e.Kind, e.Rule, e.Offset, e.Err)
	}
	return fmt.Sprintf("%s: %s at offset %d", e.Kind, e.Rule, e.Offset)
}

func (e *ParseError) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

// NewParseError creates a ParseError of the given kind.
func NewParseError(kind error, rule string, offset int, cause error) *ParseError {
	return &ParseError{Kind: kind, Rule: rule, Offset: offset, Err: cause}
}
