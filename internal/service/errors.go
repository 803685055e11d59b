package service

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoQuestionsGenerated is returned when every generation batch came back empty.
	ErrNoQuestionsGenerated = errors.New("no questions generated")
	ErrValidation           = errors.New("validation failed")
	ErrModelUnavailable     = errors.New("generative model is not configured")
	ErrNotFound             = errors.New("not found")
	// ErrStoreUnavailable is returned by persisted-test operations when no database is configured.
	ErrStoreUnavailable = errors.New("document store is not configured")
	// ErrRecommenderUnavailable is returned when no recommender dataset could be loaded.
	ErrRecommenderUnavailable = errors.New("recommender dataset is not loaded")
)

// ValidationError carries the individual problems found in client input.
type ValidationError struct {
	Details []string
}

func NewValidationError(details ...string) *ValidationError {
	return &ValidationError{Details: details}
}

func (e *ValidationError) Error() string {
	if len(e.Details) == 0 {
		return ErrValidation.Error()
	}
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(e.Details, "; "))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// ParseErrorKind classifies why model output could not be turned into questions.
type ParseErrorKind string

const (
	ParseErrorEmpty  ParseErrorKind = "empty"
	ParseErrorSyntax ParseErrorKind = "syntax"
	ParseErrorShape  ParseErrorKind = "shape"
)

type ParseError struct {
	Kind ParseErrorKind
	Raw  string // first bytes of the offending text
	Err  error
}

func newParseError(kind ParseErrorKind, raw string, err error) *ParseError {
	const maxSnippet = 200
	if len(raw) > maxSnippet {
		raw = raw[:maxSnippet] + "..."
	}
	return &ParseError{Kind: kind, Raw: raw, Err: err}
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse model output (%s): %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("parse model output (%s)", e.Kind)
}

func (e *ParseError) Unwrap() error { return e.Err }
