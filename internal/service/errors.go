package service

import (
	"errors"
	"fmt"
)

var (
	// ErrNoResponses is returned when insight generation is requested
	// with an empty record set.
	ErrNoResponses = errors.New("no survey responses available for analysis")
)

// GenerationErrorKind distinguishes the two ways an insight generation
// can fail, so callers can message users differently ("service
// unreachable" vs "response malformed").
type GenerationErrorKind string

const (
	// GenerationTransport covers network, auth, and quota failures
	// reaching the text-generation service.
	GenerationTransport GenerationErrorKind = "transport"
	// GenerationParse covers responses that came back but were not
	// valid JSON or did not match the report shape.
	GenerationParse GenerationErrorKind = "parse"
)

// GenerationError is a typed insight generation failure.
type GenerationError struct {
	Kind GenerationErrorKind
	Err  error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("insight generation (%s): %v", e.Kind, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

func newTransportError(err error) *GenerationError {
	return &GenerationError{Kind: GenerationTransport, Err: err}
}

func newParseError(err error) *GenerationError {
	return &GenerationError{Kind: GenerationParse, Err: err}
}
