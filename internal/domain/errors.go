package domain

import "errors"

var (
	// ErrValidation indicates a record failed construction rules.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidTransition indicates an edit on a locked (paid) payment slot.
	ErrInvalidTransition = errors.New("invalid transition")
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
)

// Kind classifies a core outcome so callers can pick a message without
// parsing error text.
type Kind string

const (
	KindOK         Kind = "ok"
	KindValidation Kind = "validation"
	KindTransition Kind = "transition"
	KindNotFound   Kind = "not_found"
	KindNoOp       Kind = "noop"
	KindInternal   Kind = "internal"
)

// KindOf maps an error returned by the core to its Kind.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindOK
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrInvalidTransition):
		return KindTransition
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	default:
		return KindInternal
	}
}
