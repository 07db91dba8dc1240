package combine

import (
	"fmt"

	"gitlab.com/tozd/go/errors"
)

// Kind classifies pipeline errors so callers can branch without parsing messages.
type Kind int

const (
	KindConfig   Kind = iota + 1 // invalid options or configuration
	KindIO                       // a directory, file or the output could not be accessed
	KindTemplate                 // the template could not be read or has no marker
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "config error"
	case KindIO:
		return "i/o error"
	case KindTemplate:
		return "template error"
	default:
		return "unknown error"
	}
}

// Error is a classified pipeline error.
type Error struct {
	Kind  Kind
	Stage Stage  // The stage the error occurred in.
	Path  string // The path involved, if any.
	Err   error
}

func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, path string, err error) *Error {
	return &Error{Kind: kind, Path: path, Err: err}
}

// IsKind reports whether err is, or wraps, an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// KindOf returns the kind of err, or 0 when err is not classified.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
