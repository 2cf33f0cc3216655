// Package scoreerr holds the closed set of failure kinds a conversion can
// report.
package scoreerr

import (
	"fmt"

	"github.com/pkg/errors"
)

type Kind uint8

const (
	// Input means the document is well formed but has nothing to convert.
	Input Kind = iota + 1
	// Malformed means a field could not be interpreted.
	Malformed
	// Internal means a structural lookup that must succeed did not.
	Internal
	// Unsupported means the document uses a feature the converter does not handle.
	Unsupported
)

func (k Kind) String() string {
	switch k {
	case Input:
		return "input"
	case Malformed:
		return "malformed"
	case Internal:
		return "internal"
	case Unsupported:
		return "unsupported"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Err: errors.Errorf(format, args...)}
}

func Inputf(format string, args ...any) error       { return newError(Input, format, args...) }
func Malformedf(format string, args ...any) error   { return newError(Malformed, format, args...) }
func Internalf(format string, args ...any) error    { return newError(Internal, format, args...) }
func Unsupportedf(format string, args ...any) error { return newError(Unsupported, format, args...) }

// Wrap tags err with kind, keeping the original chain reachable.
func Wrap(kind Kind, err error, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Err: errors.Wrap(err, message)}
}

// KindOf returns the kind of the first tagged error in the chain, or zero.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
