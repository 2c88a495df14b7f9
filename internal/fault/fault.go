// Package fault contains the error kinds reported by the gateway operations.
// Every error that crosses the call boundary carries a human readable message
// (which callers have historically pattern-matched on), and a Kind which allows
// transports to map the failure to something more structured.
package fault

import (
	"errors"
	"fmt"
)

type Kind int

const (
	Unknown Kind = iota
	NotFound
	IoError
	DirectoryReadFailed
	ProbeFailed
	EncodeFailed
	ParseFailed
	NoVideoStream
	LaunchFailed
	InvalidArgument
)

func (k Kind) String() string {
	switch k {
	case NotFound:
		return "NotFound"
	case IoError:
		return "IoError"
	case DirectoryReadFailed:
		return "DirectoryReadFailed"
	case ProbeFailed:
		return "ProbeFailed"
	case EncodeFailed:
		return "EncodeFailed"
	case ParseFailed:
		return "ParseFailed"
	case NoVideoStream:
		return "NoVideoStream"
	case LaunchFailed:
		return "LaunchFailed"
	case InvalidArgument:
		return "InvalidArgument"
	default:
		return "Unknown"
	}
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Error is a failure of a gateway operation. Message is the full, user-visible
// text. Err, if present, is the underlying cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New constructs an Error with a fixed message and no cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap constructs an Error whose message is "<prefix>: <cause>".
func Wrap(kind Kind, prefix string, cause error) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf("%s: %s", prefix, cause), Err: cause}
}

// KindOf returns the Kind of the first *Error found in the chain
// of err, or Unknown if there is none.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}

	return Unknown
}

// Is reports whether err carries the kind provided.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
