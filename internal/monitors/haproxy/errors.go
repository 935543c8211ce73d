package haproxy

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrMalformedInfoLine is reported for `show info` lines that are not of the
// form `key: value`.
var ErrMalformedInfoLine = errors.New("line is not of the form 'key: value'")

// TransportError is returned when a command could not be sent to or answered
// by a control socket.  Any TransportError fails the whole poll of that
// socket.
type TransportError struct {
	Socket  string
	Command string
	Err     error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("haproxy socket %s, command %q: %v", e.Socket, e.Command, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// FieldError describes a single info line or stat column that was skipped
// while parsing.  These never abort parsing.
type FieldError struct {
	// 1-based line number within the response it came from
	Line int
	// Metric key the value would have been stored under, if known
	Key   string
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("line %d: %s=%q: %v", e.Line, e.Key, e.Value, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}
