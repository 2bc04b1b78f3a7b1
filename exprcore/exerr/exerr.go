// Package exerr defines the single error kind shared by every exprcore
// subpackage. There is no machine-readable sub-kind: every failure is a
// human-readable message naming the offending token or condition.
package exerr

import "fmt"

// Error is the one error kind produced anywhere in exprcore. It always
// carries a message; Offending optionally names the token, operator, or
// input fragment responsible.
type Error struct {
	Msg       string
	Offending string
}

func (e *Error) Error() string {
	if e.Offending == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %q", e.Msg, e.Offending)
}

// New builds an Error with no offending fragment.
func New(format string, args ...any) error {
	return &Error{Msg: fmt.Sprintf(format, args...)}
}

// At builds an Error naming the offending token or condition.
func At(offending string, format string, args ...any) error {
	return &Error{Msg: fmt.Sprintf(format, args...), Offending: offending}
}

// Wrap folds an underlying cause into a new Error's message while still
// satisfying the single-kind contract.
func Wrap(cause error, format string, args ...any) error {
	return &Error{Msg: fmt.Sprintf("%s: %v", fmt.Sprintf(format, args...), cause)}
}
