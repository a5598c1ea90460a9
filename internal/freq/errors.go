package freq

import (
	"errors"
	"fmt"
)

// Corpus processing errors.
// Both are fatal for a build: callers check them with errors.Is to tell
// a bad input file apart from a corpus that cannot be scaled.
var (
	// ErrInputFormat is returned when an accepted corpus line cannot be
	// split into a word and a non-negative integer count.
	ErrInputFormat = errors.New("input format error")

	// ErrDomain is returned when the logarithmic scaling is undefined:
	// a zero count, a total of zero or one, or a total that overflows.
	ErrDomain = errors.New("domain error")
)

// LineError describes a malformed corpus line.
// It matches ErrInputFormat with errors.Is and unwraps to the underlying
// parse error, if any.
type LineError struct {
	// Line is the 1-based line number in the corpus.
	Line int

	// Text is the offending line.
	Text string

	// Reason says what is wrong with the line.
	Reason string

	// Err is the underlying parse error, or nil.
	Err error
}

// Error implements the error interface.
func (e *LineError) Error() string {
	msg := fmt.Sprintf("%s at line %d (%q): %s", ErrInputFormat, e.Line, e.Text, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is reports whether target is ErrInputFormat.
func (e *LineError) Is(target error) bool {
	return target == ErrInputFormat
}

// Unwrap returns the underlying parse error.
func (e *LineError) Unwrap() error {
	return e.Err
}
