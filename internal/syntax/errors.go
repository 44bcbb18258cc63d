package syntax

import (
	"errors"
	"fmt"
)

// Error is a SyntaxError: the source text does not match the grammar.
type Error struct {
	Pos Pos
	Msg string
	// Incomplete is set when the input ended before the term did.
	Incomplete bool
}

func (e *Error) Error() string {
	return fmt.Sprintf("SyntaxError at %s: %s", e.Pos, e.Msg)
}

func errorf(pos Pos, format string, args ...any) *Error {
	return &Error{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// IsIncomplete reports whether err is a syntax error caused by premature end of input.
func IsIncomplete(err error) bool {
	var serr *Error
	return errors.As(err, &serr) && serr.Incomplete
}
