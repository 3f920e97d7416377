// Package reporter contains the types used for reporting diagnostics raised
// while preprocessing or constant-evaluating a source program. It contains
// error types as well as interfaces for reporting and handling errors.
package reporter

import (
	"errors"
	"fmt"

	"github.com/sv-tools/svpp/source"
)

// ErrInvalidSource is a sentinel error returned by operations that report
// diagnostics but whose configured [Reporter] never returns a non-nil error
// from any of its Error calls.
var ErrInvalidSource = errors.New("svpp: invalid source")

// ErrorWithPos is an error about a source program that includes information
// about the location in the file that caused the error, plus any notes
// attached to clarify the primary message (e.g. "declared here", "instantiated
// here").
//
// The value of Error() contains both the SourcePos and the underlying error.
// The value of Unwrap() contains only the underlying error.
type ErrorWithPos interface {
	error
	GetPosition() source.SourcePos
	Notes() []Note
	Unwrap() error
}

// Note is a secondary location attached to a diagnostic, such as the
// declaration site of a parameter that was never assigned a value.
type Note struct {
	Pos     source.SourcePos
	Message string
}

// Error returns an ErrorWithPos carrying no notes.
func Error(pos source.SourcePos, err error) ErrorWithPos {
	return errorWithSourcePos{pos: pos, underlying: err}
}

// Errorf returns an ErrorWithPos formatted like fmt.Errorf, carrying no notes.
func Errorf(pos source.SourcePos, format string, args ...interface{}) ErrorWithPos {
	return errorWithSourcePos{pos: pos, underlying: fmt.Errorf(format, args...)}
}

// ErrorfWithNotes is like Errorf but additionally attaches the given notes.
func ErrorfWithNotes(pos source.SourcePos, notes []Note, format string, args ...interface{}) ErrorWithPos {
	return errorWithSourcePos{pos: pos, underlying: fmt.Errorf(format, args...), notes: notes}
}

// errorWithSourcePos is an error about a source file that includes
// information about the location in the file that caused the error.
//
// Errors that include source location information *might* be of this type.
// However, calling code that is trying to examine errors with location info
// should instead look for instances of the ErrorWithPos interface, which
// will find other kinds of errors.
type errorWithSourcePos struct {
	underlying error
	pos        source.SourcePos
	notes      []Note
}

func (e errorWithSourcePos) Error() string {
	sourcePos := e.GetPosition()
	msg := fmt.Sprintf("%s: %v", sourcePos, e.underlying)
	for _, n := range e.notes {
		msg += fmt.Sprintf("\n  note: %s: %s", n.Pos, n.Message)
	}
	return msg
}

// GetPosition implements the ErrorWithPos interface, supplying a location in
// the source that caused the error.
func (e errorWithSourcePos) GetPosition() source.SourcePos {
	return e.pos
}

// Notes implements the ErrorWithPos interface.
func (e errorWithSourcePos) Notes() []Note {
	return e.notes
}

// Unwrap implements the ErrorWithPos interface, supplying the underlying
// error. This error will not include location information.
func (e errorWithSourcePos) Unwrap() error {
	return e.underlying
}

var _ ErrorWithPos = errorWithSourcePos{}
