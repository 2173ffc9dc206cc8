package argon

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidName is returned when a string cannot be used as an
	// XML name, for example because it contains whitespace or starts
	// with a character that is not a name start character.
	ErrInvalidName = errors.New("invalid xml name")

	// ErrNotApplicable is returned when a name-related accessor is
	// invoked on a node kind that carries no name, such as calling
	// Name() on a text or comment node.
	ErrNotApplicable = errors.New("operation not applicable to this node kind")

	// ErrNoWriteTarget is returned when assigning through a list that
	// did not originate from a child or attribute query, so there is
	// no owner to write back to.
	ErrNoWriteTarget = errors.New("list has no write target")

	// ErrListSize is returned by operations that require a list with
	// exactly one member, such as Name().
	ErrListSize = errors.New("operation requires a list with exactly one member")

	// ErrTooDeep is returned when parsed markup nests elements beyond
	// the depth limit.
	ErrTooDeep = errors.New("element nesting too deep")

	errEmptyDocument = errors.New("start tag expected, '<' not found")
	errDocumentEnd   = errors.New("extra content at document end")
	errGtRequired    = errors.New("'>' was required here")
	errTagMismatch   = errors.New("close tag does not match open tag")
	errInvalidChar   = errors.New("invalid char")
	errEntity        = errors.New("invalid entity reference")
	errPrematureEOF  = errors.New("end of document reached")
)

// ErrParse describes a well-formedness failure, with enough location
// information to point at the offending markup.
type ErrParse struct {
	Err        error
	Column     int
	Line       string
	LineNumber int
}

func (e *ErrParse) Error() string {
	return fmt.Sprintf(
		"%s at line %d, column %d\n -> '%s' <-- around here",
		e.Err,
		e.LineNumber,
		e.Column,
		e.Line,
	)
}

func (e *ErrParse) Unwrap() error {
	return e.Err
}
