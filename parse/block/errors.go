package block

import (
	"errors"
	"fmt"
)

// Error kinds reported by the parser. Match them with errors.Is.
var (
	ErrMalformedHeader       = errors.New("malformed header")
	ErrMalformedEntry        = errors.New("malformed entry")
	ErrMalformedInlineObject = errors.New("malformed inline object")
	ErrInvalidStructure      = errors.New("invalid json structure")
)

// ParseError is a parse failure tied to a source line.
type ParseError struct {
	Kind error  // one of the Err* kinds above
	Line int    // 1-based, 0 when unknown
	Text string // offending source text
	Err  error  // optional cause
}

func (e *ParseError) Error() string {
	msg := e.Kind.Error()
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	} else if e.Text != "" {
		msg += fmt.Sprintf(": %q", e.Text)
	}
	if e.Line > 0 {
		return fmt.Sprintf("block:%d: %s", e.Line, msg)
	}
	return "block: " + msg
}

func (e *ParseError) Is(target error) bool {
	return target == e.Kind
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func errf(kind error, line int, text string, format string, args ...any) *ParseError {
	return &ParseError{Kind: kind, Line: line, Text: text, Err: fmt.Errorf(format, args...)}
}

// atLine attaches a line number to err when it is a ParseError without one.
func atLine(err error, line int) error {
	var pe *ParseError
	if errors.As(err, &pe) && pe.Line == 0 {
		cp := *pe
		cp.Line = line
		return &cp
	}
	return err
}
