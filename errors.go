package studjson

import "fmt"

// ParseError reports a lexical or structural fault discovered while
// reading: a name (typically an input file name), a line and column, an
// absolute byte position, and a description.
type ParseError struct {
	Name        string // the input name given to Reader.WithName, or ""
	Line        int
	Column      int
	Position    int
	Description string
}

func (e *ParseError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s:%d:%d: %s", e.Name, e.Line, e.Column, e.Description)
	}
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Description)
}

func newParseError(name string, loc Location, err error) *ParseError {
	return &ParseError{
		Name:        name,
		Line:        loc.Line,
		Column:      loc.Column,
		Position:    loc.Position,
		Description: err.Error(),
	}
}

// WriteErrorCode classifies why a Writer rejected an event.
type WriteErrorCode byte

const (
	_ WriteErrorCode = iota
	ErrBufferOverflow
	ErrUnexpectedEvent
	ErrInvalidName
	ErrInvalidValue
)

var writeErrorCodeStr = [...]string{
	ErrBufferOverflow:  "buffer overflow",
	ErrUnexpectedEvent: "unexpected event",
	ErrInvalidName:     "invalid name",
	ErrInvalidValue:    "invalid value",
}

func (c WriteErrorCode) String() string {
	if int(c) < len(writeErrorCodeStr) && writeErrorCodeStr[c] != "" {
		return writeErrorCodeStr[c]
	}
	return "unknown error"
}

// WriteError reports a fault raised by a Writer: an event supplied out of
// grammatical order, a name or value that fails validation, or a sink that
// could not absorb more output. For a malformed-UTF-8 ErrInvalidName or
// ErrInvalidValue, Offset is the byte offset of the bad sequence within the
// name or value itself; for every other fault it is -1.
type WriteError struct {
	Event       Event
	Code        WriteErrorCode
	Description string
	Offset      int64
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

func newWriteError(event Event, code WriteErrorCode, offset int64, format string, args ...any) *WriteError {
	return &WriteError{
		Event:       event,
		Code:        code,
		Description: fmt.Sprintf(format, args...),
		Offset:      offset,
	}
}
