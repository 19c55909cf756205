package studjson

import (
	"fmt"
	"strings"

	"github.com/studjson/studjson/internal/escape"
	"go4.org/mem"
)

// A Writer accepts a stream of Events symmetric to the one a Reader
// produces and serializes them into RFC 8259-conformant JSON, one event at
// a time, without ever buffering more of the logical document than the
// underlying Sink requires. Its grammar state (the frame stack, the
// overflow/flush Sink contract, and the "check" flag distinguishing
// validated input from input the caller already knows is well-formed)
// mirrors a Reader's, run in the opposite direction.
type Writer struct {
	sink Sink
	buf  []byte

	stack []frame

	indent          string
	spaceAfterColon bool

	multiValue bool
	valueSep   string

	// valuesWritten counts completed top-level values. Zero means "no value
	// yet", which Close treats as a legal empty sequence when multiValue is
	// set, and as an error otherwise.
	valuesWritten int

	closed bool
	offset int64
	failed bool
}

// NewWriter constructs a Writer that sends output to sink. By default it
// expects exactly one top-level value and writes compact (no extraneous
// whitespace) JSON.
func NewWriter(sink Sink) *Writer {
	w := &Writer{sink: sink}
	if ib, ok := sink.(sinkWithInitialBuffer); ok {
		w.buf = ib.initialBuffer()
	}
	return w
}

// WithIndent sets the per-level indentation string used for pretty
// printing. An empty string (the default) selects compact output with no
// insignificant whitespace at all.
func (w *Writer) WithIndent(indent string) *Writer {
	w.indent = indent
	return w
}

// WithSpaceAfterColon controls whether a space follows the colon between a
// member's name and value. It has no effect combined with WithIndent(""),
// since compact output never adds insignificant whitespace.
func (w *Writer) WithSpaceAfterColon(space bool) *Writer {
	w.spaceAfterColon = space
	return w
}

// WithMultiValue enables writing a sequence of top-level values rather
// than exactly one, mirroring Reader.WithMultiValue. sep is written
// verbatim between consecutive top-level values; the empty string abuts
// them directly.
func (w *Writer) WithMultiValue(multi bool, sep string) *Writer {
	w.multiValue = multi
	w.valueSep = sep
	return w
}

// Next feeds one event into the Writer. lexeme carries the event's payload
// for Name, String, Number, and Boolean, may be nil or "null" for Null, and
// is ignored for the structural events; check requests validation of
// lexeme's grammar (UTF-8 well-formedness for names and strings, RFC 8259
// number grammar for numbers, exact "true"/"false" spelling for booleans,
// and "null" for a non-empty Null lexeme) at the cost of an extra scan. Callers who
// already know their lexeme is well-formed — e.g. output of Float64 or a
// literal string constant — may pass false to skip it.
func (w *Writer) Next(event Event, lexeme []byte, check bool) error {
	if w.closed {
		return w.fail(event, ErrUnexpectedEvent, "Next called after Close")
	}
	if w.failed {
		return w.fail(event, ErrUnexpectedEvent, "Next called after a previous error")
	}
	err := w.next(event, lexeme, check)
	if err != nil {
		w.failed = true
	}
	return err
}

func (w *Writer) next(event Event, lexeme []byte, check bool) error {
	if err := w.beforeEvent(event); err != nil {
		return err
	}
	switch event {
	case BeginObject:
		if err := w.appendByte('{'); err != nil {
			return err
		}
		w.stack = append(w.stack, frame{kind: frameObject})
	case EndObject:
		if err := w.closeContainer(frameObject, '}'); err != nil {
			return err
		}
	case BeginArray:
		if err := w.appendByte('['); err != nil {
			return err
		}
		w.stack = append(w.stack, frame{kind: frameArray})
	case EndArray:
		if err := w.closeContainer(frameArray, ']'); err != nil {
			return err
		}
	case Name:
		if err := w.writeQuoted(event, ErrInvalidName, lexeme, check); err != nil {
			return err
		}
		if err := w.appendByte(':'); err != nil {
			return err
		}
		if w.spaceAfterColon && w.indent != "" {
			if err := w.appendByte(' '); err != nil {
				return err
			}
		}
	case String:
		if err := w.writeQuoted(event, ErrInvalidValue, lexeme, check); err != nil {
			return err
		}
	case Number:
		if check {
			if err := validateNumberLexeme(lexeme); err != nil {
				return w.fail(event, ErrInvalidValue, "%v", err)
			}
		}
		if err := w.appendBytes(lexeme); err != nil {
			return err
		}
	case Boolean:
		s := "false"
		if len(lexeme) > 0 && lexeme[0] == 't' {
			s = "true"
		}
		if check {
			if _, err := parseBool(lexeme); err != nil {
				return w.fail(event, ErrInvalidValue, "%v", err)
			}
		}
		if err := w.appendString(s); err != nil {
			return err
		}
	case Null:
		if check && len(lexeme) > 0 && string(lexeme) != "null" {
			return w.fail(event, ErrInvalidValue, "invalid null lexeme %q", lexeme)
		}
		if err := w.appendString("null"); err != nil {
			return err
		}
	default:
		return w.fail(event, ErrUnexpectedEvent, "invalid event %v", event)
	}

	if w.afterEvent(event) {
		if err := w.flushTop(); err != nil {
			return err
		}
	}
	return nil
}

// Member is a convenience wrapper writing a Name event followed
// immediately by one value event. It exists for the common case of a
// scalar-valued member; composite values must be written as separate
// Name/Begin.../End... calls.
func (w *Writer) Member(name string, event Event, lexeme []byte, check bool) error {
	if err := w.Next(Name, []byte(name), check); err != nil {
		return err
	}
	return w.Next(event, lexeme, check)
}

// Int64 writes event Number with n formatted in canonical decimal form.
func (w *Writer) Int64(n int64) error {
	return w.Next(Number, []byte(formatInt64(n)), false)
}

// Uint64 writes event Number with n formatted in canonical decimal form.
func (w *Writer) Uint64(n uint64) error {
	return w.Next(Number, []byte(formatUint64(n)), false)
}

// Float64 writes event Number with f formatted using the shortest
// round-tripping decimal representation.
func (w *Writer) Float64(f float64) error {
	s, err := formatFloat64(f)
	if err != nil {
		return w.fail(Number, ErrInvalidValue, "%v", err)
	}
	return w.Next(Number, []byte(s), false)
}

// Bool writes event Boolean.
func (w *Writer) Bool(b bool) error {
	if b {
		return w.Next(Boolean, []byte("true"), false)
	}
	return w.Next(Boolean, []byte("false"), false)
}

// String writes event String with s as its content, escaping and
// validating it.
func (w *Writer) String(s string) error {
	return w.Next(String, []byte(s), true)
}

// Close finalizes the stream: it verifies the grammar is complete (no open
// containers, at least one top-level value unless WithMultiValue allowed
// zero) and flushes any buffered bytes to the Sink.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	if len(w.stack) != 0 {
		return w.fail(0, ErrUnexpectedEvent, "Close called with %d container(s) still open", len(w.stack))
	}
	if w.valuesWritten == 0 && !w.multiValue {
		return w.fail(0, ErrUnexpectedEvent, "Close called before any value was written")
	}
	return w.flushTop()
}

// beforeEvent validates that event is legal in the current grammar state
// and, if so, writes any separating punctuation (comma, colon having
// already been handled by the Name case, or pretty-printing whitespace)
// that must precede it.
func (w *Writer) beforeEvent(event Event) error {
	if len(w.stack) == 0 {
		return w.beforeTopEvent(event)
	}
	top := &w.stack[len(w.stack)-1]
	switch top.kind {
	case frameObject:
		return w.beforeObjectEvent(top, event)
	default:
		return w.beforeArrayEvent(top, event)
	}
}

func (w *Writer) beforeTopEvent(event Event) error {
	if event == EndObject || event == EndArray || event == Name {
		return w.fail(event, ErrUnexpectedEvent, "%v is not legal at the top level", event)
	}
	if w.valuesWritten > 0 {
		if !w.multiValue {
			return w.fail(event, ErrUnexpectedEvent, "a value has already been written")
		}
		if err := w.appendString(w.valueSep); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) beforeObjectEvent(top *frame, event Event) error {
	expectingName := top.count%2 == 0
	if expectingName {
		if event == EndObject {
			return nil
		}
		if event != Name {
			return w.fail(event, ErrUnexpectedEvent, "expected a member name or end of object, got %v", event)
		}
		if top.count > 0 {
			if err := w.appendByte(','); err != nil {
				return err
			}
		}
		return w.writeIndent(len(w.stack))
	}
	if event == Name || event == EndObject {
		return w.fail(event, ErrUnexpectedEvent, "expected a value, got %v", event)
	}
	return nil
}

func (w *Writer) beforeArrayEvent(top *frame, event Event) error {
	if event == Name {
		return w.fail(event, ErrUnexpectedEvent, "Name is not legal inside an array")
	}
	if event == EndArray {
		return nil
	}
	if top.count > 0 {
		if err := w.appendByte(','); err != nil {
			return err
		}
	}
	return w.writeIndent(len(w.stack))
}

// afterEvent updates the enclosing frame's token count once event has been
// fully written, so the next beforeEvent call sees accurate state. It
// reports whether event just completed a top-level value, the signal that
// triggers a flush.
func (w *Writer) afterEvent(event Event) bool {
	switch event {
	case EndObject, EndArray:
		// closeContainer already popped the frame; the parent frame (if
		// any) is bumped exactly like any other completed value.
		if n := len(w.stack); n > 0 {
			w.stack[n-1].count++
			return false
		}
		w.valuesWritten++
		return true
	case BeginObject, BeginArray:
		// The frame was just pushed; its own count starts at 0 and is
		// bumped by its members/elements, and the parent's count is bumped
		// when it closes, not here.
		return false
	}
	if n := len(w.stack); n > 0 {
		w.stack[n-1].count++
		return false
	}
	if event != Name {
		w.valuesWritten++
		return true
	}
	return false
}

// flushTop hands the buffered bytes to the Sink and, on success, resets the
// buffer: a Sink's Flush must accumulate across repeated calls rather than
// assume it is called exactly once, since flushTop runs after every
// completed top-level value as well as on Close.
func (w *Writer) flushTop() error {
	if err := w.sink.Flush(w.buf); err != nil {
		return w.fail(0, ErrBufferOverflow, "%v", err)
	}
	w.buf = w.buf[:0]
	return nil
}

func (w *Writer) closeContainer(kind frameKind, closeByte byte) error {
	n := len(w.stack)
	if n == 0 || w.stack[n-1].kind != kind {
		return w.fail(0, ErrUnexpectedEvent, "unmatched %q", closeByte)
	}
	top := w.stack[n-1]
	w.stack = w.stack[:n-1]
	if top.count > 0 {
		if err := w.writeIndent(len(w.stack)); err != nil {
			return err
		}
	}
	return w.appendByte(closeByte)
}

// writeIndent writes a newline followed by depth copies of the configured
// indent string, or nothing at all in compact mode.
func (w *Writer) writeIndent(depth int) error {
	if w.indent == "" {
		return nil
	}
	if err := w.appendByte('\n'); err != nil {
		return err
	}
	return w.appendString(strings.Repeat(w.indent, depth))
}

// writeQuoted writes s as a JSON string literal (with surrounding quotes).
// Escaping is delegated to internal/escape.Quote; when check is set, s is
// first validated to be well-formed UTF-8 using the same byte-range table
// as the tokenizer, since Quote's rune decoder silently substitutes
// U+FFFD for malformed input rather than reporting it. code and event
// classify a validation failure; a validation error's WriteError.Offset is
// the byte offset within s, not within the writer's output.
func (w *Writer) writeQuoted(event Event, code WriteErrorCode, s []byte, check bool) error {
	if check {
		if off, err := validateUTF8(s); err != nil {
			return w.failAt(event, code, off, "%v", err)
		}
	}
	if err := w.appendByte('"'); err != nil {
		return err
	}
	if err := w.appendBytes(escape.Quote(mem.B(s))); err != nil {
		return err
	}
	return w.appendByte('"')
}

// validateUTF8 walks s, applying the same lead/continuation byte-range
// rules as scanner.scanUTF8Seq, and reports the offset and description of
// the first malformed sequence.
func validateUTF8(s []byte) (int, error) {
	for i := 0; i < len(s); {
		b := s[i]
		if b < 0x80 {
			i++
			continue
		}
		var need int
		lo2, hi2 := byte(0x80), byte(0xBF)
		switch {
		case b >= 0xC2 && b <= 0xDF:
			need = 1
		case b >= 0xE0 && b <= 0xEF:
			need = 2
			if b == 0xE0 {
				lo2, hi2 = 0xA0, 0xBF
			} else if b == 0xED {
				lo2, hi2 = 0x80, 0x9F
			}
		case b >= 0xF0 && b <= 0xF4:
			need = 3
			if b == 0xF0 {
				lo2, hi2 = 0x90, 0xBF
			} else if b == 0xF4 {
				lo2, hi2 = 0x80, 0x8F
			}
		default:
			return i, fmt.Errorf("invalid UTF-8 lead byte 0x%02x at offset %d", b, i)
		}
		if i+need >= len(s) {
			return i, fmt.Errorf("truncated UTF-8 sequence at offset %d", i)
		}
		for k := 0; k < need; k++ {
			lo, hi := byte(0x80), byte(0xBF)
			if k == 0 {
				lo, hi = lo2, hi2
			}
			if c := s[i+1+k]; c < lo || c > hi {
				return i, fmt.Errorf("invalid UTF-8 continuation byte 0x%02x at offset %d", c, i+1+k)
			}
		}
		i += need + 1
	}
	return 0, nil
}

// ensure guarantees at least n bytes of spare capacity in w.buf, asking
// the Sink to grow or flush it otherwise. Every append helper below passes
// the exact size of the atomic unit it is about to write (a single byte,
// or a whole escaped string), so no atomic write is ever split across an
// overflow boundary.
func (w *Writer) ensure(n int) error {
	if cap(w.buf)-len(w.buf) >= n {
		return nil
	}
	grown, err := w.sink.Overflow(w.buf, n)
	if err != nil {
		return w.fail(0, ErrBufferOverflow, "%v", err)
	}
	w.buf = grown
	return nil
}

func (w *Writer) appendByte(b byte) error {
	if err := w.ensure(1); err != nil {
		return err
	}
	w.buf = append(w.buf, b)
	w.offset++
	return nil
}

func (w *Writer) appendBytes(p []byte) error {
	if err := w.ensure(len(p)); err != nil {
		return err
	}
	w.buf = append(w.buf, p...)
	w.offset += int64(len(p))
	return nil
}

func (w *Writer) appendString(s string) error {
	if s == "" {
		return nil
	}
	if err := w.ensure(len(s)); err != nil {
		return err
	}
	w.buf = append(w.buf, s...)
	w.offset += int64(len(s))
	return nil
}

func (w *Writer) fail(event Event, code WriteErrorCode, format string, args ...any) error {
	return newWriteError(event, code, -1, format, args...)
}

// failAt is like fail, but stamps the WriteError with an explicit offset
// rather than the -1 sentinel — for faults located
// within the value being written (e.g. a bad byte inside a string), not
// within the output stream.
func (w *Writer) failAt(event Event, code WriteErrorCode, offset int, format string, args ...any) error {
	return newWriteError(event, code, int64(offset), format, args...)
}
