package studjson

import (
	"fmt"
	"io"
	"strings"
)

// sepMode controls how a Reader configured for multiple top-level values
// recognizes the boundary between one value and the next.
type sepMode byte

const (
	// sepWhitespace accepts any run of JSON whitespace (or none at all)
	// between top-level values; nothing is required. This is the default
	// for multi-value mode.
	sepWhitespace sepMode = iota
	// sepWhitespaceMandatory requires at least one JSON whitespace
	// character between successive values (any amount beyond that one is
	// also consumed).
	sepWhitespaceMandatory
	// sepCustomSet requires at least one byte from sepText's character set
	// to appear between successive values; JSON whitespace is also
	// consumed but does not by itself satisfy the requirement. Bytes from
	// the set and whitespace bytes may be freely interleaved and repeated
	// (e.g. RFC 7464's 0x1E record separator for JSON text sequences).
	sepCustomSet
)

// A Reader pulls a stream of Events out of JSON source text on demand: each
// call to Next advances exactly one event and returns it, so a caller can
// stop, skip, or redirect parsing at any point without buffering an entire
// document. It is the pull-style counterpart to Writer, pairing a
// tokenizer (scanner) with a small grammar state machine that tracks
// which events are legal next.
type Reader struct {
	name string
	sc   *scanner

	multiValue bool
	sep        sepMode
	sepText    string

	stack []readerState // grammar state per open container; empty at top level
	atTop topState       // top-level progress, used only when stack is empty

	cur      Event
	curOk    bool // the cached event's own ok result
	haveCur  bool // Peek cached an event that Next hasn't consumed yet
	curErr   error
	done     bool // end of input has been reported; later calls report it again

	name_ []byte // decoded member name of the most recent Name event
	value []byte // decoded lexeme of the current value event; nil for other events
	loc   Location
}

type readerState struct {
	kind frameKind
	// afterColon is true once an object member's name has been read (its
	// colon not yet consumed), meaning the very next tokens are ':' then
	// that member's value. Unused for frameArray.
	afterColon bool
	// seenAny records whether at least one member/element has been read,
	// so that a following comma is only legal once something precedes it.
	seenAny bool
}

type topState byte

const (
	topBeforeValue topState = iota
	topAfterValue
)

// NewReader constructs a Reader over r. By default it accepts exactly one
// JSON value followed by optional trailing whitespace; call WithMultiValue
// to accept a sequence of values instead.
func NewReader(r io.Reader) *Reader {
	return &Reader{sc: newScanner(r), sep: sepWhitespace}
}

// WithName sets the name reported in ParseError values raised by this
// Reader, typically a file name.
func (r *Reader) WithName(name string) *Reader {
	r.name = name
	return r
}

// WithMultiValue enables reading a sequence of top-level values rather
// than exactly one.
func (r *Reader) WithMultiValue(multi bool) *Reader {
	r.multiValue = multi
	return r
}

// WithSeparator configures how values are delimited in multi-value mode. A
// nil sep means any run of JSON whitespace is accepted but nothing is
// required (the default). A pointer to the empty string requires at least
// one JSON whitespace character between successive values. A pointer to
// any other string requires at least one byte from that string's character
// set between successive values; set bytes and JSON whitespace may be
// freely interleaved and repeated, and whitespace alone does not satisfy
// the requirement.
func (r *Reader) WithSeparator(sep *string) *Reader {
	switch {
	case sep == nil:
		r.sep, r.sepText = sepWhitespace, ""
	case *sep == "":
		r.sep, r.sepText = sepWhitespaceMandatory, ""
	default:
		r.sep, r.sepText = sepCustomSet, *sep
	}
	return r
}

// Name returns the decoded member name associated with the most recent
// Name event. Its result is undefined after any later call to Next.
func (r *Reader) Name() []byte { return r.name_ }

// Value returns the decoded lexeme of the current event when it is a value
// event (String, Number, Boolean, or Null, rendered as the text "null"),
// and nil after any other event or at end of input. Its result is
// undefined after any later call to Next.
func (r *Reader) Value() []byte { return r.value }

// Data is equivalent to Value, except that it reports (nil, 0) when there
// is no current value to return.
func (r *Reader) Data() ([]byte, int) {
	if r.value == nil {
		return nil, 0
	}
	return r.value, len(r.value)
}

// Int64 coerces the current Number value, rejecting any value that cannot
// round-trip losslessly through int64.
func (r *Reader) Int64() (int64, error) {
	if r.cur != Number {
		return 0, r.errorf("Int64 called on a %s event", r.cur)
	}
	return parseInt64(r.value)
}

// Uint64 is Int64's unsigned counterpart.
func (r *Reader) Uint64() (uint64, error) {
	if r.cur != Number {
		return 0, r.errorf("Uint64 called on a %s event", r.cur)
	}
	return parseUint64(r.value)
}

// Float64 coerces the current Number value to a float64.
func (r *Reader) Float64() (float64, error) {
	if r.cur != Number {
		return 0, r.errorf("Float64 called on a %s event", r.cur)
	}
	return parseFloat64(r.value)
}

// Bool returns the current Boolean value.
func (r *Reader) Bool() (bool, error) {
	if r.cur != Boolean {
		return false, r.errorf("Bool called on a %s event", r.cur)
	}
	return parseBool(r.value)
}

// String returns the current String or Name value as a string, copying it
// out of the Reader's internal buffer.
func (r *Reader) String() string {
	if r.cur == Name {
		return string(r.name_)
	}
	return string(r.value)
}

// Line, Column, and Position report the location immediately following the
// most recently returned event.
func (r *Reader) Line() int     { return r.loc.Line }
func (r *Reader) Column() int   { return r.loc.Column }
func (r *Reader) Position() int { return r.loc.Position }

// Depth reports the current container nesting depth (0 at the top level).
func (r *Reader) Depth() int { return len(r.stack) }

// Peek reports the next event without consuming it. A second call to Peek,
// or a call to Next, returns the same event until Next is actually called
// to advance past it.
func (r *Reader) Peek() (Event, bool, error) {
	if r.haveCur {
		return r.cur, r.curOk, r.curErr
	}
	ev, ok, err := r.advance()
	r.cur, r.curOk, r.curErr, r.haveCur = ev, ok, err, true
	return ev, ok, err
}

// Next returns the next event in the stream. ok is false once the input
// (or, for a single-value Reader, the one value) has been fully consumed;
// a false ok with a nil error is a normal end of input, not a fault.
func (r *Reader) Next() (Event, bool, error) {
	if r.haveCur {
		r.haveCur = false
		return r.cur, r.curOk, r.curErr
	}
	return r.advance()
}

// NextExpectValue calls Next and additionally requires the result to be
// one of the scalar value events.
func (r *Reader) NextExpectValue() (Event, error) {
	ev, ok, err := r.Next()
	if err != nil {
		return 0, err
	}
	if !ok || !isValueEvent(ev) {
		return 0, r.errorf("expected a value, got %s", ev)
	}
	return ev, nil
}

// NextExpectName calls Next and requires the result to be a Name event,
// returning the decoded name.
func (r *Reader) NextExpectName() (string, error) {
	ev, ok, err := r.Next()
	if err != nil {
		return "", err
	}
	if !ok || ev != Name {
		return "", r.errorf("expected a member name, got %s", ev)
	}
	return r.String(), nil
}

// Member advances past a Name event and checks that it equals name,
// returning an error otherwise. It is a thin, stateless convenience
// wrapper: it does no lookahead or buffering.
func (r *Reader) Member(name string) error {
	got, err := r.NextExpectName()
	if err != nil {
		return err
	}
	if got != name {
		return r.errorf("expected member %q, got %q", name, got)
	}
	return nil
}

func (r *Reader) errorf(format string, args ...any) error {
	return newParseError(r.name, r.loc, fmt.Errorf(format, args...))
}

// advance drives the scanner and grammar state machine forward by exactly
// one event.
func (r *Reader) advance() (Event, bool, error) {
	r.value = nil
	if r.done {
		return 0, false, nil
	}

	if len(r.stack) == 0 {
		return r.advanceTop()
	}
	return r.advanceNested()
}

// advanceTop handles the top-level grammar: before the (first) value,
// after it, and the transition into multi-value mode.
func (r *Reader) advanceTop() (Event, bool, error) {
	if r.atTop == topAfterValue {
		if !r.multiValue {
			if err := r.expectTrailingWhitespace(); err != nil {
				return 0, false, err
			}
			r.done = true
			return 0, false, nil
		}
		satisfied, more, err := r.consumeSeparator()
		if err != nil {
			return 0, false, err
		}
		if !more {
			r.done = true
			return 0, false, nil
		}
		if !satisfied {
			return 0, false, r.errorf("missing separator between JSON values")
		}
	} else if r.multiValue {
		// Leading separators before the first value are always optional,
		// however the configured separator is defined.
		if _, _, err := r.consumeSeparator(); err != nil {
			return 0, false, err
		}
	}

	tok, err := r.sc.next()
	if err != nil {
		return 0, false, r.wrap(err)
	}
	if tok == tokDone {
		r.done = true
		return 0, false, nil
	}
	return r.emitValueToken(tok, nil)
}

// advanceNested handles grammar state while inside at least one open
// container.
func (r *Reader) advanceNested() (Event, bool, error) {
	top := &r.stack[len(r.stack)-1]

	if top.kind == frameObject && !top.afterColon {
		tok, err := r.sc.next()
		if err != nil {
			return 0, false, r.wrap(err)
		}
		switch tok {
		case tokEndObject:
			r.popFrame()
			r.loc = r.sc.end
			return r.settle(EndObject)
		case tokComma:
			if !top.seenAny {
				return 0, false, r.errorf("unexpected ','")
			}
			tok, err = r.sc.next()
			if err != nil {
				return 0, false, r.wrap(err)
			}
			if tok != tokString {
				return 0, false, r.errorf("expected member name, got %s", tok)
			}
			return r.emitName(top)
		case tokString:
			if top.seenAny {
				return 0, false, r.errorf("expected ',' or '}'")
			}
			return r.emitName(top)
		default:
			return 0, false, r.errorf("expected member name or '}', got %s", tok)
		}
	}

	if top.kind == frameObject && top.afterColon {
		tok, err := r.sc.next()
		if err != nil {
			return 0, false, r.wrap(err)
		}
		if tok != tokColon {
			return 0, false, r.errorf("expected ':', got %s", tok)
		}
		tok, err = r.sc.next()
		if err != nil {
			return 0, false, r.wrap(err)
		}
		top.afterColon = false
		return r.emitValueToken(tok, top)
	}

	// Both object states are handled above; here we're starting or
	// continuing an array.
	if top.kind == frameArray {
		if top.seenAny {
			tok, err := r.sc.next()
			if err != nil {
				return 0, false, r.wrap(err)
			}
			switch tok {
			case tokEndArray:
				r.popFrame()
				r.loc = r.sc.end
				return r.settle(EndArray)
			case tokComma:
				tok, err = r.sc.next()
				if err != nil {
					return 0, false, r.wrap(err)
				}
				return r.emitValueToken(tok, top)
			default:
				return 0, false, r.errorf("expected ',' or ']', got %s", tok)
			}
		}
		tok, err := r.sc.next()
		if err != nil {
			return 0, false, r.wrap(err)
		}
		if tok == tokEndArray {
			r.popFrame()
			r.loc = r.sc.end
			return r.settle(EndArray)
		}
		return r.emitValueToken(tok, top)
	}

	// The two branches above are exhaustive for a non-empty stack: every
	// frame is either an object (awaiting a name or, after one, a colon
	// and value) or an array.
	panic("unreachable: readerState in neither object nor array form")
}

func (r *Reader) emitName(top *readerState) (Event, bool, error) {
	r.name_ = append(r.name_[:0], r.sc.text()...)
	r.loc = r.sc.end
	top.seenAny = true
	top.afterColon = true
	return r.settle(Name)
}

// emitValueToken translates a scalar or opening token into its event,
// pushing a new frame for BeginObject/BeginArray. owner is the frame this
// value belongs to (nil at the top level) and is marked seenAny.
func (r *Reader) emitValueToken(tok rawToken, owner *readerState) (Event, bool, error) {
	if owner != nil {
		owner.seenAny = true
	}
	r.loc = r.sc.end
	switch tok {
	case tokBeginObject:
		r.stack = append(r.stack, readerState{kind: frameObject})
		return r.settle(BeginObject)
	case tokBeginArray:
		r.stack = append(r.stack, readerState{kind: frameArray})
		return r.settle(BeginArray)
	case tokString:
		r.value = append(r.value[:0], r.sc.text()...)
		return r.settle(String)
	case tokNumber:
		r.value = append(r.value[:0], r.sc.text()...)
		return r.settle(Number)
	case tokTrue, tokFalse:
		r.value = append(r.value[:0], r.sc.text()...)
		return r.settle(Boolean)
	case tokNull:
		r.value = append(r.value[:0], r.sc.text()...)
		return r.settle(Null)
	default:
		return 0, false, r.errorf("expected a value, got %s", tok)
	}
}

func (r *Reader) settle(ev Event) (Event, bool, error) {
	r.cur = ev
	if len(r.stack) == 0 {
		r.atTop = topAfterValue
	}
	return ev, true, nil
}

func (r *Reader) popFrame() {
	r.stack = r.stack[:len(r.stack)-1]
	if len(r.stack) == 0 {
		r.atTop = topAfterValue
	}
}

// expectTrailingWhitespace verifies that nothing but JSON whitespace
// follows a single top-level value.
func (r *Reader) expectTrailingWhitespace() error {
	tok, err := r.sc.next()
	if err != nil {
		return r.wrap(err)
	}
	if tok != tokDone {
		return r.errorf("unexpected trailing %s after top-level value", tok)
	}
	return nil
}

// consumeSeparator consumes as much of the configured inter-value separator
// as is present, starting at the current position, and reports whether the
// configured requirement was satisfied and whether any input remains
// afterward. It operates below the tokenizer, on raw bytes, because a
// custom separator set (e.g. the RS byte 0x1E) need not be valid JSON
// whitespace and the scanner would otherwise choke trying to lex a token
// starting there.
//
// JSON whitespace is always consumed regardless of sepMode. For
// sepCustomSet, any byte in sepText is also consumed, and only such a byte
// satisfies the requirement; for sepWhitespaceMandatory only
// whitespace is consumed but it must appear at least once; for
// sepWhitespace nothing is required and the result is always satisfied.
func (r *Reader) consumeSeparator() (satisfied, more bool, err error) {
	satisfied = r.sep == sepWhitespace
	for {
		b, ok, perr := r.sc.src.peek()
		if perr != nil {
			return satisfied, false, r.wrap(perr)
		}
		if !ok {
			return satisfied, false, nil
		}
		if r.sep == sepCustomSet && strings.IndexByte(r.sepText, b) >= 0 {
			satisfied = true
			r.sc.src.get()
			continue
		}
		if isJSONSpace(b) {
			if r.sep == sepWhitespaceMandatory {
				satisfied = true
			}
			r.sc.src.get()
			continue
		}
		return satisfied, true, nil
	}
}

func (r *Reader) wrap(err error) error {
	if te, ok := err.(*tokenError); ok {
		return newParseError(r.name, te.loc, te.err)
	}
	return newParseError(r.name, r.sc.src.location(), err)
}

