package studjson

// A Location describes a point in source text: a 1-based line number, a
// 1-based column, and a 0-based byte offset. All three fields refer to the
// position immediately past the last byte consumed for the token or event
// they are attached to, per RFC 8259 lexical position conventions.
type Location struct {
	Line     int // 1-based line number
	Column   int // 1-based column within Line
	Position int // 0-based byte offset from the start of input
}
