package studjson

import (
	"bytes"
	"fmt"

	"github.com/studjson/studjson/internal/escape"
	"go4.org/mem"
)

// Quote encodes src as a JSON string value: escapes are applied and
// surrounding double quotation marks are added. It is a convenience for
// callers who want a single escaped literal without driving a Writer.
func Quote(src string) string {
	var buf bytes.Buffer
	buf.WriteByte('"')
	buf.Write(escape.Quote(mem.S(src)))
	buf.WriteByte('"')
	return buf.String()
}

// Unquote decodes src, a complete JSON string literal including its
// surrounding double quotation marks, into its unescaped content. It
// rejects malformed escapes and invalid UTF-8 rather than substituting a
// replacement rune: scalar-value events are always already-valid,
// already-decoded UTF-8, and Unquote drives the same strict tokenizer a
// Reader uses, so a string Unquote accepts is always exactly the value a
// Reader would report for the equivalent input.
func Unquote(src []byte) ([]byte, error) {
	r := NewReader(bytes.NewReader(src))
	ev, ok, err := r.Next()
	if err != nil {
		return nil, err
	}
	if !ok || ev != String {
		return nil, fmt.Errorf("input is not a JSON string literal")
	}
	out := make([]byte, len(r.Value()))
	copy(out, r.Value())
	if _, _, err := r.Next(); err != nil {
		return nil, err
	}
	return out, nil
}
