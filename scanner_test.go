package studjson

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func scanAll(t *testing.T, input string) []rawToken {
	t.Helper()
	sc := newScanner(strings.NewReader(input))
	var toks []rawToken
	for {
		tok, err := sc.next()
		if err != nil {
			t.Fatalf("next() failed at token %d: %v", len(toks), err)
		}
		if tok == tokDone {
			return toks
		}
		toks = append(toks, tok)
	}
}

func TestScannerTokens(t *testing.T) {
	tests := []struct {
		input string
		want  []rawToken
	}{
		{"", nil},
		{"   ", nil},
		{"\n\n  \n", nil},
		{"true false null", []rawToken{tokTrue, tokFalse, tokNull}},
		{"{ [ ] } , :", []rawToken{
			tokBeginObject, tokBeginArray, tokEndArray, tokEndObject, tokComma, tokColon,
		}},
		{`"" "a b c" "a\nb\tc"`, []rawToken{tokString, tokString, tokString}},
		{`0 -1 5139 2.3 5e+9 3.6E+4 -0.001E-100`, []rawToken{
			tokNumber, tokNumber, tokNumber, tokNumber, tokNumber, tokNumber, tokNumber,
		}},
		{`{"a": true, "b":[null, 1, 0.5]}`, []rawToken{
			tokBeginObject,
			tokString, tokColon, tokTrue, tokComma,
			tokString, tokColon,
			tokBeginArray,
			tokNull, tokComma, tokNumber, tokComma, tokNumber,
			tokEndArray,
			tokEndObject,
		}},
	}
	for _, test := range tests {
		got := scanAll(t, test.input)
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("scan(%q) (-want +got):\n%s", test.input, diff)
		}
	}
}

func TestScannerStringDecoding(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`""`, ""},
		{`"abc"`, "abc"},
		{`"a\nb\tc"`, "a\nb\tc"},
		{`"\"\\\/\b\f\n\r\t"`, "\"\\/\b\f\n\r\t"},
		{`"A"`, "A"},
		{`"😀"`, "😀"},
	}
	for _, test := range tests {
		sc := newScanner(strings.NewReader(test.input))
		tok, err := sc.next()
		if err != nil {
			t.Fatalf("next(%q) failed: %v", test.input, err)
		}
		if tok != tokString {
			t.Fatalf("next(%q) = %v, want string", test.input, tok)
		}
		if got := string(sc.text()); got != test.want {
			t.Errorf("text(%q) = %q, want %q", test.input, got, test.want)
		}
	}
}

func TestScannerRejectsMalformed(t *testing.T) {
	tests := []string{
		`{`,
		`}`,
		`[1, 2`,
		`"unterminated`,
		`"bad escape \q"`,
		`01`,
		`1.`,
		`.5`,
		`+1`,
		`"\uD800"`, // unpaired high surrogate
		"\"\x01\"", // unescaped control byte
	}
	for _, input := range tests {
		sc := newScanner(strings.NewReader(input))
		var lastErr error
		for {
			tok, err := sc.next()
			if err != nil {
				lastErr = err
				break
			}
			if tok == tokDone {
				break
			}
		}
		if lastErr == nil {
			t.Errorf("scan(%q): expected an error, got none", input)
		}
	}
}

func TestScannerNestingDepth(t *testing.T) {
	input := strings.Repeat("[", maxNestingDepth+1)
	sc := newScanner(strings.NewReader(input))
	var lastErr error
	for i := 0; i < maxNestingDepth+2; i++ {
		_, err := sc.next()
		if err != nil {
			lastErr = err
			break
		}
	}
	if lastErr == nil {
		t.Fatal("expected a nesting-depth error, got none")
	}
}
