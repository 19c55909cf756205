package studjson_test

import (
	"bytes"
	"testing"

	"github.com/studjson/studjson"
)

func mustWrite(t *testing.T, fn func(w *studjson.Writer) error) string {
	t.Helper()
	var buf bytes.Buffer
	w := studjson.NewWriter(studjson.NewBytesBufferSink(&buf))
	if err := fn(w); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}
	return buf.String()
}

func TestWriterScalarValues(t *testing.T) {
	tests := []struct {
		name string
		fn   func(w *studjson.Writer) error
		want string
	}{
		{"null", func(w *studjson.Writer) error { return w.Next(studjson.Null, nil, false) }, `null`},
		{"true", func(w *studjson.Writer) error { return w.Bool(true) }, `true`},
		{"number", func(w *studjson.Writer) error { return w.Int64(42) }, `42`},
		{"float", func(w *studjson.Writer) error { return w.Float64(1.5) }, `1.5`},
		{"string", func(w *studjson.Writer) error { return w.String("hi") }, `"hi"`},
		{"escaped string", func(w *studjson.Writer) error { return w.String("a\nb\"c") }, `"a\nb\"c"`},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := mustWrite(t, test.fn)
			if got != test.want {
				t.Errorf("write %s: got %q, want %q", test.name, got, test.want)
			}
		})
	}
}

func TestWriterObjectAndArray(t *testing.T) {
	got := mustWrite(t, func(w *studjson.Writer) error {
		if err := w.Next(studjson.BeginObject, nil, false); err != nil {
			return err
		}
		if err := w.Member("a", studjson.Number, []byte("1"), false); err != nil {
			return err
		}
		if err := w.Next(studjson.Name, []byte("b"), false); err != nil {
			return err
		}
		if err := w.Next(studjson.BeginArray, nil, false); err != nil {
			return err
		}
		if err := w.Bool(true); err != nil {
			return err
		}
		if err := w.Next(studjson.Null, nil, false); err != nil {
			return err
		}
		if err := w.Next(studjson.EndArray, nil, false); err != nil {
			return err
		}
		return w.Next(studjson.EndObject, nil, false)
	})
	want := `{"a":1,"b":[true,null]}`
	if got != want {
		t.Errorf("write object: got %q, want %q", got, want)
	}
}

func TestWriterPretty(t *testing.T) {
	var buf bytes.Buffer
	w := studjson.NewWriter(studjson.NewBytesBufferSink(&buf)).WithIndent("  ").WithSpaceAfterColon(true)
	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("write failed: %v", err)
		}
	}
	must(w.Next(studjson.BeginObject, nil, false))
	must(w.Member("a", studjson.Number, []byte("1"), false))
	must(w.Next(studjson.EndObject, nil, false))
	must(w.Close())

	want := "{\n  \"a\": 1\n}"
	if got := buf.String(); got != want {
		t.Errorf("pretty write: got %q, want %q", got, want)
	}
}

func TestWriterRejectsUnbalancedClose(t *testing.T) {
	var buf bytes.Buffer
	w := studjson.NewWriter(studjson.NewBytesBufferSink(&buf))
	if err := w.Next(studjson.EndObject, nil, false); err == nil {
		t.Errorf("EndObject with nothing open: expected an error, got none")
	}
}

func TestWriterRejectsSecondTopLevelValue(t *testing.T) {
	var buf bytes.Buffer
	w := studjson.NewWriter(studjson.NewBytesBufferSink(&buf))
	if err := w.Int64(1); err != nil {
		t.Fatalf("first value failed: %v", err)
	}
	if err := w.Int64(2); err == nil {
		t.Errorf("second top-level value: expected an error, got none")
	}
}

func TestWriterMultiValue(t *testing.T) {
	var buf bytes.Buffer
	w := studjson.NewWriter(studjson.NewBytesBufferSink(&buf)).WithMultiValue(true, "\n")
	for _, n := range []int64{1, 2, 3} {
		if err := w.Int64(n); err != nil {
			t.Fatalf("Int64(%d) failed: %v", n, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}
	want := "1\n2\n3"
	if got := buf.String(); got != want {
		t.Errorf("multi-value write: got %q, want %q", got, want)
	}
}

func TestWriterFixedSinkOverflow(t *testing.T) {
	buf := make([]byte, 2)
	var n int
	w := studjson.NewWriter(studjson.NewFixedSink(buf, &n))
	writeErr := w.String("too long")
	closeErr := w.Close()
	if writeErr == nil && closeErr == nil {
		t.Errorf("write into an undersized fixed sink: expected an error, got none")
	}
}

func TestWriterFixedSinkFits(t *testing.T) {
	buf := make([]byte, 8)
	var n int
	w := studjson.NewWriter(studjson.NewFixedSink(buf, &n))
	if err := w.Int64(42); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}
	if got, want := string(buf[:n]), "42"; got != want {
		t.Errorf("fixed sink output = %q, want %q", got, want)
	}
}
