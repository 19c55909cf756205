// Package studjson implements a streaming, event-driven JSON codec: a pull
// parser that turns bytes into a sequence of typed Events while tracking
// source position, and a push serializer that accepts a symmetric event
// stream to produce RFC 8259-conformant JSON. Neither side ever builds an
// in-memory document; callers who want a tree should build one on top of
// these primitives.
//
// # Reading
//
// A Reader pulls events out of an io.Reader on demand. Construct one with
// NewReader and call Next to advance:
//
//	r := studjson.NewReader(input)
//	for {
//	    ev, ok, err := r.Next()
//	    if err != nil {
//	        log.Fatalf("read failed: %v", err)
//	    }
//	    if !ok {
//	        break
//	    }
//	    log.Printf("event %v at %d:%d", ev, r.Line(), r.Column())
//	}
//
// Next reports ok == false, with a nil error, once the input has been
// fully consumed. Any non-nil error is of concrete type *ParseError.
//
// Reader.Value, Reader.Name, and the typed accessors (Int64, Uint64,
// Float64, Bool) expose the payload of the most recently returned event;
// their results are only valid until the next call to Next or Peek.
//
// # Writing
//
// A Writer accepts the same nine events and serializes them incrementally
// to a Sink, never buffering more of the document than the Sink requires:
//
//	w := studjson.NewWriter(studjson.NewWriterSink(out, 0))
//	w.Next(studjson.BeginObject, nil, false)
//	w.Member("ok", studjson.Boolean, []byte("true"), false)
//	w.Next(studjson.EndObject, nil, false)
//	if err := w.Close(); err != nil {
//	    log.Fatalf("write failed: %v", err)
//	}
//
// Events supplied out of grammatical order, or values that fail
// validation, are reported as *WriteError. WithIndent switches a Writer
// from compact to pretty-printed output.
//
// # Multi-value streams
//
// Both Reader and Writer can be configured, via WithMultiValue, to handle
// a sequence of top-level values rather than exactly one — the shape used
// by newline- or record-separator-delimited JSON text sequences.
package studjson
