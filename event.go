package studjson

// Event is the type of a single notification produced by a Reader or
// consumed by a Writer. The set is closed: these nine values are the only
// legal events, mirroring RFC 8259's structural and value grammar.
type Event byte

// Event constants. The zero value is not a valid event; it is reserved to
// mean "no event" inside error values that are not attributed to a
// particular event, such as a sink overflow or a fault raised by Close
// (see WriteError.Event).
const (
	_ Event = iota
	BeginObject
	EndObject
	BeginArray
	EndArray
	Name
	String
	Number
	Boolean
	Null
)

var eventStr = [...]string{
	BeginObject: "begin_object",
	EndObject:   "end_object",
	BeginArray:  "begin_array",
	EndArray:    "end_array",
	Name:        "name",
	String:      "string",
	Number:      "number",
	Boolean:     "boolean",
	Null:        "null",
}

func (e Event) String() string {
	if int(e) < len(eventStr) && eventStr[e] != "" {
		return eventStr[e]
	}
	return "invalid event"
}

// isValueEvent reports whether e carries a scalar lexeme (string, number,
// boolean, or null), as opposed to a structural or name event.
func isValueEvent(e Event) bool {
	switch e {
	case String, Number, Boolean, Null:
		return true
	default:
		return false
	}
}
