// Package record defines the tagged-union Value and the ordered Record
// documents the codec accepts as input and reconstructs on decode.
package record

// Kind identifies the tagged-union variant a Value holds. The numeric
// values double as the wire's type-tag codes (§4.1/§4.4), so they must
// never be reordered without a format version bump.
type Kind uint8

const (
	KindAbsent Kind = iota
	KindNull
	KindBool
	KindInt
	KindFloat
	KindStr
	KindBytes
	KindNested
)

// NumKinds is the size of the fixed tag-value universe.
const NumKinds = int(KindNested) + 1

func (k Kind) String() string {
	switch k {
	case KindAbsent:
		return "absent"
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindStr:
		return "str"
	case KindBytes:
		return "bytes"
	case KindNested:
		return "nested"
	default:
		return "unknown"
	}
}

// Value is a tagged union over the data model's value kinds. Only the field
// matching Kind is meaningful; Bytes also backs Str (as UTF-8) and Nested
// (as an opaque serialized sub-document), since all three are byte
// sequences on the wire and differ only in how a caller is expected to
// interpret them.
type Value struct {
	Kind  Kind
	Bool  bool
	Int   int64
	Float float64
	Bytes []byte
}

// Null returns the explicit null value (distinct from a field being absent).
func Null() Value { return Value{Kind: KindNull} }

// BoolValue returns a boolean value.
func BoolValue(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// IntValue returns a signed integer value.
func IntValue(i int64) Value { return Value{Kind: KindInt, Int: i} }

// FloatValue returns a floating point value.
func FloatValue(f float64) Value { return Value{Kind: KindFloat, Float: f} }

// Str returns a UTF-8 string value.
func Str(s string) Value { return Value{Kind: KindStr, Bytes: []byte(s)} }

// BytesValue returns an opaque byte-string value.
func BytesValue(b []byte) Value { return Value{Kind: KindBytes, Bytes: b} }

// Nested returns an opaque pre-serialized sub-document, stored and
// round-tripped as bytes without interpretation (§9 Open Question 1).
func Nested(b []byte) Value { return Value{Kind: KindNested, Bytes: b} }

// Str returns v's byte payload decoded as a string. Callers should only
// call this when Kind is KindStr or KindBytes.
func (v Value) Str() string { return string(v.Bytes) }

// Record is an ordered field-name -> Value sequence. Fields never set on a
// Record are absent, not null; Set(name, Null()) and never calling Set are
// the two distinct ways a field's information reaches the block builder.
type Record struct {
	names  []string
	values []Value
	index  map[string]int
}

// New returns an empty Record.
func New() *Record {
	return &Record{index: make(map[string]int)}
}

// Set assigns v to name, appending a new field if name hasn't been set yet
// or overwriting the existing value (and its position) otherwise.
func (r *Record) Set(name string, v Value) {
	if i, ok := r.index[name]; ok {
		r.values[i] = v
		return
	}

	r.index[name] = len(r.names)
	r.names = append(r.names, name)
	r.values = append(r.values, v)
}

// Len returns the number of fields set on the record.
func (r *Record) Len() int { return len(r.names) }

// At returns the name and value at position i, in insertion order.
func (r *Record) At(i int) (string, Value) { return r.names[i], r.values[i] }

// Get returns the value set for name, if any.
func (r *Record) Get(name string) (Value, bool) {
	i, ok := r.index[name]
	if !ok {
		return Value{}, false
	}

	return r.values[i], true
}

// Fields returns the field names in insertion order. The returned slice
// must not be modified.
func (r *Record) Fields() []string { return r.names }
