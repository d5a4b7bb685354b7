package avrokit

import (
	"time"
)

// Kind identifies the case of a Value or the type of a Schema node.
type Kind uint8

const (
	KindNull Kind = iota
	KindBoolean
	KindInt
	KindLong
	KindFloat
	KindDouble
	KindBytes
	KindString
	KindFixed
	KindEnum
	KindUnion
	KindArray
	KindMap
	KindRecord
	KindDate     // Milliseconds since the Unix epoch.
	KindSet      // Unique strings.
	KindLruSet   // Strings annotated with access time and count.
	KindOptional // Zero or one value; only produced by resolution.
)

var kindNames = [...]string{
	KindNull:     "null",
	KindBoolean:  "boolean",
	KindInt:      "int",
	KindLong:     "long",
	KindFloat:    "float",
	KindDouble:   "double",
	KindBytes:    "bytes",
	KindString:   "string",
	KindFixed:    "fixed",
	KindEnum:     "enum",
	KindUnion:    "union",
	KindArray:    "array",
	KindMap:      "map",
	KindRecord:   "record",
	KindDate:     "date",
	KindSet:      "set",
	KindLruSet:   "lru_set",
	KindOptional: "optional",
}

// String returns the lower-case type name.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Setting is the encoding annotation attached by resolution. A nil *Setting
// means "encode literally".
type Setting struct {
	// Index asks the encoder to use an index/compact representation.
	Index bool
}

// LruLimit is the eviction policy attached to an LRU-set schema. Resolution
// carries it through untouched; enforcing it belongs to the storage layer.
type LruLimit struct {
	MaxEntries int
	MaxAge     time.Duration
}

// LruValue is the per-key recency/frequency metadata of an LRU-set entry.
type LruValue struct {
	AccessTime int64
	Count      int64
}

// Value returns the entry as a record Value with access_time and count fields.
func (l LruValue) Value() Value {
	return Record([]RecordEntry{
		{Name: lruAccessTime, Value: Long(l.AccessTime)},
		{Name: lruCount, Value: Long(l.Count)},
	})
}

// RecordEntry is one (field name, value) pair of a record Value.
type RecordEntry struct {
	Name  string
	Value Value
}

// Value is an Avro datum. Exactly one payload is meaningful, selected by Kind.
// The zero Value is Null.
type Value struct {
	kind    Kind
	setting *Setting

	b     bool
	i32   int32  // Int, Enum index
	i64   int64  // Long, Date
	f32   float32
	f64   float64
	str   string // String, Enum symbol
	bytes []byte // Bytes, Fixed
	size  int    // Fixed declared size

	inner   *Value // Union branch, Optional payload (nil = absent)
	items   []Value
	entries map[string]Value
	fields  []RecordEntry
	set     map[string]struct{}
	lru     map[string]LruValue
	limit   LruLimit
}

// ============================================================
// Constructors
// ============================================================

// Null returns the null value.
func Null() Value { return Value{} }

// Boolean returns a boolean value.
func Boolean(b bool) Value { return Value{kind: KindBoolean, b: b} }

// Int returns a 32-bit integer value.
func Int(n int32) Value { return Value{kind: KindInt, i32: n} }

// Long returns a 64-bit integer value.
func Long(n int64) Value { return Value{kind: KindLong, i64: n} }

// Float returns a 32-bit floating point value.
func Float(x float32) Value { return Value{kind: KindFloat, f32: x} }

// Double returns a 64-bit floating point value.
func Double(x float64) Value { return Value{kind: KindDouble, f64: x} }

// Bytes returns a byte sequence value.
func Bytes(b []byte) Value { return Value{kind: KindBytes, bytes: b} }

// String returns a UTF-8 text value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Fixed returns a fixed value with the declared size and data.
func Fixed(size int, data []byte) Value { return Value{kind: KindFixed, size: size, bytes: data} }

// Enum returns an enum value with its position and symbol.
func Enum(index int32, symbol string) Value { return Value{kind: KindEnum, i32: index, str: symbol} }

// Union boxes v as the chosen branch of a union.
func Union(v Value) Value { return Value{kind: KindUnion, inner: &v} }

// Array returns an ordered sequence value.
func Array(items []Value) Value { return Value{kind: KindArray, items: items} }

// Map returns a string-keyed map value.
func Map(entries map[string]Value) Value { return Value{kind: KindMap, entries: entries} }

// Record returns a record value. Fields keep the given order.
func Record(fields []RecordEntry) Value { return Value{kind: KindRecord, fields: fields} }

// Date returns a date value in milliseconds since the Unix epoch.
func Date(millis int64) Value { return Value{kind: KindDate, i64: millis} }

// Set returns a set value holding the given strings; duplicates are merged.
func Set(members ...string) Value {
	set := make(map[string]struct{}, len(members))
	for _, m := range members {
		set[m] = struct{}{}
	}
	return Value{kind: KindSet, set: set}
}

// LruSet returns an LRU-set value.
func LruSet(entries map[string]LruValue, limit LruLimit) Value {
	return Value{kind: KindLruSet, lru: entries, limit: limit}
}

// Some returns a present Optional holding v.
func Some(v Value) Value { return Value{kind: KindOptional, inner: &v} }

// None returns an absent Optional.
func None() Value { return Value{kind: KindOptional} }

// ============================================================
// Accessors
// ============================================================

// Kind reports the case of v.
func (v Value) Kind() Kind { return v.kind }

// Setting returns the encoding annotation, or nil when absent.
func (v Value) Setting() *Setting { return v.setting }

// Indexed reports whether the index annotation is present.
func (v Value) Indexed() bool { return v.setting != nil && v.setting.Index }

// IsNull reports whether v is the null value.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns the payload of a boolean value.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBoolean }

// AsInt returns the payload of an int value.
func (v Value) AsInt() (int32, bool) { return v.i32, v.kind == KindInt }

// AsLong returns the payload of a long value.
func (v Value) AsLong() (int64, bool) { return v.i64, v.kind == KindLong }

// AsFloat returns the payload of a float value.
func (v Value) AsFloat() (float32, bool) { return v.f32, v.kind == KindFloat }

// AsDouble returns the payload of a double value.
func (v Value) AsDouble() (float64, bool) { return v.f64, v.kind == KindDouble }

// AsBytes returns the payload of a bytes value.
func (v Value) AsBytes() ([]byte, bool) { return v.bytes, v.kind == KindBytes }

// AsString returns the payload of a string value.
func (v Value) AsString() (string, bool) { return v.str, v.kind == KindString }

// AsDate returns the Unix milliseconds of a date value.
func (v Value) AsDate() (int64, bool) { return v.i64, v.kind == KindDate }

// AsArray returns the items of an array value.
func (v Value) AsArray() ([]Value, bool) { return v.items, v.kind == KindArray }

// AsRecord returns the fields of a record value in schema order.
func (v Value) AsRecord() ([]RecordEntry, bool) {
	return v.fields, v.kind == KindRecord
}

// AsFixed returns the declared size and data of a fixed value.
func (v Value) AsFixed() (int, []byte, bool) { return v.size, v.bytes, v.kind == KindFixed }

// AsEnum returns the index and symbol of an enum value.
func (v Value) AsEnum() (int32, string, bool) { return v.i32, v.str, v.kind == KindEnum }

// AsUnion returns the branch value of a union.
func (v Value) AsUnion() (Value, bool) {
	if v.kind != KindUnion || v.inner == nil {
		return Value{}, false
	}
	return *v.inner, true
}

// AsOptional returns the payload of an Optional and whether it is present.
// ok is false when v is not an Optional.
func (v Value) AsOptional() (inner Value, present, ok bool) {
	if v.kind != KindOptional {
		return Value{}, false, false
	}
	if v.inner == nil {
		return Value{}, false, true
	}
	return *v.inner, true, true
}

// AsMap returns the map entries.
func (v Value) AsMap() (map[string]Value, bool) { return v.entries, v.kind == KindMap }

// AsLruSet returns the entries and eviction policy of an LRU-set value.
func (v Value) AsLruSet() (map[string]LruValue, LruLimit, bool) {
	return v.lru, v.limit, v.kind == KindLruSet
}

// AsSet returns the set members.
func (v Value) AsSet() (map[string]struct{}, bool) { return v.set, v.kind == KindSet }

// Field returns the value of the named record field.
func (v Value) Field(name string) (Value, bool) {
	if v.kind != KindRecord {
		return Value{}, false
	}
	for _, f := range v.fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return Value{}, false
}

// Contains reports whether a set or LRU-set value holds key.
func (v Value) Contains(key string) bool {
	switch v.kind {
	case KindSet:
		_, ok := v.set[key]
		return ok
	case KindLruSet:
		_, ok := v.lru[key]
		return ok
	}
	return false
}

// Len returns the number of elements of a container value, 0 otherwise.
func (v Value) Len() int {
	switch v.kind {
	case KindBytes, KindFixed:
		return len(v.bytes)
	case KindArray:
		return len(v.items)
	case KindMap:
		return len(v.entries)
	case KindRecord:
		return len(v.fields)
	case KindSet:
		return len(v.set)
	case KindLruSet:
		return len(v.lru)
	}
	return 0
}
