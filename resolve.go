package avrokit

import (
	"net/mail"
	"time"
	"unicode/utf8"
)

// indexable lists the kinds that carry the index annotation when the target
// schema asks for it. Numeric, bytes, fixed and union values never do.
var indexable = [...]bool{
	KindBoolean:  true,
	KindString:   true,
	KindEnum:     true,
	KindArray:    true,
	KindMap:      true,
	KindRecord:   true,
	KindDate:     true,
	KindSet:      true,
	KindLruSet:   true,
	KindOptional: true,
}

// stamp replaces the annotation of a freshly resolved node.
func stamp(v Value, index bool) Value {
	v.setting = nil
	if index && int(v.kind) < len(indexable) && indexable[v.kind] {
		v.setting = &Setting{Index: true}
	}
	return v
}

// Resolve reconciles v, produced under some writer schema, with the reader
// schema and returns a new value that validates against it. Every record node
// is annotated from its own RecordSchema.Index, wherever it sits in the tree;
// every field value is annotated from Field.Index.
func (v Value) Resolve(schema Schema) (Value, error) {
	return resolve(v, schema, false)
}

func resolve(v Value, schema Schema, index bool) (Value, error) {
	if schema == nil {
		return Value{}, resolutionErrorf("no schema to resolve %s against", v)
	}
	// A union source read by a non-union reader is its branch value.
	if v.kind == KindUnion && schema.Kind() != KindUnion {
		v = v.unionInner()
	}
	switch s := schema.(type) {
	case *PrimitiveSchema:
		switch s.kind {
		case KindNull:
			return resolveNull(v)
		case KindBoolean:
			return resolveBoolean(v, index)
		case KindInt:
			return resolveInt(v)
		case KindLong:
			return resolveLong(v)
		case KindFloat:
			return resolveFloat(v)
		case KindDouble:
			return resolveDouble(v)
		case KindBytes:
			return resolveBytes(v)
		case KindString:
			return resolveString(v, index)
		case KindDate:
			return resolveDate(v, index)
		case KindSet:
			return resolveSet(v, index)
		}
	case *FixedSchema:
		return resolveFixed(v, s)
	case *EnumSchema:
		return resolveEnum(v, s, index)
	case *UnionSchema:
		return resolveUnion(v, s)
	case *ArraySchema:
		return resolveArray(v, s, index)
	case *MapSchema:
		return resolveMap(v, s, index)
	case *RecordSchema:
		return resolveRecord(v, s)
	case *LruSetSchema:
		return resolveLruSet(v, s, index)
	case *OptionalSchema:
		return resolveOptional(v, s, index)
	}
	return Value{}, resolutionErrorf("unsupported schema %s", schema)
}

func mismatch(want Schema, got Value) error {
	return resolutionErrorf("%s expected, got %s", want, got)
}

func resolveNull(v Value) (Value, error) {
	if v.kind != KindNull {
		return Value{}, mismatch(NullSchema, v)
	}
	return Null(), nil
}

func resolveBoolean(v Value, index bool) (Value, error) {
	if v.kind != KindBoolean {
		return Value{}, mismatch(BooleanSchema, v)
	}
	return stamp(Boolean(v.b), index), nil
}

// Long to Int truncates to the low 32 bits.
func resolveInt(v Value) (Value, error) {
	switch v.kind {
	case KindInt:
		return Int(v.i32), nil
	case KindLong:
		return Int(int32(v.i64)), nil
	}
	return Value{}, mismatch(IntSchema, v)
}

func resolveLong(v Value) (Value, error) {
	switch v.kind {
	case KindInt:
		return Long(int64(v.i32)), nil
	case KindLong:
		return Long(v.i64), nil
	}
	return Value{}, mismatch(LongSchema, v)
}

// Double to Float narrows with the usual float32 rounding.
func resolveFloat(v Value) (Value, error) {
	switch v.kind {
	case KindInt:
		return Float(float32(v.i32)), nil
	case KindLong:
		return Float(float32(v.i64)), nil
	case KindFloat:
		return Float(v.f32), nil
	case KindDouble:
		return Float(float32(v.f64)), nil
	}
	return Value{}, mismatch(FloatSchema, v)
}

func resolveDouble(v Value) (Value, error) {
	switch v.kind {
	case KindInt:
		return Double(float64(v.i32)), nil
	case KindLong:
		return Double(float64(v.i64)), nil
	case KindFloat:
		return Double(float64(v.f32)), nil
	case KindDouble:
		return Double(v.f64), nil
	}
	return Value{}, mismatch(DoubleSchema, v)
}

func resolveBytes(v Value) (Value, error) {
	switch v.kind {
	case KindBytes:
		return Bytes(v.bytes), nil
	case KindString:
		return Bytes([]byte(v.str)), nil
	case KindArray:
		out := make([]byte, len(v.items))
		for i, item := range v.items {
			b, err := toByte(item)
			if err != nil {
				return Value{}, atIndex(err, i)
			}
			out[i] = b
		}
		return Bytes(out), nil
	}
	return Value{}, mismatch(BytesSchema, v)
}

// toByte resolves v as an int and requires it to fit in 0..255.
func toByte(v Value) (byte, error) {
	n, err := resolve(v, IntSchema, false)
	if err != nil {
		return 0, err
	}
	if n.i32 < 0 || n.i32 > 255 {
		return 0, resolutionErrorf("unable to convert to byte, got %s", n)
	}
	return byte(n.i32), nil
}

func resolveString(v Value, index bool) (Value, error) {
	switch v.kind {
	case KindString:
		return stamp(String(v.str), index), nil
	case KindBytes:
		if !utf8.Valid(v.bytes) {
			return Value{}, resolutionErrorf("invalid UTF-8 in %s", v)
		}
		return stamp(String(string(v.bytes)), index), nil
	}
	return Value{}, mismatch(StringSchema, v)
}

func resolveFixed(v Value, s *FixedSchema) (Value, error) {
	if v.kind != KindFixed {
		return Value{}, mismatch(s, v)
	}
	if v.size != s.Size || len(v.bytes) != s.Size {
		return Value{}, resolutionErrorf("fixed size mismatch, %d expected, got %d", s.Size, len(v.bytes))
	}
	return Fixed(v.size, v.bytes), nil
}

// resolveEnum looks the symbol up by name; the source index is only range
// checked, never trusted.
func resolveEnum(v Value, s *EnumSchema, index bool) (Value, error) {
	var symbol string
	switch v.kind {
	case KindEnum:
		if v.i32 < 0 || int(v.i32) >= len(s.Symbols) {
			return Value{}, resolutionErrorf("enum value %d is out of bound %d", v.i32, len(s.Symbols))
		}
		symbol = v.str
	case KindString:
		symbol = v.str
	default:
		return Value{}, mismatch(s, v)
	}
	i := s.IndexOf(symbol)
	if i < 0 {
		return Value{}, resolutionErrorf("enum symbol %q is not among allowed symbols %q", symbol, s.Symbols)
	}
	return stamp(Enum(int32(i), symbol), index), nil
}

// resolveUnion picks the first branch the value already validates against,
// falling back to the first branch it reaches through lossless promotion only.
// Narrowing and bytes/string reinterpretation never select a branch.
func resolveUnion(v Value, s *UnionSchema) (Value, error) {
	if v.kind == KindUnion {
		v = v.unionInner()
	}
	if _, branch, ok := s.FindBranch(v); ok {
		r, err := resolve(v, branch, false)
		if err != nil {
			return Value{}, err
		}
		return Union(r), nil
	}
	for _, branch := range s.branches {
		if !promotes(v, branch) {
			continue
		}
		if r, err := resolve(v, branch, false); err == nil {
			return Union(r), nil
		}
	}
	return Value{}, resolutionErrorf("could not find matching type in %s for %s", s, v)
}

// promotes reports whether v reaches schema without losing information: the
// same kind, numeric widening (int to long, float or double; long to double;
// float to double), a map read as a record, a long or string read as a date,
// a string array read as a set, or a map read as an LRU set. Containers are
// checked element by element.
func promotes(v Value, schema Schema) bool {
	if v.kind == KindUnion {
		v = v.unionInner()
	}
	switch s := schema.(type) {
	case *PrimitiveSchema:
		switch s.kind {
		case KindLong:
			return v.kind == KindInt || v.kind == KindLong
		case KindFloat:
			return v.kind == KindInt || v.kind == KindFloat
		case KindDouble:
			return v.kind == KindInt || v.kind == KindLong || v.kind == KindFloat || v.kind == KindDouble
		case KindDate:
			return v.kind == KindLong || v.kind == KindDate || v.kind == KindString
		case KindSet:
			if v.kind != KindArray {
				return v.kind == KindSet
			}
			for _, item := range v.items {
				if item.kind != KindString {
					return false
				}
			}
			return true
		}
		return v.kind == s.kind
	case *FixedSchema:
		return v.kind == KindFixed && len(v.bytes) == s.Size
	case *EnumSchema:
		return (v.kind == KindString || v.kind == KindEnum) && s.IndexOf(v.str) >= 0
	case *ArraySchema:
		if v.kind != KindArray {
			return false
		}
		for _, item := range v.items {
			if !promotes(item, s.Items) {
				return false
			}
		}
		return true
	case *MapSchema:
		if v.kind != KindMap {
			return false
		}
		for _, item := range v.entries {
			if !promotes(item, s.Values) {
				return false
			}
		}
		return true
	case *RecordSchema:
		var src map[string]Value
		switch v.kind {
		case KindMap:
			src = v.entries
		case KindRecord:
			src = make(map[string]Value, len(v.fields))
			for _, f := range v.fields {
				src[f.Name] = f.Value
			}
		default:
			return false
		}
		for _, f := range s.Fields {
			fv, ok := src[f.Name]
			if !ok {
				if !f.HasDefault {
					return false
				}
				continue
			}
			if !promotes(fv, f.Type) {
				return false
			}
		}
		return true
	case *LruSetSchema:
		return v.kind == KindMap || v.kind == KindLruSet
	case *UnionSchema:
		for _, branch := range s.branches {
			if promotes(v, branch) {
				return true
			}
		}
		return false
	case *OptionalSchema:
		if v.kind == KindOptional {
			return v.inner == nil || promotes(*v.inner, s.Inner)
		}
		return promotes(v, s.Inner)
	}
	return false
}

func resolveArray(v Value, s *ArraySchema, index bool) (Value, error) {
	if v.kind != KindArray {
		return Value{}, mismatch(s, v)
	}
	items := make([]Value, len(v.items))
	for i, item := range v.items {
		r, err := resolve(item, s.Items, index)
		if err != nil {
			return Value{}, atIndex(err, i)
		}
		items[i] = r
	}
	return stamp(Array(items), index), nil
}

func resolveMap(v Value, s *MapSchema, index bool) (Value, error) {
	if v.kind != KindMap {
		return Value{}, mismatch(s, v)
	}
	entries := make(map[string]Value, len(v.entries))
	for k, item := range v.entries {
		r, err := resolve(item, s.Values, index)
		if err != nil {
			return Value{}, atField(err, k)
		}
		entries[k] = r
	}
	return stamp(Map(entries), index), nil
}

// resolveRecord reads a Map or a Record source by field name. With a Record
// source the last field of a duplicated name wins.
func resolveRecord(v Value, s *RecordSchema) (Value, error) {
	var src map[string]Value
	switch v.kind {
	case KindMap:
		src = v.entries
	case KindRecord:
		src = make(map[string]Value, len(v.fields))
		for _, f := range v.fields {
			src[f.Name] = f.Value
		}
	default:
		return Value{}, mismatch(s, v)
	}
	fields := make([]RecordEntry, len(s.Fields))
	for i, f := range s.Fields {
		fv, ok := src[f.Name]
		if !ok {
			if !f.HasDefault {
				return Value{}, resolutionErrorf("missing field %s in record %s", f.Name, s.Name.FullName())
			}
			d, err := fieldDefault(f)
			if err != nil {
				return Value{}, atField(err, f.Name)
			}
			fv = d
		}
		r, err := resolve(fv, f.Type, f.Index)
		if err != nil {
			return Value{}, atField(err, f.Name)
		}
		fields[i] = RecordEntry{Name: f.Name, Value: r}
	}
	return stamp(Record(fields), s.Index), nil
}

// fieldDefault converts the declared default of f into a Value ready for
// resolution against f.Type.
func fieldDefault(f *Field) (Value, error) {
	d := FromNative(f.Default)
	switch t := f.Type.(type) {
	case *EnumSchema:
		return resolveEnum(d, t, f.Index)
	case *FixedSchema:
		// Fixed defaults are strings whose code points are the bytes.
		if d.kind == KindString {
			if b, ok := codePointBytes(d.str); ok && len(b) == t.Size {
				return Fixed(t.Size, b), nil
			}
		}
		if d.kind == KindBytes && len(d.bytes) == t.Size {
			return Fixed(t.Size, d.bytes), nil
		}
	case *OptionalSchema:
		if d.kind == KindNull {
			return None(), nil
		}
	}
	return d, nil
}

func codePointBytes(s string) ([]byte, bool) {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if r > 0xff {
			return nil, false
		}
		out = append(out, byte(r))
	}
	return out, true
}

func resolveDate(v Value, index bool) (Value, error) {
	switch v.kind {
	case KindLong, KindDate:
		return stamp(Date(v.i64), index), nil
	case KindString:
		t, err := parseDate(v.str)
		if err != nil {
			return Value{}, resolutionCause(err, "couldn't resolve string value %q to date", v.str)
		}
		return stamp(Date(t.UnixMilli()), index), nil
	}
	return Value{}, mismatch(DateSchema, v)
}

// parseDate accepts RFC 3339 first, then RFC 2822 text.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return mail.ParseDate(s)
}

func resolveSet(v Value, index bool) (Value, error) {
	switch v.kind {
	case KindArray:
		set := make(map[string]struct{}, len(v.items))
		for i, item := range v.items {
			if item.kind != KindString {
				return Value{}, atIndex(mismatch(StringSchema, item), i)
			}
			set[item.str] = struct{}{}
		}
		return stamp(Value{kind: KindSet, set: set}, index), nil
	case KindSet:
		return stamp(Value{kind: KindSet, set: v.set}, index), nil
	}
	return Value{}, mismatch(SetSchema, v)
}

// resolveLruSet always carries the reader's limit.
func resolveLruSet(v Value, s *LruSetSchema, index bool) (Value, error) {
	switch v.kind {
	case KindMap:
		entries := make(map[string]LruValue, len(v.entries))
		for k, item := range v.entries {
			lv, err := resolveLruValue(item)
			if err != nil {
				return Value{}, atField(err, k)
			}
			entries[k] = lv
		}
		return stamp(LruSet(entries, s.Limit), index), nil
	case KindLruSet:
		return stamp(LruSet(v.lru, s.Limit), index), nil
	}
	return Value{}, mismatch(s, v)
}

// resolveOptional passes an Optional's presence through and treats any bare
// value as present.
func resolveOptional(v Value, s *OptionalSchema, index bool) (Value, error) {
	inner := &v
	if v.kind == KindOptional {
		inner = v.inner
	}
	if inner == nil {
		return stamp(None(), index), nil
	}
	r, err := inner.Resolve(s.Inner)
	if err != nil {
		return Value{}, err
	}
	if r.kind == KindOptional && r.inner == nil {
		return stamp(None(), index), nil
	}
	return stamp(Some(r), index), nil
}
