package codec

import (
	"fmt"
	"math/big"
	"reflect"
	"sort"
	"time"

	"github.com/hamba/avro/v2"

	avrokit "github.com/reoring/avrokit"
)

// branchName is the key hamba/avro uses for a union branch in its generic
// map[string]any representation.
func branchName(s avro.Schema) string {
	if ref, ok := s.(*avro.RefSchema); ok {
		s = ref.Schema()
	}
	if named, ok := s.(avro.NamedSchema); ok {
		return named.FullName()
	}
	name := string(s.Type())
	if p, ok := s.(*avro.PrimitiveSchema); ok && p.Logical() != nil {
		name += "." + string(p.Logical().Type())
	}
	return name
}

func deref(s avro.Schema) avro.Schema {
	if ref, ok := s.(*avro.RefSchema); ok {
		return ref.Schema()
	}
	return s
}

func logicalOf(s avro.Schema) avro.LogicalType {
	if p, ok := s.(*avro.PrimitiveSchema); ok && p.Logical() != nil {
		return p.Logical().Type()
	}
	return ""
}

// toNative projects a resolved value into the generic form hamba/avro
// marshals, walking the avrokit tree and the hamba schema side by side.
func toNative(hs avro.Schema, ts avrokit.Schema, v avrokit.Value) (any, error) {
	hs = deref(hs)
	switch t := ts.(type) {
	case *avrokit.PrimitiveSchema:
		switch t.Kind() {
		case avrokit.KindNull:
			return nil, nil
		case avrokit.KindBoolean:
			b, _ := v.AsBool()
			return b, nil
		case avrokit.KindInt:
			n, _ := v.AsInt()
			return int(n), nil
		case avrokit.KindLong:
			n, _ := v.AsLong()
			return n, nil
		case avrokit.KindFloat:
			x, _ := v.AsFloat()
			return x, nil
		case avrokit.KindDouble:
			x, _ := v.AsDouble()
			return x, nil
		case avrokit.KindBytes:
			b, _ := v.AsBytes()
			return b, nil
		case avrokit.KindString:
			s, _ := v.AsString()
			return s, nil
		case avrokit.KindDate:
			ms, _ := v.AsDate()
			if logicalOf(hs) == avro.TimestampMillis {
				return time.UnixMilli(ms).UTC(), nil
			}
			return ms, nil
		case avrokit.KindSet:
			members, _ := v.AsSet()
			out := make([]string, 0, len(members))
			for m := range members {
				out = append(out, m)
			}
			sort.Strings(out)
			items := make([]any, len(out))
			for i, m := range out {
				items[i] = m
			}
			return items, nil
		}
	case *avrokit.FixedSchema:
		_, data, _ := v.AsFixed()
		arr := reflect.New(reflect.ArrayOf(t.Size, reflect.TypeOf(byte(0)))).Elem()
		reflect.Copy(arr, reflect.ValueOf(data))
		return arr.Interface(), nil
	case *avrokit.EnumSchema:
		_, sym, _ := v.AsEnum()
		return sym, nil
	case *avrokit.UnionSchema:
		hu, ok := hs.(*avro.UnionSchema)
		if !ok {
			return nil, fmt.Errorf("codec: union expected in avro schema, got %s", hs.Type())
		}
		inner, _ := v.AsUnion()
		i, branch, ok := t.FindBranch(inner)
		if !ok || i >= len(hu.Types()) {
			return nil, fmt.Errorf("codec: no union branch of %s for %s", t, inner)
		}
		hb := hu.Types()[i]
		if hb.Type() == avro.Null {
			return nil, nil
		}
		nv, err := toNative(hb, branch, inner)
		if err != nil {
			return nil, err
		}
		return map[string]any{branchName(hb): nv}, nil
	case *avrokit.ArraySchema:
		ha, ok := hs.(*avro.ArraySchema)
		if !ok {
			return nil, fmt.Errorf("codec: array expected in avro schema, got %s", hs.Type())
		}
		items, _ := v.AsArray()
		out := make([]any, len(items))
		for i, item := range items {
			nv, err := toNative(ha.Items(), t.Items, item)
			if err != nil {
				return nil, err
			}
			out[i] = nv
		}
		return out, nil
	case *avrokit.MapSchema:
		hm, ok := hs.(*avro.MapSchema)
		if !ok {
			return nil, fmt.Errorf("codec: map expected in avro schema, got %s", hs.Type())
		}
		entries, _ := v.AsMap()
		out := make(map[string]any, len(entries))
		for k, item := range entries {
			nv, err := toNative(hm.Values(), t.Values, item)
			if err != nil {
				return nil, err
			}
			out[k] = nv
		}
		return out, nil
	case *avrokit.LruSetSchema:
		hm, ok := hs.(*avro.MapSchema)
		if !ok {
			return nil, fmt.Errorf("codec: map expected in avro schema, got %s", hs.Type())
		}
		entries, _, _ := v.AsLruSet()
		out := make(map[string]any, len(entries))
		for k, e := range entries {
			nv, err := toNative(hm.Values(), avrokit.LruEntrySchema(), e.Value())
			if err != nil {
				return nil, err
			}
			out[k] = nv
		}
		return out, nil
	case *avrokit.RecordSchema:
		hr, ok := hs.(*avro.RecordSchema)
		if !ok || len(hr.Fields()) != len(t.Fields) {
			return nil, fmt.Errorf("codec: record %s does not match avro schema %s", t.Name.FullName(), hs.Type())
		}
		fields, _ := v.AsRecord()
		if len(fields) != len(t.Fields) {
			return nil, fmt.Errorf("codec: record %s has %d fields, want %d", t.Name.FullName(), len(fields), len(t.Fields))
		}
		out := make(map[string]any, len(fields))
		for i, f := range t.Fields {
			nv, err := toNative(hr.Fields()[i].Type(), f.Type, fields[i].Value)
			if err != nil {
				return nil, err
			}
			out[f.Name] = nv
		}
		return out, nil
	case *avrokit.OptionalSchema:
		hu, ok := hs.(*avro.UnionSchema)
		if !ok || !hu.Nullable() {
			return nil, fmt.Errorf("codec: nullable union expected in avro schema, got %s", hs.Type())
		}
		inner, present, _ := v.AsOptional()
		if !present {
			return nil, nil
		}
		_, typ := hu.Indices()
		hb := hu.Types()[typ]
		nv, err := toNative(hb, t.Inner, inner)
		if err != nil {
			return nil, err
		}
		return map[string]any{branchName(hb): nv}, nil
	}
	return nil, fmt.Errorf("codec: unsupported schema %v", ts)
}

// fromNative converts hamba/avro's generic decoding of a datum into a
// writer-shaped Value. Extension types are recovered afterwards by resolution.
func fromNative(hs avro.Schema, x any) (avrokit.Value, error) {
	hs = deref(hs)
	switch s := hs.(type) {
	case *avro.NullSchema:
		if x != nil {
			return avrokit.Value{}, fmt.Errorf("codec: null: unexpected %T", x)
		}
		return avrokit.Null(), nil
	case *avro.PrimitiveSchema:
		return primitiveFromNative(s, x)
	case *avro.FixedSchema:
		rv := reflect.ValueOf(x)
		if rv.Kind() != reflect.Array && rv.Kind() != reflect.Slice {
			return avrokit.Value{}, fmt.Errorf("codec: fixed %s: unexpected %T", s.FullName(), x)
		}
		data := make([]byte, rv.Len())
		reflect.Copy(reflect.ValueOf(data), rv)
		return avrokit.Fixed(s.Size(), data), nil
	case *avro.EnumSchema:
		sym, ok := x.(string)
		if !ok {
			return avrokit.Value{}, fmt.Errorf("codec: enum %s: unexpected %T", s.FullName(), x)
		}
		for i, candidate := range s.Symbols() {
			if candidate == sym {
				return avrokit.Enum(int32(i), sym), nil
			}
		}
		return avrokit.String(sym), nil
	case *avro.UnionSchema:
		if x == nil {
			return avrokit.Union(avrokit.Null()), nil
		}
		if m, ok := x.(map[string]any); ok && len(m) == 1 {
			for name, inner := range m {
				for _, b := range s.Types() {
					if branchName(b) == name || string(deref(b).Type()) == name {
						v, err := fromNative(b, inner)
						if err != nil {
							return avrokit.Value{}, err
						}
						return avrokit.Union(v), nil
					}
				}
			}
		}
		// Some branches decode without the name wrapper.
		for _, b := range s.Types() {
			if b.Type() == avro.Null {
				continue
			}
			if v, err := fromNative(b, x); err == nil {
				return avrokit.Union(v), nil
			}
		}
		return avrokit.Value{}, fmt.Errorf("codec: no union branch for %T", x)
	case *avro.ArraySchema:
		items, ok := x.([]any)
		if !ok {
			return avrokit.Value{}, fmt.Errorf("codec: array: unexpected %T", x)
		}
		out := make([]avrokit.Value, len(items))
		for i, item := range items {
			v, err := fromNative(s.Items(), item)
			if err != nil {
				return avrokit.Value{}, err
			}
			out[i] = v
		}
		return avrokit.Array(out), nil
	case *avro.MapSchema:
		entries, ok := x.(map[string]any)
		if !ok {
			return avrokit.Value{}, fmt.Errorf("codec: map: unexpected %T", x)
		}
		out := make(map[string]avrokit.Value, len(entries))
		for k, item := range entries {
			v, err := fromNative(s.Values(), item)
			if err != nil {
				return avrokit.Value{}, err
			}
			out[k] = v
		}
		return avrokit.Map(out), nil
	case *avro.RecordSchema:
		m, ok := x.(map[string]any)
		if !ok {
			return avrokit.Value{}, fmt.Errorf("codec: record %s: unexpected %T", s.FullName(), x)
		}
		fields := make([]avrokit.RecordEntry, 0, len(s.Fields()))
		for _, f := range s.Fields() {
			v, err := fromNative(f.Type(), m[f.Name()])
			if err != nil {
				return avrokit.Value{}, fmt.Errorf("%s.%s: %w", s.FullName(), f.Name(), err)
			}
			fields = append(fields, avrokit.RecordEntry{Name: f.Name(), Value: v})
		}
		return avrokit.Record(fields), nil
	}
	return avrokit.Value{}, fmt.Errorf("codec: unsupported avro schema %s", hs.Type())
}

func primitiveFromNative(s *avro.PrimitiveSchema, x any) (avrokit.Value, error) {
	switch v := x.(type) {
	case time.Time:
		switch logicalOf(s) {
		case avro.Date:
			return avrokit.Int(int32(v.Unix() / 86400)), nil
		case avro.TimestampMicros, avro.LocalTimestampMicros:
			return avrokit.Long(v.UnixMicro()), nil
		}
		return avrokit.Long(v.UnixMilli()), nil
	case *big.Rat:
		return avrokit.Value{}, fmt.Errorf("codec: %s: decimal values are not supported", s.Type())
	case time.Duration:
		if logicalOf(s) == avro.TimeMicros {
			return avrokit.Long(v.Microseconds()), nil
		}
		return avrokit.Int(int32(v.Milliseconds())), nil
	default:
		out := avrokit.FromNative(x)
		if n, ok := out.AsLong(); ok && s.Type() == avro.Int {
			return avrokit.Int(int32(n)), nil
		}
		if out.Kind() != avrokit.KindNull {
			return out, nil
		}
	}
	return avrokit.Value{}, fmt.Errorf("codec: %s: unexpected %T", s.Type(), x)
}

// absentNulls rewrites the nulls a plain Avro writer emits for Optional reader
// fields into absent Optionals, walking the value alongside the reader tree.
// Resolution itself treats a bare null as present.
func absentNulls(v avrokit.Value, s avrokit.Schema) avrokit.Value {
	if _, ok := s.(*avrokit.UnionSchema); ok {
		return v
	}
	// A non-union reader reads the branch value, as resolution does.
	if inner, ok := v.AsUnion(); ok {
		v = inner
	}
	switch t := s.(type) {
	case *avrokit.OptionalSchema:
		if v.IsNull() && t.Inner != nil && t.Inner.Kind() != avrokit.KindNull {
			return avrokit.None()
		}
		return absentNulls(v, t.Inner)
	case *avrokit.RecordSchema:
		if fields, ok := v.AsRecord(); ok {
			out := make([]avrokit.RecordEntry, len(fields))
			for i, e := range fields {
				if f, ok := t.FieldByName(e.Name); ok {
					e.Value = absentNulls(e.Value, f.Type)
				}
				out[i] = e
			}
			return avrokit.Record(out)
		}
		if entries, ok := v.AsMap(); ok {
			out := make(map[string]avrokit.Value, len(entries))
			for k, item := range entries {
				if f, ok := t.FieldByName(k); ok {
					item = absentNulls(item, f.Type)
				}
				out[k] = item
			}
			return avrokit.Map(out)
		}
	case *avrokit.ArraySchema:
		if items, ok := v.AsArray(); ok {
			out := make([]avrokit.Value, len(items))
			for i, item := range items {
				out[i] = absentNulls(item, t.Items)
			}
			return avrokit.Array(out)
		}
	case *avrokit.MapSchema:
		if entries, ok := v.AsMap(); ok {
			out := make(map[string]avrokit.Value, len(entries))
			for k, item := range entries {
				out[k] = absentNulls(item, t.Values)
			}
			return avrokit.Map(out)
		}
	}
	return v
}
