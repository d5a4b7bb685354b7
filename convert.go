package avrokit

import (
	"bytes"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"time"

	"github.com/goccy/go-json"
)

// Valuer is implemented by host types that convert themselves into a Value.
type Valuer interface {
	AvroValue() Value
}

// FromNative converts a host value into a Value without consulting any
// schema. Pointers are option-like: nil becomes Union(Null) and a non-nil
// pointer becomes a Union of its target. Structs become maps keyed by
// StructKey. Values of unsupported kinds (channels, funcs, non-string map
// keys) become Null.
func FromNative(x any) Value {
	switch t := x.(type) {
	case nil:
		return Null()
	case Value:
		return t
	case Valuer:
		return t.AvroValue()
	case LruValue:
		return t.Value()
	case *RecordBuilder:
		return t.Value()
	case bool:
		return Boolean(t)
	case int8:
		return Int(int32(t))
	case int16:
		return Int(int32(t))
	case int32:
		return Int(t)
	case uint8:
		return Int(int32(t))
	case uint16:
		return Int(int32(t))
	case int:
		return Long(int64(t))
	case int64:
		return Long(t)
	case uint:
		return Long(int64(t))
	case uint32:
		return Long(int64(t))
	case uint64:
		return Long(int64(t))
	case float32:
		return Float(t)
	case float64:
		return Double(t)
	case string:
		return String(t)
	case []byte:
		return Bytes(t)
	case json.Number:
		return fromJSONNumber(t)
	case time.Time:
		return Date(t.UnixMilli())
	case map[string]any:
		entries := make(map[string]Value, len(t))
		for k, v := range t {
			entries[k] = FromNative(v)
		}
		return Map(entries)
	case []any:
		items := make([]Value, len(t))
		for i, v := range t {
			items[i] = FromNative(v)
		}
		return Array(items)
	}
	return fromReflect(reflect.ValueOf(x))
}

func fromReflect(rv reflect.Value) Value {
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return Union(Null())
		}
		return Union(FromNative(rv.Elem().Interface()))
	case reflect.Interface:
		if rv.IsNil() {
			return Null()
		}
		return FromNative(rv.Elem().Interface())
	case reflect.Bool:
		return Boolean(rv.Bool())
	case reflect.Int8, reflect.Int16, reflect.Int32:
		return Int(int32(rv.Int()))
	case reflect.Int, reflect.Int64:
		return Long(rv.Int())
	case reflect.Uint8, reflect.Uint16:
		return Int(int32(rv.Uint()))
	case reflect.Uint, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return Long(int64(rv.Uint()))
	case reflect.Float32:
		return Float(float32(rv.Float()))
	case reflect.Float64:
		return Double(rv.Float())
	case reflect.String:
		return String(rv.String())
	case reflect.Slice:
		if rv.IsNil() {
			return Array(nil)
		}
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return Bytes(rv.Bytes())
		}
		return fromReflectList(rv)
	case reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			b := make([]byte, rv.Len())
			reflect.Copy(reflect.ValueOf(b), rv)
			return Bytes(b)
		}
		return fromReflectList(rv)
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return Null()
		}
		entries := make(map[string]Value, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			entries[iter.Key().String()] = FromNative(iter.Value().Interface())
		}
		return Map(entries)
	case reflect.Struct:
		rt := rv.Type()
		entries := make(map[string]Value, rt.NumField())
		for i := 0; i < rt.NumField(); i++ {
			sf := rt.Field(i)
			if !sf.IsExported() {
				continue
			}
			key := StructKey(sf)
			if key == "-" {
				continue
			}
			entries[key] = FromNative(rv.Field(i).Interface())
		}
		return Map(entries)
	}
	return Null()
}

func fromReflectList(rv reflect.Value) Value {
	items := make([]Value, rv.Len())
	for i := range items {
		items[i] = FromNative(rv.Index(i).Interface())
	}
	return Array(items)
}

// FromJSON converts a decoded JSON document (nil, bool, float64 or
// json.Number, string, []any, map[string]any) into a Value. Integral numbers
// become Long and all others Double. Unsigned integers beyond the int64 range
// wrap instead of failing. JSON never yields Set, LruSet, Date or Fixed.
func FromJSON(x any) Value {
	switch t := x.(type) {
	case nil:
		return Null()
	case bool:
		return Boolean(t)
	case float64:
		if t == math.Trunc(t) && t >= math.MinInt64 && t < math.MaxInt64 {
			return Long(int64(t))
		}
		return Double(t)
	case json.Number:
		return fromJSONNumber(t)
	case string:
		return String(t)
	case []any:
		items := make([]Value, len(t))
		for i, v := range t {
			items[i] = FromJSON(v)
		}
		return Array(items)
	case map[string]any:
		entries := make(map[string]Value, len(t))
		for k, v := range t {
			entries[k] = FromJSON(v)
		}
		return Map(entries)
	}
	return FromNative(x)
}

func fromJSONNumber(n json.Number) Value {
	if i, err := n.Int64(); err == nil {
		return Long(i)
	}
	if u, err := strconv.ParseUint(string(n), 10, 64); err == nil {
		return Long(int64(u))
	}
	if f, err := n.Float64(); err == nil {
		return Double(f)
	}
	return String(string(n))
}

// FromJSONBytes decodes one JSON document and converts it with FromJSON.
// Numbers keep their literal text so that large integers stay exact.
func FromJSONBytes(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var x any
	if err := dec.Decode(&x); err != nil {
		return Value{}, fmt.Errorf("avrokit: decode json: %w", err)
	}
	return FromJSON(x), nil
}
