package avrokit

import (
	"math"
	"sort"

	"github.com/goccy/go-json"
)

// JSON projects v into a JSON-compatible tree. Bytes and Fixed become arrays
// of numbers, Enum its symbol, Union and Optional their payload (absent is
// null), Set a sorted array of strings and LruSet an object of
// {access_time, count} entries. Non-finite floats become null.
func (v Value) JSON() any {
	switch v.kind {
	case KindNull:
		return nil
	case KindBoolean:
		return v.b
	case KindInt:
		return v.i32
	case KindLong, KindDate:
		return v.i64
	case KindFloat:
		if math.IsNaN(float64(v.f32)) || math.IsInf(float64(v.f32), 0) {
			return nil
		}
		return v.f32
	case KindDouble:
		if math.IsNaN(v.f64) || math.IsInf(v.f64, 0) {
			return nil
		}
		return v.f64
	case KindBytes, KindFixed:
		out := make([]int, len(v.bytes))
		for i, b := range v.bytes {
			out[i] = int(b)
		}
		return out
	case KindString, KindEnum:
		return v.str
	case KindUnion, KindOptional:
		if v.inner == nil {
			return nil
		}
		return v.inner.JSON()
	case KindArray:
		out := make([]any, len(v.items))
		for i, item := range v.items {
			out[i] = item.JSON()
		}
		return out
	case KindMap:
		out := make(map[string]any, len(v.entries))
		for k, item := range v.entries {
			out[k] = item.JSON()
		}
		return out
	case KindRecord:
		out := make(map[string]any, len(v.fields))
		for _, f := range v.fields {
			out[f.Name] = f.Value.JSON()
		}
		return out
	case KindSet:
		return sortedMembers(v.set)
	case KindLruSet:
		out := make(map[string]any, len(v.lru))
		for k, e := range v.lru {
			out[k] = map[string]any{lruAccessTime: e.AccessTime, lruCount: e.Count}
		}
		return out
	}
	return nil
}

// MarshalJSON encodes the JSON projection of v.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.JSON())
}

func sortedMembers(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
