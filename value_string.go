package avrokit

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// String renders v for diagnostics, for example Int(42) or String("x").
func (v Value) String() string {
	var b strings.Builder
	v.writeTo(&b)
	return b.String()
}

func (v Value) writeTo(b *strings.Builder) {
	switch v.kind {
	case KindNull:
		b.WriteString("Null")
	case KindBoolean:
		fmt.Fprintf(b, "Boolean(%t)", v.b)
	case KindInt:
		fmt.Fprintf(b, "Int(%d)", v.i32)
	case KindLong:
		fmt.Fprintf(b, "Long(%d)", v.i64)
	case KindFloat:
		b.WriteString("Float(" + strconv.FormatFloat(float64(v.f32), 'g', -1, 32) + ")")
	case KindDouble:
		b.WriteString("Double(" + strconv.FormatFloat(v.f64, 'g', -1, 64) + ")")
	case KindBytes:
		fmt.Fprintf(b, "Bytes(%v)", v.bytes)
	case KindString:
		fmt.Fprintf(b, "String(%q)", v.str)
	case KindFixed:
		fmt.Fprintf(b, "Fixed(%d, %v)", v.size, v.bytes)
	case KindEnum:
		fmt.Fprintf(b, "Enum(%d, %q)", v.i32, v.str)
	case KindUnion:
		b.WriteString("Union(")
		v.unionInner().writeTo(b)
		b.WriteByte(')')
	case KindArray:
		b.WriteString("Array([")
		for i, item := range v.items {
			if i > 0 {
				b.WriteString(", ")
			}
			item.writeTo(b)
		}
		b.WriteString("])")
	case KindMap:
		b.WriteString("Map({")
		for i, k := range sortedKeys(v.entries) {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(b, "%q: ", k)
			v.entries[k].writeTo(b)
		}
		b.WriteString("})")
	case KindRecord:
		b.WriteString("Record({")
		for i, f := range v.fields {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(f.Name + ": ")
			f.Value.writeTo(b)
		}
		b.WriteString("})")
	case KindDate:
		fmt.Fprintf(b, "Date(%d)", v.i64)
	case KindSet:
		fmt.Fprintf(b, "Set(%q)", sortedMembers(v.set))
	case KindLruSet:
		keys := make([]string, 0, len(v.lru))
		for k := range v.lru {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString("LruSet({")
		for i, k := range keys {
			if i > 0 {
				b.WriteString(", ")
			}
			e := v.lru[k]
			fmt.Fprintf(b, "%q: {access_time: %d, count: %d}", k, e.AccessTime, e.Count)
		}
		b.WriteString("})")
	case KindOptional:
		if v.inner == nil {
			b.WriteString("None")
			return
		}
		b.WriteString("Some(")
		v.inner.writeTo(b)
		b.WriteByte(')')
	default:
		b.WriteString("Unknown")
	}
}

func sortedKeys(m map[string]Value) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
