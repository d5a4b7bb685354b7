package avrokit

import (
	"reflect"
	"strings"
)

// StructKey resolves the map key a struct field converts to in FromNative.
// Priority: avro tag > json tag name > field name; "-" disables the field.
func StructKey(sf reflect.StructField) string {
	if at := sf.Tag.Get("avro"); at != "" {
		if i := strings.IndexByte(at, ','); i >= 0 {
			at = at[:i]
		}
		if at != "" {
			return at
		}
	}
	if jt := sf.Tag.Get("json"); jt != "" {
		if jt == "-" {
			return "-"
		}
		if i := strings.IndexByte(jt, ','); i >= 0 {
			jt = jt[:i]
		}
		if jt != "" {
			return jt
		}
	}
	return sf.Name
}
