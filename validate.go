package avrokit

// Validate reports whether v conforms to schema without any coercion. The
// encoding annotation is ignored.
func (v Value) Validate(schema Schema) bool {
	switch s := schema.(type) {
	case *PrimitiveSchema:
		return v.kind == s.kind
	case *FixedSchema:
		return v.kind == KindFixed && v.size == s.Size && len(v.bytes) == s.Size
	case *EnumSchema:
		switch v.kind {
		case KindString:
			return s.IndexOf(v.str) >= 0
		case KindEnum:
			return v.i32 >= 0 && int(v.i32) < len(s.Symbols) && s.Symbols[v.i32] == v.str
		}
		return false
	case *UnionSchema:
		if v.kind != KindUnion {
			return false
		}
		_, _, ok := s.FindBranch(v.unionInner())
		return ok
	case *ArraySchema:
		if v.kind != KindArray {
			return false
		}
		for _, item := range v.items {
			if !item.Validate(s.Items) {
				return false
			}
		}
		return true
	case *MapSchema:
		if v.kind != KindMap {
			return false
		}
		for _, item := range v.entries {
			if !item.Validate(s.Values) {
				return false
			}
		}
		return true
	case *RecordSchema:
		if v.kind != KindRecord || len(v.fields) != len(s.Fields) {
			return false
		}
		for i, f := range s.Fields {
			if v.fields[i].Name != f.Name || !v.fields[i].Value.Validate(f.Type) {
				return false
			}
		}
		return true
	case *LruSetSchema:
		return v.kind == KindLruSet
	case *OptionalSchema:
		if v.kind != KindOptional {
			return false
		}
		return v.inner == nil || v.inner.Validate(s.Inner)
	}
	return false
}

func (v Value) unionInner() Value {
	if v.inner == nil {
		return Null()
	}
	return *v.inner
}
