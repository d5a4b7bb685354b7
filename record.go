package avrokit

// RecordBuilder assembles a record Value for one record schema. Unset fields
// stay Null. Put never validates; run Validate or Resolve on the result.
type RecordBuilder struct {
	fields []RecordEntry
	lookup map[string]int // borrowed from the schema, read-only
}

// NewRecord returns a builder for schema, or ErrNotRecord when schema is not
// a record.
func NewRecord(schema Schema) (*RecordBuilder, error) {
	rs, ok := schema.(*RecordSchema)
	if !ok {
		return nil, ErrNotRecord
	}
	fields := make([]RecordEntry, len(rs.Fields))
	for i, f := range rs.Fields {
		fields[i] = RecordEntry{Name: f.Name, Value: Null()}
	}
	return &RecordBuilder{fields: fields, lookup: rs.Lookup()}, nil
}

// Put converts v with FromNative and stores it under the named field. Names
// the schema does not declare are ignored.
func (r *RecordBuilder) Put(name string, v any) {
	if i, ok := r.lookup[name]; ok {
		r.fields[i].Value = FromNative(v)
	}
}

// Value returns the record. The builder must not be reused afterwards.
func (r *RecordBuilder) Value() Value { return Record(r.fields) }
