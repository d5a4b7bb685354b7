package avrokit

import "context"

// Codec performs bidirectional transformation between the wire
// representation A and the domain representation B.
type Codec[A, B any] interface {
	Decode(ctx context.Context, a A) (B, error) // A -> B, resolved against the codec's schema.
	Encode(ctx context.Context, b B) (A, error) // B -> A, failing when b does not fit the schema.
}

// Resolve reconciles v with schema. It is shorthand for v.Resolve(schema).
func Resolve(v Value, schema Schema) (Value, error) { return v.Resolve(schema) }

// Validate reports whether v conforms to schema. It is shorthand for
// v.Validate(schema).
func Validate(v Value, schema Schema) bool { return v.Validate(schema) }
