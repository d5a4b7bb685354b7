package codec

import (
	"context"

	avrokit "github.com/reoring/avrokit"
)

// Identity returns a Codec[Value,Value] bound to one schema. Decode resolves
// the input against the schema; Encode performs no coercion and rejects
// values that do not validate.
func Identity(s avrokit.Schema) avrokit.Codec[avrokit.Value, avrokit.Value] {
	return &identityCodec{schema: s}
}

type identityCodec struct {
	schema avrokit.Schema
}

func (c *identityCodec) Decode(ctx context.Context, a avrokit.Value) (avrokit.Value, error) {
	return a.Resolve(c.schema)
}

func (c *identityCodec) Encode(ctx context.Context, b avrokit.Value) (avrokit.Value, error) {
	if !b.Validate(c.schema) {
		return avrokit.Value{}, &avrokit.ResolutionError{Message: b.String() + " does not conform to " + schemaString(c.schema)}
	}
	return b, nil
}

func schemaString(s avrokit.Schema) string {
	if s == nil {
		return "<nil schema>"
	}
	return s.String()
}
