package codec

import (
	"context"
	"fmt"

	"github.com/hamba/avro/v2"

	avrokit "github.com/reoring/avrokit"
	"github.com/reoring/avrokit/avroschema"
)

// Binary returns a Codec between Avro binary encoding and values of one
// schema. Decode unmarshals with hamba/avro and resolves the datum against
// the schema; Encode resolves first, so any value that reconciles with the
// schema can be written.
func Binary(s *avroschema.Schema) avrokit.Codec[[]byte, avrokit.Value] {
	return &binaryCodec{writer: s, reader: s}
}

// Resolving returns a Codec for data written under writer and read under
// reader. Decode reads writer-encoded bytes and resolves them into the reader
// schema; Encode resolves a reader-shaped value into the writer schema and
// writes it.
func Resolving(writer, reader *avroschema.Schema) avrokit.Codec[[]byte, avrokit.Value] {
	return &binaryCodec{writer: writer, reader: reader}
}

type binaryCodec struct {
	writer *avroschema.Schema
	reader *avroschema.Schema
}

func (c *binaryCodec) Decode(ctx context.Context, a []byte) (avrokit.Value, error) {
	var x any
	if err := avro.Unmarshal(c.writer.Avro(), a, &x); err != nil {
		return avrokit.Value{}, fmt.Errorf("codec: unmarshal: %w", err)
	}
	v, err := fromNative(c.writer.Avro(), x)
	if err != nil {
		return avrokit.Value{}, err
	}
	return absentNulls(v, c.reader.Tree()).Resolve(c.reader.Tree())
}

func (c *binaryCodec) Encode(ctx context.Context, b avrokit.Value) ([]byte, error) {
	rv, err := b.Resolve(c.writer.Tree())
	if err != nil {
		return nil, err
	}
	x, err := toNative(c.writer.Avro(), c.writer.Tree(), rv)
	if err != nil {
		return nil, err
	}
	out, err := avro.Marshal(c.writer.Avro(), x)
	if err != nil {
		return nil, fmt.Errorf("codec: marshal: %w", err)
	}
	return out, nil
}
