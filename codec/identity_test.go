package codec_test

import (
	"context"
	"testing"

	avrokit "github.com/reoring/avrokit"
	"github.com/reoring/avrokit/codec"
)

func TestIdentity_Decode_Encode(t *testing.T) {
	ctx := context.Background()
	schema := &avrokit.ArraySchema{Items: avrokit.LongSchema}
	id := codec.Identity(schema)

	dv, err := id.Decode(ctx, avrokit.Array([]avrokit.Value{avrokit.Int(1)}))
	if err != nil {
		t.Fatalf("decode err=%v", err)
	}
	if !dv.Validate(schema) {
		t.Fatalf("decoded value should validate: %s", dv)
	}
	ev, err := id.Encode(ctx, dv)
	if err != nil || ev.Len() != 1 {
		t.Fatalf("encode err=%v v=%s", err, ev)
	}
}

func TestIdentity_EncodeRejectsUnresolved(t *testing.T) {
	ctx := context.Background()
	id := codec.Identity(avrokit.LongSchema)
	_, err := id.Encode(ctx, avrokit.Int(1))
	if _, ok := avrokit.AsResolutionError(err); !ok {
		t.Fatalf("expected ResolutionError, got %v", err)
	}
	if _, err := id.Decode(ctx, avrokit.String("x")); err == nil {
		t.Fatalf("expected decode error")
	}
}
