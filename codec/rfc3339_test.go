package codec_test

import (
	"context"
	"testing"
	"time"

	avrokit "github.com/reoring/avrokit"
	"github.com/reoring/avrokit/codec"
)

func TestDateRFC3339_Codec_Basic(t *testing.T) {
	c := codec.DateRFC3339()
	ctx := context.Background()

	in := "2025-01-01T00:00:00Z"
	got, err := c.Decode(ctx, in)
	if err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if ms, ok := got.AsDate(); !ok || ms != time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).UnixMilli() {
		t.Fatalf("unexpected date: %s", got)
	}

	out, err := c.Encode(ctx, got)
	if err != nil {
		t.Fatalf("encode err: %v", err)
	}
	if out != in {
		t.Fatalf("roundtrip mismatch: %s != %s", out, in)
	}
}

func TestDateRFC3339_AcceptsRFC2822AndMillis(t *testing.T) {
	c := codec.DateRFC3339()
	ctx := context.Background()

	got, err := c.Decode(ctx, "Wed, 01 Jan 2025 09:00:00 +0900")
	if err != nil {
		t.Fatalf("decode err: %v", err)
	}
	out, err := c.Encode(ctx, got)
	if err != nil || out != "2025-01-01T00:00:00Z" {
		t.Fatalf("encode = %q, %v", out, err)
	}
	out, err = c.Encode(ctx, avrokit.Long(1500))
	if err != nil || out != "1970-01-01T00:00:01.5Z" {
		t.Fatalf("encode long = %q, %v", out, err)
	}
}

func TestDateRFC3339_Invalid(t *testing.T) {
	c := codec.DateRFC3339()
	ctx := context.Background()
	if _, err := c.Decode(ctx, "not a time"); err == nil {
		t.Fatalf("expected decode error")
	}
	if _, err := c.Encode(ctx, avrokit.String("x")); err == nil {
		t.Fatalf("expected encode error")
	}
}
