package codec

import (
	"context"
	"time"

	avrokit "github.com/reoring/avrokit"
)

// DateRFC3339 returns a Codec that converts between timestamp text and Date
// values. Decode accepts everything Date resolution accepts (RFC 3339, then
// RFC 2822); Encode emits canonical UTC RFC 3339.
func DateRFC3339() avrokit.Codec[string, avrokit.Value] {
	return rfc3339Codec{}
}

type rfc3339Codec struct{}

func (rfc3339Codec) Decode(ctx context.Context, a string) (avrokit.Value, error) {
	return avrokit.String(a).Resolve(avrokit.DateSchema)
}

func (rfc3339Codec) Encode(ctx context.Context, b avrokit.Value) (string, error) {
	// Long millis are accepted the same way resolution accepts them.
	d, err := b.Resolve(avrokit.DateSchema)
	if err != nil {
		return "", err
	}
	ms, _ := d.AsDate()
	return formatRFC3339Canonical(time.UnixMilli(ms)), nil
}

func formatRFC3339Canonical(t time.Time) string {
	// Normalize to UTC and format using RFC3339Nano (Go trims trailing zeros)
	return t.UTC().Format(time.RFC3339Nano)
}
