package avrokit_test

import (
	"testing"

	avrokit "github.com/reoring/avrokit"
)

func BenchmarkResolve_Record(b *testing.B) {
	s := avrokit.MustRecordSchema(avrokit.Name{Name: "event"}, []*avrokit.Field{
		{Name: "id", Type: avrokit.LongSchema},
		{Name: "kind", Type: &avrokit.EnumSchema{Name: avrokit.Name{Name: "kind"}, Symbols: []string{"click", "view"}}},
		{Name: "tags", Type: avrokit.SetSchema, Index: true},
		{Name: "at", Type: avrokit.DateSchema, Default: int64(0), HasDefault: true},
	})
	src, err := avrokit.FromJSONBytes([]byte(`{"id": 7, "kind": "view", "tags": ["a", "b", "c"]}`))
	if err != nil {
		b.Fatalf("json: %v", err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := src.Resolve(s); err != nil {
			b.Fatalf("resolve: %v", err)
		}
	}
}
