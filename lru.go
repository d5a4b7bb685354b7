package avrokit

import "sync"

const (
	lruAccessTime = "access_time"
	lruCount      = "count"
)

var lruEntrySchema = sync.OnceValue(func() *RecordSchema {
	return MustRecordSchema(Name{Name: "lru_value"}, []*Field{
		{Name: lruAccessTime, Type: LongSchema, Default: Long(0), HasDefault: true},
		{Name: lruCount, Type: LongSchema, Default: Long(0), HasDefault: true},
	})
})

// LruEntrySchema returns the built-in record schema every LRU-set entry is
// resolved against. The schema is shared and must not be modified.
func LruEntrySchema() *RecordSchema { return lruEntrySchema() }

func resolveLruValue(v Value) (LruValue, error) {
	r, err := resolve(v, lruEntrySchema(), false)
	if err != nil {
		return LruValue{}, err
	}
	var out LruValue
	for _, f := range r.fields {
		n, _ := f.Value.AsLong()
		switch f.Name {
		case lruAccessTime:
			out.AccessTime = n
		case lruCount:
			out.Count = n
		}
	}
	return out, nil
}
