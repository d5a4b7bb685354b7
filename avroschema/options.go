package avroschema

// Options configures how schema properties map onto the avrokit extension
// types. The zero value uses the defaults below.
type Options struct {
	// Namespace is the enclosing namespace for names without one.
	Namespace string
	// KindProp names the property selecting an extension type
	// ("date", "set", "lru_set", "optional"). Default "avrokit.kind".
	KindProp string
	// IndexProp names the boolean property on records and fields that turns
	// on the index annotation. Default "index".
	IndexProp string
	// LimitProp names the property holding an LRU-set eviction policy
	// ({"max_entries": n, "max_age": "1h"}). Default "avrokit.limit".
	LimitProp string
}

const (
	DefaultKindProp  = "avrokit.kind"
	DefaultIndexProp = "index"
	DefaultLimitProp = "avrokit.limit"
)

// Extension kind values recognized under KindProp.
const (
	KindDate     = "date"
	KindSet      = "set"
	KindLruSet   = "lru_set"
	KindOptional = "optional"
)

func (o Options) withDefaults() Options {
	if o.KindProp == "" {
		o.KindProp = DefaultKindProp
	}
	if o.IndexProp == "" {
		o.IndexProp = DefaultIndexProp
	}
	if o.LimitProp == "" {
		o.LimitProp = DefaultLimitProp
	}
	return o
}
