package avroschema

import (
	"fmt"
	"strconv"
	"time"

	"github.com/hamba/avro/v2"

	avrokit "github.com/reoring/avrokit"
)

// Schema pairs a parsed hamba/avro schema with the avrokit tree compiled from
// it. Both are read-only and safe to share between goroutines.
type Schema struct {
	avro avro.Schema
	tree avrokit.Schema
}

// Avro returns the hamba/avro schema, used for binary encoding.
func (s *Schema) Avro() avro.Schema { return s.avro }

// Tree returns the avrokit schema tree, used for resolution and validation.
func (s *Schema) Tree() avrokit.Schema { return s.tree }

// String returns the canonical form of the schema.
func (s *Schema) String() string { return s.avro.String() }

// Parse parses Avro schema JSON and compiles it. Every call uses a fresh
// name cache, so independent schemas may reuse type names.
func Parse(text string, opts Options) (*Schema, error) {
	hs, err := avro.ParseWithCache(text, opts.Namespace, &avro.SchemaCache{})
	if err != nil {
		return nil, fmt.Errorf("avroschema: parse: %w", err)
	}
	return Compile(hs, opts)
}

// ParseBytes is Parse over a byte slice.
func ParseBytes(data []byte, opts Options) (*Schema, error) { return Parse(string(data), opts) }

// MustParse is like Parse but panics on error.
func MustParse(text string, opts Options) *Schema {
	s, err := Parse(text, opts)
	if err != nil {
		panic(err)
	}
	return s
}

// Compile builds the avrokit tree for an already parsed hamba/avro schema.
func Compile(hs avro.Schema, opts Options) (*Schema, error) {
	if hs == nil {
		return nil, fmt.Errorf("avroschema: nil schema")
	}
	c := &compiler{opts: opts.withDefaults(), named: map[string]avrokit.Schema{}}
	tree, err := c.compile(hs)
	if err != nil {
		return nil, err
	}
	return &Schema{avro: hs, tree: tree}, nil
}

type propSchema interface {
	Prop(name string) any
}

type compiler struct {
	opts  Options
	named map[string]avrokit.Schema // by full name; supports recursive records
}

func (c *compiler) kindOf(p propSchema) string {
	k, _ := p.Prop(c.opts.KindProp).(string)
	return k
}

func (c *compiler) indexOf(p propSchema) bool {
	switch v := p.Prop(c.opts.IndexProp).(type) {
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(v)
		return b
	}
	return false
}

// null parses as *avro.NullSchema and never reaches this table.
var primitiveKinds = map[avro.Type]avrokit.Kind{
	avro.Boolean: avrokit.KindBoolean,
	avro.Int:     avrokit.KindInt,
	avro.Long:    avrokit.KindLong,
	avro.Float:   avrokit.KindFloat,
	avro.Double:  avrokit.KindDouble,
	avro.Bytes:   avrokit.KindBytes,
	avro.String:  avrokit.KindString,
}

func (c *compiler) compile(s avro.Schema) (avrokit.Schema, error) {
	switch t := s.(type) {
	case *avro.NullSchema:
		return avrokit.NullSchema, nil
	case *avro.PrimitiveSchema:
		return c.primitive(t)
	case *avro.RecordSchema:
		return c.record(t)
	case *avro.EnumSchema:
		if got, ok := c.named[t.FullName()]; ok {
			return got, nil
		}
		e := &avrokit.EnumSchema{Name: nameOf(t), Doc: t.Doc(), Symbols: t.Symbols()}
		c.named[t.FullName()] = e
		return e, nil
	case *avro.FixedSchema:
		if got, ok := c.named[t.FullName()]; ok {
			return got, nil
		}
		f := &avrokit.FixedSchema{Name: nameOf(t), Size: t.Size()}
		c.named[t.FullName()] = f
		return f, nil
	case *avro.ArraySchema:
		items, err := c.compile(t.Items())
		if err != nil {
			return nil, err
		}
		switch k := c.kindOf(t); k {
		case "":
			return &avrokit.ArraySchema{Items: items}, nil
		case KindSet:
			if items.Kind() != avrokit.KindString {
				return nil, fmt.Errorf("avroschema: %s requires string items, got %s", KindSet, items)
			}
			return avrokit.SetSchema, nil
		default:
			return nil, fmt.Errorf("avroschema: %s %q is not valid on an array", c.opts.KindProp, k)
		}
	case *avro.MapSchema:
		switch k := c.kindOf(t); k {
		case "":
			values, err := c.compile(t.Values())
			if err != nil {
				return nil, err
			}
			return &avrokit.MapSchema{Values: values}, nil
		case KindLruSet:
			limit, err := c.limitOf(t)
			if err != nil {
				return nil, err
			}
			return &avrokit.LruSetSchema{Limit: limit}, nil
		default:
			return nil, fmt.Errorf("avroschema: %s %q is not valid on a map", c.opts.KindProp, k)
		}
	case *avro.UnionSchema:
		branches := make([]avrokit.Schema, 0, len(t.Types()))
		for _, b := range t.Types() {
			cb, err := c.compile(b)
			if err != nil {
				return nil, err
			}
			branches = append(branches, cb)
		}
		u, err := avrokit.NewUnionSchema(branches...)
		if err != nil {
			return nil, fmt.Errorf("avroschema: %w", err)
		}
		return u, nil
	case *avro.RefSchema:
		return c.compile(t.Schema())
	}
	return nil, fmt.Errorf("avroschema: unsupported schema type %s", s.Type())
}

func (c *compiler) primitive(p *avro.PrimitiveSchema) (avrokit.Schema, error) {
	kind := c.kindOf(p)
	if p.Type() == avro.Long {
		if kind == KindDate || (p.Logical() != nil && p.Logical().Type() == avro.TimestampMillis) {
			return avrokit.DateSchema, nil
		}
	}
	if kind != "" {
		return nil, fmt.Errorf("avroschema: %s %q is not valid on %s", c.opts.KindProp, kind, p.Type())
	}
	k, ok := primitiveKinds[p.Type()]
	if !ok {
		return nil, fmt.Errorf("avroschema: unsupported primitive %s", p.Type())
	}
	s, _ := avrokit.Primitive(k)
	return s, nil
}

func (c *compiler) record(r *avro.RecordSchema) (avrokit.Schema, error) {
	if got, ok := c.named[r.FullName()]; ok {
		return got, nil
	}
	// Register before compiling fields so self references resolve to this node.
	out := &avrokit.RecordSchema{}
	c.named[r.FullName()] = out

	fields := make([]*avrokit.Field, 0, len(r.Fields()))
	for _, f := range r.Fields() {
		ft, err := c.fieldType(f)
		if err != nil {
			return nil, fmt.Errorf("avroschema: %s.%s: %w", r.FullName(), f.Name(), err)
		}
		fields = append(fields, &avrokit.Field{
			Name:       f.Name(),
			Doc:        f.Doc(),
			Type:       ft,
			Default:    f.Default(),
			HasDefault: f.HasDefault(),
			Order:      orderOf(f.Order()),
			Index:      c.indexOf(f),
		})
	}
	built, err := avrokit.NewRecordSchema(nameOf(r), fields)
	if err != nil {
		return nil, fmt.Errorf("avroschema: %w", err)
	}
	*out = *built
	out.Doc = r.Doc()
	out.Index = c.indexOf(r)
	return out, nil
}

// fieldType compiles a field's type, honoring the optional kind that only a
// field can carry: {"type": ["null", T], "avrokit.kind": "optional"}.
func (c *compiler) fieldType(f *avro.Field) (avrokit.Schema, error) {
	k := c.kindOf(f)
	if k == "" {
		return c.compile(f.Type())
	}
	if k != KindOptional {
		return nil, fmt.Errorf("%s %q is not valid on a field", c.opts.KindProp, k)
	}
	u, ok := f.Type().(*avro.UnionSchema)
	if !ok || !u.Nullable() {
		return nil, fmt.Errorf("%s requires a [\"null\", T] union", KindOptional)
	}
	_, typ := u.Indices()
	inner, err := c.compile(u.Types()[typ])
	if err != nil {
		return nil, err
	}
	return &avrokit.OptionalSchema{Inner: inner}, nil
}

func (c *compiler) limitOf(m *avro.MapSchema) (avrokit.LruLimit, error) {
	var limit avrokit.LruLimit
	raw := m.Prop(c.opts.LimitProp)
	if raw == nil {
		return limit, nil
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return limit, fmt.Errorf("avroschema: %s must be an object, got %T", c.opts.LimitProp, raw)
	}
	if v, ok := obj["max_entries"]; ok {
		n, err := toInt64(v)
		if err != nil {
			return limit, fmt.Errorf("avroschema: %s.max_entries: %w", c.opts.LimitProp, err)
		}
		limit.MaxEntries = int(n)
	}
	if v, ok := obj["max_age"]; ok {
		d, err := toDuration(v)
		if err != nil {
			return limit, fmt.Errorf("avroschema: %s.max_age: %w", c.opts.LimitProp, err)
		}
		limit.MaxAge = d
	}
	return limit, nil
}

func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case float64:
		return int64(n), nil
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	case string:
		return strconv.ParseInt(n, 10, 64)
	}
	return 0, fmt.Errorf("expected a number, got %T", v)
}

// toDuration accepts Go duration text ("90s", "1h") or a number of seconds.
func toDuration(v any) (time.Duration, error) {
	if s, ok := v.(string); ok {
		return time.ParseDuration(s)
	}
	n, err := toInt64(v)
	if err != nil {
		return 0, err
	}
	return time.Duration(n) * time.Second, nil
}

func nameOf(n avro.NamedSchema) avrokit.Name {
	return avrokit.Name{Name: n.Name(), Namespace: n.Namespace()}
}

func orderOf(o avro.Order) avrokit.FieldOrder {
	switch o {
	case avro.Desc:
		return avrokit.OrderDescending
	case avro.Ignore:
		return avrokit.OrderIgnore
	}
	return avrokit.OrderAscending
}
