package avrokit

import (
	"fmt"
	"strings"
)

// Schema is a node of a schema tree. Trees are built once by the schema
// system and treated as read-only by everything in this package, so one tree
// may be shared by concurrent resolutions.
type Schema interface {
	Kind() Kind
	String() string
}

// PrimitiveSchema is a schema without parameters: null, boolean, int, long,
// float, double, bytes, string, date and set.
type PrimitiveSchema struct {
	kind Kind
}

var (
	NullSchema    Schema = &PrimitiveSchema{kind: KindNull}
	BooleanSchema Schema = &PrimitiveSchema{kind: KindBoolean}
	IntSchema     Schema = &PrimitiveSchema{kind: KindInt}
	LongSchema    Schema = &PrimitiveSchema{kind: KindLong}
	FloatSchema   Schema = &PrimitiveSchema{kind: KindFloat}
	DoubleSchema  Schema = &PrimitiveSchema{kind: KindDouble}
	BytesSchema   Schema = &PrimitiveSchema{kind: KindBytes}
	StringSchema  Schema = &PrimitiveSchema{kind: KindString}
	DateSchema    Schema = &PrimitiveSchema{kind: KindDate}
	SetSchema     Schema = &PrimitiveSchema{kind: KindSet}
)

// Primitive returns the shared schema for a parameterless kind.
func Primitive(k Kind) (Schema, bool) {
	switch k {
	case KindNull:
		return NullSchema, true
	case KindBoolean:
		return BooleanSchema, true
	case KindInt:
		return IntSchema, true
	case KindLong:
		return LongSchema, true
	case KindFloat:
		return FloatSchema, true
	case KindDouble:
		return DoubleSchema, true
	case KindBytes:
		return BytesSchema, true
	case KindString:
		return StringSchema, true
	case KindDate:
		return DateSchema, true
	case KindSet:
		return SetSchema, true
	}
	return nil, false
}

func (s *PrimitiveSchema) Kind() Kind     { return s.kind }
func (s *PrimitiveSchema) String() string { return s.kind.String() }

// Name is the full name of a named type (record, enum, fixed).
type Name struct {
	Name      string
	Namespace string
}

// FullName joins namespace and name with a dot.
func (n Name) FullName() string {
	if n.Namespace == "" {
		return n.Name
	}
	return n.Namespace + "." + n.Name
}

// FixedSchema is a fixed-size byte sequence.
type FixedSchema struct {
	Name Name
	Size int
}

func (s *FixedSchema) Kind() Kind { return KindFixed }
func (s *FixedSchema) String() string {
	return fmt.Sprintf("fixed %s(%d)", s.Name.FullName(), s.Size)
}

// EnumSchema is a closed set of symbols.
type EnumSchema struct {
	Name    Name
	Doc     string
	Symbols []string
}

func (s *EnumSchema) Kind() Kind { return KindEnum }
func (s *EnumSchema) String() string {
	return fmt.Sprintf("enum %s%q", s.Name.FullName(), s.Symbols)
}

// IndexOf returns the position of symbol, or -1.
func (s *EnumSchema) IndexOf(symbol string) int {
	for i, sym := range s.Symbols {
		if sym == symbol {
			return i
		}
	}
	return -1
}

// ArraySchema is a sequence of Items.
type ArraySchema struct {
	Items Schema
}

func (s *ArraySchema) Kind() Kind     { return KindArray }
func (s *ArraySchema) String() string { return "array<" + s.Items.String() + ">" }

// MapSchema is a string-keyed map of Values.
type MapSchema struct {
	Values Schema
}

func (s *MapSchema) Kind() Kind     { return KindMap }
func (s *MapSchema) String() string { return "map<" + s.Values.String() + ">" }

// LruSetSchema is a string set annotated with per-key access metadata.
type LruSetSchema struct {
	Limit LruLimit
}

func (s *LruSetSchema) Kind() Kind     { return KindLruSet }
func (s *LruSetSchema) String() string { return "lru_set" }

// OptionalSchema holds zero or one value of Inner.
type OptionalSchema struct {
	Inner Schema
}

func (s *OptionalSchema) Kind() Kind     { return KindOptional }
func (s *OptionalSchema) String() string { return "optional<" + s.Inner.String() + ">" }

// UnionSchema is an ordered list of branches. Build it with NewUnionSchema.
type UnionSchema struct {
	branches []Schema
}

// NewUnionSchema validates and returns a union of the given branches. A union
// may not directly contain another union, and may hold at most one branch of
// each unnamed kind and at most one named type per full name.
func NewUnionSchema(branches ...Schema) (*UnionSchema, error) {
	seen := make(map[string]struct{}, len(branches))
	for _, b := range branches {
		if b == nil {
			return nil, fmt.Errorf("avrokit: nil union branch")
		}
		if b.Kind() == KindUnion {
			return nil, fmt.Errorf("avrokit: unions may not directly contain a union")
		}
		key := unionKey(b)
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("avrokit: duplicate union branch %s", key)
		}
		seen[key] = struct{}{}
	}
	return &UnionSchema{branches: branches}, nil
}

// MustUnionSchema is like NewUnionSchema but panics on error.
func MustUnionSchema(branches ...Schema) *UnionSchema {
	u, err := NewUnionSchema(branches...)
	if err != nil {
		panic(err)
	}
	return u
}

func unionKey(s Schema) string {
	switch t := s.(type) {
	case *RecordSchema:
		return "record:" + t.Name.FullName()
	case *EnumSchema:
		return "enum:" + t.Name.FullName()
	case *FixedSchema:
		return "fixed:" + t.Name.FullName()
	}
	return s.Kind().String()
}

func (s *UnionSchema) Kind() Kind { return KindUnion }
func (s *UnionSchema) String() string {
	parts := make([]string, len(s.branches))
	for i, b := range s.branches {
		parts[i] = b.String()
	}
	return "union[" + strings.Join(parts, ", ") + "]"
}

// Branches returns the branches in declaration order. Callers must not
// modify the returned slice.
func (s *UnionSchema) Branches() []Schema { return s.branches }

// FindBranch returns the first branch, in declaration order, that v validates
// against.
func (s *UnionSchema) FindBranch(v Value) (int, Schema, bool) {
	for i, b := range s.branches {
		if v.Validate(b) {
			return i, b, true
		}
	}
	return -1, nil, false
}

// FieldOrder is the sort order of a record field.
type FieldOrder uint8

const (
	OrderAscending FieldOrder = iota
	OrderDescending
	OrderIgnore
)

// Field is one field of a record schema.
type Field struct {
	Name string
	Doc  string
	Type Schema
	// Default is used when the field is absent from the source. It may be an
	// avrokit Value or any value accepted by FromNative.
	Default    any
	HasDefault bool
	Order      FieldOrder
	// Position is the field's index in its record, set by NewRecordSchema.
	Position int
	// Index makes resolution annotate this field's value for indexed encoding.
	Index bool
}

// RecordSchema is an ordered list of named fields. Build it with
// NewRecordSchema so the name lookup is populated.
type RecordSchema struct {
	Name   Name
	Doc    string
	Fields []*Field
	// Index makes resolution annotate the record node itself.
	Index bool

	lookup map[string]int
}

// NewRecordSchema returns a record schema, assigning field positions and
// building the name lookup. Field names must be unique.
func NewRecordSchema(name Name, fields []*Field) (*RecordSchema, error) {
	lookup := make(map[string]int, len(fields))
	for i, f := range fields {
		if f == nil || f.Type == nil {
			return nil, fmt.Errorf("avrokit: record %s: field %d has no type", name.FullName(), i)
		}
		if _, dup := lookup[f.Name]; dup {
			return nil, fmt.Errorf("avrokit: record %s: duplicate field %q", name.FullName(), f.Name)
		}
		f.Position = i
		lookup[f.Name] = i
	}
	return &RecordSchema{Name: name, Fields: fields, lookup: lookup}, nil
}

// MustRecordSchema is like NewRecordSchema but panics on error.
func MustRecordSchema(name Name, fields []*Field) *RecordSchema {
	r, err := NewRecordSchema(name, fields)
	if err != nil {
		panic(err)
	}
	return r
}

func (s *RecordSchema) Kind() Kind     { return KindRecord }
func (s *RecordSchema) String() string { return "record " + s.Name.FullName() }

// Lookup returns the name to position index of the fields. The map is shared
// with the schema and must not be modified.
func (s *RecordSchema) Lookup() map[string]int { return s.lookup }

// FieldByName returns the named field.
func (s *RecordSchema) FieldByName(name string) (*Field, bool) {
	i, ok := s.lookup[name]
	if !ok {
		return nil, false
	}
	return s.Fields[i], true
}
