package codec_test

import (
	"context"
	"testing"

	avrokit "github.com/reoring/avrokit"
	"github.com/reoring/avrokit/avroschema"
	"github.com/reoring/avrokit/codec"
)

const eventSchema = `{
  "type": "record", "name": "event", "namespace": "test", "index": true,
  "fields": [
    {"name": "id", "type": "int"},
    {"name": "name", "type": "string", "index": true},
    {"name": "color", "type": {"type": "enum", "name": "color", "symbols": ["red", "green"]}},
    {"name": "hash", "type": {"type": "fixed", "name": "hash", "size": 2}},
    {"name": "tags", "type": {"type": "array", "items": "string", "avrokit.kind": "set"}},
    {"name": "at", "type": {"type": "long", "logicalType": "timestamp-millis"}},
    {"name": "seen", "type": {"type": "map", "avrokit.kind": "lru_set", "avrokit.limit": {"max_entries": 10},
      "values": {"type": "record", "name": "lru_value", "fields": [
        {"name": "access_time", "type": "long"}, {"name": "count", "type": "long"}]}}},
    {"name": "note", "type": ["null", "string"], "avrokit.kind": "optional", "default": null},
    {"name": "either", "type": ["null", "long", "string"]}
  ]
}`

func mustSchema(t *testing.T, text string) *avroschema.Schema {
	t.Helper()
	s, err := avroschema.Parse(text, avroschema.Options{})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return s
}

func TestBinary_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := mustSchema(t, eventSchema)
	c := codec.Binary(s)

	in := avrokit.Map(map[string]avrokit.Value{
		"id":     avrokit.Long(7),
		"name":   avrokit.String("alpha"),
		"color":  avrokit.String("green"),
		"hash":   avrokit.Fixed(2, []byte{1, 2}),
		"tags":   avrokit.Array([]avrokit.Value{avrokit.String("b"), avrokit.String("a")}),
		"at":     avrokit.Long(1500),
		"seen":   avrokit.LruSet(map[string]avrokit.LruValue{"k": {AccessTime: 3, Count: 4}}, avrokit.LruLimit{}),
		"note":   avrokit.String("hi"),
		"either": avrokit.String("x"),
	})

	data, err := c.Encode(ctx, in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	out, err := c.Decode(ctx, data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !out.Validate(s.Tree()) {
		t.Fatalf("decoded value does not validate: %s", out)
	}
	if !out.Indexed() {
		t.Fatalf("record should carry the index annotation")
	}

	if v, _ := out.Field("id"); v.String() != "Int(7)" {
		t.Fatalf("id = %s", v)
	}
	if v, _ := out.Field("name"); !v.Indexed() {
		t.Fatalf("name should be indexed: %v", v.Setting())
	}
	if v, _ := out.Field("color"); v.String() != `Enum(1, "green")` {
		t.Fatalf("color = %s", v)
	}
	if v, _ := out.Field("hash"); v.String() != "Fixed(2, [1 2])" {
		t.Fatalf("hash = %s", v)
	}
	if v, _ := out.Field("tags"); !v.Contains("a") || !v.Contains("b") || v.Kind() != avrokit.KindSet {
		t.Fatalf("tags = %s", v)
	}
	if v, _ := out.Field("at"); v.String() != avrokit.Date(1500).String() {
		t.Fatalf("at = %s", v)
	}
	seen, _ := out.Field("seen")
	entries, limit, ok := seen.AsLruSet()
	if !ok || entries["k"] != (avrokit.LruValue{AccessTime: 3, Count: 4}) || limit.MaxEntries != 10 {
		t.Fatalf("seen = %s", seen)
	}
	if v, _ := out.Field("note"); v.String() != `Some(String("hi"))` {
		t.Fatalf("note = %s", v)
	}
	either, _ := out.Field("either")
	if inner, ok := either.AsUnion(); !ok || inner.String() != `String("x")` {
		t.Fatalf("either = %s", either)
	}
}

func TestBinary_AbsentOptionalAndNullBranch(t *testing.T) {
	ctx := context.Background()
	s := mustSchema(t, `{"type": "record", "name": "r", "fields": [
	  {"name": "note", "type": ["null", "string"], "avrokit.kind": "optional", "default": null},
	  {"name": "either", "type": ["null", "long"]}
	]}`)
	c := codec.Binary(s)

	data, err := c.Encode(ctx, avrokit.Map(map[string]avrokit.Value{"either": avrokit.Null()}))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	out, err := c.Decode(ctx, data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if v, _ := out.Field("note"); v.String() != "None" {
		t.Fatalf("note = %s", v)
	}
	either, _ := out.Field("either")
	if inner, ok := either.AsUnion(); !ok || !inner.IsNull() {
		t.Fatalf("either = %s", either)
	}
}

func TestResolving_WriterToReader(t *testing.T) {
	ctx := context.Background()
	writer := mustSchema(t, `{"type": "record", "name": "r", "fields": [
	  {"name": "a", "type": "int"},
	  {"name": "gone", "type": "string"}
	]}`)
	reader := mustSchema(t, `{"type": "record", "name": "r", "fields": [
	  {"name": "a", "type": "long"},
	  {"name": "b", "type": "string", "default": "fallback"}
	]}`)

	data, err := codec.Binary(writer).Encode(ctx, avrokit.Map(map[string]avrokit.Value{
		"a":    avrokit.Int(5),
		"gone": avrokit.String("x"),
	}))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	c := codec.Resolving(writer, reader)
	out, err := c.Decode(ctx, data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if v, _ := out.Field("a"); v.String() != "Long(5)" {
		t.Fatalf("a = %s", v)
	}
	if v, _ := out.Field("b"); v.String() != `String("fallback")` {
		t.Fatalf("b = %s", v)
	}
	if _, ok := out.Field("gone"); ok {
		t.Fatalf("writer-only field should be dropped")
	}
}

func TestBinary_EncodeErrorCarriesPath(t *testing.T) {
	ctx := context.Background()
	s := mustSchema(t, `{"type": "record", "name": "r", "fields": [
	  {"name": "xs", "type": {"type": "array", "items": "int"}}
	]}`)
	_, err := codec.Binary(s).Encode(ctx, avrokit.Map(map[string]avrokit.Value{
		"xs": avrokit.Array([]avrokit.Value{avrokit.Int(1), avrokit.String("no")}),
	}))
	re, ok := avrokit.AsResolutionError(err)
	if !ok {
		t.Fatalf("expected ResolutionError, got %v", err)
	}
	if re.Path != "/xs/1" {
		t.Fatalf("path = %q", re.Path)
	}
}

func TestBinary_DecodeTruncated(t *testing.T) {
	s := mustSchema(t, `"long"`)
	if _, err := codec.Binary(s).Decode(context.Background(), nil); err == nil {
		t.Fatalf("expected error for empty input")
	}
}

func TestResolving_NullableUnionIntoOptional(t *testing.T) {
	ctx := context.Background()
	writer := mustSchema(t, `{"type": "record", "name": "r", "fields": [
	  {"name": "note", "type": ["null", "string"]},
	  {"name": "items", "type": {"type": "array", "items": {"type": "record", "name": "item", "fields": [
	    {"name": "tag", "type": ["null", "string"]}]}}}
	]}`)
	reader := mustSchema(t, `{"type": "record", "name": "r", "fields": [
	  {"name": "note", "type": ["null", "string"], "avrokit.kind": "optional", "default": null},
	  {"name": "items", "type": {"type": "array", "items": {"type": "record", "name": "item", "fields": [
	    {"name": "tag", "type": ["null", "string"], "avrokit.kind": "optional", "default": null}]}}}
	]}`)

	data, err := codec.Binary(writer).Encode(ctx, avrokit.Map(map[string]avrokit.Value{
		"note": avrokit.Null(),
		"items": avrokit.Array([]avrokit.Value{
			avrokit.Map(map[string]avrokit.Value{"tag": avrokit.String("a")}),
			avrokit.Map(map[string]avrokit.Value{"tag": avrokit.Null()}),
		}),
	}))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	out, err := codec.Resolving(writer, reader).Decode(ctx, data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if v, _ := out.Field("note"); v.String() != "None" {
		t.Fatalf("note = %s", v)
	}
	items, _ := out.Field("items")
	list, _ := items.AsArray()
	if len(list) != 2 {
		t.Fatalf("items = %s", items)
	}
	if v, _ := list[0].Field("tag"); v.String() != `Some(String("a"))` {
		t.Fatalf("items[0].tag = %s", v)
	}
	if v, _ := list[1].Field("tag"); v.String() != "None" {
		t.Fatalf("items[1].tag = %s", v)
	}
}

func TestBinary_NullSchemas(t *testing.T) {
	ctx := context.Background()
	s := mustSchema(t, `"null"`)
	data, err := codec.Binary(s).Encode(ctx, avrokit.Null())
	if err != nil || len(data) != 0 {
		t.Fatalf("encode null = %v, %v", data, err)
	}

	rec := mustSchema(t, `{"type": "record", "name": "r", "fields": [
	  {"name": "nothing", "type": "null"},
	  {"name": "n", "type": "long"}
	]}`)
	c := codec.Binary(rec)
	data, err = c.Encode(ctx, avrokit.Map(map[string]avrokit.Value{
		"nothing": avrokit.Null(),
		"n":       avrokit.Long(3),
	}))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	out, err := c.Decode(ctx, data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if v, _ := out.Field("nothing"); !v.IsNull() {
		t.Fatalf("nothing = %s", v)
	}
}
