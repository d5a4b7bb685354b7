package avrokit_test

import (
	"errors"
	"testing"

	avrokit "github.com/reoring/avrokit"
)

func TestNewRecord_PutAndValidate(t *testing.T) {
	s := avrokit.MustRecordSchema(avrokit.Name{Name: "r"}, []*avrokit.Field{
		{Name: "a", Type: avrokit.LongSchema},
		{Name: "b", Type: avrokit.StringSchema},
	})
	r, err := avrokit.NewRecord(s)
	if err != nil {
		t.Fatalf("new record: %v", err)
	}
	if r.Value().Validate(s) {
		t.Fatalf("unset fields are Null and should not validate")
	}
	r.Put("a", int64(42))
	r.Put("b", "foo")
	r.Put("zzz", 1) // ignored
	v := r.Value()
	if !v.Validate(s) {
		t.Fatalf("got %s, should validate", v)
	}
	if v.Len() != 2 {
		t.Fatalf("unknown field should be ignored: %s", v)
	}
}

func TestNewRecord_NotRecord(t *testing.T) {
	if _, err := avrokit.NewRecord(avrokit.IntSchema); !errors.Is(err, avrokit.ErrNotRecord) {
		t.Fatalf("err = %v, want ErrNotRecord", err)
	}
}

func TestSchema_Constructors(t *testing.T) {
	if _, err := avrokit.NewUnionSchema(avrokit.IntSchema, avrokit.IntSchema); err == nil {
		t.Fatalf("duplicate unnamed branch should fail")
	}
	inner := avrokit.MustUnionSchema(avrokit.NullSchema, avrokit.IntSchema)
	if _, err := avrokit.NewUnionSchema(avrokit.NullSchema, inner); err == nil {
		t.Fatalf("nested union should fail")
	}
	a := &avrokit.FixedSchema{Name: avrokit.Name{Name: "a"}, Size: 1}
	b := &avrokit.FixedSchema{Name: avrokit.Name{Name: "b"}, Size: 1}
	if _, err := avrokit.NewUnionSchema(a, b); err != nil {
		t.Fatalf("distinct named fixed branches should be accepted: %v", err)
	}
	if _, err := avrokit.NewUnionSchema(a, a); err == nil {
		t.Fatalf("duplicate named branch should fail")
	}
	if _, err := avrokit.NewRecordSchema(avrokit.Name{Name: "r"}, []*avrokit.Field{
		{Name: "a", Type: avrokit.IntSchema},
		{Name: "a", Type: avrokit.IntSchema},
	}); err == nil {
		t.Fatalf("duplicate field should fail")
	}
	r := avrokit.MustRecordSchema(avrokit.Name{Name: "r", Namespace: "ns"}, []*avrokit.Field{
		{Name: "a", Type: avrokit.IntSchema},
		{Name: "b", Type: avrokit.IntSchema},
	})
	if f, ok := r.FieldByName("b"); !ok || f.Position != 1 {
		t.Fatalf("lookup b = %+v", f)
	}
	if r.String() != "record ns.r" {
		t.Fatalf("String() = %q", r.String())
	}
	if avrokit.KindLruSet.String() != "lru_set" {
		t.Fatalf("kind name = %q", avrokit.KindLruSet.String())
	}
}

func TestValue_String(t *testing.T) {
	cases := map[string]avrokit.Value{
		`Int(42)`:                      avrokit.Int(42),
		`String("x")`:                  avrokit.String("x"),
		`Union(Null)`:                  avrokit.Union(avrokit.Null()),
		`Array([Long(1), Float(1.5)])`: avrokit.Array([]avrokit.Value{avrokit.Long(1), avrokit.Float(1.5)}),
		`Record({a: Some(Date(3))})`:   avrokit.Record([]avrokit.RecordEntry{{Name: "a", Value: avrokit.Some(avrokit.Date(3))}}),
		`Set(["a" "b"])`:               avrokit.Set("b", "a"),
		`Map({"k": Enum(0, "x")})`:     avrokit.Map(map[string]avrokit.Value{"k": avrokit.Enum(0, "x")}),
		`Fixed(2, [1 2])`:              avrokit.Fixed(2, []byte{1, 2}),
		`None`:                         avrokit.None(),
	}
	for want, v := range cases {
		if got := v.String(); got != want {
			t.Fatalf("String() = %q, want %q", got, want)
		}
	}
}
