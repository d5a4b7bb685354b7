package avrokit_test

import (
	"math"
	"testing"

	avrokit "github.com/reoring/avrokit"
)

func TestJSON_Projection(t *testing.T) {
	v := avrokit.Record([]avrokit.RecordEntry{
		{Name: "b", Value: avrokit.Bytes([]byte{1, 2})},
		{Name: "e", Value: avrokit.Enum(1, "y")},
		{Name: "f", Value: avrokit.Fixed(1, []byte{9})},
		{Name: "l", Value: avrokit.LruSet(map[string]avrokit.LruValue{"k": {AccessTime: 3, Count: 4}}, avrokit.LruLimit{})},
		{Name: "n", Value: avrokit.None()},
		{Name: "o", Value: avrokit.Some(avrokit.Int(7))},
		{Name: "s", Value: avrokit.Set("z", "a")},
		{Name: "u", Value: avrokit.Union(avrokit.String("x"))},
		{Name: "x", Value: avrokit.Double(math.NaN())},
	})
	out, err := v.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"b":[1,2],"e":"y","f":[9],"l":{"k":{"access_time":3,"count":4}},"n":null,"o":7,"s":["a","z"],"u":"x","x":null}`
	if string(out) != want {
		t.Fatalf("json = %s\nwant   %s", out, want)
	}
}

func TestJSON_Scalars(t *testing.T) {
	if avrokit.Null().JSON() != nil {
		t.Fatalf("null should project to nil")
	}
	if avrokit.Date(5).JSON() != int64(5) {
		t.Fatalf("date should project to millis")
	}
	if avrokit.Int(5).JSON() != int32(5) {
		t.Fatalf("int should project to int32")
	}
	arr, ok := avrokit.Array([]avrokit.Value{avrokit.Boolean(true)}).JSON().([]any)
	if !ok || arr[0] != true {
		t.Fatalf("array projection = %v", arr)
	}
}
