package avrokit

// Package avrokit provides:
//
// - A tagged Value model for Avro data plus the date, set, LRU-set and optional extension types
// - Schema resolution (Resolve) reconciling a writer-shaped Value with a reader Schema
// - A coercion-free Validator and a JSON projection of Values
// - A conversion bridge from Go values and JSON documents (FromNative, FromJSON)
//
// Design policy:
// - Keep the Value model, schema nodes and resolution in the root package.
// - Parse schema text under avroschema/, put wire codecs under codec/, and the CLI under cmd/avrokit.
// - Errors from resolution are *ResolutionError carrying a JSON Pointer path.
//
// Typical usage:
//
//  s, err := avroschema.Parse(text, avroschema.Options{})
//  v, err := avrokit.FromJSONBytes(data)
//  rv, err := v.Resolve(s.Tree())
//  ok := rv.Validate(s.Tree())
//
//  out, err := codec.Binary(s).Encode(ctx, rv)
