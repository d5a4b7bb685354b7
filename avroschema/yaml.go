package avroschema

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// ParseYAML parses the first non-empty document of a (possibly multi-document)
// YAML stream as an Avro schema written in YAML syntax.
func ParseYAML(data []byte, opts Options) (*Schema, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	for {
		var node any
		if err := dec.Decode(&node); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("avroschema: yaml: %w", err)
		}
		if node == nil {
			continue
		}
		text, err := json.Marshal(yamlNormalizeValue(node))
		if err != nil {
			return nil, fmt.Errorf("avroschema: yaml: %w", err)
		}
		return Parse(string(text), opts)
	}
	return nil, errors.New("avroschema: yaml: no schema document found")
}

// yamlAnyToStringMap converts YAML-decoded maps (which may be map[any]any)
// into JSON-like map[string]any recursively. Non-string keys are dropped.
func yamlAnyToStringMap(v any) map[string]any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = yamlNormalizeValue(vv)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			ks, ok := k.(string)
			if !ok {
				continue
			}
			out[ks] = yamlNormalizeValue(vv)
		}
		return out
	default:
		return nil
	}
}

func yamlNormalizeValue(v any) any {
	switch t := v.(type) {
	case map[string]any, map[any]any:
		return yamlAnyToStringMap(t)
	case []any:
		arr := make([]any, len(t))
		for i := range t {
			arr[i] = yamlNormalizeValue(t[i])
		}
		return arr
	default:
		return v
	}
}
