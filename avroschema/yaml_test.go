package avroschema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	avrokit "github.com/reoring/avrokit"
	"github.com/reoring/avrokit/avroschema"
)

func TestParseYAML_Record(t *testing.T) {
	data := []byte(`
type: record
name: user
namespace: app
fields:
  - name: id
    type: long
  - name: email
    type: string
    index: true
  - name: tags
    type:
      type: array
      items: string
      avrokit.kind: set
`)
	s, err := avroschema.ParseYAML(data, avroschema.Options{})
	require.NoError(t, err)

	rs, ok := s.Tree().(*avrokit.RecordSchema)
	require.True(t, ok)
	assert.Equal(t, "app.user", rs.Name.FullName())
	require.Len(t, rs.Fields, 3)
	assert.True(t, rs.Fields[1].Index)
	assert.Equal(t, avrokit.SetSchema, rs.Fields[2].Type)
}

func TestParseYAML_SkipsEmptyDocuments(t *testing.T) {
	s, err := avroschema.ParseYAML([]byte("---\n---\ntype: string\n"), avroschema.Options{})
	require.NoError(t, err)
	assert.Equal(t, avrokit.StringSchema, s.Tree())
}

func TestParseYAML_Errors(t *testing.T) {
	_, err := avroschema.ParseYAML([]byte(""), avroschema.Options{})
	assert.Error(t, err)

	_, err = avroschema.ParseYAML([]byte("type: [unterminated"), avroschema.Options{})
	assert.Error(t, err)
}
