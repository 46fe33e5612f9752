package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/labki-org/ontoguard/internal/testutil"
)

const categorySchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["id", "label"],
  "properties": {
    "id": {"type": "string"},
    "label": {"type": "string"}
  }
}`

func TestValidateFileMissingSchema(t *testing.T) {
	fs := testutil.NewMemFileStore()
	fs.Files["categories/animal.json"] = []byte(`{"id":"animal","label":"Animal"}`)

	v := NewSchemaValidator(fs, ".")
	diags := v.Validate([]string{"categories/animal.json"})
	require.Len(t, diags, 1)
	assert.Equal(t, CodeNoSchema, diags[0].Code)
}

func TestValidateFilePassesAgainstSchema(t *testing.T) {
	fs := testutil.NewMemFileStore()
	fs.Files["categories/_schema.json"] = []byte(categorySchema)
	fs.Files["categories/animal.json"] = []byte(`{"id":"animal","label":"Animal"}`)

	v := NewSchemaValidator(fs, ".")
	diags := v.Validate([]string{"categories/animal.json"})
	assert.Empty(t, diags)
}

func TestValidateFileSchemaViolation(t *testing.T) {
	fs := testutil.NewMemFileStore()
	fs.Files["categories/_schema.json"] = []byte(categorySchema)
	fs.Files["categories/animal.json"] = []byte(`{"id":"animal"}`)

	v := NewSchemaValidator(fs, ".")
	diags := v.Validate([]string{"categories/animal.json"})
	require.Len(t, diags, 1)
	assert.Equal(t, CodeSchema, diags[0].Code)
}

func TestValidateFileIDMismatch(t *testing.T) {
	fs := testutil.NewMemFileStore()
	fs.Files["categories/_schema.json"] = []byte(categorySchema)
	fs.Files["categories/animal.json"] = []byte(`{"id":"wrong-id","label":"Animal"}`)

	v := NewSchemaValidator(fs, ".")
	diags := v.Validate([]string{"categories/animal.json"})
	require.Len(t, diags, 1)
	assert.Equal(t, CodeIDMismatch, diags[0].Code)
}

func TestResolveSchemaWalksUpward(t *testing.T) {
	fs := testutil.NewMemFileStore()
	fs.Files["categories/_schema.json"] = []byte(categorySchema)
	fs.Files["categories/nested/leaf.json"] = []byte(`{"id":"nested/leaf","label":"Leaf"}`)

	v := NewSchemaValidator(fs, ".")
	diags := v.Validate([]string{"categories/nested/leaf.json"})
	assert.Empty(t, diags)
}
