package refs

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/labki-org/ontoguard/internal/ontology"
)

func TestValuesScalar(t *testing.T) {
	f := Field{Name: "parent_property", Target: ontology.TypeProperty, Shape: Scalar}

	assert.Equal(t, []string{"base_prop"}, f.Values(map[string]any{"parent_property": "base_prop"}))
	assert.Nil(t, f.Values(map[string]any{"parent_property": ""}))
	assert.Nil(t, f.Values(map[string]any{}))
}

func TestValuesList(t *testing.T) {
	f := Field{Name: "parents", Target: ontology.TypeCategory, Shape: List}

	assert.Equal(t, []string{"a", "b"}, f.Values(map[string]any{"parents": []any{"a", "b"}}))
	assert.Nil(t, f.Values(map[string]any{"parents": nil}))
	assert.Nil(t, f.Values(map[string]any{}))
}

func TestTableCoversEveryOwningType(t *testing.T) {
	for _, ty := range []ontology.Type{
		ontology.TypeCategory, ontology.TypeSubobject, ontology.TypeProperty,
		ontology.TypeModule, ontology.TypeBundle,
	} {
		assert.NotEmpty(t, Table[ty], "type %s should declare reference fields", ty)
	}
}
