package ontology

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntityCategoryDecode(t *testing.T) {
	e := &Entity{
		Type:   TypeCategory,
		Path:   "categories/animal.json",
		Header: Header{ID: "animal", Label: "Animal"},
		Raw: map[string]any{
			"id":                  "animal",
			"label":               "Animal",
			"parents":             []any{"organism"},
			"required_properties": []any{"name"},
		},
	}

	c, err := e.Category()
	require.NoError(t, err)
	assert.Equal(t, []string{"organism"}, c.Parents)
	assert.Equal(t, []string{"name"}, c.RequiredProperties)
}

func TestEntityModuleContents(t *testing.T) {
	m := Module{
		Categories: []string{"animal"},
		Properties: []string{"name"},
	}
	contents := m.Contents()
	assert.Equal(t, []string{"animal"}, contents[TypeCategory])
	assert.Equal(t, []string{"name"}, contents[TypeProperty])
	assert.Nil(t, contents[TypeSubobject])
}

func TestEntityCleanIsACopy(t *testing.T) {
	e := &Entity{Raw: map[string]any{"id": "x", "extra": "keep-me"}}
	clean := e.Clean()
	assert.Equal(t, e.Raw, clean)

	clean["extra"] = "mutated"
	assert.Equal(t, "keep-me", e.Raw["extra"], "Clean must return an independent copy")
}
