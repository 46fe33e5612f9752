package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/labki-org/ontoguard/internal/ontology"
	"github.com/labki-org/ontoguard/internal/testutil"
)

func TestBuildSkipsUnparsableAndMissingID(t *testing.T) {
	fs := testutil.NewMemFileStore()
	fs.Files["categories/animal.json"] = []byte(`{"id":"animal","label":"Animal"}`)
	fs.Files["categories/broken.json"] = []byte(`not json`)
	fs.Files["categories/no-id.json"] = []byte(`{"label":"no id"}`)

	idx, paths, err := Build(fs, ".")
	require.NoError(t, err)

	e, ok := idx.Get(ontology.TypeCategory, "animal")
	require.True(t, ok)
	assert.Equal(t, "categories/animal.json", e.Path)

	_, ok = idx.Get(ontology.TypeCategory, "broken")
	assert.False(t, ok)
	assert.Len(t, idx.All(), 1)

	assert.ElementsMatch(t, []string{"categories/animal.json", "categories/broken.json", "categories/no-id.json"}, paths,
		"the discovered path list must still include files that failed to index, so the schema validator can report them")
}

func TestBuildOrdersByLexicographicPath(t *testing.T) {
	fs := testutil.NewMemFileStore()
	fs.Files["categories/zebra.json"] = []byte(`{"id":"zebra"}`)
	fs.Files["categories/animal.json"] = []byte(`{"id":"animal"}`)

	idx, _, err := Build(fs, ".")
	require.NoError(t, err)

	var ids []string
	for _, e := range idx.All() {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{"animal", "zebra"}, ids)
}

func TestExpectedID(t *testing.T) {
	assert.Equal(t, "animal", ExpectedID(ontology.TypeCategory, "categories/animal.json"))
	assert.Equal(t, "nested/leaf", ExpectedID(ontology.TypeCategory, "categories/nested/leaf.json"))
}

func TestAllOfAndIDs(t *testing.T) {
	fs := testutil.NewMemFileStore()
	fs.Files["categories/animal.json"] = []byte(`{"id":"animal"}`)
	fs.Files["properties/name.json"] = []byte(`{"id":"name"}`)

	idx, _, err := Build(fs, ".")
	require.NoError(t, err)

	assert.Len(t, idx.AllOf(ontology.TypeCategory), 1)
	assert.Equal(t, []string{"animal"}, idx.IDs(ontology.TypeCategory))
	assert.Equal(t, []string{"name"}, idx.IDs(ontology.TypeProperty))
}
