package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectCyclesCategoryInheritance(t *testing.T) {
	idx := buildIndex(t, map[string]string{
		"categories/a.json": `{"id":"a","parents":["b"]}`,
		"categories/b.json": `{"id":"b","parents":["a"]}`,
	})
	diags := DetectCycles(idx)
	require.Len(t, diags, 1)
	assert.Equal(t, CodeCircularCategoryInheritance, diags[0].Code)
}

func TestDetectCyclesModuleDependency(t *testing.T) {
	idx := buildIndex(t, map[string]string{
		"modules/a.json": `{"id":"a","dependencies":["b"]}`,
		"modules/b.json": `{"id":"b","dependencies":["a"]}`,
	})
	diags := DetectCycles(idx)
	require.Len(t, diags, 1)
	assert.Equal(t, CodeCircularModuleDependency, diags[0].Code)
}

func TestDetectCyclesPropertyParentProperty(t *testing.T) {
	idx := buildIndex(t, map[string]string{
		"properties/a.json": `{"id":"a","parent_property":"b"}`,
		"properties/b.json": `{"id":"b","parent_property":"a"}`,
	})
	diags := DetectCycles(idx)
	require.Len(t, diags, 1)
	assert.Equal(t, CodeCircularPropertyParentProperty, diags[0].Code)
}

func TestDetectCyclesNoFalsePositive(t *testing.T) {
	idx := buildIndex(t, map[string]string{
		"categories/animal.json": `{"id":"animal"}`,
		"categories/dog.json":    `{"id":"dog","parents":["animal"]}`,
	})
	assert.Empty(t, DetectCycles(idx))
}
