package cascade

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/labki-org/ontoguard/internal/change"
	"github.com/labki-org/ontoguard/internal/index"
	"github.com/labki-org/ontoguard/internal/ontology"
	"github.com/labki-org/ontoguard/internal/semver"
	"github.com/labki-org/ontoguard/internal/testutil"
)

func buildIndex(t *testing.T, files map[string]string) *index.Index {
	t.Helper()
	fs := testutil.NewMemFileStore()
	for path, content := range files {
		fs.Files[path] = []byte(content)
	}
	idx, _, err := index.Build(fs, ".")
	require.NoError(t, err)
	return idx
}

func TestRunLeafBreakingChangeCascadesToDependentsAndBundle(t *testing.T) {
	idx := buildIndex(t, map[string]string{
		"properties/name.json": `{"id":"name","datatype":"string","version":"1.0.0"}`,
		"modules/lib.json":     `{"id":"lib","properties":["name"],"version":"1.0.0"}`,
		"modules/core.json":    `{"id":"core","dependencies":["lib"],"version":"2.0.0"}`,
		"bundles/pack.json":    `{"id":"pack","modules":["lib","core"],"version":"1.5.0"}`,
	})
	changes := []change.Record{
		{File: "properties/name.json", Type: ontology.TypeProperty, Class: semver.Major},
	}

	result := Run(idx, changes, nil)

	assert.Equal(t, semver.Major, result.ModuleBumps["lib"])
	assert.Equal(t, semver.Major, result.ModuleBumps["core"], "dependent of a major-bumped module must also bump major")
	assert.Equal(t, semver.Major, result.BundleBumps["pack"])
	assert.Equal(t, semver.Major, result.OntologyBump)

	assert.Equal(t, "2.0.0", result.ModuleVersions["lib"].New)
	assert.Equal(t, "3.0.0", result.ModuleVersions["core"].New)
	assert.Equal(t, "2.0.0", result.BundleVersions["pack"].New)
}

func TestRunAdditivePropertyIsMinor(t *testing.T) {
	idx := buildIndex(t, map[string]string{
		"properties/tag.json": `{"id":"tag","datatype":"string","version":"1.0.0"}`,
		"modules/lib.json":    `{"id":"lib","properties":["tag"],"version":"1.0.0"}`,
	})
	changes := []change.Record{
		{File: "properties/tag.json", Type: ontology.TypeProperty, Class: semver.Minor},
	}

	result := Run(idx, changes, nil)
	assert.Equal(t, semver.Minor, result.ModuleBumps["lib"])
	assert.Equal(t, "1.1.0", result.ModuleVersions["lib"].New)
	assert.Equal(t, semver.Minor, result.OntologyBump)
}

func TestRunOverrideDowngradeWarns(t *testing.T) {
	idx := buildIndex(t, map[string]string{
		"properties/name.json": `{"id":"name","datatype":"string","version":"1.0.0"}`,
		"modules/lib.json":     `{"id":"lib","properties":["name"],"version":"1.0.0"}`,
	})
	changes := []change.Record{
		{File: "properties/name.json", Type: ontology.TypeProperty, Class: semver.Major},
	}
	overrides := map[string]semver.BumpClass{"lib": semver.Patch}

	result := Run(idx, changes, overrides)
	assert.Equal(t, semver.Patch, result.ModuleBumps["lib"])
	require.Len(t, result.OverrideWarnings, 1)
	assert.Equal(t, "override-downgrade", string(result.OverrideWarnings[0].Code))
}

func TestRunOrphanChangeDoesNotBumpOntology(t *testing.T) {
	idx := buildIndex(t, map[string]string{
		"categories/stray.json": `{"id":"stray","version":"1.0.0"}`,
	})
	changes := []change.Record{
		{File: "categories/stray.json", Type: ontology.TypeCategory, Class: semver.Major},
	}

	result := Run(idx, changes, nil)
	assert.Empty(t, result.ModuleBumps)
	assert.Empty(t, result.BundleBumps)
	assert.Equal(t, semver.BumpClass(""), result.OntologyBump)
	require.Len(t, result.OrphanChanges, 1)
}

func TestRunOntologyOverrideCannotFabricateABumpAlone(t *testing.T) {
	idx := buildIndex(t, map[string]string{
		"modules/lib.json": `{"id":"lib","version":"1.0.0"}`,
	})

	result := Run(idx, nil, map[string]semver.BumpClass{OntologyOverrideKey: semver.Major})
	assert.Equal(t, semver.BumpClass(""), result.OntologyBump, "an ontology override with no underlying bumps must not fabricate one")
}

func TestRunOntologyOverrideEscalatesExistingBump(t *testing.T) {
	idx := buildIndex(t, map[string]string{
		"properties/name.json": `{"id":"name","datatype":"string","version":"1.0.0"}`,
		"modules/lib.json":     `{"id":"lib","properties":["name"],"version":"1.0.0"}`,
	})
	changes := []change.Record{
		{File: "properties/name.json", Type: ontology.TypeProperty, Class: semver.Patch},
	}

	result := Run(idx, changes, map[string]semver.BumpClass{OntologyOverrideKey: semver.Major})
	assert.Equal(t, semver.Major, result.OntologyBump)
}

func TestRunWarnsOnInsufficientDeclaredVersionBump(t *testing.T) {
	idx := buildIndex(t, map[string]string{
		"modules/lib.json": `{"id":"lib","version":"1.0.1"}`,
	})
	changes := []change.Record{
		{File: "modules/lib.json", Type: ontology.TypeModule, Class: semver.Major, DeclaredBump: semver.Patch},
	}

	result := Run(idx, changes, nil)
	require.Len(t, result.VersionBumpWarnings, 1)
	assert.Equal(t, "version-bump-insufficient", string(result.VersionBumpWarnings[0].Code))
	assert.Equal(t, "modules/lib.json", result.VersionBumpWarnings[0].File)
}

func TestRunModuleDependencyCycleSkipsCascadePropagation(t *testing.T) {
	idx := buildIndex(t, map[string]string{
		"properties/name.json": `{"id":"name","datatype":"string","version":"1.0.0"}`,
		"modules/a.json":       `{"id":"a","properties":["name"],"dependencies":["b"],"version":"1.0.0"}`,
		"modules/b.json":       `{"id":"b","dependencies":["a"],"version":"1.0.0"}`,
	})
	changes := []change.Record{
		{File: "properties/name.json", Type: ontology.TypeProperty, Class: semver.Major},
	}

	result := Run(idx, changes, nil)
	assert.Equal(t, semver.Major, result.ModuleBumps["a"])
	_, bBumped := result.ModuleBumps["b"]
	assert.False(t, bBumped, "a cyclic dependency graph must not propagate cascades")
}
