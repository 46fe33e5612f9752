// Package artifact emits versioned module and bundle JSON artifacts.
package artifact

import (
	"fmt"
	"time"

	json "github.com/goccy/go-json"

	"github.com/labki-org/ontoguard/internal/index"
	"github.com/labki-org/ontoguard/internal/ontology"
	"github.com/labki-org/ontoguard/internal/store"
)

// SchemaURL is the fixed $schema value emitted into every artifact.
const SchemaURL = "https://labki.org/schemas/ontology-artifact/v1"

// timestampLayout matches the millisecond-precision ISO-8601 UTC
// format artifacts are stamped with, e.g. "2025-01-01T12:00:00.000Z".
const timestampLayout = "2006-01-02T15:04:05.000Z"

// ModuleArtifact is the emitted shape of a module release.
type ModuleArtifact struct {
	Schema       string           `json:"$schema"`
	ID           string           `json:"id"`
	Version      string           `json:"version"`
	Generated    string           `json:"generated"`
	Dependencies map[string]string `json:"dependencies"`
	Categories   []map[string]any `json:"categories"`
	Properties   []map[string]any `json:"properties"`
	Subobjects   []map[string]any `json:"subobjects"`
	Templates    []map[string]any `json:"templates"`
}

// BundleArtifact is the emitted shape of a bundle release.
type BundleArtifact struct {
	Schema          string            `json:"$schema"`
	ID              string            `json:"id"`
	Version         string            `json:"version"`
	Generated       string            `json:"generated"`
	OntologyVersion string            `json:"ontologyVersion"`
	Modules         map[string]string `json:"modules"`
	Description     string            `json:"description,omitempty"`
}

// Generator emits module and bundle artifacts against a FileStore.
type Generator struct {
	fs   store.FileStore
	root string
	now  func() time.Time
}

// New constructs a Generator. now is injectable so tests are
// deterministic modulo the single generation timestamp.
func New(fs store.FileStore, root string, now func() time.Time) *Generator {
	if now == nil {
		now = time.Now
	}
	return &Generator{fs: fs, root: root, now: now}
}

// Module emits the artifact for module id at version v.
func (g *Generator) Module(idx *index.Index, id, version string) error {
	e, ok := idx.Get(ontology.TypeModule, id)
	if !ok {
		return fmt.Errorf("emitting module artifact: module %q not found", id)
	}
	m, err := e.Module()
	if err != nil {
		return fmt.Errorf("decoding module %q: %w", id, err)
	}

	deps := make(map[string]string, len(m.Dependencies))
	for _, depID := range m.Dependencies {
		depEntity, ok := idx.Get(ontology.TypeModule, depID)
		if !ok {
			return fmt.Errorf("emitting module artifact %q: dependency %q not found", id, depID)
		}
		depModule, err := depEntity.Module()
		if err != nil {
			return fmt.Errorf("decoding dependency %q: %w", depID, err)
		}
		deps[depID] = depModule.Version
	}

	art := ModuleArtifact{
		Schema:       SchemaURL,
		ID:           id,
		Version:      version,
		Generated:    g.now().UTC().Format(timestampLayout),
		Dependencies: deps,
		Categories:   []map[string]any{},
		Properties:   []map[string]any{},
		Subobjects:   []map[string]any{},
		Templates:    []map[string]any{},
	}

	var collectErr error
	art.Categories, collectErr = collect(idx, ontology.TypeCategory, m.Categories)
	if collectErr != nil {
		return fmt.Errorf("emitting module artifact %q: %w", id, collectErr)
	}
	art.Properties, collectErr = collect(idx, ontology.TypeProperty, m.Properties)
	if collectErr != nil {
		return fmt.Errorf("emitting module artifact %q: %w", id, collectErr)
	}
	art.Subobjects, collectErr = collect(idx, ontology.TypeSubobject, m.Subobjects)
	if collectErr != nil {
		return fmt.Errorf("emitting module artifact %q: %w", id, collectErr)
	}
	art.Templates, collectErr = collect(idx, ontology.TypeTemplate, m.Templates)
	if collectErr != nil {
		return fmt.Errorf("emitting module artifact %q: %w", id, collectErr)
	}

	return g.write(fmt.Sprintf("modules/%s/versions/%s.json", id, version), art)
}

// Bundle emits the artifact for bundle id at version v, against
// ontology version ontologyVersion.
func (g *Generator) Bundle(idx *index.Index, id, version, ontologyVersion string) error {
	e, ok := idx.Get(ontology.TypeBundle, id)
	if !ok {
		return fmt.Errorf("emitting bundle artifact: bundle %q not found", id)
	}
	b, err := e.Bundle()
	if err != nil {
		return fmt.Errorf("decoding bundle %q: %w", id, err)
	}

	modules := make(map[string]string, len(b.Modules))
	for _, modID := range b.Modules {
		modEntity, ok := idx.Get(ontology.TypeModule, modID)
		if !ok {
			return fmt.Errorf("emitting bundle artifact %q: module %q not found", id, modID)
		}
		mod, err := modEntity.Module()
		if err != nil {
			return fmt.Errorf("decoding module %q: %w", modID, err)
		}
		modules[modID] = mod.Version
	}

	art := BundleArtifact{
		Schema:          SchemaURL,
		ID:              id,
		Version:         version,
		Generated:       g.now().UTC().Format(timestampLayout),
		OntologyVersion: ontologyVersion,
		Modules:         modules,
		Description:     b.Description,
	}

	return g.write(fmt.Sprintf("bundles/%s/versions/%s.json", id, version), art)
}

func collect(idx *index.Index, t ontology.Type, ids []string) ([]map[string]any, error) {
	out := make([]map[string]any, 0, len(ids))
	for _, id := range ids {
		e, ok := idx.Get(t, id)
		if !ok {
			return nil, fmt.Errorf("%s %q not found", t, id)
		}
		out = append(out, e.Clean())
	}
	return out, nil
}

func (g *Generator) write(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling artifact %s: %w", path, err)
	}
	b = append(b, '\n')
	return g.fs.Write(g.root, path, b)
}
