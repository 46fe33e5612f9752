// Package index builds the in-memory entity index: type/id -> entity,
// keyed by id rather than filename, with insertion order fixed by
// lexicographic file path so later stages produce deterministic
// diagnostics.
package index

import (
	"strings"

	json "github.com/goccy/go-json"

	"github.com/labki-org/ontoguard/internal/ontology"
	"github.com/labki-org/ontoguard/internal/store"
)

// Index is the read-only, once-built entity index. Safe to share across
// the validators and the change/cascade/artifact stages; nothing
// mutates it after Build returns.
type Index struct {
	byType map[ontology.Type]map[string]*ontology.Entity
	order  []*ontology.Entity // insertion order across all types, lexicographic path
}

// Get returns the entity of the given type and id, if present.
func (idx *Index) Get(t ontology.Type, id string) (*ontology.Entity, bool) {
	m := idx.byType[t]
	if m == nil {
		return nil, false
	}
	e, ok := m[id]
	return e, ok
}

// IDs returns the ids of every entity of type t, in insertion order.
func (idx *Index) IDs(t ontology.Type) []string {
	var out []string
	for _, e := range idx.order {
		if e.Type == t {
			out = append(out, e.ID)
		}
	}
	return out
}

// All returns every entity across all types, in insertion order
// (lexicographic by path).
func (idx *Index) All() []*ontology.Entity {
	return idx.order
}

// AllOf returns every entity of type t, in insertion order.
func (idx *Index) AllOf(t ontology.Type) []*ontology.Entity {
	var out []*ontology.Entity
	for _, e := range idx.order {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// Build discovers and parses every entity file under root via fs, and
// inserts each successfully-parsed entity with a non-empty id into the
// index. Unparsable files or files missing an id are skipped silently
// when building the index itself — the Schema Validator re-reads every
// file on the discovered list, so it still reports those files as
// errors. Build returns that full discovered path list
// alongside the index so callers can hand it to the Schema Validator
// without depending on which files happened to index successfully.
func Build(fs store.FileStore, root string) (*Index, []string, error) {
	typeNames := make([]string, len(ontology.Types))
	for i, t := range ontology.Types {
		typeNames[i] = string(t)
	}

	paths, err := fs.Discover(root, typeNames)
	if err != nil {
		return nil, nil, err
	}

	idx := &Index{byType: make(map[ontology.Type]map[string]*ontology.Entity, len(ontology.Types))}
	for _, t := range ontology.Types {
		idx.byType[t] = make(map[string]*ontology.Entity)
	}

	for _, path := range paths {
		t, ok := typeOf(path)
		if !ok {
			continue
		}
		content, err := fs.Read(root, path)
		if err != nil {
			continue // treated as unparsable; schema validator re-reads and reports
		}
		var raw map[string]any
		if err := json.Unmarshal(content, &raw); err != nil {
			continue
		}
		id, _ := raw["id"].(string)
		if id == "" {
			continue
		}
		label, _ := raw["label"].(string)
		entity := &ontology.Entity{
			Type: t,
			Path: path,
			Header: ontology.Header{
				ID:    id,
				Label: label,
			},
			Raw: raw,
		}
		idx.byType[t][id] = entity
		idx.order = append(idx.order, entity)
	}

	return idx, paths, nil
}

// typeOf derives the entity type from a discovered path's first
// segment.
func typeOf(path string) (ontology.Type, bool) {
	seg := path
	if i := strings.IndexByte(path, '/'); i >= 0 {
		seg = path[:i]
	}
	for _, t := range ontology.Types {
		if string(t) == seg {
			return t, true
		}
	}
	return "", false
}

// ExpectedID computes the id a file at path (relative to its type
// directory, extension stripped) is expected to declare.
func ExpectedID(t ontology.Type, path string) string {
	rel := strings.TrimPrefix(path, string(t)+"/")
	return strings.TrimSuffix(rel, ".json")
}
