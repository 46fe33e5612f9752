// Package change classifies every file that differs between a base
// revision and the working tree as a major, minor, or patch change.
package change

import (
	"context"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/labki-org/ontoguard/internal/ontology"
	"github.com/labki-org/ontoguard/internal/semver"
	"github.com/labki-org/ontoguard/internal/store"
)

// Record is one classified change.
type Record struct {
	File   string
	Type   ontology.Type
	Class  semver.BumpClass
	Reason string

	// DeclaredBump is the bump class implied by a module or bundle's own
	// "version" field moving between base and working tree (empty
	// unless both sides declare a parseable version and it changed).
	// The cascade engine compares this against the bump it computes
	// from content changes to warn when an author hand-bumped a module
	// or bundle by less than the change actually requires.
	DeclaredBump semver.BumpClass
}

// entityType restricts change detection to entity-type directories by
// mapping a path's first segment to its entity type. "_schema.json"
// files are skipped separately, in Detect.
func entityType(path string) (ontology.Type, bool) {
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

// Detect classifies every changed entity file between base and the
// working tree.
func Detect(ctx context.Context, vs store.VersionedStore, fs store.FileStore, root, base string) ([]Record, error) {
	paths, err := vs.ListChanged(ctx, base)
	if err != nil {
		return nil, fmt.Errorf("listing changed files: %w", err)
	}

	var records []Record
	for _, p := range paths {
		t, ok := entityType(p)
		if !ok {
			continue
		}
		if strings.HasSuffix(p, "_schema.json") {
			continue
		}
		if !strings.HasSuffix(p, ".json") {
			continue
		}

		baseBytes, baseOK, err := vs.ReadAt(ctx, base, p)
		if err != nil {
			return nil, fmt.Errorf("reading %s at %s: %w", p, base, err)
		}
		workBytes, workErr := fs.Read(root, p)
		workOK := workErr == nil

		rec, ok := classify(p, t, baseBytes, baseOK, workBytes, workOK)
		if ok {
			if t == ontology.TypeModule || t == ontology.TypeBundle {
				rec.DeclaredBump = declaredVersionBump(baseBytes, baseOK, workBytes, workOK)
			}
			records = append(records, rec)
		}
	}
	return records, nil
}

func classify(path string, t ontology.Type, baseBytes []byte, baseOK bool, workBytes []byte, workOK bool) (Record, bool) {
	var base, work map[string]any
	if baseOK {
		_ = json.Unmarshal(baseBytes, &base)
	}
	if workOK {
		_ = json.Unmarshal(workBytes, &work)
	}

	// Rule 1: deleted.
	if baseOK && !workOK {
		id, _ := base["id"].(string)
		return Record{File: path, Type: t, Class: semver.Major, Reason: fmt.Sprintf("%s deleted: %s", t, id)}, true
	}
	// Rule 2: added.
	if !baseOK && workOK {
		return Record{File: path, Type: t, Class: semver.Minor}, true
	}
	// Rule 3: both absent, defensive.
	if !baseOK && !workOK {
		return Record{File: path, Type: t, Class: semver.Patch}, true
	}

	// Rule 4: id changed.
	baseID, _ := base["id"].(string)
	workID, _ := work["id"].(string)
	if baseID != workID {
		return Record{File: path, Type: t, Class: semver.Major, Reason: fmt.Sprintf("id changed: %s -> %s", baseID, workID)}, true
	}

	// Rule 5: type-specific rules.
	if class, reason, matched := typeSpecific(t, base, work); matched {
		return Record{File: path, Type: t, Class: class, Reason: reason}, true
	}

	// Rule 6: any added top-level field -> minor.
	for k := range work {
		if _, present := base[k]; !present {
			return Record{File: path, Type: t, Class: semver.Minor}, true
		}
	}

	// Rule 7: any updated field -> patch. Rule 8: otherwise patch.
	for k, v := range work {
		if bv, present := base[k]; present && !equalJSON(v, bv) {
			return Record{File: path, Type: t, Class: semver.Patch}, true
		}
	}
	return Record{File: path, Type: t, Class: semver.Patch}, true
}

// declaredVersionBump returns the bump class implied by a module or
// bundle's own "version" field, if both sides declare one and it
// parses.
func declaredVersionBump(baseBytes []byte, baseOK bool, workBytes []byte, workOK bool) semver.BumpClass {
	if !baseOK || !workOK {
		return ""
	}
	var base, work struct {
		Version string `json:"version"`
	}
	if err := json.Unmarshal(baseBytes, &base); err != nil {
		return ""
	}
	if err := json.Unmarshal(workBytes, &work); err != nil {
		return ""
	}
	from, err := semver.Parse(base.Version)
	if err != nil {
		return ""
	}
	to, err := semver.Parse(work.Version)
	if err != nil {
		return ""
	}
	return semver.ClassOfDelta(from, to)
}

func equalJSON(a, b any) bool {
	ab, _ := json.Marshal(a)
	bb, _ := json.Marshal(b)
	return string(ab) == string(bb)
}
