package cascade

import (
	"sort"

	json "github.com/goccy/go-json"

	"github.com/labki-org/ontoguard/internal/index"
	"github.com/labki-org/ontoguard/internal/ontology"
	"github.com/labki-org/ontoguard/internal/semver"
	"github.com/labki-org/ontoguard/internal/store"
	"github.com/labki-org/ontoguard/internal/validate"
)

// OverridesFile is the fixed name of the repository-root overrides
// file. Configurable via internal/config for tests.
const OverridesFile = "VERSION_OVERRIDES.json"

// OntologyOverrideKey is the literal string identifying an
// ontology-level override, as opposed to a per-module or per-bundle one.
const OntologyOverrideKey = "ontology"

// LoadOverrides reads and parses the overrides file. A missing file is
// not an error: it simply yields an empty map.
func LoadOverrides(fs store.FileStore, root, filename string) (map[string]semver.BumpClass, error) {
	if !fs.Exists(root, filename) {
		return map[string]semver.BumpClass{}, nil
	}
	content, err := fs.Read(root, filename)
	if err != nil {
		return nil, err
	}
	var raw map[string]string
	if err := json.Unmarshal(content, &raw); err != nil {
		return nil, err
	}
	out := make(map[string]semver.BumpClass, len(raw))
	for id, class := range raw {
		out[id] = semver.BumpClass(class)
	}
	return out, nil
}

// applyOverrides applies manual version-bump overrides on top of the
// already-cascaded module/bundle bump maps and the pre-override
// ontology bump, warning whenever an override downgrades a
// computed bump.
func applyOverrides(idx *index.Index, overrides map[string]semver.BumpClass, moduleBumps, bundleBumps map[string]semver.BumpClass, ontologyBump *semver.BumpClass) []validate.Diagnostic {
	var warnings []validate.Diagnostic
	hadAnyBump := len(moduleBumps) > 0 || len(bundleBumps) > 0

	ids := make([]string, 0, len(overrides))
	for id := range overrides {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		class := overrides[id]
		if !class.Valid() {
			continue
		}

		if id == OntologyOverrideKey {
			current := *ontologyBump
			if current != "" && class.Priority() < current.Priority() {
				warnings = append(warnings, validate.Diagnostic{
					Code:     validate.CodeOverrideDowngrade,
					Severity: validate.Warning,
					Message:  "ontology override downgrades " + string(current) + " -> " + string(class),
				})
			}
			if current != "" || hadAnyBump {
				*ontologyBump = class
			}
			// else: override alone, with no module/bundle bumps, must not
			// fabricate an ontology bump out of nothing.
			continue
		}

		if current, ok := moduleBumps[id]; ok {
			if class.Priority() < current.Priority() {
				warnings = append(warnings, downgradeWarning(id, current, class))
			}
			moduleBumps[id] = class
			continue
		}
		if current, ok := bundleBumps[id]; ok {
			if class.Priority() < current.Priority() {
				warnings = append(warnings, downgradeWarning(id, current, class))
			}
			bundleBumps[id] = class
			continue
		}
		// id not present in either map: escalates from nothing, no cascade.
		// Determine which space the id belongs to by looking it up in the
		// index (it may be a module or a bundle that simply had no
		// detected change).
		if _, ok := idx.Get(ontology.TypeBundle, id); ok {
			bundleBumps[id] = class
			continue
		}
		moduleBumps[id] = class
	}

	return warnings
}

func downgradeWarning(id string, from, to semver.BumpClass) validate.Diagnostic {
	return validate.Diagnostic{
		Code:     validate.CodeOverrideDowngrade,
		Severity: validate.Warning,
		Message:  id + " override downgrades " + string(from) + " -> " + string(to),
	}
}
