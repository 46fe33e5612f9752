package validate

import (
	"github.com/labki-org/ontoguard/internal/index"
	"github.com/labki-org/ontoguard/internal/ontology"
)

// orphanEligible are the entity types that can be orphaned. Modules and
// bundles are never considered orphans.
var orphanEligible = []ontology.Type{
	ontology.TypeCategory,
	ontology.TypeProperty,
	ontology.TypeSubobject,
	ontology.TypeTemplate,
}

// DetectOrphans emits an orphaned-entity warning for every content-
// bearing entity not listed in any module's contents.
func DetectOrphans(idx *index.Index) []Diagnostic {
	claimed := make(map[string]bool)
	for _, e := range idx.AllOf(ontology.TypeModule) {
		m, err := e.Module()
		if err != nil {
			continue
		}
		for t, ids := range m.Contents() {
			for _, id := range ids {
				claimed[ownerKey(t, id)] = true
			}
		}
	}

	var diags []Diagnostic
	for _, t := range orphanEligible {
		for _, e := range idx.AllOf(t) {
			if !claimed[ownerKey(t, e.ID)] {
				diags = append(diags, warnf(e.Path, CodeOrphanedEntity,
					"%s %q is not claimed by any module", t, e.ID))
			}
		}
	}
	return diags
}
