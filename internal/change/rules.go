package change

import (
	"github.com/labki-org/ontoguard/internal/ontology"
	"github.com/labki-org/ontoguard/internal/semver"
)

// typeSpecific applies the per-type classification rules. matched is
// false when none apply and classification should fall through to the
// generic added/updated rules.
func typeSpecific(t ontology.Type, base, work map[string]any) (class semver.BumpClass, reason string, matched bool) {
	switch t {
	case ontology.TypeProperty:
		return propertyRules(base, work)
	case ontology.TypeCategory:
		return categoryRules(base, work)
	case ontology.TypeModule, ontology.TypeBundle:
		return structuralDeletionRule(base, work)
	default:
		return "", "", false
	}
}

func propertyRules(base, work map[string]any) (semver.BumpClass, string, bool) {
	baseDatatype, _ := base["datatype"].(string)
	workDatatype, _ := work["datatype"].(string)
	if baseDatatype != workDatatype {
		return semver.Major, "datatype changed: " + baseDatatype + " -> " + workDatatype, true
	}

	baseCard, _ := base["cardinality"].(string)
	workCard, _ := work["cardinality"].(string)
	if baseCard == "multiple" && workCard == "single" {
		return semver.Major, "cardinality narrowed from multiple to single", true
	}

	baseAllowed, baseHas := toStringSet(base["allowed_values"])
	workAllowed, workHas := toStringSet(work["allowed_values"])
	if baseHas && workHas {
		if removed := setDiff(baseAllowed, workAllowed); len(removed) > 0 {
			return semver.Major, "allowed_values removed a value present in base", true
		}
		if added := setDiff(workAllowed, baseAllowed); len(added) > 0 {
			return semver.Minor, "allowed_values added a new value", true
		}
	}

	return "", "", false
}

func categoryRules(base, work map[string]any) (semver.BumpClass, string, bool) {
	baseRequired, _ := toStringSet(base["required_properties"])
	workRequired, _ := toStringSet(work["required_properties"])
	if newlyRequired := setDiff(workRequired, baseRequired); len(newlyRequired) > 0 {
		return semver.Major, "new required_properties entry", true
	}

	baseOptional, _ := toStringSet(base["optional_properties"])
	workOptional, _ := toStringSet(work["optional_properties"])
	if removedOptional := setDiff(baseOptional, workOptional); len(removedOptional) > 0 {
		return semver.Major, "optional_properties entry removed", true
	}

	return "", "", false
}

// structuralDeletionRule implements the modules/bundles rule: deletion
// of any structural field is major; other edits fall through to the
// generic added/updated rules.
func structuralDeletionRule(base, work map[string]any) (semver.BumpClass, string, bool) {
	for _, field := range []string{"id", "label", "description", "categories", "properties"} {
		if _, hadField := base[field]; hadField {
			if _, hasField := work[field]; !hasField {
				return semver.Major, field + " field removed", true
			}
		}
	}
	return "", "", false
}

func toStringSet(v any) (map[string]bool, bool) {
	list, ok := v.([]any)
	if !ok {
		return nil, false
	}
	set := make(map[string]bool, len(list))
	for _, item := range list {
		if s, ok := item.(string); ok {
			set[s] = true
		}
	}
	return set, true
}

// setDiff returns elements of a not present in b.
func setDiff(a, b map[string]bool) []string {
	var out []string
	for k := range a {
		if !b[k] {
			out = append(out, k)
		}
	}
	return out
}
