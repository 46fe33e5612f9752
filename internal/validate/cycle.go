package validate

import (
	"strings"

	"github.com/labki-org/ontoguard/internal/graph"
	"github.com/labki-org/ontoguard/internal/index"
	"github.com/labki-org/ontoguard/internal/ontology"
)

// relation names one of the three acyclic relations checked by the
// Cycle Detector, pairing its entity type, edge field, and reported
// error code.
type relation struct {
	sourceType ontology.Type
	field      string
	code       Code
}

var relations = []relation{
	{ontology.TypeCategory, "parents", CodeCircularCategoryInheritance},
	{ontology.TypeProperty, "parent_property", CodeCircularPropertyParentProperty},
	{ontology.TypeModule, "dependencies", CodeCircularModuleDependency},
}

// DetectCycles builds the three relation graphs from the index and
// emits one diagnostic per strongly-connected cyclic component, per
// relation, naming the cyclic node sequence.
func DetectCycles(idx *index.Index) []Diagnostic {
	var diags []Diagnostic
	for _, rel := range relations {
		g := buildRelationGraph(idx, rel)
		for _, cycle := range g.Cycles() {
			diags = append(diags, errf("", rel.code,
				"cycle in %s.%s: %s", rel.sourceType, rel.field, strings.Join(cycle, " -> ")))
		}
	}
	return diags
}

func buildRelationGraph(idx *index.Index, rel relation) *graph.Graph {
	g := graph.New()
	entities := idx.AllOf(rel.sourceType)
	for _, e := range entities {
		g.AddNode(e.ID)
	}
	for _, e := range entities {
		for _, target := range scalarOrListField(e.Raw, rel.field) {
			if g.HasNode(target) {
				g.AddEdge(e.ID, target)
			}
		}
	}
	return g
}

// scalarOrListField reads a field that may be declared as either a
// single string (parent_property) or a list of strings (parents,
// dependencies), returning it uniformly as a slice.
func scalarOrListField(raw map[string]any, field string) []string {
	v, ok := raw[field]
	if !ok || v == nil {
		return nil
	}
	switch val := v.(type) {
	case string:
		if val == "" {
			return nil
		}
		return []string{val}
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
