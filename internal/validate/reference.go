package validate

import (
	"strings"

	"github.com/labki-org/ontoguard/internal/graph"
	"github.com/labki-org/ontoguard/internal/index"
	"github.com/labki-org/ontoguard/internal/ontology"
	"github.com/labki-org/ontoguard/internal/refs"
)

// ReferenceValidator enforces the non-cycle referential invariants:
// self-reference, existence, module scope, and the required/optional
// disjointness constraints.
type ReferenceValidator struct {
	idx        *index.Index
	moduleDeps *graph.Graph // module dependency graph, for scope closure
	owner      map[string]string // "<type>/<id>" -> owning module id
}

// NewReferenceValidator builds the owner map and dependency graph the
// validator needs for scope checks, from the same index the other
// validators share.
func NewReferenceValidator(idx *index.Index) *ReferenceValidator {
	v := &ReferenceValidator{
		idx:        idx,
		moduleDeps: buildModuleDepGraph(idx),
		owner:      buildOwnerMap(idx),
	}
	return v
}

func buildModuleDepGraph(idx *index.Index) *graph.Graph {
	g := graph.New()
	for _, id := range idx.IDs(ontology.TypeModule) {
		g.AddNode(id)
	}
	for _, e := range idx.AllOf(ontology.TypeModule) {
		m, err := e.Module()
		if err != nil {
			continue
		}
		for _, dep := range m.Dependencies {
			if g.HasNode(dep) {
				g.AddEdge(e.ID, dep)
			}
		}
	}
	return g
}

func buildOwnerMap(idx *index.Index) map[string]string {
	owner := make(map[string]string)
	for _, e := range idx.AllOf(ontology.TypeModule) {
		m, err := e.Module()
		if err != nil {
			continue
		}
		for t, ids := range m.Contents() {
			for _, id := range ids {
				owner[ownerKey(t, id)] = e.ID
			}
		}
	}
	return owner
}

func ownerKey(t ontology.Type, id string) string {
	return string(t) + "/" + id
}

// closure computes {module} ∪ transitive dependencies. If the
// dependency graph has a cycle, ok is false and the caller must skip
// the scope check for this module.
func (v *ReferenceValidator) closure(module string) (map[string]bool, bool) {
	if len(v.moduleDeps.Cycles()) > 0 {
		return nil, false
	}
	seen := map[string]bool{module: true}
	var walk func(string)
	walk = func(m string) {
		for _, dep := range v.moduleDeps.Successors(m) {
			if !seen[dep] {
				seen[dep] = true
				walk(dep)
			}
		}
	}
	walk(module)
	return seen, true
}

// Validate runs all reference and constraint checks over every entity
// in the index, in index insertion order, for every reference field
// declared in refs.Table.
func (v *ReferenceValidator) Validate() []Diagnostic {
	var diags []Diagnostic

	for _, e := range v.idx.All() {
		fields := refs.Table[e.Type]
		for _, f := range fields {
			values := f.Values(e.Raw)
			for _, target := range values {
				diags = append(diags, v.checkReference(e, f, target)...)
			}
		}
		diags = append(diags, v.checkConstraints(e)...)
	}

	return diags
}

func (v *ReferenceValidator) checkReference(e *ontology.Entity, f refs.Field, target string) []Diagnostic {
	var diags []Diagnostic

	if f.Target == e.Type && target == e.ID {
		diags = append(diags, errf(e.Path, CodeSelfReference,
			"%s.%s references itself (%s)", e.ID, f.Name, target))
		return diags
	}

	if _, ok := v.idx.Get(f.Target, target); !ok {
		diags = append(diags, errf(e.Path, CodeMissingReference,
			"%s.%s references %s %q which does not exist", e.ID, f.Name, f.Target, target))
		return diags
	}

	if v.scopeApplies(e.Type, f.Target) {
		diags = append(diags, v.checkScope(e, f, target)...)
	}

	return diags
}

// scopeApplies reports whether the module-scope check applies to a
// reference from sourceType to targetType.
func (v *ReferenceValidator) scopeApplies(sourceType, targetType ontology.Type) bool {
	switch sourceType {
	case ontology.TypeCategory, ontology.TypeProperty, ontology.TypeSubobject, ontology.TypeTemplate:
	default:
		return false
	}
	return targetType != ontology.TypeModule
}

func (v *ReferenceValidator) checkScope(e *ontology.Entity, f refs.Field, target string) []Diagnostic {
	sourceModule, hasOwner := v.owner[ownerKey(e.Type, e.ID)]
	if !hasOwner {
		return nil // source not claimed by any module: scope check skipped
	}

	closureSet, ok := v.closure(sourceModule)
	if !ok {
		return nil // module-dependency graph has a cycle; Cycle Detector reports it
	}

	targetModule, hasTargetOwner := v.owner[ownerKey(f.Target, target)]
	if !hasTargetOwner {
		return nil // target not claimed by any module: permitted
	}

	if !closureSet[targetModule] {
		return []Diagnostic{errf(e.Path, CodeScopeViolation,
			"%s.%s references %s %q owned by module %q, outside the closure of %q",
			e.ID, f.Name, f.Target, target, targetModule, sourceModule)}
	}
	return nil
}

func (v *ReferenceValidator) checkConstraints(e *ontology.Entity) []Diagnostic {
	var diags []Diagnostic
	switch e.Type {
	case ontology.TypeCategory:
		c, err := e.Category()
		if err != nil {
			return nil
		}
		if overlap := intersect(c.RequiredProperties, c.OptionalProperties); len(overlap) > 0 {
			diags = append(diags, errf(e.Path, CodePropertyConflict,
				"required_properties and optional_properties overlap: %s", strings.Join(overlap, ", ")))
		}
		if overlap := intersect(c.RequiredSubobjects, c.OptionalSubobjects); len(overlap) > 0 {
			diags = append(diags, errf(e.Path, CodeSubobjectConflict,
				"required_subobjects and optional_subobjects overlap: %s", strings.Join(overlap, ", ")))
		}
	case ontology.TypeSubobject:
		s, err := e.Subobject()
		if err != nil {
			return nil
		}
		if overlap := intersect(s.RequiredProperties, s.OptionalProperties); len(overlap) > 0 {
			diags = append(diags, errf(e.Path, CodePropertyConflict,
				"required_properties and optional_properties overlap: %s", strings.Join(overlap, ", ")))
		}
	}
	return diags
}

func intersect(a, b []string) []string {
	set := make(map[string]bool, len(a))
	for _, x := range a {
		set[x] = true
	}
	var out []string
	for _, x := range b {
		if set[x] {
			out = append(out, x)
		}
	}
	return out
}
