// Package cascade propagates per-entity change classes upward through
// the module dependency graph, aggregates them to bundles, computes
// the ontology bump, and applies manual overrides.
package cascade

import (
	"github.com/labki-org/ontoguard/internal/change"
	"github.com/labki-org/ontoguard/internal/graph"
	"github.com/labki-org/ontoguard/internal/index"
	"github.com/labki-org/ontoguard/internal/ontology"
	"github.com/labki-org/ontoguard/internal/semver"
	"github.com/labki-org/ontoguard/internal/validate"
)

// VersionEntry reports a current/new version pair for one bumped
// module or bundle.
type VersionEntry struct {
	Current string
	New     string // empty if the current version was missing or malformed
	Bump    semver.BumpClass
}

// Result is the full cascade output.
type Result struct {
	Changes             []change.Record
	ModuleBumps          map[string]semver.BumpClass
	BundleBumps          map[string]semver.BumpClass
	OntologyBump         semver.BumpClass // "" means null
	OrphanChanges        []change.Record
	Overrides            map[string]semver.BumpClass
	OverrideWarnings     []validate.Diagnostic
	VersionBumpWarnings  []validate.Diagnostic
	ModuleVersions       map[string]VersionEntry
	BundleVersions       map[string]VersionEntry
}

// Run executes all seven cascade steps.
func Run(idx *index.Index, changes []change.Record, overrides map[string]semver.BumpClass) Result {
	owner := buildOwner(idx)

	moduleBumps := make(map[string]semver.BumpClass)
	var orphanChanges []change.Record

	// Step 2: per-module aggregation.
	for _, c := range changes {
		key := ownerKey(c.Type, idOf(idx, c))
		m, ok := owner[key]
		if !ok {
			orphanChanges = append(orphanChanges, c)
			continue
		}
		moduleBumps[m] = semver.Max(moduleBumps[m], c.Class)
	}

	// Step 3: dependency cascade.
	depGraph := moduleDepGraph(idx)
	cascadeDependencies(depGraph, moduleBumps)

	// Step 4: bundle aggregation.
	bundleBumps := aggregateBundles(idx, moduleBumps)

	// Step 5: ontology bump (pre-override).
	ontologyBump := ontologyBumpFrom(moduleBumps, bundleBumps)

	// Step 6: overrides.
	overrideWarnings := applyOverrides(idx, overrides, moduleBumps, bundleBumps, &ontologyBump)

	// Step 7: new versions.
	moduleVersions := newVersions(idx, ontology.TypeModule, moduleBumps)
	bundleVersions := newVersions(idx, ontology.TypeBundle, bundleBumps)

	bumpWarnings := insufficientBumpWarnings(changes)

	return Result{
		Changes:             changes,
		ModuleBumps:         moduleBumps,
		BundleBumps:         bundleBumps,
		OntologyBump:        ontologyBump,
		OrphanChanges:       orphanChanges,
		Overrides:           overrides,
		OverrideWarnings:    overrideWarnings,
		VersionBumpWarnings: bumpWarnings,
		ModuleVersions:      moduleVersions,
		BundleVersions:      bundleVersions,
	}
}

// insufficientBumpWarnings flags a module or bundle whose own "version"
// field moved by less than the bump its content changes in this same
// diff require — a human hand-edited the version instead of letting
// apply-versions compute it.
func insufficientBumpWarnings(changes []change.Record) []validate.Diagnostic {
	var warnings []validate.Diagnostic
	for _, c := range changes {
		if c.Type != ontology.TypeModule && c.Type != ontology.TypeBundle {
			continue
		}
		if c.DeclaredBump == "" || c.DeclaredBump.Priority() >= c.Class.Priority() {
			continue
		}
		warnings = append(warnings, validate.Diagnostic{
			Code:     validate.CodeVersionBumpInsufficient,
			Severity: validate.Warning,
			File:     c.File,
			Message:  c.File + " declares a " + string(c.DeclaredBump) + " version bump but its changes require " + string(c.Class),
		})
	}
	return warnings
}

func ownerKey(t ontology.Type, id string) string {
	return string(t) + "/" + id
}

// idOf recovers the entity id a change record concerns. For every
// record (addition, edit or deletion) the id is derived from the file
// path via index.ExpectedID, which keeps nested template paths intact;
// the index is not consulted, so a deleted file needs no working-tree
// entity.
func idOf(idx *index.Index, c change.Record) string {
	return index.ExpectedID(c.Type, c.File)
}

func buildOwner(idx *index.Index) map[string]string {
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

func moduleDepGraph(idx *index.Index) *graph.Graph {
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

// cascadeDependencies propagates each module's bump to its dependents.
// order is leaves-first (dependencies before dependents), matching
// graph.TopoOrder's post-order DFS. If the graph has a cycle,
// moduleBumps is left unchanged — the Cycle Detector already reports
// the cycle itself, and cascading through it would be meaningless.
func cascadeDependencies(g *graph.Graph, moduleBumps map[string]semver.BumpClass) {
	order, ok := g.TopoOrder()
	if !ok {
		return
	}
	for _, m := range order {
		var depBump semver.BumpClass
		for _, dep := range g.Successors(m) {
			depBump = semver.Max(depBump, moduleBumps[dep])
		}
		if depBump != "" {
			moduleBumps[m] = semver.Max(moduleBumps[m], depBump)
		}
	}
}

func aggregateBundles(idx *index.Index, moduleBumps map[string]semver.BumpClass) map[string]semver.BumpClass {
	bundleBumps := make(map[string]semver.BumpClass)
	for _, e := range idx.AllOf(ontology.TypeBundle) {
		b, err := e.Bundle()
		if err != nil {
			continue
		}
		var agg semver.BumpClass
		for _, modID := range b.Modules {
			agg = semver.Max(agg, moduleBumps[modID])
		}
		if agg != "" {
			bundleBumps[e.ID] = agg
		}
	}
	return bundleBumps
}

func ontologyBumpFrom(moduleBumps, bundleBumps map[string]semver.BumpClass) semver.BumpClass {
	var agg semver.BumpClass
	for _, c := range moduleBumps {
		agg = semver.Max(agg, c)
	}
	for _, c := range bundleBumps {
		agg = semver.Max(agg, c)
	}
	return agg
}

func newVersions(idx *index.Index, t ontology.Type, bumps map[string]semver.BumpClass) map[string]VersionEntry {
	out := make(map[string]VersionEntry, len(bumps))
	for id, class := range bumps {
		entry := VersionEntry{Bump: class}
		e, ok := idx.Get(t, id)
		if !ok {
			out[id] = entry
			continue
		}
		var current string
		switch t {
		case ontology.TypeModule:
			m, _ := e.Module()
			current = m.Version
		case ontology.TypeBundle:
			b, _ := e.Bundle()
			current = b.Version
		}
		entry.Current = current
		if v, err := semver.Parse(current); err == nil {
			if next, err := v.Bump(class); err == nil {
				entry.New = next.String()
			}
		}
		out[id] = entry
	}
	return out
}
