// Package report assembles the final validation output: concatenating
// diagnostics from every validator in component order, grouping by
// file, and optionally appending a summary line to a sink path. It is
// otherwise pure, matching the teacher's pattern of pure formatting
// helpers (FormatBlockMessage/FormatAdvisoryMessage) plus one narrow
// I/O side channel.
package report

import (
	"fmt"
	"sort"

	"github.com/labki-org/ontoguard/internal/store"
	"github.com/labki-org/ontoguard/internal/validate"
)

// FileGroup holds every diagnostic for one file (or the empty string
// for repository-level diagnostics), in the order they were produced.
type FileGroup struct {
	File        string
	Diagnostics []validate.Diagnostic
}

// Assemble groups diagnostics by file while preserving, within each
// file, component order (the caller appends diagnostics from each
// validator in declared order, so stable-sorting by file alone is
// sufficient to keep that order intact).
func Assemble(diags []validate.Diagnostic) []FileGroup {
	order := make([]string, 0)
	byFile := make(map[string][]validate.Diagnostic)
	for _, d := range diags {
		if _, seen := byFile[d.File]; !seen {
			order = append(order, d.File)
		}
		byFile[d.File] = append(byFile[d.File], d)
	}
	sort.SliceStable(order, func(i, j int) bool {
		return order[i] < order[j]
	})
	groups := make([]FileGroup, 0, len(order))
	for _, f := range order {
		groups = append(groups, FileGroup{File: f, Diagnostics: byFile[f]})
	}
	return groups
}

// WriteSummary appends a one-line summary to sinkPath, if non-empty.
// A summary sink is the only I/O the assembler performs.
func WriteSummary(fs store.FileStore, root, sinkPath string, errors, warnings int) error {
	if sinkPath == "" {
		return nil
	}
	line := fmt.Sprintf("errors=%d warnings=%d\n", errors, warnings)
	existing := []byte{}
	if fs.Exists(root, sinkPath) {
		b, err := fs.Read(root, sinkPath)
		if err != nil {
			return err
		}
		existing = b
	}
	return fs.Write(root, sinkPath, append(existing, line...))
}
