// Package engine orchestrates the index builder, validators, change
// detector, cascade engine, artifact generator, and report assembler
// in one fixed order, for both the validate and apply-versions CLI
// entry points.
package engine

import (
	"context"
	"fmt"
	"log/slog"

	json "github.com/goccy/go-json"

	"github.com/labki-org/ontoguard/internal/artifact"
	"github.com/labki-org/ontoguard/internal/cascade"
	"github.com/labki-org/ontoguard/internal/change"
	"github.com/labki-org/ontoguard/internal/index"
	"github.com/labki-org/ontoguard/internal/ontology"
	"github.com/labki-org/ontoguard/internal/report"
	"github.com/labki-org/ontoguard/internal/store"
	"github.com/labki-org/ontoguard/internal/validate"
)

// Options configures one engine invocation.
type Options struct {
	Root          string
	Base          string
	OverridesFile string
	SummarySink   string
	Logger        *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

// Report is the full result of a validate run: every diagnostic from
// every component, plus whatever cascade analysis the change detector
// produced.
type Report struct {
	Index   *index.Index
	Diags   []validate.Diagnostic
	Cascade cascade.Result
	Groups  []report.FileGroup
}

// Validate runs the full pipeline — index build, every validator,
// change detection, and cascade analysis — and returns a Report.
// Warnings never cause a non-zero exit; HasErrors on the returned
// report's diagnostics does.
func Validate(ctx context.Context, fs store.FileStore, vs store.VersionedStore, opts Options) (*Report, error) {
	log := opts.logger()

	idx, paths, err := index.Build(fs, opts.Root)
	if err != nil {
		return nil, fmt.Errorf("building entity index: %w", err)
	}
	log.Info("entity index built", "entities", len(idx.All()))

	var diags []validate.Diagnostic

	schemaValidator := validate.NewSchemaValidator(fs, opts.Root)
	diags = append(diags, schemaValidator.Validate(paths)...)
	log.Debug("schema validation complete", "diagnostics", len(diags))

	refValidator := validate.NewReferenceValidator(idx)
	diags = append(diags, refValidator.Validate()...)

	diags = append(diags, validate.DetectCycles(idx)...)

	diags = append(diags, validate.DetectOrphans(idx)...)

	_, versionDiag := cascade.ReadOntologyVersion(fs, opts.Root)
	if versionDiag != nil {
		diags = append(diags, *versionDiag)
	}

	changes, err := change.Detect(ctx, vs, fs, opts.Root, opts.Base)
	if err != nil {
		return nil, fmt.Errorf("detecting changes: %w", err)
	}
	log.Info("change detection complete", "changes", len(changes))

	overrides, err := cascade.LoadOverrides(fs, opts.Root, opts.OverridesFile)
	if err != nil {
		return nil, fmt.Errorf("loading overrides: %w", err)
	}

	cascadeResult := cascade.Run(idx, changes, overrides)
	diags = append(diags, cascadeResult.OverrideWarnings...)
	diags = append(diags, cascadeResult.VersionBumpWarnings...)

	errCount, warnCount := countBySeverity(diags)
	if err := report.WriteSummary(fs, opts.Root, opts.SummarySink, errCount, warnCount); err != nil {
		log.Warn("failed to write summary sink", "error", err)
	}

	return &Report{
		Index:   idx,
		Diags:   diags,
		Cascade: cascadeResult,
		Groups:  report.Assemble(diags),
	}, nil
}

// ApplyVersions runs Validate, and if it found no errors, writes the
// new version strings into module/bundle files and VERSION, emits
// artifacts, and deletes the overrides file.
func ApplyVersions(ctx context.Context, fs store.FileStore, vs store.VersionedStore, opts Options, gen *artifact.Generator) (*Report, error) {
	rep, err := Validate(ctx, fs, vs, opts)
	if err != nil {
		return nil, err
	}
	result := validate.Result{Diagnostics: rep.Diags}
	if result.HasErrors() {
		return rep, nil
	}

	for id, entry := range rep.Cascade.ModuleVersions {
		if entry.New == "" {
			continue
		}
		if err := writeVersion(fs, opts.Root, ontology.TypeModule, id, entry.New); err != nil {
			return rep, fmt.Errorf("writing module %s version: %w", id, err)
		}
		if err := gen.Module(rep.Index, id, entry.New); err != nil {
			return rep, fmt.Errorf("emitting module %s artifact: %w", id, err)
		}
	}

	ontologyVersion, versionDiag := cascade.ReadOntologyVersion(fs, opts.Root)
	if versionDiag == nil && rep.Cascade.OntologyBump != "" {
		next, err := ontologyVersion.Bump(rep.Cascade.OntologyBump)
		if err == nil {
			if err := fs.Write(opts.Root, cascade.VersionFile, []byte(next.String()+"\n")); err != nil {
				return rep, fmt.Errorf("writing VERSION: %w", err)
			}
			ontologyVersion = next
		}
	}

	for id, entry := range rep.Cascade.BundleVersions {
		if entry.New == "" {
			continue
		}
		if err := writeVersion(fs, opts.Root, ontology.TypeBundle, id, entry.New); err != nil {
			return rep, fmt.Errorf("writing bundle %s version: %w", id, err)
		}
		if err := gen.Bundle(rep.Index, id, entry.New, ontologyVersion.String()); err != nil {
			return rep, fmt.Errorf("emitting bundle %s artifact: %w", id, err)
		}
	}

	if err := fs.Delete(opts.Root, opts.OverridesFile); err != nil {
		return rep, fmt.Errorf("removing overrides file: %w", err)
	}

	return rep, nil
}

// writeVersion rewrites the "version" field of an entity's source file
// in place, preserving every other field.
func writeVersion(fs store.FileStore, root string, t ontology.Type, id, newVersion string) error {
	path := string(t) + "/" + id + ".json"
	content, err := fs.Read(root, path)
	if err != nil {
		return err
	}
	var raw map[string]any
	if err := json.Unmarshal(content, &raw); err != nil {
		return err
	}
	raw["version"] = newVersion
	out, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return err
	}
	out = append(out, '\n')
	return fs.Write(root, path, out)
}

func countBySeverity(diags []validate.Diagnostic) (errors, warnings int) {
	for _, d := range diags {
		if d.Severity == validate.Warning {
			warnings++
		} else {
			errors++
		}
	}
	return
}
