package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/labki-org/ontoguard/internal/config"
)

// runInfo handles the "ontoguard info" subcommand. It prints the
// resolved configuration and a summary of what the two pipeline
// subcommands do.
func runInfo(args []string) {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	configPath := fs.String("config", "", "path to ontoguard.toml")
	fs.Parse(args)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ontoguard info: loading config: %v\n", err)
		cfg = nil
	}

	printGeneralInfo(cfg)
}

func printGeneralInfo(cfg *config.Config) {
	fmt.Fprintf(os.Stdout, `ontoguard %s — CI validator and version engine for ontology repositories

ontoguard reads a repository of categories, properties, subobjects,
templates, modules, and bundles, validates it against nine components
run in a fixed order, and (on apply-versions) computes and writes
semantic version bumps.

SUBCOMMANDS

  validate         Run every validator, print a JSON diagnostic report,
                   exit non-zero if any diagnostic is an error.

  apply-versions   Run validate, then — only if it found no errors —
                   write new module/bundle versions, emit artifacts
                   under modules/<id>/versions/ and bundles/<id>/versions/,
                   bump the repository VERSION file, and remove
                   %s.

  info             Print this message and the resolved configuration.

COMPONENTS (run in order)

  1. Entity Index Builder      4. Cycle Detector       7. Cascade Engine
  2. Schema Validator          5. Orphan Detector      8. Artifact Generator
  3. Reference & Constraint    6. Change Detector       9. Report Assembler
     Validator

`, Version, overridesFileName(cfg))

	if cfg == nil {
		return
	}

	fmt.Fprintf(os.Stdout, `RESOLVED CONFIGURATION

  repo.root             %s
  repo.base             %s
  repo.overrides_file   %s
  repo.schema_base_url  %s
  cache.summary_sink    %s
  log.level             %s
`,
		cfg.Repo.Root,
		cfg.Repo.Base,
		cfg.Repo.OverridesFile,
		cfg.Repo.SchemaBaseURL,
		emptyDash(cfg.Cache.SummarySink),
		cfg.Log.Level,
	)
}

func overridesFileName(cfg *config.Config) string {
	if cfg == nil {
		return "VERSION_OVERRIDES.json"
	}
	return cfg.Repo.OverridesFile
}

func emptyDash(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
