package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	json "github.com/goccy/go-json"

	"github.com/labki-org/ontoguard/internal/config"
	"github.com/labki-org/ontoguard/internal/engine"
	"github.com/labki-org/ontoguard/internal/store"
	"github.com/labki-org/ontoguard/internal/validate"
)

// runValidate handles the "ontoguard validate" subcommand: it runs the
// full validation pipeline, prints a JSON report to stdout, and returns
// a non-nil error only when the run itself failed (not when it merely
// found errors — the exit code carries that).
func runValidate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	configPath := fs.String("config", "", "path to ontoguard.toml")
	base := fs.String("base", "", "base revision for change detection (overrides config)")
	fs.Parse(args)

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *base != "" {
		cfg.Repo.Base = *base
	}
	logger := newLogger(cfg)

	osFS := store.OSFileStore{}
	vs := &store.GitVersionedStore{Root: cfg.Repo.Root, Logger: logger}

	rep, err := engine.Validate(ctx, osFS, vs, engine.Options{
		Root:          cfg.Repo.Root,
		Base:          cfg.Repo.Base,
		OverridesFile: cfg.Repo.OverridesFile,
		SummarySink:   cfg.Cache.SummarySink,
		Logger:        logger,
	})
	if err != nil {
		return fmt.Errorf("running validation: %w", err)
	}

	if err := printReport(rep); err != nil {
		return err
	}

	if hasErrors(rep) {
		os.Exit(1)
	}
	return nil
}

func hasErrors(rep *engine.Report) bool {
	return (validate.Result{Diagnostics: rep.Diags}).HasErrors()
}

func printReport(rep *engine.Report) error {
	b, err := json.MarshalIndent(rep.Groups, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	fmt.Fprintln(os.Stdout, string(b))
	return nil
}
