package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/labki-org/ontoguard/internal/artifact"
	"github.com/labki-org/ontoguard/internal/config"
	"github.com/labki-org/ontoguard/internal/engine"
	"github.com/labki-org/ontoguard/internal/store"
)

// runApply handles the "ontoguard apply-versions" subcommand: it runs
// the same pipeline as validate, and if it found no errors, writes the
// computed version bumps and artifacts to disk.
func runApply(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("apply-versions", flag.ExitOnError)
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
	gen := artifact.New(osFS, cfg.Repo.Root, time.Now)

	rep, err := engine.ApplyVersions(ctx, osFS, vs, engine.Options{
		Root:          cfg.Repo.Root,
		Base:          cfg.Repo.Base,
		OverridesFile: cfg.Repo.OverridesFile,
		SummarySink:   cfg.Cache.SummarySink,
		Logger:        logger,
	}, gen)
	if err != nil {
		return fmt.Errorf("applying versions: %w", err)
	}

	if err := printReport(rep); err != nil {
		return err
	}

	if hasErrors(rep) {
		os.Exit(1)
	}
	return nil
}
