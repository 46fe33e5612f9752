// Command ontoguard validates an ontology repository and computes
// semantic version bumps for its modules and bundles.
//
// Usage:
//
//	ontoguard validate [--config path] [--base rev]
//	ontoguard apply-versions [--config path] [--base rev]
//	ontoguard info
//
// Configuration is resolved from (highest precedence first):
// environment variables (ONTOGUARD_*), then one config file, which is
// the first of: an explicit --config file, the file named by
// ONTOGUARD_CONFIG, ./ontoguard.toml in the current directory, or
// ~/.config/ontoguard/ontoguard.toml.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/labki-org/ontoguard/internal/config"
)

// Version is set via ldflags at build time.
var Version = "dev"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "ontoguard: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("missing subcommand (expected validate, apply-versions, or info)")
	}

	sub, rest := args[0], args[1:]

	if sub == "info" {
		runInfo(rest)
		return nil
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	switch sub {
	case "validate":
		return runValidate(ctx, rest)
	case "apply-versions":
		return runApply(ctx, rest)
	default:
		return fmt.Errorf("unknown subcommand %q (expected validate, apply-versions, or info)", sub)
	}
}

// newLogger builds the shared structured logger. Everything goes to
// stderr so stdout stays reserved for the JSON report the subcommands
// emit.
func newLogger(cfg *config.Config) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
