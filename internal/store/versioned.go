package store

import (
	"bytes"
	"context"
	"log/slog"
	"os/exec"
	"strings"
)

// VersionedStore reads file state from a base revision. Implementations
// are expected to degrade to an empty result on failure rather than
// erroring — a failure from this capability surfaces as "no changes"
// rather than as an error.
type VersionedStore interface {
	// ListChanged returns paths (relative to the repository root) that
	// differ between base and the working tree.
	ListChanged(ctx context.Context, base string) ([]string, error)
	// ReadAt returns the content of path at base, or (nil, false) if the
	// path did not exist at that revision.
	ReadAt(ctx context.Context, base, path string) ([]byte, bool, error)
}

// GitVersionedStore shells out to the git CLI as its revision-control
// backend. Root is the repository working directory git commands run
// in.
type GitVersionedStore struct {
	Root   string
	Logger *slog.Logger
}

var _ VersionedStore = (*GitVersionedStore)(nil)

func (g *GitVersionedStore) logger() *slog.Logger {
	if g.Logger != nil {
		return g.Logger
	}
	return slog.Default()
}

func (g *GitVersionedStore) ListChanged(ctx context.Context, base string) ([]string, error) {
	out, err := g.run(ctx, "diff", "--name-only", base, "--", ".")
	if err != nil {
		g.logger().Warn("git diff failed, treating as no changes", "base", base, "error", err)
		return nil, nil
	}
	var paths []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			paths = append(paths, line)
		}
	}
	return paths, nil
}

func (g *GitVersionedStore) ReadAt(ctx context.Context, base, path string) ([]byte, bool, error) {
	out, err := g.runBytes(ctx, "show", base+":"+path)
	if err != nil {
		// git show exits non-zero both for "path didn't exist at that
		// revision" and for more serious failures; either way this is
		// treated as "file absent at base" (ReadAt returns ok=false),
		// never as a hard error.
		return nil, false, nil
	}
	return out, true, nil
}

func (g *GitVersionedStore) run(ctx context.Context, args ...string) (string, error) {
	out, err := g.runBytes(ctx, args...)
	return string(out), err
}

func (g *GitVersionedStore) runBytes(ctx context.Context, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = g.Root
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		g.logger().Debug("git command failed", "args", args, "stderr", stderr.String(), "error", err)
		return nil, err
	}
	return stdout.Bytes(), nil
}
