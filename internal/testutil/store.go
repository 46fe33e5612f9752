// Package testutil provides in-memory fakes of the store capability
// interfaces, shared across package tests so they don't need a real
// filesystem or git checkout.
package testutil

import (
	"context"
	"path"
	"sort"
	"strings"

	"github.com/labki-org/ontoguard/internal/store"
)

// MemFileStore is an in-memory FileStore fake.
type MemFileStore struct {
	Files map[string][]byte // path (relative to root) -> content
}

func NewMemFileStore() *MemFileStore {
	return &MemFileStore{Files: make(map[string][]byte)}
}

var _ store.FileStore = (*MemFileStore)(nil)

func (m *MemFileStore) Discover(root string, types []string) ([]string, error) {
	typeSet := make(map[string]bool, len(types))
	for _, t := range types {
		typeSet[t] = true
	}
	var out []string
	for p := range m.Files {
		if strings.HasSuffix(path.Base(p), "_schema.json") {
			continue
		}
		seg := p
		if i := strings.IndexByte(p, '/'); i >= 0 {
			seg = p[:i]
		}
		if !typeSet[seg] {
			continue
		}
		if strings.Contains(p, "/versions/") {
			continue
		}
		out = append(out, p)
	}
	sort.Strings(out)
	return out, nil
}

func (m *MemFileStore) Read(root, p string) ([]byte, error) {
	b, ok := m.Files[p]
	if !ok {
		return nil, notExistError{path: p}
	}
	return b, nil
}

func (m *MemFileStore) Write(root, p string, content []byte) error {
	m.Files[p] = content
	return nil
}

func (m *MemFileStore) Exists(root, p string) bool {
	_, ok := m.Files[p]
	return ok
}

func (m *MemFileStore) Delete(root, p string) error {
	delete(m.Files, p)
	return nil
}

type notExistError struct{ path string }

func (e notExistError) Error() string { return "no such file: " + e.path }

// MemVersionedStore is an in-memory VersionedStore fake: Base is a
// fixed snapshot keyed by path, Changed is the list of paths reported
// as differing from it.
type MemVersionedStore struct {
	Base    map[string][]byte
	Changed []string
}

var _ store.VersionedStore = (*MemVersionedStore)(nil)

func (m *MemVersionedStore) ListChanged(ctx context.Context, base string) ([]string, error) {
	return m.Changed, nil
}

func (m *MemVersionedStore) ReadAt(ctx context.Context, base, p string) ([]byte, bool, error) {
	b, ok := m.Base[p]
	if !ok {
		return nil, false, nil
	}
	return b, true, nil
}
