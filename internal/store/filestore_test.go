package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func TestOSFileStoreDiscoverExcludesVersionsAndDotDirs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "modules/foo.json", `{"id":"foo"}`)
	writeFile(t, root, "modules/versions/1.0.0.json", `{}`)
	writeFile(t, root, "modules/.hidden/bar.json", `{}`)
	writeFile(t, root, "categories/_schema.json", `{}`)
	writeFile(t, root, "categories/animal.json", `{"id":"animal"}`)

	fs := OSFileStore{}
	paths, err := fs.Discover(root, []string{"modules", "categories"})
	require.NoError(t, err)
	assert.Equal(t, []string{"categories/animal.json", "modules/foo.json"}, paths)
}

func TestOSFileStoreReadWriteExists(t *testing.T) {
	root := t.TempDir()
	fs := OSFileStore{}

	assert.False(t, fs.Exists(root, "a/b.json"))

	require.NoError(t, fs.Write(root, "a/b.json", []byte("hello")))
	assert.True(t, fs.Exists(root, "a/b.json"))

	content, err := fs.Read(root, "a/b.json")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(content))
}

func TestOSFileStoreDeleteIsIdempotent(t *testing.T) {
	root := t.TempDir()
	fs := OSFileStore{}
	require.NoError(t, fs.Write(root, "x.json", []byte("{}")))

	require.NoError(t, fs.Delete(root, "x.json"))
	assert.False(t, fs.Exists(root, "x.json"))

	// deleting again must not error
	require.NoError(t, fs.Delete(root, "x.json"))
}
