package oxt

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/ossii/oxt-packager/internal/domain/manifest"
)

// writeTree lays out a minimal extension source tree for expansion tests.
func writeTree(t *testing.T, root string) {
	t.Helper()

	files := map[string]string{
		"description.xml":               `<description><version value="1.2.3"/></description>`,
		"main.py":                       "print('hello')\n",
		"META-INF/manifest.xml":         "<manifest/>",
		"pythonpath/batchimport.py":     "def run(): pass\n",
		"pythonpath/lib/helpers.py":     "x = 1\n",
		"icons/extension.png":           "png",
		"icons/high/extension_hc.png":   "png",
		"license/license_en.txt":        "MIT",
		"description/description_en.txt": "Batch import images",
	}
	for name, body := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	}
}

// TestExpandFlattensDirectories verifies that directories contribute exactly
// their contained files, names stay slash-separated, and output is sorted.
func TestExpandFlattensDirectories(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTree(t, root)

	entries, err := Expand(root, manifest.New("META-INF", "description.xml", "main.py", "pythonpath", "icons"))
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		names = append(names, e.Name)
	}

	want := []string{
		"META-INF/manifest.xml",
		"description.xml",
		"icons/extension.png",
		"icons/high/extension_hc.png",
		"main.py",
		"pythonpath/batchimport.py",
		"pythonpath/lib/helpers.py",
	}
	require.Empty(t, cmp.Diff(want, names))
}

// TestExpandMissingEntry fails with ErrMissingEntry naming the absent path.
func TestExpandMissingEntry(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTree(t, root)

	_, err := Expand(root, manifest.New("main.py", "registration"))
	require.ErrorIs(t, err, ErrMissingEntry)
	require.Contains(t, err.Error(), "registration")
}

// TestExpandDeduplicates keeps the first occurrence when entries overlap.
func TestExpandDeduplicates(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTree(t, root)

	entries, err := Expand(root, manifest.New("main.py", "main.py", "icons", "icons/extension.png"))
	require.NoError(t, err)

	seen := make(map[string]int)
	for _, e := range entries {
		seen[e.Name]++
	}

	for name, count := range seen {
		require.Equal(t, 1, count, name)
	}
}

// TestExpandIsDeterministic yields the identical entry list across runs.
func TestExpandIsDeterministic(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTree(t, root)

	m := manifest.New("META-INF", "description.xml", "main.py", "pythonpath", "icons")

	first, err := Expand(root, m)
	require.NoError(t, err)

	second, err := Expand(root, m)
	require.NoError(t, err)

	require.Empty(t, cmp.Diff(first, second))
}
