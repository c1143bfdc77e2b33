package versionfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestReadWriteRoundtrip ensures the version token survives persistence with whitespace trimmed.
func TestReadWriteRoundtrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewFileRepository(filepath.Join(t.TempDir(), "VERSION"))

	require.NoError(t, repo.Write(ctx, " 1.2.3 "))

	tag, err := repo.Read(ctx)
	require.NoError(t, err)
	require.Equal(t, "1.2.3", tag)
}

// TestReadMissing returns ErrNotFound when the marker does not exist.
func TestReadMissing(t *testing.T) {
	t.Parallel()

	repo := NewFileRepository(filepath.Join(t.TempDir(), "VERSION"))

	_, err := repo.Read(context.Background())
	require.ErrorIs(t, err, ErrNotFound)
}

// TestReadEmpty returns ErrEmpty for a whitespace-only marker.
func TestReadEmpty(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "VERSION")
	require.NoError(t, os.WriteFile(path, []byte("\n \t\n"), 0o644))

	_, err := NewFileRepository(path).Read(context.Background())
	require.ErrorIs(t, err, ErrEmpty)
}

// TestWriteEmpty rejects blank version tokens.
func TestWriteEmpty(t *testing.T) {
	t.Parallel()

	repo := NewFileRepository(filepath.Join(t.TempDir(), "VERSION"))
	require.ErrorIs(t, repo.Write(context.Background(), "  "), ErrEmpty)
}
