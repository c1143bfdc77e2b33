package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestValidate checks defaulting and field validations for Config.
func TestValidate(t *testing.T) {
	t.Parallel()

	// Zero value gets all defaults.
	cfg := new(Config)

	require.NoError(t, Validate(cfg))
	require.Equal(t, DefaultProjectName, cfg.ProjectName)
	require.Equal(t, DefaultVersionFilename, cfg.VersionFile)
	require.Equal(t, DefaultReleaseFilename, cfg.ReleaseFile)
	require.Equal(t, DefaultCommandTimeout, cfg.CommandTimeout)
	require.NotEmpty(t, cfg.Manifest)

	// Project name unusable as a file name prefix.
	cfg = &Config{
		ProjectName: "writer batch import",
	}

	require.Error(t, Validate(cfg))

	// Absolute manifest entry.
	cfg = &Config{
		Manifest: []string{string(os.PathSeparator) + "etc"},
	}

	require.Error(t, Validate(cfg))

	// Nil config.
	require.Error(t, Validate(nil))
}

// TestSaveLoadRoundtrip ensures settings are persisted and loaded back correctly.
func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")

	cfg := &Config{
		ProjectName:    "writer-batch-import",
		Manifest:       []string{"META-INF", "description.xml"},
		VersionCommand: []string{"./update-version.sh"},
	}

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg.ProjectName, loaded.ProjectName)
	require.Equal(t, cfg.Manifest, loaded.Manifest)
	require.Equal(t, cfg.VersionCommand, loaded.VersionCommand)

	// File exists.
	_, err = os.Stat(path)
	require.NoError(t, err)
}

// TestLoadMissingFile surfaces the underlying read error.
func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
