package bumper

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ossii/oxt-packager/internal/config"
	"github.com/ossii/oxt-packager/internal/repository/versionfile"
)

// testConfig returns settings rooted in a temp dir with a seeded VERSION marker.
func testConfig(t *testing.T, version string) *config.Config {
	t.Helper()

	dir := t.TempDir()
	cfg := &config.Config{
		VersionFile:     filepath.Join(dir, "VERSION"),
		DescriptionFile: filepath.Join(dir, "description.xml"),
	}
	require.NoError(t, config.Validate(cfg))

	if version != "" {
		require.NoError(t, os.WriteFile(cfg.VersionFile, []byte(version+"\n"), 0o644))
	}

	return cfg
}

// TestApplyBumpsPatch increments the final numeric segment and stamps the descriptor.
func TestApplyBumpsPatch(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cfg := testConfig(t, "1.2.3")

	descriptor := `<description xmlns="http://openoffice.org/extensions/description/2006">` +
		`<version value="1.2.3"/></description>`
	require.NoError(t, os.WriteFile(cfg.DescriptionFile, []byte(descriptor), 0o644))

	next, err := Apply(ctx, cfg, "")
	require.NoError(t, err)
	require.Equal(t, "1.2.4", next)

	tag, err := versionfile.NewFileRepository(cfg.VersionFile).Read(ctx)
	require.NoError(t, err)
	require.Equal(t, "1.2.4", tag)

	stamped, err := os.ReadFile(cfg.DescriptionFile)
	require.NoError(t, err)
	require.Contains(t, string(stamped), `<version value="1.2.4"/>`)
}

// TestApplyExplicitVersion writes the given tag verbatim.
func TestApplyExplicitVersion(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cfg := testConfig(t, "1.2.3")

	next, err := Apply(ctx, cfg, "2.0.0")
	require.NoError(t, err)
	require.Equal(t, "2.0.0", next)
}

// TestApplyMissingMarker fails before touching anything when VERSION is absent.
func TestApplyMissingMarker(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t, "")

	_, err := Apply(context.Background(), cfg, "")
	require.ErrorIs(t, err, versionfile.ErrNotFound)
}

// TestApplyUnbumpableVersion rejects tags without a numeric final segment.
func TestApplyUnbumpableVersion(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t, "1.2.3-beta")

	_, err := Apply(context.Background(), cfg, "")
	require.ErrorIs(t, err, errVersionNotBumpable)
}

// TestApplyMissingDescriptor is fine: only the marker is rewritten.
func TestApplyMissingDescriptor(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cfg := testConfig(t, "0.9.9")

	next, err := Apply(ctx, cfg, "")
	require.NoError(t, err)
	require.Equal(t, "0.9.10", next)
}
