package packager

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ossii/oxt-packager/internal/config"
	"github.com/ossii/oxt-packager/internal/domain/manifest"
	"github.com/ossii/oxt-packager/internal/logger"
	"github.com/ossii/oxt-packager/internal/oxt"
	"github.com/ossii/oxt-packager/internal/repository/versionfile"
	"github.com/ossii/oxt-packager/internal/service/bumper"
)

// Options contains inputs for the build entry point.
type Options struct {
	// ConfigPath is an optional path to the build settings YAML.
	ConfigPath string
	// ProjectName overrides the archive name prefix from the settings.
	ProjectName string
	// SkipVersionStep builds with the version marker as-is.
	SkipVersionStep bool
}

// packager runs a single build to completion.
// It is unexported—callers should use Run or Build, which encapsulate setup
// and the concurrent-build guard.
type packager struct {
	// cfg holds the build settings.
	cfg *config.Config
	// opts are the caller-provided inputs.
	opts *Options
	// versions reads the VERSION marker after the update step ran.
	versions *versionfile.FileRepository
}

// errBuildRunning indicates that an attempt was made to start a build while another one is running.
var errBuildRunning = errors.New("another build is running now")

// Run executes the packaging workflow and logs the produced archive.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "oxt-packager")

	archiveName, err := build(ctx, opts)
	if err != nil {
		return err
	}

	logger.InfoKV(ctx, "Packager completed successfully", "archive", archiveName)

	return nil
}

// Build executes the packaging workflow and returns the archive name:
// run the version-update step, read the VERSION marker, expand the manifest,
// and write the archive plus its release manifest.
func Build(ctx context.Context, opts *Options) (string, error) {
	return build(logger.WithName(ctx, "oxt-packager"), opts)
}

// build is the shared workflow behind Run and Build.
func build(ctx context.Context, opts *Options) (string, error) {
	pkg, err := newPackager(ctx, opts)
	if err != nil {
		return "", fmt.Errorf("initialize packager: %w", err)
	}

	defer pkg.cleanup(ctx)

	archiveName, err := pkg.run(ctx)
	if err != nil {
		return "", fmt.Errorf("packager failed: %w", err)
	}

	return archiveName, nil
}

// newPackager loads settings, applies overrides, and claims the build marker.
func newPackager(ctx context.Context, opts *Options) (*packager, error) {
	cfg, err := config.LoadOrDefault(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	if opts.ProjectName != "" {
		cfg.ProjectName = opts.ProjectName
		if err = config.Validate(cfg); err != nil {
			return nil, err
		}
	}

	if IsBuildRunningNow(ctx) {
		return nil, errBuildRunning
	}

	marker, err := os.Create(MarkerFilename)
	if err != nil {
		return nil, fmt.Errorf("claim build marker: %w", err)
	}

	if err = marker.Close(); err != nil {
		return nil, err
	}

	return &packager{
		cfg:      cfg,
		opts:     opts,
		versions: versionfile.NewFileRepository(cfg.VersionFile),
	}, nil
}

// run performs the build steps in order. Any failure is fatal; no partial
// archive is left behind.
func (p *packager) run(ctx context.Context) (string, error) {
	if err := p.runVersionStep(ctx); err != nil {
		return "", err
	}

	version, err := p.versions.Read(ctx)
	if err != nil {
		return "", err
	}

	logger.InfoKV(ctx, "Collecting archive entries", "version", version)

	entries, err := Entries(p.cfg)
	if err != nil {
		return "", err
	}

	archiveName := oxt.ArchiveName(p.cfg.ProjectName, version)
	outputPath := filepath.Join(p.cfg.OutputDir, archiveName)

	logger.InfoKV(ctx, "Writing archive", "path", outputPath, "entries", len(entries))

	if err = oxt.Write(ctx, outputPath, entries); err != nil {
		return "", err
	}

	logger.InfoKV(ctx, "Saving release manifest", "path", p.cfg.ReleaseFile)

	if err = p.saveReleaseManifest(version, archiveName, outputPath, entries); err != nil {
		return "", err
	}

	p.printNextSteps(ctx, outputPath, entries)

	return archiveName, nil
}

// runVersionStep invokes the configured external version command, or the
// built-in bumper when none is configured. The step is opaque: it is expected
// to rewrite the VERSION marker and is waited on to completion.
func (p *packager) runVersionStep(ctx context.Context) error {
	if p.opts.SkipVersionStep {
		logger.Info(ctx, "Skipping the version-update step")
		return nil
	}

	if len(p.cfg.VersionCommand) == 0 {
		_, err := bumper.Apply(ctx, p.cfg, "")
		return err
	}

	logger.InfoKV(ctx, "Running the version-update command", "command", strings.Join(p.cfg.VersionCommand, " "))

	cmdCtx, cancel := context.WithTimeout(ctx, p.cfg.CommandTimeout)
	defer cancel()

	cmd := exec.CommandContext(cmdCtx, p.cfg.VersionCommand[0], p.cfg.VersionCommand[1:]...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("version-update command: %w", err)
	}

	return nil
}

// Entries expands the manifest and appends the version marker itself,
// which always ships inside the archive.
func Entries(cfg *config.Config) ([]oxt.Entry, error) {
	m := manifest.New(cfg.Manifest...)

	entries, err := oxt.Expand(".", m)
	if err != nil {
		return nil, err
	}

	versionName := filepath.ToSlash(cfg.VersionFile)
	if filepath.IsAbs(cfg.VersionFile) {
		versionName = filepath.Base(cfg.VersionFile)
	}

	for _, entry := range entries {
		if entry.Name == versionName {
			return entries, nil
		}
	}

	entries = append(entries, oxt.Entry{Name: versionName, Path: cfg.VersionFile})

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})

	return entries, nil
}

// saveReleaseManifest fingerprints the build outputs and persists the release description.
func (p *packager) saveReleaseManifest(version, archiveName, archivePath string, entries []oxt.Entry) error {
	desc, err := newDescription(version, archiveName, archivePath, entries)
	if err != nil {
		return err
	}

	return desc.save(p.cfg.ReleaseFile)
}

// printNextSteps logs human-readable guidance for the produced artifacts.
func (p *packager) printNextSteps(ctx context.Context, outputPath string, entries []oxt.Entry) {
	var builder strings.Builder

	builder.WriteString("The extension package is ready: ")
	builder.WriteString(outputPath)
	builder.WriteString("\nIt bundles the following files:\n")

	for i, entry := range entries {
		if i > 0 {
			builder.WriteString(",\n")
		}

		builder.WriteString(entry.Name)
	}

	builder.WriteString("\nInstall it locally with: unopkg add ")
	builder.WriteString(outputPath)
	builder.WriteString("\nOr publish it together with ")
	builder.WriteString(p.cfg.ReleaseFile)
	builder.WriteString(" so consumers can verify checksums.")

	logger.Info(ctx, builder.String())
}

// cleanup releases the build marker.
func (p *packager) cleanup(ctx context.Context) {
	if _, err := os.Stat(MarkerFilename); err == nil {
		_ = os.Remove(MarkerFilename)
	}

	logger.Debug(ctx, "The build marker has been released")
}
