package bumper

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/ossii/oxt-packager/internal/config"
	"github.com/ossii/oxt-packager/internal/logger"
	"github.com/ossii/oxt-packager/internal/repository/versionfile"
)

var (
	errVersionNotBumpable = errors.New("version has no numeric final segment to bump")

	// descriptionVersionPattern matches the version attribute of the
	// <version value="..."/> element in description.xml.
	descriptionVersionPattern = regexp.MustCompile(`(<version\s+value=")[^"]*(")`)
)

// descriptorPermissions is used when restamping description.xml.
const descriptorPermissions = 0o644

// Options contains inputs for the bump entry point.
type Options struct {
	// ConfigPath is an optional path to the build settings YAML.
	ConfigPath string
	// Version, when non-empty, is written verbatim instead of bumping the patch segment.
	Version string
}

// Run executes the version-update step: it rewrites the VERSION marker and
// restamps the extension descriptor.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "oxt-bump")

	cfg, err := config.LoadOrDefault(opts.ConfigPath)
	if err != nil {
		return err
	}

	next, err := Apply(ctx, cfg, opts.Version)
	if err != nil {
		return fmt.Errorf("bump version: %w", err)
	}

	logger.InfoKV(ctx, "Version updated", "version", next)

	return nil
}

// Apply performs the version update against the provided configuration and
// returns the new version tag. With an empty explicit version, the final
// numeric segment of the current tag is incremented. The VERSION marker must
// already exist; a fresh project is expected to create it by hand once.
func Apply(ctx context.Context, cfg *config.Config, explicit string) (string, error) {
	versions := versionfile.NewFileRepository(cfg.VersionFile)

	current, err := versions.Read(ctx)
	if err != nil {
		return "", err
	}

	next := strings.TrimSpace(explicit)
	if next == "" {
		if next, err = bumpPatch(current); err != nil {
			return "", err
		}
	}

	if err = versions.Write(ctx, next); err != nil {
		return "", err
	}

	logger.InfoKV(ctx, "Rewrote version marker", "path", versions.Path(), "from", current, "to", next)

	if err = stampDescriptor(ctx, cfg.DescriptionFile, next); err != nil {
		return "", err
	}

	return next, nil
}

// bumpPatch increments the final dot-separated numeric segment of the tag.
func bumpPatch(tag string) (string, error) {
	segments := strings.Split(tag, ".")

	last := segments[len(segments)-1]

	value, err := strconv.Atoi(last)
	if err != nil {
		return "", fmt.Errorf("%q: %w", tag, errVersionNotBumpable)
	}

	segments[len(segments)-1] = strconv.Itoa(value + 1)

	return strings.Join(segments, "."), nil
}

// stampDescriptor rewrites the version attribute inside the extension
// descriptor so the bundled metadata matches the archive name. A project
// without a descriptor is left alone.
func stampDescriptor(ctx context.Context, path, next string) error {
	contents, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.DebugKV(ctx, "No descriptor to stamp", "path", path)
			return nil
		}

		return fmt.Errorf("read descriptor: %w", err)
	}

	stamped := descriptionVersionPattern.ReplaceAll(contents, []byte("${1}"+next+"${2}"))
	if !descriptionVersionPattern.Match(contents) {
		logger.WarnKV(ctx, "Descriptor has no version element, leaving it untouched", "path", path)
		return nil
	}

	if err = os.WriteFile(path, stamped, descriptorPermissions); err != nil {
		return fmt.Errorf("write descriptor: %w", err)
	}

	logger.InfoKV(ctx, "Stamped descriptor", "path", path, "version", next)

	return nil
}
