package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ossii/oxt-packager/internal/domain/manifest"
)

// Config holds the build settings for packaging an extension.
type Config struct {
	// ProjectName is the archive name prefix, e.g. "writer-batch-import".
	ProjectName string `yaml:"project"`
	// Manifest lists the relative paths (files or directories) bundled into the archive.
	Manifest []string `yaml:"manifest"`
	// VersionFile is the path of the version marker read before every build.
	VersionFile string `yaml:"version_file"`
	// DescriptionFile is the extension descriptor whose version attribute is restamped on bump.
	DescriptionFile string `yaml:"description_file"`
	// OutputDir is the directory the finished archive is written to.
	OutputDir string `yaml:"output_dir"`
	// ReleaseFile is the path of the YAML release manifest written next to the archive.
	ReleaseFile string `yaml:"release_file"`
	// VersionCommand is an optional external command (argv form) run before
	// packaging to rewrite the version marker. When empty, the built-in
	// bumper is used instead.
	VersionCommand []string `yaml:"version_command"`
	// CommandTimeout bounds the external version command execution.
	CommandTimeout time.Duration `yaml:"command_timeout"`
}

const (
	// DefaultConfigFilename is the default filename for build settings.
	DefaultConfigFilename = "oxt-packager.yaml"

	// DefaultProjectName matches the extension this tool was written for.
	DefaultProjectName = "writer-batch-import"

	// DefaultVersionFilename is the version marker consulted on every build.
	DefaultVersionFilename = "VERSION"

	// DefaultDescriptionFilename is the extension descriptor stamped by the bumper.
	DefaultDescriptionFilename = "description.xml"

	// DefaultReleaseFilename is the release manifest written after a successful build.
	DefaultReleaseFilename = "oxt-release.yaml"

	// DefaultCommandTimeout bounds the external version command.
	DefaultCommandTimeout = 30 * time.Second

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errProjectNameInvalid is returned when the project name cannot form a file name.
	errProjectNameInvalid = errors.New("project name must not contain path separators or whitespace")
)

// Default returns a configuration with all defaults applied,
// matching the writer-batch-import extension layout.
func Default() *Config {
	cfg := new(Config)
	// Validate never fails on the zero value, it only fills defaults.
	_ = Validate(cfg)

	return cfg
}

// Load reads configuration from the provided path and validates essential fields.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadOrDefault loads settings from the provided path, falling back to the
// defaulted configuration when no explicit path is given and the default
// settings file does not exist.
func LoadOrDefault(path string) (*Config, error) {
	if path != "" {
		return Load(path)
	}

	cfg, err := Load(DefaultConfigFilename)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}

		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the provided settings for required fields
// and fills defaults for everything left unset.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.ProjectName == "" {
		cfg.ProjectName = DefaultProjectName
	}

	if strings.ContainsAny(cfg.ProjectName, "/\\ \t") {
		return fmt.Errorf("%q: %w", cfg.ProjectName, errProjectNameInvalid)
	}

	if len(cfg.Manifest) == 0 {
		cfg.Manifest = manifest.Default().Entries
	}

	entries := manifest.New(cfg.Manifest...)
	entries.Normalize()

	if err := entries.Validate(); err != nil {
		return fmt.Errorf("validate manifest: %w", err)
	}

	cfg.Manifest = entries.Entries

	if cfg.VersionFile == "" {
		cfg.VersionFile = DefaultVersionFilename
	}

	if cfg.DescriptionFile == "" {
		cfg.DescriptionFile = DefaultDescriptionFilename
	}

	if cfg.OutputDir == "" {
		cfg.OutputDir = "."
	}

	if cfg.ReleaseFile == "" {
		cfg.ReleaseFile = DefaultReleaseFilename
	}

	if cfg.CommandTimeout <= 0 {
		cfg.CommandTimeout = DefaultCommandTimeout
	}

	return nil
}
