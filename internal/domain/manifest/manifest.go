package manifest

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"
)

var (
	// ErrEmptyEntry is returned when a manifest entry is blank.
	ErrEmptyEntry = errors.New("manifest entry is empty")
	// ErrAbsoluteEntry is returned when a manifest entry is an absolute path.
	ErrAbsoluteEntry = errors.New("manifest entry must be a relative path")
	// ErrEscapingEntry is returned when a manifest entry points outside the project root.
	ErrEscapingEntry = errors.New("manifest entry escapes the project root")
)

// Manifest is the ordered list of relative paths bundled into an archive.
// Entries may name single files or directories to be included recursively.
type Manifest struct {
	// Entries are relative, slash-separated paths after Normalize.
	Entries []string
}

// New builds a manifest from the provided entries.
func New(entries ...string) *Manifest {
	return &Manifest{
		Entries: append([]string(nil), entries...),
	}
}

// Default returns the writer-batch-import extension layout: the UNO
// registration metadata, the entry-point script, its library directory,
// and the static resources shipped inside the .oxt bundle.
func Default() *Manifest {
	return New(
		"META-INF",
		"description.xml",
		"main.py",
		"pythonpath",
		"icons",
		"license",
		"description",
	)
}

// Clone returns a copy of the manifest to avoid leaking internal references.
func (m *Manifest) Clone() *Manifest {
	if m == nil {
		return nil
	}

	return New(m.Entries...)
}

// Normalize rewrites every entry into clean, slash-separated form.
func (m *Manifest) Normalize() {
	for i, entry := range m.Entries {
		m.Entries[i] = path.Clean(filepath.ToSlash(entry))
	}
}

// Validate checks that every entry can safely address a path below the
// project root. It does not touch the filesystem; existence is checked
// at archive time.
func (m *Manifest) Validate() error {
	for _, entry := range m.Entries {
		if entry == "" || entry == "." {
			return ErrEmptyEntry
		}

		if path.IsAbs(entry) || filepath.IsAbs(entry) {
			return fmt.Errorf("%q: %w", entry, ErrAbsoluteEntry)
		}

		if entry == ".." || strings.HasPrefix(entry, "../") {
			return fmt.Errorf("%q: %w", entry, ErrEscapingEntry)
		}
	}

	return nil
}
