package oxt

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/ossii/oxt-packager/internal/domain/manifest"
)

// ErrMissingEntry is returned when a manifest entry does not exist on disk
// at archive time.
var ErrMissingEntry = errors.New("manifest entry not found")

// Entry pairs an archive member name with its source location on disk.
type Entry struct {
	// Name is the member path inside the archive, slash-separated.
	Name string
	// Path is the source file location on disk.
	Path string
}

// Expand resolves a manifest against the project root into the flat,
// sorted list of files the archive will contain. Directory entries are
// walked recursively; their files appear under the entry's relative path.
// Directories themselves get no archive member, readers infer them.
func Expand(root string, m *manifest.Manifest) ([]Entry, error) {
	var entries []Entry

	seen := make(map[string]struct{}, len(m.Entries))

	for _, name := range m.Entries {
		source := filepath.Join(root, filepath.FromSlash(name))

		info, err := os.Stat(source)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("%s: %w", name, ErrMissingEntry)
			}

			return nil, fmt.Errorf("stat %s: %w", name, err)
		}

		if !info.IsDir() {
			entries = appendEntry(entries, seen, Entry{Name: name, Path: source})
			continue
		}

		err = filepath.WalkDir(source, func(p string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}

			if d.IsDir() {
				return nil
			}

			rel, relErr := filepath.Rel(source, p)
			if relErr != nil {
				return relErr
			}

			entries = appendEntry(entries, seen, Entry{
				Name: path.Join(name, filepath.ToSlash(rel)),
				Path: p,
			})

			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", name, err)
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})

	return entries, nil
}

// appendEntry adds the entry unless its archive name was already claimed.
// First occurrence wins, matching the manifest order.
func appendEntry(entries []Entry, seen map[string]struct{}, e Entry) []Entry {
	if _, ok := seen[e.Name]; ok {
		return entries
	}

	seen[e.Name] = struct{}{}

	return append(entries, e)
}
