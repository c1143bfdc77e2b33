package packager

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ossii/oxt-packager/internal/oxt"
)

// releasePermissions is used when writing the release manifest.
const releasePermissions = 0o644

// Description contains metadata about a packaged release. It accompanies the
// archive so consumers can verify what they downloaded.
type Description struct {
	// VersionNumber is the version tag stamped into the archive name.
	VersionNumber string `yaml:"version"`
	// Archive is the produced archive file name.
	Archive string `yaml:"archive"`
	// ArchiveChecksum is the base64-encoded checksum of the archive itself.
	ArchiveChecksum string `yaml:"archive_checksum"`
	// Files maps archive member names to their base64-encoded checksums.
	Files map[string]string `yaml:"files"`
}

// newDescription fingerprints the finished archive and every member source.
func newDescription(version, archiveName, archivePath string, entries []oxt.Entry) (*Description, error) {
	desc := &Description{
		VersionNumber: version,
		Archive:       archiveName,
		Files:         make(map[string]string, len(entries)),
	}

	checksum, err := FileChecksum(archivePath)
	if err != nil {
		return nil, fmt.Errorf("checksum %s: %w", archiveName, err)
	}

	desc.ArchiveChecksum = checksum

	for _, entry := range entries {
		if checksum, err = FileChecksum(entry.Path); err != nil {
			return nil, fmt.Errorf("checksum %s: %w", entry.Name, err)
		}

		desc.Files[entry.Name] = checksum
	}

	return desc, nil
}

// save writes the release manifest to the provided path.
func (d *Description) save(path string) error {
	contents, err := yaml.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshal release manifest: %w", err)
	}

	if err = os.WriteFile(path, contents, releasePermissions); err != nil {
		return fmt.Errorf("write release manifest: %w", err)
	}

	return nil
}
