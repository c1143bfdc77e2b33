package oxt

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Extension is the archive suffix recognized by the LibreOffice extension loader.
const Extension = ".oxt"

// ArchiveName derives the output file name from the project and version tag.
func ArchiveName(project, version string) string {
	return project + "-" + version + Extension
}

// Write produces the archive at outputPath from the expanded entries.
// The archive is assembled in a temporary file in the target directory and
// renamed into place on success, so a failed build never leaves a partial
// archive at outputPath. Any existing archive of the same name is replaced.
func Write(ctx context.Context, outputPath string, entries []Entry) error {
	outputPath = filepath.Clean(outputPath)

	tmp, err := os.CreateTemp(filepath.Dir(outputPath), filepath.Base(outputPath)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temporary archive: %w", err)
	}

	if err = writeEntries(ctx, tmp, entries); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())

		return err
	}

	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())

		return fmt.Errorf("sync archive: %w", err)
	}

	if err = tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())

		return fmt.Errorf("close archive: %w", err)
	}

	if err = os.Rename(tmp.Name(), outputPath); err != nil {
		_ = os.Remove(tmp.Name())

		return fmt.Errorf("rename archive into place: %w", err)
	}

	return nil
}

// writeEntries streams every entry into the zip container.
func writeEntries(ctx context.Context, w io.Writer, entries []Entry) error {
	zw := zip.NewWriter(w)

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			_ = zw.Close()

			return err
		}

		if err := writeEntry(zw, entry); err != nil {
			_ = zw.Close()

			return err
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalize archive: %w", err)
	}

	return nil
}

// writeEntry copies a single source file into the archive under its member name.
func writeEntry(zw *zip.Writer, entry Entry) error {
	source, err := os.Open(entry.Path)
	if err != nil {
		return fmt.Errorf("open %s: %w", entry.Name, err)
	}

	defer func() {
		_ = source.Close()
	}()

	info, err := source.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", entry.Name, err)
	}

	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return fmt.Errorf("describe %s: %w", entry.Name, err)
	}

	header.Name = entry.Name
	header.Method = zip.Deflate

	member, err := zw.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("add %s: %w", entry.Name, err)
	}

	if _, err = io.Copy(member, source); err != nil {
		return fmt.Errorf("write %s: %w", entry.Name, err)
	}

	return nil
}
