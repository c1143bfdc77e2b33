// Package packager builds the versioned extension archive.
//
// A build runs the version-update step, reads the VERSION marker, expands
// the file manifest, and writes <project>-<version>.oxt through a temporary
// file so failures never leave a partial archive. A YAML release manifest
// with artifact checksums is written alongside.
package packager
