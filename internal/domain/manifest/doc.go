// Package manifest holds the domain model for the file manifest: the fixed
// list of relative paths that make up an extension archive.
package manifest
