// Package config defines the build settings used by the packager binary and
// provides helpers to load, validate and save them in YAML format.
//
// The Config type holds the project name, the file manifest, and the paths
// of the version marker, descriptor, and release manifest files.
package config
