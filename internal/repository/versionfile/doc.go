// Package versionfile persists the VERSION marker: the single version token
// that is stamped into archive names. The marker is re-read on every build,
// after the version-update step has run.
package versionfile
