// Package bumper implements the version-update step that runs before
// packaging: it rewrites the VERSION marker (patch increment or explicit
// version) and restamps the version attribute in description.xml.
package bumper
