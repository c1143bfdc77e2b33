// Package watcher rebuilds the extension archive whenever a manifest source
// changes, for tight edit-package-install loops during extension development.
package watcher
