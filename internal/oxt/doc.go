// Package oxt expands the file manifest into archive entries and writes the
// resulting .oxt bundle, a plain zip archive recognized by the LibreOffice
// extension loader.
package oxt
