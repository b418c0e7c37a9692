// Package render turns decoded values into text.
//
// It covers three concerns: converting fixed-length string storage to Go
// strings and back, looking up enum labels, and joining decoded values into
// a delimited, optionally truncated line for diagnostics and export.
package render
