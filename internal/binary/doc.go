// Package binary reads and writes fixed-width values at explicit positions.
//
// A [Reader] wraps an io.ReaderAt and a [Writer] wraps an io.WriterAt; both
// carry the byte order of the values they handle, resolved from a datatype
// order with [For]. [Buffer] is a growable in-memory io.WriterAt.
package binary
