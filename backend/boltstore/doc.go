// Package boltstore is an object backend that keeps datasets as filtered
// blobs in a bbolt database.
//
// Each dataset is stored under its name in two buckets: "records" holds a
// msgpack [Record] describing the datatype, extents, filter pipeline and
// checksum, and "blobs" holds the row-major element buffer after the filter
// pipeline has been applied. Decoded blobs are kept in an LRU cache so that
// repeated selections of the same dataset do not run the pipeline again.
//
// A Store is safe for concurrent use.
package boltstore
