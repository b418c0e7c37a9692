// Package filter implements the byte pipeline applied to stored blobs.
//
// A [Pipeline] is an ordered list of filters. [Pipeline.Encode] applies them
// first to last when a blob is written; [Pipeline.Decode] applies them in
// reverse when it is read. A filter mask lets a single blob skip filters:
// bit i set means filter i was not applied.
//
// # Supported Filters
//
//   - "shuffle": byte shuffling via [Shuffle]. Groups byte 0 of every
//     element, then byte 1, and so on, so that compressors see runs of
//     similar bytes. Param 0 is the element size.
//   - "deflate": zlib compression via [Deflate]. Param 0 is the level.
//   - "lz4": LZ4 block compression via [LZ4].
//   - "fletcher32": a trailing Fletcher-32 checksum via [Fletcher32Filter],
//     verified on decode.
//
// Filters are described by a [Spec], which is what the blob store persists
// alongside each blob.
package filter
