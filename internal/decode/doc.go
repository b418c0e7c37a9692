// Package decode converts raw element buffers into typed Go slices and back.
//
// This package bridges stored bytes and the in-memory value model:
//
//   - Decode homogeneous buffers of atomic elements with [Atomic]
//   - Decode compound buffers into struct-of-arrays [Columns] with [Compound]
//   - Decode a single compound record with [Record]
//   - Encode values back to bytes with [EncodeAtomic] and [EncodeCompound]
//
// # Type Mapping Strategy
//
// Datatype classes are mapped to Go types as follows:
//
//	Class             | Go Type
//	------------------|------------------------------------------------
//	Integer, Enum,    | []int8/[]int16/[]int32/[]int64 by stored width;
//	Bitfield, Time,   | unsigned values stay in the signed container
//	Char              | of the same width (see internal/promote)
//	Float             | []float32 (2 or 4 bytes), []float64 (8 bytes)
//	String (fixed)    | []string, or []byte when the length is 1
//	Object reference  | []int64 object addresses
//	Opaque, region    | [][]byte, one slice per element
//	reference, vlen   |
//	Array             | flattened slice of the base type
//	Compound          | *Columns
//
// # Compound Records
//
// Members are read at the offsets declared in the datatype; nothing is
// inferred from alignment. A [Filter] limits decoding to selected top-level
// members. Nested compounds are always decoded in full once their parent is
// selected.
package decode
