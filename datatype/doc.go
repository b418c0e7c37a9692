// Package datatype describes how stored values are laid out in raw byte
// buffers.
//
// A [Datatype] is an immutable tagged union: its [Class] selects which of
// the other fields are meaningful. Array and variable-length types carry a
// base type, compound types carry an ordered list of [Member] values, and
// enum types carry an [EnumMap]. The constructors enforce the combinations
// that make sense and report every violation at once, wrapped in
// [ErrInvalidDatatype].
//
// Datatypes can also be written as YAML descriptors (see [Spec]):
//
//	class: compound
//	members:
//	  - name: A
//	    type: {class: integer, size: 4, order: be}
//	  - name: B
//	    type:
//	      class: array
//	      dims: [2]
//	      base: {class: float, size: 4, order: be}
package datatype
