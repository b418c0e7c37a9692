package datatype

import (
	"slices"
	"strconv"
)

// Native is the size sentinel meaning "use the host default width".
const Native = -1

// VarLenSlotSize is the width of a variable-length slot inside a record:
// a 4-byte length followed by a 12-byte heap identifier.
const VarLenSlotSize = 16

// MemberSeparator joins nested compound member names in flattened paths.
const MemberSeparator = "/"

// Class identifies the kind of value a Datatype describes.
type Class int8

const (
	ClassNoClass Class = iota - 1
	ClassInteger
	ClassFloat
	ClassChar
	ClassString
	ClassBitfield
	ClassOpaque
	ClassCompound
	ClassReference
	ClassEnum
	ClassVarLen
	ClassArray
	ClassTime
)

var classNames = map[Class]string{
	ClassNoClass:   "no class",
	ClassInteger:   "integer",
	ClassFloat:     "float",
	ClassChar:      "char",
	ClassString:    "string",
	ClassBitfield:  "bitfield",
	ClassOpaque:    "opaque",
	ClassCompound:  "compound",
	ClassReference: "reference",
	ClassEnum:      "enum",
	ClassVarLen:    "vlen",
	ClassArray:     "array",
	ClassTime:      "time",
}

func (c Class) String() string {
	if name, ok := classNames[c]; ok {
		return name
	}
	return "class(" + strconv.Itoa(int(c)) + ")"
}

// ByteOrder is the stored byte order of multi-byte values.
type ByteOrder int8

const (
	OrderLE ByteOrder = iota
	OrderBE
	OrderVAX
	OrderNone
	OrderNative ByteOrder = -1
)

func (o ByteOrder) String() string {
	switch o {
	case OrderLE:
		return "le"
	case OrderBE:
		return "be"
	case OrderVAX:
		return "vax"
	case OrderNone:
		return "none"
	case OrderNative:
		return "native"
	}
	return "order(" + strconv.Itoa(int(o)) + ")"
}

func (o ByteOrder) valid() bool {
	return o >= OrderNative && o <= OrderNone
}

// Sign is the signedness of integer-family values.
type Sign int8

const (
	SignUnsigned Sign = iota
	SignTwos
	SignNative Sign = -1
)

func (s Sign) String() string {
	switch s {
	case SignUnsigned:
		return "unsigned"
	case SignTwos:
		return "signed"
	case SignNative:
		return "native"
	}
	return "sign(" + strconv.Itoa(int(s)) + ")"
}

func (s Sign) valid() bool {
	return s >= SignNative && s <= SignTwos
}

// Charset is the character encoding of string data.
type Charset uint8

const (
	CharsetASCII Charset = iota
	CharsetUTF8
)

// Padding describes how fixed-length strings fill unused bytes.
type Padding uint8

const (
	PadNullTerm Padding = iota
	PadNullPad
	PadSpacePad
)

// RefKind distinguishes object references from region references.
type RefKind uint8

const (
	RefObject RefKind = iota
	RefRegion
)

// Member is one named field of a compound datatype.
type Member struct {
	Name   string
	Offset int
	Type   *Datatype
}

// Datatype describes how stored values are laid out. Values are immutable
// once constructed; use the New* constructors.
type Datatype struct {
	class   Class
	size    int
	order   ByteOrder
	sign    Sign
	charset Charset
	padding Padding
	ref     RefKind
	tag     string

	base      *Datatype
	arrayDims []int
	members   []Member
	enum      *EnumMap
}

// Class returns the datatype class.
func (dt *Datatype) Class() Class { return dt.class }

// Size returns the declared size in bytes, which may be Native.
func (dt *Datatype) Size() int { return dt.size }

// Order returns the byte order.
func (dt *Datatype) Order() ByteOrder { return dt.order }

// Sign returns the signedness. Only meaningful for the integer family.
func (dt *Datatype) Sign() Sign { return dt.sign }

// Charset returns the string character set.
func (dt *Datatype) Charset() Charset { return dt.charset }

// Padding returns the string padding.
func (dt *Datatype) Padding() Padding { return dt.padding }

// RefKind returns the reference kind for ClassReference.
func (dt *Datatype) RefKind() RefKind { return dt.ref }

// Tag returns the opaque tag.
func (dt *Datatype) Tag() string { return dt.tag }

// Base returns the element type of an Array or VarLen datatype, or nil.
func (dt *Datatype) Base() *Datatype { return dt.base }

// ArrayDims returns a copy of the array extents.
func (dt *Datatype) ArrayDims() []int { return slices.Clone(dt.arrayDims) }

// Members returns a copy of the compound members in declaration order.
func (dt *Datatype) Members() []Member { return slices.Clone(dt.members) }

// NumMembers returns the number of top-level compound members.
func (dt *Datatype) NumMembers() int { return len(dt.members) }

// Member returns the i-th compound member.
func (dt *Datatype) Member(i int) Member { return dt.members[i] }

// EnumMembers returns the enum value map. It is never nil for ClassEnum.
func (dt *Datatype) EnumMembers() *EnumMap { return dt.enum }

// ElementSize returns the number of bytes one value occupies, with Native
// resolved to the host default.
func (dt *Datatype) ElementSize() int {
	if dt.size != Native {
		return dt.size
	}
	switch dt.class {
	case ClassInteger, ClassEnum, ClassBitfield:
		return strconv.IntSize / 8
	case ClassFloat, ClassTime:
		return 8
	case ClassChar:
		return 1
	case ClassString, ClassVarLen:
		return VarLenSlotSize
	}
	return 0
}

// NumElements returns the product of the array extents, or 1 for
// non-array datatypes.
func (dt *Datatype) NumElements() int {
	if dt.class != ClassArray {
		return 1
	}
	n := 1
	for _, d := range dt.arrayDims {
		n *= d
	}
	return n
}

// IsInteger reports whether values decode as integers.
func (dt *Datatype) IsInteger() bool {
	switch dt.class {
	case ClassInteger, ClassChar, ClassEnum, ClassBitfield:
		return true
	}
	return false
}

// IsUnsigned reports whether values are unsigned. Arrays and variable-length
// types defer to their base; a compound is unsigned only when every member is.
func (dt *Datatype) IsUnsigned() bool {
	switch dt.class {
	case ClassArray, ClassVarLen:
		return dt.base.IsUnsigned()
	case ClassCompound:
		for _, m := range dt.members {
			if !m.Type.IsUnsigned() {
				return false
			}
		}
		return len(dt.members) > 0
	case ClassBitfield:
		return true
	case ClassInteger, ClassChar, ClassEnum:
		return dt.sign == SignUnsigned
	}
	return false
}

// IsVarString reports whether dt is a variable-length string.
func (dt *Datatype) IsVarString() bool {
	if dt.class == ClassString && dt.size == Native {
		return true
	}
	return dt.class == ClassVarLen && dt.base != nil && dt.base.class == ClassChar
}

// IsText reports whether dt holds fixed-length text.
func (dt *Datatype) IsText() bool {
	return dt.class == ClassString && dt.size != Native
}

// IsFloat16 reports whether dt is a half-precision float.
func (dt *Datatype) IsFloat16() bool {
	return dt.class == ClassFloat && dt.size == 2
}

// IsVarLen reports whether values have no fixed per-instance size.
func (dt *Datatype) IsVarLen() bool {
	return dt.class == ClassVarLen || dt.IsVarString()
}

// FlatMember is a leaf of a compound datatype after nested compounds have
// been expanded.
type FlatMember struct {
	// Path is the member name, with nested compound names joined by
	// MemberSeparator.
	Path string
	Type *Datatype
	// Top is the index of the top-level member the leaf belongs to.
	Top int
}

// FlatMembers expands nested compounds into a flat list of leaves.
// Array and variable-length types of compounds are expanded through their
// base when dt itself is such a type.
func (dt *Datatype) FlatMembers() []FlatMember {
	var out []FlatMember
	root := dt
	for (root.class == ClassArray || (root.class == ClassVarLen && !root.IsVarString())) && root.base != nil {
		root = root.base
	}
	if root.class != ClassCompound {
		return nil
	}
	for i, m := range root.members {
		out = flatten(out, m, "", i)
	}
	return out
}

func flatten(out []FlatMember, m Member, prefix string, top int) []FlatMember {
	name := prefix + m.Name
	if m.Type.class != ClassCompound {
		return append(out, FlatMember{Path: name, Type: m.Type, Top: top})
	}
	for _, nested := range m.Type.members {
		out = flatten(out, nested, name+MemberSeparator, top)
	}
	return out
}

// Equal reports whether two datatypes describe the same layout.
func (dt *Datatype) Equal(other *Datatype) bool {
	if dt == other {
		return true
	}
	if dt == nil || other == nil {
		return false
	}
	if dt.class != other.class || dt.size != other.size || dt.order != other.order ||
		dt.sign != other.sign || dt.charset != other.charset || dt.padding != other.padding ||
		dt.ref != other.ref || dt.tag != other.tag {
		return false
	}
	if !slices.Equal(dt.arrayDims, other.arrayDims) || !dt.base.Equal(other.base) {
		return false
	}
	if len(dt.members) != len(other.members) {
		return false
	}
	for i, m := range dt.members {
		o := other.members[i]
		if m.Name != o.Name || m.Offset != o.Offset || !m.Type.Equal(o.Type) {
			return false
		}
	}
	return dt.enum.Equal(other.enum)
}

func (dt *Datatype) String() string {
	return dt.Description()
}
