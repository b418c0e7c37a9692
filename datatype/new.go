package datatype

import (
	"fmt"
	"slices"

	"go.uber.org/multierr"
)

// checker collects every problem with a descriptor before failing.
type checker struct {
	err error
}

func (c *checker) check(ok bool, format string, args ...any) {
	if !ok {
		c.err = multierr.Append(c.err, fmt.Errorf(format, args...))
	}
}

func (c *checker) result(what string) error {
	if c.err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", ErrInvalidDatatype, what, c.err)
}

func (c *checker) size(size int, allowed ...int) {
	c.check(size == Native || slices.Contains(allowed, size),
		"size %d not one of %v or native", size, allowed)
}

func (c *checker) order(order ByteOrder, size int) {
	c.check(order.valid(), "invalid byte order %d", order)
	c.check(order != OrderNone || size == 1, "byte order none requires a 1-byte size, got %d", size)
}

func (c *checker) sign(sign Sign) {
	c.check(sign.valid(), "invalid sign %d", sign)
}

// NewInteger returns an integer datatype of 1, 2, 4 or 8 bytes, or Native.
func NewInteger(size int, order ByteOrder, sign Sign) (*Datatype, error) {
	var c checker
	c.size(size, 1, 2, 4, 8)
	c.order(order, size)
	c.check(order != OrderVAX, "VAX byte order is only defined for floats")
	c.sign(sign)
	if err := c.result("integer"); err != nil {
		return nil, err
	}
	return &Datatype{class: ClassInteger, size: size, order: order, sign: sign}, nil
}

// NewFloat returns an IEEE float datatype of 2, 4 or 8 bytes, or Native.
func NewFloat(size int, order ByteOrder) (*Datatype, error) {
	var c checker
	c.size(size, 2, 4, 8)
	c.order(order, size)
	if err := c.result("float"); err != nil {
		return nil, err
	}
	return &Datatype{class: ClassFloat, size: size, order: order, sign: SignTwos}, nil
}

// NewChar returns a single-byte character datatype.
func NewChar(sign Sign) (*Datatype, error) {
	var c checker
	c.sign(sign)
	if err := c.result("char"); err != nil {
		return nil, err
	}
	return &Datatype{class: ClassChar, size: 1, order: OrderNone, sign: sign}, nil
}

// NewString returns a fixed-length string datatype, or a variable-length
// one when size is Native.
func NewString(size int, charset Charset, padding Padding) (*Datatype, error) {
	var c checker
	c.check(size > 0 || size == Native, "string size %d must be positive or native", size)
	c.check(charset <= CharsetUTF8, "invalid charset %d", charset)
	c.check(padding <= PadSpacePad, "invalid padding %d", padding)
	if err := c.result("string"); err != nil {
		return nil, err
	}
	return &Datatype{class: ClassString, size: size, order: OrderNone, sign: SignUnsigned,
		charset: charset, padding: padding}, nil
}

// NewBitfield returns a bitfield datatype. Bitfields are always unsigned.
func NewBitfield(size int, order ByteOrder) (*Datatype, error) {
	var c checker
	c.size(size, 1, 2, 4, 8)
	c.order(order, size)
	c.check(order != OrderVAX, "VAX byte order is only defined for floats")
	if err := c.result("bitfield"); err != nil {
		return nil, err
	}
	return &Datatype{class: ClassBitfield, size: size, order: order, sign: SignUnsigned}, nil
}

// NewOpaque returns an opaque datatype of size uninterpreted bytes.
func NewOpaque(size int, tag string) (*Datatype, error) {
	var c checker
	c.check(size > 0, "opaque size %d must be positive", size)
	if err := c.result("opaque"); err != nil {
		return nil, err
	}
	return &Datatype{class: ClassOpaque, size: size, order: OrderNone, sign: SignUnsigned, tag: tag}, nil
}

// NewReference returns an object (8-byte) or region (12-byte) reference.
func NewReference(kind RefKind) (*Datatype, error) {
	switch kind {
	case RefObject:
		return &Datatype{class: ClassReference, size: 8, order: OrderLE, sign: SignUnsigned, ref: kind}, nil
	case RefRegion:
		return &Datatype{class: ClassReference, size: 12, order: OrderLE, sign: SignUnsigned, ref: kind}, nil
	}
	return nil, fmt.Errorf("%w: reference: invalid kind %d", ErrInvalidDatatype, kind)
}

// NewTime returns a time datatype of 4 or 8 bytes.
func NewTime(size int, order ByteOrder) (*Datatype, error) {
	var c checker
	c.size(size, 4, 8)
	c.order(order, size)
	c.check(order != OrderVAX, "VAX byte order is only defined for floats")
	if err := c.result("time"); err != nil {
		return nil, err
	}
	return &Datatype{class: ClassTime, size: size, order: order, sign: SignTwos}, nil
}

// NewEnum returns an enum over an integer of the given width. A nil members
// map is treated as empty, so every value renders numerically.
func NewEnum(size int, order ByteOrder, sign Sign, members *EnumMap) (*Datatype, error) {
	var c checker
	c.size(size, 1, 2, 4, 8)
	c.order(order, size)
	c.check(order != OrderVAX, "VAX byte order is only defined for floats")
	c.sign(sign)
	if err := c.result("enum"); err != nil {
		return nil, err
	}
	if members == nil {
		members = NewEnumMap()
	}
	return &Datatype{class: ClassEnum, size: size, order: order, sign: sign, enum: members}, nil
}

// NewArray returns a fixed-size array of base with the given extents.
func NewArray(base *Datatype, dims ...int) (*Datatype, error) {
	var c checker
	c.check(base != nil, "array base type is required")
	c.check(len(dims) > 0, "array needs at least one dimension")
	for i, d := range dims {
		c.check(d > 0, "array dimension %d has extent %d", i, d)
	}
	if base != nil {
		c.check(base.ElementSize() > 0, "array base %s has no fixed size", base.class)
	}
	if err := c.result("array"); err != nil {
		return nil, err
	}
	dt := &Datatype{class: ClassArray, order: base.order, sign: base.sign,
		base: base, arrayDims: slices.Clone(dims)}
	dt.size = dt.NumElements() * base.ElementSize()
	return dt, nil
}

// NewVarLen returns a variable-length sequence of base.
func NewVarLen(base *Datatype) (*Datatype, error) {
	if base == nil {
		return nil, fmt.Errorf("%w: vlen: base type is required", ErrInvalidDatatype)
	}
	return &Datatype{class: ClassVarLen, size: Native, order: base.order, sign: base.sign, base: base}, nil
}

// NewCompound returns a compound datatype with members at their declared
// offsets. The size is the end of the furthest member.
func NewCompound(members ...Member) (*Datatype, error) {
	var c checker
	c.check(len(members) > 0, "compound needs at least one member")
	seen := make(map[string]bool, len(members))
	size := 0
	for i, m := range members {
		c.check(m.Name != "", "member %d has no name", i)
		c.check(!seen[m.Name], "duplicate member name %q", m.Name)
		seen[m.Name] = true
		c.check(m.Offset >= 0, "member %q has negative offset %d", m.Name, m.Offset)
		if m.Type == nil {
			c.check(false, "member %q has no type", m.Name)
			continue
		}
		n := m.Type.ElementSize()
		c.check(n > 0, "member %q of class %s has no fixed size", m.Name, m.Type.class)
		size = max(size, m.Offset+n)
	}
	if err := c.result("compound"); err != nil {
		return nil, err
	}
	return &Datatype{class: ClassCompound, size: size, order: OrderNone,
		sign: SignUnsigned, members: slices.Clone(members)}, nil
}

// NewPackedCompound is like NewCompound but ignores the members' offsets and
// lays them out back to back in declaration order.
func NewPackedCompound(members ...Member) (*Datatype, error) {
	packed := slices.Clone(members)
	offset := 0
	for i := range packed {
		packed[i].Offset = offset
		if packed[i].Type != nil {
			offset += packed[i].Type.ElementSize()
		}
	}
	return NewCompound(packed...)
}
