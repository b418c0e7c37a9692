package datatype

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Spec is the serializable form of a Datatype, used for YAML descriptors and
// for datatype records persisted next to raw data.
type Spec struct {
	Class   string       `yaml:"class" msgpack:"class"`
	Size    int          `yaml:"size,omitempty" msgpack:"size,omitempty"`
	Order   string       `yaml:"order,omitempty" msgpack:"order,omitempty"`
	Sign    string       `yaml:"sign,omitempty" msgpack:"sign,omitempty"`
	Charset string       `yaml:"charset,omitempty" msgpack:"charset,omitempty"`
	Padding string       `yaml:"padding,omitempty" msgpack:"padding,omitempty"`
	Tag     string       `yaml:"tag,omitempty" msgpack:"tag,omitempty"`
	Ref     string       `yaml:"ref,omitempty" msgpack:"ref,omitempty"`
	Dims    []int        `yaml:"dims,omitempty" msgpack:"dims,omitempty"`
	Base    *Spec        `yaml:"base,omitempty" msgpack:"base,omitempty"`
	Members []MemberSpec `yaml:"members,omitempty" msgpack:"members,omitempty"`
	Enum    EnumMembers  `yaml:"enum,omitempty" msgpack:"enum,omitempty"`
}

// MemberSpec describes one compound member. When no member of a compound
// sets Offset, members are packed in order.
type MemberSpec struct {
	Name   string `yaml:"name" msgpack:"name"`
	Offset *int   `yaml:"offset,omitempty" msgpack:"offset,omitempty"`
	Type   Spec   `yaml:"type" msgpack:"type"`
}

var (
	specClasses = map[string]Class{}
	specOrders  = map[string]ByteOrder{"le": OrderLE, "be": OrderBE, "vax": OrderVAX, "none": OrderNone, "native": OrderNative}
	specSigns   = map[string]Sign{"unsigned": SignUnsigned, "signed": SignTwos, "native": SignNative}
)

func init() {
	for c, name := range classNames {
		specClasses[name] = c
	}
}

// ParseYAML decodes a YAML descriptor into a Datatype.
func ParseYAML(data []byte) (*Datatype, error) {
	var s Spec
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: yaml: %w", ErrInvalidDatatype, err)
	}
	return FromSpec(&s)
}

// FromSpec builds a Datatype from its serializable form. A zero size means
// Native.
func FromSpec(s *Spec) (*Datatype, error) {
	class, ok := specClasses[s.Class]
	if !ok {
		return nil, fmt.Errorf("%w: unknown class %q", ErrInvalidDatatype, s.Class)
	}
	size := s.Size
	if size == 0 {
		size = Native
	}
	order, err := s.order(class, size)
	if err != nil {
		return nil, err
	}
	sign, ok := specSigns[s.Sign]
	if s.Sign == "" {
		sign, ok = SignTwos, true
	}
	if !ok {
		return nil, fmt.Errorf("%w: unknown sign %q", ErrInvalidDatatype, s.Sign)
	}

	switch class {
	case ClassInteger:
		return NewInteger(size, order, sign)
	case ClassFloat:
		return NewFloat(size, order)
	case ClassChar:
		return NewChar(sign)
	case ClassString:
		charset := CharsetASCII
		if s.Charset == "utf8" || s.Charset == "utf-8" {
			charset = CharsetUTF8
		}
		padding := PadNullTerm
		switch s.Padding {
		case "nullpad":
			padding = PadNullPad
		case "spacepad":
			padding = PadSpacePad
		}
		return NewString(size, charset, padding)
	case ClassBitfield:
		return NewBitfield(size, order)
	case ClassOpaque:
		return NewOpaque(s.Size, s.Tag)
	case ClassReference:
		if s.Ref == "region" {
			return NewReference(RefRegion)
		}
		return NewReference(RefObject)
	case ClassTime:
		return NewTime(size, order)
	case ClassEnum:
		members, err := newEnumMapChecked(s.Enum)
		if err != nil {
			return nil, err
		}
		return NewEnum(size, order, sign, members)
	case ClassArray, ClassVarLen:
		if s.Base == nil {
			return nil, fmt.Errorf("%w: %s needs a base type", ErrInvalidDatatype, class)
		}
		base, err := FromSpec(s.Base)
		if err != nil {
			return nil, err
		}
		if class == ClassVarLen {
			return NewVarLen(base)
		}
		return NewArray(base, s.Dims...)
	case ClassCompound:
		return compoundFromSpec(s.Members)
	}
	return nil, fmt.Errorf("%w: class %s cannot be described", ErrInvalidDatatype, class)
}

func (s *Spec) order(class Class, size int) (ByteOrder, error) {
	if s.Order == "" {
		if size == 1 || class == ClassString || class == ClassOpaque || class == ClassChar {
			return OrderNone, nil
		}
		return OrderLE, nil
	}
	order, ok := specOrders[s.Order]
	if !ok {
		return 0, fmt.Errorf("%w: unknown byte order %q", ErrInvalidDatatype, s.Order)
	}
	return order, nil
}

func compoundFromSpec(specs []MemberSpec) (*Datatype, error) {
	members := make([]Member, len(specs))
	explicit := 0
	for i := range specs {
		t, err := FromSpec(&specs[i].Type)
		if err != nil {
			return nil, fmt.Errorf("member %q: %w", specs[i].Name, err)
		}
		members[i] = Member{Name: specs[i].Name, Type: t}
		if specs[i].Offset != nil {
			members[i].Offset = *specs[i].Offset
			explicit++
		}
	}
	switch explicit {
	case 0:
		return NewPackedCompound(members...)
	case len(members):
		return NewCompound(members...)
	}
	return nil, fmt.Errorf("%w: compound members must all set an offset or none", ErrInvalidDatatype)
}

// Spec returns the serializable form of dt.
func (dt *Datatype) Spec() *Spec {
	s := &Spec{Class: dt.class.String()}
	if dt.size != Native && dt.class != ClassArray && dt.class != ClassCompound {
		s.Size = dt.size
	}
	if dt.IsInteger() || dt.class == ClassFloat || dt.class == ClassTime {
		s.Order = dt.order.String()
	}
	switch dt.class {
	case ClassInteger, ClassChar, ClassEnum:
		s.Sign = dt.sign.String()
	case ClassString:
		if dt.charset == CharsetUTF8 {
			s.Charset = "utf8"
		}
		switch dt.padding {
		case PadNullPad:
			s.Padding = "nullpad"
		case PadSpacePad:
			s.Padding = "spacepad"
		}
	case ClassOpaque:
		s.Tag = dt.tag
	case ClassReference:
		s.Size = 0
		if dt.ref == RefRegion {
			s.Ref = "region"
		}
	case ClassArray:
		s.Dims = dt.ArrayDims()
	case ClassCompound:
		for _, m := range dt.members {
			offset := m.Offset
			s.Members = append(s.Members, MemberSpec{Name: m.Name, Offset: &offset, Type: *m.Type.Spec()})
		}
	}
	if dt.class == ClassEnum {
		s.Enum = dt.enum.Members()
	}
	if dt.base != nil {
		s.Base = dt.base.Spec()
	}
	return s
}
