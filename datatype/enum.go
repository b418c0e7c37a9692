package datatype

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// EnumMember pairs an enum value, as decimal text, with its label.
type EnumMember struct {
	Value string `yaml:"value" msgpack:"value"`
	Label string `yaml:"label" msgpack:"label"`
}

// EnumMap is the ordered value-to-label table of an enum datatype.
type EnumMap struct {
	members []EnumMember
	labels  map[string]string
}

// NewEnumMap builds a map from members. Later duplicates override earlier
// labels but keep the first position.
func NewEnumMap(members ...EnumMember) *EnumMap {
	m := &EnumMap{labels: make(map[string]string, len(members))}
	for _, em := range members {
		if _, ok := m.labels[em.Value]; !ok {
			m.members = append(m.members, em)
		} else {
			for i := range m.members {
				if m.members[i].Value == em.Value {
					m.members[i].Label = em.Label
				}
			}
		}
		m.labels[em.Value] = em.Label
	}
	return m
}

// ParseEnumMembers parses the "value=label, value=label" form. Values must be
// integers; whitespace around both sides is ignored.
func ParseEnumMembers(s string) (*EnumMap, error) {
	var members []EnumMember
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		value, label, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("%w: enum member %q has no '='", ErrInvalidDatatype, pair)
		}
		members = append(members, EnumMember{Value: value, Label: strings.TrimSpace(label)})
	}
	return newEnumMapChecked(members)
}

// newEnumMapChecked normalizes every value to canonical decimal text.
func newEnumMapChecked(members []EnumMember) (*EnumMap, error) {
	out := make([]EnumMember, len(members))
	for i, em := range members {
		value := strings.TrimSpace(em.Value)
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: enum value %q: %w", ErrInvalidDatatype, value, err)
		}
		out[i] = EnumMember{Value: strconv.FormatInt(n, 10), Label: em.Label}
	}
	return NewEnumMap(out...), nil
}

// EnumMembers is the serialized member list of an enum. In YAML it may
// also be written as the "value=label, value=label" shorthand.
type EnumMembers []EnumMember

// UnmarshalYAML accepts a member sequence or the shorthand string.
func (e *EnumMembers) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		m, err := ParseEnumMembers(node.Value)
		if err != nil {
			return err
		}
		*e = m.Members()
		return nil
	}
	var members []EnumMember
	if err := node.Decode(&members); err != nil {
		return err
	}
	*e = members
	return nil
}

// Label returns the label for a value key.
func (m *EnumMap) Label(value string) (string, bool) {
	if m == nil {
		return "", false
	}
	label, ok := m.labels[value]
	return label, ok
}

// Len returns the number of members.
func (m *EnumMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.members)
}

// Members returns the members in declaration order.
func (m *EnumMap) Members() []EnumMember {
	if m == nil {
		return nil
	}
	return append([]EnumMember(nil), m.members...)
}

// Equal reports whether both maps hold the same members in the same order.
func (m *EnumMap) Equal(other *EnumMap) bool {
	if m.Len() != other.Len() {
		return false
	}
	for i, em := range m.Members() {
		if other.members[i] != em {
			return false
		}
	}
	return true
}

// String returns the "value=label, value=label" form.
func (m *EnumMap) String() string {
	var sb strings.Builder
	for i, em := range m.Members() {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(em.Value)
		sb.WriteByte('=')
		sb.WriteString(em.Label)
	}
	return sb.String()
}
