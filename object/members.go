package object

import (
	"fmt"

	"github.com/robert-malhotra/go-hdfobject/datatype"
	"github.com/robert-malhotra/go-hdfobject/internal/decode"
)

// Member selection applies to the top-level members of a compound dataset.
// Nested compound members are always decoded whole once their parent is
// selected. Changing the selection clears loaded data.

// NumMembers returns the number of top-level compound members.
func (d *Dataset) NumMembers() int {
	return len(d.selected)
}

// MemberNames returns the top-level member names in declaration order.
func (d *Dataset) MemberNames() []string {
	names := make([]string, len(d.selected))
	for i := range names {
		names[i] = d.dtype.Member(i).Name
	}
	return names
}

// MemberTypes returns the top-level member types in declaration order.
func (d *Dataset) MemberTypes() []*datatype.Datatype {
	types := make([]*datatype.Datatype, len(d.selected))
	for i := range types {
		types[i] = d.dtype.Member(i).Type
	}
	return types
}

// SelectMember adds member i to the selection. Out-of-range indices are
// ignored.
func (d *Dataset) SelectMember(i int) {
	d.setMember(i, true)
}

// UnselectMember removes member i from the selection.
func (d *Dataset) UnselectMember(i int) {
	d.setMember(i, false)
}

func (d *Dataset) setMember(i int, sel bool) {
	if i < 0 || i >= len(d.selected) || d.selected[i] == sel {
		return
	}
	d.selected[i] = sel
	d.ClearData()
}

// SetAllMemberSelection selects or unselects every member.
func (d *Dataset) SetAllMemberSelection(sel bool) {
	for i := range d.selected {
		d.setMember(i, sel)
	}
}

// IsMemberSelected reports whether member i is selected.
func (d *Dataset) IsMemberSelected(i int) bool {
	return i >= 0 && i < len(d.selected) && d.selected[i]
}

// SelectedMemberCount returns the number of selected members.
func (d *Dataset) SelectedMemberCount() int {
	n := 0
	for _, s := range d.selected {
		if s {
			n++
		}
	}
	return n
}

// SelectMembers selects exactly the named top-level members.
func (d *Dataset) SelectMembers(names ...string) error {
	want := make([]bool, len(d.selected))
	for _, name := range names {
		found := false
		for i := range want {
			if d.dtype.Member(i).Name == name {
				want[i], found = true, true
				break
			}
		}
		if !found {
			return fmt.Errorf("%s: %w: no member %q", d.Path(), ErrInvalidSelection, name)
		}
	}
	for i, sel := range want {
		d.setMember(i, sel)
	}
	return nil
}

func (d *Dataset) memberFilter() decode.Filter {
	selected := append([]bool(nil), d.selected...)
	return func(i int, _ datatype.Member) bool {
		return selected[i]
	}
}
