package render

import (
	"strconv"

	"github.com/robert-malhotra/go-hdfobject/datatype"
)

// EnumLabel returns the label for raw, or raw as decimal text when the map
// has no such value.
func EnumLabel(raw int64, members *datatype.EnumMap) string {
	key := strconv.FormatInt(raw, 10)
	if label, ok := members.Label(key); ok {
		return label
	}
	return key
}

func enumLabelUnsigned(raw uint64, members *datatype.EnumMap) string {
	key := strconv.FormatUint(raw, 10)
	if label, ok := members.Label(key); ok {
		return label
	}
	return key
}
