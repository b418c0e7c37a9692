package datatype

import (
	"strconv"
	"strings"
)

// Description returns a short human-readable summary such as
// "32-bit unsigned integer" or "Array [2 x 3] of 32-bit floating-point".
func (dt *Datatype) Description() string {
	var sb strings.Builder
	switch dt.class {
	case ClassChar:
		sb.WriteString("8-bit ")
		if dt.IsUnsigned() {
			sb.WriteString("unsigned ")
		}
		sb.WriteString("integer")
	case ClassInteger:
		dt.writeWidth(&sb)
		if dt.IsUnsigned() {
			sb.WriteString("unsigned ")
		}
		sb.WriteString("integer")
	case ClassFloat:
		dt.writeWidth(&sb)
		sb.WriteString("floating-point")
	case ClassString:
		if dt.size == Native {
			sb.WriteString("Variable-length string")
		} else {
			sb.WriteString("String, length = ")
			sb.WriteString(strconv.Itoa(dt.size))
		}
	case ClassReference:
		if dt.ref == RefRegion {
			sb.WriteString("Region reference")
		} else {
			sb.WriteString("Object reference")
		}
	case ClassOpaque:
		dt.writeWidth(&sb)
		sb.WriteString("opaque")
		if dt.tag != "" {
			sb.WriteString(" (" + dt.tag + ")")
		}
	case ClassBitfield:
		dt.writeWidth(&sb)
		sb.WriteString("bitfield")
	case ClassTime:
		dt.writeWidth(&sb)
		sb.WriteString("time")
	case ClassEnum:
		dt.writeWidth(&sb)
		sb.WriteString("enum")
		if dt.enum.Len() > 0 {
			sb.WriteString(" (" + dt.enum.String() + ")")
		}
	case ClassArray:
		sb.WriteString("Array [")
		for i, d := range dt.arrayDims {
			if i > 0 {
				sb.WriteString(" x ")
			}
			sb.WriteString(strconv.Itoa(d))
		}
		sb.WriteString("]")
	case ClassCompound:
		sb.WriteString("Compound {")
		for i, m := range dt.members {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(m.Name)
		}
		sb.WriteString("}")
	case ClassVarLen:
		sb.WriteString("Variable-length")
	default:
		sb.WriteString("Unknown")
	}
	if dt.base != nil {
		sb.WriteString(" of ")
		sb.WriteString(dt.base.Description())
	}
	return sb.String()
}

func (dt *Datatype) writeWidth(sb *strings.Builder) {
	if dt.size == Native {
		sb.WriteString("native ")
		return
	}
	sb.WriteString(strconv.Itoa(dt.size * 8))
	sb.WriteString("-bit ")
}
