package datatype

import "errors"

// ErrInvalidDatatype is returned when a descriptor is malformed.
var ErrInvalidDatatype = errors.New("datatype: invalid datatype")
