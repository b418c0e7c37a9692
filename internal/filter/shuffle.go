package filter

// Shuffle implements the byte shuffle filter.
type Shuffle struct {
	elemSize int
}

// NewShuffle creates a shuffle filter. Param 0 is the element size in bytes.
func NewShuffle(params []uint32) *Shuffle {
	elemSize := 1
	if len(params) > 0 && params[0] > 0 {
		elemSize = int(params[0])
	}
	return &Shuffle{elemSize: elemSize}
}

func (f *Shuffle) Name() string { return NameShuffle }

// Encode groups byte j of every element together. Trailing bytes that do
// not fill an element are left in place.
func (f *Shuffle) Encode(input []byte) ([]byte, error) {
	if f.elemSize <= 1 {
		return input, nil
	}
	numElems := len(input) / f.elemSize
	if numElems == 0 {
		return input, nil
	}
	output := make([]byte, len(input))
	for i := 0; i < numElems; i++ {
		for j := 0; j < f.elemSize; j++ {
			output[j*numElems+i] = input[i*f.elemSize+j]
		}
	}
	copy(output[numElems*f.elemSize:], input[numElems*f.elemSize:])
	return output, nil
}

// Decode reverses Encode.
// Input is organized as: [all byte 0s][all byte 1s]...[all byte N-1s]
// Output is organized as: [elem0][elem1]...[elemM]
func (f *Shuffle) Decode(input []byte) ([]byte, error) {
	if f.elemSize <= 1 {
		return input, nil
	}
	numElems := len(input) / f.elemSize
	if numElems == 0 {
		return input, nil
	}
	output := make([]byte, len(input))
	for i := 0; i < numElems; i++ {
		for j := 0; j < f.elemSize; j++ {
			output[i*f.elemSize+j] = input[j*numElems+i]
		}
	}
	copy(output[numElems*f.elemSize:], input[numElems*f.elemSize:])
	return output, nil
}

// SetElementSize sets the element size when it is only known once the
// datatype is.
func (f *Shuffle) SetElementSize(size int) {
	f.elemSize = size
}
