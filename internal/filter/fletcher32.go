package filter

import (
	"fmt"

	"github.com/robert-malhotra/go-hdfobject/internal/binary"
)

// Fletcher32Filter appends a Fletcher-32 checksum on encode and verifies and
// strips it on decode.
type Fletcher32Filter struct{}

// NewFletcher32 creates a Fletcher-32 filter. It takes no params.
func NewFletcher32(params []uint32) *Fletcher32Filter {
	return &Fletcher32Filter{}
}

func (f *Fletcher32Filter) Name() string { return NameFletcher32 }

// Encode appends the little-endian checksum of input.
func (f *Fletcher32Filter) Encode(input []byte) ([]byte, error) {
	buf := binary.NewBuffer(len(input) + 4)
	w := binary.NewWriter(buf, binary.DefaultConfig())
	if err := w.WriteBytes(input); err != nil {
		return nil, err
	}
	if err := w.WriteUint32(binary.Fletcher32(input)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode verifies the checksum stored in the last 4 bytes of input and
// returns the data without it.
func (f *Fletcher32Filter) Decode(input []byte) ([]byte, error) {
	if len(input) < 4 {
		return nil, fmt.Errorf("fletcher32: input too short for checksum")
	}
	data := input[:len(input)-4]
	r := binary.NewReader(binary.WrapBuffer(input), binary.DefaultConfig()).At(int64(len(data)))
	stored, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}
	if computed := binary.Fletcher32(data); stored != computed {
		return nil, fmt.Errorf("fletcher32: checksum mismatch (stored=0x%08x, computed=0x%08x)",
			stored, computed)
	}
	return data, nil
}
