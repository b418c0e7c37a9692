package binary

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"

	"github.com/robert-malhotra/go-hdfobject/datatype"
)

func TestReaderReadUint16(t *testing.T) {
	data := bytes.NewReader([]byte{0x02, 0x01, 0xFF, 0xFF})
	r := NewReader(data, DefaultConfig())

	v, err := r.ReadUint16()
	if err != nil {
		t.Fatalf("ReadUint16 failed: %v", err)
	}
	if v != 0x0102 {
		t.Errorf("expected 0x0102, got 0x%04x", v)
	}

	v, err = r.ReadUint16()
	if err != nil {
		t.Fatalf("ReadUint16 failed: %v", err)
	}
	if v != 0xFFFF {
		t.Errorf("expected 0xFFFF, got 0x%04x", v)
	}
	if r.Pos() != 4 {
		t.Errorf("expected position 4, got %d", r.Pos())
	}
}

func TestReaderBigEndian(t *testing.T) {
	data := bytes.NewReader([]byte{0x00, 0x00, 0x00, 0x01, 0x3F, 0x80, 0x00, 0x00})
	r := NewReader(data, Config{ByteOrder: binary.BigEndian})

	v, err := r.ReadUint32()
	if err != nil {
		t.Fatalf("ReadUint32 failed: %v", err)
	}
	if v != 1 {
		t.Errorf("expected 1, got %d", v)
	}
	bits, err := r.ReadUintN(4)
	if err != nil {
		t.Fatalf("ReadUintN failed: %v", err)
	}
	if bits != 0x3F800000 {
		t.Errorf("expected 0x3F800000, got 0x%08x", bits)
	}
}

func TestReaderOddWidth(t *testing.T) {
	le := NewReader(bytes.NewReader([]byte{0x01, 0x02, 0x03}), DefaultConfig())
	if v, _ := le.ReadUintN(3); v != 0x030201 {
		t.Errorf("little-endian 3-byte read = 0x%x", v)
	}
	be := NewReader(bytes.NewReader([]byte{0x01, 0x02, 0x03}), Config{ByteOrder: binary.BigEndian})
	if v, _ := be.ReadUintN(3); v != 0x010203 {
		t.Errorf("big-endian 3-byte read = 0x%x", v)
	}
}

func TestReaderAt(t *testing.T) {
	data := bytes.NewReader([]byte{0x00, 0x00, 0x00, 0x00, 0x42, 0x43})
	r := NewReader(data, DefaultConfig())

	r2 := r.At(4)
	v, err := r2.ReadUint8()
	if err != nil {
		t.Fatalf("ReadUint8 failed: %v", err)
	}
	if v != 0x42 {
		t.Errorf("expected 0x42, got 0x%02x", v)
	}
	if r.Pos() != 0 {
		t.Errorf("original reader position changed to %d", r.Pos())
	}

	r2.Skip(-1)
	if v, _ := r2.ReadUint8(); v != 0x42 {
		t.Errorf("after Skip(-1) expected 0x42, got 0x%02x", v)
	}
}

func TestReaderShortRead(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{0x01, 0x02}), DefaultConfig())
	if _, err := r.ReadUint32(); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("expected io.ErrUnexpectedEOF, got %v", err)
	}
}

func TestFor(t *testing.T) {
	tests := []struct {
		order datatype.ByteOrder
		want  binary.ByteOrder
	}{
		{datatype.OrderLE, binary.LittleEndian},
		{datatype.OrderNone, binary.LittleEndian},
		{datatype.OrderBE, binary.BigEndian},
		{datatype.OrderNative, binary.NativeEndian},
	}
	for _, tt := range tests {
		got, err := For(tt.order)
		if err != nil {
			t.Fatalf("For(%s) failed: %v", tt.order, err)
		}
		if got != tt.want {
			t.Errorf("For(%s) = %v, want %v", tt.order, got, tt.want)
		}
	}

	if _, err := For(datatype.OrderVAX); !errors.Is(err, ErrUnsupportedOrder) {
		t.Errorf("expected ErrUnsupportedOrder for VAX, got %v", err)
	}
}
