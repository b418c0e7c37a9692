package binary

import "testing"

func TestFletcher32(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  uint32
	}{
		{"empty", []byte{}, 0},
		{"abcde", []byte("abcde"), 0xF04FC729},
		{"abcdef", []byte("abcdef"), 0x56502D2A},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Fletcher32(tt.input); got != tt.want {
				t.Errorf("Fletcher32(%q) = 0x%08x, want 0x%08x", tt.input, got, tt.want)
			}
		})
	}
}

func TestFletcher32OddLength(t *testing.T) {
	// Odd-length input is zero-padded to a whole word.
	odd := []byte{0x01, 0x02, 0x03}
	even := []byte{0x01, 0x02, 0x03, 0x00}

	if Fletcher32(odd) != Fletcher32(even) {
		t.Errorf("Fletcher32 should pad odd-length input: odd=0x%08x, even=0x%08x",
			Fletcher32(odd), Fletcher32(even))
	}
}
