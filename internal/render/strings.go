package render

import (
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/robert-malhotra/go-hdfobject/datatype"
)

// FixedBytesToStrings splits b into len(b)/stride fixed-length ASCII strings.
// Each string ends at its first NUL, and trailing bytes <= 0x20 are trimmed.
// Leading whitespace is kept.
func FixedBytesToStrings(b []byte, stride int) []string {
	return FixedBytesToStringsIn(b, stride, datatype.CharsetASCII)
}

// FixedBytesToStringsIn is FixedBytesToStrings for a given character set.
// ASCII storage is read as ISO-8859-1 so high bytes stay valid UTF-8 in Go;
// invalid UTF-8 sequences become U+FFFD.
func FixedBytesToStringsIn(b []byte, stride int, cs datatype.Charset) []string {
	if stride <= 0 {
		return nil
	}
	n := len(b) / stride
	out := make([]string, n)
	dec := decoder(cs)
	for i := 0; i < n; i++ {
		out[i] = decodeFixed(b[i*stride:(i+1)*stride], dec)
	}
	return out
}

func decoder(cs datatype.Charset) *encoding.Decoder {
	if cs == datatype.CharsetUTF8 {
		return unicode.UTF8.NewDecoder()
	}
	return charmap.ISO8859_1.NewDecoder()
}

func decodeFixed(chunk []byte, dec *encoding.Decoder) string {
	for i, c := range chunk {
		if c == 0 {
			chunk = chunk[:i]
			break
		}
	}
	end := len(chunk)
	for end > 0 && chunk[end-1] <= 0x20 {
		end--
	}
	chunk = chunk[:end]
	if isASCII(chunk) {
		return string(chunk)
	}
	s, err := dec.Bytes(chunk)
	if err != nil {
		return string(chunk)
	}
	return string(s)
}

func isASCII(b []byte) bool {
	for _, c := range b {
		if c >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// StringsToFixedBytes encodes strs into len(strs)*length bytes. Longer
// strings are truncated; shorter ones are padded with NULs, or spaces for
// space-padded storage.
func StringsToFixedBytes(strs []string, length int, cs datatype.Charset, padding datatype.Padding) ([]byte, error) {
	pad := byte(0)
	if padding == datatype.PadSpacePad {
		pad = ' '
	}
	out := make([]byte, len(strs)*length)
	var enc *encoding.Encoder
	if cs == datatype.CharsetASCII {
		enc = encoding.ReplaceUnsupported(charmap.ISO8859_1.NewEncoder())
	}
	for i, s := range strs {
		b := []byte(s)
		if enc != nil && !isASCII(b) {
			var err error
			if b, err = enc.Bytes(b); err != nil {
				return nil, err
			}
		}
		if len(b) > length {
			b = b[:length]
			if cs == datatype.CharsetUTF8 {
				for len(b) > 0 && !utf8.Valid(b) {
					b = b[:len(b)-1]
				}
			}
		}
		dst := out[i*length : (i+1)*length]
		n := copy(dst, b)
		for j := n; j < length; j++ {
			dst[j] = pad
		}
	}
	return out, nil
}
