// ABOUTME: Converts raw string payloads into Go strings by character width
// ABOUTME: Latin-1, UCS-2 and UCS-4 go through golang.org/x/text decoders

package pystate

import (
	"fmt"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"

	"github.com/prateek/pystate/layout"
)

// Character widths of the flexible string representation
const (
	Kind1Byte uint32 = 1
	Kind2Byte uint32 = 2
	Kind4Byte uint32 = 4
)

var textEncodings = map[uint32]encoding.Encoding{
	Kind1Byte: charmap.ISO8859_1,
	Kind2Byte: unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM),
	Kind4Byte: utf32.UTF32(utf32.LittleEndian, utf32.IgnoreBOM),
}

// DecodeText decodes a string payload of the given character width. ASCII
// payloads are returned as is.
func DecodeText(kind uint32, ascii bool, data []byte) (string, error) {
	if ascii && kind == Kind1Byte {
		return string(data), nil
	}

	enc, ok := textEncodings[kind]
	if !ok {
		return "", fmt.Errorf("%w: string kind %d", layout.ErrMalformedLayout, kind)
	}
	if len(data)%int(kind) != 0 {
		return "", fmt.Errorf("%w: %d bytes is not a whole number of %d-byte characters",
			layout.ErrMalformedLayout, len(data), kind)
	}

	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decode %d-byte text: %w", kind, err)
	}
	return string(out), nil
}
