// ABOUTME: Six-bit chunked varints used by the compact line table
// ABOUTME: Decoding is bounds checked; encoders exist for building tables

package linetable

import (
	"errors"
	"fmt"
)

var (
	// ErrTruncated is returned when a varint runs past the end of the table
	ErrTruncated = errors.New("linetable: truncated varint")
)

const (
	chunkBits    = 6
	chunkMask    = 0x3f
	continuation = 0x40
)

// ReadVarint decodes an unsigned varint starting at index and returns the
// value together with the index of the next unread byte. Each byte carries
// six value bits, least significant chunk first; bit 6 marks continuation.
func ReadVarint(table []byte, index int) (uint64, int, error) {
	if index < 0 || index >= len(table) {
		return 0, index, fmt.Errorf("%w at offset %d", ErrTruncated, index)
	}

	b := table[index]
	index++
	value := uint64(b & chunkMask)
	shift := uint(0)

	for b&continuation != 0 {
		if index >= len(table) {
			return 0, index, fmt.Errorf("%w at offset %d", ErrTruncated, index)
		}
		b = table[index]
		index++
		shift += chunkBits
		value += uint64(b&chunkMask) << shift
	}
	return value, index, nil
}

// ReadSignedVarint decodes a varint whose low bit is the sign flag
func ReadSignedVarint(table []byte, index int) (int64, int, error) {
	u, next, err := ReadVarint(table, index)
	if err != nil {
		return 0, next, err
	}
	if u&1 != 0 {
		return -int64(u >> 1), next, nil
	}
	return int64(u >> 1), next, nil
}

// AppendVarint appends the encoding of v to dst
func AppendVarint(dst []byte, v uint64) []byte {
	for v >= continuation {
		dst = append(dst, byte(v&chunkMask)|continuation)
		v >>= chunkBits
	}
	return append(dst, byte(v))
}

// AppendSignedVarint appends the sign-in-low-bit encoding of v to dst
func AppendSignedVarint(dst []byte, v int64) []byte {
	if v < 0 {
		return AppendVarint(dst, uint64(-v)<<1|1)
	}
	return AppendVarint(dst, uint64(v)<<1)
}
