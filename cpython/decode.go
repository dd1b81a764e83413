// ABOUTME: Generic decoding of fixed-layout structures from fetched target memory
// ABOUTME: Binds raw per-version structs to capability views and assembles layout families

package cpython

import (
	"encoding/binary"
	"fmt"

	"github.com/prateek/pystate/layout"
)

// byteOrder of the modelled targets (x86-64 and arm64 Linux)
var byteOrder = binary.LittleEndian

// pointerSize is the width of a target pointer in bytes
const pointerSize = 8

// decoder turns a fetched buffer into one capability view
type decoder[V any] struct {
	size   int
	decode func(b []byte) (V, error)
}

// viewOf builds a decoder for raw struct T. The fetch size is the encoded
// size of T; conv maps the decoded struct onto a view.
func viewOf[T any, V any](name string, conv func(*T) V) decoder[V] {
	var zero T
	return decoder[V]{
		size: binary.Size(&zero),
		decode: func(b []byte) (V, error) {
			var raw T
			if err := decodeStruct(name, b, &raw); err != nil {
				var none V
				return none, err
			}
			return conv(&raw), nil
		},
	}
}

// decodeStruct checks the buffer length before decoding into v
func decodeStruct(name string, b []byte, v any) error {
	need := binary.Size(v)
	if need < 0 {
		return fmt.Errorf("%w: %s has no fixed size", layout.ErrMalformedLayout, name)
	}
	if len(b) < need {
		return fmt.Errorf("%w: %s needs %d bytes, got %d", layout.ErrMalformedLayout, name, need, len(b))
	}
	if _, err := binary.Decode(b[:need], byteOrder, v); err != nil {
		return fmt.Errorf("%w: %s: %v", layout.ErrMalformedLayout, name, err)
	}
	return nil
}

// family is one version's complete set of decoders
type family struct {
	interpreter decoder[layout.InterpreterState]
	thread      decoder[layout.ThreadState]
	frame       decoder[layout.FrameObject]
	code        decoder[layout.CodeObject]
	str         decoder[layout.StringObject]
	bytes       decoder[layout.BytesObject]
	tuple       decoder[layout.TupleObject]
	list        decoder[layout.ListObject]
	object      decoder[layout.Object]
	typ         decoder[layout.TypeObject]
}

// Ensure family implements Layout
var _ layout.Layout = (*family)(nil)

// Size returns the number of bytes to fetch for kind k
func (f *family) Size(k layout.Kind) int {
	switch k {
	case layout.KindInterpreter:
		return f.interpreter.size
	case layout.KindThread:
		return f.thread.size
	case layout.KindFrame:
		return f.frame.size
	case layout.KindCode:
		return f.code.size
	case layout.KindString:
		return f.str.size
	case layout.KindBytes:
		return f.bytes.size
	case layout.KindTuple:
		return f.tuple.size
	case layout.KindList:
		return f.list.size
	case layout.KindObject:
		return f.object.size
	case layout.KindType:
		return f.typ.size
	default:
		return 0
	}
}

func (f *family) Interpreter(b []byte) (layout.InterpreterState, error) {
	return f.interpreter.decode(b)
}

func (f *family) Thread(b []byte) (layout.ThreadState, error) {
	return f.thread.decode(b)
}

func (f *family) Frame(b []byte) (layout.FrameObject, error) {
	return f.frame.decode(b)
}

func (f *family) Code(b []byte) (layout.CodeObject, error) {
	return f.code.decode(b)
}

func (f *family) String(b []byte) (layout.StringObject, error) {
	return f.str.decode(b)
}

func (f *family) Bytes(b []byte) (layout.BytesObject, error) {
	return f.bytes.decode(b)
}

func (f *family) Tuple(b []byte) (layout.TupleObject, error) {
	return f.tuple.decode(b)
}

func (f *family) List(b []byte) (layout.ListObject, error) {
	return f.list.decode(b)
}

func (f *family) Object(b []byte) (layout.Object, error) {
	return f.object.decode(b)
}

func (f *family) Type(b []byte) (layout.TypeObject, error) {
	return f.typ.decode(b)
}
