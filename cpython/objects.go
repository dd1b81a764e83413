// ABOUTME: Object, type, sequence, bytes and string layouts shared across versions
// ABOUTME: Payload addresses are computed from each struct's own field offsets

package cpython

import (
	"encoding/binary"
	"unsafe"

	"github.com/prateek/pystate/layout"
)

// pyObject is PyObject_HEAD
type pyObject struct {
	RefCnt int64
	Type   uint64
}

// pyVarObject is PyObject_VAR_HEAD
type pyVarObject struct {
	Base pyObject
	Size int64
}

// pyTypeObject covers PyTypeObject up to tp_dictoffset. The prefix has kept
// its shape from 2.7 through 3.12.
type pyTypeObject struct {
	Base       pyVarObject
	Name       uint64    // tp_name
	_          [136]byte // tp_basicsize .. tp_as_buffer
	Flags      uint64    // tp_flags
	_          [112]byte // tp_doc .. tp_descr_set
	DictOffset int64     // tp_dictoffset
}

type pyTupleObject struct {
	Base pyVarObject
	Item [1]uint64
}

type pyListObject struct {
	Base      pyVarObject
	Item      uint64
	Allocated int64
}

type pyBytesObject struct {
	Base pyVarObject
	Hash int64
	Sval [1]byte
	_    [7]byte
}

// pyStringObject27 doubles as str and bytes on 2.7
type pyStringObject27 struct {
	Base  pyVarObject
	Hash  int64
	State int32
	Sval  [1]byte
	_     [3]byte
}

// Unicode objects, 3.3 through 3.11

type pyASCIIObject struct {
	Base   pyObject
	Length int64
	Hash   int64
	State  uint32
	_      [4]byte
	Wstr   uint64
}

type pyCompactUnicodeObject struct {
	ASCII      pyASCIIObject
	UTF8Length int64
	UTF8       uint64
	WstrLength int64
}

type pyUnicodeObject struct {
	Compact pyCompactUnicodeObject
	Data    uint64 // data.any
}

// Unicode objects from 3.12, wstr removed

type pyASCIIObject312 struct {
	Base   pyObject
	Length int64
	Hash   int64
	State  uint32
	_      [4]byte
}

type pyCompactUnicodeObject312 struct {
	ASCII      pyASCIIObject312
	UTF8Length int64
	UTF8       uint64
}

type pyUnicodeObject312 struct {
	Compact pyCompactUnicodeObject312
	Data    uint64 // data.any
}

// Unicode state bitfield: interned:2 kind:3 compact:1 ascii:1
const (
	stateKindShift = 2
	stateKindMask  = 7
	stateCompact   = 1 << 5
	stateASCII     = 1 << 6
)

var (
	tupleItemOffset  = unsafe.Offsetof(pyTupleObject{}.Item)
	bytesSvalOffset  = unsafe.Offsetof(pyBytesObject{}.Sval)
	string27SvalOffs = unsafe.Offsetof(pyStringObject27{}.Sval)

	asciiHeaderSize      = binary.Size(pyASCIIObject{})
	compactHeaderSize    = binary.Size(pyCompactUnicodeObject{})
	asciiHeaderSize312   = binary.Size(pyASCIIObject312{})
	compactHeaderSize312 = binary.Size(pyCompactUnicodeObject312{})
)

// Decoders shared by every version that uses these layouts
var (
	objects = viewOf("PyObject", func(o *pyObject) layout.Object {
		return objectView{typ: layout.Address(o.Type)}
	})

	types = viewOf("PyTypeObject", func(t *pyTypeObject) layout.TypeObject {
		return typeView{
			name:       layout.Address(t.Name),
			dictOffset: t.DictOffset,
			flags:      t.Flags,
		}
	})

	tuples = viewOf("PyTupleObject", func(t *pyTupleObject) layout.TupleObject {
		return tupleView{size: t.Base.Size, itemOffset: tupleItemOffset}
	})

	lists = viewOf("PyListObject", func(l *pyListObject) layout.ListObject {
		return listView{size: l.Base.Size, items: layout.Address(l.Item)}
	})

	bytesObjects = viewOf("PyBytesObject", func(b *pyBytesObject) layout.BytesObject {
		return bytesView{size: b.Base.Size, svalOffset: bytesSvalOffset}
	})

	unicodeStrings = viewOf("PyUnicodeObject", func(u *pyUnicodeObject) layout.StringObject {
		return unicodeView{
			length:        u.Compact.ASCII.Length,
			state:         u.Compact.ASCII.State,
			data:          layout.Address(u.Data),
			asciiHeader:   asciiHeaderSize,
			compactHeader: compactHeaderSize,
		}
	})

	unicodeStrings312 = viewOf("PyUnicodeObject", func(u *pyUnicodeObject312) layout.StringObject {
		return unicodeView{
			length:        u.Compact.ASCII.Length,
			state:         u.Compact.ASCII.State,
			data:          layout.Address(u.Data),
			asciiHeader:   asciiHeaderSize312,
			compactHeader: compactHeaderSize312,
		}
	})

	strings27 = viewOf("PyStringObject", func(s *pyStringObject27) layout.StringObject {
		return legacyStringView{size: s.Base.Size, svalOffset: string27SvalOffs}
	})

	bytes27 = viewOf("PyStringObject", func(s *pyStringObject27) layout.BytesObject {
		return bytesView{size: s.Base.Size, svalOffset: string27SvalOffs}
	})
)

type objectView struct {
	typ layout.Address
}

func (v objectView) Type() layout.Address { return v.typ }

type typeView struct {
	name       layout.Address
	dictOffset int64
	flags      uint64
}

func (v typeView) Name() layout.Address { return v.name }
func (v typeView) DictOffset() int64    { return v.dictOffset }
func (v typeView) Flags() uint64        { return v.flags }

type tupleView struct {
	size       int64
	itemOffset uintptr
}

func (v tupleView) Size() int { return int(v.size) }

func (v tupleView) Address(base layout.Address, index int) layout.Address {
	return base + layout.Address(v.itemOffset) + layout.Address(index*pointerSize)
}

type listView struct {
	size  int64
	items layout.Address
}

func (v listView) Size() int             { return int(v.size) }
func (v listView) Items() layout.Address { return v.items }

type bytesView struct {
	size       int64
	svalOffset uintptr
}

func (v bytesView) Size() int { return int(v.size) }

func (v bytesView) Address(base layout.Address) layout.Address {
	return base + layout.Address(v.svalOffset)
}

// legacyStringView is a 2.7 str: always one byte per character, inline
type legacyStringView struct {
	size       int64
	svalOffset uintptr
}

func (v legacyStringView) ASCII() bool  { return true }
func (v legacyStringView) Kind() uint32 { return 1 }
func (v legacyStringView) Size() int    { return int(v.size) }

func (v legacyStringView) Address(base layout.Address) layout.Address {
	return base + layout.Address(v.svalOffset)
}

// unicodeView is a 3.3+ str with the compact/ascii/kind representation
type unicodeView struct {
	length        int64
	state         uint32
	data          layout.Address
	asciiHeader   int
	compactHeader int
}

func (v unicodeView) ASCII() bool   { return v.state&stateASCII != 0 }
func (v unicodeView) Compact() bool { return v.state&stateCompact != 0 }
func (v unicodeView) Kind() uint32  { return (v.state >> stateKindShift) & stateKindMask }
func (v unicodeView) Size() int     { return int(v.length) }

// Address resolves where the characters live. Non-compact strings keep them
// behind data.any; compact strings store them right after their header.
func (v unicodeView) Address(base layout.Address) layout.Address {
	if !v.Compact() {
		return v.data
	}
	if v.ASCII() {
		return base + layout.Address(v.asciiHeader)
	}
	return base + layout.Address(v.compactHeader)
}
