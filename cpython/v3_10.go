// ABOUTME: Structure layouts for CPython 3.10
// ABOUTME: Adds the 3.10 line table and drops f_valuestack from the frame object

package cpython

import (
	"github.com/prateek/pystate/layout"
	"github.com/prateek/pystate/linetable"
)

type frame310 struct {
	Base         pyVarObject
	Back         uint64
	Code         uint64
	_            [40]byte // f_builtins .. f_valuestack
	StackDepth   int32
	TraceLines   int8
	TraceOpcodes int8
	_            [2]byte
	Gen          uint64
	Lasti        int32 // in instructions, not bytes
	Lineno       int32
}

var v310 = &family{
	interpreter: interpreters39,
	thread:      threads37,
	frame: viewOf("PyFrameObject", func(f *frame310) layout.FrameObject {
		return heapFrame{
			code:  layout.Address(f.Code),
			back:  layout.Address(f.Back),
			lasti: f.Lasti,
		}
	}),
	code:   codes38(linetable.Format310),
	str:    unicodeStrings,
	bytes:  bytesObjects,
	tuple:  tuples,
	list:   lists,
	object: objects,
	typ:    types,
}

func init() {
	layout.Register(layout.V3_10, v310)
}
