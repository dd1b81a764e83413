// ABOUTME: Structure layouts for CPython 2.7
// ABOUTME: Several of these shapes carry over unchanged into the early 3.x releases

package cpython

import (
	"github.com/prateek/pystate/layout"
	"github.com/prateek/pystate/linetable"
)

// interpreterState27 is PyInterpreterState from 2.7 through 3.6
type interpreterState27 struct {
	Next       uint64
	TstateHead uint64
	Modules    uint64
}

// threadState27 is PyThreadState for 2.7 and 3.3
type threadState27 struct {
	Next     uint64
	Interp   uint64
	Frame    uint64
	_        [120]byte // recursion_depth .. async_exc
	ThreadID uint64
}

// frame27 is PyFrameObject from 2.7 through 3.6
type frame27 struct {
	Base   pyVarObject
	Back   uint64
	Code   uint64
	_      [80]byte // f_builtins .. f_tstate (f_gen from 3.4)
	Lasti  int32
	Lineno int32
}

type code27 struct {
	Base        pyObject
	ArgCount    int32
	NLocals     int32
	StackSize   int32
	Flags       int32
	Code        uint64
	Consts      uint64
	Names       uint64
	VarNames    uint64
	FreeVars    uint64
	CellVars    uint64
	Filename    uint64
	Name        uint64
	FirstLineno int32
	_           [4]byte
	Lnotab      uint64
	ZombieFrame uint64
	WeakRefList uint64
}

var (
	interpreters27 = viewOf("PyInterpreterState", func(s *interpreterState27) layout.InterpreterState {
		return interpreterView{
			head:    layout.Address(s.TstateHead),
			modules: layout.Address(s.Modules),
		}
	})

	threads27 = viewOf("PyThreadState", func(s *threadState27) layout.ThreadState {
		return directThread{
			next:     layout.Address(s.Next),
			interp:   layout.Address(s.Interp),
			frame:    layout.Address(s.Frame),
			threadID: s.ThreadID,
		}
	})

	frames27 = viewOf("PyFrameObject", func(f *frame27) layout.FrameObject {
		return heapFrame{
			code:  layout.Address(f.Code),
			back:  layout.Address(f.Back),
			lasti: f.Lasti,
		}
	})
)

var v27 = &family{
	interpreter: interpreters27,
	thread:      threads27,
	frame:       frames27,
	code: viewOf("PyCodeObject", func(c *code27) layout.CodeObject {
		return codeView{
			name:        layout.Address(c.Name),
			filename:    layout.Address(c.Filename),
			lineTable:   layout.Address(c.Lnotab),
			varNames:    layout.Address(c.VarNames),
			firstLineno: c.FirstLineno,
			nlocals:     c.NLocals,
			argCount:    c.ArgCount,
			format:      linetable.FormatClassic,
		}
	}),
	str:    strings27,
	bytes:  bytes27,
	tuple:  tuples,
	list:   lists,
	object: objects,
	typ:    types,
}

func init() {
	layout.Register(layout.V2_7, v27)
}
