// ABOUTME: Structure layouts for CPython 3.7
// ABOUTME: Interpreter ids, a longer thread state and a slimmer frame object arrive here

package cpython

import "github.com/prateek/pystate/layout"

type interpreterState37 struct {
	Next       uint64
	TstateHead uint64
	ID         int64
	IDRefcount int64
	IDMutex    uint64
	Modules    uint64
}

// threadState37 is PyThreadState from 3.7 through 3.10
type threadState37 struct {
	Prev     uint64
	Next     uint64
	Interp   uint64
	Frame    uint64
	_        [144]byte // recursion_depth .. async_exc
	ThreadID uint64
}

// frame37 is PyFrameObject from 3.7 through 3.9
type frame37 struct {
	Base         pyVarObject
	Back         uint64
	Code         uint64
	_            [48]byte // f_builtins .. f_trace
	TraceLines   int8
	TraceOpcodes int8
	_            [6]byte
	Gen          uint64
	Lasti        int32
	Lineno       int32
}

var (
	threads37 = viewOf("PyThreadState", func(s *threadState37) layout.ThreadState {
		return directThread{
			next:     layout.Address(s.Next),
			interp:   layout.Address(s.Interp),
			frame:    layout.Address(s.Frame),
			threadID: s.ThreadID,
		}
	})

	frames37 = viewOf("PyFrameObject", func(f *frame37) layout.FrameObject {
		return heapFrame{
			code:  layout.Address(f.Code),
			back:  layout.Address(f.Back),
			lasti: f.Lasti,
		}
	})
)

var v37 = &family{
	interpreter: viewOf("PyInterpreterState", func(s *interpreterState37) layout.InterpreterState {
		return interpreterView{
			head:    layout.Address(s.TstateHead),
			modules: layout.Address(s.Modules),
		}
	}),
	thread: threads37,
	frame:  frames37,
	code:   codes36,
	str:    unicodeStrings,
	bytes:  bytesObjects,
	tuple:  tuples,
	list:   lists,
	object: objects,
	typ:    types,
}

func init() {
	layout.Register(layout.V3_7, v37)
}
