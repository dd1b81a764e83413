// ABOUTME: Structure layouts for CPython 3.11
// ABOUTME: Frames move into _PyInterpreterFrame, reached from the thread through its cframe

package cpython

import (
	"unsafe"

	"github.com/prateek/pystate/layout"
	"github.com/prateek/pystate/linetable"
)

// pythreads is the threads member of PyInterpreterState (3.11+)
type pythreads struct {
	NextUniqueID uint64
	Head         uint64
	Count        int64
	StackSize    uint64
}

type interpreterState311 struct {
	Next          uint64
	Threads       pythreads
	Runtime       uint64
	ID            int64
	IDRefcount    int64
	RequiresIDRef int32
	_             [4]byte
	IDMutex       uint64
	Initialized   int32
	Finalizing    int32
	_             [552]byte // struct _ceval_state
	_             [240]byte // struct _gc_runtime_state
	Modules       uint64
}

type threadState311 struct {
	Prev           uint64
	Next           uint64
	Interp         uint64
	_              [32]byte // _initialized .. recursion_headroom
	CFrame         uint64
	_              [88]byte // c_profilefunc .. gilstate_counter
	ThreadID       uint64
	NativeThreadID uint64
}

type cframe311 struct {
	UseTracing   uint8
	_            [7]byte
	CurrentFrame uint64
	Previous     uint64
}

type interpreterFrame311 struct {
	Func       uint64
	Globals    uint64
	Builtins   uint64
	Locals     uint64
	Code       uint64
	FrameObj   uint64
	Previous   uint64
	PrevInstr  uint64
	StackTop   int32
	IsEntry    uint8
	Owner      int8
	_          [2]byte
	LocalsPlus [1]uint64
}

type code311 struct {
	Base               pyVarObject
	Consts             uint64
	Names              uint64
	ExceptionTable     uint64
	Flags              int32
	Warmup             int16
	LinearrayEntrySize int16
	ArgCount           int32
	PosOnlyArgCount    int32
	KwOnlyArgCount     int32
	StackSize          int32
	FirstLineno        int32
	NLocalsPlus        int32
	NLocals            int32
	NPlainCellVars     int32
	NCellVars          int32
	NFreeVars          int32
	LocalsPlusNames    uint64
	LocalsPlusKinds    uint64
	Filename           uint64
	Name               uint64
	QualName           uint64
	LineTable          uint64
	WeakRefList        uint64
	CodeObj            uint64 // _co_code
	Linearray          uint64
	FirstTraceable     int32
	_                  [4]byte
	Extra              uint64
	CodeAdaptive       [1]byte
	_                  [7]byte
}

var (
	currentFrameOffset311 = unsafe.Offsetof(cframe311{}.CurrentFrame)
	codeAdaptiveOffset311 = int32(unsafe.Offsetof(code311{}.CodeAdaptive))
)

var v311 = &family{
	interpreter: viewOf("PyInterpreterState", func(s *interpreterState311) layout.InterpreterState {
		return interpreterView{
			head:    layout.Address(s.Threads.Head),
			modules: layout.Address(s.Modules),
		}
	}),
	thread: viewOf("PyThreadState", func(s *threadState311) layout.ThreadState {
		return cframeThread{
			next:               layout.Address(s.Next),
			interp:             layout.Address(s.Interp),
			cframe:             layout.Address(s.CFrame),
			currentFrameOffset: currentFrameOffset311,
			threadID:           s.ThreadID,
			nativeThreadID:     s.NativeThreadID,
		}
	}),
	frame: viewOf("_PyInterpreterFrame", func(f *interpreterFrame311) layout.FrameObject {
		return interpreterFrame{
			code:     layout.Address(f.Code),
			previous: layout.Address(f.Previous),
			lasti:    instructionOffset(f.PrevInstr, f.Code),
			entry:    f.IsEntry != 0,
		}
	}),
	code: viewOf("PyCodeObject", func(c *code311) layout.CodeObject {
		return codeView{
			name:        layout.Address(c.Name),
			filename:    layout.Address(c.Filename),
			lineTable:   layout.Address(c.LineTable),
			varNames:    layout.Address(c.LocalsPlusNames),
			firstLineno: c.FirstLineno,
			nlocals:     c.NLocals,
			argCount:    c.ArgCount,
			format:      linetable.FormatCompact,
			codeOffset:  codeAdaptiveOffset311,
		}
	}),
	str:    unicodeStrings,
	bytes:  bytesObjects,
	tuple:  tuples,
	list:   lists,
	object: objects,
	typ:    types,
}

func init() {
	layout.Register(layout.V3_11, v311)
}
