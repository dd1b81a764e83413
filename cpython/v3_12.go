// ABOUTME: Structure layouts for CPython 3.12
// ABOUTME: Drops wstr from unicode objects and exposes the GIL holder in the interpreter state

package cpython

import (
	"unsafe"

	"github.com/prateek/pystate/layout"
	"github.com/prateek/pystate/linetable"
)

type imports312 struct {
	Modules uint64
	_       [88]byte // modules_by_index .. find_and_load
}

type gil312 struct {
	Interval     uint64
	LastHolder   uint64
	Locked       int32
	_            [4]byte
	SwitchNumber uint64
}

type interpreterState312 struct {
	Next               uint64
	ID                 int64
	IDRefcount         int64
	RequiresIDRef      int32
	_                  [4]byte
	IDMutex            uint64
	Initialized        int32
	Finalizing         int32
	MonitoringVersion  uint64
	LastRestartVersion uint64
	Threads            pythreads
	Runtime            uint64
	FinalizingTstate   uint64
	_                  [240]byte // struct _gc_runtime_state
	Sysdict            uint64
	Builtins           uint64
	_                  [576]byte // struct _ceval_state
	Imports            imports312
	GIL                gil312
}

type threadState312 struct {
	Prev           uint64
	Next           uint64
	Interp         uint64
	_              [32]byte // _status .. what_event
	CFrame         uint64
	_              [72]byte // c_profilefunc .. dict
	ThreadID       uint64
	NativeThreadID uint64
}

type cframe312 struct {
	CurrentFrame uint64
	Previous     uint64
}

// ownedByCStack is FRAME_OWNED_BY_CSTACK, the 3.12 marker of an entry frame
const ownedByCStack = 3

type interpreterFrame312 struct {
	Code         uint64
	Previous     uint64
	FuncObj      uint64
	Globals      uint64
	Builtins     uint64
	Locals       uint64
	FrameObj     uint64
	PrevInstr    uint64
	StackTop     int32
	ReturnOffset uint16
	Owner        int8
	_            [1]byte
	LocalsPlus   [1]uint64
}

type code312 struct {
	Base                   pyVarObject
	Consts                 uint64
	Names                  uint64
	ExceptionTable         uint64
	Flags                  int32
	ArgCount               int32
	PosOnlyArgCount        int32
	KwOnlyArgCount         int32
	StackSize              int32
	FirstLineno            int32
	NLocalsPlus            int32
	FrameSize              int32
	NLocals                int32
	NCellVars              int32
	NFreeVars              int32
	Version                uint32
	LocalsPlusNames        uint64
	LocalsPlusKinds        uint64
	Filename               uint64
	Name                   uint64
	QualName               uint64
	LineTable              uint64
	WeakRefList            uint64
	Cached                 uint64
	InstrumentationVersion uint64
	Monitoring             uint64
	FirstTraceable         int32
	_                      [4]byte
	Extra                  uint64
	CodeAdaptive           [1]byte
	_                      [7]byte
}

var (
	currentFrameOffset312 = unsafe.Offsetof(cframe312{}.CurrentFrame)
	codeAdaptiveOffset312 = int32(unsafe.Offsetof(code312{}.CodeAdaptive))
)

var v312 = &family{
	interpreter: viewOf("PyInterpreterState", func(s *interpreterState312) layout.InterpreterState {
		return interpreterView{
			head:      layout.Address(s.Threads.Head),
			modules:   layout.Address(s.Imports.Modules),
			gilLocked: s.GIL.Locked != 0,
			gilKnown:  true,
		}
	}),
	thread: viewOf("PyThreadState", func(s *threadState312) layout.ThreadState {
		return cframeThread{
			next:               layout.Address(s.Next),
			interp:             layout.Address(s.Interp),
			cframe:             layout.Address(s.CFrame),
			currentFrameOffset: currentFrameOffset312,
			threadID:           s.ThreadID,
			nativeThreadID:     s.NativeThreadID,
		}
	}),
	frame: viewOf("_PyInterpreterFrame", func(f *interpreterFrame312) layout.FrameObject {
		return interpreterFrame{
			code:     layout.Address(f.Code),
			previous: layout.Address(f.Previous),
			lasti:    instructionOffset(f.PrevInstr, f.Code),
			entry:    f.Owner == ownedByCStack,
		}
	}),
	code: viewOf("PyCodeObject", func(c *code312) layout.CodeObject {
		return codeView{
			name:        layout.Address(c.Name),
			filename:    layout.Address(c.Filename),
			lineTable:   layout.Address(c.LineTable),
			varNames:    layout.Address(c.LocalsPlusNames),
			firstLineno: c.FirstLineno,
			nlocals:     c.NLocals,
			argCount:    c.ArgCount,
			format:      linetable.FormatCompact,
			codeOffset:  codeAdaptiveOffset312,
		}
	}),
	str:    unicodeStrings312,
	bytes:  bytesObjects,
	tuple:  tuples,
	list:   lists,
	object: objects,
	typ:    types,
}

func init() {
	layout.Register(layout.V3_12, v312)
}
