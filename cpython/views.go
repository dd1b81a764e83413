// ABOUTME: Capability views shared by several interpreter versions
// ABOUTME: Each per-version struct is reduced to one of these after decoding

package cpython

import (
	"fmt"

	"github.com/prateek/pystate/layout"
	"github.com/prateek/pystate/linetable"
)

type interpreterView struct {
	head      layout.Address
	modules   layout.Address
	gilLocked bool
	gilKnown  bool
}

func (v interpreterView) Head() layout.Address    { return v.head }
func (v interpreterView) Modules() layout.Address { return v.modules }

func (v interpreterView) GILLocked() (locked, known bool) {
	return v.gilLocked, v.gilKnown
}

// directThread holds its frame pointer in the thread state itself (up to 3.10)
type directThread struct {
	next     layout.Address
	interp   layout.Address
	frame    layout.Address
	threadID uint64
}

func (v directThread) Next() layout.Address   { return v.next }
func (v directThread) Interp() layout.Address { return v.interp }
func (v directThread) ThreadID() uint64       { return v.threadID }

func (v directThread) FrameAddress() (layout.Address, bool) { return 0, false }
func (v directThread) Frame(layout.Address) layout.Address  { return v.frame }
func (v directThread) NativeThreadID() (uint64, bool)       { return 0, false }

// cframeThread reaches its frame through the C frame record (3.11 and 3.12)
type cframeThread struct {
	next               layout.Address
	interp             layout.Address
	cframe             layout.Address
	currentFrameOffset uintptr
	threadID           uint64
	nativeThreadID     uint64
}

func (v cframeThread) Next() layout.Address   { return v.next }
func (v cframeThread) Interp() layout.Address { return v.interp }
func (v cframeThread) ThreadID() uint64       { return v.threadID }

// FrameAddress points at current_frame inside the cframe. A thread without
// a cframe has no Python frame, which the caller sees as address zero.
func (v cframeThread) FrameAddress() (layout.Address, bool) {
	if v.cframe == 0 {
		return 0, true
	}
	return v.cframe + layout.Address(v.currentFrameOffset), true
}

func (v cframeThread) Frame(resolved layout.Address) layout.Address { return resolved }

func (v cframeThread) NativeThreadID() (uint64, bool) { return v.nativeThreadID, true }

// heapFrame is a PyFrameObject (up to 3.10). Each one is evaluated by its own
// C-level call into the eval loop, so every heap frame is an entry frame.
type heapFrame struct {
	code  layout.Address
	back  layout.Address
	lasti int32
}

func (v heapFrame) Code() layout.Address { return v.code }
func (v heapFrame) Back() layout.Address { return v.back }
func (v heapFrame) Lasti() int32         { return v.lasti }
func (v heapFrame) IsEntry() bool        { return true }

// interpreterFrame is a _PyInterpreterFrame (3.11+). Its lasti is the byte
// distance from the code object to the last executed instruction.
type interpreterFrame struct {
	code     layout.Address
	previous layout.Address
	lasti    int32
	entry    bool
}

func (v interpreterFrame) Code() layout.Address { return v.code }
func (v interpreterFrame) Back() layout.Address { return v.previous }
func (v interpreterFrame) Lasti() int32         { return v.lasti }
func (v interpreterFrame) IsEntry() bool        { return v.entry }

func instructionOffset(prevInstr, code uint64) int32 {
	return int32(int64(prevInstr) - int64(code))
}

type codeView struct {
	name        layout.Address
	filename    layout.Address
	lineTable   layout.Address
	varNames    layout.Address
	firstLineno int32
	nlocals     int32
	argCount    int32

	format linetable.Format
	// codeOffset is where the bytecode starts inside the code object. Frames
	// from 3.11 report lasti from the object base, the table counts from here.
	codeOffset int32
}

func (v codeView) Name() layout.Address      { return v.name }
func (v codeView) Filename() layout.Address  { return v.filename }
func (v codeView) LineTable() layout.Address { return v.lineTable }
func (v codeView) VarNames() layout.Address  { return v.varNames }
func (v codeView) FirstLineno() int32        { return v.firstLineno }
func (v codeView) NLocals() int32            { return v.nlocals }
func (v codeView) ArgCount() int32           { return v.argCount }

func (v codeView) LineNumber(lasti int32, table []byte) (int32, error) {
	line, err := linetable.Decode(v.format, v.firstLineno, table, lasti-v.codeOffset)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", layout.ErrMalformedLayout, err)
	}
	return line, nil
}
