// ABOUTME: Structure layouts for CPython 3.8
// ABOUTME: Positional-only arguments shift every code object field after co_argcount

package cpython

import (
	"github.com/prateek/pystate/layout"
	"github.com/prateek/pystate/linetable"
)

type interpreterState38 struct {
	Next          uint64
	TstateHead    uint64
	ID            int64
	IDRefcount    int64
	RequiresIDRef int32
	_             [4]byte
	IDMutex       uint64
	Finalizing    int32
	_             [4]byte
	Modules       uint64
}

// code38 is PyCodeObject for 3.8 and 3.9; 3.10 renames co_lnotab only
type code38 struct {
	Base            pyObject
	ArgCount        int32
	PosOnlyArgCount int32
	KwOnlyArgCount  int32
	NLocals         int32
	StackSize       int32
	Flags           int32
	FirstLineno     int32
	_               [4]byte
	Code            uint64
	Consts          uint64
	Names           uint64
	VarNames        uint64
	FreeVars        uint64
	CellVars        uint64
	Cell2Arg        uint64
	Filename        uint64
	Name            uint64
	LineTable       uint64 // co_lnotab, co_linetable from 3.10
	ZombieFrame     uint64
	WeakRefList     uint64
	Extra           uint64
}

func codes38(format linetable.Format) decoder[layout.CodeObject] {
	return viewOf("PyCodeObject", func(c *code38) layout.CodeObject {
		return codeView{
			name:        layout.Address(c.Name),
			filename:    layout.Address(c.Filename),
			lineTable:   layout.Address(c.LineTable),
			varNames:    layout.Address(c.VarNames),
			firstLineno: c.FirstLineno,
			nlocals:     c.NLocals,
			argCount:    c.ArgCount,
			format:      format,
		}
	})
}

var v38 = &family{
	interpreter: viewOf("PyInterpreterState", func(s *interpreterState38) layout.InterpreterState {
		return interpreterView{
			head:    layout.Address(s.TstateHead),
			modules: layout.Address(s.Modules),
		}
	}),
	thread: threads37,
	frame:  frames37,
	code:   codes38(linetable.FormatClassic),
	str:    unicodeStrings,
	bytes:  bytesObjects,
	tuple:  tuples,
	list:   lists,
	object: objects,
	typ:    types,
}

func init() {
	layout.Register(layout.V3_8, v38)
}
