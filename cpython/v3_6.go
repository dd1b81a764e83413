// ABOUTME: Structure layouts for CPython 3.6
// ABOUTME: The code object moved co_firstlineno ahead of the pointers

package cpython

import (
	"github.com/prateek/pystate/layout"
	"github.com/prateek/pystate/linetable"
)

// code36 is PyCodeObject for 3.6 and 3.7
type code36 struct {
	Base           pyObject
	ArgCount       int32
	KwOnlyArgCount int32
	NLocals        int32
	StackSize      int32
	Flags          int32
	FirstLineno    int32
	Code           uint64
	Consts         uint64
	Names          uint64
	VarNames       uint64
	FreeVars       uint64
	CellVars       uint64
	Cell2Arg       uint64
	Filename       uint64
	Name           uint64
	Lnotab         uint64
	ZombieFrame    uint64
	WeakRefList    uint64
	Extra          uint64
}

var codes36 = viewOf("PyCodeObject", func(c *code36) layout.CodeObject {
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
})

var v36 = &family{
	interpreter: interpreters27,
	thread:      threads34,
	frame:       frames27,
	code:        codes36,
	str:         unicodeStrings,
	bytes:       bytesObjects,
	tuple:       tuples,
	list:        lists,
	object:      objects,
	typ:         types,
}

func init() {
	layout.Register(layout.V3_6, v36)
}
