// ABOUTME: Structure layouts for CPython 3.3
// ABOUTME: First release with the compact unicode representation

package cpython

import (
	"github.com/prateek/pystate/layout"
	"github.com/prateek/pystate/linetable"
)

// code33 is PyCodeObject from 3.3 through 3.5
type code33 struct {
	Base           pyObject
	ArgCount       int32
	KwOnlyArgCount int32
	NLocals        int32
	StackSize      int32
	Flags          int32
	_              [4]byte
	Code           uint64
	Consts         uint64
	Names          uint64
	VarNames       uint64
	FreeVars       uint64
	CellVars       uint64
	Cell2Arg       uint64
	Filename       uint64
	Name           uint64
	FirstLineno    int32
	_              [4]byte
	Lnotab         uint64
	ZombieFrame    uint64
	WeakRefList    uint64
}

var codes33 = viewOf("PyCodeObject", func(c *code33) layout.CodeObject {
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

var v33 = &family{
	interpreter: interpreters27,
	thread:      threads27,
	frame:       frames27,
	code:        codes33,
	str:         unicodeStrings,
	bytes:       bytesObjects,
	tuple:       tuples,
	list:        lists,
	object:      objects,
	typ:         types,
}

func init() {
	layout.Register(layout.V3_3, v33)
}
