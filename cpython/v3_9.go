// ABOUTME: Structure layouts for CPython 3.9
// ABOUTME: The interpreter state now embeds its own ceval and gc state ahead of modules

package cpython

import (
	"github.com/prateek/pystate/layout"
	"github.com/prateek/pystate/linetable"
)

// interpreterState39 is PyInterpreterState for 3.9 and 3.10
type interpreterState39 struct {
	Next          uint64
	TstateHead    uint64
	Runtime       uint64
	ID            int64
	IDRefcount    int64
	RequiresIDRef int32
	_             [4]byte
	IDMutex       uint64
	Finalizing    int32
	_             [4]byte
	_             [552]byte // struct _ceval_state
	_             [240]byte // struct _gc_runtime_state
	Modules       uint64
}

var interpreters39 = viewOf("PyInterpreterState", func(s *interpreterState39) layout.InterpreterState {
	return interpreterView{
		head:    layout.Address(s.TstateHead),
		modules: layout.Address(s.Modules),
	}
})

var v39 = &family{
	interpreter: interpreters39,
	thread:      threads37,
	frame:       frames37,
	code:        codes38(linetable.FormatClassic),
	str:         unicodeStrings,
	bytes:       bytesObjects,
	tuple:       tuples,
	list:        lists,
	object:      objects,
	typ:         types,
}

func init() {
	layout.Register(layout.V3_9, v39)
}
