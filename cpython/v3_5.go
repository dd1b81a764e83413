// ABOUTME: Structure layouts for CPython 3.4 and 3.5
// ABOUTME: Both releases share one family; the thread state gained a prev link

package cpython

import "github.com/prateek/pystate/layout"

// threadState34 is PyThreadState from 3.4 through 3.6
type threadState34 struct {
	Prev     uint64
	Next     uint64
	Interp   uint64
	Frame    uint64
	_        [120]byte // recursion_depth .. async_exc
	ThreadID uint64
}

var threads34 = viewOf("PyThreadState", func(s *threadState34) layout.ThreadState {
	return directThread{
		next:     layout.Address(s.Next),
		interp:   layout.Address(s.Interp),
		frame:    layout.Address(s.Frame),
		threadID: s.ThreadID,
	}
})

var v35 = &family{
	interpreter: interpreters27,
	thread:      threads34,
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
	layout.Register(layout.V3_4, v35)
	layout.Register(layout.V3_5, v35)
}
