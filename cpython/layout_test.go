// ABOUTME: Golden tests for structure sizes and field offsets of every release
// ABOUTME: Offsets are checked against literal x86-64 values taken from the C headers

package cpython

import (
	"encoding/binary"
	"reflect"
	"testing"
	"unsafe"

	"github.com/google/go-cmp/cmp"

	"github.com/prateek/pystate/layout"
)

var rawStructs = []any{
	pyObject{}, pyVarObject{}, pyTypeObject{}, pyTupleObject{}, pyListObject{},
	pyBytesObject{}, pyStringObject27{},
	pyASCIIObject{}, pyCompactUnicodeObject{}, pyUnicodeObject{},
	pyASCIIObject312{}, pyCompactUnicodeObject312{}, pyUnicodeObject312{},
	interpreterState27{}, threadState27{}, frame27{}, code27{},
	code33{}, threadState34{}, code36{},
	interpreterState37{}, threadState37{}, frame37{},
	interpreterState38{}, code38{}, interpreterState39{}, frame310{},
	pythreads{}, interpreterState311{}, threadState311{}, cframe311{}, interpreterFrame311{}, code311{},
	imports312{}, gil312{}, interpreterState312{}, threadState312{}, cframe312{}, interpreterFrame312{}, code312{},
}

// TestEncodedSizeMatchesMemory guards the explicit padding: a struct whose
// encoded size differs from its in-memory size is missing a pad field
func TestEncodedSizeMatchesMemory(t *testing.T) {
	for _, s := range rawStructs {
		typ := reflect.TypeOf(s)
		t.Run(typ.Name(), func(t *testing.T) {
			if got, want := binary.Size(s), int(typ.Size()); got != want {
				t.Errorf("binary.Size = %d, unsafe size = %d", got, want)
			}
		})
	}
}

func TestFamilySizes(t *testing.T) {
	type sizes struct {
		Interpreter, Thread, Frame, Code, String, Bytes, Tuple, List, Object, Type int
	}
	common := func(s sizes) sizes {
		s.Tuple, s.List, s.Object, s.Type = 32, 40, 16, 296
		s.Bytes = 40
		return s
	}

	want := map[layout.Version]sizes{
		layout.V2_7:  common(sizes{Interpreter: 24, Thread: 152, Frame: 128, Code: 128, String: 40}),
		layout.V3_3:  common(sizes{Interpreter: 24, Thread: 152, Frame: 128, Code: 144, String: 80}),
		layout.V3_4:  common(sizes{Interpreter: 24, Thread: 160, Frame: 128, Code: 144, String: 80}),
		layout.V3_5:  common(sizes{Interpreter: 24, Thread: 160, Frame: 128, Code: 144, String: 80}),
		layout.V3_6:  common(sizes{Interpreter: 24, Thread: 160, Frame: 128, Code: 144, String: 80}),
		layout.V3_7:  common(sizes{Interpreter: 48, Thread: 184, Frame: 112, Code: 144, String: 80}),
		layout.V3_8:  common(sizes{Interpreter: 64, Thread: 184, Frame: 112, Code: 152, String: 80}),
		layout.V3_9:  common(sizes{Interpreter: 864, Thread: 184, Frame: 112, Code: 152, String: 80}),
		layout.V3_10: common(sizes{Interpreter: 864, Thread: 184, Frame: 104, Code: 152, String: 80}),
		layout.V3_11: common(sizes{Interpreter: 888, Thread: 168, Frame: 80, Code: 192, String: 80}),
		layout.V3_12: common(sizes{Interpreter: 1072, Thread: 152, Frame: 80, Code: 200, String: 64}),
	}

	got := make(map[layout.Version]sizes)
	for v := range want {
		l, err := layout.Lookup(v)
		if err != nil {
			t.Fatalf("Lookup(%s) error = %v", v, err)
		}
		got[v] = sizes{
			Interpreter: l.Size(layout.KindInterpreter),
			Thread:      l.Size(layout.KindThread),
			Frame:       l.Size(layout.KindFrame),
			Code:        l.Size(layout.KindCode),
			String:      l.Size(layout.KindString),
			Bytes:       l.Size(layout.KindBytes),
			Tuple:       l.Size(layout.KindTuple),
			List:        l.Size(layout.KindList),
			Object:      l.Size(layout.KindObject),
			Type:        l.Size(layout.KindType),
		}
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("family sizes mismatch (-want +got):\n%s", diff)
	}
}

func TestEveryVersionRegistered(t *testing.T) {
	want := []layout.Version{
		layout.V2_7, layout.V3_3, layout.V3_4, layout.V3_5, layout.V3_6, layout.V3_7,
		layout.V3_8, layout.V3_9, layout.V3_10, layout.V3_11, layout.V3_12,
	}
	if diff := cmp.Diff(want, layout.Versions()); diff != "" {
		t.Errorf("Versions() mismatch (-want +got):\n%s", diff)
	}

	l34, _ := layout.Lookup(layout.V3_4)
	l35, _ := layout.Lookup(layout.V3_5)
	if l34 != l35 {
		t.Error("3.4 and 3.5 should share one layout")
	}
	if l := (&family{}).Size(layout.Kind(99)); l != 0 {
		t.Errorf("Size(unknown kind) = %d, want 0", l)
	}
}

func TestFieldOffsets(t *testing.T) {
	tests := []struct {
		name string
		got  uintptr
		want uintptr
	}{
		{"type tp_name", unsafe.Offsetof(pyTypeObject{}.Name), 24},
		{"type tp_flags", unsafe.Offsetof(pyTypeObject{}.Flags), 168},
		{"type tp_dictoffset", unsafe.Offsetof(pyTypeObject{}.DictOffset), 288},
		{"tuple ob_item", unsafe.Offsetof(pyTupleObject{}.Item), 24},
		{"list ob_item", unsafe.Offsetof(pyListObject{}.Item), 24},
		{"bytes ob_sval", unsafe.Offsetof(pyBytesObject{}.Sval), 32},
		{"2.7 str ob_sval", unsafe.Offsetof(pyStringObject27{}.Sval), 36},
		{"unicode state", unsafe.Offsetof(pyASCIIObject{}.State), 32},
		{"unicode data", unsafe.Offsetof(pyUnicodeObject{}.Data), 72},
		{"3.12 unicode data", unsafe.Offsetof(pyUnicodeObject312{}.Data), 56},

		{"2.7 interp modules", unsafe.Offsetof(interpreterState27{}.Modules), 16},
		{"2.7 thread frame", unsafe.Offsetof(threadState27{}.Frame), 16},
		{"2.7 thread id", unsafe.Offsetof(threadState27{}.ThreadID), 144},
		{"2.7 frame f_code", unsafe.Offsetof(frame27{}.Code), 32},
		{"2.7 frame f_lasti", unsafe.Offsetof(frame27{}.Lasti), 120},
		{"2.7 code co_varnames", unsafe.Offsetof(code27{}.VarNames), 56},
		{"2.7 code co_filename", unsafe.Offsetof(code27{}.Filename), 80},
		{"2.7 code co_firstlineno", unsafe.Offsetof(code27{}.FirstLineno), 96},
		{"2.7 code co_lnotab", unsafe.Offsetof(code27{}.Lnotab), 104},

		{"3.3 code co_name", unsafe.Offsetof(code33{}.Name), 104},
		{"3.3 code co_firstlineno", unsafe.Offsetof(code33{}.FirstLineno), 112},
		{"3.3 code co_lnotab", unsafe.Offsetof(code33{}.Lnotab), 120},
		{"3.4 thread frame", unsafe.Offsetof(threadState34{}.Frame), 24},
		{"3.4 thread id", unsafe.Offsetof(threadState34{}.ThreadID), 152},
		{"3.6 code co_firstlineno", unsafe.Offsetof(code36{}.FirstLineno), 36},
		{"3.6 code co_lnotab", unsafe.Offsetof(code36{}.Lnotab), 112},

		{"3.7 interp modules", unsafe.Offsetof(interpreterState37{}.Modules), 40},
		{"3.7 thread id", unsafe.Offsetof(threadState37{}.ThreadID), 176},
		{"3.7 frame f_lasti", unsafe.Offsetof(frame37{}.Lasti), 104},
		{"3.8 interp modules", unsafe.Offsetof(interpreterState38{}.Modules), 56},
		{"3.8 code co_firstlineno", unsafe.Offsetof(code38{}.FirstLineno), 40},
		{"3.8 code co_varnames", unsafe.Offsetof(code38{}.VarNames), 72},
		{"3.8 code co_lnotab", unsafe.Offsetof(code38{}.LineTable), 120},
		{"3.9 interp modules", unsafe.Offsetof(interpreterState39{}.Modules), 856},
		{"3.10 frame f_lasti", unsafe.Offsetof(frame310{}.Lasti), 96},

		{"3.11 interp threads.head", unsafe.Offsetof(interpreterState311{}.Threads) + unsafe.Offsetof(pythreads{}.Head), 16},
		{"3.11 interp modules", unsafe.Offsetof(interpreterState311{}.Modules), 880},
		{"3.11 thread cframe", unsafe.Offsetof(threadState311{}.CFrame), 56},
		{"3.11 thread id", unsafe.Offsetof(threadState311{}.ThreadID), 152},
		{"3.11 native thread id", unsafe.Offsetof(threadState311{}.NativeThreadID), 160},
		{"3.11 cframe current_frame", unsafe.Offsetof(cframe311{}.CurrentFrame), 8},
		{"3.11 frame f_code", unsafe.Offsetof(interpreterFrame311{}.Code), 32},
		{"3.11 frame previous", unsafe.Offsetof(interpreterFrame311{}.Previous), 48},
		{"3.11 frame prev_instr", unsafe.Offsetof(interpreterFrame311{}.PrevInstr), 56},
		{"3.11 frame is_entry", unsafe.Offsetof(interpreterFrame311{}.IsEntry), 68},
		{"3.11 code co_firstlineno", unsafe.Offsetof(code311{}.FirstLineno), 72},
		{"3.11 code co_localsplusnames", unsafe.Offsetof(code311{}.LocalsPlusNames), 96},
		{"3.11 code co_linetable", unsafe.Offsetof(code311{}.LineTable), 136},
		{"3.11 code co_code_adaptive", unsafe.Offsetof(code311{}.CodeAdaptive), 184},

		{"3.12 interp threads.head", unsafe.Offsetof(interpreterState312{}.Threads) + unsafe.Offsetof(pythreads{}.Head), 72},
		{"3.12 interp modules", unsafe.Offsetof(interpreterState312{}.Imports), 944},
		{"3.12 interp gil locked", unsafe.Offsetof(interpreterState312{}.GIL) + unsafe.Offsetof(gil312{}.Locked), 1056},
		{"3.12 thread cframe", unsafe.Offsetof(threadState312{}.CFrame), 56},
		{"3.12 thread id", unsafe.Offsetof(threadState312{}.ThreadID), 136},
		{"3.12 cframe current_frame", unsafe.Offsetof(cframe312{}.CurrentFrame), 0},
		{"3.12 frame prev_instr", unsafe.Offsetof(interpreterFrame312{}.PrevInstr), 56},
		{"3.12 frame owner", unsafe.Offsetof(interpreterFrame312{}.Owner), 70},
		{"3.12 code co_firstlineno", unsafe.Offsetof(code312{}.FirstLineno), 68},
		{"3.12 code co_linetable", unsafe.Offsetof(code312{}.LineTable), 136},
		{"3.12 code co_code_adaptive", unsafe.Offsetof(code312{}.CodeAdaptive), 192},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("offset = %d, want %d", tt.got, tt.want)
			}
		})
	}
}
