// ABOUTME: Version-independent capability interfaces over interpreter structures
// ABOUTME: Defines the ten views a stack walker needs and the Layout family that produces them

package layout

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedLayout is returned when a buffer is shorter than the entity it claims to hold
	ErrMalformedLayout = errors.New("malformed layout")

	// ErrUnsupportedVersion is returned when no layout is registered for a version
	ErrUnsupportedVersion = errors.New("unsupported interpreter version")
)

// Address is a location in the target process. It is never dereferenced
// locally; resolving it always means a new fetch.
type Address uint64

// String formats the address the way debuggers print pointers
func (a Address) String() string {
	return fmt.Sprintf("0x%x", uint64(a))
}

// Kind identifies one of the entity kinds a Layout can decode
type Kind int

const (
	KindInterpreter Kind = iota
	KindThread
	KindFrame
	KindCode
	KindString
	KindBytes
	KindTuple
	KindList
	KindObject
	KindType
)

// Kinds lists every entity kind in declaration order
var Kinds = []Kind{
	KindInterpreter, KindThread, KindFrame, KindCode, KindString,
	KindBytes, KindTuple, KindList, KindObject, KindType,
}

var kindNames = map[Kind]string{
	KindInterpreter: "interpreter",
	KindThread:      "thread",
	KindFrame:       "frame",
	KindCode:        "code",
	KindString:      "string",
	KindBytes:       "bytes",
	KindTuple:       "tuple",
	KindList:        "list",
	KindObject:      "object",
	KindType:        "type",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// InterpreterState is the root of all thread and module data
type InterpreterState interface {
	// Head returns the first thread state in the interpreter's thread list
	Head() Address

	// Modules returns the sys.modules dictionary
	Modules() Address

	// GILLocked reports the GIL state; known is false on versions
	// that do not expose it
	GILLocked() (locked, known bool)
}

// ThreadState is one OS-level execution context
type ThreadState interface {
	// Interp returns the owning interpreter state
	Interp() Address

	// FrameAddress returns the address holding the current frame pointer on
	// versions that keep it behind an extra indirection. ok is false when
	// the frame pointer is stored directly in the thread state.
	FrameAddress() (addr Address, ok bool)

	// Frame returns the current frame. Where FrameAddress reports ok, the
	// caller passes the pointer it read at that address; elsewhere resolved
	// is ignored.
	Frame(resolved Address) Address

	ThreadID() uint64

	// NativeThreadID returns the OS thread id; ok is false before it was exposed
	NativeThreadID() (id uint64, ok bool)

	// Next returns the next thread state in the list
	Next() Address
}

// FrameObject is one call frame
type FrameObject interface {
	Code() Address

	// Lasti returns the last executed instruction offset in the version's
	// own units
	Lasti() int32

	// Back returns the caller's frame
	Back() Address

	// IsEntry reports whether the frame was entered from C
	IsEntry() bool
}

// CodeObject is the static metadata of one compiled function or module body
type CodeObject interface {
	Name() Address
	Filename() Address

	// LineTable returns the bytes object holding the encoded line table
	LineTable() Address

	FirstLineno() int32
	NLocals() int32
	ArgCount() int32

	// VarNames returns the tuple of local variable names
	VarNames() Address

	// LineNumber resolves lasti (as reported by the matching FrameObject)
	// against the raw line table bytes
	LineNumber(lasti int32, table []byte) (int32, error)
}

// StringObject is a text value
type StringObject interface {
	ASCII() bool

	// Kind returns the character width in bytes (1, 2 or 4)
	Kind() uint32

	// Size returns the length in characters
	Size() int

	// Address returns where the character data starts, given the address
	// the string header was read from
	Address(base Address) Address
}

// BytesObject is a raw byte payload
type BytesObject interface {
	Size() int
	Address(base Address) Address
}

// TupleObject is a fixed-size sequence of object pointers
type TupleObject interface {
	Size() int

	// Address returns where the pointer to element index is stored
	Address(base Address, index int) Address
}

// ListObject is a growable sequence of object pointers
type ListObject interface {
	Size() int

	// Items returns the base of the pointer array
	Items() Address
}

// Object is the generic object header
type Object interface {
	Type() Address
}

// TypeObject is a type descriptor
type TypeObject interface {
	// Name returns the address of the NUL-terminated type name
	Name() Address
	DictOffset() int64
	Flags() uint64
}

// Layout is one consistent family of decoders for a single interpreter
// version. A version implements every kind or it is not registered.
type Layout interface {
	// Size returns how many bytes must be fetched to decode an entity of kind k
	Size(k Kind) int

	Interpreter(b []byte) (InterpreterState, error)
	Thread(b []byte) (ThreadState, error)
	Frame(b []byte) (FrameObject, error)
	Code(b []byte) (CodeObject, error)
	String(b []byte) (StringObject, error)
	Bytes(b []byte) (BytesObject, error)
	Tuple(b []byte) (TupleObject, error)
	List(b []byte) (ListObject, error)
	Object(b []byte) (Object, error)
	Type(b []byte) (TypeObject, error)
}
