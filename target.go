// ABOUTME: Target pairs a memory fetcher with one interpreter version's layout
// ABOUTME: Single-hop readers fetch one entity and return its capability view

package pystate

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/prateek/pystate/config"
	_ "github.com/prateek/pystate/cpython"
	"github.com/prateek/pystate/layout"
	"github.com/prateek/pystate/memory"
)

// maxTypeName bounds how far TypeName scans for the terminating NUL
const maxTypeName = 256

// ErrNameTooLong is returned when a C string has no NUL within the scan bound
var ErrNameTooLong = errors.New("name exceeds scan limit")

var log = commonlog.GetLogger("pystate")

// Target reads interpreter structures of a single version
type Target struct {
	version layout.Version
	layout  layout.Layout
	fetch   memory.Fetcher
}

// New creates a target for version v reading through f
func New(v layout.Version, f memory.Fetcher) (*Target, error) {
	l, err := layout.Lookup(v)
	if err != nil {
		return nil, err
	}
	return &Target{version: v, layout: l, fetch: f}, nil
}

// Open validates cfg, configures logging from it and builds a target. An
// invalid configuration leaves the logger untouched.
func Open(cfg *config.Config) (*Target, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	v, err := cfg.Version()
	if err != nil {
		return nil, err
	}

	var logPath *string
	if cfg.Log.File != "" {
		logPath = &cfg.Log.File
	}
	commonlog.Configure(cfg.Log.Verbosity, logPath)

	var f memory.Fetcher
	if cfg.Target.Snapshot != "" {
		s, err := openSnapshot(cfg.Target.Snapshot)
		if err != nil {
			return nil, err
		}
		if v == layout.VersionUnknown {
			if v, err = layout.ParseVersion(s.Version); err != nil {
				return nil, fmt.Errorf("snapshot %s: %w", cfg.Target.Snapshot, err)
			}
		}
		log.Infof("loaded %d regions from %s", s.Len(), cfg.Target.Snapshot)
		f = s
	} else {
		p, err := memory.OpenProcess(cfg.Target.Pid)
		if err != nil {
			return nil, err
		}
		f = p
	}

	log.Infof("reading %s interpreter state", v)
	return New(v, memory.Limit(f, cfg.Read.MaxBytes))
}

func openSnapshot(path string) (*memory.Snapshot, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open snapshot: %w", err)
	}
	defer file.Close()

	s, err := memory.Open(file)
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", path, err)
	}
	return s, nil
}

// Version returns the interpreter version the target was opened for
func (t *Target) Version() layout.Version {
	return t.version
}

// Layout returns the decoder family in use
func (t *Target) Layout() layout.Layout {
	return t.layout
}

// fetchKind reads the bytes of one entity of kind k at addr
func (t *Target) fetchKind(k layout.Kind, addr layout.Address) ([]byte, error) {
	b, err := t.fetch.Read(addr, t.layout.Size(k))
	if err != nil {
		return nil, fmt.Errorf("read %s at %s: %w", k, addr, err)
	}
	return b, nil
}

// decodeAt fetches and decodes one entity
func decodeAt[V any](t *Target, k layout.Kind, addr layout.Address, decode func([]byte) (V, error)) (V, error) {
	b, err := t.fetchKind(k, addr)
	if err != nil {
		var none V
		return none, err
	}
	v, err := decode(b)
	if err != nil {
		return v, fmt.Errorf("decode %s at %s: %w", k, addr, err)
	}
	return v, nil
}

func (t *Target) Interpreter(addr layout.Address) (layout.InterpreterState, error) {
	return decodeAt(t, layout.KindInterpreter, addr, t.layout.Interpreter)
}

func (t *Target) Thread(addr layout.Address) (layout.ThreadState, error) {
	return decodeAt(t, layout.KindThread, addr, t.layout.Thread)
}

func (t *Target) Frame(addr layout.Address) (layout.FrameObject, error) {
	return decodeAt(t, layout.KindFrame, addr, t.layout.Frame)
}

func (t *Target) Code(addr layout.Address) (layout.CodeObject, error) {
	return decodeAt(t, layout.KindCode, addr, t.layout.Code)
}

func (t *Target) Object(addr layout.Address) (layout.Object, error) {
	return decodeAt(t, layout.KindObject, addr, t.layout.Object)
}

func (t *Target) Type(addr layout.Address) (layout.TypeObject, error) {
	return decodeAt(t, layout.KindType, addr, t.layout.Type)
}

func (t *Target) List(addr layout.Address) (layout.ListObject, error) {
	return decodeAt(t, layout.KindList, addr, t.layout.List)
}

func (t *Target) Tuple(addr layout.Address) (layout.TupleObject, error) {
	return decodeAt(t, layout.KindTuple, addr, t.layout.Tuple)
}

// Pointer reads one target pointer at addr
func (t *Target) Pointer(addr layout.Address) (layout.Address, error) {
	b, err := t.fetch.Read(addr, 8)
	if err != nil {
		return 0, fmt.Errorf("read pointer at %s: %w", addr, err)
	}
	if len(b) < 8 {
		return 0, fmt.Errorf("%w: pointer at %s", layout.ErrMalformedLayout, addr)
	}
	return layout.Address(binary.LittleEndian.Uint64(b)), nil
}

// FramePointer returns the current frame of ts. Versions that keep the
// frame behind the C frame record cost one extra pointer read; a thread with
// no Python frame yields address zero.
func (t *Target) FramePointer(ts layout.ThreadState) (layout.Address, error) {
	addr, ok := ts.FrameAddress()
	if !ok {
		return ts.Frame(0), nil
	}
	if addr == 0 {
		return 0, nil
	}
	resolved, err := t.Pointer(addr)
	if err != nil {
		return 0, err
	}
	return ts.Frame(resolved), nil
}

// TupleItem returns the object pointer stored at index i of the tuple at addr
func (t *Target) TupleItem(addr layout.Address, i int) (layout.Address, error) {
	tuple, err := t.Tuple(addr)
	if err != nil {
		return 0, err
	}
	if i < 0 || i >= tuple.Size() {
		return 0, fmt.Errorf("tuple index %d out of range [0, %d)", i, tuple.Size())
	}
	return t.Pointer(tuple.Address(addr, i))
}

// String reads the str object at addr and decodes its characters
func (t *Target) String(addr layout.Address) (string, error) {
	s, err := decodeAt(t, layout.KindString, addr, t.layout.String)
	if err != nil {
		return "", err
	}

	size, kind := s.Size(), s.Kind()
	if size < 0 {
		return "", fmt.Errorf("%w: string at %s has length %d", layout.ErrMalformedLayout, addr, size)
	}
	if kind != Kind1Byte && kind != Kind2Byte && kind != Kind4Byte {
		return "", fmt.Errorf("%w: string at %s has kind %d", layout.ErrMalformedLayout, addr, kind)
	}

	data, err := t.fetch.Read(s.Address(addr), size*int(kind))
	if err != nil {
		return "", fmt.Errorf("read string data at %s: %w", s.Address(addr), err)
	}
	return DecodeText(kind, s.ASCII(), data)
}

// Bytes reads the bytes object at addr and returns its payload
func (t *Target) Bytes(addr layout.Address) ([]byte, error) {
	b, err := decodeAt(t, layout.KindBytes, addr, t.layout.Bytes)
	if err != nil {
		return nil, err
	}
	if b.Size() < 0 {
		return nil, fmt.Errorf("%w: bytes at %s has size %d", layout.ErrMalformedLayout, addr, b.Size())
	}

	data, err := t.fetch.Read(b.Address(addr), b.Size())
	if err != nil {
		return nil, fmt.Errorf("read bytes data at %s: %w", b.Address(addr), err)
	}
	return data, nil
}

// TypeName reads the tp_name of the type object at addr
func (t *Target) TypeName(addr layout.Address) (string, error) {
	typ, err := t.Type(addr)
	if err != nil {
		return "", err
	}
	return t.cString(typ.Name())
}

// ObjectTypeName reads the type name of the object at addr
func (t *Target) ObjectTypeName(addr layout.Address) (string, error) {
	obj, err := t.Object(addr)
	if err != nil {
		return "", err
	}
	return t.TypeName(obj.Type())
}

// cString reads a NUL-terminated string in 16-byte aligned chunks, so a
// read never crosses a page boundary the string itself does not cross
func (t *Target) cString(addr layout.Address) (string, error) {
	const chunk = 16
	var name []byte

	for cur := addr; len(name) < maxTypeName; {
		n := chunk - int(cur%chunk)
		b, err := t.fetch.Read(cur, n)
		if err != nil {
			return "", fmt.Errorf("read name at %s: %w", addr, err)
		}
		if i := bytes.IndexByte(b, 0); i >= 0 {
			return string(append(name, b[:i]...)), nil
		}
		name = append(name, b...)
		cur += layout.Address(n)
	}
	return "", fmt.Errorf("%w: %s", ErrNameTooLong, addr)
}

// LineNumber resolves lasti, as reported by a frame of code, to a source line
func (t *Target) LineNumber(code layout.CodeObject, lasti int32) (int32, error) {
	table, err := t.Bytes(code.LineTable())
	if err != nil {
		return 0, fmt.Errorf("line table: %w", err)
	}
	return code.LineNumber(lasti, table)
}
