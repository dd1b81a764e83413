// ABOUTME: Registry of snapshot file codecs
// ABOUTME: Detects the format of a snapshot stream and hands it to the matching codec

package memory

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sync"
)

var (
	// ErrNoCodec is returned when no codec recognizes the snapshot format
	ErrNoCodec = errors.New("no codec found for snapshot format")

	// ErrUnknownCodec is returned by Lookup for an unregistered name
	ErrUnknownCodec = errors.New("unknown snapshot codec")
)

// previewSize is how much of a stream codecs get to inspect
const previewSize = 4096

// Codec reads and writes one snapshot file format
type Codec interface {
	// Name identifies the codec, e.g. "json"
	Name() string

	// CanDecode checks if this codec handles the given stream.
	// The reader is a bounded preview of the start of the stream.
	CanDecode(r io.Reader) bool

	// Decode reads a whole snapshot from a reader positioned at its start
	Decode(r io.Reader) (*Snapshot, error)

	// Encode writes s to w
	Encode(w io.Writer, s *Snapshot) error
}

// codecRegistry holds registered codecs in registration order
type codecRegistry struct {
	mu     sync.RWMutex
	codecs []Codec
}

// Global registry instance
var registry = &codecRegistry{
	codecs: make([]Codec, 0),
}

// Register adds a codec to the registry
func Register(c Codec) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.codecs = append(registry.codecs, c)
}

// Lookup returns the codec registered under name
func Lookup(name string) (Codec, error) {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	for _, c := range registry.codecs {
		if c.Name() == name {
			return c, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
}

// Open reads a snapshot, trying each registered codec against a preview of
// the stream until one recognizes it
func Open(r io.Reader) (*Snapshot, error) {
	preview := make([]byte, previewSize)
	n, err := io.ReadFull(r, preview)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, fmt.Errorf("failed to read snapshot header: %w", err)
	}
	preview = preview[:n]

	registry.mu.RLock()
	defer registry.mu.RUnlock()

	for _, c := range registry.codecs {
		if !c.CanDecode(bytes.NewReader(preview)) {
			continue
		}
		log.Debugf("decoding snapshot with %s codec", c.Name())
		s, err := c.Decode(io.MultiReader(bytes.NewReader(preview), r))
		if err != nil {
			return nil, fmt.Errorf("%s snapshot: %w", c.Name(), err)
		}
		return s, nil
	}

	return nil, ErrNoCodec
}
