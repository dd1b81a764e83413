// ABOUTME: CBOR snapshot codec
// ABOUTME: Compact binary snapshots with deterministic encoding for capture and replay

package memory

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"

	"github.com/prateek/pystate/layout"
)

// cborMagic is the self-described CBOR tag (55799) every snapshot starts with
var cborMagic = []byte{0xd9, 0xd9, 0xf7}

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("memory: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em

	Register(&CBORCodec{})
}

// CBORCodec reads and writes snapshots as CBOR
type CBORCodec struct{}

type cborSnapshot struct {
	Version string       `cbor:"1,keyasint"`
	Regions []cborRegion `cbor:"2,keyasint"`
}

type cborRegion struct {
	Addr uint64 `cbor:"1,keyasint"`
	Data []byte `cbor:"2,keyasint"`
}

func (c *CBORCodec) Name() string { return "cbor" }

func (c *CBORCodec) CanDecode(r io.Reader) bool {
	head := make([]byte, len(cborMagic))
	if _, err := io.ReadFull(r, head); err != nil {
		return false
	}
	return bytes.Equal(head, cborMagic)
}

func (c *CBORCodec) Decode(r io.Reader) (*Snapshot, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if !bytes.HasPrefix(data, cborMagic) {
		return nil, errors.New("missing CBOR snapshot tag")
	}

	var doc cborSnapshot
	if err := cbor.Unmarshal(data[len(cborMagic):], &doc); err != nil {
		return nil, fmt.Errorf("memory: unmarshal snapshot: %w", err)
	}

	s := NewSnapshot(doc.Version)
	for i, reg := range doc.Regions {
		if err := s.insert(layout.Address(reg.Addr), reg.Data); err != nil {
			return nil, fmt.Errorf("region at index %d: %w", i, err)
		}
	}
	return s, nil
}

func (c *CBORCodec) Encode(w io.Writer, s *Snapshot) error {
	if s == nil {
		return errors.New("nil snapshot")
	}
	doc := cborSnapshot{Version: s.Version}
	for _, reg := range s.regions {
		doc.Regions = append(doc.Regions, cborRegion{Addr: uint64(reg.Addr), Data: reg.Data})
	}

	data, err := cborEncMode.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("memory: marshal snapshot: %w", err)
	}
	if _, err := w.Write(cborMagic); err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
