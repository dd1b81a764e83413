// ABOUTME: JSON snapshot codec
// ABOUTME: Human-inspectable snapshots with base64 region payloads, used for fixtures

package memory

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/prateek/pystate/layout"
)

// jsonFormat tags a JSON document as a snapshot
const jsonFormat = "pystate-snapshot"

// JSONCodec reads and writes snapshots as JSON
type JSONCodec struct{}

// jsonSnapshot is the JSON document; format is always the first key
type jsonSnapshot struct {
	Format  string       `json:"format"`
	Version string       `json:"version"`
	Regions []jsonRegion `json:"regions"`
}

type jsonRegion struct {
	Addr uint64 `json:"addr"`
	Data []byte `json:"data"`
}

func (c *JSONCodec) Name() string { return "json" }

// CanDecode checks that the document opens with the snapshot format tag.
// Only the leading tokens are read, so a truncated preview is fine.
func (c *JSONCodec) CanDecode(r io.Reader) bool {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err != nil || tok != json.Delim('{') {
		return false
	}
	key, err := dec.Token()
	if err != nil || key != "format" {
		return false
	}
	value, err := dec.Token()
	return err == nil && value == jsonFormat
}

func (c *JSONCodec) Decode(r io.Reader) (*Snapshot, error) {
	var doc jsonSnapshot
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode JSON: %w", err)
	}
	if doc.Format != jsonFormat {
		return nil, fmt.Errorf("unexpected format %q", doc.Format)
	}

	s := NewSnapshot(doc.Version)
	for i, reg := range doc.Regions {
		if reg.Data == nil {
			return nil, fmt.Errorf("region at index %d missing data", i)
		}
		if err := s.insert(layout.Address(reg.Addr), reg.Data); err != nil {
			return nil, fmt.Errorf("region at index %d: %w", i, err)
		}
	}
	return s, nil
}

func (c *JSONCodec) Encode(w io.Writer, s *Snapshot) error {
	if s == nil {
		return errors.New("nil snapshot")
	}
	doc := jsonSnapshot{
		Format:  jsonFormat,
		Version: s.Version,
		Regions: make([]jsonRegion, 0, s.Len()),
	}
	for _, reg := range s.regions {
		doc.Regions = append(doc.Regions, jsonRegion{Addr: uint64(reg.Addr), Data: reg.Data})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(&doc)
}

// init registers the JSON codec
func init() {
	Register(&JSONCodec{})
}
