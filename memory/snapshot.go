// ABOUTME: In-memory snapshot of captured target regions
// ABOUTME: Serves reads offline exactly as the live process would have

package memory

import (
	"bytes"
	"errors"
	"fmt"
	"sort"

	"github.com/prateek/pystate/layout"
)

// ErrRegionOverlap is returned when a region overlaps one already captured
var ErrRegionOverlap = errors.New("region overlaps existing region")

// Region is one contiguous range of captured memory
type Region struct {
	Addr layout.Address
	Data []byte
}

// End returns the first address past the region
func (r Region) End() layout.Address {
	return r.Addr + layout.Address(len(r.Data))
}

// Range names memory to capture
type Range struct {
	Addr layout.Address
	Size int
}

// Snapshot is a set of non-overlapping regions plus the interpreter version
// recorded when they were captured. It implements Fetcher.
type Snapshot struct {
	Version string
	regions []Region // sorted by Addr
}

// NewSnapshot creates an empty snapshot for the given version string
func NewSnapshot(version string) *Snapshot {
	return &Snapshot{Version: version}
}

// Add inserts a copy of data as the region at addr. Empty regions are
// ignored.
func (s *Snapshot) Add(addr layout.Address, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	return s.insert(addr, bytes.Clone(data))
}

// insert takes ownership of data
func (s *Snapshot) insert(addr layout.Address, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	r := Region{Addr: addr, Data: data}

	i := sort.Search(len(s.regions), func(i int) bool { return s.regions[i].Addr >= addr })
	if i > 0 && s.regions[i-1].End() > addr {
		return fmt.Errorf("%w: %s", ErrRegionOverlap, addr)
	}
	if i < len(s.regions) && s.regions[i].Addr < r.End() {
		return fmt.Errorf("%w: %s", ErrRegionOverlap, addr)
	}

	s.regions = append(s.regions, Region{})
	copy(s.regions[i+1:], s.regions[i:])
	s.regions[i] = r
	return nil
}

// Regions returns copies of the captured regions in address order
func (s *Snapshot) Regions() []Region {
	out := make([]Region, len(s.regions))
	for i, r := range s.regions {
		out[i] = Region{Addr: r.Addr, Data: bytes.Clone(r.Data)}
	}
	return out
}

// Len returns the number of regions
func (s *Snapshot) Len() int {
	return len(s.regions)
}

// Read returns a copy of n bytes at addr. The whole range must lie inside a
// single region.
func (s *Snapshot) Read(addr layout.Address, n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: %d bytes at %s", ErrInvalidLength, n, addr)
	}

	// last region starting at or before addr
	i := sort.Search(len(s.regions), func(i int) bool { return s.regions[i].Addr > addr }) - 1
	if i < 0 {
		return nil, fmt.Errorf("%w: %d bytes at %s", ErrAddressUnmapped, n, addr)
	}

	r := s.regions[i]
	off := uint64(addr - r.Addr)
	if off+uint64(n) > uint64(len(r.Data)) || off+uint64(n) < off {
		return nil, fmt.Errorf("%w: %d bytes at %s", ErrAddressUnmapped, n, addr)
	}

	out := make([]byte, n)
	copy(out, r.Data[off:])
	return out, nil
}
