// ABOUTME: Fetcher contract for copying bytes out of a target process
// ABOUTME: Defines the read errors every fetcher reports and a size-limiting wrapper

// Package memory supplies the bytes the layout decoders work on, either from
// a live process or from a snapshot captured earlier.
package memory

import (
	"errors"
	"fmt"

	"github.com/tliron/commonlog"

	"github.com/prateek/pystate/layout"
)

var (
	// ErrNoSuchProcess is returned when the target process is gone
	ErrNoSuchProcess = errors.New("no such process")

	// ErrPermissionDenied is returned when the target's memory may not be read
	ErrPermissionDenied = errors.New("permission denied")

	// ErrAddressUnmapped is returned when part of the requested range is not readable
	ErrAddressUnmapped = errors.New("address not mapped")

	// ErrInvalidLength is returned for negative read lengths
	ErrInvalidLength = errors.New("invalid read length")

	// ErrReadTooLarge is returned by a limited fetcher for oversized reads
	ErrReadTooLarge = errors.New("read exceeds limit")
)

var log = commonlog.GetLogger("pystate.memory")

// Fetcher copies n bytes starting at addr out of a target. Implementations
// return exactly n bytes or an error; partial reads are errors.
type Fetcher interface {
	Read(addr layout.Address, n int) ([]byte, error)
}

// limited rejects reads above max before they reach the wrapped fetcher
type limited struct {
	f   Fetcher
	max int
}

// Limit wraps f so that no single read may exceed max bytes
func Limit(f Fetcher, max int) Fetcher {
	return &limited{f: f, max: max}
}

func (l *limited) Read(addr layout.Address, n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: %d bytes at %s", ErrInvalidLength, n, addr)
	}
	if n > l.max {
		log.Debugf("rejected read of %d bytes at %s (limit %d)", n, addr, l.max)
		return nil, fmt.Errorf("%w: %d bytes at %s (limit %d)", ErrReadTooLarge, n, addr, l.max)
	}
	return l.f.Read(addr, n)
}
