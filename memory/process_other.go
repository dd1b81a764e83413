// ABOUTME: Live process fetcher stub for platforms without process_vm_readv
// ABOUTME: Every operation reports errors.ErrUnsupported; snapshots still work

//go:build !linux

package memory

import (
	"errors"
	"fmt"

	"github.com/prateek/pystate/layout"
)

// Process reads the memory of a running process
type Process struct {
	pid int
}

// OpenProcess is only implemented on Linux
func OpenProcess(pid int) (*Process, error) {
	return nil, fmt.Errorf("pid %d: %w", pid, errors.ErrUnsupported)
}

func (p *Process) Pid() int {
	return p.pid
}

func (p *Process) Read(addr layout.Address, n int) ([]byte, error) {
	return nil, errors.ErrUnsupported
}

func (p *Process) Capture(version string, ranges []Range) (*Snapshot, error) {
	return nil, errors.ErrUnsupported
}
