// ABOUTME: Live process fetcher for Linux built on process_vm_readv
// ABOUTME: Maps kernel errors onto the fetcher error contract and captures snapshots

//go:build linux

package memory

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/prateek/pystate/layout"
)

// Process reads the memory of a running process
type Process struct {
	pid int
}

// OpenProcess checks that pid exists and returns a fetcher for it
func OpenProcess(pid int) (*Process, error) {
	if pid <= 0 {
		return nil, fmt.Errorf("%w: pid %d", ErrNoSuchProcess, pid)
	}
	if err := unix.Kill(pid, 0); err != nil && !errors.Is(err, unix.EPERM) {
		return nil, fmt.Errorf("pid %d: %w", pid, mapErrno(err))
	}
	log.Infof("attached to pid %d", pid)
	return &Process{pid: pid}, nil
}

// Pid returns the target process id
func (p *Process) Pid() int {
	return p.pid
}

func (p *Process) Read(addr layout.Address, n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: %d bytes at %s", ErrInvalidLength, n, addr)
	}
	buf := make([]byte, n)
	if n == 0 {
		return buf, nil
	}

	local := []unix.Iovec{{Base: &buf[0]}}
	local[0].SetLen(n)
	remote := []unix.RemoteIovec{{Base: uintptr(addr), Len: n}}

	got, err := unix.ProcessVMReadv(p.pid, local, remote, 0)
	if err != nil {
		return nil, fmt.Errorf("read %d bytes at %s: %w", n, addr, mapErrno(err))
	}
	if got != n {
		return nil, fmt.Errorf("%w: short read of %d/%d bytes at %s", ErrAddressUnmapped, got, n, addr)
	}
	return buf, nil
}

// Capture copies each range into a new snapshot tagged with version
func (p *Process) Capture(version string, ranges []Range) (*Snapshot, error) {
	s := NewSnapshot(version)
	for _, r := range ranges {
		data, err := p.Read(r.Addr, r.Size)
		if err != nil {
			return nil, err
		}
		if err := s.insert(r.Addr, data); err != nil {
			return nil, err
		}
	}
	log.Infof("captured %d regions from pid %d", s.Len(), p.pid)
	return s, nil
}

// mapErrno translates kernel errors into fetcher errors
func mapErrno(err error) error {
	switch {
	case errors.Is(err, unix.ESRCH):
		return fmt.Errorf("%w: %w", ErrNoSuchProcess, err)
	case errors.Is(err, unix.EPERM), errors.Is(err, unix.EACCES):
		return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
	case errors.Is(err, unix.EFAULT), errors.Is(err, unix.EIO):
		return fmt.Errorf("%w: %w", ErrAddressUnmapped, err)
	default:
		return err
	}
}
