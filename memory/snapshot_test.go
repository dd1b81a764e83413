// ABOUTME: Tests for snapshot regions and the size-limited fetcher
// ABOUTME: Checks range containment, overlap rejection and error mapping

package memory

import (
	"bytes"
	"errors"
	"math/rand"
	"testing"

	"github.com/prateek/pystate/layout"
)

func TestSnapshotRead(t *testing.T) {
	s := NewSnapshot("3.12")
	if err := s.Add(0x1000, []byte{0, 1, 2, 3, 4, 5, 6, 7}); err != nil {
		t.Fatal(err)
	}
	if err := s.Add(0x2000, []byte{0xa, 0xb, 0xc, 0xd}); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		addr    layout.Address
		n       int
		want    []byte
		wantErr error
	}{
		{name: "whole region", addr: 0x1000, n: 8, want: []byte{0, 1, 2, 3, 4, 5, 6, 7}},
		{name: "inner range", addr: 0x1003, n: 2, want: []byte{3, 4}},
		{name: "second region", addr: 0x2001, n: 3, want: []byte{0xb, 0xc, 0xd}},
		{name: "zero length", addr: 0x2000, n: 0, want: []byte{}},
		{name: "before first region", addr: 0xfff, n: 1, wantErr: ErrAddressUnmapped},
		{name: "runs past region", addr: 0x1006, n: 4, wantErr: ErrAddressUnmapped},
		{name: "gap between regions", addr: 0x1800, n: 1, wantErr: ErrAddressUnmapped},
		{name: "after last region", addr: 0x3000, n: 1, wantErr: ErrAddressUnmapped},
		{name: "negative length", addr: 0x1000, n: -1, wantErr: ErrInvalidLength},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Read(tt.addr, tt.n)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Read(%s, %d) error = %v, want %v", tt.addr, tt.n, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Read(%s, %d) error = %v", tt.addr, tt.n, err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("Read(%s, %d) = %v, want %v", tt.addr, tt.n, got, tt.want)
			}
		})
	}
}

func TestSnapshotReadReturnsCopy(t *testing.T) {
	s := NewSnapshot("2.7")
	if err := s.Add(0x10, []byte{1, 2, 3}); err != nil {
		t.Fatal(err)
	}
	b, _ := s.Read(0x10, 3)
	b[0] = 99
	again, _ := s.Read(0x10, 1)
	if again[0] != 1 {
		t.Error("mutating a read changed the snapshot")
	}
}

func TestSnapshotOwnsRegionData(t *testing.T) {
	data := []byte{1, 2, 3, 4}
	s := NewSnapshot("3.10")
	if err := s.Add(0x40, data); err != nil {
		t.Fatal(err)
	}

	// neither the added slice nor a listed region aliases the snapshot
	data[0] = 99
	s.Regions()[0].Data[1] = 98

	got, err := s.Read(0x40, 4)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if !bytes.Equal(got, []byte{1, 2, 3, 4}) {
		t.Errorf("Read() = %v, want [1 2 3 4]", got)
	}
}

func TestSnapshotAddOverlap(t *testing.T) {
	s := NewSnapshot("3.9")
	if err := s.Add(0x100, make([]byte, 0x10)); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		addr    layout.Address
		size    int
		wantErr bool
	}{
		{"overlaps start", 0xf8, 0x10, true},
		{"overlaps end", 0x10f, 4, true},
		{"inside", 0x104, 2, true},
		{"adjacent after", 0x110, 4, false},
		{"adjacent before", 0xf0, 0x10, false},
		{"empty", 0x104, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.Add(tt.addr, make([]byte, tt.size))
			if tt.wantErr != errors.Is(err, ErrRegionOverlap) {
				t.Errorf("Add(%s, %d) error = %v, wantErr %v", tt.addr, tt.size, err, tt.wantErr)
			}
		})
	}

	if s.Len() != 3 {
		t.Errorf("Len() = %d, want 3", s.Len())
	}
	regions := s.Regions()
	for i := 1; i < len(regions); i++ {
		if regions[i-1].Addr >= regions[i].Addr {
			t.Errorf("regions out of order at %d: %s >= %s", i, regions[i-1].Addr, regions[i].Addr)
		}
	}
}

// Property: every byte of every added region reads back unchanged
func TestPropertySnapshotReadsBackRegions(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	s := NewSnapshot("3.11")

	type placed struct {
		addr layout.Address
		data []byte
	}
	var all []placed
	addr := layout.Address(0x10000)
	for i := 0; i < 200; i++ {
		addr += layout.Address(r.Intn(64))
		data := make([]byte, 1+r.Intn(128))
		r.Read(data)
		if err := s.Add(addr, data); err != nil {
			t.Fatalf("Add(%s) error = %v", addr, err)
		}
		all = append(all, placed{addr, data})
		addr += layout.Address(len(data))
	}

	for _, p := range all {
		off := r.Intn(len(p.data))
		n := r.Intn(len(p.data) - off + 1)
		got, err := s.Read(p.addr+layout.Address(off), n)
		if err != nil {
			t.Fatalf("Read(%s+%d, %d) error = %v", p.addr, off, n, err)
		}
		if !bytes.Equal(got, p.data[off:off+n]) {
			t.Errorf("Read(%s+%d, %d) mismatch", p.addr, off, n)
		}
	}
}

func TestLimit(t *testing.T) {
	s := NewSnapshot("3.10")
	if err := s.Add(0x1000, make([]byte, 64)); err != nil {
		t.Fatal(err)
	}
	f := Limit(s, 16)

	if _, err := f.Read(0x1000, 16); err != nil {
		t.Errorf("Read at the limit: error = %v", err)
	}
	if _, err := f.Read(0x1000, 17); !errors.Is(err, ErrReadTooLarge) {
		t.Errorf("Read over the limit: error = %v, want ErrReadTooLarge", err)
	}
	if _, err := f.Read(0x1000, -1); !errors.Is(err, ErrInvalidLength) {
		t.Errorf("Read of negative length: error = %v, want ErrInvalidLength", err)
	}
	// errors from the wrapped fetcher pass through untouched
	if _, err := f.Read(0x5000, 8); !errors.Is(err, ErrAddressUnmapped) {
		t.Errorf("Read of unmapped address: error = %v, want ErrAddressUnmapped", err)
	}
}

func BenchmarkSnapshotRead(b *testing.B) {
	s := NewSnapshot("3.12")
	for i := 0; i < 1024; i++ {
		if err := s.Add(layout.Address(i*0x1000), make([]byte, 0x800)); err != nil {
			b.Fatal(err)
		}
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := s.Read(layout.Address((i%1024)*0x1000+0x10), 64); err != nil {
			b.Fatal(err)
		}
	}
}
