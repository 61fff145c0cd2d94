package addrspace

import (
	"testing"

	"github.com/UltraOS/Ultra/kernel/mem"
)

// newTestSpace builds an AddressSpace whose virtual-range allocator can
// be exercised without a real page table backing it: New's PageDirectoryTable.Init
// writes through the direct map to zero the root frame, which only a
// running kernel can back with real memory. The range-allocator tests
// below never touch as.pdt, so leaving it as the zero value is safe.
func newTestSpace() *AddressSpace {
	return &AddressSpace{bound: Range{Base: 0x1000, Length: 0x100000}}
}

func TestAllocateLowestGap(t *testing.T) {
	as := newTestSpace()

	r1, err := as.Allocate(0x1000, 0x1000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r1.Base != 0x1000 {
		t.Fatalf("got base %#x, want %#x", r1.Base, 0x1000)
	}

	r2, err := as.Allocate(0x1000, 0x1000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r2.Base != r1.End() {
		t.Fatalf("got base %#x, want %#x", r2.Base, r1.End())
	}
}

func TestAllocateReusesFreedGap(t *testing.T) {
	as := newTestSpace()

	r1, _ := as.Allocate(0x1000, 0x1000)
	r2, _ := as.Allocate(0x1000, 0x1000)
	_ = r2

	if err := as.Deallocate(r1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	r3, err := as.Allocate(0x1000, 0x1000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r3.Base != r1.Base {
		t.Fatalf("expected freed gap to be reused at %#x, got %#x", r1.Base, r3.Base)
	}
}

func TestAllocateExplicitRejectsOverlap(t *testing.T) {
	as := newTestSpace()
	if err := as.AllocateExplicit(Range{Base: 0x2000, Length: 0x2000}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := as.AllocateExplicit(Range{Base: 0x3000, Length: 0x1000}); err == nil {
		t.Fatal("expected overlap error")
	}
}

func TestAllocateExplicitRejectsOutOfBounds(t *testing.T) {
	as := newTestSpace()
	if err := as.AllocateExplicit(Range{Base: 0x10, Length: 0x100}); err == nil {
		t.Fatal("expected out-of-bounds error")
	}
}

func TestDeallocateUnknownRangeErrors(t *testing.T) {
	as := newTestSpace()
	if err := as.Deallocate(Range{Base: 0x5000, Length: 0x1000}); err == nil {
		t.Fatal("expected error deallocating an unknown range")
	}
}

func TestContains(t *testing.T) {
	as := newTestSpace()
	if !as.Contains(0x1500) {
		t.Error("expected 0x1500 to be within bounds")
	}
	if as.Contains(0x200000) {
		t.Error("expected 0x200000 to be out of bounds")
	}
}

func TestLargestFreeGap(t *testing.T) {
	as := newTestSpace()
	full := as.LargestFreeGap()
	if full != mem.Size(0x100000) {
		t.Fatalf("got %d, want %d", full, 0x100000)
	}

	as.Allocate(0x1000, 0x1000)
	if got := as.LargestFreeGap(); got >= full {
		t.Fatalf("expected gap to shrink after allocation, got %d (was %d)", got, full)
	}
}

type fakeIPI struct {
	calls int
	addr  uintptr
	n     uint64
}

func (f *fakeIPI) InvalidateRange(vaddr uintptr, length uint64) {
	f.calls++
	f.addr = vaddr
	f.n = length
}

// TestSetIPICommunicator only verifies the collaborator is installed
// correctly; Unmap/UnmapRange's "broadcast exactly once after the local
// invalidation" behavior requires a real page-table walk and is not
// covered by these tests.
func TestSetIPICommunicator(t *testing.T) {
	as := newTestSpace()
	fake := &fakeIPI{}
	as.SetIPICommunicator(fake)

	as.ipi.InvalidateRange(0x4000, 2)
	if fake.calls != 1 || fake.addr != 0x4000 || fake.n != 2 {
		t.Fatalf("got calls=%d addr=%#x n=%d, want calls=1 addr=%#x n=2", fake.calls, fake.addr, fake.n, 0x4000)
	}
}
