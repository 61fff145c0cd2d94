package vmm

import (
	"testing"
	"unsafe"

	"github.com/UltraOS/Ultra/kernel"
	"github.com/UltraOS/Ultra/kernel/mem"
	"github.com/UltraOS/Ultra/kernel/mem/pmm"
)

const entriesPerTable = 1 << 9

// fakeHierarchy backs a numLevels-deep table walk with plain Go arrays
// and redirects ptePtrFn to index into them by call order, exactly the
// technique the teacher's map_test.go uses to exercise walk() without a
// real MMU or direct map.
type fakeHierarchy struct {
	tables    [maxPageLevels][entriesPerTable]pageTableEntry
	nextTable int
}

func newFakeHierarchy(t *testing.T) *fakeHierarchy {
	t.Helper()
	fh := &fakeHierarchy{}

	origPtePtr, origFlush, origMemset := ptePtrFn, flushTLBEntryFn, memsetFn
	t.Cleanup(func() {
		ptePtrFn = origPtePtr
		flushTLBEntryFn = origFlush
		memsetFn = origMemset
	})

	callCount := 0
	ptePtrFn = func(entryAddr uintptr) unsafe.Pointer {
		idx := (entryAddr & uintptr(mem.PageSize-1)) >> mem.PointerShift
		level := callCount
		callCount++
		if callCount == int(numLevels) {
			callCount = 0
		}
		return unsafe.Pointer(&fh.tables[level][idx])
	}
	flushTLBEntryFn = func(uintptr) {}
	// walk() zeroes every freshly allocated table through the direct
	// map; fakeAllocFn hands out frame numbers with no real backing
	// memory behind them, so skip the zeroing here (fh.tables starts
	// zeroed already).
	memsetFn = func(uintptr, byte, mem.Size) {}

	return fh
}

func fakeAllocFn(fh *fakeHierarchy) FrameAllocatorFn {
	return func() (pmm.Frame, *kernel.Error) {
		fh.nextTable++
		return pmm.Frame(fh.nextTable), nil
	}
}

func TestNativeProtectionMapping(t *testing.T) {
	tests := []struct {
		name string
		prot VMProt
		want PageTableEntryFlag
	}{
		{"no read means not present", 0, 0},
		{"read only", ProtRead | ProtKernel, FlagPresent | FlagNoExecute},
		{"read write", ProtRead | ProtWrite | ProtKernel, FlagPresent | FlagRW | FlagNoExecute},
		{"read exec", ProtRead | ProtExec | ProtKernel, FlagPresent},
		{"user readable", ProtRead, FlagPresent | FlagNoExecute | FlagUserAccessible},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := native(tt.prot); got != tt.want {
				t.Errorf("native(%v) = %v, want %v", tt.prot, got, tt.want)
			}
		})
	}
}

func TestMapPageRoundTrip(t *testing.T) {
	fh := newFakeHierarchy(t)
	root := pmm.Frame(0)

	vaddr := uintptr(0x1000)
	paddr := uintptr(0x500000)

	if err := MapPage(root, vaddr, paddr, ProtRead|ProtWrite|ProtKernel, fakeAllocFn(fh)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := PhysicalAddressOf(root, vaddr); got != paddr {
		t.Fatalf("PhysicalAddressOf = %#x, want %#x", got, paddr)
	}

	if err := UnmapPage(root, vaddr); err != nil {
		t.Fatalf("unexpected error unmapping: %v", err)
	}

	if got := PhysicalAddressOf(root, vaddr); got != 0 {
		t.Fatalf("expected 0 after unmap, got %#x", got)
	}
}

func TestPhysicalAddressOfMissingMapping(t *testing.T) {
	newFakeHierarchy(t)
	root := pmm.Frame(0)

	if got := PhysicalAddressOf(root, 0x2000); got != 0 {
		t.Fatalf("expected 0 for an unmapped address, got %#x", got)
	}
}

func TestMapPageOffsetWithinPage(t *testing.T) {
	fh := newFakeHierarchy(t)
	root := pmm.Frame(0)

	vaddr := uintptr(0x3000)
	paddr := uintptr(0x700000)
	if err := MapPage(root, vaddr, paddr, ProtRead|ProtKernel, fakeAllocFn(fh)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := PhysicalAddressOf(root, vaddr+0x123); got != paddr+0x123 {
		t.Fatalf("got %#x, want %#x", got, paddr+0x123)
	}
}
