package bootalloc

import (
	"testing"

	"github.com/UltraOS/Ultra/kernel/mem"
)

const page = uint64(mem.PageSize)

func flat(a *Allocator) []memRange {
	return a.ranges
}

func assertCanonical(t *testing.T, a *Allocator) {
	t.Helper()
	rs := flat(a)
	for i := 1; i < len(rs); i++ {
		if rs[i-1].end() != rs[i].physAddr {
			t.Fatalf("range list has a gap/overlap at index %d: %#x != %#x", i, rs[i-1].end(), rs[i].physAddr)
		}
		if rs[i-1].allocated() == rs[i].allocated() {
			t.Fatalf("range list not canonical: adjacent ranges %d/%d have equal type", i-1, i)
		}
	}
}

func TestInitSeedsCanonicalRanges(t *testing.T) {
	var a Allocator
	a.Init([]Entry{
		{PhysAddress: 0x0000, Size: 4 * page, Type: MemFree},
		{PhysAddress: 0x4000, Size: 2 * page, Type: MemKernelBinary},
		{PhysAddress: 0x6000, Size: 4 * page, Type: MemFree},
	})
	assertCanonical(t, &a)
	if got := len(flat(&a)); got != 3 {
		t.Fatalf("expected 3 ranges, got %d", got)
	}
}

func TestInitMergesAdjacentSameType(t *testing.T) {
	var a Allocator
	a.Init([]Entry{
		{PhysAddress: 0x0000, Size: 2 * page, Type: MemFree},
		{PhysAddress: 0x2000, Size: 2 * page, Type: MemFree},
	})
	assertCanonical(t, &a)
	if got := len(flat(&a)); got != 1 {
		t.Fatalf("expected adjacent free entries to merge into 1 range, got %d", got)
	}
	if got := flat(&a)[0].size(); got != 4*page {
		t.Fatalf("expected merged size %#x, got %#x", 4*page, got)
	}
}

// TestMiddleSplit carves an allocation out of the middle of a single
// free range, leaving a free remainder on each side.
func TestMiddleSplit(t *testing.T) {
	var a Allocator
	a.Init([]Entry{{PhysAddress: 0x0000, Size: 10 * page, Type: MemFree}})

	addr, err := a.AllocAt(0x4000, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if addr != 0x4000 {
		t.Fatalf("got addr %#x, want %#x", addr, 0x4000)
	}

	assertCanonical(t, &a)
	rs := flat(&a)
	if len(rs) != 3 {
		t.Fatalf("expected 3 ranges after middle split, got %d", len(rs))
	}
	if rs[0].allocated() || rs[2].allocated() || !rs[1].allocated() {
		t.Fatalf("expected free/alloc/free, got %v/%v/%v", rs[0].allocated(), rs[1].allocated(), rs[2].allocated())
	}
}

// TestWholeRangeCoalesce frees an allocation sandwiched between two free
// ranges and expects all three to coalesce back into one.
func TestWholeRangeCoalesce(t *testing.T) {
	var a Allocator
	a.Init([]Entry{
		{PhysAddress: 0x0000, Size: 4 * page, Type: MemFree},
		{PhysAddress: 0x4000, Size: 2 * page, Type: MemKernelBinary},
		{PhysAddress: 0x6000, Size: 4 * page, Type: MemFree},
	})

	a.Free(0x4000, 2)

	assertCanonical(t, &a)
	rs := flat(&a)
	if len(rs) != 1 {
		t.Fatalf("expected full coalesce into 1 range, got %d", len(rs))
	}
	if rs[0].allocated() {
		t.Fatal("expected coalesced range to be free")
	}
	if rs[0].physAddr != 0x0000 || rs[0].end() != 0xA000 {
		t.Fatalf("unexpected coalesced bounds [%#x, %#x)", rs[0].physAddr, rs[0].end())
	}
}

// TestTopDownOrder checks top-down placement within one range: a single
// free range spanning [0, 0xC000) is consumed from the top down, and
// the final request fails with no memory once it is exhausted.
func TestTopDownOrder(t *testing.T) {
	var a Allocator
	a.Init([]Entry{{PhysAddress: 0x0000, Size: 12 * page, Type: MemFree}})

	cases := []struct {
		pages   uint64
		want    uintptr
		wantErr bool
	}{
		{1, 0xB000, false},
		{2, 0x9000, false},
		{2, 0x7000, false},
	}
	for _, c := range cases {
		got, err := a.Alloc(c.pages)
		if err != nil {
			t.Fatalf("Alloc(%d): unexpected error %v", c.pages, err)
		}
		if got != c.want {
			t.Fatalf("Alloc(%d): got %#x, want %#x", c.pages, got, c.want)
		}
	}

	// Remaining free space is [0, 0x7000) = 7 pages; requesting more
	// than that fails, even though total free memory elsewhere is 0.
	if _, err := a.Alloc(8); err == nil {
		t.Fatal("expected out-of-memory error for over-large request")
	}
}

// TestTopDownOrderSkipsAllocatedRanges walks the spec's literal
// "Top-down order" scenario: a free range sits below, between, and
// above two allocated/free ranges, so a top-down scan must skip over
// the already-allocated [0x4000, 0x5000) range rather than just
// walking highest-to-lowest address regardless of type.
func TestTopDownOrderSkipsAllocatedRanges(t *testing.T) {
	var a Allocator
	a.Init([]Entry{
		{PhysAddress: 0x2000, Size: 2 * page, Type: MemFree},
		{PhysAddress: 0x4000, Size: page, Type: MemKernelBinary},
		{PhysAddress: 0x6000, Size: page, Type: MemFree},
		{PhysAddress: 0x8000, Size: 3 * page, Type: MemFree},
	})

	cases := []struct {
		pages   uint64
		want    uintptr
		wantErr bool
	}{
		{1, 0xA000, false},
		{2, 0x8000, false},
		{2, 0x2000, false},
		{2, 0, true},
	}
	for _, c := range cases {
		got, err := a.Alloc(c.pages)
		if c.wantErr {
			if err == nil {
				t.Fatalf("Alloc(%d): expected ENOMEM, got %#x", c.pages, got)
			}
			continue
		}
		if err != nil {
			t.Fatalf("Alloc(%d): unexpected error %v", c.pages, err)
		}
		if got != c.want {
			t.Fatalf("Alloc(%d): got %#x, want %#x", c.pages, got, c.want)
		}
	}
}

func TestAllocRoundTrip(t *testing.T) {
	var a Allocator
	a.Init([]Entry{{PhysAddress: 0x100000, Size: 16 * page, Type: MemFree}})

	addr, err := a.Alloc(3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	a.Free(addr, 3)

	assertCanonical(t, &a)
	rs := flat(&a)
	if len(rs) != 1 || rs[0].allocated() {
		t.Fatalf("expected allocator to return to a single free range after round trip, got %+v", rs)
	}
	if rs[0].physAddr != 0x100000 || rs[0].size() != 16*page {
		t.Fatalf("unexpected bounds after round trip: %+v", rs[0])
	}
}

func TestAllocAtRejectsAllocatedWindow(t *testing.T) {
	var a Allocator
	a.Init([]Entry{{PhysAddress: 0x0000, Size: 4 * page, Type: MemKernelBinary}})

	if _, err := a.AllocAt(0x1000, 1); err == nil {
		t.Fatal("expected error allocating inside an already-allocated range")
	}
}

func TestGrowthPreservesEntries(t *testing.T) {
	// grow() carves its new backing array out of the allocator's own
	// managed physical memory, which here is a made-up address range
	// with no real memory behind it; redirect the overlay to a plain Go
	// slice so growth can be exercised without touching raw memory.
	origBackingSlice := backingSliceFn
	t.Cleanup(func() { backingSliceFn = origBackingSlice })
	backingSliceFn = func(addr uintptr, length, capacity int) []memRange {
		return make([]memRange, length, capacity)
	}

	// Seed twice as many entries as the static capacity, each free page
	// isolated by a single allocated guard page, so the backing array
	// must grow twice (64 -> 128 -> 256 slots). Each growth takes its
	// one backing page from the topmost seeded free page, which then
	// merges with the guards on both sides (-2 ranges); the second
	// growth also frees the first growth's page, splitting that merged
	// range back apart (+2). Every free page is 1 page long, so a third
	// growth (two contiguous pages for 512 slots) would find no room.
	entries := make([]Entry, 0, initialStaticCapacity*2)
	addr := uintptr(0x1000000)
	for i := 0; i < initialStaticCapacity; i++ {
		entries = append(entries, Entry{PhysAddress: addr, Size: page, Type: MemFree})
		addr += uintptr(page)
		entries = append(entries, Entry{PhysAddress: addr, Size: page, Type: MemKernelBinary})
		addr += uintptr(page)
	}
	var a Allocator
	a.Init(entries)

	assertCanonical(t, &a)
	if got := len(flat(&a)); got != len(entries)-2 {
		t.Fatalf("expected %d ranges preserved, got %d", len(entries)-2, got)
	}
}
