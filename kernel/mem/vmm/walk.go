package vmm

import (
	"unsafe"

	"github.com/UltraOS/Ultra/kernel"
	"github.com/UltraOS/Ultra/kernel/mem"
	"github.com/UltraOS/Ultra/kernel/mem/pmm"
)

var (
	// ptePtrFn returns a pointer to the entry at the given virtual
	// address; overridden by tests so walk can be exercised without a
	// real direct map backing it.
	ptePtrFn = func(entryAddr uintptr) unsafe.Pointer {
		return unsafe.Pointer(entryAddr)
	}

	// memsetFn zeroes a freshly allocated table; overridden by tests for
	// the same reason as ptePtrFn, since the real implementation writes
	// through the direct map to whatever physical address allocFn
	// returned.
	memsetFn = mem.Memset
)

// pageTableVisitor is invoked by walk for every level it passes
// through, including the stop level. Returning a non-nil error aborts
// the walk.
type pageTableVisitor func(level uint8, pte *pageTableEntry) *kernel.Error

// walk descends the page-table hierarchy rooted at root, following the
// index bits of vaddr at each level, until it reaches stopLevel (the
// leaf for a normal mapping, or the huge-page level for a huge mapping).
// visit is called at every level from 0 up to and including stopLevel.
//
// When a level below stopLevel has no present entry, walk consults
// allocFn: a nil allocFn makes a missing intermediate table
// ErrInvalidMapping (used by lookups and unmap); a non-nil allocFn
// allocates and zeroes a fresh table and installs it, present and
// writable so subordinate protection can still be narrowed at the leaf
// (used by Map).
func walk(root pmm.Frame, vaddr uintptr, stopLevel uint8, allocFn FrameAllocatorFn, visit pageTableVisitor) *kernel.Error {
	tableAddr := physToVirt(root.Address())

	for level := uint8(0); ; level++ {
		idx := (vaddr >> levelShift(level)) & ((1 << levelBits(level)) - 1)
		entryAddr := tableAddr + (idx << mem.PointerShift)
		pte := (*pageTableEntry)(ptePtrFn(entryAddr))

		if err := visit(level, pte); err != nil {
			return err
		}
		if level == stopLevel {
			return nil
		}

		if pte.HasFlags(FlagHugePage) {
			return errNoHugePageSupport
		}

		if !pte.HasFlags(FlagPresent) {
			if allocFn == nil {
				return ErrInvalidMapping
			}
			frame, err := allocFn()
			if err != nil {
				return err
			}
			memsetFn(physToVirt(frame.Address()), 0, mem.PageSize)
			*pte = 0
			pte.SetFrame(frame)
			pte.SetFlags(FlagPresent | FlagRW | FlagUserAccessible)
		}

		tableAddr = physToVirt(pte.Frame().Address())
	}
}
