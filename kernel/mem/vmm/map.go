package vmm

import (
	"github.com/UltraOS/Ultra/kernel"
	"github.com/UltraOS/Ultra/kernel/mem"
	"github.com/UltraOS/Ultra/kernel/mem/pmm"
)

// FrameAllocatorFn allocates a single physical frame, used to supply
// freshly created intermediate page tables during a walk.
type FrameAllocatorFn func() (pmm.Frame, *kernel.Error)

var panicAllocFn FrameAllocatorFn = func() (pmm.Frame, *kernel.Error) {
	return pmm.InvalidFrame, kernel.New("vmm", "early mapping path required an intermediate table that did not already exist", kernel.Inval)
}

// MapPage installs a vaddr -> paddr translation in the hierarchy rooted
// at root, allocating any missing intermediate tables via allocFn, and
// flushes the local TLB entry for vaddr (spec ?4.D map_page).
func MapPage(root pmm.Frame, vaddr, paddr uintptr, prot VMProt, allocFn FrameAllocatorFn) *kernel.Error {
	leaf := numLevels - 1
	err := walk(root, vaddr, leaf, allocFn, func(level uint8, pte *pageTableEntry) *kernel.Error {
		if level != leaf {
			return nil
		}
		*pte = 0
		pte.SetFrame(pmm.FrameFromAddress(paddr))
		pte.SetFlags(native(prot))
		return nil
	})
	if err == nil {
		flushTLBEntryFn(vaddr)
	}
	return err
}

// MapHugePage is identical to MapPage but stops one level early and
// sets the huge-page bit; vaddr and paddr must already be aligned to
// the huge page size by the caller (spec ?4.D map_huge_page).
func MapHugePage(root pmm.Frame, vaddr, paddr uintptr, prot VMProt, allocFn FrameAllocatorFn) *kernel.Error {
	level := hugePageLevel()
	err := walk(root, vaddr, level, allocFn, func(l uint8, pte *pageTableEntry) *kernel.Error {
		if l != level {
			return nil
		}
		*pte = 0
		pte.SetFrame(pmm.FrameFromAddress(paddr))
		pte.SetFlags(native(prot) | FlagHugePage)
		return nil
	})
	if err == nil {
		flushTLBEntryFn(vaddr)
	}
	return err
}

// MapRange calls MapPage once per page over [vaddr, vaddr+length),
// advancing paddr in lockstep (spec ?4.D map_range).
func MapRange(root pmm.Frame, vaddr, paddr uintptr, length uint64, prot VMProt, allocFn FrameAllocatorFn) *kernel.Error {
	pageSize := uint64(1) << mem.PageShift
	for off := uint64(0); off < length; off += pageSize {
		if err := MapPage(root, vaddr+uintptr(off), paddr+uintptr(off), prot, allocFn); err != nil {
			return err
		}
	}
	return nil
}

// MapHugeRange calls MapHugePage once per huge page over
// [vaddr, vaddr+length); both endpoints and length must already be
// huge-size aligned (spec ?4.D map_huge_range).
func MapHugeRange(root pmm.Frame, vaddr, paddr uintptr, length uint64, prot VMProt, allocFn FrameAllocatorFn) *kernel.Error {
	hugeSize := uint64(1) << levelShift(hugePageLevel())
	for off := uint64(0); off < length; off += hugeSize {
		if err := MapHugePage(root, vaddr+uintptr(off), paddr+uintptr(off), prot, allocFn); err != nil {
			return err
		}
	}
	return nil
}

// EarlyMapPage behaves like MapPage but asserts that every intermediate
// table already exists: it is used exclusively during address-space
// bootstrap before the page allocator is usable (spec ?4.D "Early
// mapping"). Hitting a missing table is a fatal bug, not a recoverable
// error.
func EarlyMapPage(root pmm.Frame, vaddr, paddr uintptr, prot VMProt) {
	kernel.BugOn(MapPage(root, vaddr, paddr, prot, panicAllocFn) != nil, "vmm: EarlyMapPage missing intermediate table at %#x", vaddr)
}

// EarlyMapHugePage is EarlyMapPage's huge-page counterpart.
func EarlyMapHugePage(root pmm.Frame, vaddr, paddr uintptr, prot VMProt) {
	kernel.BugOn(MapHugePage(root, vaddr, paddr, prot, panicAllocFn) != nil, "vmm: EarlyMapHugePage missing intermediate table at %#x", vaddr)
}

// UnmapPage clears the leaf entry's present bit and performs a local
// TLB flush; the caller (addrspace) is responsible for the spec's
// cross-CPU invalidation IPI broadcast (spec ?4.D unmap_page).
func UnmapPage(root pmm.Frame, vaddr uintptr) *kernel.Error {
	leaf := numLevels - 1
	err := walk(root, vaddr, leaf, nil, func(level uint8, pte *pageTableEntry) *kernel.Error {
		if level != leaf {
			return nil
		}
		pte.ClearFlags(FlagPresent)
		return nil
	})
	if err == nil {
		flushTLBEntryFn(vaddr)
	}
	return err
}

// UnmapRange calls UnmapPage once per page over [vaddr, vaddr+length).
func UnmapRange(root pmm.Frame, vaddr uintptr, length uint64) *kernel.Error {
	pageSize := uint64(1) << mem.PageShift
	for off := uint64(0); off < length; off += pageSize {
		if err := UnmapPage(root, vaddr+uintptr(off)); err != nil {
			return err
		}
	}
	return nil
}

// MapTemporary establishes a temporary RW mapping of frame at a fixed
// reserved virtual address, overwriting whatever was mapped there
// before. Used by Init's reserved-zero-frame setup to touch a frame's
// contents before it has a permanent mapping (spec ?4.D).
func MapTemporary(root pmm.Frame, frame pmm.Frame, allocFn FrameAllocatorFn) (Page, *kernel.Error) {
	if err := MapPage(root, tempMappingAddr, frame.Address(), ProtRead|ProtWrite|ProtKernel, allocFn); err != nil {
		return 0, err
	}
	return PageFromAddress(tempMappingAddr), nil
}

// UnmapTemporary removes the mapping installed by MapTemporary.
func UnmapTemporary(root pmm.Frame) *kernel.Error {
	return UnmapPage(root, tempMappingAddr)
}
