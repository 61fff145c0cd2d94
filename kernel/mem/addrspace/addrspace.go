// Package addrspace wraps a page-table root with the virtual-range
// allocator that tracks which windows of that address space are
// currently in use (spec ?4.E). There is no direct teacher equivalent —
// gopheros is still single-core and never grew a virtual range
// allocator or cross-CPU TLB shootdown — so this package is written
// fresh in the teacher's locking idiom (an interrupt-safe spin lock,
// panic-on-invariant-violation), built on top of kernel/mem/vmm's
// page-table primitives (kernel/mem/vmm/{pdt,map,translate}.go).
package addrspace

import (
	"github.com/UltraOS/Ultra/kernel"
	"github.com/UltraOS/Ultra/kernel/cpu"
	"github.com/UltraOS/Ultra/kernel/mem"
	"github.com/UltraOS/Ultra/kernel/mem/pmm"
	"github.com/UltraOS/Ultra/kernel/mem/vmm"
)

var (
	errNoGap       = kernel.New("addrspace", "no free virtual gap of sufficient size", kernel.NoMem)
	errOutOfBounds = kernel.New("addrspace", "explicit range lies outside the address space's bound", kernel.Inval)
	errOverlap     = kernel.New("addrspace", "explicit range overlaps an already-allocated range", kernel.Inval)
	errNotFound    = kernel.New("addrspace", "range not currently allocated", kernel.Inval)
)

// Range is a virtual memory window, [Base, Base+Length).
type Range struct {
	Base   uintptr
	Length uint64
}

// End returns the exclusive upper bound of the range.
func (r Range) End() uintptr {
	return r.Base + uintptr(r.Length)
}

func (r Range) overlaps(o Range) bool {
	return r.Base < o.End() && o.Base < r.End()
}

// IPICommunicator is the external collaborator that broadcasts a range
// invalidation request to every other CPU and blocks until each has
// acknowledged it (spec ?4.E "Cross-CPU invalidation"). Its
// implementation (an APIC/GIC driver posting cpu.SendIPI and polling an
// acknowledgement counter) lives outside this core.
type IPICommunicator interface {
	InvalidateRange(vaddr uintptr, length uint64)
}

// AddressSpace wraps a page-table root and the set of virtual ranges
// currently allocated out of it.
type AddressSpace struct {
	pdt   vmm.PageDirectoryTable
	bound Range

	lock   cpu.IRQSpinlock
	ranges []Range // sorted ascending by Base, non-overlapping

	ipi IPICommunicator
}

// New builds an AddressSpace rooted at rootFrame, restricted to bound
// (the kernel half or a user half, fixed for the AddressSpace's
// lifetime per spec ?4.E).
func New(rootFrame pmm.Frame, bound Range) *AddressSpace {
	as := &AddressSpace{bound: bound}
	as.pdt.Init(rootFrame)
	return as
}

// SetIPICommunicator installs the collaborator Unmap uses to broadcast
// cross-CPU invalidations. A nil communicator (the default) makes
// Unmap perform only the local invalidation, which is correct on a
// single-core boot and in every test in this package.
func (as *AddressSpace) SetIPICommunicator(ipi IPICommunicator) {
	as.ipi = ipi
}

// PageDirectoryTable exposes the underlying page table for callers that
// need to Activate() it or pass its frame to vmm directly.
func (as *AddressSpace) PageDirectoryTable() *vmm.PageDirectoryTable {
	return &as.pdt
}

// Contains reports whether addr falls within this address space's fixed
// bound (not whether it is currently mapped).
func (as *AddressSpace) Contains(addr uintptr) bool {
	return addr >= as.bound.Base && addr < as.bound.End()
}

// Allocate reserves the lowest virtual gap of at least length bytes,
// aligned to alignment (which must be a power of two), and returns it
// as a Range. It does not install any page-table mappings; callers map
// the returned range's pages themselves.
func (as *AddressSpace) Allocate(length uint64, alignment uintptr) (Range, *kernel.Error) {
	as.lock.Lock()
	defer as.lock.Unlock()

	cursor := alignUp(as.bound.Base, alignment)
	for _, r := range as.ranges {
		gapEnd := r.Base
		if cursor+uintptr(length) <= gapEnd {
			break
		}
		if r.End() > cursor {
			cursor = alignUp(r.End(), alignment)
		}
	}

	candidate := Range{Base: cursor, Length: length}
	if candidate.End() > as.bound.End() {
		kernel.WarnOn(true, "addrspace: allocation request for %d bytes exceeds largest free gap %d", length, as.largestFreeGapLocked())
		return Range{}, errNoGap
	}

	as.insertLocked(candidate)
	return candidate, nil
}

// AllocateExplicit reserves exactly r, failing if it falls outside this
// address space's bound or overlaps an already-allocated range (spec
// ?4.E allocate(explicit_range)).
func (as *AddressSpace) AllocateExplicit(r Range) *kernel.Error {
	as.lock.Lock()
	defer as.lock.Unlock()

	if r.Base < as.bound.Base || r.End() > as.bound.End() {
		return errOutOfBounds
	}
	for _, existing := range as.ranges {
		if existing.overlaps(r) {
			return errOverlap
		}
	}
	as.insertLocked(r)
	return nil
}

// Deallocate removes a range previously returned by Allocate or
// installed by AllocateExplicit. It does not unmap any pages; callers
// unmap the range's pages first.
func (as *AddressSpace) Deallocate(r Range) *kernel.Error {
	as.lock.Lock()
	defer as.lock.Unlock()

	for i, existing := range as.ranges {
		if existing.Base == r.Base && existing.Length == r.Length {
			as.ranges = append(as.ranges[:i], as.ranges[i+1:]...)
			return nil
		}
	}
	return errNotFound
}

// insertLocked inserts r into as.ranges keeping ascending order by
// Base. The caller must hold as.lock.
func (as *AddressSpace) insertLocked(r Range) {
	i := 0
	for i < len(as.ranges) && as.ranges[i].Base < r.Base {
		i++
	}
	as.ranges = append(as.ranges, Range{})
	copy(as.ranges[i+1:], as.ranges[i:])
	as.ranges[i] = r
}

// LargestFreeGap reports the size of the largest unallocated gap in
// this address space, for diagnostics ahead of an allocation that is
// likely to fail.
func (as *AddressSpace) LargestFreeGap() mem.Size {
	as.lock.Lock()
	defer as.lock.Unlock()
	return as.largestFreeGapLocked()
}

func (as *AddressSpace) largestFreeGapLocked() mem.Size {
	var best mem.Size
	cursor := as.bound.Base
	consider := func(end uintptr) {
		if end > cursor {
			if gap := mem.Size(end - cursor); gap > best {
				best = gap
			}
		}
	}
	for _, r := range as.ranges {
		consider(r.Base)
		if r.End() > cursor {
			cursor = r.End()
		}
	}
	consider(as.bound.End())
	return best
}

func alignUp(addr uintptr, alignment uintptr) uintptr {
	if alignment == 0 {
		return addr
	}
	return (addr + alignment - 1) &^ (alignment - 1)
}
