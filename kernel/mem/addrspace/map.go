package addrspace

import (
	"github.com/UltraOS/Ultra/kernel"
	"github.com/UltraOS/Ultra/kernel/mem"
	"github.com/UltraOS/Ultra/kernel/mem/vmm"
)

// Map installs vaddr -> paddr in this address space's page table.
func (as *AddressSpace) Map(vaddr, paddr uintptr, prot vmm.VMProt, allocFn vmm.FrameAllocatorFn) *kernel.Error {
	return as.pdt.Map(vaddr, paddr, prot, allocFn)
}

// MapRange installs a run of pages covering [vaddr, vaddr+length).
func (as *AddressSpace) MapRange(vaddr, paddr uintptr, length uint64, prot vmm.VMProt, allocFn vmm.FrameAllocatorFn) *kernel.Error {
	return vmm.MapRange(as.pdt.Frame(), vaddr, paddr, length, prot, allocFn)
}

// Unmap clears vaddr's leaf entry, performs the local TLB invalidation,
// then — if an IPICommunicator was installed — broadcasts a range
// invalidation request and blocks until every other CPU has
// acknowledged it (spec ?4.E "Cross-CPU invalidation").
func (as *AddressSpace) Unmap(vaddr uintptr) *kernel.Error {
	if err := as.pdt.Unmap(vaddr); err != nil {
		return err
	}
	if as.ipi != nil {
		as.ipi.InvalidateRange(vaddr, uint64(mem.PageSize))
	}
	return nil
}

// UnmapRange clears every leaf entry in [vaddr, vaddr+length) and
// broadcasts a single range invalidation request for the whole range,
// rather than one per page (spec ?4.E: "unmap_range broadcasts once for
// the whole range").
func (as *AddressSpace) UnmapRange(vaddr uintptr, length uint64) *kernel.Error {
	if err := vmm.UnmapRange(as.pdt.Frame(), vaddr, length); err != nil {
		return err
	}
	if as.ipi != nil {
		as.ipi.InvalidateRange(vaddr, length)
	}
	return nil
}

// Translate returns the physical address vaddr currently maps to, or 0
// if it is unmapped.
func (as *AddressSpace) Translate(vaddr uintptr) uintptr {
	return vmm.PhysicalAddressOf(as.pdt.Frame(), vaddr)
}
