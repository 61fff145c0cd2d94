package vmm

import (
	"github.com/UltraOS/Ultra/kernel"
	"github.com/UltraOS/Ultra/kernel/mem"
	"github.com/UltraOS/Ultra/kernel/mem/pmm"
)

// PageDirectoryTable is the root table of one address space's page
// hierarchy. Unlike the teacher's version, which had to establish a
// temporary recursive mapping to touch an inactive PDT, every operation
// here can reach any PDT directly through the direct map regardless of
// whether it is the one currently loaded into the translation-base
// register.
type PageDirectoryTable struct {
	rootFrame pmm.Frame
}

// Init clears the frame backing this table and marks it ready to use
// as a brand new, empty root table.
func (pdt *PageDirectoryTable) Init(rootFrame pmm.Frame) {
	pdt.rootFrame = rootFrame
	memsetFn(physToVirt(rootFrame.Address()), 0, mem.PageSize)
}

// Frame returns the physical frame backing this table's root.
func (pdt PageDirectoryTable) Frame() pmm.Frame {
	return pdt.rootFrame
}

// Map installs a vaddr -> paddr translation in this table.
func (pdt PageDirectoryTable) Map(vaddr, paddr uintptr, prot VMProt, allocFn FrameAllocatorFn) *kernel.Error {
	return MapPage(pdt.rootFrame, vaddr, paddr, prot, allocFn)
}

// Unmap removes a mapping previously installed by Map.
func (pdt PageDirectoryTable) Unmap(vaddr uintptr) *kernel.Error {
	return UnmapPage(pdt.rootFrame, vaddr)
}

// Activate loads this table into the translation-base register and
// flushes the TLB; a no-op if it is already active (spec ?4.D
// make_active). Interrupts are disabled across the switch so a timer
// tick can never observe a half-updated translation-base register.
func (pdt PageDirectoryTable) Activate() {
	if activePDTFn() == pdt.rootFrame.Address() {
		return
	}
	wasEnabled := interruptsEnabledFn()
	disableInterruptsFn()
	switchPDTFn(pdt.rootFrame.Address())
	if wasEnabled {
		enableInterruptsFn()
	}
}

// ShareKernelHalf copies every root-table entry at or above
// kernelFirstTableIndex from src into pdt, so kernel addresses resolve
// identically in both address spaces without holding a lock across
// every AS whenever the kernel half changes (spec ?4.D "Kernel-half
// sharing").
func (pdt PageDirectoryTable) ShareKernelHalf(src PageDirectoryTable) {
	dst := (*[1 << 9]pageTableEntry)(ptePtrFn(physToVirt(pdt.rootFrame.Address())))
	from := (*[1 << 9]pageTableEntry)(ptePtrFn(physToVirt(src.rootFrame.Address())))
	for i := kernelFirstTableIndex(); i < uintptr(len(dst)); i++ {
		dst[i] = from[i]
	}
}
