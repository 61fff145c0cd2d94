package vmm

import (
	"github.com/UltraOS/Ultra/kernel"
	"github.com/UltraOS/Ultra/kernel/mem/pmm"
)

// PhysicalAddressOf walks the hierarchy rooted at root and returns the
// physical address vaddr currently translates to, or 0 if any entry in
// the chain is not present (spec ?4.D physical_address_of).
func PhysicalAddressOf(root pmm.Frame, vaddr uintptr) uintptr {
	leaf := numLevels - 1
	var phys uintptr
	err := walk(root, vaddr, leaf, nil, func(level uint8, pte *pageTableEntry) *kernel.Error {
		if level != leaf {
			return nil
		}
		if !pte.HasFlags(FlagPresent) {
			return ErrInvalidMapping
		}
		phys = pte.Frame().Address() + (vaddr & ((1 << levelShift(leaf)) - 1))
		return nil
	})
	if err != nil {
		return 0
	}
	return phys
}
