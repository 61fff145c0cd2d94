package bootalloc

import "unsafe"

// backingSliceFn overlays length/capacity entries of memRange directly
// on top of physical address addr, the same pattern the teacher uses
// throughout kernel/mem/vmm to treat a raw page-table address as a Go
// slice (e.g. its pdt-as-[]pageTableEntry overlays). Valid only while
// addr is identity-mapped, which boot-time physical memory always is.
// It is a package var, overridden by tests, since growth hands it a
// physical address with no real memory behind it outside a running
// kernel.
var backingSliceFn = func(addr uintptr, length, capacity int) []memRange {
	return unsafe.Slice((*memRange)(unsafe.Pointer(addr)), capacity)[:length:capacity]
}
