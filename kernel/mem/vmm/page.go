package vmm

import "github.com/UltraOS/Ultra/kernel/mem"

// Page describes a virtual memory page index.
type Page uintptr

// Address returns the virtual address this page starts at.
func (p Page) Address() uintptr {
	return uintptr(p) << mem.PageShift
}

// PageFromAddress returns the Page containing virtAddr, rounding down
// if it is not page-aligned.
func PageFromAddress(virtAddr uintptr) Page {
	return Page((virtAddr &^ uintptr(mem.PageSize-1)) >> mem.PageShift)
}
