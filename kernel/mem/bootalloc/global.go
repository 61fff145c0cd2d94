package bootalloc

import "github.com/UltraOS/Ultra/kernel"

// Global is the boot allocator instance backing every physical
// allocation made before the kernel's own page allocator takes over.
// Unlike PageDirectoryTable or AddressSpace, this core has exactly one
// boot allocator for the lifetime of the boot sequence, so it is
// exposed as a singleton guarded by kernel.MustInitOnce rather than
// left to the caller to construct and thread through every subsystem
// that still needs physical pages during early init.
var Global Allocator

// Init seeds Global from entries and records that the boot allocator
// singleton is now initialized. Calling it a second time is a kernel
// bug (spec ?9 "reject re-init").
func Init(entries []Entry) {
	kernel.MustInitOnce("bootalloc")
	Global.Init(entries)
}
