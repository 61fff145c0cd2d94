package bootalloc

import (
	"github.com/UltraOS/Ultra/kernel"
	"github.com/UltraOS/Ultra/kernel/mem/pmm"
)

// AllocFrame allocates a single physical frame out of Global, adapting
// this package's page-count Alloc to vmm.FrameAllocatorFn's
// one-frame-at-a-time contract. It is the FrameAllocatorFn every
// subsystem uses until the kernel's own page frame allocator (not part
// of this core) takes over after boot.
func AllocFrame() (pmm.Frame, *kernel.Error) {
	addr, err := Global.Alloc(1)
	if err != nil {
		return pmm.InvalidFrame, err
	}
	return pmm.FrameFromAddress(addr), nil
}
