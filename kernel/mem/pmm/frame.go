// Package pmm defines the physical memory frame type shared by the boot
// allocator and the page-table engine. Grounded on the teacher's
// kernel/mem/pmm/frame.go.
package pmm

import (
	"math"

	"github.com/UltraOS/Ultra/kernel/mem"
)

// Frame describes a physical memory page index (physical address divided
// by mem.PageSize).
type Frame uint64

// InvalidFrame is returned by frame allocators when they fail to reserve
// the requested frame.
const InvalidFrame = Frame(math.MaxUint64)

// Valid reports whether this is not the sentinel InvalidFrame.
func (f Frame) Valid() bool {
	return f != InvalidFrame
}

// Address returns the physical address this frame describes.
func (f Frame) Address() uintptr {
	return uintptr(f) << mem.PageShift
}

// FrameFromAddress returns the Frame containing the given physical
// address, rounding down to the containing page if addr is not
// page-aligned.
func FrameFromAddress(addr uintptr) Frame {
	return Frame(addr >> mem.PageShift)
}
