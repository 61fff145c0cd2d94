// +build arm64

package unwind

// captureContext reads the calling CPU's current program counter and
// the DWARF-numbered register file (x0..x30, pc) of its immediate
// caller, for seeding a Cursor at the point DumpStack was invoked.
func captureContext() (pc uintptr, regs [maxColumns]uint64)
