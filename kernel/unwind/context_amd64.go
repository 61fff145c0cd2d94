// +build amd64

package unwind

// captureContext reads the calling CPU's current instruction pointer and
// the DWARF-numbered general-purpose register file (rax..r15, rip) of
// its immediate caller, for seeding a Cursor at the point DumpStack was
// invoked.
func captureContext() (pc uintptr, regs [maxColumns]uint64)
