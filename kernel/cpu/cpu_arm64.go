// +build arm64

package cpu

// EnableInterrupts unmasks IRQs on the calling core (msr daifclr).
func EnableInterrupts()

// DisableInterrupts masks IRQs on the calling core (msr daifset).
func DisableInterrupts()

// InterruptsEnabled reports whether IRQs are currently unmasked.
func InterruptsEnabled() bool

// Halt stops instruction execution until the next interrupt (wfi).
func Halt()

// FlushTLBEntry flushes a single TLB entry for the given virtual
// address (tlbi vae1, dsb, isb).
func FlushTLBEntry(virtAddr uintptr)

// SwitchPDT loads the root translation table's physical address (msr
// ttbr0_el1) and performs the required barrier/TLB-invalidation
// sequence.
func SwitchPDT(pdtPhysAddr uintptr)

// ActivePDT returns the physical address of the currently active root
// translation table (mrs ttbr0_el1).
func ActivePDT() uintptr

// ReadCR2 returns the faulting address recorded by the last data abort
// on this core (mrs far_el1). Named to match the amd64 surface even
// though ARM has no literal CR2 register.
func ReadCR2() uintptr

// ARM has no legacy port I/O space; these exist only so that
// kernel/hal/iowindow can be written against one portable interface.
// Calling them is a kernel bug on this architecture.
func InPort8(port uint16) uint8
func InPort16(port uint16) uint16
func InPort32(port uint16) uint32
func OutPort8(port uint16, v uint8)
func OutPort16(port uint16, v uint16)
func OutPort32(port uint16, v uint32)
func InPort8Rep(port uint16, dst []uint8)
func OutPort8Rep(port uint16, src []uint8)

// PageTableLevels always returns 4 on the ARM targets this kernel
// currently supports (no LPA2/5-level support yet).
func PageTableLevels() uint8

// LocalAPICID returns the logical core's GIC interrupt ID used to
// address range-invalidation IPIs.
func LocalAPICID() uint32

// SendIPI posts a software-generated interrupt to the given core via the
// GIC distributor.
func SendIPI(apicID uint32, vector uint8)
