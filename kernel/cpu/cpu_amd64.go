// +build amd64

package cpu

// EnableInterrupts enables interrupt handling on the calling CPU (sti).
func EnableInterrupts()

// DisableInterrupts disables interrupt handling on the calling CPU (cli).
func DisableInterrupts()

// InterruptsEnabled reports whether interrupts are currently enabled on
// the calling CPU (tests the IF flag in RFLAGS).
func InterruptsEnabled() bool

// Halt stops instruction execution until the next interrupt (hlt).
func Halt()

// FlushTLBEntry flushes a single TLB entry for the given virtual address
// (invlpg).
func FlushTLBEntry(virtAddr uintptr)

// SwitchPDT loads the root paging structure's physical address into the
// translation-base register (mov cr3) and implicitly flushes the
// non-global TLB entries.
func SwitchPDT(pdtPhysAddr uintptr)

// ActivePDT returns the physical address of the currently active root
// paging structure (mov from cr3).
func ActivePDT() uintptr

// ReadCR2 returns the faulting address recorded by the last page fault
// on this CPU.
func ReadCR2() uintptr

// InPort8/InPort16/InPort32 read a value from the given legacy I/O port.
func InPort8(port uint16) uint8
func InPort16(port uint16) uint16
func InPort32(port uint16) uint32

// OutPort8/OutPort16/OutPort32 write a value to the given legacy I/O
// port.
func OutPort8(port uint16, v uint8)
func OutPort16(port uint16, v uint16)
func OutPort32(port uint16, v uint32)

// InPort8Rep/OutPort8Rep transfer count bytes between the given port and
// a contiguous buffer using a REP-prefixed string instruction (rep insb
// / rep outsb), for the IO window's bulk _many accessors.
func InPort8Rep(port uint16, dst []uint8)
func OutPort8Rep(port uint16, src []uint8)

// PageTableLevels returns the number of levels (4 or 5) the currently
// running CPU uses for address translation. It is a runtime value
// because a single amd64 kernel binary must run unmodified on both
// 4-level and 5-level (LA57) machines (spec ?4.D).
func PageTableLevels() uint8

// LocalAPICID returns the APIC ID of the calling CPU, used to address
// range-invalidation IPIs at every *other* CPU.
func LocalAPICID() uint32

// SendIPI posts an inter-processor interrupt to the CPU with the given
// APIC ID. vector identifies the handler (here, always the TLB shootdown
// vector); the handler acknowledges completion by incrementing the
// shared counter the caller polls.
func SendIPI(apicID uint32, vector uint8)
