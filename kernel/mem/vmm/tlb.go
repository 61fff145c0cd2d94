package vmm

import "github.com/UltraOS/Ultra/kernel/cpu"

var (
	// The following are indirected through variables so tests can
	// exercise Map/Unmap/Activate without a real MMU.
	flushTLBEntryFn     = cpu.FlushTLBEntry
	switchPDTFn         = cpu.SwitchPDT
	activePDTFn         = cpu.ActivePDT
	interruptsEnabledFn = cpu.InterruptsEnabled
	disableInterruptsFn = cpu.DisableInterrupts
	enableInterruptsFn  = cpu.EnableInterrupts
)
