package vmm

import (
	"github.com/UltraOS/Ultra/kernel"
	"github.com/UltraOS/Ultra/kernel/cpu"
	"github.com/UltraOS/Ultra/kernel/irq"
	"github.com/UltraOS/Ultra/kernel/mem"
	"github.com/UltraOS/Ultra/kernel/mem/pmm"
)

var (
	frameAllocator FrameAllocatorFn

	// PageFaultHandler is called by the installed page-fault exception
	// handler after the core has classified the fault and located the
	// (possibly nil) leaf entry for the faulting address. It is the
	// hook point a higher subsystem (not part of this core) uses to
	// implement copy-on-write or demand paging; returning true tells
	// the core the fault was resolved and the faulting instruction
	// should be retried (spec ?4.D).
	PageFaultHandler func(faultAddr uintptr, reason FaultReason, leaf *pageTableEntry) bool

	handleExceptionWithCodeFn = irq.HandleExceptionWithCode
	readFaultAddrFn           = cpu.ReadCR2
	panicFn                   = kernel.Panic

	// ReservedZeroedFrame is a single zeroed physical frame reserved at
	// Init for use with FlagCopyOnWrite lazy-allocation mappings.
	ReservedZeroedFrame pmm.Frame
)

// FaultReason classifies why a page fault occurred, mirroring the
// teacher's nonRecoverablePageFault reason-code switch.
type FaultReason uint8

const (
	FaultNotPresentRead FaultReason = iota
	FaultProtectionRead
	FaultNotPresentWrite
	FaultProtectionWrite
	FaultUserMode
	FaultReservedBit
	FaultInstructionFetch
	FaultUnknown
)

func (r FaultReason) String() string {
	switch r {
	case FaultNotPresentRead:
		return "read from non-present page"
	case FaultProtectionRead:
		return "page protection violation (read)"
	case FaultNotPresentWrite:
		return "write to non-present page"
	case FaultProtectionWrite:
		return "page protection violation (write)"
	case FaultUserMode:
		return "page fault in user mode"
	case FaultReservedBit:
		return "page table has reserved bit set"
	case FaultInstructionFetch:
		return "instruction fetch"
	default:
		return "unknown"
	}
}

func classifyFault(errorCode uint64) FaultReason {
	switch errorCode {
	case 0:
		return FaultNotPresentRead
	case 1:
		return FaultProtectionRead
	case 2:
		return FaultNotPresentWrite
	case 3:
		return FaultProtectionWrite
	case 4:
		return FaultUserMode
	case 8:
		return FaultReservedBit
	case 16:
		return FaultInstructionFetch
	default:
		return FaultUnknown
	}
}

// SetFrameAllocator registers the function vmm uses whenever it needs a
// fresh physical frame (a new intermediate table, a CoW copy, the
// reserved zero frame).
func SetFrameAllocator(allocFn FrameAllocatorFn) {
	frameAllocator = allocFn
}

func pageFaultHandler(errorCode uint64, frame *irq.Frame, regs *irq.Regs) {
	faultAddress := readFaultAddrFn()
	faultPage := PageFromAddress(faultAddress)
	reason := classifyFault(errorCode)

	root := pmm.FrameFromAddress(activePDTFn())
	leaf := numLevels - 1
	var pte *pageTableEntry
	walk(root, faultPage.Address(), leaf, nil, func(level uint8, p *pageTableEntry) *kernel.Error {
		if level == leaf && p.HasFlags(FlagPresent) {
			pte = p
		}
		return nil
	})

	if PageFaultHandler != nil && PageFaultHandler(faultAddress, reason, pte) {
		return
	}

	kernel.WarnOn(true, "unrecoverable page fault at %#x: %s", faultAddress, reason.String())
	regs.Print()
	frame.Print()
	panicFn(kernel.New("vmm", "unrecoverable page fault", kernel.Range))
}

func generalProtectionFaultHandler(_ uint64, frame *irq.Frame, regs *irq.Regs) {
	kernel.WarnOn(true, "general protection fault at %#x", readFaultAddrFn())
	regs.Print()
	frame.Print()
	panicFn(kernel.New("vmm", "general protection fault", kernel.Range))
}

// reserveZeroedFrame allocates and zeroes ReservedZeroedFrame for use
// with copy-on-write mappings.
func reserveZeroedFrame(root pmm.Frame) *kernel.Error {
	f, err := frameAllocator()
	if err != nil {
		return err
	}
	ReservedZeroedFrame = f

	page, err := MapTemporary(root, f, frameAllocator)
	if err != nil {
		return err
	}
	mem.Memset(page.Address(), 0, mem.PageSize)
	return UnmapTemporary(root)
}

// Init detects the active paging level count and installs the
// page-fault and general-protection-fault handlers, reserving the
// zeroed CoW frame from root's hierarchy.
func Init(root pmm.Frame) *kernel.Error {
	kernel.MustInitOnce("vmm")
	SetLevels(cpu.PageTableLevels())

	if err := reserveZeroedFrame(root); err != nil {
		return err
	}

	handleExceptionWithCodeFn(irq.PageFaultException, pageFaultHandler)
	handleExceptionWithCodeFn(irq.GPFException, generalProtectionFaultHandler)
	return nil
}
