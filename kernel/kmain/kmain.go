// Package kmain wires every core subsystem together in the fixed order
// SPEC_FULL ?2 names, mirroring the teacher's own kernel/kmain package:
// a single Kmain entry point the assembly boot stub calls into once a
// stack is available, never expected to return.
package kmain

import (
	"github.com/UltraOS/Ultra/kernel"
	"github.com/UltraOS/Ultra/kernel/boot"
	"github.com/UltraOS/Ultra/kernel/cmdline"
	"github.com/UltraOS/Ultra/kernel/console"
	"github.com/UltraOS/Ultra/kernel/kfmt"
	"github.com/UltraOS/Ultra/kernel/mem/addrspace"
	"github.com/UltraOS/Ultra/kernel/mem/bootalloc"
	"github.com/UltraOS/Ultra/kernel/mem/vmm"
	"github.com/UltraOS/Ultra/kernel/unwind"
)

var errKmainReturned = kernel.New("kmain", "Kmain returned", kernel.Unspecified)

// KernelAddressSpace is the kernel-half address space every CPU shares,
// built once during Kmain.
var KernelAddressSpace *addrspace.AddressSpace

// KernelSpaceBound is the virtual range addrspace.New restricts
// KernelAddressSpace to. It is an arch constant (spec ?4.D's
// kernel_first_table_index boundary) supplied by the caller rather than
// hardcoded here, since kmain itself stays architecture-neutral.
type KernelSpaceBound = addrspace.Range

// Kmain is the only Go symbol the boot stub calls into. earlySink is
// whatever console.Sink the stub has already wired up (a VGA text
// buffer, a serial port) so that kfmt.Printf has somewhere to write
// before any higher driver subsystem exists; ctx is the fully decoded
// boot context (spec ?6); ehFrameHdrAddr/ehFrameAddr locate the
// linker-embedded unwind tables. Kmain never returns.
//
//go:noinline
func Kmain(earlySink console.Sink, ctx *boot.Context, ehFrameHdrAddr, ehFrameAddr uintptr, bound KernelSpaceBound) {
	if err := console.Register(earlySink); err != nil {
		kernel.Panic(kernel.New("kmain", "failed to register the early console sink: "+err.Error(), kernel.Busy))
	}
	kfmt.Printf("booting\n")

	if err := unwind.Init(ehFrameHdrAddr, ehFrameAddr); err != nil {
		kernel.WarnOn(true, "stack unwinder unavailable: %s", err.Error())
	}

	bootalloc.Init(bootalloc.EntriesFromMemoryMap(ctx.MemoryMap()))

	if line := ctx.CommandLine(); line != "" {
		if _, err := cmdline.Parse(line); err != nil {
			kernel.WarnOn(true, "malformed command line %q: %s", line, err.Error())
		}
	}

	rootFrame, err := bootalloc.AllocFrame()
	kernel.BugOn(err != nil, "kmain: failed to allocate the kernel root page table: %v", err)

	vmm.SetFrameAllocator(bootalloc.AllocFrame)
	if err := vmm.Init(rootFrame); err != nil {
		kernel.Panic(err)
	}

	KernelAddressSpace = addrspace.New(rootFrame, bound)

	kfmt.Printf("kernel core initialized\n")
	kernel.Panic(errKmainReturned)
}
