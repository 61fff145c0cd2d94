// Package irq is the minimal exception-dispatch surface the rest of the
// kernel core treats as an external collaborator (spec places
// interrupt/exception controller plumbing out of scope; this package
// models only the registration surface kernel/mem/vmm calls). Grounded
// on src/gopheros/kernel/irq/{handler_amd64,interrupt_amd64}.go.
package irq

import "github.com/UltraOS/Ultra/kernel/kfmt"

// ExceptionNum identifies a CPU exception vector.
type ExceptionNum uint8

const (
	// DoubleFault fires when an exception occurs while the CPU is
	// already trying to deliver another exception.
	DoubleFault ExceptionNum = 8

	// GPFException fires on a general protection fault.
	GPFException ExceptionNum = 13

	// PageFaultException fires when a translation is not present or a
	// protection check fails.
	PageFaultException ExceptionNum = 14
)

// ExceptionHandler handles an exception that pushes no error code.
type ExceptionHandler func(*Frame, *Regs)

// ExceptionHandlerWithCode handles an exception that pushes an error
// code (page fault, general protection fault, ...).
type ExceptionHandlerWithCode func(errorCode uint64, frame *Frame, regs *Regs)

var (
	handlers         = make(map[ExceptionNum]ExceptionHandler)
	handlersWithCode = make(map[ExceptionNum]ExceptionHandlerWithCode)
)

// HandleException registers handler for exceptionNum, replacing any
// previous registration.
func HandleException(exceptionNum ExceptionNum, handler ExceptionHandler) {
	handlers[exceptionNum] = handler
}

// HandleExceptionWithCode registers handler for exceptionNum, replacing
// any previous registration.
func HandleExceptionWithCode(exceptionNum ExceptionNum, handler ExceptionHandlerWithCode) {
	handlersWithCode[exceptionNum] = handler
}

// Dispatch is invoked by the arch-specific trap entry stub (not part of
// this source tree) once it has filled in a Frame/Regs pair. It is a
// thin lookup rather than a table of bodyless declarations because,
// unlike the register-snapshot format itself, dispatch is ordinary Go
// control flow with nothing architecture-specific about it.
func Dispatch(exceptionNum ExceptionNum, errorCode uint64, hasCode bool, frame *Frame, regs *Regs) {
	if hasCode {
		if h, ok := handlersWithCode[exceptionNum]; ok {
			h(errorCode, frame, regs)
		}
		return
	}
	if h, ok := handlers[exceptionNum]; ok {
		h(frame, regs)
	}
}

// Regs is a snapshot of the general-purpose registers at the moment an
// exception occurred.
type Regs struct {
	RAX, RBX, RCX, RDX uint64
	RSI, RDI, RBP      uint64
	R8, R9, R10, R11   uint64
	R12, R13, R14, R15 uint64
}

// Print dumps the register snapshot to the active console.
func (r *Regs) Print() {
	kfmt.Printf("RAX = %016x RBX = %016x\n", r.RAX, r.RBX)
	kfmt.Printf("RCX = %016x RDX = %016x\n", r.RCX, r.RDX)
	kfmt.Printf("RSI = %016x RDI = %016x\n", r.RSI, r.RDI)
	kfmt.Printf("RBP = %016x\n", r.RBP)
	kfmt.Printf("R8  = %016x R9  = %016x\n", r.R8, r.R9)
	kfmt.Printf("R10 = %016x R11 = %016x\n", r.R10, r.R11)
	kfmt.Printf("R12 = %016x R13 = %016x\n", r.R12, r.R13)
	kfmt.Printf("R14 = %016x R15 = %016x\n", r.R14, r.R15)
}

// Frame describes the exception frame the CPU pushes automatically.
type Frame struct {
	RIP, CS, RFlags, RSP, SS uint64
}

// Print dumps the exception frame to the active console.
func (f *Frame) Print() {
	kfmt.Printf("RIP = %016x CS  = %016x\n", f.RIP, f.CS)
	kfmt.Printf("RSP = %016x SS  = %016x\n", f.RSP, f.SS)
	kfmt.Printf("RFL = %016x\n", f.RFlags)
}
