package kernel

import (
	"github.com/UltraOS/Ultra/kernel/cpu"
	"github.com/UltraOS/Ultra/kernel/kfmt"
)

var (
	// cpuHaltFn is mocked by tests and is automatically inlined by the
	// compiler in the non-test build.
	cpuHaltFn = cpu.Halt

	errRuntimePanic = &Error{Module: "rt", Message: "unknown cause"}

	// panicking is set the moment the first Panic call starts printing
	// its report. A second, re-entrant Panic (e.g. a fault taken while
	// already dumping the first one's stack trace) must not recurse
	// into the formatter and sinks a second time; it just halts.
	panicking bool

	// dumpStackFn prints a stack trace via the unwinder. It is a
	// variable (rather than a direct call into kernel/unwind) so the
	// root package does not have to import unwind unconditionally:
	// unwind.Init wires it in once the unwinder is available, and a
	// panic before that point simply skips the trace.
	dumpStackFn func()
)

// SetStackDumper installs the function Panic uses to print a stack
// trace. Called once by kernel/unwind during init.
func SetStackDumper(f func()) {
	dumpStackFn = f
}

// Panic outputs the supplied error (if not nil) to the console and halts
// the CPU. Calls to Panic never return. Panic also works as a
// redirection target for calls to the builtin panic() in code compiled
// for this kernel (resolved via a linker-level redirect of
// runtime.gopanic, exactly as in the teacher).
//
//go:redirect-from runtime.gopanic
func Panic(e interface{}) {
	if panicking {
		cpuHaltFn()
		return
	}
	panicking = true

	var err *Error
	switch t := e.(type) {
	case *Error:
		err = t
	case string:
		errRuntimePanic.Message = t
		err = errRuntimePanic
	case error:
		errRuntimePanic.Message = t.Error()
		err = errRuntimePanic
	}

	kfmt.Printf("\n-----------------------------------\n")
	if err != nil {
		kfmt.Printf("[%s] unrecoverable error: %s (%s)\n", err.Module, err.Message, err.Kind.String())
	}
	kfmt.Printf("*** kernel panic: system halted ***\n")
	if dumpStackFn != nil {
		dumpStackFn()
	}
	kfmt.Printf("-----------------------------------\n")

	cpuHaltFn()
}
