package kernel

// initGuards tracks which named subsystems have already been
// initialized. The kernel's singletons (console registry, boot
// allocator, unwinder tables, kernel address space) each have a single,
// explicit Init function invoked once from the entry sequence in a fixed
// order (spec ?9: "encode this as explicit init functions invoked in
// entry, not as implicit constructors; reject re-init") rather than via
// package-level var initializers or sync.Once-guarded lazy
// constructors, so that the boot sequence itself documents the
// dependency order.
var initGuards = map[string]bool{}

// MustInitOnce panics if the named subsystem has already called
// MustInitOnce, and otherwise records that it now has. Each Init
// function in this module's singleton packages calls this exactly once,
// first thing, naming itself.
func MustInitOnce(subsystem string) {
	if initGuards[subsystem] {
		Panic(New("init", "subsystem already initialized: "+subsystem, Unspecified))
	}
	initGuards[subsystem] = true
}

// ResetInitGuards clears every recorded initialization. It exists only
// for tests that need to call a singleton's Init function more than
// once within a single test binary run; production code never calls it.
func ResetInitGuards() {
	initGuards = map[string]bool{}
}
