package kernel

import "testing"

func TestPanicHaltsCPU(t *testing.T) {
	origHalt := cpuHaltFn
	origPanicking := panicking
	defer func() { cpuHaltFn = origHalt; panicking = origPanicking }()

	panicking = false
	haltCalls := 0
	cpuHaltFn = func() { haltCalls++ }

	Panic(&Error{Module: "test", Message: "panic test"})

	if haltCalls != 1 {
		t.Fatalf("expected exactly one halt, got %d", haltCalls)
	}
}

func TestPanicReentrantHangsWithoutRecursing(t *testing.T) {
	origHalt := cpuHaltFn
	origPanicking := panicking
	defer func() { cpuHaltFn = origHalt; panicking = origPanicking }()

	panicking = true
	haltCalls := 0
	cpuHaltFn = func() { haltCalls++ }

	Panic(&Error{Module: "test", Message: "second panic"})

	if haltCalls != 1 {
		t.Fatalf("expected re-entrant panic to just halt once, got %d", haltCalls)
	}
}

func TestPanicAcceptsStringAndError(t *testing.T) {
	origHalt := cpuHaltFn
	origPanicking := panicking
	defer func() { cpuHaltFn = origHalt; panicking = origPanicking }()

	cpuHaltFn = func() {}

	panicking = false
	Panic("plain string cause")

	panicking = false
	Panic(&Error{Module: "test", Message: "typed error cause"})
}

func TestSetStackDumperInvoked(t *testing.T) {
	origHalt := cpuHaltFn
	origPanicking := panicking
	origDump := dumpStackFn
	defer func() { cpuHaltFn = origHalt; panicking = origPanicking; dumpStackFn = origDump }()

	cpuHaltFn = func() {}
	panicking = false

	called := false
	SetStackDumper(func() { called = true })

	Panic(&Error{Module: "test", Message: "boom"})

	if !called {
		t.Fatal("expected the installed stack dumper to be invoked")
	}
}
