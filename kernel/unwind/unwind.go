package unwind

import (
	"unsafe"

	"github.com/UltraOS/Ultra/kernel/kfmt"
)

// spColumn is the DWARF register number of the stack pointer on
// x86-64, used to seed a fresh cfaState (spec ?4.F step 4 "the stack
// pointer which starts with DEF_CFA").
const spColumn = 7

// raColumnFallback is used if a CIE fails to report one explicitly;
// x86-64's return-address column is 16 in the System V ABI.
const raColumnFallback = 16

// Frame is one entry in a walked call stack: the PC it was executing
// and the full set of recovered register values at that point, indexed
// by DWARF register number.
type Frame struct {
	PC   uintptr
	regs [maxColumns]uint64
}

// Reg returns the recovered value of the DWARF register numbered col.
func (f Frame) Reg(col uint64) uint64 {
	if col >= maxColumns {
		return 0
	}
	return f.regs[col]
}

// Cursor iterates a call stack frame by frame starting from an initial
// PC and register file (normally the ones captured at a trap or panic).
// Calling Next() repeatedly walks callers until the return-address
// register reads 0 (spec ?4.F step 5) or the walk cannot continue, at
// which point Next returns false.
type Cursor struct {
	cur     Frame
	started bool
	err     error
}

// NewCursor starts a Cursor at pc with the given initial register file.
func NewCursor(pc uintptr, regs [maxColumns]uint64) *Cursor {
	f := Frame{PC: pc, regs: regs}
	return &Cursor{cur: f}
}

// Err returns the reason Next stopped early, or nil if the walk ran out
// of frames normally.
func (c *Cursor) Err() error {
	return c.err
}

// Next advances the cursor to the caller's frame, returning it along
// with true, or a zero Frame and false once the walk is complete (the
// return-address register was 0) or failed.
func (c *Cursor) Next() (Frame, bool) {
	if !c.started {
		c.started = true
		return c.cur, true
	}

	pc := c.cur.PC
	lookupPC := pc - 1 // spec ?4.F "PC correction": not a signal frame

	fdeAddr, err := findFDE(lookupPC)
	if err != nil {
		c.err = err
		return Frame{}, false
	}
	f := parseFDE(fdeAddr, cie{})
	ci, err := parseCIE(f.cieAddr)
	if err != nil {
		c.err = err
		return Frame{}, false
	}
	f = parseFDE(fdeAddr, ci)

	if lookupPC < f.pcBegin || lookupPC >= f.pcBegin+uintptr(f.pcRange) {
		c.err = errNoFDE
		return Frame{}, false
	}

	state := newCFAState(spColumn)
	loc := uint64(f.pcBegin)

	if err := runProgram(ci.instructions, ci.instrLen, ci.codeAlignment, ci.dataAlignment, &state, &loc); err != nil {
		c.err = err
		return Frame{}, false
	}
	if err := runProgram(f.instructions, f.instrLen, ci.codeAlignment, ci.dataAlignment, &state, &loc); err != nil {
		c.err = err
		return Frame{}, false
	}

	raColumn := ci.raColumn
	if raColumn == 0 {
		raColumn = raColumnFallback
	}

	var next Frame
	cfa := computeCFA(state, c.cur)
	for col := uint64(0); col < maxColumns; col++ {
		switch state.rules[col].kind {
		case ruleSameValue:
			next.regs[col] = c.cur.regs[col]
		case ruleOffset:
			addr := uintptr(int64(cfa) + state.rules[col].offset)
			next.regs[col] = *(*uint64)(unsafe.Pointer(addr))
		case ruleDefCFA:
			next.regs[col] = cfa
		}
	}

	ra := next.Reg(raColumn)
	if ra == 0 {
		return Frame{}, false
	}
	next.PC = uintptr(ra)
	c.cur = next
	return c.cur, true
}

func computeCFA(state cfaState, cur Frame) uint64 {
	return cur.regs[state.cfaReg] + uint64(state.cfaOff)
}

// DumpStack prints every frame reachable from pc/regs, stopping after
// maxFrames to bound output even if the walk never terminates cleanly.
// It is installed into kernel.SetStackDumper by Init.
func DumpStack() {
	if !available {
		kfmt.Printf("(stack trace unavailable)\n")
		return
	}

	pc, regs := captureContextFn()
	cursor := NewCursor(pc, regs)

	const maxFrames = 32
	for i := 0; i < maxFrames; i++ {
		frame, ok := cursor.Next()
		if !ok {
			if err := cursor.Err(); err != nil {
				kfmt.Printf("  ... unwind stopped: %s\n", err.Error())
			}
			return
		}
		kfmt.Printf("  #%d %#016x\n", i, frame.PC)
	}
	kfmt.Printf("  ... truncated after %d frames\n", maxFrames)
}

// captureContextFn returns the calling CPU's current PC and register
// file. It is arch-specific (reads from the stack frame of its own
// caller).
var captureContextFn = captureContext
