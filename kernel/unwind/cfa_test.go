package unwind

import "testing"

func TestRunProgramDefCFA(t *testing.T) {
	// DW_CFA_def_cfa(reg=6, offset=16), DW_CFA_advance_loc(4)
	prog := []byte{opDefCFA, 6, 16, opAdvanceLoc | 4}
	state := newCFAState(spColumn)
	var loc uint64

	if err := runProgram(bytesAddr(prog), uintptr(len(prog)), 1, -8, &state, &loc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.cfaReg != 6 || state.cfaOff != 16 {
		t.Fatalf("got cfa(reg=%d, off=%d), want cfa(reg=6, off=16)", state.cfaReg, state.cfaOff)
	}
	if loc != 4 {
		t.Fatalf("got loc=%d, want 4", loc)
	}
}

func TestRunProgramOffset(t *testing.T) {
	// DW_CFA_offset(register=3, 2)
	prog := []byte{opOffset | 3, 2}
	state := newCFAState(spColumn)
	var loc uint64

	if err := runProgram(bytesAddr(prog), uintptr(len(prog)), 1, -8, &state, &loc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.rules[3].kind != ruleOffset {
		t.Fatalf("expected register 3 to have an offset rule")
	}
	if want := int64(2) * -8; state.rules[3].offset != want {
		t.Fatalf("got offset %d, want %d", state.rules[3].offset, want)
	}
}

func TestRunProgramRejectsUnsupportedOpcode(t *testing.T) {
	prog := []byte{0x09, 1, 2} // DW_CFA_register, unsupported
	state := newCFAState(spColumn)
	var loc uint64

	if err := runProgram(bytesAddr(prog), uintptr(len(prog)), 1, -8, &state, &loc); err == nil {
		t.Fatal("expected errBadOpcode")
	}
}

func TestRunProgramSameValue(t *testing.T) {
	prog := []byte{opSameValue, 5}
	state := newCFAState(spColumn)
	state.rules[5] = rule{kind: ruleOffset, offset: 8}
	var loc uint64

	if err := runProgram(bytesAddr(prog), uintptr(len(prog)), 1, -8, &state, &loc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.rules[5].kind != ruleSameValue {
		t.Fatalf("expected register 5 to be reset to same_value")
	}
}
