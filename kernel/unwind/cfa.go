package unwind

import (
	"unsafe"

	"github.com/UltraOS/Ultra/kernel"
)

// ruleKind classifies how a register's value at the CFA is recovered
// (spec ?4.F step 4-5).
type ruleKind uint8

const (
	ruleSameValue ruleKind = iota
	ruleOffset
	ruleDefCFA
)

type rule struct {
	kind   ruleKind
	offset int64
}

const maxColumns = 32

// cfaState is the per-register rule table the CFA program mutates, plus
// the accumulated CFA register/offset pair (spec ?4.F step 4).
type cfaState struct {
	rules   [maxColumns]rule
	cfaReg  uint64
	cfaOff  int64
}

func newCFAState(spColumn uint64) cfaState {
	var s cfaState
	for i := range s.rules {
		s.rules[i] = rule{kind: ruleSameValue}
	}
	s.cfaReg = spColumn
	s.rules[spColumn] = rule{kind: ruleDefCFA}
	return s
}

// DWARF call frame instruction opcodes this interpreter supports (spec
// ?4.F step 4's exact list; everything else is errBadOpcode).
const (
	opAdvanceLoc1    = 0x02
	opAdvanceLoc2    = 0x03
	opAdvanceLoc4    = 0x04
	opDefCFA         = 0x0c
	opDefCFARegister = 0x0d
	opDefCFAOffset   = 0x0e
	opNop       = 0x00
	opSameValue = 0x08

	opHighMask   = 0xc0
	opAdvanceLoc = 0x40
	opOffset     = 0x80
	opLowMask    = 0x3f
)

// runProgram executes the CFA instructions in [addr, addr+length) against
// state, updating loc (the current synthetic PC the program is tracking)
// as advance_loc opcodes are seen.
func runProgram(addr, length uintptr, codeAlign uint64, dataAlign int64, state *cfaState, loc *uint64) *kernel.Error {
	end := addr + length
	cursor := addr

	for cursor < end {
		op := *(*uint8)(unsafe.Pointer(cursor))
		cursor++

		high := op & opHighMask
		low := op & opLowMask

		switch {
		case high == opAdvanceLoc:
			*loc += uint64(low) * codeAlign

		case high == opOffset:
			column := uint64(low)
			off, n := uleb128(cursor)
			cursor += n
			if column < maxColumns {
				state.rules[column] = rule{kind: ruleOffset, offset: int64(off) * dataAlign}
			}

		case op == opAdvanceLoc1:
			delta := *(*uint8)(unsafe.Pointer(cursor))
			cursor++
			*loc += uint64(delta) * codeAlign

		case op == opAdvanceLoc2:
			delta := *(*uint16)(unsafe.Pointer(cursor))
			cursor += 2
			*loc += uint64(delta) * codeAlign

		case op == opAdvanceLoc4:
			delta := *(*uint32)(unsafe.Pointer(cursor))
			cursor += 4
			*loc += uint64(delta) * codeAlign

		case op == opNop:
			// no-op

		case op == opDefCFA:
			reg, n := uleb128(cursor)
			cursor += n
			off, n := uleb128(cursor)
			cursor += n
			state.cfaReg = reg
			state.cfaOff = int64(off)

		case op == opDefCFARegister:
			reg, n := uleb128(cursor)
			cursor += n
			state.cfaReg = reg

		case op == opDefCFAOffset:
			off, n := uleb128(cursor)
			cursor += n
			state.cfaOff = int64(off)

		case op == opSameValue:
			column, n := uleb128(cursor)
			cursor += n
			if column < maxColumns {
				state.rules[column] = rule{kind: ruleSameValue}
			}

		default:
			return errBadOpcode
		}
	}
	return nil
}
