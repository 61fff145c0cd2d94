package unwind

import (
	"unsafe"

	"github.com/UltraOS/Ultra/kernel"
)

// cie is the subset of a Common Information Entry this unwinder needs:
// the code/data alignment factors, the return-address register column,
// and the FDE pointer encoding declared by the "zR" augmentation (spec
// ?4.F step 2). Any other augmentation string aborts the walk.
type cie struct {
	codeAlignment uint64
	dataAlignment int64
	raColumn      uint64
	fdePtrEnc     uint8
	instructions  uintptr
	instrLen      uintptr
}

// fde is the subset of a Frame Description Entry this unwinder needs:
// the range of PCs it covers and its own CFA program.
type fde struct {
	cieAddr      uintptr
	pcBegin      uintptr
	pcRange      uint64
	instructions uintptr
	instrLen     uintptr
}

func readU32At(addr uintptr) uint32 { return *(*uint32)(unsafe.Pointer(addr)) }

// parseCIE parses the CIE at addr. Only the "zR" augmentation is
// accepted (spec ?4.F step 2); anything else yields errBadAugmentation.
func parseCIE(addr uintptr) (cie, *kernel.Error) {
	length := uint64(readU32At(addr))
	bodyStart := addr + 4
	bodyEnd := bodyStart + uintptr(length)

	cursor := bodyStart + 4 // skip CIE id (always 0)
	version := *(*uint8)(unsafe.Pointer(cursor))
	cursor++
	_ = version

	augStart := cursor
	augLen := uintptr(0)
	for *(*uint8)(unsafe.Pointer(augStart + augLen)) != 0 {
		augLen++
	}
	aug := string(unsafe.Slice((*byte)(unsafe.Pointer(augStart)), augLen))
	cursor = augStart + augLen + 1

	if aug != "zR" {
		return cie{}, errBadAugmentation
	}

	codeAlign, n := uleb128(cursor)
	cursor += n
	dataAlign, n := sleb128(cursor)
	cursor += n
	raColumn, n := uleb128(cursor)
	cursor += n

	// augmentation data length (uleb128), then the "R" byte: the FDE
	// pointer encoding.
	_, n = uleb128(cursor)
	cursor += n
	fdePtrEnc := *(*uint8)(unsafe.Pointer(cursor))
	cursor++

	return cie{
		codeAlignment: codeAlign,
		dataAlignment: dataAlign,
		raColumn:      raColumn,
		fdePtrEnc:     fdePtrEnc,
		instructions:  cursor,
		instrLen:      bodyEnd - cursor,
	}, nil
}

// parseFDE parses the FDE at addr, whose CIE pointer field identifies
// cieAddr (spec ?4.F step 3).
func parseFDE(addr uintptr, c cie) fde {
	length := uint64(readU32At(addr))
	bodyStart := addr + 4
	bodyEnd := bodyStart + uintptr(length)

	cieRelOffset := readU32At(bodyStart)
	cieAddr := bodyStart - uintptr(cieRelOffset)

	cursor := bodyStart + 4
	pcBegin, n := decodeEncoded(cursor, c.fdePtrEnc)
	cursor += n
	pcRange, n := decodeEncoded(cursor, c.fdePtrEnc&0x0f)
	cursor += n

	// augmentation data length (uleb128) for "zR" FDEs carries no
	// further fields we need; skip it.
	augDataLen, n := uleb128(cursor)
	cursor += n + uintptr(augDataLen)

	return fde{
		cieAddr:      cieAddr,
		pcBegin:      uintptr(pcBegin),
		pcRange:      pcRange,
		instructions: cursor,
		instrLen:     bodyEnd - cursor,
	}
}
