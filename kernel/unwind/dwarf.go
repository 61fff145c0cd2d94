// Package unwind walks the call stack using the DWARF call frame
// information the linker embeds in .eh_frame/.eh_frame_hdr (spec ?4.F).
// There is no teacher equivalent — gopheros panics without a trace — so
// this package is written fresh in the teacher's idiom: bodyless
// arch-specific accessors for the registers a trap frame carries,
// *kernel.Error returns, and a package-level hook (kernel.SetStackDumper)
// wired in at Init, exactly as vmm.Init wires its exception handlers into
// kernel/irq.
package unwind

import (
	"unsafe"

	"github.com/UltraOS/Ultra/kernel"
)

var (
	errBadVersion      = kernel.New("unwind", ".eh_frame_hdr version is not 1", kernel.Inval)
	errPtrMismatch     = kernel.New("unwind", "eh_frame_ptr does not match .eh_frame start", kernel.Inval)
	errBadAugmentation = kernel.New("unwind", "unsupported CIE augmentation string", kernel.NotSup)
	errBadOpcode       = kernel.New("unwind", "unsupported CFA opcode", kernel.NotSup)
	errNoFDE           = kernel.New("unwind", "no FDE covers this PC", kernel.Range)
	errUnavailable     = kernel.New("unwind", "unwinder unavailable", kernel.NoDev)
)

// DWARF pointer encodings (LSB Core ?10.5), only the subset this
// unwinder needs to decode.
const (
	encOmit    = 0xff
	encAbsPtr  = 0x00
	encSData4  = 0x0b
	encSData8  = 0x0c
	encPCRel   = 0x10
	encTypeMask = 0x0f
)

// ehFrameHdr holds the parsed, fixed-size prefix of .eh_frame_hdr plus
// the bounds of the binary-searchable FDE table that follows it.
type ehFrameHdr struct {
	ehFramePtr    uintptr
	fdeCount      uint64
	tableEnc      uint8
	tableEntrySize uint64
	tableStart    uintptr
}

var hdr ehFrameHdr
var available bool

// Available reports whether Init successfully parsed .eh_frame_hdr.
func Available() bool {
	return available
}

func readU8(addr uintptr) uint8   { return *(*uint8)(unsafe.Pointer(addr)) }
func readU32(addr uintptr) uint32 { return *(*uint32)(unsafe.Pointer(addr)) }
func readU64(addr uintptr) uint64 { return *(*uint64)(unsafe.Pointer(addr)) }

// decodeEncoded reads a pointer-sized value at addr encoded per enc,
// returning the decoded absolute value and the number of bytes consumed.
func decodeEncoded(addr uintptr, enc uint8) (uint64, uintptr) {
	if enc == encOmit {
		return 0, 0
	}

	var v uint64
	var n uintptr
	switch enc & encTypeMask {
	case encSData4:
		v = uint64(int64(int32(readU32(addr))))
		n = 4
	case encSData8:
		v = readU64(addr)
		n = 8
	default:
		v = uint64(readU32(addr))
		n = 4
	}

	if enc&0xf0 == encPCRel {
		v += uint64(addr)
	}
	return v, n
}

// Init parses the linker-embedded .eh_frame_hdr starting at hdrAddr,
// verifying it describes the .eh_frame section starting at ehFrameAddr.
// On success it installs the stack dumper into kernel.SetStackDumper; on
// any parse failure the unwinder is marked unavailable and stack traces
// degrade to a warning (spec ?4.F).
func Init(hdrAddr, ehFrameAddr uintptr) *kernel.Error {
	kernel.MustInitOnce("unwind")
	available = false

	version := readU8(hdrAddr)
	if version != 1 {
		return errBadVersion
	}

	ehFramePtrEnc := readU8(hdrAddr + 1)
	fdeCountEnc := readU8(hdrAddr + 2)
	tableEnc := readU8(hdrAddr + 3)

	cursor := hdrAddr + 4
	ehFramePtr, n := decodeEncoded(cursor, ehFramePtrEnc)
	cursor += n
	fdeCount, n := decodeEncoded(cursor, fdeCountEnc)
	cursor += n

	if uintptr(ehFramePtr) != ehFrameAddr {
		return errPtrMismatch
	}

	entrySize := uintptr(4)
	if tableEnc&encTypeMask == encSData8 {
		entrySize = 8
	}

	hdr = ehFrameHdr{
		ehFramePtr:     uintptr(ehFramePtr),
		fdeCount:       fdeCount,
		tableEnc:       tableEnc,
		tableEntrySize: uint64(entrySize) * 2,
		tableStart:     cursor,
	}
	available = true
	kernel.SetStackDumper(DumpStack)
	return nil
}

// findFDE binary searches the .eh_frame_hdr table for the entry whose
// initial_pc is the greatest value <= pc, returning its fde_addr.
func findFDE(pc uintptr) (uintptr, *kernel.Error) {
	if !available {
		return 0, errUnavailable
	}

	lo, hi := uint64(0), hdr.fdeCount
	var best uintptr
	found := false
	for lo < hi {
		mid := lo + (hi-lo)/2
		entryAddr := hdr.tableStart + uintptr(mid)*uintptr(hdr.tableEntrySize)
		initialPC, _ := decodeEncoded(entryAddr, hdr.tableEnc)
		if uintptr(initialPC) <= pc {
			fdeAddr, _ := decodeEncoded(entryAddr+uintptr(hdr.tableEntrySize)/2, hdr.tableEnc)
			best = uintptr(fdeAddr)
			found = true
			lo = mid + 1
		} else {
			hi = mid
		}
	}

	if !found {
		return 0, errNoFDE
	}
	return best, nil
}
