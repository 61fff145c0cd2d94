package iowindow

import (
	"unsafe"

	"github.com/UltraOS/Ultra/kernel"
	"github.com/UltraOS/Ultra/kernel/cpu"
)

// width is the set of integer types a Window can transfer, parameterising
// the _many bulk accessors generically instead of repeating the
// 8/16/32/64 switch four times (SPEC_FULL ?4.C).
type width interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// ReadMany transfers len(dst) values from w starting at offset into dst
// (the io_window_read_many family in spec ?4.C).
func ReadMany[T width](w Window, offset uint64, dst []T) *kernel.Error {
	var zero T
	elemWidth := uint64(unsafe.Sizeof(zero))
	if err := w.checkAccess(offset, elemWidth*uint64(len(dst))); err != nil {
		return err
	}

	if w.kind == PortIO && elemWidth == 1 {
		buf := make([]uint8, len(dst))
		cpu.InPort8Rep(uint16(w.address+uintptr(offset)), buf)
		for i, v := range buf {
			dst[i] = T(v)
		}
		return nil
	}

	for i := range dst {
		v, err := readWidth[T](w, offset+uint64(i)*elemWidth)
		if err != nil {
			return err
		}
		dst[i] = v
	}
	return nil
}

// WriteMany transfers every value in src to w starting at offset (the
// io_window_write_many family in spec ?4.C).
func WriteMany[T width](w Window, offset uint64, src []T) *kernel.Error {
	var zero T
	elemWidth := uint64(unsafe.Sizeof(zero))
	if err := w.checkAccess(offset, elemWidth*uint64(len(src))); err != nil {
		return err
	}

	if w.kind == PortIO && elemWidth == 1 {
		buf := make([]uint8, len(src))
		for i, v := range src {
			buf[i] = uint8(v)
		}
		cpu.OutPort8Rep(uint16(w.address+uintptr(offset)), buf)
		return nil
	}

	for i, v := range src {
		if err := writeWidth(w, offset+uint64(i)*elemWidth, v); err != nil {
			return err
		}
	}
	return nil
}

func readWidth[T width](w Window, offset uint64) (T, *kernel.Error) {
	var zero T
	switch unsafe.Sizeof(zero) {
	case 1:
		v, err := w.Read8(offset)
		return T(v), err
	case 2:
		v, err := w.Read16(offset)
		return T(v), err
	case 4:
		v, err := w.Read32(offset)
		return T(v), err
	default:
		v, err := w.Read64(offset)
		return T(v), err
	}
}

func writeWidth[T width](w Window, offset uint64, v T) *kernel.Error {
	switch unsafe.Sizeof(v) {
	case 1:
		return w.Write8(offset, uint8(v))
	case 2:
		return w.Write16(offset, uint16(v))
	case 4:
		return w.Write32(offset, uint32(v))
	default:
		return w.Write64(offset, uint64(v))
	}
}
