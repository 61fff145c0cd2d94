// Package iowindow gives drivers a single typed handle over both
// memory-mapped and legacy port IO (spec ?4.C). There is no direct
// teacher equivalent — gopheros drivers poke hal.ActiveTerminal's VGA
// buffer directly — so this package is written fresh, leaning on the
// bodyless port-IO primitives already declared in kernel/cpu and on
// this repo's own *kernel.Error convention rather than gopheros's.
package iowindow

import (
	"unsafe"

	"github.com/UltraOS/Ultra/kernel"
	"github.com/UltraOS/Ultra/kernel/cpu"
)

// Kind identifies which address space a Window reads and writes.
type Kind uint8

const (
	Invalid Kind = iota
	PortIO
	MemIO
)

var (
	errInvalidWindow = kernel.New("iowindow", "window is not mapped", kernel.Inval)
	errOutOfBounds   = kernel.New("iowindow", "access offset exceeds window length", kernel.Range)
	errBadWidth      = kernel.New("iowindow", "unsupported access width", kernel.Inval)
)

// Window is a bounded handle over either an MMIO region or a block of
// legacy IO ports. The zero Window is Invalid and every accessor on it
// returns errInvalidWindow.
type Window struct {
	kind    Kind
	address uintptr
	length  uint64

	// harden, when true, makes every access bounds-check offset<length
	// even outside of tests (spec ?4.C "hardening flag").
	harden bool
}

// Hardened controls whether newly mapped windows bounds-check every
// access. It defaults to true; a kernel built for a trusted, fully
// vetted driver set may turn it off to shave the branch.
var Hardened = true

// Map creates a Window over the MMIO region [phys, phys+len) that has
// already been mapped into the kernel's virtual address space at addr
// (io_window_map in spec ?4.C; the page-table mapping itself is the
// caller's responsibility, performed via vmm/addrspace).
func Map(addr uintptr, length uint64) Window {
	return Window{kind: MemIO, address: addr, length: length, harden: Hardened}
}

// MapPIO creates a Window over the len legacy IO ports starting at
// base (io_window_map_pio in spec ?4.C).
func MapPIO(base uint16, length uint64) Window {
	return Window{kind: PortIO, address: uintptr(base), length: length, harden: Hardened}
}

// Kind reports which address space w targets.
func (w Window) Kind() Kind {
	return w.kind
}

// Length reports the number of bytes (or ports) w covers.
func (w Window) Length() uint64 {
	return w.length
}

func (w Window) checkAccess(offset uint64, width uint64) *kernel.Error {
	if w.kind == Invalid {
		return errInvalidWindow
	}
	if w.harden && offset+width > w.length {
		return errOutOfBounds
	}
	return nil
}

// Read8/Read16/Read32/Read64 read a value of the given width at
// offset, dispatching on the window's kind (spec ?4.C "width-dispatch
// macro covers the 4-way switch"). Read64 is only meaningful for MMIO
// windows; there is no 64-bit port IO instruction.
func (w Window) Read8(offset uint64) (uint8, *kernel.Error) {
	if err := w.checkAccess(offset, 1); err != nil {
		return 0, err
	}
	if w.kind == PortIO {
		return cpu.InPort8(uint16(w.address + uintptr(offset))), nil
	}
	return *(*uint8)(unsafe.Pointer(w.address + uintptr(offset))), nil
}

func (w Window) Read16(offset uint64) (uint16, *kernel.Error) {
	if err := w.checkAccess(offset, 2); err != nil {
		return 0, err
	}
	if w.kind == PortIO {
		return cpu.InPort16(uint16(w.address + uintptr(offset))), nil
	}
	return *(*uint16)(unsafe.Pointer(w.address + uintptr(offset))), nil
}

func (w Window) Read32(offset uint64) (uint32, *kernel.Error) {
	if err := w.checkAccess(offset, 4); err != nil {
		return 0, err
	}
	if w.kind == PortIO {
		return cpu.InPort32(uint16(w.address + uintptr(offset))), nil
	}
	return *(*uint32)(unsafe.Pointer(w.address + uintptr(offset))), nil
}

func (w Window) Read64(offset uint64) (uint64, *kernel.Error) {
	if err := w.checkAccess(offset, 8); err != nil {
		return 0, err
	}
	if w.kind == PortIO {
		return 0, errBadWidth
	}
	return *(*uint64)(unsafe.Pointer(w.address + uintptr(offset))), nil
}

// Write8/Write16/Write32/Write64 write a value of the given width at
// offset, dispatching on the window's kind.
func (w Window) Write8(offset uint64, v uint8) *kernel.Error {
	if err := w.checkAccess(offset, 1); err != nil {
		return err
	}
	if w.kind == PortIO {
		cpu.OutPort8(uint16(w.address+uintptr(offset)), v)
		return nil
	}
	*(*uint8)(unsafe.Pointer(w.address + uintptr(offset))) = v
	return nil
}

func (w Window) Write16(offset uint64, v uint16) *kernel.Error {
	if err := w.checkAccess(offset, 2); err != nil {
		return err
	}
	if w.kind == PortIO {
		cpu.OutPort16(uint16(w.address+uintptr(offset)), v)
		return nil
	}
	*(*uint16)(unsafe.Pointer(w.address + uintptr(offset))) = v
	return nil
}

func (w Window) Write32(offset uint64, v uint32) *kernel.Error {
	if err := w.checkAccess(offset, 4); err != nil {
		return err
	}
	if w.kind == PortIO {
		cpu.OutPort32(uint16(w.address+uintptr(offset)), v)
		return nil
	}
	*(*uint32)(unsafe.Pointer(w.address + uintptr(offset))) = v
	return nil
}

func (w Window) Write64(offset uint64, v uint64) *kernel.Error {
	if err := w.checkAccess(offset, 8); err != nil {
		return err
	}
	if w.kind == PortIO {
		return errBadWidth
	}
	*(*uint64)(unsafe.Pointer(w.address + uintptr(offset))) = v
	return nil
}
