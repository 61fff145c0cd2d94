package unwind

import (
	"testing"
	"unsafe"
)

func bytesAddr(b []byte) uintptr {
	return uintptr(unsafe.Pointer(&b[0]))
}

func TestULEB128(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want uint64
		n    uintptr
	}{
		{"single byte", []byte{0x02}, 2, 1},
		{"three bytes", []byte{0xe5, 0x8e, 0x26}, 624485, 3},
		{"zero", []byte{0x00}, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, n := uleb128(bytesAddr(tt.in))
			if got != tt.want || n != tt.n {
				t.Fatalf("uleb128(%v) = (%d, %d), want (%d, %d)", tt.in, got, n, tt.want, tt.n)
			}
		})
	}
}

func TestSLEB128(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want int64
		n    uintptr
	}{
		{"positive small", []byte{0x02}, 2, 1},
		{"negative small", []byte{0x7e}, -2, 1},
		{"negative three bytes", []byte{0x9b, 0xf1, 0x59}, -624485, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, n := sleb128(bytesAddr(tt.in))
			if got != tt.want || n != tt.n {
				t.Fatalf("sleb128(%v) = (%d, %d), want (%d, %d)", tt.in, got, n, tt.want, tt.n)
			}
		})
	}
}
