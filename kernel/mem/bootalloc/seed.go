package bootalloc

import "github.com/UltraOS/Ultra/kernel/boot"

// EntriesFromMemoryMap translates a boot.MemoryMapEntry list into the
// Entry list Init expects, classifying RECLAIMABLE/KERNEL_BINARY/
// LOADER_RECLAIMABLE ranges as allocated and FREE ranges as free, and
// dropping everything else (RESERVED, ACPI NVS) — the seeding rule from
// spec ?4.B.
func EntriesFromMemoryMap(mmap []boot.MemoryMapEntry) []Entry {
	out := make([]Entry, 0, len(mmap))
	for _, e := range mmap {
		var t MemType
		switch e.Type {
		case boot.MemFree:
			t = MemFree
		case boot.MemACPIReclaimable:
			t = MemReclaimable
		case boot.MemKernelBinary:
			t = MemKernelBinary
		case boot.MemBootloaderReclaimable:
			t = MemLoaderReclaimable
		default:
			continue
		}
		out = append(out, Entry{PhysAddress: e.PhysAddress, Size: e.Length, Type: t})
	}
	return out
}
