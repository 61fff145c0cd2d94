package vmm

// numLevels is the number of paging levels in active use. It defaults
// to each architecture's conventional level count and may be raised by
// SetLevels once Init observes CPUID/ID-register evidence that the CPU
// supports a deeper hierarchy (5-level/LA57 on amd64).
var numLevels uint8 = defaultLevels

// SetLevels overrides the active paging level count. It must be called
// before any address space is created; changing it afterward would
// silently reinterpret already-built page tables.
func SetLevels(n uint8) {
	numLevels = n
}

// Levels returns the active paging level count.
func Levels() uint8 {
	return numLevels
}

// levelOffset is the index into the maxPageLevels-sized static arrays
// where the active hierarchy's root level begins: a 4-level walk on a
// 5-slot array starts one slot in, reusing the same low-level shifts a
// 5-level walk would use for its bottom 4 levels.
func levelOffset() int {
	return maxPageLevels - int(numLevels)
}

// levelShift returns the bit shift used to extract level's index from a
// virtual address, where level 0 is the root.
func levelShift(level uint8) uint8 {
	return pageLevelShifts[levelOffset()+int(level)]
}

// levelBits returns the number of index bits consumed at level.
func levelBits(level uint8) uint8 {
	return pageLevelBits[levelOffset()+int(level)]
}

// hugePageLevel is the level at which a huge-page leaf is installed:
// one level shallower than the deepest (4KiB) leaf level.
func hugePageLevel() uint8 {
	return numLevels - 2
}

// kernelFirstTableIndex returns the root-table index of the first entry
// that belongs to the shared kernel half (spec ?4.D "Kernel-half
// sharing").
func kernelFirstTableIndex() uintptr {
	return (KernelSpaceStart >> levelShift(0)) & ((1 << levelBits(0)) - 1)
}
