// +build arm64

package vmm

// ARM64 (as supported by this kernel) always uses a 4-level 4KiB-granule
// translation table; maxPageLevels is kept at 5 so the same levelShift/
// levelBits machinery as amd64 can be shared even though only 4 are
// ever active here (spec ?1 lists ARM64 support as experimental).
const maxPageLevels = 5

const defaultLevels = 4

// ptePhysPageMask extracts bits 12-47, ARM64's output address field for
// a 4KiB-granule, 48-bit physical address space descriptor.
const ptePhysPageMask = uintptr(0x0000fffffffff000)

const DirectMapBase = uintptr(0xffff000000000000)

const KernelSpaceStart = uintptr(0xffff000000000000)

const tempMappingAddr = uintptr(0xfffffffffffff000)

var pageLevelBits = [maxPageLevels]uint8{9, 9, 9, 9, 9}

var pageLevelShifts = [maxPageLevels]uint8{48, 39, 30, 21, 12}

// ARM64's descriptor bit layout differs from amd64's but this engine
// only needs the same abstract flag set. The flags below take bits 0-9
// in the same order as on amd64; they do not sit at the VMSAv8-64
// stage-1 descriptor positions of the fields they stand in for, except
// FlagNoExecute, which is bit 54 (UXN).
const (
	FlagPresent PageTableEntryFlag = 1 << iota
	FlagRW
	FlagUserAccessible
	FlagWriteThroughCaching
	FlagDoNotCache
	FlagAccessed
	FlagDirty
	FlagHugePage
	FlagGlobal
	FlagCopyOnWrite = 1 << 9
	FlagNoExecute   = 1 << 54
)
