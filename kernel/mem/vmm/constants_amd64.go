// +build amd64

package vmm

// maxPageLevels is the deepest paging hierarchy this engine can walk
// (5-level/LA57 x86-64). Systems that only support 4-level paging use
// the last 4 entries of each per-level array below; see levelShift/
// levelBits.
const maxPageLevels = 5

// defaultLevels is the level count assumed until Init observes CPUID
// evidence of 5-level paging support and calls SetLevels(5).
const defaultLevels = 4

// ptePhysPageMask extracts the physical address (bits 12-51) encoded in
// a page table entry.
const ptePhysPageMask = uintptr(0x000ffffffffff000)

// DirectMapBase is the virtual address at which all of physical memory
// is linearly mapped, replacing the teacher's recursive self-mapping
// trick: translating a physical frame to a dereferenceable pointer is
// then just DirectMapBase+phys, which works for *any* page table
// (active or not), not only the currently loaded one.
const DirectMapBase = uintptr(0xffff800000000000)

// KernelSpaceStart is the lowest virtual address considered part of the
// shared kernel half; every root-table entry at or above this address
// is preallocated once and then shared (aliased) by every address space
// (spec ?4.D "Kernel-half sharing").
const KernelSpaceStart = uintptr(0xffff800000000000)

// tempMappingAddr is a reserved virtual page used for MapTemporary.
const tempMappingAddr = uintptr(0xffffff7ffffff000)

// pageLevelBits holds the number of virtual-address bits consumed by
// each of the (up to) 5 levels, indexed from the root downward. All
// x86-64 paging modes use 9 bits (512 entries) per level.
var pageLevelBits = [maxPageLevels]uint8{9, 9, 9, 9, 9}

// pageLevelShifts holds the bit shift to extract each level's index
// from a virtual address, indexed from the root downward for a
// (hypothetical) full 5-level walk. A 4-level walker uses the last 4
// entries (see levelShift/levelBits), which reproduces the canonical
// 39/30/21/12 amd64 shifts exactly.
var pageLevelShifts = [maxPageLevels]uint8{48, 39, 30, 21, 12}

const (
	// FlagPresent is set when the page is available in memory.
	FlagPresent PageTableEntryFlag = 1 << iota

	// FlagRW is set if the page can be written to.
	FlagRW

	// FlagUserAccessible is set if user-mode code may access this page.
	FlagUserAccessible

	// FlagWriteThroughCaching implies write-through caching when set.
	FlagWriteThroughCaching

	// FlagDoNotCache prevents this page from being cached when set.
	FlagDoNotCache

	// FlagAccessed is set by the CPU the first time the page is read.
	FlagAccessed

	// FlagDirty is set by the CPU the first time the page is written.
	FlagDirty

	// FlagHugePage marks a leaf one level above the deepest level.
	FlagHugePage

	// FlagGlobal exempts the page from TLB flushes across CR3 switches.
	FlagGlobal

	// FlagCopyOnWrite is a software-only bit (mutually exclusive with
	// FlagRW) used to implement copy-on-write.
	FlagCopyOnWrite = 1 << 9

	// FlagNoExecute marks the page as containing no executable code.
	FlagNoExecute = 1 << 63
)
