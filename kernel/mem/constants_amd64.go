// +build amd64

package mem

const (
	// PageShift is log2(PageSize); used to convert an address to a
	// page/frame index and vice-versa.
	PageShift = 12

	// PageSize is the system's base page size in bytes.
	PageSize = Size(1 << PageShift)

	// HugePageShift is log2(HugePageSize) on amd64 (a 2MiB huge page,
	// i.e. the level-1 leaf size in a 4-level or 5-level table).
	HugePageShift = 21

	// HugePageSize is the architecture's huge-page size in bytes.
	HugePageSize = Size(1 << HugePageShift)

	// PointerShift is log2(sizeof(uintptr)); used when computing the
	// byte offset of an entry within a page table.
	PointerShift = 3
)
