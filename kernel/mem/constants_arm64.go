// +build arm64

package mem

const (
	// PageShift is log2(PageSize); 4KiB pages on the ARM targets this
	// kernel currently supports (64KiB granule is not implemented).
	PageShift = 12

	// PageSize is the system's base page size in bytes.
	PageSize = Size(1 << PageShift)

	// HugePageShift is log2(HugePageSize); a 2MiB block mapping at
	// level 2 of a 4KiB-granule translation table, matching amd64's
	// huge-page size so the vmm package does not need a second huge
	// page constant per architecture.
	HugePageShift = 21

	// HugePageSize is the architecture's huge-page size in bytes.
	HugePageSize = Size(1 << HugePageShift)

	// PointerShift is log2(sizeof(uintptr)).
	PointerShift = 3
)
