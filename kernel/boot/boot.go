// Package boot holds the pre-parsed boot context the kernel core
// consumes: the physical memory map, the raw command line string, and
// whatever else the bootloader handed over. Grounded on
// kernel/hal/multiboot/multiboot.go's tag-list decoder, but generalised
// into a boot-protocol-neutral attribute list rather than a
// multiboot2-specific one, since boot-protocol parsing itself is out of
// this core's scope (the caller is expected to translate whatever
// protocol it booted under — multiboot2, a UEFI stub, a custom loader —
// into a Context before handing control to this package's consumers).
package boot

// AttributeKind identifies the kind of information an Attribute carries.
type AttributeKind uint8

const (
	// PlatformInfo carries architecture/firmware identification.
	PlatformInfo AttributeKind = iota

	// KernelInfo carries the kernel image's own load address and size.
	KernelInfo

	// MemoryMap carries the list of MemoryMapEntry values.
	MemoryMap

	// CommandLine carries the raw, unparsed command-line string.
	CommandLine

	// FramebufferInfo carries the initialized framebuffer's geometry.
	FramebufferInfo

	// ModuleInfo carries a boot module's (name, address, size) tuple.
	ModuleInfo
)

// Attribute is one piece of pre-parsed boot information. Exactly one of
// the typed fields is meaningful, selected by Kind; this mirrors the
// teacher's tagged-union-via-header-then-payload multiboot decoding,
// flattened into a single Go struct since this package receives
// already-decoded values rather than a byte stream to walk.
type Attribute struct {
	Kind AttributeKind

	Platform    PlatformInfoData
	Kernel      KernelInfoData
	MemoryMapE  []MemoryMapEntry
	CommandLine string
	Framebuffer FramebufferInfoData
	Module      ModuleInfoData
}

// PlatformInfoData describes the platform the kernel was booted on.
type PlatformInfoData struct {
	Arch         string
	BootProtocol string
}

// KernelInfoData describes the kernel image's own placement in memory.
type KernelInfoData struct {
	PhysStart, PhysEnd uintptr
}

// MemoryMapEntryType classifies a MemoryMapEntry, matching the teacher's
// MemoryEntryType but renamed/extended per spec ?6 to distinguish the
// bootloader-reclaimable and kernel-binary cases the boot allocator
// seeding rule (spec ?4.B) needs to tell apart.
type MemoryMapEntryType uint8

const (
	MemFree MemoryMapEntryType = iota
	MemReserved
	MemACPIReclaimable
	MemACPINVS
	MemKernelBinary
	MemBootloaderReclaimable
	memUnknown
)

// MemoryMapEntry describes one physical memory region, as decoded from
// whatever boot-protocol-specific map the loader provided.
type MemoryMapEntry struct {
	PhysAddress uintptr
	Length      uint64
	Type        MemoryMapEntryType
}

// FramebufferInfoData describes the initialized framebuffer, when one is
// present (spec ?6 carries this through unchanged from the teacher's
// multiboot.FramebufferInfo).
type FramebufferInfoData struct {
	PhysAddr     uintptr
	Pitch, Width uint32
	Height       uint32
	Bpp          uint8
	Indexed      bool
}

// ModuleInfoData describes one boot module (an initrd, a font, a second
// binary) the loader staged into memory for the kernel to find later.
type ModuleInfoData struct {
	Name               string
	PhysStart, PhysEnd uintptr
}

// Context is the fully pre-parsed view of everything the boot loader
// gave the kernel, built by collecting Attributes in whatever order the
// platform-specific bring-up code discovered them.
type Context struct {
	attrs []Attribute
}

// NewContext builds a Context from a slice of already-decoded
// Attributes. The boot-protocol-specific decoder (not part of this
// package) is responsible for producing that slice.
func NewContext(attrs []Attribute) *Context {
	return &Context{attrs: attrs}
}

// MemoryMap returns the memory map entries carried by the context, or
// nil if none were provided.
func (c *Context) MemoryMap() []MemoryMapEntry {
	for _, a := range c.attrs {
		if a.Kind == MemoryMap {
			return a.MemoryMapE
		}
	}
	return nil
}

// CommandLine returns the raw command-line string, or "" if none was
// provided.
func (c *Context) CommandLine() string {
	for _, a := range c.attrs {
		if a.Kind == CommandLine {
			return a.CommandLine
		}
	}
	return ""
}

// KernelInfo returns the kernel image's own load bounds, and whether
// that attribute was present.
func (c *Context) KernelInfo() (KernelInfoData, bool) {
	for _, a := range c.attrs {
		if a.Kind == KernelInfo {
			return a.Kernel, true
		}
	}
	return KernelInfoData{}, false
}

// Framebuffer returns the initialized framebuffer's geometry, and
// whether that attribute was present.
func (c *Context) Framebuffer() (FramebufferInfoData, bool) {
	for _, a := range c.attrs {
		if a.Kind == FramebufferInfo {
			return a.Framebuffer, true
		}
	}
	return FramebufferInfoData{}, false
}

// Modules returns every ModuleInfo attribute the loader staged.
func (c *Context) Modules() []ModuleInfoData {
	var out []ModuleInfoData
	for _, a := range c.attrs {
		if a.Kind == ModuleInfo {
			out = append(out, a.Module)
		}
	}
	return out
}
