package boot

// PageAllocator hands out physical pages during boot. It backs both the
// core-local data pages and any intermediate page-table pages the mapper
// needs. Pages are never returned.
type PageAllocator interface {
	Allocate() uintptr
}

// PageTableAttributes is the permission/attribute mask applied to a mapping.
type PageTableAttributes uint64

const (
	PermissionKernelRW PageTableAttributes = 1 << iota
	AttributeNormalMemory
	ShareableInnerShareable
)

// KernelRWDataAttribute is the mapping attribute used for kernel-private
// read-write data such as the core-local region.
const KernelRWDataAttribute = PermissionKernelRW | AttributeNormalMemory | ShareableInnerShareable

// PageTableMapper programs mappings into one translation table. Map fails
// fatally inside the implementation rather than returning a partial mapping.
type PageTableMapper interface {
	Map(virtAddress, size, physAddress uintptr, attributes PageTableAttributes, allocator PageAllocator)
}

// PageTableFactory opens and clones per-core translation tables by the
// physical address of their root page.
type PageTableFactory interface {
	OpenPageTable(tableRoot uintptr) PageTableMapper
	ClonePageTable(destTableRoot, sourceTableRoot uintptr)
}

// BootArgumentSink persists per-core boot parameters and flushes them to be
// visible to the cores as they start.
type BootArgumentSink interface {
	SetInitArguments(coreIndex int, coreLocalPhysAddress, tableRoot uintptr)
	StoreInitArguments()
}

// OverheadCalculator computes the metadata overhead the physical memory
// manager will need for a pool of the given size. It must be a pure function
// of the region size.
type OverheadCalculator interface {
	CalculateMetadataOverheadSize(regionSize uintptr) uintptr
}

// OverheadCalculatorFunc adapts a plain function to OverheadCalculator.
type OverheadCalculatorFunc func(regionSize uintptr) uintptr

func (f OverheadCalculatorFunc) CalculateMetadataOverheadSize(regionSize uintptr) uintptr {
	return f(regionSize)
}
