package boot

import (
	"fmt"

	"golang.org/x/exp/slog"

	"github.com/ferrokern/memlayout/layout"
	"github.com/ferrokern/memlayout/memutils"
)

// CoreLocalConfig describes the core topology for the core-local carve-out.
type CoreLocalConfig struct {
	NumCores int

	// Core0TableRoot is the physical address of the translation table the
	// boot core is already running on. The remaining cores get clones of it.
	Core0TableRoot uintptr
}

// coreLocalRegionVirtualAddress searches the virtual tree for a random
// page-aligned window large enough for the core-local region plus one guard
// page on each side. The guarded window must sit inside a single free block
// that spans its whole bounds-aligned neighborhood, so the region can never
// straddle a large translation boundary. The returned address skips the
// leading guard page.
func (b *Bootstrap) coreLocalRegionVirtualAddress(numCores int) uintptr {
	virtualTree := b.layout.VirtualTree()
	sizeWithGuards := CoreLocalRegionSize(numCores) + coreLocalGuardPages*PageSize

	for {
		candidateStart := virtualTree.GetRandomAlignedRegion(b.random, sizeWithGuards, CoreLocalRegionAlign, layout.TypeNone)
		candidateEnd := candidateStart + sizeWithGuards
		candidateLast := candidateEnd - 1

		containingBlock := virtualTree.FindContainingBlock(candidateStart)
		if containingBlock == nil || candidateLast > containingBlock.LastAddress() {
			continue
		}

		if containingBlock.Type() != layout.TypeNone {
			continue
		}

		if memutils.AlignDown(candidateStart, CoreLocalRegionBoundsAlign) != memutils.AlignDown(candidateLast, CoreLocalRegionBoundsAlign) {
			continue
		}

		if containingBlock.Address() > memutils.AlignDown(candidateStart, CoreLocalRegionBoundsAlign) {
			continue
		}

		if memutils.AlignUp(candidateLast, CoreLocalRegionBoundsAlign)-1 > containingBlock.LastAddress() {
			continue
		}

		return candidateStart + PageSize
	}
}

// SetupCoreLocalRegionMemoryBlocks reserves the core-local virtual window,
// allocates one physical page per core plus a translation table root per
// secondary core, programs each core's table to map the window, and publishes
// the per-core boot arguments. Runs once, before secondary cores start.
func (b *Bootstrap) SetupCoreLocalRegionMemoryBlocks(tables PageTableFactory, pages PageAllocator, args BootArgumentSink, config CoreLocalConfig) {
	if config.NumCores < 1 {
		panic(fmt.Sprintf("core-local setup requires at least one core, got %d", config.NumCores))
	}

	virtualTree := b.layout.VirtualTree()

	coreLocalVirtStart := b.coreLocalRegionVirtualAddress(config.NumCores)
	if !virtualTree.Insert(coreLocalVirtStart, CoreLocalRegionSize(config.NumCores), layout.TypeCoreLocal, 0, 0) {
		panic(fmt.Sprintf("failed to reserve the core-local region at %#x", coreLocalVirtStart))
	}

	// One private data page per core.
	coreLocalPhys := make([]uintptr, config.NumCores)
	for i := range coreLocalPhys {
		coreLocalPhys[i] = pages.Allocate()
	}

	// A translation table root per core. Core 0 keeps the table it booted
	// on; the others get clones of it.
	tableRoots := make([]uintptr, config.NumCores)
	tableRoots[0] = memutils.AlignDown(config.Core0TableRoot, PageSize)
	for i := 1; i < config.NumCores; i++ {
		tableRoots[i] = pages.Allocate()
		tables.ClonePageTable(tableRoots[i], tableRoots[0])
	}

	// Each core's table maps its own private page at the window start, then
	// every core's page at the slots that follow.
	for i := 0; i < config.NumCores; i++ {
		pageTable := tables.OpenPageTable(tableRoots[i])

		pageTable.Map(coreLocalVirtStart, PageSize, coreLocalPhys[i], KernelRWDataAttribute, pages)
		for j := 0; j < config.NumCores; j++ {
			pageTable.Map(coreLocalVirtStart+uintptr(j+1)*PageSize, PageSize, coreLocalPhys[j], KernelRWDataAttribute, pages)
		}

		args.SetInitArguments(i, coreLocalPhys[i], tableRoots[i])
	}

	// Make the arguments visible to the cores as they come up.
	args.StoreInitArguments()

	b.logger.Debug("reserved core-local region",
		slog.String("virtStart", fmt.Sprintf("%#x", coreLocalVirtStart)),
		slog.Int("numCores", config.NumCores),
	)
}
