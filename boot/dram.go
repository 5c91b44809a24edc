package boot

import (
	"fmt"

	"golang.org/x/exp/slog"

	"github.com/ferrokern/memlayout/layout"
	"github.com/ferrokern/memlayout/memutils"
)

// DramConfig describes the machine's DRAM and where the kernel carveout and
// pool partition region begin inside it. The kernel carveout runs from
// KernelStart to the end of DRAM and the pool partition region from
// PoolPartitionStart to the end of DRAM, so
// DramStart <= KernelStart <= PoolPartitionStart must hold.
type DramConfig struct {
	DramStart uintptr
	DramSize  uintptr

	KernelStart        uintptr
	PoolPartitionStart uintptr

	// LinearVirtualStart is the virtual address the start of DRAM is linearly
	// mapped to.
	LinearVirtualStart uintptr
}

// SetupDramMemoryBlocks seeds the physical tree with the DRAM region, the
// kernel carveout, and the pool partition region, then stamps the linear pair
// address onto every DRAM-derived physical block. It must run before any
// other builder.
func (b *Bootstrap) SetupDramMemoryBlocks(config DramConfig) {
	if b.dramReady {
		panic("SetupDramMemoryBlocks has already run")
	}

	dramEnd := config.DramStart + config.DramSize
	if config.KernelStart < config.DramStart || config.PoolPartitionStart < config.KernelStart || config.PoolPartitionStart >= dramEnd {
		panic(fmt.Sprintf("inconsistent DRAM configuration: dram [%#x, %#x), kernel start %#x, pool partition start %#x",
			config.DramStart, dramEnd, config.KernelStart, config.PoolPartitionStart))
	}

	if !memutils.IsAligned(config.KernelStart, CarveoutAlignment) {
		panic(fmt.Sprintf("kernel carveout start %#x is not aligned to %#x", config.KernelStart, CarveoutAlignment))
	}

	physicalTree := b.layout.PhysicalTree()

	if !physicalTree.Insert(config.DramStart, config.DramSize, layout.TypeDram, layout.AttrLinearMapped, 0) {
		panic("failed to insert the DRAM region into the physical tree")
	}

	if !physicalTree.Insert(config.KernelStart, dramEnd-config.KernelStart, layout.TypeDramKernel, layout.AttrLinearMapped, layout.AttrLinearMapped) {
		panic("failed to insert the kernel carveout into the physical tree")
	}

	if !physicalTree.Insert(config.PoolPartitionStart, dramEnd-config.PoolPartitionStart, layout.TypeDramPoolPartition, layout.AttrLinearMapped, layout.AttrLinearMapped) {
		panic("failed to insert the pool partition region into the physical tree")
	}

	// Every DRAM block is linearly mapped; record where each one lands in
	// virtual space so mirrored inserts can find their counterparts.
	_ = physicalTree.VisitAllBlocks(func(block *layout.MemoryBlock) error {
		if block.IsDerivedFrom(layout.TypeDram) {
			block.SetPairAddress(config.LinearVirtualStart + (block.Address() - config.DramStart))
		}
		return nil
	})

	b.linearPhysStart = config.DramStart
	b.linearVirtualStart = config.LinearVirtualStart
	b.dramReady = true

	b.logger.Debug("seeded DRAM memory blocks",
		slog.String("dramStart", fmt.Sprintf("%#x", config.DramStart)),
		slog.String("dramSize", fmt.Sprintf("%#x", config.DramSize)),
		slog.String("kernelStart", fmt.Sprintf("%#x", config.KernelStart)),
		slog.String("poolPartitionStart", fmt.Sprintf("%#x", config.PoolPartitionStart)),
	)
}
