package boot

import (
	"fmt"

	"golang.org/x/exp/slog"

	"github.com/ferrokern/memlayout/layout"
	"github.com/ferrokern/memlayout/memutils"
)

// PoolConfig carries the pool sizes the platform requested. The application
// and applet pools are laid out backward from the end of DRAM; the non-secure
// system pool receives at least MinimumNonSecureSystemPoolSize but may grow to
// absorb the carveout clamp.
type PoolConfig struct {
	ApplicationPoolSize            uintptr
	AppletPoolSize                 uintptr
	MinimumNonSecureSystemPoolSize uintptr
}

// SetupPoolPartitionMemoryBlocks partitions the pool partition region into the
// five pools (system, metadata, non-secure system, applet, application,
// ordered from low to high address), mirroring every insert into the virtual
// tree at the paired address. The metadata pool is sized from the overhead
// calculator's accounting of every other pool.
func (b *Bootstrap) SetupPoolPartitionMemoryBlocks(config PoolConfig) {
	if !b.dramReady {
		panic("SetupDramMemoryBlocks must run before the pools can be partitioned")
	}

	physicalTree := b.layout.PhysicalTree()

	// Identify the extents of the DRAM memory region.
	dramExtents, ok := physicalTree.GetDerivedRegionExtents(layout.TypeDram)
	if !ok {
		panic("the physical tree has no DRAM region")
	}
	dramFirstAddress := dramExtents.FirstBlock.Address()
	dramEndAddress := dramExtents.LastBlock.EndAddress()

	// Find the start of the kernel DRAM region.
	kernelDramBlock := physicalTree.FindFirstDerivedBlock(layout.TypeDramKernel)
	if kernelDramBlock == nil {
		panic("the physical tree has no kernel DRAM region")
	}
	kernelDramStart := kernelDramBlock.Address()
	if !memutils.IsAligned(kernelDramStart, CarveoutAlignment) {
		panic(fmt.Sprintf("kernel DRAM starts at %#x, which is not aligned to %#x", kernelDramStart, CarveoutAlignment))
	}

	// Find the start of the pool partitions region.
	poolPartitionBlock := physicalTree.FindFirstBlockByTypeAttr(layout.TypeDramPoolPartition, layout.AttrLinearMapped)
	if poolPartitionBlock == nil {
		panic("the physical tree has no pool partition region")
	}
	poolPartitionsStart := poolPartitionBlock.Address()

	// Decide on starting addresses for the pools, working backward from the
	// end of DRAM.
	applicationPoolStart := dramEndAddress - config.ApplicationPoolSize
	appletPoolStart := applicationPoolStart - config.AppletPoolSize

	unsafeSystemPoolStart := memutils.AlignDown(appletPoolStart-config.MinimumNonSecureSystemPoolSize, CarveoutAlignment)
	if carveoutLimit := kernelDramStart + CarveoutSizeMax; carveoutLimit < unsafeSystemPoolStart {
		unsafeSystemPoolStart = carveoutLimit
	}
	unsafeSystemPoolSize := appletPoolStart - unsafeSystemPoolStart

	// The application pool is split if it would straddle the DRAM midpoint,
	// which changes the downstream metadata-overhead accounting.
	dramMidpoint := dramFirstAddress + (dramEndAddress-dramFirstAddress)/2
	curPoolAttr := layout.Attributes(0)
	totalOverheadSize := uintptr(0)

	if dramEndAddress <= dramMidpoint || dramMidpoint <= applicationPoolStart {
		b.insertPoolPartitionBlockIntoBothTrees(applicationPoolStart, config.ApplicationPoolSize,
			layout.TypeDramApplicationPool, layout.TypeVirtualDramApplicationPool, &curPoolAttr)
		totalOverheadSize += b.overhead.CalculateMetadataOverheadSize(config.ApplicationPoolSize)
	} else {
		firstApplicationPoolSize := dramMidpoint - applicationPoolStart
		secondApplicationPoolSize := applicationPoolStart + config.ApplicationPoolSize - dramMidpoint
		b.insertPoolPartitionBlockIntoBothTrees(applicationPoolStart, firstApplicationPoolSize,
			layout.TypeDramApplicationPool, layout.TypeVirtualDramApplicationPool, &curPoolAttr)
		b.insertPoolPartitionBlockIntoBothTrees(dramMidpoint, secondApplicationPoolSize,
			layout.TypeDramApplicationPool, layout.TypeVirtualDramApplicationPool, &curPoolAttr)
		totalOverheadSize += b.overhead.CalculateMetadataOverheadSize(firstApplicationPoolSize)
		totalOverheadSize += b.overhead.CalculateMetadataOverheadSize(secondApplicationPoolSize)
	}

	// Applet pool.
	b.insertPoolPartitionBlockIntoBothTrees(appletPoolStart, config.AppletPoolSize,
		layout.TypeDramAppletPool, layout.TypeVirtualDramAppletPool, &curPoolAttr)
	totalOverheadSize += b.overhead.CalculateMetadataOverheadSize(config.AppletPoolSize)

	// Non-secure system pool.
	b.insertPoolPartitionBlockIntoBothTrees(unsafeSystemPoolStart, unsafeSystemPoolSize,
		layout.TypeDramSystemNonSecurePool, layout.TypeVirtualDramSystemNonSecurePool, &curPoolAttr)
	totalOverheadSize += b.overhead.CalculateMetadataOverheadSize(unsafeSystemPoolSize)

	// Metadata pool, sized to cover the overhead of everything else plus the
	// system pool that remains below it.
	totalOverheadSize += b.overhead.CalculateMetadataOverheadSize((unsafeSystemPoolStart - poolPartitionsStart) - totalOverheadSize)
	metadataPoolStart := unsafeSystemPoolStart - totalOverheadSize
	metadataPoolSize := totalOverheadSize
	metadataPoolAttr := layout.Attributes(0)
	b.insertPoolPartitionBlockIntoBothTrees(metadataPoolStart, metadataPoolSize,
		layout.TypeDramMetadataPool, layout.TypeVirtualDramMetadataPool, &metadataPoolAttr)

	// System pool fills the remainder of the pool partition region.
	systemPoolSize := metadataPoolStart - poolPartitionsStart
	b.insertPoolPartitionBlockIntoBothTrees(poolPartitionsStart, systemPoolSize,
		layout.TypeDramSystemPool, layout.TypeVirtualDramSystemPool, &curPoolAttr)

	b.logger.Debug("partitioned DRAM pools",
		slog.String("poolPartitionsStart", fmt.Sprintf("%#x", poolPartitionsStart)),
		slog.String("metadataPoolSize", fmt.Sprintf("%#x", metadataPoolSize)),
		slog.String("systemPoolSize", fmt.Sprintf("%#x", systemPoolSize)),
	)
}

// insertPoolPartitionBlockIntoBothTrees commits one pool to the physical tree
// and mirrors it into the virtual tree at the physical block's pair address.
// Each call consumes a fresh pool attribute tag so the mirrored pair can be
// located by (type, attribute). Both inserts must succeed.
func (b *Bootstrap) insertPoolPartitionBlockIntoBothTrees(start, size uintptr, physType, virtType layout.MemoryType, curAttr *layout.Attributes) {
	attr := *curAttr
	*curAttr = attr + 1

	physicalTree := b.layout.PhysicalTree()
	virtualTree := b.layout.VirtualTree()

	if !physicalTree.Insert(start, size, physType, layout.AttrLinearMapped|attr, layout.AttrLinearMapped) {
		panic(fmt.Sprintf("failed to insert %s [%#x, %#x) into the physical tree", physType, start, start+size))
	}

	physBlock := physicalTree.FindFirstBlockByTypeAttr(physType, layout.AttrLinearMapped|attr)
	if physBlock == nil {
		panic(fmt.Sprintf("could not find the %s block that was just inserted", physType))
	}

	if !virtualTree.Insert(physBlock.PairAddress(), size, virtType, attr, 0) {
		panic(fmt.Sprintf("failed to mirror %s into the virtual tree at %#x", virtType, physBlock.PairAddress()))
	}

	b.logger.Debug("inserted pool partition block",
		slog.String("type", physType.String()),
		slog.String("start", fmt.Sprintf("%#x", start)),
		slog.String("size", fmt.Sprintf("%#x", size)),
	)
}
