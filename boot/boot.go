// Package boot contains the one-shot builders that partition DRAM into pools
// and carve out the per-core local region during single-threaded kernel boot.
// Builders mutate the MemoryLayout trees in lock-step (each physical pool
// insert is mirrored at the paired virtual address) and treat every
// precondition failure as fatal: an inconsistent layout cannot be recovered
// from once cores start scheduling.
package boot

import (
	"github.com/pkg/errors"
	"golang.org/x/exp/slog"

	"github.com/ferrokern/memlayout/layout"
)

const (
	PageSize uintptr = 0x1000

	CarveoutAlignment uintptr = 0x20000
	CarveoutSizeMax   uintptr = 512*1024*1024 - CarveoutAlignment

	CoreLocalRegionAlign       uintptr = PageSize
	CoreLocalRegionBoundsAlign uintptr = 0x40000000

	coreLocalGuardPages uintptr = 2
)

// CoreLocalRegionSize is the size of the core-local window: one page for the
// owning core's private data plus one mapped page per core.
func CoreLocalRegionSize(numCores int) uintptr {
	return PageSize * uintptr(1+numCores)
}

// Bootstrap drives the boot-time layout construction against a single
// MemoryLayout. It is not safe for concurrent use and is not intended to
// outlive the boot sequence.
type Bootstrap struct {
	logger   *slog.Logger
	layout   *layout.MemoryLayout
	random   layout.RandomSource
	overhead OverheadCalculator

	linearPhysStart    uintptr
	linearVirtualStart uintptr
	dramReady          bool
}

// New creates a Bootstrap operating on the provided layout.
func New(logger *slog.Logger, l *layout.MemoryLayout, random layout.RandomSource, overhead OverheadCalculator) (*Bootstrap, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if l == nil {
		return nil, errors.New("layout cannot be nil")
	}
	if random == nil {
		return nil, errors.New("random cannot be nil")
	}
	if overhead == nil {
		return nil, errors.New("overhead cannot be nil")
	}

	return &Bootstrap{
		logger:   logger,
		layout:   l,
		random:   random,
		overhead: overhead,
	}, nil
}

// InitializeLinearMemoryBlockTrees derives the linear trees from the DRAM
// anchor captured by SetupDramMemoryBlocks and finalizes the layout. Call it
// once, after all partition and carve-out inserts are committed.
func (b *Bootstrap) InitializeLinearMemoryBlockTrees() {
	if !b.dramReady {
		panic("SetupDramMemoryBlocks must run before the linear trees can be derived")
	}

	b.layout.InitializeLinearMemoryBlockTrees(b.linearPhysStart, b.linearVirtualStart)

	b.logger.Debug("derived linear memory block trees",
		slog.Int("physicalLinearBlocks", b.layout.PhysicalLinearTree().BlockCount()),
		slog.Int("virtualLinearBlocks", b.layout.VirtualLinearTree().BlockCount()),
		slog.Int("blocksInUse", b.layout.Arena().InUse()),
		slog.Int("blockCapacity", b.layout.Arena().Capacity()),
	)
}
