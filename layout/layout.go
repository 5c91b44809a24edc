package layout

import "fmt"

// AddressSpace declares the interval [Start, Start+Size) governed by a tree.
type AddressSpace struct {
	Start uintptr
	Size  uintptr
}

// MemoryLayout owns the four block trees describing a machine's address
// space: the physical tree, the virtual tree, and the two derived trees
// holding only the linearly-mapped subset of each. It also holds the two
// offset constants that make linear phys<->virt translation O(1).
//
// A MemoryLayout is built once, single-threaded, during kernel boot:
// the boot builders partition the trees, then InitializeLinearMemoryBlockTrees
// derives the linear trees and freezes everything. After finalization only
// lookups and translation are legal.
type MemoryLayout struct {
	arena *BlockArena

	physical       *MemoryBlockTree
	virtual        *MemoryBlockTree
	physicalLinear *MemoryBlockTree
	virtualLinear  *MemoryBlockTree

	physToVirtDiff uintptr
	virtToPhysDiff uintptr
	finalized      bool
}

// NewMemoryLayout creates a layout governing the given physical and virtual
// address spaces, each seeded as a single free block.
func NewMemoryLayout(arena *BlockArena, physicalSpace, virtualSpace AddressSpace) *MemoryLayout {
	return &MemoryLayout{
		arena:          arena,
		physical:       NewMemoryBlockTree(arena, physicalSpace.Start, physicalSpace.Size),
		virtual:        NewMemoryBlockTree(arena, virtualSpace.Start, virtualSpace.Size),
		physicalLinear: newDerivedMemoryBlockTree(arena, physicalSpace.Start, physicalSpace.Size),
		virtualLinear:  newDerivedMemoryBlockTree(arena, virtualSpace.Start, virtualSpace.Size),
	}
}

func (l *MemoryLayout) Arena() *BlockArena                   { return l.arena }
func (l *MemoryLayout) PhysicalTree() *MemoryBlockTree       { return l.physical }
func (l *MemoryLayout) VirtualTree() *MemoryBlockTree        { return l.virtual }
func (l *MemoryLayout) PhysicalLinearTree() *MemoryBlockTree { return l.physicalLinear }
func (l *MemoryLayout) VirtualLinearTree() *MemoryBlockTree  { return l.virtualLinear }

// Finalized reports whether InitializeLinearMemoryBlockTrees has run.
func (l *MemoryLayout) Finalized() bool { return l.finalized }

// InitializeLinearMemoryBlockTrees sets the linear translation offsets from
// the first committed linear-mapping pair and populates the two derived trees:
// every linear-mapped physical block and every DRAM-derived virtual block is
// copied across. It must be called exactly once, after all partition and
// carve-out inserts are committed; it freezes all four trees.
func (l *MemoryLayout) InitializeLinearMemoryBlockTrees(alignedLinearPhysStart, linearVirtualStart uintptr) {
	if l.finalized {
		panic("the linear memory block trees have already been initialized")
	}

	l.physToVirtDiff = linearVirtualStart - alignedLinearPhysStart
	l.virtToPhysDiff = alignedLinearPhysStart - linearVirtualStart

	_ = l.physical.VisitAllBlocks(func(b *MemoryBlock) error {
		if !b.HasAttribute(AttrLinearMapped) {
			return nil
		}
		l.physicalLinear.insert(l.arena.Create(b.Address(), b.Size(), b.PairAddress(), b.Attributes(), b.Type()))
		return nil
	})

	_ = l.virtual.VisitAllBlocks(func(b *MemoryBlock) error {
		if !b.IsDerivedFrom(TypeDram) {
			return nil
		}
		l.virtualLinear.insert(l.arena.Create(b.Address(), b.Size(), b.PairAddress(), b.Attributes(), b.Type()))
		return nil
	})

	l.physical.freeze()
	l.virtual.freeze()
	l.physicalLinear.freeze()
	l.virtualLinear.freeze()
	l.finalized = true
}

// PhysToVirtDiff is the constant added to a linear physical address to obtain
// its virtual counterpart. Valid only after finalization.
func (l *MemoryLayout) PhysToVirtDiff() uintptr {
	l.requireFinalized("PhysToVirtDiff")
	return l.physToVirtDiff
}

// VirtToPhysDiff is the constant added to a linear virtual address to obtain
// its physical counterpart. Valid only after finalization.
func (l *MemoryLayout) VirtToPhysDiff() uintptr {
	l.requireFinalized("VirtToPhysDiff")
	return l.virtToPhysDiff
}

// GetLinearVirtualAddress translates a physical address inside the linear
// mapping window to its virtual counterpart.
func (l *MemoryLayout) GetLinearVirtualAddress(physAddress uintptr) uintptr {
	l.requireFinalized("GetLinearVirtualAddress")
	return physAddress + l.physToVirtDiff
}

// GetLinearPhysicalAddress translates a virtual address inside the linear
// mapping window to its physical counterpart.
func (l *MemoryLayout) GetLinearPhysicalAddress(virtAddress uintptr) uintptr {
	l.requireFinalized("GetLinearPhysicalAddress")
	return virtAddress + l.virtToPhysDiff
}

func (l *MemoryLayout) requireFinalized(method string) {
	if !l.finalized {
		panic(fmt.Sprintf("%s requires the layout to be finalized first", method))
	}
}

// Validate checks the consistency of all four trees.
func (l *MemoryLayout) Validate() error {
	if err := l.physical.Validate(); err != nil {
		return err
	}
	if err := l.virtual.Validate(); err != nil {
		return err
	}
	if err := l.physicalLinear.Validate(); err != nil {
		return err
	}
	return l.virtualLinear.Validate()
}
