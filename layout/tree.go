package layout

import (
	"fmt"

	"github.com/google/btree"
	"github.com/pkg/errors"

	"github.com/ferrokern/memlayout/memutils"
)

const treeDegree = 8

// RegionExtents describes the span of all blocks deriving from a given memory
// type: the first and last such block in address order, and how many there are.
type RegionExtents struct {
	FirstBlock *MemoryBlock
	LastBlock  *MemoryBlock
	BlockCount int
}

// MemoryBlockTree is an ordered collection of non-overlapping MemoryBlocks
// spanning an address space. Every address in the governed space belongs to
// exactly one block; free space is tiled with explicit TypeNone blocks, so
// the tree never has gaps.
//
// The tree performs no locking: it is only ever mutated during single-threaded
// kernel boot, and it is frozen once the owning MemoryLayout is finalized.
type MemoryBlockTree struct {
	arena  *BlockArena
	blocks *btree.BTreeG[*MemoryBlock]

	start uintptr
	size  uintptr

	// derived trees hold a sparse subset of another tree's blocks and are
	// exempt from the full-coverage invariant
	derived bool
	frozen  bool
}

func blockLess(a, b *MemoryBlock) bool {
	return a.address < b.address
}

// NewMemoryBlockTree creates a tree governing [start, start+size), seeded with
// a single free block covering the whole space.
func NewMemoryBlockTree(arena *BlockArena, start, size uintptr) *MemoryBlockTree {
	if size == 0 {
		panic("memory block tree cannot govern an empty address space")
	}

	t := &MemoryBlockTree{
		arena:  arena,
		blocks: btree.NewG(treeDegree, blockLess),
		start:  start,
		size:   size,
	}
	t.blocks.ReplaceOrInsert(arena.Create(start, size, PairAddressNone, 0, TypeNone))
	return t
}

func newDerivedMemoryBlockTree(arena *BlockArena, start, size uintptr) *MemoryBlockTree {
	return &MemoryBlockTree{
		arena:   arena,
		blocks:  btree.NewG(treeDegree, blockLess),
		start:   start,
		size:    size,
		derived: true,
	}
}

// Start returns the first address of the governed space.
func (t *MemoryBlockTree) Start() uintptr { return t.start }

// Size returns the size in bytes of the governed space.
func (t *MemoryBlockTree) Size() uintptr { return t.size }

// BlockCount returns the number of blocks currently in the tree.
func (t *MemoryBlockTree) BlockCount() int { return t.blocks.Len() }

// FindContainingBlock locates the block whose interval contains address, or
// nil if the address lies outside the governed space.
func (t *MemoryBlockTree) FindContainingBlock(address uintptr) *MemoryBlock {
	var found *MemoryBlock
	t.blocks.DescendLessOrEqual(&MemoryBlock{address: address}, func(b *MemoryBlock) bool {
		found = b
		return false
	})

	if found == nil || !found.Contains(address) {
		return nil
	}
	return found
}

// FindFirstBlockByTypeAttr returns the lowest-addressed block with exactly the
// given type and attributes, or nil.
func (t *MemoryBlockTree) FindFirstBlockByTypeAttr(typeID MemoryType, attributes Attributes) *MemoryBlock {
	var found *MemoryBlock
	t.blocks.Ascend(func(b *MemoryBlock) bool {
		if b.typeID == typeID && b.attributes == attributes {
			found = b
			return false
		}
		return true
	})
	return found
}

// FindFirstDerivedBlock returns the lowest-addressed block whose type derives
// from typeID, or nil.
func (t *MemoryBlockTree) FindFirstDerivedBlock(typeID MemoryType) *MemoryBlock {
	var found *MemoryBlock
	t.blocks.Ascend(func(b *MemoryBlock) bool {
		if b.IsDerivedFrom(typeID) {
			found = b
			return false
		}
		return true
	})
	return found
}

// GetDerivedRegionExtents computes the extents of all blocks deriving from
// typeID. The second return value is false when no such block exists.
func (t *MemoryBlockTree) GetDerivedRegionExtents(typeID MemoryType) (RegionExtents, bool) {
	var extents RegionExtents
	t.blocks.Ascend(func(b *MemoryBlock) bool {
		if !b.IsDerivedFrom(typeID) {
			return true
		}

		if extents.FirstBlock == nil {
			extents.FirstBlock = b
		}
		extents.LastBlock = b
		extents.BlockCount++
		return true
	})

	return extents, extents.BlockCount > 0
}

// VisitAllBlocks calls the provided callback once for each block in address
// order, stopping at the first error.
func (t *MemoryBlockTree) VisitAllBlocks(handleBlock func(b *MemoryBlock) error) error {
	var visitErr error
	t.blocks.Ascend(func(b *MemoryBlock) bool {
		visitErr = handleBlock(b)
		return visitErr == nil
	})
	return visitErr
}

// Insert converts part or all of an existing block into a new block with the
// given type and attributes, splitting the surrounding block into up to three
// pieces. It returns false, mutating nothing, unless all of the following
// hold: a single existing block contains [address, address+size), that block's
// attributes equal oldAttr exactly, and the block's current type can derive
// typeID.
//
// Pair addresses propagate linearly: each piece's pair address is the original
// pair address shifted by the piece's offset from the original block start.
// A sentinel pair propagates as sentinel.
func (t *MemoryBlockTree) Insert(address, size uintptr, typeID MemoryType, newAttr, oldAttr Attributes) bool {
	if t.derived {
		panic("cannot insert into a derived memory block tree")
	}
	if t.frozen {
		panic("cannot insert into a frozen memory block tree")
	}
	if size == 0 {
		return false
	}

	it := t.FindContainingBlock(address)
	if it == nil {
		return false
	}

	// The old attributes act as a range-wide compare-and-swap guard.
	if it.attributes != oldAttr {
		return false
	}

	// The inserted region must fit entirely inside the containing block.
	insertedEnd := address + size
	insertedLast := insertedEnd - 1
	if it.LastAddress() < insertedLast {
		return false
	}

	if !it.CanDerive(typeID) {
		return false
	}

	curBlock := it
	oldAddress := it.address
	oldSize := it.size
	oldEnd := oldAddress + oldSize
	oldLast := oldEnd - 1
	oldPair := it.pairAddress
	oldType := it.typeID

	t.blocks.Delete(it)

	// Remainder before the inserted region keeps the old classification and
	// reuses the erased block's storage.
	if oldAddress != address {
		curBlock.reconstruct(oldAddress, address-oldAddress, oldPair, oldAttr, oldType)
		t.blocks.ReplaceOrInsert(curBlock)
		curBlock = t.arena.Allocate()
	}

	newPair := oldPair
	if oldPair != PairAddressNone {
		newPair = oldPair + (address - oldAddress)
	}
	curBlock.reconstruct(address, size, newPair, newAttr, typeID)
	t.blocks.ReplaceOrInsert(curBlock)

	// Remainder after the inserted region.
	if oldLast != insertedLast {
		afterPair := oldPair
		if oldPair != PairAddressNone {
			afterPair = oldPair + (insertedEnd - oldAddress)
		}
		t.blocks.ReplaceOrInsert(t.arena.Create(insertedEnd, oldEnd-insertedEnd, afterPair, oldAttr, oldType))
	}

	memutils.DebugValidate(t)
	return true
}

// GetRandomAlignedRegion finds an address such that [candidate,
// candidate+size) lies entirely inside a single block of exactly typeID and
// candidate is aligned to alignment. Candidates are drawn uniformly from the
// extents of typeID and rejected until one fits, so termination relies on the
// caller supplying a region with enough contiguous space relative to size.
// It panics when no block derives from typeID or the extents are misaligned,
// both of which indicate layout-planning bugs.
func (t *MemoryBlockTree) GetRandomAlignedRegion(random RandomSource, size, alignment uintptr, typeID MemoryType) uintptr {
	memutils.DebugCheckPow2(alignment, "alignment")

	extents, ok := t.GetDerivedRegionExtents(typeID)
	if !ok {
		panic(fmt.Sprintf("no block derives from %s, cannot search for a region", typeID))
	}

	if !memutils.IsAligned(extents.FirstBlock.Address(), alignment) {
		panic(fmt.Sprintf("extents of %s start at %#x, which is not aligned to %#x", typeID, extents.FirstBlock.Address(), alignment))
	}

	firstAddress := extents.FirstBlock.Address()
	lastAddress := extents.LastBlock.LastAddress()

	for {
		candidate := memutils.AlignDown(random.GenerateRandomRange(firstAddress, lastAddress), alignment)

		// Reject candidates whose end would overflow the address width.
		if candidate+size <= candidate {
			continue
		}

		candidateLast := candidate + size - 1
		if candidateLast > lastAddress {
			continue
		}

		candidateBlock := t.FindContainingBlock(candidate)
		if candidateBlock == nil || candidateLast > candidateBlock.LastAddress() {
			continue
		}

		if candidateBlock.Type() != typeID {
			continue
		}

		return candidate
	}
}

// insert places an already-constructed block into the tree without any split
// logic. It is used to seed derived trees.
func (t *MemoryBlockTree) insert(b *MemoryBlock) {
	if t.frozen {
		panic("cannot insert into a frozen memory block tree")
	}
	t.blocks.ReplaceOrInsert(b)
}

func (t *MemoryBlockTree) freeze() {
	t.frozen = true
}

// Validate performs internal consistency checks: blocks must be sorted,
// non-overlapping, positively sized, and - for non-derived trees - must tile
// the governed space exactly.
func (t *MemoryBlockTree) Validate() error {
	expected := t.start
	// Compare last addresses throughout: a governed space ending exactly at
	// the top of the address width would wrap an end-address comparison.
	last := t.start + t.size - 1
	var checkErr error

	t.blocks.Ascend(func(b *MemoryBlock) bool {
		if b.size == 0 {
			checkErr = errors.Errorf("block at %#x has zero size", b.address)
			return false
		}

		if b.LastAddress() < b.address || b.address < t.start || b.LastAddress() > last {
			checkErr = errors.Errorf("block [%#x, %#x] lies outside the governed space [%#x, %#x]", b.address, b.LastAddress(), t.start, last)
			return false
		}

		if t.derived {
			if b.address < expected {
				checkErr = errors.Errorf("block at %#x overlaps the previous block ending at %#x", b.address, expected)
				return false
			}
		} else if b.address != expected {
			checkErr = errors.Errorf("expected a block starting at %#x, found one starting at %#x- the space is not fully tiled", expected, b.address)
			return false
		}

		expected = b.EndAddress()
		return true
	})

	if checkErr != nil {
		return checkErr
	}

	if !t.derived && expected != last+1 {
		return errors.Errorf("blocks tile the space up to %#x, but the governed space ends at %#x", expected, last+1)
	}

	return nil
}

// AddDetailedStatistics sums this tree's region statistics into stats.
// Free blocks count as free regions, everything else as reserved regions.
func (t *MemoryBlockTree) AddDetailedStatistics(stats *memutils.DetailedStatistics) {
	stats.TreeCount++
	stats.TreeBytes += t.size

	t.blocks.Ascend(func(b *MemoryBlock) bool {
		if b.typeID == TypeNone {
			stats.AddFreeRegion(b.size)
		} else {
			stats.AddRegion(b.size)
		}
		return true
	})
}
