package layout

import (
	"fmt"

	"github.com/dolthub/swiss"
	"github.com/pkg/errors"
)

// BlockArena is a fixed-capacity arena of MemoryBlock slots. Every block in
// every tree of a MemoryLayout is drawn from one arena, sized at construction
// for the maximum number of splits the boot sequence can produce. Exhausting
// the arena is a layout-planning bug and panics.
//
// Erased blocks can be returned with Recycle and their slots are handed out
// again by later Allocate calls, so a split that erases and reinserts never
// grows the arena.
type BlockArena struct {
	slots []MemoryBlock
	free  []uint32
	next  int

	nextHandle BlockHandle
	handles    *swiss.Map[BlockHandle, *MemoryBlock]
}

// NewBlockArena creates an arena with room for capacity blocks.
func NewBlockArena(capacity int) *BlockArena {
	if capacity < 1 {
		panic(fmt.Sprintf("block arena capacity must be positive, got %d", capacity))
	}

	return &BlockArena{
		slots:   make([]MemoryBlock, capacity),
		handles: swiss.NewMap[BlockHandle, *MemoryBlock](uint32(capacity)),
	}
}

// Allocate returns a zeroed block slot with a fresh handle. It panics when the
// arena is exhausted.
func (a *BlockArena) Allocate() *MemoryBlock {
	var slot uint32

	if freeCount := len(a.free); freeCount > 0 {
		slot = a.free[freeCount-1]
		a.free = a.free[:freeCount-1]
	} else {
		if a.next >= len(a.slots) {
			panic(fmt.Sprintf("block arena exhausted: all %d slots are in use", len(a.slots)))
		}
		slot = uint32(a.next)
		a.next++
	}

	a.nextHandle++
	b := &a.slots[slot]
	*b = MemoryBlock{handle: a.nextHandle, slot: slot}
	a.handles.Put(b.handle, b)
	return b
}

// Create allocates a slot and constructs a block in it.
func (a *BlockArena) Create(address, size, pairAddress uintptr, attributes Attributes, typeID MemoryType) *MemoryBlock {
	b := a.Allocate()
	b.reconstruct(address, size, pairAddress, attributes, typeID)
	return b
}

// Recycle returns a block's slot to the arena. The block must have been
// erased from its tree first; its handle stops resolving and the block
// carries NoBlockHandle until the slot is handed out again.
func (a *BlockArena) Recycle(b *MemoryBlock) {
	if int(b.slot) >= len(a.slots) || &a.slots[b.slot] != b {
		panic("attempted to recycle a block that does not belong to this arena")
	}

	a.handles.Delete(b.handle)
	b.handle = NoBlockHandle
	a.free = append(a.free, b.slot)
}

// Get resolves a handle to its live block.
func (a *BlockArena) Get(handle BlockHandle) (*MemoryBlock, error) {
	b, ok := a.handles.Get(handle)
	if !ok {
		return nil, errors.Errorf("handle %d does not map to a live block in this arena", handle)
	}
	return b, nil
}

// InUse returns the number of live blocks.
func (a *BlockArena) InUse() int {
	return a.next - len(a.free)
}

// Capacity returns the total number of slots.
func (a *BlockArena) Capacity() int {
	return len(a.slots)
}
