package layout

import "math"

// BlockHandle is a stable identifier for a MemoryBlock slot in a BlockArena.
// Handles survive tree erase/reinsert cycles, unlike block addresses.
type BlockHandle uint64

const (
	// NoBlockHandle is the BlockHandle value that maps to no block. Recycled
	// blocks carry it until their slot is reallocated.
	NoBlockHandle BlockHandle = math.MaxUint64

	// PairAddressNone is the sentinel pair address carried by blocks that have
	// no counterpart in the complementary address space.
	PairAddressNone uintptr = ^uintptr(0)
)

// MemoryBlock is a single non-overlapping interval [Address, Address+Size) of
// an address space, tagged with a memory type, an attribute mask, and the
// address of its counterpart in the complementary (physical<->virtual) space.
type MemoryBlock struct {
	address     uintptr
	size        uintptr
	pairAddress uintptr
	attributes  Attributes
	typeID      MemoryType
	handle      BlockHandle
	slot        uint32
}

func (b *MemoryBlock) Address() uintptr { return b.address }
func (b *MemoryBlock) Size() uintptr    { return b.size }

// LastAddress is the final byte of the block, Address+Size-1.
func (b *MemoryBlock) LastAddress() uintptr { return b.address + b.size - 1 }

// EndAddress is the first byte past the block, Address+Size.
func (b *MemoryBlock) EndAddress() uintptr { return b.address + b.size }

func (b *MemoryBlock) PairAddress() uintptr   { return b.pairAddress }
func (b *MemoryBlock) Attributes() Attributes { return b.attributes }
func (b *MemoryBlock) Type() MemoryType       { return b.typeID }
func (b *MemoryBlock) Handle() BlockHandle    { return b.handle }

// Contains returns whether addr falls inside the block interval.
func (b *MemoryBlock) Contains(addr uintptr) bool {
	return b.address <= addr && addr <= b.LastAddress()
}

func (b *MemoryBlock) HasAttribute(attr Attributes) bool {
	return b.attributes.HasAttribute(attr)
}

func (b *MemoryBlock) IsDerivedFrom(base MemoryType) bool {
	return b.typeID.IsDerivedFrom(base)
}

func (b *MemoryBlock) CanDerive(newType MemoryType) bool {
	return b.typeID.CanDerive(newType)
}

// SetPairAddress records the counterpart address of this block in the
// complementary address space. Boot stamps linear pair addresses onto the
// physical DRAM blocks before any mirrored pool insert relies on them.
func (b *MemoryBlock) SetPairAddress(pairAddress uintptr) {
	b.pairAddress = pairAddress
}

// reconstruct reinitializes the block in place, reusing its arena slot and
// handle. This is how Insert recycles the storage of an erased block for the
// first piece it puts back into the tree.
func (b *MemoryBlock) reconstruct(address, size, pairAddress uintptr, attributes Attributes, typeID MemoryType) {
	b.address = address
	b.size = size
	b.pairAddress = pairAddress
	b.attributes = attributes
	b.typeID = typeID
}
