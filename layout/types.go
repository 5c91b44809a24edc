package layout

// MemoryType tags a MemoryBlock with the class of memory it tracks. Types form
// a derivation lattice: a block may only be reclassified to a type that derives
// from its current type, so a generic DRAM block can become a kernel carveout
// or a pool partition, but a committed pool can never be widened back out.
type MemoryType uint32

const (
	// TypeNone marks address space that has not been claimed by anything.
	// Free space is represented by explicit TypeNone blocks rather than gaps,
	// so every tree tiles its governed space completely.
	TypeNone MemoryType = iota
	TypeDram
	TypeDramKernel
	TypeDramPoolPartition
	TypeDramApplicationPool
	TypeDramAppletPool
	TypeDramSystemNonSecurePool
	TypeDramMetadataPool
	TypeDramSystemPool
	TypeVirtualDramApplicationPool
	TypeVirtualDramAppletPool
	TypeVirtualDramSystemNonSecurePool
	TypeVirtualDramMetadataPool
	TypeVirtualDramSystemPool
	TypeCoreLocal
)

var memoryTypeMapping = map[MemoryType]string{
	TypeNone:                           "None",
	TypeDram:                           "Dram",
	TypeDramKernel:                     "DramKernel",
	TypeDramPoolPartition:              "DramPoolPartition",
	TypeDramApplicationPool:            "DramApplicationPool",
	TypeDramAppletPool:                 "DramAppletPool",
	TypeDramSystemNonSecurePool:        "DramSystemNonSecurePool",
	TypeDramMetadataPool:               "DramMetadataPool",
	TypeDramSystemPool:                 "DramSystemPool",
	TypeVirtualDramApplicationPool:     "VirtualDramApplicationPool",
	TypeVirtualDramAppletPool:          "VirtualDramAppletPool",
	TypeVirtualDramSystemNonSecurePool: "VirtualDramSystemNonSecurePool",
	TypeVirtualDramMetadataPool:        "VirtualDramMetadataPool",
	TypeVirtualDramSystemPool:          "VirtualDramSystemPool",
	TypeCoreLocal:                      "CoreLocal",
}

func (t MemoryType) String() string {
	return memoryTypeMapping[t]
}

// memoryTypeParents declares the derivation lattice. A type absent from the
// map is a root. The virtual pool types descend directly from TypeDram so
// that the linear virtual tree derivation picks them up.
var memoryTypeParents = map[MemoryType]MemoryType{
	TypeDramKernel:                     TypeDram,
	TypeDramPoolPartition:              TypeDramKernel,
	TypeDramApplicationPool:            TypeDramPoolPartition,
	TypeDramAppletPool:                 TypeDramPoolPartition,
	TypeDramSystemNonSecurePool:        TypeDramPoolPartition,
	TypeDramMetadataPool:               TypeDramPoolPartition,
	TypeDramSystemPool:                 TypeDramPoolPartition,
	TypeVirtualDramApplicationPool:     TypeDram,
	TypeVirtualDramAppletPool:          TypeDram,
	TypeVirtualDramSystemNonSecurePool: TypeDram,
	TypeVirtualDramMetadataPool:        TypeDram,
	TypeVirtualDramSystemPool:          TypeDram,
}

// IsDerivedFrom returns whether t is base or descends from base in the
// derivation lattice.
func (t MemoryType) IsDerivedFrom(base MemoryType) bool {
	for {
		if t == base {
			return true
		}

		parent, ok := memoryTypeParents[t]
		if !ok {
			return false
		}
		t = parent
	}
}

// CanDerive returns whether a block of type t may be reclassified as newType
// by MemoryBlockTree.Insert. Free blocks can take on any concrete type; a
// typed block can only narrow to one of its descendants.
func (t MemoryType) CanDerive(newType MemoryType) bool {
	if newType == t {
		return false
	}

	if t == TypeNone {
		return newType != TypeNone
	}

	return newType.IsDerivedFrom(t)
}

// Attributes is a bitmask attached to each MemoryBlock. The high bits hold
// flags; the low bits hold the pool partition tag assigned during boot, which
// is how mirrored physical/virtual pool blocks find each other.
type Attributes uint32

const (
	// AttrLinearMapped marks a physical block that is part of the linear
	// phys<->virt mapping window.
	AttrLinearMapped Attributes = 1 << 31
)

// HasAttribute returns whether every bit of attr is set in a.
func (a Attributes) HasAttribute(attr Attributes) bool {
	return a&attr == attr
}
