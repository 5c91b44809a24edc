package boot_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ferrokern/memlayout/boot"
	"github.com/ferrokern/memlayout/layout"
)

// virtualPoolTypeFor maps each physical pool type to its virtual mirror.
var virtualPoolTypeFor = map[layout.MemoryType]layout.MemoryType{
	layout.TypeDramApplicationPool:     layout.TypeVirtualDramApplicationPool,
	layout.TypeDramAppletPool:          layout.TypeVirtualDramAppletPool,
	layout.TypeDramSystemNonSecurePool: layout.TypeVirtualDramSystemNonSecurePool,
	layout.TypeDramMetadataPool:        layout.TypeVirtualDramMetadataPool,
	layout.TypeDramSystemPool:          layout.TypeVirtualDramSystemPool,
}

func poolBlocks(t *testing.T, tree *layout.MemoryBlockTree) []*layout.MemoryBlock {
	t.Helper()

	var pools []*layout.MemoryBlock
	err := tree.VisitAllBlocks(func(b *layout.MemoryBlock) error {
		if _, isPool := virtualPoolTypeFor[b.Type()]; isPool {
			pools = append(pools, b)
		}
		return nil
	})
	require.NoError(t, err)
	return pools
}

func TestSetupPoolPartitionMemoryBlocks(t *testing.T) {
	bootstrap, memoryLayout := newTestBootstrap(t,
		layout.AddressSpace{Start: 0, Size: 0x80000000},
		layout.AddressSpace{Start: 0x40000000, Size: 0x80000000},
		layout.NewUniformRandomSource(1),
	)

	bootstrap.SetupDramMemoryBlocks(boot.DramConfig{
		DramStart:          0,
		DramSize:           0x80000000,
		KernelStart:        0,
		PoolPartitionStart: 0,
		LinearVirtualStart: 0x40000000,
	})

	bootstrap.SetupPoolPartitionMemoryBlocks(boot.PoolConfig{
		ApplicationPoolSize:            0x20000000,
		AppletPoolSize:                 0x10000000,
		MinimumNonSecureSystemPoolSize: 0x2000000,
	})

	physicalTree := memoryLayout.PhysicalTree()
	require.NoError(t, memoryLayout.Validate())

	pools := poolBlocks(t, physicalTree)
	require.Len(t, pools, 5)

	// Low to high address: system, metadata, non-secure system, applet,
	// application.
	require.Equal(t, layout.TypeDramSystemPool, pools[0].Type())
	require.Equal(t, layout.TypeDramMetadataPool, pools[1].Type())
	require.Equal(t, layout.TypeDramSystemNonSecurePool, pools[2].Type())
	require.Equal(t, layout.TypeDramAppletPool, pools[3].Type())
	require.Equal(t, layout.TypeDramApplicationPool, pools[4].Type())

	// The pools tile the whole of DRAM with no gaps.
	require.Equal(t, uintptr(0), pools[0].Address())
	for i := 1; i < len(pools); i++ {
		require.Equal(t, pools[i-1].EndAddress(), pools[i].Address())
	}
	require.Equal(t, uintptr(0x80000000), pools[4].EndAddress())

	// The application and applet pools are laid out backward from the end of
	// DRAM; the non-secure pool grew to absorb the carveout clamp.
	require.Equal(t, uintptr(0x60000000), pools[4].Address())
	require.Equal(t, uintptr(0x50000000), pools[3].Address())
	require.Equal(t, boot.CarveoutSizeMax, pools[2].Address())
	require.Greater(t, pools[2].Size(), uintptr(0x2000000))

	// Metadata pool size comes from the overhead calculator: the three pools
	// above it, plus the system-pool remainder below it.
	require.Equal(t, uintptr(0x7fb000), pools[1].Size())

	// Every pool is mirrored into the virtual tree at its pair address.
	virtualTree := memoryLayout.VirtualTree()
	for _, pool := range pools {
		require.Equal(t, uintptr(0x40000000)+pool.Address(), pool.PairAddress())

		mirror := virtualTree.FindContainingBlock(pool.PairAddress())
		require.NotNil(t, mirror)
		require.Equal(t, virtualPoolTypeFor[pool.Type()], mirror.Type())
		require.Equal(t, pool.Address(), mirror.Address()-0x40000000)
		require.Equal(t, pool.Size(), mirror.Size())
		require.Equal(t, pool.Attributes()&^layout.AttrLinearMapped, mirror.Attributes())
	}
}

func TestSetupPoolPartitionSplitsApplicationPoolAtDramMidpoint(t *testing.T) {
	bootstrap, memoryLayout := newTestBootstrap(t,
		layout.AddressSpace{Start: 0, Size: 0x80000000},
		layout.AddressSpace{Start: 0x40000000, Size: 0x80000000},
		layout.NewUniformRandomSource(1),
	)

	bootstrap.SetupDramMemoryBlocks(boot.DramConfig{
		DramStart:          0,
		DramSize:           0x80000000,
		KernelStart:        0,
		PoolPartitionStart: 0,
		LinearVirtualStart: 0x40000000,
	})

	// A 1.5GB application pool straddles the 1GB midpoint of this DRAM.
	bootstrap.SetupPoolPartitionMemoryBlocks(boot.PoolConfig{
		ApplicationPoolSize:            0x60000000,
		AppletPoolSize:                 0x8000000,
		MinimumNonSecureSystemPoolSize: 0x2000000,
	})

	require.NoError(t, memoryLayout.Validate())

	var applicationPools []*layout.MemoryBlock
	err := memoryLayout.PhysicalTree().VisitAllBlocks(func(b *layout.MemoryBlock) error {
		if b.Type() == layout.TypeDramApplicationPool {
			applicationPools = append(applicationPools, b)
		}
		return nil
	})
	require.NoError(t, err)

	require.Len(t, applicationPools, 2)
	require.Equal(t, uintptr(0x20000000), applicationPools[0].Address())
	require.Equal(t, uintptr(0x20000000), applicationPools[0].Size())
	require.Equal(t, uintptr(0x40000000), applicationPools[1].Address())
	require.Equal(t, uintptr(0x40000000), applicationPools[1].Size())

	// Each half carries its own attribute tag.
	require.NotEqual(t, applicationPools[0].Attributes(), applicationPools[1].Attributes())
}

func TestFullBootFlowFinalizesLayout(t *testing.T) {
	bootstrap, memoryLayout := newTestBootstrap(t,
		layout.AddressSpace{Start: 0, Size: 0x80000000},
		layout.AddressSpace{Start: 0x40000000, Size: 0x80000000},
		layout.NewUniformRandomSource(1),
	)

	bootstrap.SetupDramMemoryBlocks(boot.DramConfig{
		DramStart:          0,
		DramSize:           0x80000000,
		KernelStart:        0,
		PoolPartitionStart: 0,
		LinearVirtualStart: 0x40000000,
	})
	bootstrap.SetupPoolPartitionMemoryBlocks(boot.PoolConfig{
		ApplicationPoolSize:            0x20000000,
		AppletPoolSize:                 0x10000000,
		MinimumNonSecureSystemPoolSize: 0x2000000,
	})
	bootstrap.InitializeLinearMemoryBlockTrees()

	require.True(t, memoryLayout.Finalized())
	require.NoError(t, memoryLayout.Validate())

	// All five physical pools are linear-mapped, as are their mirrors.
	require.Equal(t, 5, memoryLayout.PhysicalLinearTree().BlockCount())
	require.Equal(t, 5, memoryLayout.VirtualLinearTree().BlockCount())

	require.Equal(t, uintptr(0x40000000), memoryLayout.PhysToVirtDiff())
	require.Equal(t, uintptr(0x40123456), memoryLayout.GetLinearVirtualAddress(0x123456))
	require.Equal(t, uintptr(0x123456), memoryLayout.GetLinearPhysicalAddress(0x40123456))
}
