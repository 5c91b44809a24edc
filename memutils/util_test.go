package memutils_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ferrokern/memlayout/memutils"
)

func TestCheckPow2(t *testing.T) {
	require.NoError(t, memutils.CheckPow2(uintptr(1), "alignment"))
	require.NoError(t, memutils.CheckPow2(uintptr(0x1000), "alignment"))

	err := memutils.CheckPow2(uintptr(0x1001), "alignment")
	require.Error(t, err)
	require.ErrorIs(t, err, memutils.PowerOfTwoError)
	require.Contains(t, err.Error(), "alignment")

	require.ErrorIs(t, memutils.CheckPow2(uintptr(0), "alignment"), memutils.PowerOfTwoError)
}

func TestAlignUp(t *testing.T) {
	require.Equal(t, uintptr(0), memutils.AlignUp(uintptr(0), uintptr(0x1000)))
	require.Equal(t, uintptr(0x1000), memutils.AlignUp(uintptr(1), uintptr(0x1000)))
	require.Equal(t, uintptr(0x1000), memutils.AlignUp(uintptr(0x1000), uintptr(0x1000)))
	require.Equal(t, uintptr(0x2000), memutils.AlignUp(uintptr(0x1001), uintptr(0x1000)))
}

func TestAlignDown(t *testing.T) {
	require.Equal(t, uintptr(0), memutils.AlignDown(uintptr(0xfff), uintptr(0x1000)))
	require.Equal(t, uintptr(0x1000), memutils.AlignDown(uintptr(0x1000), uintptr(0x1000)))
	require.Equal(t, uintptr(0x1000), memutils.AlignDown(uintptr(0x1fff), uintptr(0x1000)))
}

func TestIsAligned(t *testing.T) {
	require.True(t, memutils.IsAligned(uintptr(0), uintptr(0x1000)))
	require.True(t, memutils.IsAligned(uintptr(0x3000), uintptr(0x1000)))
	require.False(t, memutils.IsAligned(uintptr(0x3001), uintptr(0x1000)))
}
