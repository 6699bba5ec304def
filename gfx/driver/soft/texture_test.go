package soft_test

import (
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/gfxcore/gfx/driver"
	"github.com/vkngwrapper/gfxcore/gfx/driver/soft"
)

func TestCopyableFootprintsAlignRowsAndPlacement(t *testing.T) {
	device := soft.NewDevice(soft.Options{})

	desc := driver.Texture2DDesc(8, 8, gputypes.TextureFormatRGBA8Unorm, 1, gputypes.TextureUsageCopyDst)
	desc.MipLevelCount = 2
	desc.Size.DepthOrArrayLayers = 3

	require.Equal(t, uint32(3), desc.ArraySize())
	require.Equal(t, uint32(6), desc.SubresourceCount())
	require.Equal(t, uint32(3), desc.SubresourceIndex(1, 1))
	require.Equal(t, gputypes.Extent3D{Width: 4, Height: 4, DepthOrArrayLayers: 1}, desc.MipSize(1))

	footprints, total := device.CopyableFootprints(desc, 0, 2, 0)
	require.Equal(t, []driver.PlacedSubresourceFootprint{
		{Offset: 0, Width: 8, Height: 8, Depth: 1, RowPitch: 256, RowSize: 32},
		{Offset: 2048, Width: 4, Height: 4, Depth: 1, RowPitch: 256, RowSize: 16},
	}, footprints)
	require.Equal(t, 2048+256*3+16, total)

	footprints, total = device.CopyableFootprints(desc, 5, 1, 100)
	require.Len(t, footprints, 1)
	require.Equal(t, 512, footprints[0].Offset)
	require.Equal(t, 512+256*3+16-100, total)

	footprints, _ = device.CopyableFootprints(desc, 5, 2, 0)
	require.Nil(t, footprints)
	footprints, _ = device.CopyableFootprints(driver.BufferDesc(64, gputypes.BufferUsageCopyDst), 0, 1, 0)
	require.Nil(t, footprints)
}

func TestTextureLayoutPacksSubresources(t *testing.T) {
	desc := driver.Texture2DDesc(8, 8, gputypes.TextureFormatRGBA8Unorm, 1, gputypes.TextureUsageCopyDst)
	desc.MipLevelCount = 2
	desc.Size.DepthOrArrayLayers = 2

	offset, size := soft.TextureLayout(desc, 0)
	require.Equal(t, 0, offset)
	require.Equal(t, 256, size)

	offset, size = soft.TextureLayout(desc, 1)
	require.Equal(t, 256, offset)
	require.Equal(t, 64, size)

	offset, _ = soft.TextureLayout(desc, 3)
	require.Equal(t, 256+64+256, offset)
}
