package gfx_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/gfxcore/gfx"
	"github.com/vkngwrapper/gfxcore/gfx/driver"
	"github.com/vkngwrapper/gfxcore/gfx/driver/soft"
	"github.com/vkngwrapper/gfxcore/memutils"
)

func TestBufferSubAllocatorsNeedCPUAccessibleHeaps(t *testing.T) {
	device := soft.NewDevice(soft.Options{})
	fences := newTestFences()
	gpuOnly := gfx.NewCommittedResourceAllocator(device, driver.HeapTypeDefault)

	_, err := gfx.NewBufferLinearSubAllocator(testLogger(), "Linear", fences, gpuOnly, 4096)
	require.Error(t, err)

	_, err = gfx.NewBufferMultiBuddySubAllocator(testLogger(), "Buddy", fences, gpuOnly, 256, 4096)
	require.Error(t, err)
}

func TestBufferLinearSubAllocatorRecyclesPages(t *testing.T) {
	device := soft.NewDevice(soft.Options{})
	fences := newTestFences()

	allocator, err := gfx.NewBufferLinearSubAllocator(testLogger(), "Linear", fences, gfx.NewCommittedResourceAllocator(device, driver.HeapTypeUpload), 4096)
	require.NoError(t, err)
	defer allocator.Destroy()

	first, err := allocator.Allocate(1000, 256)
	require.NoError(t, err)
	second, err := allocator.Allocate(1000, 256)
	require.NoError(t, err)

	require.Same(t, first.Resource(), second.Resource())
	require.Equal(t, 0, first.Offset())
	require.Equal(t, 1024, second.Offset())
	require.Equal(t, 1, allocator.PageCount())

	copy(second.Bytes(), []byte("upload"))
	require.Equal(t, []byte("upload"), soft.Contents(second.Resource().Driver())[1024:1030])

	third, err := allocator.Allocate(4000, 1)
	require.NoError(t, err)
	require.NotSame(t, first.Resource(), third.Resource())
	require.Equal(t, 2, allocator.PageCount())

	allocator.CleanUpAllocations()
	fences.endFrame()

	// The previous frame's pages are still in flight
	_, err = allocator.Allocate(16, 1)
	require.NoError(t, err)
	require.Equal(t, 3, allocator.PageCount())

	allocator.CleanUpAllocations()
	fences.endFrame()
	fences.completeAll()

	recycled, err := allocator.Allocate(16, 1)
	require.NoError(t, err)
	require.Same(t, first.Resource(), recycled.Resource())
	require.Equal(t, 3, allocator.PageCount())

	large, err := allocator.Allocate(8192, 1)
	require.NoError(t, err)
	require.Equal(t, 0, large.Offset())
	require.Len(t, large.Bytes(), 8192)
	require.Equal(t, 1, allocator.LargePageCount())

	allocator.CleanUpAllocations()
	require.Equal(t, 1, allocator.LargePageCount())
	fences.endFrame()
	fences.completeAll()

	allocator.CleanUpAllocations()
	require.Equal(t, 0, allocator.LargePageCount())
	require.True(t, large.Resource().IsReleased())

	_, err = allocator.Allocate(0, 1)
	require.ErrorIs(t, err, memutils.ZeroSizeError)
}

func TestBufferMultiBuddySubAllocatorDefersReleases(t *testing.T) {
	device := soft.NewDevice(soft.Options{})
	fences := newTestFences()

	allocator, err := gfx.NewBufferMultiBuddySubAllocator(testLogger(), "Constants", fences, gfx.NewCommittedResourceAllocator(device, driver.HeapTypeUpload), 256, 4096)
	require.NoError(t, err)
	defer allocator.Destroy()

	_, err = allocator.Allocate(0, 256)
	require.ErrorIs(t, err, memutils.ZeroSizeError)

	first, err := allocator.Allocate(200, 256)
	require.NoError(t, err)
	require.Equal(t, 0, first.Offset())
	require.Len(t, first.Bytes(), 200)
	require.Equal(t, 1, allocator.PageCount())

	copy(first.Bytes(), []byte{9, 8, 7})
	require.Equal(t, []byte{9, 8, 7}, soft.Contents(first.Resource().Driver())[:3])

	// Requests larger than a page get a page of their own
	large, err := allocator.Allocate(8192, 256)
	require.NoError(t, err)
	require.Equal(t, 2, allocator.PageCount())
	require.NotSame(t, first.Resource(), large.Resource())

	allocator.DeferredRelease(first)
	allocator.DeferredRelease(large)
	require.Equal(t, 2, allocator.PendingReleases())

	allocator.CleanUpAllocations()
	require.Equal(t, 2, allocator.AllocationCount())

	fences.endFrame()
	fences.completeAll()
	allocator.CleanUpAllocations()
	require.Equal(t, 0, allocator.AllocationCount())
	require.Equal(t, 0, allocator.PendingReleases())
	require.NoError(t, allocator.Validate())

	require.Panics(t, func() { allocator.DeferredRelease(gfx.BufferAllocation{}) })

	var stats memutils.MemoryStatistics
	allocator.AddStatistics(&stats)
	require.Equal(t, 2, stats.PageCount)
	require.Equal(t, 0, stats.AllocationCount)
	require.Equal(t, stats.PageBytes, stats.UnusedBytes())
}
