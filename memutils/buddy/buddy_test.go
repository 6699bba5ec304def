package buddy_test

import (
	"io"
	"math/rand"
	"testing"

	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/gfxcore/memutils"
	"github.com/vkngwrapper/gfxcore/memutils/buddy"
	"golang.org/x/exp/slog"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestNewRejectsBadSizes(t *testing.T) {
	_, err := buddy.New("bad", 300, 4096)
	require.ErrorIs(t, err, memutils.PowerOfTwoError)

	_, err = buddy.New("bad", 256, 0)
	require.ErrorIs(t, err, memutils.PowerOfTwoError)

	_, err = buddy.New("bad", 8192, 4096)
	require.ErrorIs(t, err, memutils.BlockSizeError)
}

func TestAllocateOrderAndExhaustion(t *testing.T) {
	allocator, err := buddy.New("scenario", 256, 4096)
	require.NoError(t, err)
	require.Equal(t, 4, allocator.MaxOrder())

	small, ok := allocator.Allocate(300, 0)
	require.True(t, ok)
	require.Equal(t, 1, small.Order())
	require.Equal(t, 0, small.Offset())
	require.Equal(t, 512, small.BlockSize())
	require.NoError(t, allocator.Validate())

	_, ok = allocator.Allocate(3584, 0)
	require.False(t, ok)

	allocator.Release(small)
	require.NoError(t, allocator.Validate())
	require.Equal(t, 1, allocator.FreeBlockCount())

	large, ok := allocator.Allocate(3584, 0)
	require.True(t, ok)
	require.Equal(t, 4, large.Order())
	require.Equal(t, 0, large.Offset())
	require.Equal(t, 4096, allocator.AllocatedSize())
}

func TestAllocateTooLarge(t *testing.T) {
	allocator, err := buddy.New("too large", 256, 4096)
	require.NoError(t, err)

	_, ok := allocator.Allocate(4097, 0)
	require.False(t, ok)

	_, ok = allocator.Allocate(0, 0)
	require.False(t, ok)
	require.True(t, allocator.IsEmpty())
}

func TestAllocateSplitsLowerHalf(t *testing.T) {
	allocator, err := buddy.New("split", 256, 4096)
	require.NoError(t, err)

	first, ok := allocator.Allocate(256, 0)
	require.True(t, ok)
	require.Equal(t, 0, first.Offset())

	// Splitting order 4 down to order 0 leaves one free block at each of orders 0 through 3
	require.Equal(t, 4, allocator.FreeBlockCount())

	second, ok := allocator.Allocate(256, 0)
	require.True(t, ok)
	require.Equal(t, 256, second.Offset())

	third, ok := allocator.Allocate(1024, 0)
	require.True(t, ok)
	require.Equal(t, 1024, third.Offset())

	require.NoError(t, allocator.Validate())
}

func TestAllocateAlignment(t *testing.T) {
	allocator, err := buddy.New("aligned", 256, 4096)
	require.NoError(t, err)

	_, ok := allocator.Allocate(256, 0)
	require.True(t, ok)

	// 256 % 512 != 0, so the request grows by the alignment before being rounded to an order
	aligned, ok := allocator.Allocate(256, 512)
	require.True(t, ok)
	require.Equal(t, 2, aligned.Order())
	require.Equal(t, 0, aligned.Offset()%512)
	require.LessOrEqual(t, aligned.Offset()+256, aligned.BlockOffset()+aligned.BlockSize())

	// Alignments that divide the minimum block size need no padding
	small, ok := allocator.Allocate(64, 64)
	require.True(t, ok)
	require.Equal(t, 0, small.Order())
}

func TestReleaseMergesToSingleBlock(t *testing.T) {
	allocator, err := buddy.New("merge", 256, 4096)
	require.NoError(t, err)

	var allocations []buddy.Allocation
	for {
		alloc, ok := allocator.Allocate(256, 0)
		if !ok {
			break
		}
		allocations = append(allocations, alloc)
	}

	require.Len(t, allocations, 16)
	require.Equal(t, 0, allocator.SumFreeSize())
	require.Equal(t, 0, allocator.FreeBlockCount())

	// Release in an interleaved order so merges happen late
	for i := 0; i < len(allocations); i += 2 {
		allocator.Release(allocations[i])
	}
	require.Equal(t, 8, allocator.FreeBlockCount())
	require.NoError(t, allocator.Validate())

	for i := 1; i < len(allocations); i += 2 {
		allocator.Release(allocations[i])
	}

	require.NoError(t, allocator.Validate())
	require.Equal(t, 1, allocator.FreeBlockCount())
	require.Equal(t, 4096, allocator.SumFreeSize())

	whole, ok := allocator.Allocate(4096, 0)
	require.True(t, ok)
	require.Equal(t, 4, whole.Order())
}

func TestRandomConservation(t *testing.T) {
	allocator, err := buddy.New("random", 64, 1<<16)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(42))
	var live []buddy.Allocation

	for i := 0; i < 2000; i++ {
		if len(live) > 0 && rng.Intn(3) == 0 {
			index := rng.Intn(len(live))
			allocator.Release(live[index])
			live[index] = live[len(live)-1]
			live = live[:len(live)-1]
		} else {
			alloc, ok := allocator.Allocate(1+rng.Intn(4096), 0)
			if ok {
				live = append(live, alloc)
			}
		}

		require.NoError(t, allocator.Validate())
		require.Equal(t, len(live), allocator.AllocationCount())
	}

	// Live blocks never overlap
	for i := range live {
		for j := i + 1; j < len(live); j++ {
			left, right := live[i], live[j]
			overlap := left.BlockOffset() < right.BlockOffset()+right.BlockSize() &&
				right.BlockOffset() < left.BlockOffset()+left.BlockSize()
			require.False(t, overlap)
		}
	}

	for _, alloc := range live {
		allocator.Release(alloc)
	}
	require.Equal(t, 1, allocator.FreeBlockCount())
	require.Equal(t, 1<<16, allocator.SumFreeSize())
}

func TestReleasePanics(t *testing.T) {
	allocator, err := buddy.New("owner", 256, 4096)
	require.NoError(t, err)
	other, err := buddy.New("other", 256, 4096)
	require.NoError(t, err)

	alloc, ok := allocator.Allocate(256, 0)
	require.True(t, ok)

	require.Panics(t, func() { other.Release(alloc) })

	allocator.Release(alloc)
	require.Panics(t, func() { allocator.Release(alloc) })
}

func TestResetAndStatistics(t *testing.T) {
	allocator, err := buddy.New("stats", 256, 4096)
	require.NoError(t, err)

	_, ok := allocator.Allocate(1000, 0)
	require.True(t, ok)
	_, ok = allocator.Allocate(256, 0)
	require.True(t, ok)

	var stats memutils.MemoryStatistics
	allocator.AddStatistics(&stats)
	require.Equal(t, memutils.MemoryStatistics{
		PageCount:       1,
		PageBytes:       4096,
		AllocationCount: 2,
		AllocationBytes: 1280,
	}, stats)
	require.Equal(t, 2816, stats.UnusedBytes())

	// 1000 bytes take an order 2 block and 256 bytes an order 0 block
	var detailed memutils.BuddyStatistics
	allocator.AddBuddyStatistics(&detailed)
	require.Equal(t, stats, detailed.MemoryStatistics)
	require.Equal(t, []int{1, 0, 1}, detailed.LiveBlocksPerOrder)
	require.Equal(t, []int{1, 1, 0, 1}, detailed.FreeBlocksPerOrder)
	require.Equal(t, 2048, detailed.LargestFreeBlock)

	detailed.Clear()
	require.Empty(t, detailed.LiveBlocksPerOrder)
	require.Zero(t, detailed.PageCount)

	writer := jwriter.NewWriter()
	obj := writer.Object()
	allocator.BlockJsonData(&obj)
	obj.End()
	require.NoError(t, writer.Error())
	require.Contains(t, string(writer.Bytes()), `"Allocations":2`)

	allocator.Reset()
	require.True(t, allocator.IsEmpty())
	require.Equal(t, 1, allocator.FreeBlockCount())
	require.NoError(t, allocator.Validate())
}
