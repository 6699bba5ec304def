package buddy_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/gfxcore/memutils"
	"github.com/vkngwrapper/gfxcore/memutils/buddy"
)

type appendedPage struct {
	index int
	size  int
}

func TestMultiAppendsPages(t *testing.T) {
	var appended []appendedPage
	multi, err := buddy.NewMulti(testLogger(), "multi", 256, 4096, func(pageIndex, sizeInBytes int) error {
		appended = append(appended, appendedPage{index: pageIndex, size: sizeInBytes})
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 0, multi.PageCount())

	first, ok, err := multi.Allocate(4096, 0)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 0, first.Page())

	second, ok, err := multi.Allocate(1024, 0)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 1, second.Page())

	third, ok, err := multi.Allocate(1024, 0)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 1, third.Page())

	require.Equal(t, []appendedPage{{index: 0, size: 4096}, {index: 1, size: 4096}}, appended)

	multi.Release(first)

	fourth, ok, err := multi.Allocate(2048, 0)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 0, fourth.Page())
	require.Equal(t, 2, multi.PageCount())
	require.NoError(t, multi.Validate())

	var stats memutils.MemoryStatistics
	multi.AddStatistics(&stats)
	require.Equal(t, 2, stats.PageCount)
	require.Equal(t, 8192, stats.PageBytes)
	require.Equal(t, 3, stats.AllocationCount)
	require.Equal(t, 3, multi.AllocationCount())
}

func TestMultiOversizedPage(t *testing.T) {
	var appended []appendedPage
	multi, err := buddy.NewMulti(testLogger(), "multi", 256, 4096, func(pageIndex, sizeInBytes int) error {
		appended = append(appended, appendedPage{index: pageIndex, size: sizeInBytes})
		return nil
	})
	require.NoError(t, err)

	alloc, ok, err := multi.Allocate(5000, 0)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 0, alloc.Page())
	require.Equal(t, []appendedPage{{index: 0, size: 8192}}, appended)
}

func TestMultiAppendFailure(t *testing.T) {
	appendErr := errors.New("out of device memory")
	multi, err := buddy.NewMulti(testLogger(), "multi", 256, 4096, func(pageIndex, sizeInBytes int) error {
		return appendErr
	})
	require.NoError(t, err)

	_, ok, err := multi.Allocate(256, 0)
	require.ErrorIs(t, err, appendErr)
	require.False(t, ok)
	require.Equal(t, 0, multi.PageCount())
}

func TestMultiReleaseForeignPanics(t *testing.T) {
	multi, err := buddy.NewMulti(testLogger(), "multi", 256, 4096, nil)
	require.NoError(t, err)

	standalone, err := buddy.New("standalone", 256, 4096)
	require.NoError(t, err)
	alloc, ok := standalone.Allocate(256, 0)
	require.True(t, ok)

	require.Panics(t, func() { multi.Release(alloc) })
}

func TestMultiReset(t *testing.T) {
	multi, err := buddy.NewMulti(testLogger(), "multi", 256, 4096, nil)
	require.NoError(t, err)

	_, ok, err := multi.Allocate(256, 0)
	require.NoError(t, err)
	require.True(t, ok)

	multi.Reset()
	require.Equal(t, 0, multi.PageCount())
	require.Equal(t, 0, multi.AllocationCount())
}

type linearPages struct {
	normal    []int
	large     []int
	recycled  []int
	requested int
}

func (p *linearPages) request(size int, large bool) (int, bool, error) {
	p.requested++
	if large {
		p.large = append(p.large, size)
		return len(p.large) - 1, true, nil
	}

	if len(p.recycled) > 0 {
		index := p.recycled[len(p.recycled)-1]
		p.recycled = p.recycled[:len(p.recycled)-1]
		return index, false, nil
	}

	p.normal = append(p.normal, size)
	return len(p.normal) - 1, true, nil
}

func TestLinearBumpsWithinPage(t *testing.T) {
	pages := &linearPages{}
	linear, err := buddy.NewLinear(testLogger(), "linear", 1024, pages.request)
	require.NoError(t, err)

	first, err := linear.Allocate(100, 0)
	require.NoError(t, err)
	require.Equal(t, buddy.LinearAllocation{PageIndex: 0, Offset: 0}, first)

	second, err := linear.Allocate(100, 256)
	require.NoError(t, err)
	require.Equal(t, buddy.LinearAllocation{PageIndex: 0, Offset: 256}, second)

	third, err := linear.Allocate(800, 0)
	require.NoError(t, err)
	require.Equal(t, buddy.LinearAllocation{PageIndex: 1, Offset: 0}, third)

	require.Equal(t, 2, pages.requested)
}

func TestLinearLargePages(t *testing.T) {
	pages := &linearPages{}
	linear, err := buddy.NewLinear(testLogger(), "linear", 1024, pages.request)
	require.NoError(t, err)

	first, err := linear.Allocate(64, 0)
	require.NoError(t, err)

	large, err := linear.Allocate(4000, 0)
	require.NoError(t, err)
	require.Equal(t, buddy.LinearAllocation{PageIndex: 0, Offset: 0, Large: true}, large)
	require.Equal(t, []int{4000}, pages.large)

	// The large request leaves the current page alone
	next, err := linear.Allocate(64, 0)
	require.NoError(t, err)
	require.Equal(t, first.PageIndex, next.PageIndex)
	require.Equal(t, 64, next.Offset)
}

func TestLinearReset(t *testing.T) {
	pages := &linearPages{}
	linear, err := buddy.NewLinear(testLogger(), "linear", 1024, pages.request)
	require.NoError(t, err)

	_, err = linear.Allocate(64, 0)
	require.NoError(t, err)

	pages.recycled = []int{0}
	linear.Reset()

	alloc, err := linear.Allocate(64, 0)
	require.NoError(t, err)
	require.Equal(t, buddy.LinearAllocation{PageIndex: 0, Offset: 0}, alloc)
	require.Len(t, pages.normal, 1)

	_, err = linear.Allocate(0, 0)
	require.ErrorIs(t, err, memutils.ZeroSizeError)
}
