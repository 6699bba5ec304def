package gfx

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/gogpu/gputypes"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/vkngwrapper/gfxcore/gfx/driver"
	"github.com/vkngwrapper/gfxcore/memutils"
	"github.com/vkngwrapper/gfxcore/memutils/buddy"
	"github.com/vkngwrapper/gfxcore/memutils/release"
	"golang.org/x/exp/slog"
)

// FrameFences exposes the frame fence watermark that every deferred release is gated on
type FrameFences interface {
	// GetNextFrameFence returns the frame fence value that will be signaled at the end of the
	// current frame
	GetNextFrameFence() uint64
	// IsFrameFenceCompleted returns true once every queue has finished the frame that value ended
	IsFrameFenceCompleted(value uint64) bool
}

const uploadBufferUsage = gputypes.BufferUsageMapWrite | gputypes.BufferUsageCopySrc |
	gputypes.BufferUsageVertex | gputypes.BufferUsageIndex | gputypes.BufferUsageUniform

// BufferAllocation is a range of a larger buffer handed out by a BufferSubAllocator
type BufferAllocation struct {
	resource *Resource
	offset   int
	size     int
	mapped   []byte

	buddy buddy.Allocation
}

func (a BufferAllocation) IsValid() bool       { return a.resource != nil }
func (a BufferAllocation) Resource() *Resource { return a.resource }
func (a BufferAllocation) Offset() int         { return a.offset }
func (a BufferAllocation) Size() int           { return a.size }

// Bytes returns the mapped window of the allocation
func (a BufferAllocation) Bytes() []byte { return a.mapped }

// GPUAddress returns the GPU virtual address of the first byte of the allocation
func (a BufferAllocation) GPUAddress() uint64 {
	return a.resource.GPUAddress() + uint64(a.offset)
}

// BufferSubAllocator hands out ranges of mapped upload buffers
type BufferSubAllocator interface {
	Allocate(size, alignment int) (BufferAllocation, error)
	// DeferredRelease returns the range once the current frame has finished on the GPU
	DeferredRelease(allocation BufferAllocation)
	// CleanUpAllocations is called once per frame, before the frame fence is signaled
	CleanUpAllocations()
}

func newUploadPage(allocator ResourceAllocator, name string, size int) (*Resource, []byte, error) {
	page, err := allocator.Allocate(name, driver.BufferDesc(size, uploadBufferUsage), driver.ResourceStateGenericRead, nil)
	if err != nil {
		return nil, nil, err
	}

	bytes, err := page.Map()
	if err != nil {
		page.Release()
		return nil, nil, err
	}

	return page, bytes, nil
}

// BufferMultiBuddySubAllocator serves long-lived upload ranges, such as constant buffers, from
// buddy pages that are each one committed upload buffer
type BufferMultiBuddySubAllocator struct {
	name      string
	fences    FrameFences
	allocator ResourceAllocator

	multi    *buddy.MultiAllocator
	pages    []*Resource
	mapped   [][]byte
	releases release.Queue[buddy.Allocation]
}

var _ BufferSubAllocator = &BufferMultiBuddySubAllocator{}
var _ memutils.Validatable = &BufferMultiBuddySubAllocator{}

// NewBufferMultiBuddySubAllocator creates a sub-allocator whose pages are pageSize bytes taken
// from allocator, which must allocate in a CPU accessible heap
func NewBufferMultiBuddySubAllocator(logger *slog.Logger, name string, fences FrameFences, allocator ResourceAllocator, minBlockSize, pageSize int) (*BufferMultiBuddySubAllocator, error) {
	if !allocator.HeapType().IsCPUAccessible() {
		return nil, errors.Newf("%s: buffer sub-allocators need a CPU accessible heap, not %s", name, allocator.HeapType())
	}

	a := &BufferMultiBuddySubAllocator{
		name:      name,
		fences:    fences,
		allocator: allocator,
	}

	var err error
	a.multi, err = buddy.NewMulti(logger, name, minBlockSize, pageSize, a.appendPage)
	if err != nil {
		return nil, err
	}

	return a, nil
}

func (a *BufferMultiBuddySubAllocator) appendPage(pageIndex int, sizeInBytes int) error {
	page, bytes, err := newUploadPage(a.allocator, fmt.Sprintf("%s Page %d", a.name, pageIndex), sizeInBytes)
	if err != nil {
		return err
	}

	a.pages = append(a.pages, page)
	a.mapped = append(a.mapped, bytes)
	return nil
}

func (a *BufferMultiBuddySubAllocator) PageCount() int       { return len(a.pages) }
func (a *BufferMultiBuddySubAllocator) AllocationCount() int { return a.multi.AllocationCount() }
func (a *BufferMultiBuddySubAllocator) PendingReleases() int { return a.releases.Len() }

func (a *BufferMultiBuddySubAllocator) Allocate(size, alignment int) (BufferAllocation, error) {
	if size <= 0 {
		return BufferAllocation{}, errors.Wrapf(memutils.ZeroSizeError, "%s received a request of %d bytes", a.name, size)
	}

	alloc, ok, err := a.multi.Allocate(size, alignment)
	if err != nil {
		return BufferAllocation{}, err
	}
	if !ok {
		return BufferAllocation{}, errors.Wrapf(ErrAllocationTooLarge, "%s could not serve %d bytes", a.name, size)
	}

	page := alloc.Page()
	return BufferAllocation{
		resource: a.pages[page],
		offset:   alloc.Offset(),
		size:     size,
		mapped:   a.mapped[page][alloc.Offset() : alloc.Offset()+size : alloc.Offset()+size],
		buddy:    alloc,
	}, nil
}

func (a *BufferMultiBuddySubAllocator) DeferredRelease(allocation BufferAllocation) {
	if !allocation.buddy.IsValid() {
		panic(errors.AssertionFailedf("%s received an allocation it did not produce", a.name))
	}

	a.releases.Push(a.fences.GetNextFrameFence(), allocation.buddy)
}

func (a *BufferMultiBuddySubAllocator) CleanUpAllocations() {
	a.releases.Drain(a.fences.IsFrameFenceCompleted, func(_ uint64, alloc buddy.Allocation) {
		a.multi.Release(alloc)
	})
}

// Destroy releases every page. Pending releases are dropped.
func (a *BufferMultiBuddySubAllocator) Destroy() {
	for _, page := range a.pages {
		page.Release()
	}

	a.pages = nil
	a.mapped = nil
	a.releases.Clear()
	a.multi.Reset()
}

func (a *BufferMultiBuddySubAllocator) Validate() error {
	return a.multi.Validate()
}

func (a *BufferMultiBuddySubAllocator) AddStatistics(stats *memutils.MemoryStatistics) {
	a.multi.AddStatistics(stats)
}

func (a *BufferMultiBuddySubAllocator) BlockJsonData(json *jwriter.ObjectState) {
	json.Name("PendingReleases").Int(a.releases.Len())
	a.multi.BlockJsonData(json)
}

type linearPage struct {
	resource *Resource
	mapped   []byte
}

// BufferLinearSubAllocator serves one-frame upload memory by bumping an offset through pages. Pages
// used during a frame are recycled once that frame's fence completes, and large pages created for
// oversized requests are released at the same point.
type BufferLinearSubAllocator struct {
	logger    *slog.Logger
	name      string
	fences    FrameFences
	allocator ResourceAllocator

	linear *buddy.LinearAllocator
	pages  []linearPage

	freePages    release.Queue[int]
	usedPages    []int
	largePages   []linearPage
	pendingLarge release.Queue[*Resource]
}

var _ BufferSubAllocator = &BufferLinearSubAllocator{}

func NewBufferLinearSubAllocator(logger *slog.Logger, name string, fences FrameFences, allocator ResourceAllocator, pageSize int) (*BufferLinearSubAllocator, error) {
	if !allocator.HeapType().IsCPUAccessible() {
		return nil, errors.Newf("%s: buffer sub-allocators need a CPU accessible heap, not %s", name, allocator.HeapType())
	}

	a := &BufferLinearSubAllocator{
		logger:    logger,
		name:      name,
		fences:    fences,
		allocator: allocator,
	}

	var err error
	a.linear, err = buddy.NewLinear(logger, name, pageSize, a.requestPage)
	if err != nil {
		return nil, err
	}

	return a, nil
}

func (a *BufferLinearSubAllocator) PageCount() int { return len(a.pages) }
func (a *BufferLinearSubAllocator) PageSize() int  { return a.linear.PageSize() }

// LargePageCount returns the number of large pages alive, including those awaiting release
func (a *BufferLinearSubAllocator) LargePageCount() int {
	return len(a.largePages) + a.pendingLarge.Len()
}

func (a *BufferLinearSubAllocator) requestPage(size int, large bool) (int, bool, error) {
	if large {
		page, bytes, err := newUploadPage(a.allocator, fmt.Sprintf("%s Large Page %d", a.name, a.LargePageCount()), size)
		if err != nil {
			return 0, false, err
		}

		a.largePages = append(a.largePages, linearPage{resource: page, mapped: bytes})
		return len(a.largePages) - 1, true, nil
	}

	pageIndex, ok := a.freePages.PopCompleted(a.fences.IsFrameFenceCompleted)
	if ok {
		a.usedPages = append(a.usedPages, pageIndex)
		return pageIndex, false, nil
	}

	page, bytes, err := newUploadPage(a.allocator, fmt.Sprintf("%s Page %d", a.name, len(a.pages)), size)
	if err != nil {
		return 0, false, err
	}

	a.pages = append(a.pages, linearPage{resource: page, mapped: bytes})
	pageIndex = len(a.pages) - 1
	a.usedPages = append(a.usedPages, pageIndex)

	return pageIndex, true, nil
}

func (a *BufferLinearSubAllocator) Allocate(size, alignment int) (BufferAllocation, error) {
	alloc, err := a.linear.Allocate(size, alignment)
	if err != nil {
		return BufferAllocation{}, err
	}

	page := a.pages
	if alloc.Large {
		page = a.largePages
	}

	return BufferAllocation{
		resource: page[alloc.PageIndex].resource,
		offset:   alloc.Offset,
		size:     size,
		mapped:   page[alloc.PageIndex].mapped[alloc.Offset : alloc.Offset+size : alloc.Offset+size],
	}, nil
}

// DeferredRelease is a no-op: linear allocations live until the end of the frame
func (a *BufferLinearSubAllocator) DeferredRelease(allocation BufferAllocation) {}

// CleanUpAllocations retires every page used this frame. They become available again once the
// frame's fence completes.
func (a *BufferLinearSubAllocator) CleanUpAllocations() {
	a.pendingLarge.Drain(a.fences.IsFrameFenceCompleted, func(_ uint64, page *Resource) {
		page.Release()
	})

	fence := a.fences.GetNextFrameFence()
	for _, pageIndex := range a.usedPages {
		a.freePages.Push(fence, pageIndex)
	}
	a.usedPages = a.usedPages[:0]

	for _, page := range a.largePages {
		a.pendingLarge.Push(fence, page.resource)
	}
	clear(a.largePages)
	a.largePages = a.largePages[:0]

	a.linear.Reset()
}

// Destroy releases every page, including ones the GPU may still be reading
func (a *BufferLinearSubAllocator) Destroy() {
	for _, page := range a.pages {
		page.resource.Release()
	}
	for _, page := range a.largePages {
		page.resource.Release()
	}
	for !a.pendingLarge.Empty() {
		_, page, _ := a.pendingLarge.Pop()
		page.Release()
	}

	a.pages = nil
	a.largePages = nil
	a.usedPages = nil
	a.freePages.Clear()
	a.linear.Reset()

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "BufferLinearSubAllocator::Destroy",
		slog.String("Name", a.name))
}

func (a *BufferLinearSubAllocator) AddStatistics(stats *memutils.MemoryStatistics) {
	for _, page := range a.pages {
		stats.AddPage(len(page.mapped))
	}
	for _, page := range a.largePages {
		stats.AddPage(len(page.mapped))
	}
}

func (a *BufferLinearSubAllocator) BlockJsonData(json *jwriter.ObjectState) {
	json.Name("Name").String(a.name)
	json.Name("PageSize").Int(a.linear.PageSize())
	json.Name("Pages").Int(len(a.pages))
	json.Name("PagesInUse").Int(len(a.usedPages))
	json.Name("LargePages").Int(a.LargePageCount())
}
