package gfx

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/vkngwrapper/gfxcore/gfx/driver"
	"github.com/vkngwrapper/gfxcore/memutils"
	"github.com/vkngwrapper/gfxcore/memutils/buddy"
	"golang.org/x/exp/slog"
)

// ResourceAllocation records where a resource's memory came from. Committed resources own their
// memory outright and carry the zero allocation. Placed resources carry the buddy allocation of the
// heap range they occupy.
type ResourceAllocation struct {
	placed buddy.Allocation
}

func (a ResourceAllocation) IsPlaced() bool { return a.placed.IsValid() }

// Placed returns the buddy allocation of a placed resource
func (a ResourceAllocation) Placed() (buddy.Allocation, bool) {
	return a.placed, a.placed.IsValid()
}

// ResourceAllocator creates resources and takes back the memory of the ones it created
type ResourceAllocator interface {
	Allocate(name string, desc driver.ResourceDesc, initialState driver.ResourceStates, clearValue *driver.ClearValue) (*Resource, error)
	Release(allocation ResourceAllocation)
	HeapType() driver.HeapType
}

// Resource is a buffer or texture together with the allocator that owns its memory and the state
// the GPU last saw it in
type Resource struct {
	name       string
	hw         driver.Resource
	desc       driver.ResourceDesc
	heapType   driver.HeapType
	allocator  ResourceAllocator
	allocation ResourceAllocation

	// state is the state of every subresource while subresourceStates is nil
	state             driver.ResourceStates
	subresourceStates []driver.ResourceStates
	stateLocked       bool

	mapped   []byte
	released bool
}

func newResource(name string, hw driver.Resource, heapType driver.HeapType, allocator ResourceAllocator, allocation ResourceAllocation, initialState driver.ResourceStates) *Resource {
	hw.SetName(name)

	r := &Resource{
		name:       name,
		hw:         hw,
		desc:       hw.Desc(),
		heapType:   heapType,
		allocator:  allocator,
		allocation: allocation,
		state:      initialState,
	}

	// Upload and readback heaps pin their resources to a single state
	switch heapType {
	case driver.HeapTypeUpload:
		r.state = driver.ResourceStateGenericRead
		r.stateLocked = true
	case driver.HeapTypeReadback:
		r.state = driver.ResourceStateCopyDest
		r.stateLocked = true
	}

	return r
}

func (r *Resource) Name() string                   { return r.name }
func (r *Resource) Driver() driver.Resource        { return r.hw }
func (r *Resource) Desc() driver.ResourceDesc      { return r.desc }
func (r *Resource) HeapType() driver.HeapType      { return r.heapType }
func (r *Resource) Allocation() ResourceAllocation { return r.allocation }
func (r *Resource) IsStateLocked() bool            { return r.stateLocked }
func (r *Resource) IsHeapCPUAccessible() bool      { return r.heapType.IsCPUAccessible() }
func (r *Resource) GPUAddress() uint64             { return r.hw.GPUVirtualAddress() }
func (r *Resource) IsReleased() bool               { return r.released }

// SubresourceCount returns the number of subresources that can be transitioned separately
func (r *Resource) SubresourceCount() uint32 { return r.desc.SubresourceCount() }

// AllSubresourceStatesSame returns true while every subresource is in the same state
func (r *Resource) AllSubresourceStatesSame() bool { return r.subresourceStates == nil }

// State returns the state shared by every subresource. It panics once subresources have diverged.
func (r *Resource) State() driver.ResourceStates {
	if r.subresourceStates != nil {
		panic(errors.AssertionFailedf("the subresources of %q are in different states", r.name))
	}

	return r.state
}

// SubresourceState returns the state of one subresource
func (r *Resource) SubresourceState(subresource uint32) driver.ResourceStates {
	r.checkSubresource(subresource)

	if r.subresourceStates == nil {
		return r.state
	}

	return r.subresourceStates[subresource]
}

func (r *Resource) checkSubresource(subresource uint32) {
	if subresource >= r.SubresourceCount() {
		panic(errors.AssertionFailedf("subresource %d is out of range for %q with %d subresources", subresource, r.name, r.SubresourceCount()))
	}
}

// SetState records the state every subresource will be in once previously recorded barriers
// execute
func (r *Resource) SetState(state driver.ResourceStates) error {
	if r.stateLocked && (r.subresourceStates != nil || state != r.state) {
		return errors.Wrapf(ErrResourceStateLocked, "resource %q is locked to %s and cannot become %s", r.name, r.state, state)
	}

	r.state = state
	r.subresourceStates = nil
	return nil
}

// SetSubresourceState records the state of one subresource. The resource goes back to a single
// shared state as soon as every subresource agrees.
func (r *Resource) SetSubresourceState(subresource uint32, state driver.ResourceStates) error {
	if subresource == driver.AllSubresources {
		return r.SetState(state)
	}

	r.checkSubresource(subresource)
	if r.stateLocked && state != r.SubresourceState(subresource) {
		return errors.Wrapf(ErrResourceStateLocked, "resource %q is locked to %s and subresource %d cannot become %s", r.name, r.state, subresource, state)
	}

	if r.subresourceStates == nil {
		if state == r.state {
			return nil
		}

		r.subresourceStates = make([]driver.ResourceStates, r.SubresourceCount())
		for i := range r.subresourceStates {
			r.subresourceStates[i] = r.state
		}
	}

	r.subresourceStates[subresource] = state
	for _, other := range r.subresourceStates {
		if other != state {
			return nil
		}
	}

	r.state = state
	r.subresourceStates = nil
	return nil
}

// LockState prevents or allows further state changes
func (r *Resource) LockState(locked bool) {
	r.stateLocked = locked
}

// Map returns the bytes of a resource in a CPU accessible heap. The mapping is persistent and is
// torn down by Release.
func (r *Resource) Map() ([]byte, error) {
	if r.mapped != nil {
		return r.mapped, nil
	}

	if !r.IsHeapCPUAccessible() {
		return nil, errors.Newf("resource %q lives in a %s heap and cannot be mapped", r.name, r.heapType)
	}

	bytes, err := r.hw.Map()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to map resource %q", r.name)
	}

	r.mapped = bytes
	return bytes, nil
}

// Release destroys the driver resource and returns its memory to the owning allocator immediately.
// Use Device.DeferredRelease for resources the GPU may still be reading.
func (r *Resource) Release() {
	if r.released {
		panic(errors.AssertionFailedf("resource %q was released twice", r.name))
	}
	r.released = true

	if r.mapped != nil {
		r.hw.Unmap()
		r.mapped = nil
	}

	r.hw.Destroy()
	if r.allocator != nil {
		r.allocator.Release(r.allocation)
	}
}

// CommittedResourceAllocator gives every resource its own driver allocation
type CommittedResourceAllocator struct {
	device   driver.Device
	heapType driver.HeapType
}

var _ ResourceAllocator = &CommittedResourceAllocator{}

func NewCommittedResourceAllocator(device driver.Device, heapType driver.HeapType) *CommittedResourceAllocator {
	return &CommittedResourceAllocator{
		device:   device,
		heapType: heapType,
	}
}

func (a *CommittedResourceAllocator) HeapType() driver.HeapType { return a.heapType }

func (a *CommittedResourceAllocator) Allocate(name string, desc driver.ResourceDesc, initialState driver.ResourceStates, clearValue *driver.ClearValue) (*Resource, error) {
	hw, err := a.device.CreateCommittedResource(a.heapType, desc, initialState, clearValue)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create committed resource %q in the %s heap", name, a.heapType)
	}

	return newResource(name, hw, a.heapType, a, ResourceAllocation{}, initialState), nil
}

// Release is a no-op: destroying a committed resource frees its memory
func (a *CommittedResourceAllocator) Release(allocation ResourceAllocation) {}

// PlacedResourceAllocator places resources into driver heaps managed by a buddy MultiAllocator. Each
// buddy page is backed by one driver heap.
type PlacedResourceAllocator struct {
	logger   *slog.Logger
	name     string
	device   driver.Device
	heapType driver.HeapType
	msaa     bool
	pageSize int

	multi *buddy.MultiAllocator
	heaps []driver.Heap
}

var _ ResourceAllocator = &PlacedResourceAllocator{}
var _ memutils.Validatable = &PlacedResourceAllocator{}

// NewPlacedResourceAllocator creates an allocator whose heaps are pageSize bytes. minBlockSize must
// be at least the placement alignment of the resources that will be placed, and msaa must be set for
// allocators of multisampled textures.
func NewPlacedResourceAllocator(logger *slog.Logger, name string, device driver.Device, heapType driver.HeapType, minBlockSize, pageSize int, msaa bool) (*PlacedResourceAllocator, error) {
	a := &PlacedResourceAllocator{
		logger:   logger,
		name:     name,
		device:   device,
		heapType: heapType,
		msaa:     msaa,
		pageSize: pageSize,
	}

	var err error
	a.multi, err = buddy.NewMulti(logger, name, minBlockSize, pageSize, a.appendHeap)
	if err != nil {
		return nil, err
	}

	return a, nil
}

func (a *PlacedResourceAllocator) Name() string                 { return a.name }
func (a *PlacedResourceAllocator) HeapType() driver.HeapType    { return a.heapType }
func (a *PlacedResourceAllocator) HeapCount() int               { return len(a.heaps) }
func (a *PlacedResourceAllocator) Heap(i int) driver.Heap       { return a.heaps[i] }
func (a *PlacedResourceAllocator) AllocationCount() int         { return a.multi.AllocationCount() }
func (a *PlacedResourceAllocator) Buddy() *buddy.MultiAllocator { return a.multi }

func (a *PlacedResourceAllocator) appendHeap(pageIndex int, sizeInBytes int) error {
	heap, err := a.device.CreateHeap(a.heapType, sizeInBytes, a.msaa)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s heap of %d bytes", a.heapType, sizeInBytes)
	}

	a.heaps = append(a.heaps, heap)
	return nil
}

// Allocate places a new resource. Resources larger than a page return ErrAllocationTooLarge, and
// the caller is expected to fall back to a committed allocation.
func (a *PlacedResourceAllocator) Allocate(name string, desc driver.ResourceDesc, initialState driver.ResourceStates, clearValue *driver.ClearValue) (*Resource, error) {
	info := a.device.ResourceAllocationInfo(desc)
	if info.SizeInBytes > a.pageSize {
		return nil, errors.Wrapf(ErrAllocationTooLarge, "%s: resource %q needs %d bytes, pages are %d bytes", a.name, name, info.SizeInBytes, a.pageSize)
	}

	alloc, ok, err := a.multi.Allocate(info.SizeInBytes, info.Alignment)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.Wrapf(ErrAllocationTooLarge, "%s: resource %q could not be placed in a new page", a.name, name)
	}

	hw, err := a.device.CreatePlacedResource(a.heaps[alloc.Page()], alloc.Offset(), desc, initialState, clearValue)
	if err != nil {
		a.multi.Release(alloc)
		return nil, errors.Wrapf(err, "failed to create placed resource %q at offset %d of %s heap %d", name, alloc.Offset(), a.name, alloc.Page())
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "PlacedResourceAllocator::Allocate",
		slog.String("Allocator", a.name),
		slog.String("Name", name),
		slog.Int("Page", alloc.Page()),
		slog.Int("Offset", alloc.Offset()),
		slog.Int("Size", info.SizeInBytes),
	)

	return newResource(name, hw, a.heapType, a, ResourceAllocation{placed: alloc}, initialState), nil
}

// Release returns a placed resource's range to its heap
func (a *PlacedResourceAllocator) Release(allocation ResourceAllocation) {
	alloc, ok := allocation.Placed()
	if !ok {
		panic(errors.AssertionFailedf("%s received a committed allocation", a.name))
	}

	a.multi.Release(alloc)
}

// Destroy destroys every heap. Resources still placed in them become invalid.
func (a *PlacedResourceAllocator) Destroy() {
	if count := a.multi.AllocationCount(); count > 0 {
		a.logger.LogAttrs(context.Background(), slog.LevelWarn, "[UNRELEASED MEMORY] placed allocator destroyed with live resources",
			slog.String("Allocator", a.name),
			slog.Int("Count", count),
		)
	}

	for _, heap := range a.heaps {
		heap.Destroy()
	}

	a.heaps = nil
	a.multi.Reset()
}

func (a *PlacedResourceAllocator) Validate() error {
	if len(a.heaps) != a.multi.PageCount() {
		return errors.Newf("%s has %d heaps backing %d pages", a.name, len(a.heaps), a.multi.PageCount())
	}

	return a.multi.Validate()
}

func (a *PlacedResourceAllocator) AddStatistics(stats *memutils.MemoryStatistics) {
	a.multi.AddStatistics(stats)
}

func (a *PlacedResourceAllocator) BlockJsonData(json *jwriter.ObjectState) {
	json.Name("HeapType").String(a.heapType.String())
	json.Name("Msaa").Bool(a.msaa)
	a.multi.BlockJsonData(json)
}
