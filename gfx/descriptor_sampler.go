package gfx

import (
	"container/list"
	"slices"

	"github.com/dolthub/maphash"
	"github.com/dolthub/swiss"
	"github.com/vkngwrapper/gfxcore/gfx/driver"
	"github.com/vkngwrapper/gfxcore/memutils/buddy"
)

type samplerTableEntry struct {
	hash       uint64
	srcs       []driver.CPUDescriptorHandle
	alloc      buddy.Allocation
	fenceValue uint64
}

// OnlineSamplerDescriptorAllocator caches sampler tables in a shader-visible heap. Tables are
// keyed by the handles they were copied from, so a draw that binds the same samplers as an earlier
// one reuses its table. Space is managed by a buddy allocator, and the least recently used tables
// are evicted once the GPU is done with them.
type OnlineSamplerDescriptorAllocator struct {
	fences FrameFences
	heap   *DescriptorHeap
	buddy  *buddy.Allocator

	hasher maphash.Hasher[uint64]
	lru    *list.List
	tables *swiss.Map[uint64, *list.Element]

	hits      int
	evictions int
}

var _ OnlineDescriptorTableAllocator = &OnlineSamplerDescriptorAllocator{}

// NewOnlineSamplerDescriptorAllocator creates a shader-visible sampler heap. capacity must be a
// power of two.
func NewOnlineSamplerDescriptorAllocator(device driver.Device, fences FrameFences, capacity int) (*OnlineSamplerDescriptorAllocator, error) {
	blocks, err := buddy.New("OnlineSamplerDescriptors", 1, capacity)
	if err != nil {
		return nil, err
	}

	heap, err := NewDescriptorHeap(device, driver.DescriptorHeapTypeSampler, capacity, true)
	if err != nil {
		return nil, err
	}

	return &OnlineSamplerDescriptorAllocator{
		fences: fences,
		heap:   heap,
		buddy:  blocks,
		hasher: maphash.NewHasher[uint64](),
		lru:    list.New(),
		tables: swiss.NewMap[uint64, *list.Element](64),
	}, nil
}

func (a *OnlineSamplerDescriptorAllocator) Heap() *DescriptorHeap  { return a.heap }
func (a *OnlineSamplerDescriptorAllocator) NumMaxDescriptors() int { return a.heap.Capacity() }
func (a *OnlineSamplerDescriptorAllocator) TableCount() int        { return a.lru.Len() }
func (a *OnlineSamplerDescriptorAllocator) Hits() int              { return a.hits }
func (a *OnlineSamplerDescriptorAllocator) Evictions() int         { return a.evictions }

// UsedCount returns the number of descriptors held by cached tables, rounded up to buddy blocks
func (a *OnlineSamplerDescriptorAllocator) UsedCount() int { return a.buddy.AllocatedSize() }

func (a *OnlineSamplerDescriptorAllocator) hashHandles(srcs []driver.CPUDescriptorHandle) uint64 {
	hash := a.hasher.Hash(uint64(len(srcs)))
	for _, src := range srcs {
		hash = a.hasher.Hash(hash ^ src.Ptr)
	}

	return hash
}

func (a *OnlineSamplerDescriptorAllocator) Allocate(srcs []driver.CPUDescriptorHandle) (driver.GPUDescriptorHandle, bool) {
	if len(srcs) == 0 {
		return driver.GPUDescriptorHandle{}, false
	}

	hash := a.hashHandles(srcs)
	nextFence := a.fences.GetNextFrameFence()

	if element, ok := a.tables.Get(hash); ok {
		entry := element.Value.(*samplerTableEntry)
		if slices.Equal(entry.srcs, srcs) {
			entry.fenceValue = nextFence
			a.lru.MoveToFront(element)
			a.hits++
			return a.heap.GPUHandle(entry.alloc.Offset()), true
		}
	}

	alloc, ok := a.buddy.Allocate(len(srcs), 0)
	for !ok {
		if !a.evictOldest() {
			return driver.GPUDescriptorHandle{}, false
		}

		alloc, ok = a.buddy.Allocate(len(srcs), 0)
	}

	a.heap.CopyFrom(srcs, alloc.Offset())

	entry := &samplerTableEntry{
		hash:       hash,
		srcs:       slices.Clone(srcs),
		alloc:      alloc,
		fenceValue: nextFence,
	}
	a.tables.Put(hash, a.lru.PushFront(entry))

	return a.heap.GPUHandle(alloc.Offset()), true
}

// evictOldest frees the least recently used table if the GPU is done with it
func (a *OnlineSamplerDescriptorAllocator) evictOldest() bool {
	element := a.lru.Back()
	if element == nil {
		return false
	}

	entry := element.Value.(*samplerTableEntry)
	if !a.fences.IsFrameFenceCompleted(entry.fenceValue) {
		return false
	}

	a.lru.Remove(element)
	if current, ok := a.tables.Get(entry.hash); ok && current == element {
		a.tables.Delete(entry.hash)
	}
	a.buddy.Release(entry.alloc)
	a.evictions++

	return true
}

// CleanUpAllocations is a no-op: tables are evicted on demand
func (a *OnlineSamplerDescriptorAllocator) CleanUpAllocations() {}

func (a *OnlineSamplerDescriptorAllocator) Reset() {
	a.lru.Init()
	a.tables.Clear()
	a.buddy.Reset()
}

func (a *OnlineSamplerDescriptorAllocator) Destroy() {
	a.heap.Destroy()
}
