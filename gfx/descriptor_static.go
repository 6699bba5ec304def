package gfx

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/gfxcore/gfx/driver"
	"github.com/vkngwrapper/gfxcore/gfx/internal/utils"
	"github.com/vkngwrapper/gfxcore/memutils"
)

// StaticDescriptorTableAllocator owns a shader-visible heap whose tables stay valid until Reset.
// Tables are carved from the front of the heap in allocation order and are never reclaimed one
// by one. Unlike the online allocators it is never rolled over, so a table allocated once can be
// bound in every later frame.
type StaticDescriptorTableAllocator struct {
	mutex utils.OptionalMutex
	heap  *DescriptorHeap
	used  int
}

func NewStaticDescriptorTableAllocator(device driver.Device, heapType driver.DescriptorHeapType, capacity int, useMutex bool) (*StaticDescriptorTableAllocator, error) {
	if heapType != driver.DescriptorHeapTypeCbvSrvUav && heapType != driver.DescriptorHeapTypeSampler {
		return nil, errors.Newf("%s descriptors cannot be shader visible", heapType)
	}

	heap, err := NewDescriptorHeap(device, heapType, capacity, true)
	if err != nil {
		return nil, err
	}

	return &StaticDescriptorTableAllocator{
		mutex: utils.OptionalMutex{UseMutex: useMutex},
		heap:  heap,
	}, nil
}

func (a *StaticDescriptorTableAllocator) Heap() *DescriptorHeap { return a.heap }
func (a *StaticDescriptorTableAllocator) Capacity() int         { return a.heap.Capacity() }

func (a *StaticDescriptorTableAllocator) UsedCount() int {
	defer a.mutex.Guard()()
	return a.used
}

func (a *StaticDescriptorTableAllocator) AddStatistics(stats *memutils.DescriptorStatistics) {
	defer a.mutex.Guard()()

	stats.HeapCount++
	stats.Capacity += a.heap.Capacity()
	stats.InUse += a.used
}

// Table returns the whole heap as one table
func (a *StaticDescriptorTableAllocator) Table() DescriptorTable {
	return DescriptorTable{heap: a.heap, offset: 0, count: a.heap.Capacity()}
}

// AllocateTable reserves the next count descriptors. ok is false once the heap is exhausted.
func (a *StaticDescriptorTableAllocator) AllocateTable(count int) (table DescriptorTable, ok bool) {
	defer a.mutex.Guard()()

	if count <= 0 || a.used+count > a.heap.Capacity() {
		return DescriptorTable{}, false
	}

	table = DescriptorTable{heap: a.heap, offset: a.used, count: count}
	a.used += count
	return table, true
}

// Reset forgets every table. The GPU must be done with all of them.
func (a *StaticDescriptorTableAllocator) Reset() {
	defer a.mutex.Guard()()
	a.used = 0
}

func (a *StaticDescriptorTableAllocator) Destroy() {
	a.heap.Destroy()
}
