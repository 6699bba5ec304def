package gfx

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/gfxcore/gfx/driver"
	"github.com/vkngwrapper/gfxcore/memutils/release"
)

// OnlineDescriptorTableAllocator hands out shader-visible descriptor tables that are only valid
// for the frame they were allocated in
type OnlineDescriptorTableAllocator interface {
	// Allocate copies srcs into a contiguous table and returns its base handle. ok is false when no
	// contiguous range of len(srcs) descriptors is free.
	Allocate(srcs []driver.CPUDescriptorHandle) (base driver.GPUDescriptorHandle, ok bool)
	// CleanUpAllocations is called once per frame, before the frame fence is signaled
	CleanUpAllocations()
	// Reset forgets every allocation. The GPU must be done with all of them.
	Reset()
	NumMaxDescriptors() int
	UsedCount() int
	Heap() *DescriptorHeap
	Destroy()
}

// OnlineViewDescriptorAllocator manages a shader-visible heap as a ring of per-frame tables.
//
// The ring holds dynamicCapacity slots, of which at most dynamicCapacity-1 are in use at a time:
// front == rear means the ring is empty. Tables are never split across the end of the ring.
type OnlineViewDescriptorAllocator struct {
	fences          FrameFences
	heap            *DescriptorHeap
	dynamicCapacity int

	front     int
	rear      int
	snapshots release.Queue[int]
}

var _ OnlineDescriptorTableAllocator = &OnlineViewDescriptorAllocator{}

// NewOnlineViewDescriptorAllocator creates a shader-visible heap of dynamicCapacity descriptors
func NewOnlineViewDescriptorAllocator(device driver.Device, fences FrameFences, heapType driver.DescriptorHeapType, dynamicCapacity int) (*OnlineViewDescriptorAllocator, error) {
	if dynamicCapacity < 2 {
		return nil, errors.Newf("an online descriptor ring needs at least 2 slots, got %d", dynamicCapacity)
	}

	heap, err := NewDescriptorHeap(device, heapType, dynamicCapacity, true)
	if err != nil {
		return nil, err
	}

	return &OnlineViewDescriptorAllocator{
		fences:          fences,
		heap:            heap,
		dynamicCapacity: dynamicCapacity,
	}, nil
}

func (a *OnlineViewDescriptorAllocator) Heap() *DescriptorHeap  { return a.heap }
func (a *OnlineViewDescriptorAllocator) NumMaxDescriptors() int { return a.dynamicCapacity - 1 }
func (a *OnlineViewDescriptorAllocator) Front() int             { return a.front }
func (a *OnlineViewDescriptorAllocator) Rear() int              { return a.rear }

// UsedCount returns the number of ring slots between front and rear, including any slots skipped
// at the end of the ring by a table that wrapped
func (a *OnlineViewDescriptorAllocator) UsedCount() int {
	return (a.rear - a.front + a.dynamicCapacity) % a.dynamicCapacity
}

// AllocateTable reserves count contiguous ring slots until the end of the current frame
func (a *OnlineViewDescriptorAllocator) AllocateTable(count int) (DescriptorTable, bool) {
	if count <= 0 {
		return DescriptorTable{}, false
	}

	// An empty ring starts over at slot 0. Pending snapshots all hold the old rear, so they go too.
	if a.front == a.rear {
		a.front = 0
		a.rear = 0
		a.snapshots.Clear()
	}

	var start int

	if a.rear >= a.front {
		// Free space is [rear, capacity) followed by [0, front). Rear may only land on capacity
		// (which is slot 0) if front is not 0, and may never land on front.
		tail := a.dynamicCapacity - a.rear
		if a.front == 0 {
			tail--
		}

		switch {
		case count <= tail:
			start = a.rear
		case count < a.front:
			start = 0
		default:
			return DescriptorTable{}, false
		}
	} else {
		if count > a.front-a.rear-1 {
			return DescriptorTable{}, false
		}

		start = a.rear
	}

	a.rear = (start + count) % a.dynamicCapacity
	return DescriptorTable{heap: a.heap, offset: start, count: count}, true
}

func (a *OnlineViewDescriptorAllocator) Allocate(srcs []driver.CPUDescriptorHandle) (driver.GPUDescriptorHandle, bool) {
	table, ok := a.AllocateOneFrame(srcs)
	if !ok {
		return driver.GPUDescriptorHandle{}, false
	}

	return table.GPUBase(), true
}

// AllocateOneFrame reserves a table and copies srcs into it
func (a *OnlineViewDescriptorAllocator) AllocateOneFrame(srcs []driver.CPUDescriptorHandle) (DescriptorTable, bool) {
	table, ok := a.AllocateTable(len(srcs))
	if !ok {
		return DescriptorTable{}, false
	}

	a.heap.CopyFrom(srcs, table.offset)
	return table, true
}

// CleanUpAllocations releases the tables of every frame whose fence has completed and marks the
// tables allocated since the last call as belonging to the current frame
func (a *OnlineViewDescriptorAllocator) CleanUpAllocations() {
	a.snapshots.Drain(a.fences.IsFrameFenceCompleted, func(_ uint64, rear int) {
		a.front = rear
	})

	a.snapshots.Push(a.fences.GetNextFrameFence(), a.rear)
}

// Reset empties the ring
func (a *OnlineViewDescriptorAllocator) Reset() {
	a.front = 0
	a.rear = 0
	a.snapshots.Clear()
}

func (a *OnlineViewDescriptorAllocator) Destroy() {
	a.heap.Destroy()
}
