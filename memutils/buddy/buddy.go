// Package buddy contains the page-level sub-allocators used by the graphics core: a binary buddy
// allocator over a single power-of-two range, a MultiAllocator that grows a list of buddy pages
// on demand, and a LinearAllocator that bumps an offset through pages obtained from a callback.
//
// None of the allocators in this package own memory. They hand out offsets, and the consumer
// maps those offsets onto whatever backs a page (a driver heap, an upload buffer, a descriptor
// heap range).
package buddy

import (
	"fmt"
	"slices"

	"github.com/dolthub/swiss"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/pkg/errors"
	"github.com/vkngwrapper/gfxcore/memutils"
)

type blockKey struct {
	order int
	unit  uint32
}

// Allocation is a live block handed out by an Allocator. The zero value is not a valid allocation.
type Allocation struct {
	owner  *Allocator
	unit   uint32
	order  int
	offset int
}

// IsValid returns true if this Allocation was produced by an Allocator
func (a Allocation) IsValid() bool { return a.owner != nil }

// Offset is the aligned byte offset of the allocation within its page
func (a Allocation) Offset() int { return a.offset }

// Order is the log2 of the number of minimum-size units reserved by this allocation
func (a Allocation) Order() int { return a.order }

// BlockOffset is the unaligned byte offset of the reserved block
func (a Allocation) BlockOffset() int { return int(a.unit) * a.owner.minBlockSize }

// BlockSize is the size in bytes of the reserved block, which is at least the requested size
func (a Allocation) BlockSize() int { return a.owner.minBlockSize << a.order }

// Page returns the index of the page that produced this allocation when the owner belongs to a
// MultiAllocator, or 0 for standalone allocators
func (a Allocation) Page() int { return a.owner.pageIndex }

// Owner returns the allocator that produced this allocation
func (a Allocation) Owner() *Allocator { return a.owner }

// Allocator is a binary buddy allocator over [0, maxBlockSize). Blocks are tracked in units of
// minBlockSize, and a block of order k spans 2^k units. Free blocks live in flat per-order lists
// with a position index for constant-time removal during merges.
//
// Allocator is not safe for concurrent use.
type Allocator struct {
	name         string
	pageIndex    int
	minBlockSize int
	maxBlockSize int
	maxOrder     int

	freeLists [][]uint32
	freeIndex *swiss.Map[blockKey, int]
	live      *swiss.Map[uint32, int]

	allocatedSize int
}

var _ memutils.Validatable = &Allocator{}

// New creates an Allocator. Both block sizes must be powers of two and minBlockSize must not
// exceed maxBlockSize.
func New(name string, minBlockSize, maxBlockSize int) (*Allocator, error) {
	err := memutils.CheckPow2(minBlockSize, "minBlockSize")
	if err != nil {
		return nil, err
	}

	err = memutils.CheckPow2(maxBlockSize, "maxBlockSize")
	if err != nil {
		return nil, err
	}

	if minBlockSize > maxBlockSize {
		return nil, errors.Wrapf(memutils.BlockSizeError, "%s: min block size %d, max block size %d", name, minBlockSize, maxBlockSize)
	}

	maxOrder := memutils.Log2Floor(uint64(maxBlockSize / minBlockSize))
	a := &Allocator{
		name:         name,
		minBlockSize: minBlockSize,
		maxBlockSize: maxBlockSize,
		maxOrder:     maxOrder,
		freeIndex:    swiss.NewMap[blockKey, int](uint32(maxOrder + 1)),
		live:         swiss.NewMap[uint32, int](16),
	}
	a.Reset()

	return a, nil
}

func (a *Allocator) Name() string       { return a.name }
func (a *Allocator) MinBlockSize() int  { return a.minBlockSize }
func (a *Allocator) MaxBlockSize() int  { return a.maxBlockSize }
func (a *Allocator) MaxOrder() int      { return a.maxOrder }
func (a *Allocator) AllocatedSize() int { return a.allocatedSize }
func (a *Allocator) SumFreeSize() int   { return a.maxBlockSize - a.allocatedSize }

// AllocationCount returns the number of live allocations
func (a *Allocator) AllocationCount() int { return a.live.Count() }

// FreeBlockCount returns the number of free blocks across all orders
func (a *Allocator) FreeBlockCount() int { return a.freeIndex.Count() }

// IsEmpty returns true if there are no live allocations
func (a *Allocator) IsEmpty() bool { return a.live.Count() == 0 }

// Reset forgets every allocation and returns the allocator to a single free block of the maximum order
func (a *Allocator) Reset() {
	a.freeLists = make([][]uint32, a.maxOrder+1)
	a.freeIndex.Clear()
	a.live.Clear()
	a.allocatedSize = 0

	a.pushFree(a.maxOrder, 0)
}

// OrderForSize returns the block order a request would be served from, and false if the request
// can never be satisfied by this allocator
func (a *Allocator) OrderForSize(size, alignment int) (int, bool) {
	if size <= 0 {
		return 0, false
	}

	sizeToAllocate := size
	if alignment != 0 {
		memutils.DebugCheckPow2(alignment, "alignment")
	}
	if alignment != 0 && a.minBlockSize%alignment != 0 {
		sizeToAllocate += alignment
	}

	units := memutils.DivideRoundingUp(sizeToAllocate, a.minBlockSize)
	order := memutils.Log2Ceil(uint64(units))

	return order, order <= a.maxOrder
}

// Allocate reserves a block large enough for size bytes at the requested alignment (0 for none).
// It returns false when no free block of a sufficient order exists.
func (a *Allocator) Allocate(size, alignment int) (Allocation, bool) {
	order, ok := a.OrderForSize(size, alignment)
	if !ok {
		return Allocation{}, false
	}

	unit, ok := a.allocateBlock(order)
	if !ok {
		return Allocation{}, false
	}

	a.live.Put(unit, order)
	a.allocatedSize += a.minBlockSize << order

	alloc := Allocation{
		owner:  a,
		unit:   unit,
		order:  order,
		offset: memutils.AlignUp(int(unit)*a.minBlockSize, alignment),
	}
	memutils.DebugValidate(a)

	return alloc, true
}

func (a *Allocator) allocateBlock(order int) (uint32, bool) {
	splitOrder := order
	for splitOrder <= a.maxOrder && len(a.freeLists[splitOrder]) == 0 {
		splitOrder++
	}

	if splitOrder > a.maxOrder {
		return 0, false
	}

	unit := a.popFree(splitOrder)

	// Keep the lower half and return the upper half of every split to its order's free list
	for splitOrder > order {
		splitOrder--
		a.pushFree(splitOrder, unit+(1<<splitOrder))
	}

	return unit, true
}

// Release returns an allocation to this allocator, merging it with its buddy for as long as the
// buddy is free. Releasing an allocation that this allocator does not own, or that was already
// released, panics.
func (a *Allocator) Release(alloc Allocation) {
	if alloc.owner != a {
		panic(fmt.Sprintf("allocator %s received an allocation it does not own", a.name))
	}

	order, ok := a.live.Get(alloc.unit)
	if !ok || order != alloc.order {
		panic(fmt.Sprintf("allocator %s received a release for unit %d order %d, which is not live", a.name, alloc.unit, alloc.order))
	}

	a.live.Delete(alloc.unit)
	a.allocatedSize -= a.minBlockSize << order

	unit := alloc.unit
	for order < a.maxOrder {
		buddy := unit ^ (1 << order)
		position, free := a.freeIndex.Get(blockKey{order: order, unit: buddy})
		if !free {
			break
		}

		a.removeFree(order, position)
		unit = min(unit, buddy)
		order++
	}

	a.pushFree(order, unit)
	memutils.DebugValidate(a)
}

func (a *Allocator) pushFree(order int, unit uint32) {
	a.freeIndex.Put(blockKey{order: order, unit: unit}, len(a.freeLists[order]))
	a.freeLists[order] = append(a.freeLists[order], unit)
}

func (a *Allocator) popFree(order int) uint32 {
	list := a.freeLists[order]
	unit := list[len(list)-1]
	a.freeLists[order] = list[:len(list)-1]
	a.freeIndex.Delete(blockKey{order: order, unit: unit})

	return unit
}

func (a *Allocator) removeFree(order int, position int) {
	list := a.freeLists[order]
	removed := list[position]
	last := len(list) - 1

	if position != last {
		list[position] = list[last]
		a.freeIndex.Put(blockKey{order: order, unit: list[position]}, position)
	}

	a.freeLists[order] = list[:last]
	a.freeIndex.Delete(blockKey{order: order, unit: removed})
}

type interval struct {
	start, end int
	free       bool
}

func (a *Allocator) intervals() []interval {
	result := make([]interval, 0, a.freeIndex.Count()+a.live.Count())

	for order, list := range a.freeLists {
		for _, unit := range list {
			start := int(unit) * a.minBlockSize
			result = append(result, interval{start: start, end: start + a.minBlockSize<<order, free: true})
		}
	}

	a.live.Iter(func(unit uint32, order int) bool {
		start := int(unit) * a.minBlockSize
		result = append(result, interval{start: start, end: start + a.minBlockSize<<order})
		return false
	})

	slices.SortFunc(result, func(left, right interval) int {
		return left.start - right.start
	})

	return result
}

// Validate verifies that the free blocks and live allocations tile [0, maxBlockSize) exactly,
// and that the free list position index agrees with the free lists
func (a *Allocator) Validate() error {
	indexed := 0
	for order, list := range a.freeLists {
		for position, unit := range list {
			if unit&((1<<order)-1) != 0 {
				return errors.Errorf("free block at unit %d is not aligned to its order %d", unit, order)
			}

			indexedPosition, ok := a.freeIndex.Get(blockKey{order: order, unit: unit})
			if !ok || indexedPosition != position {
				return errors.Errorf("free block at unit %d order %d is missing from the position index", unit, order)
			}
			indexed++
		}
	}

	if indexed != a.freeIndex.Count() {
		return errors.Errorf("the position index holds %d blocks but the free lists hold %d", a.freeIndex.Count(), indexed)
	}

	nextOffset := 0
	allocatedSize := 0
	for _, block := range a.intervals() {
		if block.start != nextOffset {
			return errors.Errorf("block at offset %d does not start at the previous block's end offset %d", block.start, nextOffset)
		}

		if !block.free {
			allocatedSize += block.end - block.start
		}
		nextOffset = block.end
	}

	if nextOffset != a.maxBlockSize {
		return errors.Errorf("the full size of the allocator is %d, but the blocks only added up to %d", a.maxBlockSize, nextOffset)
	}

	if allocatedSize != a.allocatedSize {
		return errors.Errorf("the allocated size of the allocator is %d, but the live blocks added up to %d", a.allocatedSize, allocatedSize)
	}

	return nil
}

func (a *Allocator) AddStatistics(stats *memutils.MemoryStatistics) {
	stats.AddPage(a.maxBlockSize)
	stats.AllocationCount += a.live.Count()
	stats.AllocationBytes += a.allocatedSize
}

// AddBuddyStatistics adds this page and its free and live blocks per order
func (a *Allocator) AddBuddyStatistics(stats *memutils.BuddyStatistics) {
	a.AddStatistics(&stats.MemoryStatistics)

	for order, list := range a.freeLists {
		for range list {
			stats.AddFreeBlock(order, a.minBlockSize<<order)
		}
	}

	a.live.Iter(func(_ uint32, order int) bool {
		stats.AddLiveBlock(order)
		return false
	})
}

// BlockJsonData populates a json object with information about this allocator
func (a *Allocator) BlockJsonData(json *jwriter.ObjectState) {
	json.Name("Name").String(a.name)
	json.Name("TotalBytes").Int(a.maxBlockSize)
	json.Name("UnusedBytes").Int(a.SumFreeSize())
	json.Name("Allocations").Int(a.live.Count())
	json.Name("UnusedRanges").Int(a.freeIndex.Count())
	json.Name("MinBlockSize").Int(a.minBlockSize)

	freeBlocks := json.Name("FreeBlocksPerOrder").Array()
	for _, list := range a.freeLists {
		freeBlocks.Int(len(list))
	}
	freeBlocks.End()
}
