package gfx

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/gfxcore/gfx/driver"
	"github.com/vkngwrapper/gfxcore/memutils"
	"github.com/vkngwrapper/gfxcore/memutils/release"
	"golang.org/x/exp/slog"
)

// OnlineDescriptorAllocatorFactory creates an online allocator when none can be recycled
type OnlineDescriptorAllocatorFactory func() (OnlineDescriptorTableAllocator, error)

type tableAllocator interface {
	AllocateTable(count int) (DescriptorTable, bool)
}

// OnlineDescriptorMultiAllocator switches to a fresh online allocator when the current one is
// full. Retired allocators are reset and reused once the frame that retired them has finished.
type OnlineDescriptorMultiAllocator struct {
	logger  *slog.Logger
	name    string
	fences  FrameFences
	factory OnlineDescriptorAllocatorFactory

	current OnlineDescriptorTableAllocator
	retired release.Queue[OnlineDescriptorTableAllocator]
	all     []OnlineDescriptorTableAllocator
}

func NewOnlineDescriptorMultiAllocator(logger *slog.Logger, name string, fences FrameFences, factory OnlineDescriptorAllocatorFactory) (*OnlineDescriptorMultiAllocator, error) {
	m := &OnlineDescriptorMultiAllocator{
		logger:  logger,
		name:    name,
		fences:  fences,
		factory: factory,
	}

	var err error
	m.current, err = m.create()
	if err != nil {
		return nil, err
	}

	return m, nil
}

func (m *OnlineDescriptorMultiAllocator) Current() OnlineDescriptorTableAllocator { return m.current }
func (m *OnlineDescriptorMultiAllocator) AllocatorCount() int                     { return len(m.all) }

func (m *OnlineDescriptorMultiAllocator) create() (OnlineDescriptorTableAllocator, error) {
	allocator, err := m.factory()
	if err != nil {
		return nil, errors.Wrapf(err, "%s failed to create an online allocator", m.name)
	}

	m.all = append(m.all, allocator)
	m.logger.LogAttrs(context.Background(), slog.LevelDebug, "OnlineDescriptorMultiAllocator::create",
		slog.String("Name", m.name),
		slog.Int("AllocatorCount", len(m.all)),
		slog.Int("Capacity", allocator.NumMaxDescriptors()),
	)

	return allocator, nil
}

// Allocate copies srcs into a table of the current allocator, rolling over to another allocator
// once if the current one is full. The heap the table lives in is returned so that callers can
// rebind descriptor heaps when it changes.
func (m *OnlineDescriptorMultiAllocator) Allocate(srcs []driver.CPUDescriptorHandle) (driver.GPUDescriptorHandle, *DescriptorHeap, error) {
	base, ok := m.current.Allocate(srcs)
	if ok {
		return base, m.current.Heap(), nil
	}

	err := m.Rollover()
	if err != nil {
		return driver.GPUDescriptorHandle{}, nil, err
	}

	base, ok = m.current.Allocate(srcs)
	if !ok {
		return driver.GPUDescriptorHandle{}, nil, errors.Wrapf(ErrAllocationTooLarge, "%s: a table of %d descriptors does not fit an empty allocator of %d", m.name, len(srcs), m.current.NumMaxDescriptors())
	}

	return base, m.current.Heap(), nil
}

// AllocateTable reserves count uninitialized descriptors, rolling over like Allocate. Only
// allocators that can hand out unkeyed tables support it.
func (m *OnlineDescriptorMultiAllocator) AllocateTable(count int) (DescriptorTable, error) {
	current, ok := m.current.(tableAllocator)
	if !ok {
		panic(errors.AssertionFailedf("%s cannot allocate uninitialized tables", m.name))
	}

	table, ok := current.AllocateTable(count)
	if ok {
		return table, nil
	}

	err := m.Rollover()
	if err != nil {
		return DescriptorTable{}, err
	}

	table, ok = m.current.(tableAllocator).AllocateTable(count)
	if !ok {
		return DescriptorTable{}, errors.Wrapf(ErrAllocationTooLarge, "%s: a table of %d descriptors does not fit an empty allocator of %d", m.name, count, m.current.NumMaxDescriptors())
	}

	return table, nil
}

// Rollover retires the current allocator until the end of the current frame and makes a recycled
// or new allocator current
func (m *OnlineDescriptorMultiAllocator) Rollover() error {
	m.retired.Push(m.fences.GetNextFrameFence(), m.current)

	next, ok := m.retired.PopCompleted(m.fences.IsFrameFenceCompleted)
	if ok {
		next.Reset()
		m.current = next
		return nil
	}

	next, err := m.create()
	if err != nil {
		return err
	}

	m.current = next
	return nil
}

// AddStatistics counts every heap this allocator created. Retired heaps count as pending release
// until the GPU is done with them.
func (m *OnlineDescriptorMultiAllocator) AddStatistics(stats *memutils.DescriptorStatistics) {
	stats.HeapCount += len(m.all)
	for _, allocator := range m.all {
		stats.Capacity += allocator.NumMaxDescriptors()
	}

	stats.InUse += m.current.UsedCount()
	m.retired.Visit(func(_ uint64, allocator OnlineDescriptorTableAllocator) {
		stats.PendingRelease += allocator.UsedCount()
	})
}

func (m *OnlineDescriptorMultiAllocator) CleanUpAllocations() {
	m.current.CleanUpAllocations()
}

func (m *OnlineDescriptorMultiAllocator) Destroy() {
	for _, allocator := range m.all {
		allocator.Destroy()
	}

	m.all = nil
	m.current = nil
	m.retired.Clear()
}
