package gfx

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/dolthub/swiss"
	"github.com/vkngwrapper/gfxcore/gfx/driver"
	"github.com/vkngwrapper/gfxcore/memutils"
	"github.com/vkngwrapper/gfxcore/memutils/release"
	"golang.org/x/exp/slog"
)

type descriptorSlot struct {
	page  int
	index int
}

func (s descriptorSlot) key() uint64 {
	return uint64(s.page)<<32 | uint64(s.index)
}

// OfflineDescriptor is a long-lived descriptor in a heap that is not shader visible. Releasing it
// bumps the version of its slot, so copies of a released descriptor report IsValid false even
// after the slot has been reused.
type OfflineDescriptor struct {
	allocator *OfflineDescriptorAllocator
	handle    driver.CPUDescriptorHandle
	slot      descriptorSlot
	version   uint32
}

func (d OfflineDescriptor) IsValid() bool {
	if d.allocator == nil {
		return false
	}

	version, ok := d.allocator.versions.Get(d.slot.key())
	return ok && version == d.version
}

func (d OfflineDescriptor) Handle() driver.CPUDescriptorHandle { return d.handle }
func (d OfflineDescriptor) Version() uint32                    { return d.version }

// OfflineDescriptorAllocator hands out single descriptors from pages of a fixed size. Released
// descriptors are reused once the frame that released them has finished on the GPU.
type OfflineDescriptorAllocator struct {
	logger   *slog.Logger
	name     string
	device   driver.Device
	fences   FrameFences
	heapType driver.DescriptorHeapType
	pageSize int

	pages    []*DescriptorHeap
	cursor   int
	versions *swiss.Map[uint64, uint32]
	releases release.Queue[descriptorSlot]
	live     int
}

func NewOfflineDescriptorAllocator(logger *slog.Logger, device driver.Device, fences FrameFences, heapType driver.DescriptorHeapType, pageSize int) *OfflineDescriptorAllocator {
	return &OfflineDescriptorAllocator{
		logger:   logger,
		name:     fmt.Sprintf("Offline%sDescriptors", heapType),
		device:   device,
		fences:   fences,
		heapType: heapType,
		pageSize: pageSize,
		versions: swiss.NewMap[uint64, uint32](uint32(pageSize)),
	}
}

func (a *OfflineDescriptorAllocator) Type() driver.DescriptorHeapType { return a.heapType }
func (a *OfflineDescriptorAllocator) PageCount() int                  { return len(a.pages) }
func (a *OfflineDescriptorAllocator) LiveCount() int                  { return a.live }
func (a *OfflineDescriptorAllocator) PendingReleases() int            { return a.releases.Len() }

func (a *OfflineDescriptorAllocator) AddStatistics(stats *memutils.DescriptorStatistics) {
	stats.HeapCount += len(a.pages)
	stats.Capacity += len(a.pages) * a.pageSize
	stats.InUse += a.live
	stats.PendingRelease += a.releases.Len()
}

// Allocate returns a free descriptor, reusing a released one when the GPU is done with it
func (a *OfflineDescriptorAllocator) Allocate() (OfflineDescriptor, error) {
	slot, ok := a.releases.PopCompleted(a.fences.IsFrameFenceCompleted)
	if !ok {
		if len(a.pages) == 0 || a.cursor == a.pageSize {
			err := a.appendPage()
			if err != nil {
				return OfflineDescriptor{}, err
			}
		}

		slot = descriptorSlot{page: len(a.pages) - 1, index: a.cursor}
		a.cursor++
		a.versions.Put(slot.key(), 1)
	}

	version, _ := a.versions.Get(slot.key())
	a.live++

	return OfflineDescriptor{
		allocator: a,
		handle:    a.pages[slot.page].CPUHandle(slot.index),
		slot:      slot,
		version:   version,
	}, nil
}

func (a *OfflineDescriptorAllocator) appendPage() error {
	heap, err := NewDescriptorHeap(a.device, a.heapType, a.pageSize, false)
	if err != nil {
		return err
	}

	a.pages = append(a.pages, heap)
	a.cursor = 0

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "OfflineDescriptorAllocator::appendPage",
		slog.String("Name", a.name),
		slog.Int("PageCount", len(a.pages)),
		slog.Int("PageSize", a.pageSize),
	)

	return nil
}

// Release invalidates the descriptor and queues its slot for reuse after the current frame.
// Releasing a descriptor that is already invalid panics.
func (a *OfflineDescriptorAllocator) Release(descriptor OfflineDescriptor) {
	if descriptor.allocator != a {
		panic(errors.AssertionFailedf("%s received a descriptor it did not allocate", a.name))
	}

	if !descriptor.IsValid() {
		panic(errors.AssertionFailedf("%s received a stale descriptor (page %d, index %d, version %d)", a.name, descriptor.slot.page, descriptor.slot.index, descriptor.version))
	}

	a.versions.Put(descriptor.slot.key(), descriptor.version+1)
	a.releases.Push(a.fences.GetNextFrameFence(), descriptor.slot)
	a.live--
}

func (a *OfflineDescriptorAllocator) Destroy() {
	if a.live > 0 {
		a.logger.LogAttrs(context.Background(), slog.LevelWarn, "[UNRELEASED DESCRIPTORS] offline allocator destroyed with live descriptors",
			slog.String("Name", a.name),
			slog.Int("Count", a.live),
		)
	}

	for _, page := range a.pages {
		page.Destroy()
	}

	a.pages = nil
	a.cursor = 0
	a.versions.Clear()
	a.releases.Clear()
	a.live = 0
}
