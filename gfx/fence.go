package gfx

import (
	"sync/atomic"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/gfxcore/gfx/driver"
)

// Fence is a monotonic counter shared by the CPU and GPU. Each signal uses the next value in
// sequence, and a value is completed once the hardware counter has reached it.
type Fence struct {
	name      string
	hw        driver.Fence
	nextValue atomic.Uint64
}

// NewFence creates a driver fence starting at initialValue. The first signal will use
// initialValue+1.
func NewFence(device driver.Device, name string, initialValue uint64) (*Fence, error) {
	hw, err := device.CreateFence(initialValue)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create fence %q", name)
	}

	f := &Fence{
		name: name,
		hw:   hw,
	}
	f.nextValue.Store(initialValue + 1)

	return f, nil
}

func (f *Fence) Name() string { return f.name }

// NextValue returns the value the next signal will use
func (f *Fence) NextValue() uint64 { return f.nextValue.Load() }

// CompletedValue returns the highest value the hardware counter has reached
func (f *Fence) CompletedValue() uint64 { return f.hw.CompletedValue() }

// IsCompleted returns true once the hardware counter has reached value
func (f *Fence) IsCompleted(value uint64) bool {
	return value <= f.hw.CompletedValue()
}

// SignalNextValueOnGpu enqueues a signal of the next value on the provided queue and returns the
// value signaled
func (f *Fence) SignalNextValueOnGpu(queue driver.Queue) (uint64, error) {
	value := f.reserveNextValue()

	err := f.signalOnGpu(queue, value)
	if err != nil {
		return 0, err
	}

	return value, nil
}

// reserveNextValue claims the next value without signaling it, for signals that are issued later
// by another goroutine
func (f *Fence) reserveNextValue() uint64 {
	return f.nextValue.Add(1) - 1
}

func (f *Fence) signalOnGpu(queue driver.Queue, value uint64) error {
	err := queue.Signal(f.hw, value)
	if err != nil {
		return errors.Wrapf(err, "failed to signal fence %q to %d on the %s queue", f.name, value, queue.Type())
	}

	return nil
}

// SignalNextValueOnCpu sets the hardware counter to the next value from the CPU and returns the value
// signaled
func (f *Fence) SignalNextValueOnCpu() (uint64, error) {
	value := f.reserveNextValue()

	err := f.hw.Signal(value)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to signal fence %q to %d on the CPU", f.name, value)
	}

	return value, nil
}

// WaitOnCpu blocks until the hardware counter reaches value
func (f *Fence) WaitOnCpu(value uint64) error {
	if f.IsCompleted(value) {
		return nil
	}

	err := f.hw.WaitForValue(value)
	if err != nil {
		return errors.Wrapf(err, "failed to wait for fence %q to reach %d", f.name, value)
	}

	return nil
}

// WaitOnGpu makes all work submitted to queue after this call wait until the hardware counter
// reaches value. The CPU does not block.
func (f *Fence) WaitOnGpu(queue driver.Queue, value uint64) error {
	err := queue.Wait(f.hw, value)
	if err != nil {
		return errors.Wrapf(err, "failed to make the %s queue wait for fence %q to reach %d", queue.Type(), f.name, value)
	}

	return nil
}

func (f *Fence) Destroy() {
	f.hw.Destroy()
}

// SyncPoint is a fence value that marks the completion of a specific piece of GPU work. The zero
// SyncPoint is invalid and is always considered complete.
type SyncPoint struct {
	fence *Fence
	value uint64
}

// NewSyncPoint creates a sync point that completes once fence reaches value
func NewSyncPoint(fence *Fence, value uint64) SyncPoint {
	return SyncPoint{fence: fence, value: value}
}

func (s SyncPoint) IsValid() bool { return s.fence != nil }
func (s SyncPoint) Fence() *Fence { return s.fence }
func (s SyncPoint) Value() uint64 { return s.value }

func (s SyncPoint) IsCompleted() bool {
	if s.fence == nil {
		return true
	}

	return s.fence.IsCompleted(s.value)
}

// WaitOnCpu blocks until the sync point completes
func (s SyncPoint) WaitOnCpu() error {
	if s.fence == nil {
		return nil
	}

	return s.fence.WaitOnCpu(s.value)
}

// FutureSyncPoint stands in for the SyncPoint of a deferred command list that has not been executed
// yet. bufferIndex is the position of the list's entry in the submission buffer it was appended to,
// and bufferVersion is that buffer's version at the time. The submission goroutine resolves it
// while draining that buffer. The zero FutureSyncPoint is invalid.
type FutureSyncPoint struct {
	bufferIndex   int
	bufferVersion uint64
}

func (f FutureSyncPoint) IsValid() bool { return f.bufferVersion != 0 }

func (f FutureSyncPoint) BufferIndex() int      { return f.bufferIndex }
func (f FutureSyncPoint) BufferVersion() uint64 { return f.bufferVersion }
