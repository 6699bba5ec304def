package gfx

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/gfxcore/gfx/driver"
	"github.com/vkngwrapper/gfxcore/gfx/internal/utils"
	"github.com/vkngwrapper/gfxcore/memutils/release"
	"golang.org/x/exp/slog"
)

// CommandQueue owns one hardware queue, a private fence, and the pool of command allocators used by
// lists executed on that queue. An allocator is only handed out again once the fence value signaled
// when it was released has completed.
//
// CommandQueue is used by both the producer thread and the submission goroutine, so its methods
// are synchronized unless the device was created with DeviceCreateExternallySynchronized.
type CommandQueue struct {
	logger    *slog.Logger
	device    driver.Device
	queueType driver.QueueType
	queue     driver.Queue
	fence     *Fence

	mutex          utils.OptionalMutex
	allocators     release.Queue[driver.CommandAllocator]
	allocatorCount int
}

func newCommandQueue(logger *slog.Logger, device driver.Device, queueType driver.QueueType, useMutex bool) (*CommandQueue, error) {
	queue, err := device.CreateCommandQueue(queueType)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create %s command queue", queueType)
	}

	fence, err := NewFence(device, queueType.String()+"Queue", 0)
	if err != nil {
		return nil, err
	}

	return &CommandQueue{
		logger:    logger,
		device:    device,
		queueType: queueType,
		queue:     queue,
		fence:     fence,
		mutex: utils.OptionalMutex{
			UseMutex: useMutex,
		},
	}, nil
}

func (q *CommandQueue) Type() driver.QueueType { return q.queueType }
func (q *CommandQueue) Driver() driver.Queue   { return q.queue }
func (q *CommandQueue) Fence() *Fence          { return q.fence }

// AllocatorCount returns the number of command allocators this queue has created
func (q *CommandQueue) AllocatorCount() int {
	defer q.mutex.Guard()()
	return q.allocatorCount
}

// RequestCommandAllocator returns a reset allocator whose previous contents the GPU has finished
// executing, creating a new one if none is available
func (q *CommandQueue) RequestCommandAllocator() (driver.CommandAllocator, error) {
	defer q.mutex.Guard()()

	allocator, ok := q.allocators.PopCompleted(q.fence.IsCompleted)
	if ok {
		err := allocator.Reset()
		if err != nil {
			return nil, errors.Wrapf(err, "failed to reset %s command allocator", q.queueType)
		}

		return allocator, nil
	}

	allocator, err := q.device.CreateCommandAllocator(q.queueType)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create %s command allocator", q.queueType)
	}
	q.allocatorCount++

	q.logger.LogAttrs(context.Background(), slog.LevelDebug, "CommandQueue::RequestCommandAllocator created allocator",
		slog.String("QueueType", q.queueType.String()),
		slog.Int("AllocatorCount", q.allocatorCount))

	return allocator, nil
}

// ReleaseCommandAllocator signals the queue fence after all work submitted so far and returns the
// allocator to the pool, gated on that signal
func (q *CommandQueue) ReleaseCommandAllocator(allocator driver.CommandAllocator) (SyncPoint, error) {
	defer q.mutex.Guard()()

	value, err := q.fence.SignalNextValueOnGpu(q.queue)
	if err != nil {
		return SyncPoint{}, err
	}

	q.allocators.Push(value, allocator)
	return NewSyncPoint(q.fence, value), nil
}

// CreateSyncPoint signals the queue fence after all work submitted so far
func (q *CommandQueue) CreateSyncPoint() (SyncPoint, error) {
	defer q.mutex.Guard()()

	value, err := q.fence.SignalNextValueOnGpu(q.queue)
	if err != nil {
		return SyncPoint{}, err
	}

	return NewSyncPoint(q.fence, value), nil
}

// WaitOnGpu makes work submitted to this queue after this call wait for syncPoint. Invalid sync
// points are ignored.
func (q *CommandQueue) WaitOnGpu(syncPoint SyncPoint) error {
	if !syncPoint.IsValid() {
		return nil
	}

	defer q.mutex.Guard()()
	return syncPoint.fence.WaitOnGpu(q.queue, syncPoint.value)
}

// ExecuteCommandList submits a closed list
func (q *CommandQueue) ExecuteCommandList(list driver.CommandList) error {
	defer q.mutex.Guard()()

	err := q.queue.ExecuteCommandLists(list)
	if err != nil {
		return errors.Wrapf(err, "failed to execute command list on the %s queue", q.queueType)
	}

	return nil
}

// WaitIdle blocks until the GPU has finished all work submitted to this queue
func (q *CommandQueue) WaitIdle() error {
	syncPoint, err := q.CreateSyncPoint()
	if err != nil {
		return err
	}

	return syncPoint.WaitOnCpu()
}

// Destroy destroys every pooled allocator and the queue fence. The queue must be idle.
func (q *CommandQueue) Destroy() {
	defer q.mutex.Guard()()

	for !q.allocators.Empty() {
		_, allocator, _ := q.allocators.Pop()
		allocator.Destroy()
	}

	q.fence.Destroy()
}
