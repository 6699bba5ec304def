package gfx

import (
	"context"
	"math"
	"sync"
	"sync/atomic"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/gfxcore/gfx/driver"
	"github.com/vkngwrapper/gfxcore/memutils/release"
	"golang.org/x/exp/slog"
	"golang.org/x/sync/errgroup"
)

// submitEntry is one item of a submission buffer
type submitEntry interface {
	isSubmitEntry()
}

// listEntry executes a deferred command list
type listEntry struct {
	list *CommandList
}

// syncPointWaitEntry makes the Direct queue wait for a sync point
type syncPointWaitEntry struct {
	syncPoint SyncPoint
}

// futureWaitEntry makes the Direct queue wait for a deferred list drained earlier in the same pass
type futureWaitEntry struct {
	future FutureSyncPoint
}

// frameFenceEntry signals every queue's frame fence to value
type frameFenceEntry struct {
	value uint64
}

func (listEntry) isSubmitEntry()          {}
func (syncPointWaitEntry) isSubmitEntry() {}
func (futureWaitEntry) isSubmitEntry()    {}
func (frameFenceEntry) isSubmitEntry()    {}

type queueData struct {
	queue      *CommandQueue
	frameFence *Fence

	freeContexts  []*CommandContext
	freeLists     release.Queue[*CommandList]
	lastFreeValue uint64
}

// CommandManager owns the command queues and hands out pooled command contexts. Deferred command
// lists are appended to the producer's half of a double buffer, and a submission goroutine executes
// them after the producer swaps buffers at the frame boundary.
//
// Everything except the swap handshake must be called from the producer thread.
type CommandManager struct {
	logger       *slog.Logger
	device       driver.Device
	frame        FrameAllocator
	queues       [driver.QueueTypeCount]*queueData
	allLists     []*CommandList
	contextCount int

	completedFrameFence atomic.Uint64

	synchronous bool
	group       *errgroup.Group

	mutex     sync.Mutex
	mainCond  *sync.Cond
	rhiCond   *sync.Cond
	buffers   [2][]submitEntry
	mainIndex int
	rhiIndex  int
	version   uint64
	drained   uint64
	swapping  bool
	shutdown  bool
	finished  bool
	rhiErr    error
	rhiPanic  any
}

// NewCommandManager creates a queue and frame fence per queue type. Unless synchronous is set, the
// submission goroutine is started immediately. frame may be nil if contexts will never allocate
// upload memory or descriptor tables.
func NewCommandManager(logger *slog.Logger, device driver.Device, frame FrameAllocator, synchronous bool, useMutex bool) (*CommandManager, error) {
	m := &CommandManager{
		logger:      logger,
		device:      device,
		frame:       frame,
		synchronous: synchronous,
		mainIndex:   0,
		rhiIndex:    1,
		version:     1,
	}
	m.mainCond = sync.NewCond(&m.mutex)
	m.rhiCond = sync.NewCond(&m.mutex)

	for i := range m.queues {
		queueType := driver.QueueType(i)

		queue, err := newCommandQueue(logger, device, queueType, useMutex || !synchronous)
		if err != nil {
			m.destroyQueues()
			return nil, err
		}

		frameFence, err := NewFence(device, queueType.String()+"FrameFence", 0)
		if err != nil {
			queue.Destroy()
			m.destroyQueues()
			return nil, err
		}

		m.queues[i] = &queueData{
			queue:      queue,
			frameFence: frameFence,
		}
	}

	if !synchronous {
		m.group = &errgroup.Group{}
		m.group.Go(m.runSubmission)
	}

	return m, nil
}

func (m *CommandManager) destroyQueues() {
	for _, data := range m.queues {
		if data == nil {
			continue
		}

		data.queue.Destroy()
		data.frameFence.Destroy()
	}
}

func (m *CommandManager) Queue(queueType driver.QueueType) *CommandQueue {
	return m.queues[queueType].queue
}

// ContextCount returns the number of command contexts created so far
func (m *CommandManager) ContextCount() int { return m.contextCount }

// ListCount returns the number of command lists created so far
func (m *CommandManager) ListCount() int { return len(m.allLists) }

// RequestAndOpenContext returns an open context from the pool of the provided type, creating a
// new one if the pool is empty
func (m *CommandManager) RequestAndOpenContext(queueType driver.QueueType) (*CommandContext, error) {
	if m.isShutdown() {
		return nil, ErrShutdown
	}

	data := m.queues[queueType]

	list, err := m.requestList(data)
	if err != nil {
		return nil, err
	}

	var ctx *CommandContext
	if len(data.freeContexts) > 0 {
		ctx = data.freeContexts[0]
		data.freeContexts[0] = nil
		data.freeContexts = data.freeContexts[1:]
	} else {
		ctx = newCommandContext(m, queueType)
		m.contextCount++

		m.logger.LogAttrs(context.Background(), slog.LevelDebug, "CommandManager::RequestAndOpenContext created context",
			slog.String("QueueType", queueType.String()),
			slog.Int("ContextCount", m.contextCount))
	}

	ctx.open(list)
	return ctx, nil
}

func (m *CommandManager) requestList(data *queueData) (*CommandList, error) {
	list, ok := data.freeLists.PopCompleted(data.queue.fence.IsCompleted)
	if ok {
		return list, nil
	}

	list, err := newCommandList(data.queue)
	if err != nil {
		return nil, err
	}

	m.allLists = append(m.allLists, list)
	return list, nil
}

// recycleList returns a list to its pool, gated on its last sync point. Lists recycled by the
// producer and by the handshake may finish out of order, so the gate never moves backwards.
func (m *CommandManager) recycleList(list *CommandList) {
	data := m.queues[list.Type()]

	value := max(list.lastSyncPoint.value, data.lastFreeValue)
	data.lastFreeValue = value
	data.freeLists.Push(value, list)
}

func (m *CommandManager) recycleContext(ctx *CommandContext) {
	data := m.queues[ctx.queueType]
	data.freeContexts = append(data.freeContexts, ctx)
}

// submitImmediate executes the list on the calling goroutine. The list goes back to the pool
// whether or not the execution succeeded.
func (m *CommandManager) submitImmediate(list *CommandList) (SyncPoint, error) {
	syncPoint, err := list.Execute(true)
	m.recycleList(list)
	if err != nil {
		return SyncPoint{}, err
	}

	return syncPoint, nil
}

// submitDeferred appends the list to the producer's buffer
func (m *CommandManager) submitDeferred(list *CommandList) FutureSyncPoint {
	future := FutureSyncPoint{
		bufferIndex:   len(m.buffers[m.mainIndex]),
		bufferVersion: m.version,
	}

	m.buffers[m.mainIndex] = append(m.buffers[m.mainIndex], listEntry{list: list})
	return future
}

// QueueWaitOnGpu makes the Direct queue wait for syncPoint once the submission goroutine reaches
// this point of the current buffer
func (m *CommandManager) QueueWaitOnGpu(syncPoint SyncPoint) {
	if syncPoint.IsValid() {
		m.buffers[m.mainIndex] = append(m.buffers[m.mainIndex], syncPointWaitEntry{syncPoint: syncPoint})
	}
}

// QueueWaitOnFuture makes the Direct queue wait for a deferred list of the current buffer
func (m *CommandManager) QueueWaitOnFuture(future FutureSyncPoint) {
	if future.IsValid() {
		m.buffers[m.mainIndex] = append(m.buffers[m.mainIndex], futureWaitEntry{future: future})
	}
}

// PendingEntryCount returns the number of entries appended to the producer's buffer since the
// last swap
func (m *CommandManager) PendingEntryCount() int {
	return len(m.buffers[m.mainIndex])
}

// GetNextFrameFence returns the value the frame fences will be signaled to at the end of this
// frame
func (m *CommandManager) GetNextFrameFence() uint64 {
	return m.queues[driver.QueueTypeDirect].frameFence.NextValue()
}

// CompletedFrameFence returns the watermark computed by the last RefreshCompletedFrameFence
func (m *CommandManager) CompletedFrameFence() uint64 {
	return m.completedFrameFence.Load()
}

func (m *CommandManager) IsFrameFenceCompleted(value uint64) bool {
	return value <= m.completedFrameFence.Load()
}

// RefreshCompletedFrameFence recomputes the lowest frame fence value completed by every queue
func (m *CommandManager) RefreshCompletedFrameFence() {
	completed := uint64(math.MaxUint64)
	for _, data := range m.queues {
		completed = min(completed, data.frameFence.CompletedValue())
	}

	m.completedFrameFence.Store(completed)
}

// SignalNextFrameFence ends the frame on every queue. The signals are issued after every list
// already appended to the current buffer has executed. If waitForGpuIdle is set, the buffer is
// handed to the submission goroutine and the call blocks until the GPU reaches the signals.
func (m *CommandManager) SignalNextFrameFence(waitForGpuIdle bool) error {
	var value uint64
	for _, data := range m.queues {
		value = data.frameFence.reserveNextValue()
	}

	m.buffers[m.mainIndex] = append(m.buffers[m.mainIndex], frameFenceEntry{value: value})

	if waitForGpuIdle {
		err := m.Flush()
		if err != nil {
			return err
		}

		for _, data := range m.queues {
			err = data.frameFence.WaitOnCpu(value)
			if err != nil {
				return err
			}
		}
	}

	m.RefreshCompletedFrameFence()
	return nil
}

func (m *CommandManager) signalFrameFences(value uint64) error {
	for _, data := range m.queues {
		err := data.frameFence.signalOnGpu(data.queue.queue, value)
		if err != nil {
			return err
		}
	}

	return nil
}

// Flush swaps buffers and blocks until the submission goroutine has executed every entry that was
// appended before the call
func (m *CommandManager) Flush() error {
	err := m.SyncOnMainThread()
	if err != nil {
		return err
	}

	if m.synchronous {
		return nil
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	target := m.version - 1
	for m.drained < target && !m.finished {
		m.mainCond.Wait()
	}

	return m.takeRHIFailure()
}

// WaitForGpuIdle executes every pending entry and blocks until all queues are idle
func (m *CommandManager) WaitForGpuIdle() error {
	err := m.Flush()
	if err != nil {
		return err
	}

	for _, data := range m.queues {
		err = data.queue.WaitIdle()
		if err != nil {
			return err
		}
	}

	m.RefreshCompletedFrameFence()
	return nil
}

// takeRHIFailure rethrows a panic raised while draining and returns the fatal error that stopped
// the submission goroutine, if any. The mutex must be held.
func (m *CommandManager) takeRHIFailure() error {
	if m.rhiPanic != nil {
		recovered := m.rhiPanic
		m.rhiPanic = nil
		panic(recovered)
	}

	return m.rhiErr
}

func (m *CommandManager) isShutdown() bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	return m.shutdown
}

// SyncOnMainThread hands the producer's buffer to the submission goroutine and blocks until the
// goroutine has swapped buffers. It does not wait for the handed buffer to be drained.
func (m *CommandManager) SyncOnMainThread() error {
	return m.requestSwap(false)
}

func (m *CommandManager) requestSwap(shutdown bool) error {
	if m.synchronous {
		m.mutex.Lock()
		if shutdown {
			m.shutdown = true
		}
		buffer, version := m.swap()
		m.mutex.Unlock()

		return m.drain(buffer, version)
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.finished {
		err := m.takeRHIFailure()
		if err != nil {
			return err
		}

		return ErrShutdown
	}

	m.swapping = true
	if shutdown {
		m.shutdown = true
	}
	m.rhiCond.Signal()

	for m.swapping && !m.finished {
		m.mainCond.Wait()
	}

	return m.takeRHIFailure()
}

// swap recycles the lists of the buffer drained last time, swaps the buffers, and returns the
// buffer to drain next along with its version. The mutex must be held.
func (m *CommandManager) swap() ([]submitEntry, uint64) {
	previous := m.buffers[m.rhiIndex]
	for i, entry := range previous {
		if listEntry, ok := entry.(listEntry); ok {
			m.recycleList(listEntry.list)
		}
		previous[i] = nil
	}
	m.buffers[m.rhiIndex] = previous[:0]

	m.mainIndex, m.rhiIndex = m.rhiIndex, m.mainIndex
	drainedVersion := m.version
	m.version++
	m.swapping = false

	return m.buffers[m.rhiIndex], drainedVersion
}

// syncOnRHIThread blocks until the producer requests a swap, then performs it
func (m *CommandManager) syncOnRHIThread() ([]submitEntry, uint64, bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for !m.swapping {
		m.rhiCond.Wait()
	}

	buffer, version := m.swap()
	m.mainCond.Broadcast()

	return buffer, version, m.shutdown
}

func (m *CommandManager) runSubmission() (err error) {
	defer func() {
		recovered := recover()

		m.mutex.Lock()
		defer m.mutex.Unlock()

		if recovered != nil {
			m.rhiPanic = recovered
			err = errors.Newf("submission goroutine panicked: %v", recovered)
		}

		m.rhiErr = err
		m.finished = true
		m.mainCond.Broadcast()
	}()

	for {
		buffer, version, shutdown := m.syncOnRHIThread()

		err := m.drain(buffer, version)
		if err != nil {
			m.logger.LogAttrs(context.Background(), slog.LevelError, "submission goroutine stopped", slog.Any("error", err))
			return err
		}

		m.mutex.Lock()
		m.drained = version
		m.mainCond.Broadcast()
		m.mutex.Unlock()

		if shutdown {
			return nil
		}
	}
}

// drain executes a buffer in append order. Future sync points may only refer to list entries that
// precede them in the same buffer.
func (m *CommandManager) drain(buffer []submitEntry, version uint64) error {
	results := make([]SyncPoint, len(buffer))

	resolve := func(future FutureSyncPoint, at int) SyncPoint {
		if future.bufferVersion != version {
			panic(errors.AssertionFailedf("future sync point from buffer version %d was resolved against version %d", future.bufferVersion, version))
		}

		if future.bufferIndex >= at || !results[future.bufferIndex].IsValid() {
			panic(errors.AssertionFailedf("future sync point %d does not refer to a list executed before entry %d", future.bufferIndex, at))
		}

		return results[future.bufferIndex]
	}

	direct := m.queues[driver.QueueTypeDirect].queue

	for i, entry := range buffer {
		switch entry := entry.(type) {
		case listEntry:
			entry.list.resolveFutureWaits(func(future FutureSyncPoint) SyncPoint {
				return resolve(future, i)
			})

			syncPoint, err := entry.list.Execute(false)
			if err != nil {
				return err
			}
			results[i] = syncPoint

		case syncPointWaitEntry:
			err := direct.WaitOnGpu(entry.syncPoint)
			if err != nil {
				return err
			}

		case futureWaitEntry:
			err := direct.WaitOnGpu(resolve(entry.future, i))
			if err != nil {
				return err
			}

		case frameFenceEntry:
			err := m.signalFrameFences(entry.value)
			if err != nil {
				return err
			}
		}
	}

	return nil
}

// Shutdown hands the final buffer to the submission goroutine, waits for it to exit, and waits for
// the GPU to finish all submitted work
func (m *CommandManager) Shutdown() error {
	if m.isShutdown() {
		return ErrShutdown
	}

	err := m.requestSwap(true)
	if err != nil {
		return err
	}

	if m.group != nil {
		err = m.group.Wait()
		if err != nil {
			return err
		}
	}

	for _, data := range m.queues {
		err = data.queue.WaitIdle()
		if err != nil {
			return err
		}
	}

	m.RefreshCompletedFrameFence()
	return nil
}

// Destroy releases every driver object owned by the manager. Shutdown must have been called.
func (m *CommandManager) Destroy() {
	for _, list := range m.allLists {
		list.Destroy()
	}
	m.allLists = nil

	for _, data := range m.queues {
		data.freeContexts = nil
		data.freeLists.Clear()
	}

	m.destroyQueues()
}
