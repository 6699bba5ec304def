package gfx_test

import (
	"fmt"
	"io"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/gfxcore/gfx"
	"github.com/vkngwrapper/gfxcore/gfx/driver"
	"github.com/vkngwrapper/gfxcore/gfx/driver/soft"
	"golang.org/x/exp/slog"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func newTestManager(t *testing.T, device *soft.Device, synchronous bool) *gfx.CommandManager {
	manager, err := gfx.NewCommandManager(testLogger(), device, nil, synchronous, true)
	require.NoError(t, err)
	return manager
}

func shutdownManager(t *testing.T, manager *gfx.CommandManager) {
	require.NoError(t, manager.Shutdown())
	manager.Destroy()
}

func softQueue(manager *gfx.CommandManager, queueType driver.QueueType) *soft.Queue {
	return manager.Queue(queueType).Driver().(*soft.Queue)
}

func TestCommandManagerDrainsDeferredListsInOrder(t *testing.T) {
	device := soft.NewDevice(soft.Options{})
	manager := newTestManager(t, device, false)
	defer shutdownManager(t, manager)

	var expected []string
	for i := 0; i < 5; i++ {
		ctx, err := manager.RequestAndOpenContext(driver.QueueTypeDirect)
		require.NoError(t, err)

		name := fmt.Sprintf("list %d", i)
		expected = append(expected, name)

		ctx.BeginEvent(name)
		ctx.EndEvent()

		future := ctx.SubmitAndReleaseDeferred()
		require.True(t, future.IsValid())
		require.Equal(t, i, future.BufferIndex())
		require.Equal(t, uint64(1), future.BufferVersion())
	}

	queue := softQueue(manager, driver.QueueTypeDirect)
	require.Equal(t, 0, queue.ExecutedListCount())
	require.Equal(t, 5, manager.PendingEntryCount())

	require.NoError(t, manager.Flush())

	require.Equal(t, 5, queue.ExecutedListCount())
	require.Equal(t, expected, queue.ExecutedEvents())
	require.Equal(t, 0, manager.PendingEntryCount())
	require.Equal(t, 1, manager.ContextCount())
	require.Equal(t, 5, manager.ListCount())
}

func TestCommandManagerSynchronousSubmission(t *testing.T) {
	device := soft.NewDevice(soft.Options{})
	manager := newTestManager(t, device, true)
	defer shutdownManager(t, manager)

	for i := 0; i < 3; i++ {
		ctx, err := manager.RequestAndOpenContext(driver.QueueTypeAsyncCopy)
		require.NoError(t, err)
		ctx.BeginEvent(fmt.Sprintf("copy %d", i))
		ctx.SubmitAndReleaseDeferred()
	}

	queue := softQueue(manager, driver.QueueTypeAsyncCopy)
	require.Equal(t, 0, queue.ExecutedListCount())

	require.NoError(t, manager.SyncOnMainThread())
	require.Equal(t, []string{"copy 0", "copy 1", "copy 2"}, queue.ExecutedEvents())
}

func TestCommandContextPooling(t *testing.T) {
	device := soft.NewDevice(soft.Options{})
	manager := newTestManager(t, device, false)
	defer shutdownManager(t, manager)

	for i := 0; i < 3; i++ {
		ctx, err := manager.RequestAndOpenContext(driver.QueueTypeDirect)
		require.NoError(t, err)

		ctx.BeginEvent("pooled")
		ctx.EndEvent()

		syncPoint, err := ctx.SubmitAndRelease()
		require.NoError(t, err)
		require.True(t, syncPoint.IsCompleted())
		require.False(t, ctx.IsOpen())
	}

	require.Equal(t, 1, manager.ContextCount())
	require.Equal(t, 1, manager.ListCount())
	require.Equal(t, 1, device.CreatedCommandAllocators())
}

func TestOpenContextsAreDistinct(t *testing.T) {
	device := soft.NewDevice(soft.Options{})
	manager := newTestManager(t, device, false)
	defer shutdownManager(t, manager)

	first, err := manager.RequestAndOpenContext(driver.QueueTypeDirect)
	require.NoError(t, err)
	second, err := manager.RequestAndOpenContext(driver.QueueTypeDirect)
	require.NoError(t, err)

	require.NotSame(t, first, second)
	require.NotSame(t, first.List(), second.List())
	require.Equal(t, 2, manager.ContextCount())

	_, err = first.SubmitAndRelease()
	require.NoError(t, err)
	_, err = second.SubmitAndRelease()
	require.NoError(t, err)

	third, err := manager.RequestAndOpenContext(driver.QueueTypeDirect)
	require.NoError(t, err)
	require.Same(t, first, third)
	require.Equal(t, 2, manager.ListCount())

	_, err = third.SubmitAndRelease()
	require.NoError(t, err)
}

func TestContextsHeldTogetherAreDistinctThenReused(t *testing.T) {
	device := soft.NewDevice(soft.Options{})
	manager := newTestManager(t, device, false)
	defer shutdownManager(t, manager)

	held := make([]*gfx.CommandContext, 3)
	for i := range held {
		ctx, err := manager.RequestAndOpenContext(driver.QueueTypeDirect)
		require.NoError(t, err)
		held[i] = ctx
	}

	require.Equal(t, 3, manager.ContextCount())
	require.Equal(t, 3, manager.ListCount())
	for i := range held {
		for j := i + 1; j < len(held); j++ {
			require.NotSame(t, held[i], held[j])
			require.NotSame(t, held[i].List(), held[j].List())
		}
	}

	for _, ctx := range held {
		_, err := ctx.SubmitAndRelease()
		require.NoError(t, err)
	}

	for _, want := range held {
		ctx, err := manager.RequestAndOpenContext(driver.QueueTypeDirect)
		require.NoError(t, err)
		require.Same(t, want, ctx)
	}

	require.Equal(t, 3, manager.ContextCount())
	require.Equal(t, 3, manager.ListCount())

	for _, ctx := range held {
		_, err := ctx.SubmitAndRelease()
		require.NoError(t, err)
	}
}

func TestCommandListNotReusedBeforeFenceCompletes(t *testing.T) {
	device := soft.NewDevice(soft.Options{ManualFenceCompletion: true})
	manager := newTestManager(t, device, true)
	defer manager.Destroy()

	first, err := manager.RequestAndOpenContext(driver.QueueTypeDirect)
	require.NoError(t, err)
	firstList := first.List()

	syncPoint, err := first.SubmitAndRelease()
	require.NoError(t, err)
	require.False(t, syncPoint.IsCompleted())

	second, err := manager.RequestAndOpenContext(driver.QueueTypeDirect)
	require.NoError(t, err)
	require.NotSame(t, firstList, second.List())
	require.Equal(t, 2, manager.ListCount())

	device.CompletePendingSignals()
	require.True(t, syncPoint.IsCompleted())

	third, err := manager.RequestAndOpenContext(driver.QueueTypeDirect)
	require.NoError(t, err)
	require.Same(t, firstList, third.List())
	require.Equal(t, 2, manager.ListCount())
}

func TestImmediateSubmitWithFutureWaitPanics(t *testing.T) {
	device := soft.NewDevice(soft.Options{})
	manager := newTestManager(t, device, false)
	defer shutdownManager(t, manager)

	producer, err := manager.RequestAndOpenContext(driver.QueueTypeDirect)
	require.NoError(t, err)
	producer.BeginEvent("producer")
	future := producer.SubmitAndReleaseDeferred()

	consumer, err := manager.RequestAndOpenContext(driver.QueueTypeAsyncCompute)
	require.NoError(t, err)
	consumer.WaitOnFuture(future)
	consumer.BeginEvent("consumer")

	require.Panics(t, func() {
		_, _ = consumer.SubmitAndRelease()
	})
}

func TestFutureWaitIsInsertedBeforeDependentList(t *testing.T) {
	device := soft.NewDevice(soft.Options{})
	manager := newTestManager(t, device, false)
	defer shutdownManager(t, manager)

	producer, err := manager.RequestAndOpenContext(driver.QueueTypeDirect)
	require.NoError(t, err)
	producer.BeginEvent("producer")
	future := producer.SubmitAndReleaseDeferred()

	consumer, err := manager.RequestAndOpenContext(driver.QueueTypeAsyncCompute)
	require.NoError(t, err)
	consumer.WaitOnFuture(future)
	consumer.BeginEvent("consumer")
	consumer.SubmitAndReleaseDeferred()

	manager.QueueWaitOnFuture(future)

	require.NoError(t, manager.Flush())

	producerValue := manager.Queue(driver.QueueTypeDirect).Fence().CompletedValue()
	require.Equal(t, uint64(1), producerValue)

	computeWaits := softQueue(manager, driver.QueueTypeAsyncCompute).Waits()
	require.Len(t, computeWaits, 1)
	require.Equal(t, producerValue, computeWaits[0].Value)

	directWaits := softQueue(manager, driver.QueueTypeDirect).Waits()
	require.Len(t, directWaits, 1)
	require.Equal(t, producerValue, directWaits[0].Value)

	require.Equal(t, []string{"consumer"}, softQueue(manager, driver.QueueTypeAsyncCompute).ExecutedEvents())
}

func TestFutureSyncPointFromOlderBufferPanics(t *testing.T) {
	device := soft.NewDevice(soft.Options{})
	manager := newTestManager(t, device, true)
	defer manager.Destroy()

	producer, err := manager.RequestAndOpenContext(driver.QueueTypeDirect)
	require.NoError(t, err)
	future := producer.SubmitAndReleaseDeferred()

	require.NoError(t, manager.SyncOnMainThread())

	consumer, err := manager.RequestAndOpenContext(driver.QueueTypeDirect)
	require.NoError(t, err)
	consumer.WaitOnFuture(future)
	consumer.SubmitAndReleaseDeferred()

	require.Panics(t, func() {
		_ = manager.SyncOnMainThread()
	})
}

func TestSubmissionPanicIsRethrownOnProducer(t *testing.T) {
	device := soft.NewDevice(soft.Options{})
	manager := newTestManager(t, device, false)
	defer manager.Destroy()

	producer, err := manager.RequestAndOpenContext(driver.QueueTypeDirect)
	require.NoError(t, err)
	future := producer.SubmitAndReleaseDeferred()
	require.NoError(t, manager.Flush())

	manager.QueueWaitOnFuture(future)

	require.Panics(t, func() {
		_ = manager.Flush()
	})
}

func TestSubmissionErrorIsReturnedOnProducer(t *testing.T) {
	device := soft.NewDevice(soft.Options{})
	manager := newTestManager(t, device, false)
	defer manager.Destroy()

	deviceLost := errors.New("device lost")
	device.FailNextExecute(deviceLost)

	ctx, err := manager.RequestAndOpenContext(driver.QueueTypeDirect)
	require.NoError(t, err)
	ctx.SubmitAndReleaseDeferred()

	err = manager.Flush()
	require.ErrorIs(t, err, deviceLost)

	err = manager.SyncOnMainThread()
	require.ErrorIs(t, err, deviceLost)
}

func TestSignalNextFrameFence(t *testing.T) {
	device := soft.NewDevice(soft.Options{})
	manager := newTestManager(t, device, false)
	defer shutdownManager(t, manager)

	require.Equal(t, uint64(1), manager.GetNextFrameFence())
	require.Equal(t, uint64(0), manager.CompletedFrameFence())

	ctx, err := manager.RequestAndOpenContext(driver.QueueTypeDirect)
	require.NoError(t, err)
	ctx.BeginEvent("frame")
	ctx.SubmitAndReleaseDeferred()

	require.NoError(t, manager.SignalNextFrameFence(false))
	require.Equal(t, uint64(2), manager.GetNextFrameFence())
	require.False(t, manager.IsFrameFenceCompleted(1))

	require.NoError(t, manager.SignalNextFrameFence(true))
	require.Equal(t, uint64(3), manager.GetNextFrameFence())
	require.Equal(t, uint64(2), manager.CompletedFrameFence())
	require.True(t, manager.IsFrameFenceCompleted(1))
	require.True(t, manager.IsFrameFenceCompleted(2))
	require.Equal(t, 1, softQueue(manager, driver.QueueTypeDirect).ExecutedListCount())
}

func TestCommandManagerShutdown(t *testing.T) {
	device := soft.NewDevice(soft.Options{})
	manager := newTestManager(t, device, false)

	ctx, err := manager.RequestAndOpenContext(driver.QueueTypeDirect)
	require.NoError(t, err)
	ctx.BeginEvent("last")
	ctx.SubmitAndReleaseDeferred()

	require.NoError(t, manager.Shutdown())
	require.Equal(t, []string{"last"}, softQueue(manager, driver.QueueTypeDirect).ExecutedEvents())

	require.ErrorIs(t, manager.Shutdown(), gfx.ErrShutdown)

	_, err = manager.RequestAndOpenContext(driver.QueueTypeDirect)
	require.ErrorIs(t, err, gfx.ErrShutdown)

	manager.Destroy()

	live := device.LiveObjects()
	require.Equal(t, 0, live.CommandLists)
	require.Equal(t, 0, live.CommandAllocators)
	require.Equal(t, 0, live.Fences)
}
