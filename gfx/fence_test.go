package gfx_test

import (
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/gfxcore/gfx"
	"github.com/vkngwrapper/gfxcore/gfx/driver"
	"github.com/vkngwrapper/gfxcore/gfx/driver/mocks"
	"github.com/vkngwrapper/gfxcore/gfx/driver/soft"
	"go.uber.org/mock/gomock"
)

func TestFenceValuesStrictlyIncrease(t *testing.T) {
	device := soft.NewDevice(soft.Options{ManualFenceCompletion: true})
	queue, err := device.CreateCommandQueue(driver.QueueTypeDirect)
	require.NoError(t, err)

	fence, err := gfx.NewFence(device, "test", 0)
	require.NoError(t, err)
	require.Equal(t, uint64(1), fence.NextValue())

	var last uint64
	for i := 0; i < 10; i++ {
		var value uint64
		if i%3 == 0 {
			value, err = fence.SignalNextValueOnCpu()
		} else {
			value, err = fence.SignalNextValueOnGpu(queue)
		}
		require.NoError(t, err)
		require.Greater(t, value, last)
		last = value
	}
	require.Equal(t, last+1, fence.NextValue())
}

func TestFenceCompletionIsMonotonic(t *testing.T) {
	device := soft.NewDevice(soft.Options{ManualFenceCompletion: true})
	queue, err := device.CreateCommandQueue(driver.QueueTypeDirect)
	require.NoError(t, err)

	fence, err := gfx.NewFence(device, "test", 0)
	require.NoError(t, err)

	first, err := fence.SignalNextValueOnGpu(queue)
	require.NoError(t, err)
	second, err := fence.SignalNextValueOnGpu(queue)
	require.NoError(t, err)

	require.True(t, fence.IsCompleted(0))
	require.False(t, fence.IsCompleted(first))
	require.False(t, fence.IsCompleted(second))

	require.Equal(t, 2, device.CompletePendingSignals())
	require.True(t, fence.IsCompleted(first))
	require.True(t, fence.IsCompleted(second))
	require.Equal(t, second, fence.CompletedValue())

	require.NoError(t, fence.WaitOnCpu(second))
	require.True(t, fence.IsCompleted(first))
}

func TestFenceWaitOnCpuBlocksUntilSignaled(t *testing.T) {
	device := soft.NewDevice(soft.Options{ManualFenceCompletion: true})
	queue, err := device.CreateCommandQueue(driver.QueueTypeDirect)
	require.NoError(t, err)

	fence, err := gfx.NewFence(device, "test", 0)
	require.NoError(t, err)

	value, err := fence.SignalNextValueOnGpu(queue)
	require.NoError(t, err)

	done := make(chan error)
	go func() {
		done <- fence.WaitOnCpu(value)
	}()

	select {
	case <-done:
		t.Fatal("wait returned before the fence was signaled")
	case <-time.After(20 * time.Millisecond):
	}

	device.CompletePendingSignals()
	require.NoError(t, <-done)
}

func TestFenceWaitOnGpuRecordsQueueWait(t *testing.T) {
	device := soft.NewDevice(soft.Options{})
	direct, err := device.CreateCommandQueue(driver.QueueTypeDirect)
	require.NoError(t, err)
	copyQueue, err := device.CreateCommandQueue(driver.QueueTypeAsyncCopy)
	require.NoError(t, err)

	fence, err := gfx.NewFence(device, "test", 0)
	require.NoError(t, err)

	value, err := fence.SignalNextValueOnGpu(direct)
	require.NoError(t, err)
	require.NoError(t, fence.WaitOnGpu(copyQueue, value))

	waits := copyQueue.(*soft.Queue).Waits()
	require.Len(t, waits, 1)
	require.Equal(t, value, waits[0].Value)
}

func TestFenceSignalFailureIsWrapped(t *testing.T) {
	ctrl := gomock.NewController(t)

	hwFence := mocks.NewMockFence(ctrl)
	device := mocks.NewMockDevice(ctrl)
	device.EXPECT().CreateFence(uint64(5)).Return(hwFence, nil)

	queue := mocks.NewMockQueue(ctrl)
	queue.EXPECT().Type().Return(driver.QueueTypeAsyncCompute).AnyTimes()

	deviceLost := errors.New("device lost")
	queue.EXPECT().Signal(hwFence, uint64(6)).Return(deviceLost)

	fence, err := gfx.NewFence(device, "compute", 5)
	require.NoError(t, err)

	_, err = fence.SignalNextValueOnGpu(queue)
	require.ErrorIs(t, err, deviceLost)
	require.ErrorContains(t, err, `fence "compute"`)
	require.ErrorContains(t, err, "AsyncCompute")

	// The failed value is not reused
	require.Equal(t, uint64(7), fence.NextValue())
}

func TestSyncPoint(t *testing.T) {
	var zero gfx.SyncPoint
	require.False(t, zero.IsValid())
	require.True(t, zero.IsCompleted())
	require.NoError(t, zero.WaitOnCpu())

	device := soft.NewDevice(soft.Options{ManualFenceCompletion: true})
	queue, err := device.CreateCommandQueue(driver.QueueTypeDirect)
	require.NoError(t, err)
	fence, err := gfx.NewFence(device, "test", 0)
	require.NoError(t, err)

	value, err := fence.SignalNextValueOnGpu(queue)
	require.NoError(t, err)

	syncPoint := gfx.NewSyncPoint(fence, value)
	require.True(t, syncPoint.IsValid())
	require.Same(t, fence, syncPoint.Fence())
	require.False(t, syncPoint.IsCompleted())

	device.CompletePendingSignals()
	require.True(t, syncPoint.IsCompleted())
}
