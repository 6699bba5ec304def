package gfx_test

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/gogpu/gputypes"
	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/gfxcore/gfx"
	"github.com/vkngwrapper/gfxcore/gfx/driver"
	"github.com/vkngwrapper/gfxcore/gfx/driver/soft"
)

func TestCommandAllocatorsAreReusedAfterTheirFence(t *testing.T) {
	device := soft.NewDevice(soft.Options{ManualFenceCompletion: true})
	manager := newTestManager(t, device, true)
	defer manager.Destroy()

	queue := manager.Queue(driver.QueueTypeAsyncCopy)

	first, err := queue.RequestCommandAllocator()
	require.NoError(t, err)
	syncPoint, err := queue.ReleaseCommandAllocator(first)
	require.NoError(t, err)
	require.Equal(t, uint64(1), syncPoint.Value())

	second, err := queue.RequestCommandAllocator()
	require.NoError(t, err)
	require.NotSame(t, first, second)
	require.Equal(t, 2, queue.AllocatorCount())

	device.CompletePendingSignals()

	third, err := queue.RequestCommandAllocator()
	require.NoError(t, err)
	require.Same(t, first, third)
	require.Equal(t, 1, third.(*soft.CommandAllocator).ResetCount())
	require.Equal(t, 2, queue.AllocatorCount())

	_, err = queue.ReleaseCommandAllocator(second)
	require.NoError(t, err)
	_, err = queue.ReleaseCommandAllocator(third)
	require.NoError(t, err)
	device.CompletePendingSignals()
}

func TestQueueWaitOnGpuIgnoresInvalidSyncPoints(t *testing.T) {
	device := soft.NewDevice(soft.Options{})
	manager := newTestManager(t, device, true)
	defer shutdownManager(t, manager)

	direct := manager.Queue(driver.QueueTypeDirect)
	compute := manager.Queue(driver.QueueTypeAsyncCompute)

	syncPoint, err := direct.CreateSyncPoint()
	require.NoError(t, err)

	require.NoError(t, compute.WaitOnGpu(syncPoint))

	waits := softQueue(manager, driver.QueueTypeAsyncCompute).Waits()
	require.Len(t, waits, 1)
	require.Equal(t, syncPoint.Value(), waits[0].Value)

	require.NoError(t, compute.WaitOnGpu(gfx.SyncPoint{}))
	require.Len(t, softQueue(manager, driver.QueueTypeAsyncCompute).Waits(), 1)
}

func TestCommandListTranslation(t *testing.T) {
	device := soft.NewDevice(soft.Options{})
	manager := newTestManager(t, device, true)
	defer shutdownManager(t, manager)

	ctx, err := manager.RequestAndOpenContext(driver.QueueTypeDirect)
	require.NoError(t, err)

	targets := []driver.CPUDescriptorHandle{{Ptr: 0x1000}, {Ptr: 0x1020}}
	ctx.BeginEvent("scene")
	ctx.SetRenderTargets(targets, driver.CPUDescriptorHandle{})
	ctx.ClearColorTarget(targets[0], gputypes.Color{R: 1, A: 1})
	ctx.SetRenderTargets(targets[:1], driver.CPUDescriptorHandle{Ptr: 0x2000})
	ctx.ClearDepthStencilTarget(driver.CPUDescriptorHandle{Ptr: 0x2000}, driver.ClearFlagDepth|driver.ClearFlagStencil, 1, 0)
	ctx.SetVertexBuffer(0, driver.VertexBufferView{BufferLocation: 0x4000, SizeInBytes: 96, StrideInBytes: 12})
	ctx.SetIndexBuffer(&driver.IndexBufferView{BufferLocation: 0x5000, SizeInBytes: 12, Format: gputypes.IndexFormatUint16})
	ctx.DrawIndexedInstanced(6, 1, 0, 0, 0)
	ctx.SetIndexBuffer(nil)
	ctx.EndEvent()

	// Recording does not touch the driver list
	require.Equal(t, 10, ctx.List().CommandCount())
	require.Empty(t, softQueue(manager, driver.QueueTypeDirect).ExecutedOps())

	_, err = ctx.SubmitAndRelease()
	require.NoError(t, err)

	ops := softQueue(manager, driver.QueueTypeDirect).ExecutedOps()
	require.Equal(t, []soft.OpKind{
		soft.OpBeginEvent,
		soft.OpSetRenderTargets,
		soft.OpClearRenderTarget,
		soft.OpSetRenderTargets,
		soft.OpClearDepthStencil,
		soft.OpSetVertexBuffers,
		soft.OpSetIndexBuffer,
		soft.OpDrawIndexedInstanced,
		soft.OpSetIndexBuffer,
		soft.OpEndEvent,
	}, opKinds(ops))

	require.Equal(t, "2 targets, depth false", ops[1].Detail)
	require.Equal(t, "1 targets, depth true", ops[3].Detail)
	require.Equal(t, "nil", ops[8].Detail)
	require.Equal(t, "6 1 0 0 0", ops[7].Detail)
}

func TestExecuteFailureIsWrapped(t *testing.T) {
	device := soft.NewDevice(soft.Options{})
	manager := newTestManager(t, device, true)
	defer shutdownManager(t, manager)

	deviceLost := errors.New("device lost")
	device.FailNextExecute(deviceLost)

	ctx, err := manager.RequestAndOpenContext(driver.QueueTypeAsyncCompute)
	require.NoError(t, err)
	ctx.Dispatch(1, 1, 1)

	failed := ctx.List()
	_, err = ctx.SubmitAndRelease()
	require.ErrorIs(t, err, deviceLost)
	require.ErrorContains(t, err, "AsyncCompute queue")

	// The failed list and its allocator are recycled
	ctx, err = manager.RequestAndOpenContext(driver.QueueTypeAsyncCompute)
	require.NoError(t, err)
	require.Same(t, failed, ctx.List())
	require.Zero(t, ctx.List().CommandCount())
	require.Equal(t, 1, manager.ListCount())

	ctx.Dispatch(2, 2, 1)
	syncPoint, err := ctx.SubmitAndRelease()
	require.NoError(t, err)
	require.True(t, syncPoint.IsValid())
	require.Equal(t, 1, manager.Queue(driver.QueueTypeAsyncCompute).AllocatorCount())

	ops := softQueue(manager, driver.QueueTypeAsyncCompute).ExecutedOps()
	require.Equal(t, []soft.OpKind{soft.OpDispatch}, opKinds(ops))
}
