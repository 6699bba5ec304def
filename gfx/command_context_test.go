package gfx_test

import (
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/gfxcore/gfx"
	"github.com/vkngwrapper/gfxcore/gfx/driver"
	"github.com/vkngwrapper/gfxcore/gfx/driver/soft"
)

func opKinds(ops []soft.Op) []soft.OpKind {
	kinds := make([]soft.OpKind, 0, len(ops))
	for _, op := range ops {
		kinds = append(kinds, op.Kind)
	}

	return kinds
}

func countOps(ops []soft.Op, kind soft.OpKind) int {
	count := 0
	for _, op := range ops {
		if op.Kind == kind {
			count++
		}
	}

	return count
}

func TestTransitionResourceSkipsContainedStates(t *testing.T) {
	device, _ := newTestDevice(t, gfx.DeviceCreateSynchronousSubmission)

	buffer, err := device.CreateBuffer("target", 256, gputypes.BufferUsageStorage, driver.HeapTypeDefault, driver.ResourceStateCommon)
	require.NoError(t, err)
	defer device.DeferredRelease(buffer)

	ctx, err := device.RequestContext(driver.QueueTypeDirect)
	require.NoError(t, err)

	require.NoError(t, ctx.TransitionResource(buffer, driver.ResourceStateCopyDest))
	require.NoError(t, ctx.TransitionResource(buffer, driver.ResourceStateCopyDest))
	require.Equal(t, 1, ctx.PendingBarrierCount())

	require.NoError(t, ctx.TransitionResource(buffer, driver.ResourceStateGenericRead))
	require.Equal(t, 2, ctx.PendingBarrierCount())

	// Pixel shader reads are part of GenericRead
	require.NoError(t, ctx.TransitionResource(buffer, driver.ResourceStatePixelShaderResource))
	require.Equal(t, 2, ctx.PendingBarrierCount())
	require.Equal(t, driver.ResourceStateGenericRead, buffer.State())

	require.NoError(t, ctx.TransitionResource(buffer, driver.ResourceStateCommon))
	require.NoError(t, ctx.TransitionResource(buffer, driver.ResourceStateCommon))
	require.Equal(t, 3, ctx.PendingBarrierCount())

	ctx.FlushResourceBarriers()
	require.Equal(t, 0, ctx.PendingBarrierCount())

	_, err = ctx.SubmitAndRelease()
	require.NoError(t, err)

	ops := softQueue(device.CommandManager(), driver.QueueTypeDirect).ExecutedOps()
	require.Equal(t, []soft.OpKind{soft.OpResourceBarrier}, opKinds(ops))

	barriers := ops[0].Barriers
	require.Len(t, barriers, 3)
	require.Equal(t, driver.ResourceStateCommon, barriers[0].StateBefore)
	require.Equal(t, driver.ResourceStateCopyDest, barriers[0].StateAfter)
	require.Equal(t, driver.ResourceStateCopyDest, barriers[1].StateBefore)
	require.Equal(t, driver.ResourceStateGenericRead, barriers[1].StateAfter)
	require.Equal(t, driver.ResourceStateCommon, barriers[2].StateAfter)
	require.Equal(t, driver.AllSubresources, barriers[2].Subresource)
}

func TestTransitionLockedResource(t *testing.T) {
	device, _ := newTestDevice(t, gfx.DeviceCreateSynchronousSubmission)

	upload, err := device.CreateBuffer("upload", 256, gputypes.BufferUsageMapWrite, driver.HeapTypeUpload, driver.ResourceStateCommon)
	require.NoError(t, err)
	defer device.DeferredRelease(upload)

	require.True(t, upload.IsStateLocked())
	require.Equal(t, driver.ResourceStateGenericRead, upload.State())

	ctx, err := device.RequestContext(driver.QueueTypeDirect)
	require.NoError(t, err)
	defer func() {
		_, err := ctx.SubmitAndRelease()
		require.NoError(t, err)
	}()

	require.NoError(t, ctx.TransitionResource(upload, driver.ResourceStateCopySource))
	require.ErrorIs(t, ctx.TransitionResource(upload, driver.ResourceStateCopyDest), gfx.ErrResourceStateLocked)
	require.Equal(t, 0, ctx.PendingBarrierCount())
	require.Equal(t, driver.ResourceStateGenericRead, upload.State())
}

func TestBarriersAreBatchedBeforeWork(t *testing.T) {
	device, _ := newTestDevice(t, gfx.DeviceCreateSynchronousSubmission)

	first, err := device.CreateBuffer("first", 256, gputypes.BufferUsageStorage, driver.HeapTypeDefault, driver.ResourceStateCommon)
	require.NoError(t, err)
	defer device.DeferredRelease(first)
	second, err := device.CreateBuffer("second", 256, gputypes.BufferUsageStorage, driver.HeapTypeDefault, driver.ResourceStateCommon)
	require.NoError(t, err)
	defer device.DeferredRelease(second)

	ctx, err := device.RequestContext(driver.QueueTypeAsyncCompute)
	require.NoError(t, err)

	require.NoError(t, ctx.TransitionResource(first, driver.ResourceStateUnorderedAccess))
	require.NoError(t, ctx.TransitionResource(second, driver.ResourceStateNonPixelShaderResource))
	ctx.Dispatch(8, 8, 1)
	ctx.Dispatch(4, 4, 1)

	_, err = ctx.SubmitAndRelease()
	require.NoError(t, err)

	ops := softQueue(device.CommandManager(), driver.QueueTypeAsyncCompute).ExecutedOps()
	require.Equal(t, []soft.OpKind{soft.OpResourceBarrier, soft.OpDispatch, soft.OpDispatch}, opKinds(ops))
	require.Len(t, ops[0].Barriers, 2)
}

func TestRedundantStateChangesAreDropped(t *testing.T) {
	device, _ := newTestDevice(t, gfx.DeviceCreateSynchronousSubmission)

	signature, err := device.RootSignature([]byte("graphics"))
	require.NoError(t, err)

	ctx, err := device.RequestContext(driver.QueueTypeDirect)
	require.NoError(t, err)

	ctx.SetGraphicsRootSignature(signature)
	ctx.SetGraphicsRootSignature(signature)
	ctx.SetComputeRootSignature(signature)
	ctx.SetStencilRef(0)
	ctx.SetStencilRef(0)
	ctx.SetStencilRef(1)
	ctx.SetPrimitiveTopology(gputypes.PrimitiveTopologyTriangleList)
	ctx.SetPrimitiveTopology(gputypes.PrimitiveTopologyTriangleList)
	ctx.SetDefaultViewport(640, 480)
	ctx.SetDefaultScissorRect(640, 480)

	_, err = ctx.SubmitAndRelease()
	require.NoError(t, err)

	ops := softQueue(device.CommandManager(), driver.QueueTypeDirect).ExecutedOps()
	require.Equal(t, 1, countOps(ops, soft.OpSetGraphicsRootSignature))
	require.Equal(t, 1, countOps(ops, soft.OpSetComputeRootSignature))
	require.Equal(t, 2, countOps(ops, soft.OpSetStencilRef))
	require.Equal(t, 1, countOps(ops, soft.OpSetPrimitiveTopology))
	require.Equal(t, 1, countOps(ops, soft.OpSetViewports))
	require.Equal(t, 1, countOps(ops, soft.OpSetScissorRects))

	// A reopened context starts with nothing bound
	ctx, err = device.RequestContext(driver.QueueTypeDirect)
	require.NoError(t, err)
	ctx.SetGraphicsRootSignature(signature)
	ctx.SetStencilRef(1)
	_, err = ctx.SubmitAndRelease()
	require.NoError(t, err)

	ops = softQueue(device.CommandManager(), driver.QueueTypeDirect).ExecutedOps()
	require.Equal(t, 2, countOps(ops, soft.OpSetGraphicsRootSignature))
	require.Equal(t, 3, countOps(ops, soft.OpSetStencilRef))
}

func TestDescriptorHeapsAreBoundOnChange(t *testing.T) {
	device, hw := newTestDevice(t, gfx.DeviceCreateSynchronousSubmission)

	views := taggedHandles(t, hw, driver.DescriptorHeapTypeCbvSrvUav, 1, 2)
	samplers := taggedHandles(t, hw, driver.DescriptorHeapTypeSampler, 3)

	ctx, err := device.RequestContext(driver.QueueTypeDirect)
	require.NoError(t, err)

	require.NoError(t, ctx.SetViewTable(0, views, false))
	require.NoError(t, ctx.SetViewTable(1, views[:1], false))
	require.NoError(t, ctx.SetSamplerTable(2, samplers, false))
	require.NoError(t, ctx.SetSamplerTable(3, samplers, true))

	table, err := device.AllocateTransientDescriptorTable(driver.DescriptorHeapTypeCbvSrvUav, 4)
	require.NoError(t, err)
	require.Equal(t, 4, table.Count())
	ctx.SetDescriptorTable(4, table, true)

	_, err = ctx.SubmitAndRelease()
	require.NoError(t, err)

	ops := softQueue(device.CommandManager(), driver.QueueTypeDirect).ExecutedOps()
	require.Equal(t, 2, countOps(ops, soft.OpSetDescriptorHeaps))
	require.Equal(t, 3, countOps(ops, soft.OpSetGraphicsRootDescriptorTable))
	require.Equal(t, 2, countOps(ops, soft.OpSetComputeRootDescriptorTable))
}

func TestUpdateBufferCopiesThroughUploadMemory(t *testing.T) {
	device, _ := newTestDevice(t, gfx.DeviceCreateSynchronousSubmission)

	buffer, err := device.CreateBuffer("vertices", 256, gputypes.BufferUsageVertex, driver.HeapTypeDefault, driver.ResourceStateCommon)
	require.NoError(t, err)
	defer device.DeferredRelease(buffer)

	data := []byte("vertex data for the copy queue")

	ctx, err := device.RequestContext(driver.QueueTypeAsyncCopy)
	require.NoError(t, err)
	require.NoError(t, ctx.UpdateBuffer(buffer, 16, data))
	require.NoError(t, ctx.UpdateBuffer(buffer, 0, nil))
	require.Equal(t, driver.ResourceStateCopyDest, buffer.State())

	syncPoint, err := ctx.SubmitAndRelease()
	require.NoError(t, err)
	require.NoError(t, syncPoint.WaitOnCpu())

	contents := soft.Contents(buffer.Driver())
	require.Equal(t, data, contents[16:16+len(data)])
	require.Equal(t, make([]byte, 16), contents[:16])

	ops := softQueue(device.CommandManager(), driver.QueueTypeAsyncCopy).ExecutedOps()
	require.Equal(t, []soft.OpKind{soft.OpResourceBarrier, soft.OpCopyBufferRegion}, opKinds(ops))
}

func TestCopyBufferChecksRanges(t *testing.T) {
	device, _ := newTestDevice(t, gfx.DeviceCreateSynchronousSubmission)

	src, err := device.CreateBuffer("src", 64, gputypes.BufferUsageCopySrc, driver.HeapTypeDefault, driver.ResourceStateCopySource)
	require.NoError(t, err)
	defer device.DeferredRelease(src)
	dest, err := device.CreateBuffer("dest", 32, gputypes.BufferUsageCopyDst, driver.HeapTypeDefault, driver.ResourceStateCopyDest)
	require.NoError(t, err)
	defer device.DeferredRelease(dest)

	ctx, err := device.RequestContext(driver.QueueTypeAsyncCopy)
	require.NoError(t, err)

	require.Panics(t, func() { ctx.CopyBuffer(dest, 0, src, 0, 64) })
	require.Panics(t, func() { ctx.CopyBuffer(dest, 0, src, 48, 32) })
	require.NotPanics(t, func() { ctx.CopyBuffer(dest, 0, src, 32, 32) })

	_, err = ctx.SubmitAndRelease()
	require.NoError(t, err)

	require.Panics(t, func() { ctx.BeginEvent("stale") })
}

func TestResolveTextureRequiresMultisampledSource(t *testing.T) {
	device, _ := newTestDevice(t, gfx.DeviceCreateSynchronousSubmission)

	desc := driver.Texture2DDesc(16, 16, gputypes.TextureFormatRGBA8Unorm, 1, gputypes.TextureUsageRenderAttachment)
	single, err := device.CreateTexture("single", desc, driver.ResourceStateRenderTarget, nil)
	require.NoError(t, err)
	defer device.DeferredRelease(single)

	desc.SampleCount = 4
	multi, err := device.CreateTexture("multi", desc, driver.ResourceStateRenderTarget, nil)
	require.NoError(t, err)
	defer device.DeferredRelease(multi)

	ctx, err := device.RequestContext(driver.QueueTypeDirect)
	require.NoError(t, err)

	require.Panics(t, func() { _ = ctx.ResolveTexture(multi, single, gputypes.TextureFormatRGBA8Unorm) })

	require.NoError(t, ctx.ResolveTexture(single, multi, gputypes.TextureFormatRGBA8Unorm))
	require.Equal(t, driver.ResourceStateResolveSource, multi.State())
	require.Equal(t, driver.ResourceStateResolveDest, single.State())

	_, err = ctx.SubmitAndRelease()
	require.NoError(t, err)

	ops := softQueue(device.CommandManager(), driver.QueueTypeDirect).ExecutedOps()
	require.Equal(t, []soft.OpKind{soft.OpResourceBarrier, soft.OpResolveSubresource}, opKinds(ops))
}

func TestContextWithoutFrameAllocatorPanics(t *testing.T) {
	device := soft.NewDevice(soft.Options{})
	manager := newTestManager(t, device, false)
	defer shutdownManager(t, manager)

	ctx, err := manager.RequestAndOpenContext(driver.QueueTypeDirect)
	require.NoError(t, err)

	require.Panics(t, func() { _ = ctx.SetViewTable(0, nil, false) })

	_, err = ctx.SubmitAndRelease()
	require.NoError(t, err)
}

func mippedTextureDesc(mipLevels, arraySize uint32) driver.ResourceDesc {
	desc := driver.Texture2DDesc(8, 8, gputypes.TextureFormatRGBA8Unorm, 1, gputypes.TextureUsageTextureBinding|gputypes.TextureUsageCopySrc|gputypes.TextureUsageCopyDst)
	desc.MipLevelCount = mipLevels
	desc.Size.DepthOrArrayLayers = arraySize
	return desc
}

func TestSubresourceStatesCollapse(t *testing.T) {
	device, _ := newTestDevice(t, gfx.DeviceCreateSynchronousSubmission)

	texture, err := device.CreateTexture("mips", mippedTextureDesc(2, 2), driver.ResourceStateCommon, nil)
	require.NoError(t, err)
	defer device.DeferredRelease(texture)

	require.Equal(t, uint32(4), texture.SubresourceCount())
	require.True(t, texture.AllSubresourceStatesSame())

	require.NoError(t, texture.SetSubresourceState(0, driver.ResourceStateCopyDest))
	require.False(t, texture.AllSubresourceStatesSame())
	require.Panics(t, func() { texture.State() })
	require.Equal(t, driver.ResourceStateCommon, texture.SubresourceState(3))

	for subresource := uint32(1); subresource < 4; subresource++ {
		require.NoError(t, texture.SetSubresourceState(subresource, driver.ResourceStateCopyDest))
	}
	require.True(t, texture.AllSubresourceStatesSame())
	require.Equal(t, driver.ResourceStateCopyDest, texture.State())
	require.Panics(t, func() { texture.SubresourceState(4) })

	texture.LockState(true)
	require.ErrorIs(t, texture.SetSubresourceState(2, driver.ResourceStateCommon), gfx.ErrResourceStateLocked)
	require.NoError(t, texture.SetSubresourceState(2, driver.ResourceStateCopyDest))
	texture.LockState(false)

	require.NoError(t, texture.SetSubresourceState(driver.AllSubresources, driver.ResourceStateGenericRead))
	require.Equal(t, driver.ResourceStateGenericRead, texture.State())
}

func TestTransitionSubresourceBatchesWithResourceBarriers(t *testing.T) {
	device, _ := newTestDevice(t, gfx.DeviceCreateSynchronousSubmission)

	desc := mippedTextureDesc(2, 2)
	texture, err := device.CreateTexture("mips", desc, driver.ResourceStatePixelShaderResource, nil)
	require.NoError(t, err)
	defer device.DeferredRelease(texture)

	buffer, err := device.CreateBuffer("storage", 256, gputypes.BufferUsageStorage, driver.HeapTypeDefault, driver.ResourceStateCommon)
	require.NoError(t, err)
	defer device.DeferredRelease(buffer)

	ctx, err := device.RequestContext(driver.QueueTypeDirect)
	require.NoError(t, err)

	mip1 := desc.SubresourceIndex(1, 0)
	require.NoError(t, ctx.TransitionResource(buffer, driver.ResourceStateCopyDest))
	require.NoError(t, ctx.TransitionSubresource(texture, mip1, driver.ResourceStateRenderTarget))
	require.NoError(t, ctx.TransitionSubresource(texture, mip1, driver.ResourceStateRenderTarget))
	require.Equal(t, 2, ctx.PendingBarrierCount())
	require.Equal(t, driver.ResourceStateRenderTarget, texture.SubresourceState(mip1))
	require.Equal(t, driver.ResourceStatePixelShaderResource, texture.SubresourceState(0))

	// Only the diverged subresource needs a barrier to rejoin the others
	require.NoError(t, ctx.TransitionResource(texture, driver.ResourceStatePixelShaderResource))
	require.Equal(t, 3, ctx.PendingBarrierCount())
	require.True(t, texture.AllSubresourceStatesSame())

	require.NoError(t, ctx.TransitionSubresource(texture, driver.AllSubresources, driver.ResourceStateCopySource))
	require.Equal(t, 4, ctx.PendingBarrierCount())

	ctx.Dispatch(1, 1, 1)
	_, err = ctx.SubmitAndRelease()
	require.NoError(t, err)

	ops := softQueue(device.CommandManager(), driver.QueueTypeDirect).ExecutedOps()
	require.Equal(t, []soft.OpKind{soft.OpResourceBarrier, soft.OpDispatch}, opKinds(ops))

	barriers := ops[0].Barriers
	require.Len(t, barriers, 4)
	require.Equal(t, driver.ResourceBarrier{
		Resource:    texture.Driver(),
		Subresource: mip1,
		StateBefore: driver.ResourceStatePixelShaderResource,
		StateAfter:  driver.ResourceStateRenderTarget,
	}, barriers[1])
	require.Equal(t, driver.ResourceBarrier{
		Resource:    texture.Driver(),
		Subresource: mip1,
		StateBefore: driver.ResourceStateRenderTarget,
		StateAfter:  driver.ResourceStatePixelShaderResource,
	}, barriers[2])
	require.Equal(t, driver.AllSubresources, barriers[3].Subresource)
}

func TestCopyTextureTransitionsOnlyCopiedSubresources(t *testing.T) {
	device, _ := newTestDevice(t, gfx.DeviceCreateSynchronousSubmission)

	srcDesc := mippedTextureDesc(2, 1)
	src, err := device.CreateTexture("src", srcDesc, driver.ResourceStateCommon, nil)
	require.NoError(t, err)
	defer device.DeferredRelease(src)

	destDesc := driver.Texture2DDesc(4, 4, gputypes.TextureFormatRGBA8Unorm, 1, gputypes.TextureUsageCopyDst)
	destDesc.Size.DepthOrArrayLayers = 2
	dest, err := device.CreateTexture("dest", destDesc, driver.ResourceStateCommon, nil)
	require.NoError(t, err)
	defer device.DeferredRelease(dest)

	srcOffset, size := soft.TextureLayout(srcDesc, 1)
	srcBytes := soft.Contents(src.Driver())[srcOffset : srcOffset+size]
	for i := range srcBytes {
		srcBytes[i] = byte(i + 1)
	}

	ctx, err := device.RequestContext(driver.QueueTypeAsyncCopy)
	require.NoError(t, err)

	require.Panics(t, func() { _ = ctx.CopyTexture(dest, 0, 0, src, 0, 0) })
	require.Panics(t, func() { _ = ctx.CopyTexture(dest, 1, 0, src, 1, 0) })
	require.Panics(t, func() { _ = ctx.CopyTexture(dest, 0, 2, src, 1, 0) })

	require.NoError(t, ctx.CopyTexture(dest, 0, 1, src, 1, 0))
	require.Equal(t, driver.ResourceStateCopySource, src.SubresourceState(1))
	require.Equal(t, driver.ResourceStateCommon, src.SubresourceState(0))
	require.Equal(t, driver.ResourceStateCopyDest, dest.SubresourceState(1))
	require.Equal(t, driver.ResourceStateCommon, dest.SubresourceState(0))

	syncPoint, err := ctx.SubmitAndRelease()
	require.NoError(t, err)
	require.NoError(t, syncPoint.WaitOnCpu())

	ops := softQueue(device.CommandManager(), driver.QueueTypeAsyncCopy).ExecutedOps()
	require.Equal(t, []soft.OpKind{soft.OpResourceBarrier, soft.OpCopyTextureRegion}, opKinds(ops))
	require.Len(t, ops[0].Barriers, 2)
	require.Equal(t, "subresource 1 <- subresource 1", ops[1].Detail)

	destOffset, destSize := soft.TextureLayout(destDesc, 1)
	require.Equal(t, size, destSize)
	require.Equal(t, srcBytes, soft.Contents(dest.Driver())[destOffset:destOffset+destSize])
	require.Equal(t, make([]byte, destSize), soft.Contents(dest.Driver())[:destSize])
}

func TestUpdateSubresourcesStagesThroughUploadMemory(t *testing.T) {
	device, _ := newTestDevice(t, gfx.DeviceCreateSynchronousSubmission)

	desc := mippedTextureDesc(2, 1)
	texture, err := device.CreateTexture("texture", desc, driver.ResourceStateCommon, nil)
	require.NoError(t, err)
	defer device.DeferredRelease(texture)

	// The base level rows are padded to 40 bytes
	base := make([]byte, 40*7+32)
	for i := range base {
		base[i] = byte(i)
	}
	mip := make([]byte, 4*16)
	for i := range mip {
		mip[i] = byte(255 - i)
	}

	ctx, err := device.RequestContext(driver.QueueTypeAsyncCopy)
	require.NoError(t, err)

	require.NoError(t, ctx.UpdateSubresources(texture, 0, []gfx.SubresourceData{
		{Data: base, RowPitch: 40},
		{Data: mip, RowPitch: 16},
	}))
	require.True(t, texture.AllSubresourceStatesSame())
	require.Equal(t, driver.ResourceStateCopyDest, texture.State())
	require.NoError(t, ctx.UpdateSubresources(texture, 0, nil))

	syncPoint, err := ctx.SubmitAndRelease()
	require.NoError(t, err)
	require.NoError(t, syncPoint.WaitOnCpu())

	ops := softQueue(device.CommandManager(), driver.QueueTypeAsyncCopy).ExecutedOps()
	require.Equal(t, []soft.OpKind{soft.OpResourceBarrier, soft.OpCopyTextureRegion, soft.OpCopyTextureRegion}, opKinds(ops))
	require.Len(t, ops[0].Barriers, 2)

	contents := soft.Contents(texture.Driver())
	baseOffset, _ := soft.TextureLayout(desc, 0)
	for y := 0; y < 8; y++ {
		require.Equal(t, base[y*40:y*40+32], contents[baseOffset+y*32:baseOffset+(y+1)*32], "row %d", y)
	}

	mipOffset, mipSize := soft.TextureLayout(desc, 1)
	require.Equal(t, mip, contents[mipOffset:mipOffset+mipSize])

	buffer, err := device.CreateBuffer("buffer", 64, gputypes.BufferUsageCopyDst, driver.HeapTypeDefault, driver.ResourceStateCommon)
	require.NoError(t, err)
	defer device.DeferredRelease(buffer)

	ctx, err = device.RequestContext(driver.QueueTypeAsyncCopy)
	require.NoError(t, err)

	require.Error(t, ctx.UpdateSubresources(texture, 1, []gfx.SubresourceData{{Data: make([]byte, 10), RowPitch: 16}}))
	require.Panics(t, func() { _ = ctx.UpdateSubresources(texture, 1, make([]gfx.SubresourceData, 2)) })
	require.Panics(t, func() { _ = ctx.UpdateSubresources(buffer, 0, make([]gfx.SubresourceData, 1)) })

	_, err = ctx.SubmitAndRelease()
	require.NoError(t, err)
}
