package gfx

import (
	"github.com/cockroachdb/errors"
	"github.com/gogpu/gputypes"
	"github.com/vkngwrapper/gfxcore/gfx/driver"
)

// FrameAllocator provides the per-frame memory command contexts record against. Everything it hands
// out is only valid until the end of the current frame.
type FrameAllocator interface {
	AllocateTransientUploadMemory(size, count, alignment int) (UploadMemory, error)
	// AllocateViewTable copies srcs into a shader-visible CBV/SRV/UAV table
	AllocateViewTable(srcs []driver.CPUDescriptorHandle) (driver.GPUDescriptorHandle, *DescriptorHeap, error)
	// AllocateSamplerTable copies srcs into a shader-visible sampler table
	AllocateSamplerTable(srcs []driver.CPUDescriptorHandle) (driver.GPUDescriptorHandle, *DescriptorHeap, error)
}

// CommandContext records work into a pooled CommandList. Contexts are obtained from
// CommandManager.RequestAndOpenContext and go back to the pool when they are submitted. Barriers are
// batched until a command that depends on them is recorded, and redundant pipeline state changes
// are dropped.
type CommandContext struct {
	manager   *CommandManager
	queueType driver.QueueType
	list      *CommandList

	pendingBarriers []driver.ResourceBarrier

	pipelineState   driver.PipelineState
	graphicsRoot    driver.RootSignature
	computeRoot     driver.RootSignature
	stencilRef      uint32
	hasStencilRef   bool
	topology        gputypes.PrimitiveTopology
	hasTopology     bool
	viewHeap        *DescriptorHeap
	samplerHeap     *DescriptorHeap
	descriptorHeaps []driver.DescriptorHeap
}

func newCommandContext(manager *CommandManager, queueType driver.QueueType) *CommandContext {
	return &CommandContext{
		manager:   manager,
		queueType: queueType,
	}
}

func (c *CommandContext) Type() driver.QueueType { return c.queueType }

// IsOpen returns true between RequestAndOpenContext and submission
func (c *CommandContext) IsOpen() bool { return c.list != nil }

// List returns the list the context is recording into
func (c *CommandContext) List() *CommandList { return c.list }

func (c *CommandContext) open(list *CommandList) {
	c.list = list
}

func (c *CommandContext) close() {
	c.list = nil

	clear(c.pendingBarriers)
	c.pendingBarriers = c.pendingBarriers[:0]

	c.pipelineState = nil
	c.graphicsRoot = nil
	c.computeRoot = nil
	c.hasStencilRef = false
	c.hasTopology = false
	c.viewHeap = nil
	c.samplerHeap = nil
}

func (c *CommandContext) checkOpen() {
	if c.list == nil {
		panic(errors.AssertionFailedf("a %s command context was used after it was submitted", c.queueType))
	}
}

func (c *CommandContext) frameAllocator() FrameAllocator {
	if c.manager.frame == nil {
		panic(errors.AssertionFailedf("the command manager was created without a frame allocator"))
	}

	return c.manager.frame
}

func needsTransition(stateBefore, stateAfter driver.ResourceStates) bool {
	if stateAfter == driver.ResourceStateCommon {
		return stateBefore != stateAfter
	}

	return stateBefore&stateAfter != stateAfter
}

func (c *CommandContext) queueBarrier(resource *Resource, subresource uint32, stateBefore, stateAfter driver.ResourceStates) {
	c.pendingBarriers = append(c.pendingBarriers, driver.ResourceBarrier{
		Resource:    resource.Driver(),
		Subresource: subresource,
		StateBefore: stateBefore,
		StateAfter:  stateAfter,
	})
}

// TransitionResource queues a barrier moving every subresource of resource to stateAfter. A
// barrier is only needed when stateAfter is not already contained in the current state, or when
// returning to the common state. Subresources in different states get one barrier each. Barriers
// are recorded in one batch by FlushResourceBarriers or by the next command that reads or writes
// resources.
func (c *CommandContext) TransitionResource(resource *Resource, stateAfter driver.ResourceStates) error {
	c.checkOpen()

	if !resource.AllSubresourceStatesSame() {
		if resource.IsStateLocked() {
			return resource.SetState(stateAfter)
		}

		for subresource := range resource.SubresourceCount() {
			stateBefore := resource.SubresourceState(subresource)
			if needsTransition(stateBefore, stateAfter) {
				c.queueBarrier(resource, subresource, stateBefore, stateAfter)
			}
		}

		return resource.SetState(stateAfter)
	}

	stateBefore := resource.State()
	if !needsTransition(stateBefore, stateAfter) {
		return nil
	}

	err := resource.SetState(stateAfter)
	if err != nil {
		return err
	}

	c.queueBarrier(resource, driver.AllSubresources, stateBefore, stateAfter)
	return nil
}

// TransitionSubresource queues a barrier moving one subresource to stateAfter. The barrier joins the
// same batch as TransitionResource barriers.
func (c *CommandContext) TransitionSubresource(resource *Resource, subresource uint32, stateAfter driver.ResourceStates) error {
	if subresource == driver.AllSubresources || resource.SubresourceCount() == 1 {
		return c.TransitionResource(resource, stateAfter)
	}

	c.checkOpen()

	stateBefore := resource.SubresourceState(subresource)
	if !needsTransition(stateBefore, stateAfter) {
		return nil
	}

	err := resource.SetSubresourceState(subresource, stateAfter)
	if err != nil {
		return err
	}

	c.queueBarrier(resource, subresource, stateBefore, stateAfter)
	return nil
}

// PendingBarrierCount returns the number of barriers waiting to be flushed
func (c *CommandContext) PendingBarrierCount() int { return len(c.pendingBarriers) }

func (c *CommandContext) FlushResourceBarriers() {
	c.checkOpen()

	if len(c.pendingBarriers) == 0 {
		return
	}

	c.list.ResourceBarriers(c.pendingBarriers)
	clear(c.pendingBarriers)
	c.pendingBarriers = c.pendingBarriers[:0]
}

func (c *CommandContext) BeginEvent(name string) {
	c.checkOpen()
	c.list.BeginEvent(name)
}

func (c *CommandContext) EndEvent() {
	c.checkOpen()
	c.list.EndEvent()
}

// SetRenderTargets binds color targets and an optional depth stencil target. Pass the zero handle to
// bind no depth stencil target.
func (c *CommandContext) SetRenderTargets(renderTargets []driver.CPUDescriptorHandle, depthStencil driver.CPUDescriptorHandle) {
	c.checkOpen()
	c.list.SetRenderTargets(renderTargets, depthStencil)
}

func (c *CommandContext) ClearColorTarget(renderTarget driver.CPUDescriptorHandle, color gputypes.Color) {
	c.FlushResourceBarriers()
	c.list.ClearColor(renderTarget, color)
}

func (c *CommandContext) ClearDepthStencilTarget(depthStencil driver.CPUDescriptorHandle, flags driver.ClearFlags, depth float32, stencil uint8) {
	c.FlushResourceBarriers()
	c.list.ClearDepthStencil(depthStencil, flags, depth, stencil)
}

func (c *CommandContext) SetViewports(viewports ...driver.Viewport) {
	c.checkOpen()
	c.list.SetViewports(viewports)
}

func (c *CommandContext) SetScissorRects(rects ...driver.Rect) {
	c.checkOpen()
	c.list.SetScissorRects(rects)
}

// SetDefaultViewport binds one viewport covering width by height with the full depth range
func (c *CommandContext) SetDefaultViewport(width, height uint32) {
	c.SetViewports(driver.Viewport{
		Width:    float32(width),
		Height:   float32(height),
		MaxDepth: 1,
	})
}

// SetDefaultScissorRect binds one scissor rect covering width by height
func (c *CommandContext) SetDefaultScissorRect(width, height uint32) {
	c.SetScissorRects(driver.Rect{
		Right:  int32(width),
		Bottom: int32(height),
	})
}

func (c *CommandContext) SetPipelineState(pipelineState driver.PipelineState) {
	c.checkOpen()

	if c.pipelineState == pipelineState {
		return
	}

	c.pipelineState = pipelineState
	c.list.SetPipelineState(pipelineState)
}

func (c *CommandContext) SetGraphicsRootSignature(rootSignature driver.RootSignature) {
	c.checkOpen()

	if c.graphicsRoot == rootSignature {
		return
	}

	c.graphicsRoot = rootSignature
	c.list.SetRootSignature(rootSignature, false)
}

func (c *CommandContext) SetComputeRootSignature(rootSignature driver.RootSignature) {
	c.checkOpen()

	if c.computeRoot == rootSignature {
		return
	}

	c.computeRoot = rootSignature
	c.list.SetRootSignature(rootSignature, true)
}

func (c *CommandContext) SetStencilRef(stencilRef uint32) {
	c.checkOpen()

	if c.hasStencilRef && c.stencilRef == stencilRef {
		return
	}

	c.stencilRef = stencilRef
	c.hasStencilRef = true
	c.list.SetStencilRef(stencilRef)
}

func (c *CommandContext) SetPrimitiveTopology(topology gputypes.PrimitiveTopology) {
	c.checkOpen()

	if c.hasTopology && c.topology == topology {
		return
	}

	c.topology = topology
	c.hasTopology = true
	c.list.SetPrimitiveTopology(topology)
}

func (c *CommandContext) SetVertexBuffer(slot uint32, view driver.VertexBufferView) {
	c.checkOpen()
	c.list.SetVertexBuffers(slot, []driver.VertexBufferView{view})
}

// SetIndexBuffer binds an index buffer, or unbinds it when view is nil
func (c *CommandContext) SetIndexBuffer(view *driver.IndexBufferView) {
	c.checkOpen()
	c.list.SetIndexBuffer(view)
}

// bindHeaps rebinds the shader-visible heaps if the table was allocated from a heap other than the
// one currently bound for its type
func (c *CommandContext) bindHeaps(heap *DescriptorHeap) {
	switch heap.Type() {
	case driver.DescriptorHeapTypeSampler:
		if c.samplerHeap == heap {
			return
		}
		c.samplerHeap = heap
	default:
		if c.viewHeap == heap {
			return
		}
		c.viewHeap = heap
	}

	c.descriptorHeaps = c.descriptorHeaps[:0]
	if c.viewHeap != nil {
		c.descriptorHeaps = append(c.descriptorHeaps, c.viewHeap.Driver())
	}
	if c.samplerHeap != nil {
		c.descriptorHeaps = append(c.descriptorHeaps, c.samplerHeap.Driver())
	}

	c.list.SetDescriptorHeaps(c.descriptorHeaps)
}

// SetViewTable copies srcs into a transient shader-visible table and binds it to
// rootParameterIndex
func (c *CommandContext) SetViewTable(rootParameterIndex uint32, srcs []driver.CPUDescriptorHandle, compute bool) error {
	c.checkOpen()

	base, heap, err := c.frameAllocator().AllocateViewTable(srcs)
	if err != nil {
		return err
	}

	c.bindHeaps(heap)
	c.list.SetRootDescriptorTable(rootParameterIndex, base, compute)
	return nil
}

// SetSamplerTable binds a sampler table holding srcs to rootParameterIndex. Tables with the same
// contents as one bound earlier are reused.
func (c *CommandContext) SetSamplerTable(rootParameterIndex uint32, srcs []driver.CPUDescriptorHandle, compute bool) error {
	c.checkOpen()

	base, heap, err := c.frameAllocator().AllocateSamplerTable(srcs)
	if err != nil {
		return err
	}

	c.bindHeaps(heap)
	c.list.SetRootDescriptorTable(rootParameterIndex, base, compute)
	return nil
}

// SetDescriptorTable binds a table that was already allocated from a shader-visible heap
func (c *CommandContext) SetDescriptorTable(rootParameterIndex uint32, table DescriptorTable, compute bool) {
	c.checkOpen()

	c.bindHeaps(table.Heap())
	c.list.SetRootDescriptorTable(rootParameterIndex, table.GPUBase(), compute)
}

func (c *CommandContext) DrawIndexedInstanced(indexCountPerInstance, instanceCount, startIndexLocation uint32, baseVertexLocation int32, startInstanceLocation uint32) {
	c.FlushResourceBarriers()
	c.list.DrawIndexedInstanced(indexCountPerInstance, instanceCount, startIndexLocation, baseVertexLocation, startInstanceLocation)
}

func (c *CommandContext) Dispatch(threadGroupCountX, threadGroupCountY, threadGroupCountZ uint32) {
	c.FlushResourceBarriers()
	c.list.Dispatch(threadGroupCountX, threadGroupCountY, threadGroupCountZ)
}

// CopyBuffer copies numBytes from src to dest. Both ranges must lie inside their buffers.
func (c *CommandContext) CopyBuffer(dest *Resource, destOffset int, src *Resource, srcOffset int, numBytes int) {
	if !dest.Desc().IsBuffer() || !src.Desc().IsBuffer() {
		panic(errors.AssertionFailedf("CopyBuffer from %q to %q requires two buffers", src.Name(), dest.Name()))
	}
	if destOffset < 0 || destOffset+numBytes > dest.Desc().ByteSize {
		panic(errors.AssertionFailedf("copy of %d bytes at offset %d overflows buffer %q of %d bytes", numBytes, destOffset, dest.Name(), dest.Desc().ByteSize))
	}
	if srcOffset < 0 || srcOffset+numBytes > src.Desc().ByteSize {
		panic(errors.AssertionFailedf("copy of %d bytes at offset %d overflows buffer %q of %d bytes", numBytes, srcOffset, src.Name(), src.Desc().ByteSize))
	}

	c.FlushResourceBarriers()
	c.list.CopyBufferRegion(dest.Driver(), destOffset, src.Driver(), srcOffset, numBytes)
}

// UpdateBuffer stages data in transient upload memory and copies it into dest at destOffset
func (c *CommandContext) UpdateBuffer(dest *Resource, destOffset int, data []byte) error {
	c.checkOpen()

	if len(data) == 0 {
		return nil
	}

	upload, err := c.frameAllocator().AllocateTransientUploadMemory(len(data), 1, 1)
	if err != nil {
		return err
	}
	copy(upload.Bytes(0), data)

	err = c.TransitionResource(dest, driver.ResourceStateCopyDest)
	if err != nil {
		return err
	}

	c.CopyBuffer(dest, destOffset, upload.Resource(), upload.Offset(0), len(data))
	return nil
}

// ResolveTexture resolves the multisampled src into dest, transitioning both as needed
func (c *CommandContext) ResolveTexture(dest *Resource, src *Resource, format gputypes.TextureFormat) error {
	c.checkOpen()

	if !src.Desc().IsMultisampled() {
		panic(errors.AssertionFailedf("ResolveTexture source %q is not multisampled", src.Name()))
	}

	err := c.TransitionResource(src, driver.ResourceStateResolveSource)
	if err != nil {
		return err
	}

	err = c.TransitionResource(dest, driver.ResourceStateResolveDest)
	if err != nil {
		return err
	}

	c.FlushResourceBarriers()
	c.list.ResolveSubresource(dest.Driver(), 0, src.Driver(), 0, format)
	return nil
}

func (c *CommandContext) checkTextureSubresource(texture *Resource, mipSlice, arraySlice uint32) uint32 {
	desc := texture.Desc()
	if desc.IsBuffer() {
		panic(errors.AssertionFailedf("%q is a buffer, not a texture", texture.Name()))
	}
	if mipSlice >= max(desc.MipLevelCount, 1) || arraySlice >= desc.ArraySize() {
		panic(errors.AssertionFailedf("mip %d of array slice %d is out of range for %q with %d mips and %d slices", mipSlice, arraySlice, texture.Name(), desc.MipLevelCount, desc.ArraySize()))
	}

	return desc.SubresourceIndex(mipSlice, arraySlice)
}

// CopyTexture copies one mip of one array slice of src into dest. Both subresources must have the
// same size, and only the two copied subresources are transitioned.
func (c *CommandContext) CopyTexture(dest *Resource, destMipSlice, destArraySlice uint32, src *Resource, srcMipSlice, srcArraySlice uint32) error {
	c.checkOpen()

	destSubresource := c.checkTextureSubresource(dest, destMipSlice, destArraySlice)
	srcSubresource := c.checkTextureSubresource(src, srcMipSlice, srcArraySlice)

	if dest.Desc().IsMultisampled() || src.Desc().IsMultisampled() {
		panic(errors.AssertionFailedf("CopyTexture from %q to %q cannot copy multisampled textures, use ResolveTexture", src.Name(), dest.Name()))
	}
	if dest.Desc().MipSize(destMipSlice) != src.Desc().MipSize(srcMipSlice) {
		panic(errors.AssertionFailedf("CopyTexture from mip %d of %q to mip %d of %q changes the size", srcMipSlice, src.Name(), destMipSlice, dest.Name()))
	}

	err := c.TransitionSubresource(src, srcSubresource, driver.ResourceStateCopySource)
	if err != nil {
		return err
	}

	err = c.TransitionSubresource(dest, destSubresource, driver.ResourceStateCopyDest)
	if err != nil {
		return err
	}

	c.FlushResourceBarriers()
	c.list.CopyTextureRegion(
		driver.TextureCopyLocation{Resource: dest.Driver(), Subresource: destSubresource},
		driver.TextureCopyLocation{Resource: src.Driver(), Subresource: srcSubresource},
	)
	return nil
}

// SubresourceData is the CPU copy of one subresource. RowPitch is the distance between rows of
// Data and SlicePitch the distance between depth slices of 3D textures.
type SubresourceData struct {
	Data       []byte
	RowPitch   int
	SlicePitch int
}

// UpdateSubresources stages data in transient upload memory and copies it into consecutive
// subresources of dest starting at firstSubresource
func (c *CommandContext) UpdateSubresources(dest *Resource, firstSubresource uint32, data []SubresourceData) error {
	c.checkOpen()

	if len(data) == 0 {
		return nil
	}
	if dest.Desc().IsBuffer() {
		panic(errors.AssertionFailedf("UpdateSubresources target %q is a buffer, use UpdateBuffer", dest.Name()))
	}

	numSubresources := uint32(len(data))
	if firstSubresource+numSubresources > dest.SubresourceCount() {
		panic(errors.AssertionFailedf("%d subresources from %d overflow %q with %d subresources", numSubresources, firstSubresource, dest.Name(), dest.SubresourceCount()))
	}

	footprints, totalBytes := c.manager.device.CopyableFootprints(dest.Desc(), firstSubresource, numSubresources, 0)
	if len(footprints) != len(data) {
		return errors.Newf("the driver laid out %d of %d subresources of %q", len(footprints), len(data), dest.Name())
	}

	upload, err := c.frameAllocator().AllocateTransientUploadMemory(totalBytes, 1, driver.TextureDataPlacementAlignment)
	if err != nil {
		return err
	}

	staged := upload.Bytes(0)
	for i, footprint := range footprints {
		err = stageSubresource(staged, footprint, data[i])
		if err != nil {
			return errors.Wrapf(err, "subresource %d of %q", firstSubresource+uint32(i), dest.Name())
		}
	}

	for i := range footprints {
		err = c.TransitionSubresource(dest, firstSubresource+uint32(i), driver.ResourceStateCopyDest)
		if err != nil {
			return err
		}
	}

	c.FlushResourceBarriers()
	for i, footprint := range footprints {
		footprint.Offset += upload.Offset(0)
		c.list.CopyTextureRegion(
			driver.TextureCopyLocation{Resource: dest.Driver(), Subresource: firstSubresource + uint32(i)},
			driver.TextureCopyLocation{Resource: upload.Resource().Driver(), Footprint: &footprint},
		)
	}

	return nil
}

// stageSubresource copies the rows of data into staged at the pitch of footprint
func stageSubresource(staged []byte, footprint driver.PlacedSubresourceFootprint, data SubresourceData) error {
	if data.RowPitch < footprint.RowSize {
		return errors.Newf("row pitch %d is smaller than a row of %d bytes", data.RowPitch, footprint.RowSize)
	}

	slicePitch := data.SlicePitch
	if slicePitch == 0 {
		slicePitch = data.RowPitch * int(footprint.Height)
	}

	lastRow := slicePitch*(int(footprint.Depth)-1) + data.RowPitch*(int(footprint.Height)-1) + footprint.RowSize
	if lastRow > len(data.Data) {
		return errors.Newf("%d bytes of data do not cover %d rows of %d bytes", len(data.Data), footprint.Height*footprint.Depth, footprint.RowSize)
	}

	for z := range int(footprint.Depth) {
		for y := range int(footprint.Height) {
			src := z*slicePitch + y*data.RowPitch
			dest := footprint.Offset + (z*int(footprint.Height)+y)*footprint.RowPitch
			copy(staged[dest:dest+footprint.RowSize], data.Data[src:src+footprint.RowSize])
		}
	}

	return nil
}

// WaitOnGpu makes the queue wait for syncPoint before executing this context's work
func (c *CommandContext) WaitOnGpu(syncPoint SyncPoint) {
	c.checkOpen()
	c.list.WaitOnGpu(syncPoint)
}

// WaitOnFuture makes the queue wait for a deferred submission from the current frame. A context that
// waits on a future can only be submitted with SubmitAndReleaseDeferred.
func (c *CommandContext) WaitOnFuture(future FutureSyncPoint) {
	c.checkOpen()
	c.list.WaitOnFuture(future)
}

// SubmitAndRelease executes the recorded work on the calling goroutine and returns the context to
// the pool. The returned sync point completes once the GPU has finished the work.
func (c *CommandContext) SubmitAndRelease() (SyncPoint, error) {
	c.FlushResourceBarriers()

	list := c.list
	if list.HasFutureWaits() {
		panic(errors.AssertionFailedf("a %s command context waiting on future sync points was submitted immediately", c.queueType))
	}

	c.close()
	c.manager.recycleContext(c)

	return c.manager.submitImmediate(list)
}

// SubmitAndReleaseDeferred hands the recorded work to the submission goroutine and returns the
// context to the pool. The work executes after the next buffer swap.
func (c *CommandContext) SubmitAndReleaseDeferred() FutureSyncPoint {
	c.FlushResourceBarriers()

	list := c.list
	c.close()
	c.manager.recycleContext(c)

	return c.manager.submitDeferred(list)
}
