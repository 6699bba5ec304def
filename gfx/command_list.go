package gfx

import (
	"github.com/cockroachdb/errors"
	"github.com/gogpu/gputypes"
	"github.com/vkngwrapper/gfxcore/gfx/driver"
)

// command is one deferred command. Variants with variable-length payloads keep a range into one of
// the CommandList side slices instead of owning a slice.
type command interface {
	translate(l *CommandList)
}

type span struct {
	start int
	count int
}

type beginEventCommand struct {
	name string
}

type endEventCommand struct{}

type flushResourceBarriersCommand struct {
	barriers span
}

type setRenderTargetsCommand struct {
	renderTargets   span
	depthStencil    driver.CPUDescriptorHandle
	hasDepthStencil bool
}

type clearColorCommand struct {
	renderTarget driver.CPUDescriptorHandle
	color        gputypes.Color
}

type clearDepthStencilCommand struct {
	depthStencil driver.CPUDescriptorHandle
	flags        driver.ClearFlags
	depth        float32
	stencil      uint8
}

type setViewportsCommand struct {
	viewports span
}

type setScissorRectsCommand struct {
	rects span
}

type setPipelineStateCommand struct {
	pipelineState driver.PipelineState
}

type setRootSignatureCommand struct {
	rootSignature driver.RootSignature
	compute       bool
}

type setStencilRefCommand struct {
	stencilRef uint32
}

type setPrimitiveTopologyCommand struct {
	topology gputypes.PrimitiveTopology
}

type setVertexBuffersCommand struct {
	startSlot uint32
	views     span
}

type setIndexBufferCommand struct {
	view    driver.IndexBufferView
	hasView bool
}

type setDescriptorHeapsCommand struct {
	heaps span
}

type setRootDescriptorTableCommand struct {
	rootParameterIndex uint32
	baseDescriptor     driver.GPUDescriptorHandle
	compute            bool
}

type drawIndexedInstancedCommand struct {
	indexCountPerInstance uint32
	instanceCount         uint32
	startIndexLocation    uint32
	baseVertexLocation    int32
	startInstanceLocation uint32
}

type dispatchCommand struct {
	threadGroupCountX uint32
	threadGroupCountY uint32
	threadGroupCountZ uint32
}

type copyBufferRegionCommand struct {
	dest       driver.Resource
	destOffset int
	src        driver.Resource
	srcOffset  int
	numBytes   int
}

type resolveSubresourceCommand struct {
	dest            driver.Resource
	destSubresource uint32
	src             driver.Resource
	srcSubresource  uint32
	format          gputypes.TextureFormat
}

type copyTextureRegionCommand struct {
	dest driver.TextureCopyLocation
	src  driver.TextureCopyLocation
}

func (c beginEventCommand) translate(l *CommandList) { l.hw.BeginEvent(c.name) }
func (c endEventCommand) translate(l *CommandList)   { l.hw.EndEvent() }

func (c flushResourceBarriersCommand) translate(l *CommandList) {
	l.hw.ResourceBarrier(l.barriers[c.barriers.start : c.barriers.start+c.barriers.count])
}

func (c setRenderTargetsCommand) translate(l *CommandList) {
	var depthStencil *driver.CPUDescriptorHandle
	if c.hasDepthStencil {
		depthStencil = &c.depthStencil
	}
	l.hw.OMSetRenderTargets(l.renderTargets[c.renderTargets.start:c.renderTargets.start+c.renderTargets.count], depthStencil)
}

func (c clearColorCommand) translate(l *CommandList) {
	l.hw.ClearRenderTargetView(c.renderTarget, c.color)
}

func (c clearDepthStencilCommand) translate(l *CommandList) {
	l.hw.ClearDepthStencilView(c.depthStencil, c.flags, c.depth, c.stencil)
}

func (c setViewportsCommand) translate(l *CommandList) {
	l.hw.RSSetViewports(l.viewports[c.viewports.start : c.viewports.start+c.viewports.count])
}

func (c setScissorRectsCommand) translate(l *CommandList) {
	l.hw.RSSetScissorRects(l.rects[c.rects.start : c.rects.start+c.rects.count])
}

func (c setPipelineStateCommand) translate(l *CommandList) {
	l.hw.SetPipelineState(c.pipelineState)
}

func (c setRootSignatureCommand) translate(l *CommandList) {
	if c.compute {
		l.hw.SetComputeRootSignature(c.rootSignature)
	} else {
		l.hw.SetGraphicsRootSignature(c.rootSignature)
	}
}

func (c setStencilRefCommand) translate(l *CommandList) { l.hw.OMSetStencilRef(c.stencilRef) }

func (c setPrimitiveTopologyCommand) translate(l *CommandList) {
	l.hw.IASetPrimitiveTopology(c.topology)
}

func (c setVertexBuffersCommand) translate(l *CommandList) {
	l.hw.IASetVertexBuffers(c.startSlot, l.vertexBuffers[c.views.start:c.views.start+c.views.count])
}

func (c setIndexBufferCommand) translate(l *CommandList) {
	if !c.hasView {
		l.hw.IASetIndexBuffer(nil)
		return
	}

	view := c.view
	l.hw.IASetIndexBuffer(&view)
}

func (c setDescriptorHeapsCommand) translate(l *CommandList) {
	l.hw.SetDescriptorHeaps(l.descriptorHeaps[c.heaps.start : c.heaps.start+c.heaps.count])
}

func (c setRootDescriptorTableCommand) translate(l *CommandList) {
	if c.compute {
		l.hw.SetComputeRootDescriptorTable(c.rootParameterIndex, c.baseDescriptor)
	} else {
		l.hw.SetGraphicsRootDescriptorTable(c.rootParameterIndex, c.baseDescriptor)
	}
}

func (c drawIndexedInstancedCommand) translate(l *CommandList) {
	l.hw.DrawIndexedInstanced(c.indexCountPerInstance, c.instanceCount, c.startIndexLocation, c.baseVertexLocation, c.startInstanceLocation)
}

func (c dispatchCommand) translate(l *CommandList) {
	l.hw.Dispatch(c.threadGroupCountX, c.threadGroupCountY, c.threadGroupCountZ)
}

func (c copyBufferRegionCommand) translate(l *CommandList) {
	l.hw.CopyBufferRegion(c.dest, c.destOffset, c.src, c.srcOffset, c.numBytes)
}

func (c resolveSubresourceCommand) translate(l *CommandList) {
	l.hw.ResolveSubresource(c.dest, c.destSubresource, c.src, c.srcSubresource, c.format)
}

func (c copyTextureRegionCommand) translate(l *CommandList) {
	l.hw.CopyTextureRegion(c.dest, c.src)
}

// CommandList records commands for one queue type without touching the driver. Recorded commands
// are translated into a driver command list when the list is executed, which lets the submission
// goroutine do the translation for deferred lists.
type CommandList struct {
	queue *CommandQueue
	hw    driver.CommandList

	commands        []command
	barriers        []driver.ResourceBarrier
	renderTargets   []driver.CPUDescriptorHandle
	viewports       []driver.Viewport
	rects           []driver.Rect
	vertexBuffers   []driver.VertexBufferView
	descriptorHeaps []driver.DescriptorHeap

	waits       []SyncPoint
	futureWaits []FutureSyncPoint

	lastSyncPoint SyncPoint
}

func newCommandList(queue *CommandQueue) (*CommandList, error) {
	hw, err := queue.device.CreateCommandList(queue.queueType)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create %s command list", queue.queueType)
	}

	return &CommandList{
		queue: queue,
		hw:    hw,
	}, nil
}

func (l *CommandList) Type() driver.QueueType { return l.queue.queueType }

// LastSyncPoint returns the sync point produced by the most recent execution of this list. The list
// may not be recycled until it completes.
func (l *CommandList) LastSyncPoint() SyncPoint { return l.lastSyncPoint }

// CommandCount returns the number of commands recorded since the last execution
func (l *CommandList) CommandCount() int { return len(l.commands) }

// HasFutureWaits returns true if the list waits on a FutureSyncPoint that has not been resolved
func (l *CommandList) HasFutureWaits() bool { return len(l.futureWaits) > 0 }

func (l *CommandList) push(cmd command) {
	l.commands = append(l.commands, cmd)
}

func (l *CommandList) BeginEvent(name string) { l.push(beginEventCommand{name: name}) }
func (l *CommandList) EndEvent()              { l.push(endEventCommand{}) }

// ResourceBarriers records a single batch of barriers
func (l *CommandList) ResourceBarriers(barriers []driver.ResourceBarrier) {
	if len(barriers) == 0 {
		return
	}

	start := len(l.barriers)
	l.barriers = append(l.barriers, barriers...)
	l.push(flushResourceBarriersCommand{barriers: span{start: start, count: len(barriers)}})
}

// SetRenderTargets binds color targets and an optional depth stencil target. Pass the zero handle to
// bind no depth stencil target.
func (l *CommandList) SetRenderTargets(renderTargets []driver.CPUDescriptorHandle, depthStencil driver.CPUDescriptorHandle) {
	start := len(l.renderTargets)
	l.renderTargets = append(l.renderTargets, renderTargets...)
	l.push(setRenderTargetsCommand{
		renderTargets:   span{start: start, count: len(renderTargets)},
		depthStencil:    depthStencil,
		hasDepthStencil: depthStencil.IsValid(),
	})
}

func (l *CommandList) ClearColor(renderTarget driver.CPUDescriptorHandle, color gputypes.Color) {
	l.push(clearColorCommand{renderTarget: renderTarget, color: color})
}

func (l *CommandList) ClearDepthStencil(depthStencil driver.CPUDescriptorHandle, flags driver.ClearFlags, depth float32, stencil uint8) {
	l.push(clearDepthStencilCommand{depthStencil: depthStencil, flags: flags, depth: depth, stencil: stencil})
}

func (l *CommandList) SetViewports(viewports []driver.Viewport) {
	start := len(l.viewports)
	l.viewports = append(l.viewports, viewports...)
	l.push(setViewportsCommand{viewports: span{start: start, count: len(viewports)}})
}

func (l *CommandList) SetScissorRects(rects []driver.Rect) {
	start := len(l.rects)
	l.rects = append(l.rects, rects...)
	l.push(setScissorRectsCommand{rects: span{start: start, count: len(rects)}})
}

func (l *CommandList) SetPipelineState(pipelineState driver.PipelineState) {
	l.push(setPipelineStateCommand{pipelineState: pipelineState})
}

func (l *CommandList) SetRootSignature(rootSignature driver.RootSignature, compute bool) {
	l.push(setRootSignatureCommand{rootSignature: rootSignature, compute: compute})
}

func (l *CommandList) SetStencilRef(stencilRef uint32) {
	l.push(setStencilRefCommand{stencilRef: stencilRef})
}

func (l *CommandList) SetPrimitiveTopology(topology gputypes.PrimitiveTopology) {
	l.push(setPrimitiveTopologyCommand{topology: topology})
}

func (l *CommandList) SetVertexBuffers(startSlot uint32, views []driver.VertexBufferView) {
	start := len(l.vertexBuffers)
	l.vertexBuffers = append(l.vertexBuffers, views...)
	l.push(setVertexBuffersCommand{startSlot: startSlot, views: span{start: start, count: len(views)}})
}

// SetIndexBuffer binds an index buffer, or unbinds it when view is nil
func (l *CommandList) SetIndexBuffer(view *driver.IndexBufferView) {
	if view == nil {
		l.push(setIndexBufferCommand{})
		return
	}

	l.push(setIndexBufferCommand{view: *view, hasView: true})
}

func (l *CommandList) SetDescriptorHeaps(heaps []driver.DescriptorHeap) {
	start := len(l.descriptorHeaps)
	l.descriptorHeaps = append(l.descriptorHeaps, heaps...)
	l.push(setDescriptorHeapsCommand{heaps: span{start: start, count: len(heaps)}})
}

func (l *CommandList) SetRootDescriptorTable(rootParameterIndex uint32, baseDescriptor driver.GPUDescriptorHandle, compute bool) {
	l.push(setRootDescriptorTableCommand{
		rootParameterIndex: rootParameterIndex,
		baseDescriptor:     baseDescriptor,
		compute:            compute,
	})
}

func (l *CommandList) DrawIndexedInstanced(indexCountPerInstance, instanceCount, startIndexLocation uint32, baseVertexLocation int32, startInstanceLocation uint32) {
	l.push(drawIndexedInstancedCommand{
		indexCountPerInstance: indexCountPerInstance,
		instanceCount:         instanceCount,
		startIndexLocation:    startIndexLocation,
		baseVertexLocation:    baseVertexLocation,
		startInstanceLocation: startInstanceLocation,
	})
}

func (l *CommandList) Dispatch(threadGroupCountX, threadGroupCountY, threadGroupCountZ uint32) {
	l.push(dispatchCommand{
		threadGroupCountX: threadGroupCountX,
		threadGroupCountY: threadGroupCountY,
		threadGroupCountZ: threadGroupCountZ,
	})
}

func (l *CommandList) CopyBufferRegion(dest driver.Resource, destOffset int, src driver.Resource, srcOffset int, numBytes int) {
	l.push(copyBufferRegionCommand{
		dest:       dest,
		destOffset: destOffset,
		src:        src,
		srcOffset:  srcOffset,
		numBytes:   numBytes,
	})
}

func (l *CommandList) ResolveSubresource(dest driver.Resource, destSubresource uint32, src driver.Resource, srcSubresource uint32, format gputypes.TextureFormat) {
	l.push(resolveSubresourceCommand{
		dest:            dest,
		destSubresource: destSubresource,
		src:             src,
		srcSubresource:  srcSubresource,
		format:          format,
	})
}

// CopyTextureRegion copies a whole subresource. Footprints are copied, so callers may reuse them.
func (l *CommandList) CopyTextureRegion(dest driver.TextureCopyLocation, src driver.TextureCopyLocation) {
	l.push(copyTextureRegionCommand{
		dest: ownedLocation(dest),
		src:  ownedLocation(src),
	})
}

func ownedLocation(location driver.TextureCopyLocation) driver.TextureCopyLocation {
	if location.Footprint != nil {
		footprint := *location.Footprint
		location.Footprint = &footprint
	}

	return location
}

// WaitOnGpu makes the queue wait for syncPoint before executing this list
func (l *CommandList) WaitOnGpu(syncPoint SyncPoint) {
	if syncPoint.IsValid() {
		l.waits = append(l.waits, syncPoint)
	}
}

// WaitOnFuture makes the queue wait for the deferred list future stands in for. Lists with future
// waits can only be executed by the submission goroutine.
func (l *CommandList) WaitOnFuture(future FutureSyncPoint) {
	if future.IsValid() {
		l.futureWaits = append(l.futureWaits, future)
	}
}

// resolveFutureWaits converts every future wait into a sync point wait
func (l *CommandList) resolveFutureWaits(resolve func(FutureSyncPoint) SyncPoint) {
	for _, future := range l.futureWaits {
		l.WaitOnGpu(resolve(future))
	}
	l.futureWaits = l.futureWaits[:0]
}

// Execute translates the recorded commands into the driver list and submits it. The returned sync
// point completes once the GPU has finished executing the list. All recorded state is cleared.
//
// Executing a list that still has unresolved future waits panics.
func (l *CommandList) Execute(isImmediate bool) (SyncPoint, error) {
	if len(l.futureWaits) > 0 {
		panic(errors.AssertionFailedf("a %s command list with %d unresolved future sync points was executed (immediate: %t)", l.Type(), len(l.futureWaits), isImmediate))
	}

	allocator, err := l.queue.RequestCommandAllocator()
	if err != nil {
		return SyncPoint{}, err
	}

	err = l.hw.Reset(allocator)
	if err != nil {
		return l.abandon(allocator, errors.Wrapf(err, "failed to reset %s command list", l.Type()))
	}

	for _, cmd := range l.commands {
		cmd.translate(l)
	}

	err = l.hw.Close()
	if err != nil {
		return l.abandon(allocator, errors.Wrapf(err, "failed to close %s command list", l.Type()))
	}

	for _, syncPoint := range l.waits {
		err = l.queue.WaitOnGpu(syncPoint)
		if err != nil {
			return l.abandon(allocator, err)
		}
	}

	err = l.queue.ExecuteCommandList(l.hw)
	if err != nil {
		return l.abandon(allocator, err)
	}

	syncPoint, err := l.queue.ReleaseCommandAllocator(allocator)
	if err != nil {
		return SyncPoint{}, err
	}

	l.lastSyncPoint = syncPoint
	l.clear()

	return syncPoint, nil
}

// abandon drops the recorded commands after a failed execution and returns the allocator to its
// queue so the list can be recycled
func (l *CommandList) abandon(allocator driver.CommandAllocator, err error) (SyncPoint, error) {
	syncPoint, releaseErr := l.queue.ReleaseCommandAllocator(allocator)
	if releaseErr == nil {
		l.lastSyncPoint = syncPoint
	}

	l.clear()
	return SyncPoint{}, errors.CombineErrors(err, releaseErr)
}

func (l *CommandList) clear() {
	clear(l.commands)
	l.commands = l.commands[:0]
	clear(l.barriers)
	l.barriers = l.barriers[:0]
	l.renderTargets = l.renderTargets[:0]
	l.viewports = l.viewports[:0]
	l.rects = l.rects[:0]
	l.vertexBuffers = l.vertexBuffers[:0]
	clear(l.descriptorHeaps)
	l.descriptorHeaps = l.descriptorHeaps[:0]
	l.waits = l.waits[:0]
	l.futureWaits = l.futureWaits[:0]
}

func (l *CommandList) Destroy() {
	l.hw.Destroy()
}
