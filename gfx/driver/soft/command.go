package soft

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/gogpu/gputypes"
	"github.com/vkngwrapper/gfxcore/gfx/driver"
)

type OpKind int32

const (
	OpBeginEvent OpKind = iota
	OpEndEvent
	OpResourceBarrier
	OpSetRenderTargets
	OpClearRenderTarget
	OpClearDepthStencil
	OpSetViewports
	OpSetScissorRects
	OpSetStencilRef
	OpSetPipelineState
	OpSetGraphicsRootSignature
	OpSetComputeRootSignature
	OpSetPrimitiveTopology
	OpSetVertexBuffers
	OpSetIndexBuffer
	OpSetDescriptorHeaps
	OpSetGraphicsRootDescriptorTable
	OpSetComputeRootDescriptorTable
	OpDrawIndexedInstanced
	OpDispatch
	OpCopyBufferRegion
	OpResolveSubresource
	OpCopyTextureRegion
)

var opKindNames = map[OpKind]string{
	OpBeginEvent:                     "BeginEvent",
	OpEndEvent:                       "EndEvent",
	OpResourceBarrier:                "ResourceBarrier",
	OpSetRenderTargets:               "SetRenderTargets",
	OpClearRenderTarget:              "ClearRenderTarget",
	OpClearDepthStencil:              "ClearDepthStencil",
	OpSetViewports:                   "SetViewports",
	OpSetScissorRects:                "SetScissorRects",
	OpSetStencilRef:                  "SetStencilRef",
	OpSetPipelineState:               "SetPipelineState",
	OpSetGraphicsRootSignature:       "SetGraphicsRootSignature",
	OpSetComputeRootSignature:        "SetComputeRootSignature",
	OpSetPrimitiveTopology:           "SetPrimitiveTopology",
	OpSetVertexBuffers:               "SetVertexBuffers",
	OpSetIndexBuffer:                 "SetIndexBuffer",
	OpSetDescriptorHeaps:             "SetDescriptorHeaps",
	OpSetGraphicsRootDescriptorTable: "SetGraphicsRootDescriptorTable",
	OpSetComputeRootDescriptorTable:  "SetComputeRootDescriptorTable",
	OpDrawIndexedInstanced:           "DrawIndexedInstanced",
	OpDispatch:                       "Dispatch",
	OpCopyBufferRegion:               "CopyBufferRegion",
	OpResolveSubresource:             "ResolveSubresource",
	OpCopyTextureRegion:              "CopyTextureRegion",
}

func (k OpKind) String() string {
	return opKindNames[k]
}

// Op is one recorded command. Name holds event names, Detail a human-readable summary of the
// arguments, and Barriers the transitions of a ResourceBarrier op.
type Op struct {
	Kind     OpKind
	Name     string
	Detail   string
	Barriers []driver.ResourceBarrier

	apply func()
}

type CommandAllocator struct {
	device    *Device
	queueType driver.QueueType
	resets    int
}

var _ driver.CommandAllocator = &CommandAllocator{}

func (a *CommandAllocator) Type() driver.QueueType { return a.queueType }

func (a *CommandAllocator) Reset() error {
	a.resets++
	return nil
}

// ResetCount returns the number of times Reset was called
func (a *CommandAllocator) ResetCount() int { return a.resets }

func (a *CommandAllocator) Destroy() {
	a.device.commandAllocators.Add(-1)
}

type CommandList struct {
	device    *Device
	queueType driver.QueueType

	open      bool
	allocator driver.CommandAllocator
	ops       []Op
	err       error
}

var _ driver.CommandList = &CommandList{}

func (l *CommandList) Type() driver.QueueType { return l.queueType }

func (l *CommandList) Reset(allocator driver.CommandAllocator) error {
	if l.open {
		return errors.New("command list was reset while open")
	}

	if allocator.Type() != l.queueType {
		return errors.Newf("%s command list was reset with a %s allocator", l.queueType, allocator.Type())
	}

	l.open = true
	l.allocator = allocator
	l.ops = l.ops[:0]
	l.err = nil
	return nil
}

func (l *CommandList) Close() error {
	if !l.open {
		return errors.New("command list was closed while not open")
	}

	l.open = false
	l.allocator = nil
	return l.err
}

// Ops returns the commands recorded since the last Reset
func (l *CommandList) Ops() []Op {
	return append([]Op(nil), l.ops...)
}

func (l *CommandList) record(op Op) {
	if !l.open && l.err == nil {
		l.err = errors.Newf("%s was recorded into a closed command list", op.Kind)
	}

	l.ops = append(l.ops, op)
}

func (l *CommandList) BeginEvent(name string) {
	l.record(Op{Kind: OpBeginEvent, Name: name})
}

func (l *CommandList) EndEvent() {
	l.record(Op{Kind: OpEndEvent})
}

func (l *CommandList) ResourceBarrier(barriers []driver.ResourceBarrier) {
	l.record(Op{
		Kind:     OpResourceBarrier,
		Detail:   fmt.Sprintf("%d barriers", len(barriers)),
		Barriers: append([]driver.ResourceBarrier(nil), barriers...),
	})
}

func (l *CommandList) OMSetRenderTargets(renderTargets []driver.CPUDescriptorHandle, depthStencil *driver.CPUDescriptorHandle) {
	l.record(Op{Kind: OpSetRenderTargets, Detail: fmt.Sprintf("%d targets, depth %t", len(renderTargets), depthStencil != nil)})
}

func (l *CommandList) ClearRenderTargetView(renderTarget driver.CPUDescriptorHandle, color gputypes.Color) {
	l.record(Op{Kind: OpClearRenderTarget, Detail: fmt.Sprintf("%#x %v", renderTarget.Ptr, color)})
}

func (l *CommandList) ClearDepthStencilView(depthStencil driver.CPUDescriptorHandle, flags driver.ClearFlags, depth float32, stencil uint8) {
	l.record(Op{Kind: OpClearDepthStencil, Detail: fmt.Sprintf("%#x flags %d depth %g stencil %d", depthStencil.Ptr, flags, depth, stencil)})
}

func (l *CommandList) RSSetViewports(viewports []driver.Viewport) {
	l.record(Op{Kind: OpSetViewports, Detail: fmt.Sprintf("%v", viewports)})
}

func (l *CommandList) RSSetScissorRects(rects []driver.Rect) {
	l.record(Op{Kind: OpSetScissorRects, Detail: fmt.Sprintf("%v", rects)})
}

func (l *CommandList) OMSetStencilRef(stencilRef uint32) {
	l.record(Op{Kind: OpSetStencilRef, Detail: fmt.Sprintf("%d", stencilRef)})
}

func (l *CommandList) SetPipelineState(pipelineState driver.PipelineState) {
	l.record(Op{Kind: OpSetPipelineState})
}

func (l *CommandList) SetGraphicsRootSignature(rootSignature driver.RootSignature) {
	l.record(Op{Kind: OpSetGraphicsRootSignature})
}

func (l *CommandList) SetComputeRootSignature(rootSignature driver.RootSignature) {
	l.record(Op{Kind: OpSetComputeRootSignature})
}

func (l *CommandList) IASetPrimitiveTopology(topology gputypes.PrimitiveTopology) {
	l.record(Op{Kind: OpSetPrimitiveTopology, Detail: topology.String()})
}

func (l *CommandList) IASetVertexBuffers(startSlot uint32, views []driver.VertexBufferView) {
	l.record(Op{Kind: OpSetVertexBuffers, Detail: fmt.Sprintf("slot %d %v", startSlot, views)})
}

func (l *CommandList) IASetIndexBuffer(view *driver.IndexBufferView) {
	detail := "nil"
	if view != nil {
		detail = fmt.Sprintf("%#x %d %s", view.BufferLocation, view.SizeInBytes, view.Format)
	}
	l.record(Op{Kind: OpSetIndexBuffer, Detail: detail})
}

func (l *CommandList) SetDescriptorHeaps(heaps []driver.DescriptorHeap) {
	l.record(Op{Kind: OpSetDescriptorHeaps, Detail: fmt.Sprintf("%d heaps", len(heaps))})
}

func (l *CommandList) SetGraphicsRootDescriptorTable(rootParameterIndex uint32, baseDescriptor driver.GPUDescriptorHandle) {
	l.record(Op{Kind: OpSetGraphicsRootDescriptorTable, Detail: fmt.Sprintf("%d %#x", rootParameterIndex, baseDescriptor.Ptr)})
}

func (l *CommandList) SetComputeRootDescriptorTable(rootParameterIndex uint32, baseDescriptor driver.GPUDescriptorHandle) {
	l.record(Op{Kind: OpSetComputeRootDescriptorTable, Detail: fmt.Sprintf("%d %#x", rootParameterIndex, baseDescriptor.Ptr)})
}

func (l *CommandList) DrawIndexedInstanced(indexCountPerInstance, instanceCount, startIndexLocation uint32, baseVertexLocation int32, startInstanceLocation uint32) {
	l.record(Op{Kind: OpDrawIndexedInstanced, Detail: fmt.Sprintf("%d %d %d %d %d", indexCountPerInstance, instanceCount, startIndexLocation, baseVertexLocation, startInstanceLocation)})
}

func (l *CommandList) Dispatch(threadGroupCountX, threadGroupCountY, threadGroupCountZ uint32) {
	l.record(Op{Kind: OpDispatch, Detail: fmt.Sprintf("%d %d %d", threadGroupCountX, threadGroupCountY, threadGroupCountZ)})
}

func (l *CommandList) CopyBufferRegion(dest driver.Resource, destOffset int, src driver.Resource, srcOffset int, numBytes int) {
	op := Op{Kind: OpCopyBufferRegion, Detail: fmt.Sprintf("%d bytes", numBytes)}

	destResource, destOk := dest.(*Resource)
	srcResource, srcOk := src.(*Resource)
	if !destOk || !srcOk {
		if l.err == nil {
			l.err = errors.Newf("copy between resources of types %T and %T", dest, src)
		}
	} else if destOffset+numBytes > len(destResource.bytes) || srcOffset+numBytes > len(srcResource.bytes) {
		if l.err == nil {
			l.err = errors.Newf("copy of %d bytes overruns its source or destination", numBytes)
		}
	} else {
		op.apply = func() {
			copy(destResource.bytes[destOffset:destOffset+numBytes], srcResource.bytes[srcOffset:srcOffset+numBytes])
		}
	}

	l.record(op)
}

func (l *CommandList) ResolveSubresource(dest driver.Resource, destSubresource uint32, src driver.Resource, srcSubresource uint32, format gputypes.TextureFormat) {
	l.record(Op{Kind: OpResolveSubresource, Detail: fmt.Sprintf("%d <- %d %s", destSubresource, srcSubresource, format)})
}

func (l *CommandList) CopyTextureRegion(dest driver.TextureCopyLocation, src driver.TextureCopyLocation) {
	op := Op{Kind: OpCopyTextureRegion, Detail: fmt.Sprintf("%s <- %s", describeLocation(dest), describeLocation(src))}

	destRegion, destErr := locateCopy(dest)
	srcRegion, srcErr := locateCopy(src)
	err := errors.CombineErrors(destErr, srcErr)
	if err == nil && dest.Footprint != nil && src.Footprint != nil {
		err = errors.New("texture copy between two buffer footprints")
	}
	if err == nil && !destRegion.sameShape(srcRegion) {
		err = errors.Newf("texture copy from %dx%dx%d into %dx%dx%d", srcRegion.width, srcRegion.height, srcRegion.depth, destRegion.width, destRegion.height, destRegion.depth)
	}

	if err != nil {
		if l.err == nil {
			l.err = err
		}
	} else {
		op.apply = func() {
			destRegion.copyFrom(srcRegion)
		}
	}

	l.record(op)
}

func (l *CommandList) Destroy() {
	l.device.commandLists.Add(-1)
}
