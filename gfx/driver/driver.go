// Package driver is the narrow hardware surface the graphics core is written against. A backend
// implements these interfaces over a native graphics API; the soft package implements them on the
// CPU for headless runs and tests.
//
// Every method that talks to hardware returns an error. The core treats those errors as fatal.
package driver

import "github.com/gogpu/gputypes"

//go:generate mockgen -source driver.go -destination mocks/mocks.go -package mocks

// Device creates every other driver object
type Device interface {
	CreateCommandQueue(queueType QueueType) (Queue, error)
	CreateFence(initialValue uint64) (Fence, error)
	CreateCommandAllocator(queueType QueueType) (CommandAllocator, error)
	// CreateCommandList creates a closed command list. Reset must be called before recording.
	CreateCommandList(queueType QueueType) (CommandList, error)

	CreateDescriptorHeap(heapType DescriptorHeapType, capacity int, shaderVisible bool) (DescriptorHeap, error)
	DescriptorHandleIncrementSize(heapType DescriptorHeapType) int
	CopyDescriptor(dest CPUDescriptorHandle, src CPUDescriptorHandle, heapType DescriptorHeapType)
	CreateSampler(desc SamplerDesc, dest CPUDescriptorHandle)

	CreateHeap(heapType HeapType, sizeInBytes int, msaa bool) (Heap, error)
	ResourceAllocationInfo(desc ResourceDesc) ResourceAllocationInfo
	CreateCommittedResource(heapType HeapType, desc ResourceDesc, initialState ResourceStates, clearValue *ClearValue) (Resource, error)
	CreatePlacedResource(heap Heap, offset int, desc ResourceDesc, initialState ResourceStates, clearValue *ClearValue) (Resource, error)
	// CopyableFootprints lays out numSubresources subresources of a texture in a buffer, starting at
	// baseOffset. totalBytes covers the last row of the last subresource.
	CopyableFootprints(desc ResourceDesc, firstSubresource, numSubresources uint32, baseOffset int) (footprints []PlacedSubresourceFootprint, totalBytes int)

	CreateRootSignature(serialized []byte) (RootSignature, error)
}

// Queue executes closed command lists in submission order
type Queue interface {
	Type() QueueType
	// Signal enqueues a signal of the fence to value after all previously submitted work
	Signal(fence Fence, value uint64) error
	// Wait makes all subsequently submitted work wait until the fence reaches value
	Wait(fence Fence, value uint64) error
	ExecuteCommandLists(lists ...CommandList) error
}

// Fence is a monotonically increasing 64-bit counter shared between the CPU and GPU
type Fence interface {
	CompletedValue() uint64
	// Signal sets the fence value from the CPU
	Signal(value uint64) error
	// WaitForValue blocks the calling goroutine until the fence reaches value
	WaitForValue(value uint64) error
	Destroy()
}

// CommandAllocator backs the memory of recorded command lists. It may only be reset once the GPU
// has finished executing every list recorded into it.
type CommandAllocator interface {
	Type() QueueType
	Reset() error
	Destroy()
}

// CommandList records GPU commands
type CommandList interface {
	Type() QueueType
	Reset(allocator CommandAllocator) error
	Close() error

	BeginEvent(name string)
	EndEvent()
	ResourceBarrier(barriers []ResourceBarrier)

	OMSetRenderTargets(renderTargets []CPUDescriptorHandle, depthStencil *CPUDescriptorHandle)
	ClearRenderTargetView(renderTarget CPUDescriptorHandle, color gputypes.Color)
	ClearDepthStencilView(depthStencil CPUDescriptorHandle, flags ClearFlags, depth float32, stencil uint8)
	RSSetViewports(viewports []Viewport)
	RSSetScissorRects(rects []Rect)
	OMSetStencilRef(stencilRef uint32)

	SetPipelineState(pipelineState PipelineState)
	SetGraphicsRootSignature(rootSignature RootSignature)
	SetComputeRootSignature(rootSignature RootSignature)
	IASetPrimitiveTopology(topology gputypes.PrimitiveTopology)
	IASetVertexBuffers(startSlot uint32, views []VertexBufferView)
	IASetIndexBuffer(view *IndexBufferView)

	SetDescriptorHeaps(heaps []DescriptorHeap)
	SetGraphicsRootDescriptorTable(rootParameterIndex uint32, baseDescriptor GPUDescriptorHandle)
	SetComputeRootDescriptorTable(rootParameterIndex uint32, baseDescriptor GPUDescriptorHandle)

	DrawIndexedInstanced(indexCountPerInstance, instanceCount, startIndexLocation uint32, baseVertexLocation int32, startInstanceLocation uint32)
	Dispatch(threadGroupCountX, threadGroupCountY, threadGroupCountZ uint32)
	CopyBufferRegion(dest Resource, destOffset int, src Resource, srcOffset int, numBytes int)
	ResolveSubresource(dest Resource, destSubresource uint32, src Resource, srcSubresource uint32, format gputypes.TextureFormat)
	// CopyTextureRegion copies a whole subresource. At most one side may be a buffer footprint.
	CopyTextureRegion(dest TextureCopyLocation, src TextureCopyLocation)

	Destroy()
}

// DescriptorHeap is a contiguous array of descriptors
type DescriptorHeap interface {
	Type() DescriptorHeapType
	Capacity() int
	ShaderVisible() bool
	CPUHandleStart() CPUDescriptorHandle
	// GPUHandleStart returns the zero handle for heaps that are not shader visible
	GPUHandleStart() GPUDescriptorHandle
	Destroy()
}

// Heap is a block of device memory that placed resources are created inside
type Heap interface {
	Type() HeapType
	Size() int
	Destroy()
}

// Resource is a buffer or texture
type Resource interface {
	Desc() ResourceDesc
	GPUVirtualAddress() uint64
	// Map returns the bytes of the resource. It fails for resources that are not CPU accessible.
	Map() ([]byte, error)
	Unmap()
	SetName(name string)
	Destroy()
}

type PipelineState interface {
	Destroy()
}

type RootSignature interface {
	Destroy()
}
