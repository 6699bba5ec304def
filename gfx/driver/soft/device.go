// Package soft is a CPU implementation of the driver interfaces. Queues execute command lists
// synchronously at submission, resources are byte slices, and placed resources alias the bytes of
// their heap. Fences complete as soon as their signal executes unless the device was created with
// ManualFenceCompletion, in which case signals stay pending until CompletePendingSignals.
package soft

import (
	"sync"
	"sync/atomic"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/gfxcore/gfx/driver"
	"github.com/vkngwrapper/gfxcore/memutils"
)

const (
	placementAlignment     = 64 * 1024
	msaaPlacementAlignment = 4 * 1024 * 1024
	addressSpaceStart      = 0x10000

	cpuDescriptorSpaceStart = 0x1000
	gpuDescriptorSpaceStart = 1 << 48
)

var incrementSizes = [driver.DescriptorHeapTypeCount]int{
	driver.DescriptorHeapTypeCbvSrvUav: 32,
	driver.DescriptorHeapTypeSampler:   16,
	driver.DescriptorHeapTypeRtv:       32,
	driver.DescriptorHeapTypeDsv:       32,
}

type Options struct {
	// ManualFenceCompletion keeps queue-side fence signals pending until CompletePendingSignals
	// is called, which lets tests hold the GPU timeline still.
	ManualFenceCompletion bool
}

// Descriptor is the content of a descriptor slot. Samplers carry their description, every other
// descriptor carries whatever tag was written with WriteDescriptor.
type Descriptor struct {
	Sampler *driver.SamplerDesc
	Tag     uint64
}

// LiveObjects counts the driver objects that have been created and not yet destroyed
type LiveObjects struct {
	Queues            int
	Fences            int
	CommandAllocators int
	CommandLists      int
	DescriptorHeaps   int
	Heaps             int
	Resources         int
	RootSignatures    int
}

type pendingSignal struct {
	fence *Fence
	value uint64
}

type Device struct {
	options Options

	nextAddress       atomic.Uint64
	nextCPUDescriptor atomic.Uint64
	nextGPUDescriptor atomic.Uint64

	queues                   atomic.Int64
	fences                   atomic.Int64
	commandAllocators        atomic.Int64
	createdCommandAllocators atomic.Int64
	commandLists             atomic.Int64
	descriptorHeaps          atomic.Int64
	heaps                    atomic.Int64
	resources                atomic.Int64
	rootSignatures           atomic.Int64

	descriptorLock sync.Mutex
	descriptors    map[uint64]Descriptor

	signalLock     sync.Mutex
	pendingSignals []pendingSignal

	errorLock    sync.Mutex
	executeError error
}

var _ driver.Device = &Device{}

func NewDevice(options Options) *Device {
	d := &Device{
		options:     options,
		descriptors: make(map[uint64]Descriptor),
	}
	d.nextAddress.Store(addressSpaceStart)
	d.nextCPUDescriptor.Store(cpuDescriptorSpaceStart)
	d.nextGPUDescriptor.Store(gpuDescriptorSpaceStart)

	return d
}

// LiveObjects returns the number of live objects of each kind
func (d *Device) LiveObjects() LiveObjects {
	return LiveObjects{
		Queues:            int(d.queues.Load()),
		Fences:            int(d.fences.Load()),
		CommandAllocators: int(d.commandAllocators.Load()),
		CommandLists:      int(d.commandLists.Load()),
		DescriptorHeaps:   int(d.descriptorHeaps.Load()),
		Heaps:             int(d.heaps.Load()),
		Resources:         int(d.resources.Load()),
		RootSignatures:    int(d.rootSignatures.Load()),
	}
}

// CreatedCommandAllocators returns the number of command allocators ever created
func (d *Device) CreatedCommandAllocators() int {
	return int(d.createdCommandAllocators.Load())
}

// FailNextExecute makes the next ExecuteCommandLists call on any queue return err
func (d *Device) FailNextExecute(err error) {
	d.errorLock.Lock()
	defer d.errorLock.Unlock()

	d.executeError = err
}

func (d *Device) takeExecuteError() error {
	d.errorLock.Lock()
	defer d.errorLock.Unlock()

	err := d.executeError
	d.executeError = nil
	return err
}

// CompletePendingSignals completes every queue-side signal issued so far, in issue order. It
// returns the number of signals completed. It is a no-op unless ManualFenceCompletion is set.
func (d *Device) CompletePendingSignals() int {
	d.signalLock.Lock()
	pending := d.pendingSignals
	d.pendingSignals = nil
	d.signalLock.Unlock()

	for _, signal := range pending {
		signal.fence.complete(signal.value)
	}

	return len(pending)
}

func (d *Device) queueSignal(fence *Fence, value uint64) {
	if !d.options.ManualFenceCompletion {
		fence.complete(value)
		return
	}

	d.signalLock.Lock()
	defer d.signalLock.Unlock()

	d.pendingSignals = append(d.pendingSignals, pendingSignal{fence: fence, value: value})
}

func (d *Device) allocateAddress(size int, alignment int) uint64 {
	reserved := uint64(memutils.AlignUp(max(size, 1), alignment))
	end := d.nextAddress.Add(reserved)
	return end - reserved
}

func (d *Device) CreateCommandQueue(queueType driver.QueueType) (driver.Queue, error) {
	d.queues.Add(1)
	return &Queue{device: d, queueType: queueType}, nil
}

func (d *Device) CreateFence(initialValue uint64) (driver.Fence, error) {
	d.fences.Add(1)
	fence := &Fence{device: d, completed: initialValue}
	fence.cond = sync.NewCond(&fence.lock)
	return fence, nil
}

func (d *Device) CreateCommandAllocator(queueType driver.QueueType) (driver.CommandAllocator, error) {
	d.commandAllocators.Add(1)
	d.createdCommandAllocators.Add(1)
	return &CommandAllocator{device: d, queueType: queueType}, nil
}

func (d *Device) CreateCommandList(queueType driver.QueueType) (driver.CommandList, error) {
	d.commandLists.Add(1)
	return &CommandList{device: d, queueType: queueType}, nil
}

func (d *Device) CreateDescriptorHeap(heapType driver.DescriptorHeapType, capacity int, shaderVisible bool) (driver.DescriptorHeap, error) {
	if capacity <= 0 {
		return nil, errors.Wrapf(memutils.ZeroSizeError, "descriptor heap capacity %d", capacity)
	}

	size := uint64(capacity * incrementSizes[heapType])
	heap := &DescriptorHeap{
		device:        d,
		heapType:      heapType,
		capacity:      capacity,
		shaderVisible: shaderVisible,
		cpuStart:      driver.CPUDescriptorHandle{Ptr: d.nextCPUDescriptor.Add(size) - size},
	}

	if shaderVisible {
		heap.gpuStart = driver.GPUDescriptorHandle{Ptr: d.nextGPUDescriptor.Add(size) - size}
	}

	d.descriptorHeaps.Add(1)
	return heap, nil
}

func (d *Device) DescriptorHandleIncrementSize(heapType driver.DescriptorHeapType) int {
	return incrementSizes[heapType]
}

func (d *Device) CopyDescriptor(dest driver.CPUDescriptorHandle, src driver.CPUDescriptorHandle, heapType driver.DescriptorHeapType) {
	d.descriptorLock.Lock()
	defer d.descriptorLock.Unlock()

	d.descriptors[dest.Ptr] = d.descriptors[src.Ptr]
}

func (d *Device) CreateSampler(desc driver.SamplerDesc, dest driver.CPUDescriptorHandle) {
	d.descriptorLock.Lock()
	defer d.descriptorLock.Unlock()

	d.descriptors[dest.Ptr] = Descriptor{Sampler: &desc}
}

// WriteDescriptor stores a tagged descriptor at the provided handle, standing in for view creation
func (d *Device) WriteDescriptor(dest driver.CPUDescriptorHandle, tag uint64) {
	d.descriptorLock.Lock()
	defer d.descriptorLock.Unlock()

	d.descriptors[dest.Ptr] = Descriptor{Tag: tag}
}

// ReadDescriptor returns the content of the descriptor at the provided handle
func (d *Device) ReadDescriptor(handle driver.CPUDescriptorHandle) Descriptor {
	d.descriptorLock.Lock()
	defer d.descriptorLock.Unlock()

	return d.descriptors[handle.Ptr]
}

func (d *Device) CreateHeap(heapType driver.HeapType, sizeInBytes int, msaa bool) (driver.Heap, error) {
	if sizeInBytes <= 0 {
		return nil, errors.Wrapf(memutils.ZeroSizeError, "heap size %d", sizeInBytes)
	}

	alignment := placementAlignment
	if msaa {
		alignment = msaaPlacementAlignment
	}

	d.heaps.Add(1)
	return &Heap{
		device:   d,
		heapType: heapType,
		address:  d.allocateAddress(sizeInBytes, alignment),
		bytes:    make([]byte, sizeInBytes),
	}, nil
}

func (d *Device) ResourceAllocationInfo(desc driver.ResourceDesc) driver.ResourceAllocationInfo {
	alignment := placementAlignment
	if desc.IsMultisampled() {
		alignment = msaaPlacementAlignment
	}

	return driver.ResourceAllocationInfo{
		SizeInBytes: memutils.AlignUp(resourceByteSize(desc), alignment),
		Alignment:   alignment,
	}
}

func resourceByteSize(desc driver.ResourceDesc) int {
	if desc.IsBuffer() {
		return max(desc.ByteSize, 1)
	}

	layouts := textureLayouts(desc)
	last := layouts[len(layouts)-1]
	samples := max(int(desc.SampleCount), 1)

	return max((last.offset+last.byteSize())*samples, 1)
}

// CopyableFootprints lays subresources out with aligned row pitches and offsets. Buffers have no
// footprints.
func (d *Device) CopyableFootprints(desc driver.ResourceDesc, firstSubresource, numSubresources uint32, baseOffset int) ([]driver.PlacedSubresourceFootprint, int) {
	if desc.IsBuffer() || firstSubresource+numSubresources > desc.SubresourceCount() {
		return nil, 0
	}

	layouts := textureLayouts(desc)
	footprints := make([]driver.PlacedSubresourceFootprint, numSubresources)

	offset := memutils.AlignUp(baseOffset, driver.TextureDataPlacementAlignment)
	end := baseOffset
	for i := range footprints {
		layout := layouts[firstSubresource+uint32(i)]
		rowPitch := memutils.AlignUp(layout.rowSize(), driver.TextureDataPitchAlignment)

		footprints[i] = driver.PlacedSubresourceFootprint{
			Offset:   offset,
			Width:    uint32(layout.width),
			Height:   uint32(layout.height),
			Depth:    uint32(layout.depth),
			RowPitch: rowPitch,
			RowSize:  layout.rowSize(),
		}

		end = offset + rowPitch*(layout.rows()-1) + layout.rowSize()
		offset = memutils.AlignUp(end, driver.TextureDataPlacementAlignment)
	}

	return footprints, end - baseOffset
}

func (d *Device) CreateCommittedResource(heapType driver.HeapType, desc driver.ResourceDesc, initialState driver.ResourceStates, clearValue *driver.ClearValue) (driver.Resource, error) {
	size := resourceByteSize(desc)
	info := d.ResourceAllocationInfo(desc)

	d.resources.Add(1)
	return &Resource{
		device:   d,
		desc:     desc,
		heapType: heapType,
		address:  d.allocateAddress(info.SizeInBytes, info.Alignment),
		bytes:    make([]byte, size),
	}, nil
}

func (d *Device) CreatePlacedResource(heap driver.Heap, offset int, desc driver.ResourceDesc, initialState driver.ResourceStates, clearValue *driver.ClearValue) (driver.Resource, error) {
	softHeap, ok := heap.(*Heap)
	if !ok {
		return nil, errors.Newf("placed resource requested in a heap of type %T", heap)
	}

	size := resourceByteSize(desc)
	if offset < 0 || offset+size > len(softHeap.bytes) {
		return nil, errors.Newf("placed resource of %d bytes at offset %d does not fit a heap of %d bytes", size, offset, len(softHeap.bytes))
	}

	d.resources.Add(1)
	return &Resource{
		device:   d,
		desc:     desc,
		heapType: softHeap.heapType,
		address:  softHeap.address + uint64(offset),
		bytes:    softHeap.bytes[offset : offset+size : offset+size],
		heap:     softHeap,
	}, nil
}

func (d *Device) CreateRootSignature(serialized []byte) (driver.RootSignature, error) {
	d.rootSignatures.Add(1)
	return &RootSignature{device: d, serialized: string(serialized)}, nil
}

type RootSignature struct {
	device     *Device
	serialized string
}

func (s *RootSignature) Serialized() string { return s.serialized }

func (s *RootSignature) Destroy() {
	s.device.rootSignatures.Add(-1)
}
