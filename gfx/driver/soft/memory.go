package soft

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/gfxcore/gfx/driver"
)

type Heap struct {
	device   *Device
	heapType driver.HeapType
	address  uint64
	bytes    []byte
}

var _ driver.Heap = &Heap{}

func (h *Heap) Type() driver.HeapType { return h.heapType }
func (h *Heap) Size() int             { return len(h.bytes) }

func (h *Heap) Destroy() {
	h.device.heaps.Add(-1)
}

type Resource struct {
	device   *Device
	desc     driver.ResourceDesc
	heapType driver.HeapType
	heap     *Heap
	address  uint64
	bytes    []byte
	name     string
	mapped   bool
}

var _ driver.Resource = &Resource{}

func (r *Resource) Desc() driver.ResourceDesc { return r.desc }
func (r *Resource) GPUVirtualAddress() uint64 { return r.address }
func (r *Resource) Name() string              { return r.name }
func (r *Resource) SetName(name string)       { r.name = name }

// Heap returns the heap a placed resource lives in, or nil for committed resources
func (r *Resource) Heap() *Heap { return r.heap }

func (r *Resource) Map() ([]byte, error) {
	if !r.heapType.IsCPUAccessible() {
		return nil, errors.Newf("resource %q lives in a %s heap and cannot be mapped", r.name, r.heapType)
	}

	r.mapped = true
	return r.bytes, nil
}

func (r *Resource) Unmap() {
	r.mapped = false
}

func (r *Resource) Destroy() {
	r.device.resources.Add(-1)
}

// Contents returns the bytes backing any soft resource, including ones that cannot be mapped
func Contents(resource driver.Resource) []byte {
	softResource, ok := resource.(*Resource)
	if !ok {
		return nil
	}

	return softResource.bytes
}

type DescriptorHeap struct {
	device        *Device
	heapType      driver.DescriptorHeapType
	capacity      int
	shaderVisible bool
	cpuStart      driver.CPUDescriptorHandle
	gpuStart      driver.GPUDescriptorHandle
}

var _ driver.DescriptorHeap = &DescriptorHeap{}

func (h *DescriptorHeap) Type() driver.DescriptorHeapType            { return h.heapType }
func (h *DescriptorHeap) Capacity() int                              { return h.capacity }
func (h *DescriptorHeap) ShaderVisible() bool                        { return h.shaderVisible }
func (h *DescriptorHeap) CPUHandleStart() driver.CPUDescriptorHandle { return h.cpuStart }
func (h *DescriptorHeap) GPUHandleStart() driver.GPUDescriptorHandle { return h.gpuStart }

func (h *DescriptorHeap) Destroy() {
	h.device.descriptorHeaps.Add(-1)
}
