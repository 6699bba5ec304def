package gfx

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/gfxcore/gfx/driver"
)

// DescriptorHeap is a fixed-capacity array of descriptors of one type
type DescriptorHeap struct {
	device        driver.Device
	hw            driver.DescriptorHeap
	heapType      driver.DescriptorHeapType
	capacity      int
	incrementSize int
	shaderVisible bool
}

func NewDescriptorHeap(device driver.Device, heapType driver.DescriptorHeapType, capacity int, shaderVisible bool) (*DescriptorHeap, error) {
	hw, err := device.CreateDescriptorHeap(heapType, capacity, shaderVisible)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create %s descriptor heap of %d descriptors", heapType, capacity)
	}

	return &DescriptorHeap{
		device:        device,
		hw:            hw,
		heapType:      heapType,
		capacity:      capacity,
		incrementSize: device.DescriptorHandleIncrementSize(heapType),
		shaderVisible: shaderVisible,
	}, nil
}

func (h *DescriptorHeap) Driver() driver.DescriptorHeap   { return h.hw }
func (h *DescriptorHeap) Type() driver.DescriptorHeapType { return h.heapType }
func (h *DescriptorHeap) Capacity() int                   { return h.capacity }
func (h *DescriptorHeap) IncrementSize() int              { return h.incrementSize }
func (h *DescriptorHeap) ShaderVisible() bool             { return h.shaderVisible }

func (h *DescriptorHeap) checkIndex(index int) {
	if index < 0 || index >= h.capacity {
		panic(errors.AssertionFailedf("descriptor index %d is outside a %s heap of %d descriptors", index, h.heapType, h.capacity))
	}
}

func (h *DescriptorHeap) CPUHandle(index int) driver.CPUDescriptorHandle {
	h.checkIndex(index)
	return h.hw.CPUHandleStart().Offset(index, h.incrementSize)
}

// GPUHandle panics for heaps that are not shader visible
func (h *DescriptorHeap) GPUHandle(index int) driver.GPUDescriptorHandle {
	if !h.shaderVisible {
		panic(errors.AssertionFailedf("GPU handle requested from a %s heap that is not shader visible", h.heapType))
	}

	h.checkIndex(index)
	return h.hw.GPUHandleStart().Offset(index, h.incrementSize)
}

// CopyFrom copies srcs into consecutive slots starting at destStart
func (h *DescriptorHeap) CopyFrom(srcs []driver.CPUDescriptorHandle, destStart int) {
	if len(srcs) == 0 {
		return
	}

	h.checkIndex(destStart)
	h.checkIndex(destStart + len(srcs) - 1)

	for i, src := range srcs {
		h.device.CopyDescriptor(h.CPUHandle(destStart+i), src, h.heapType)
	}
}

func (h *DescriptorHeap) Destroy() {
	h.hw.Destroy()
}

// DescriptorTable is a contiguous range of a descriptor heap
type DescriptorTable struct {
	heap   *DescriptorHeap
	offset int
	count  int
}

func (t DescriptorTable) IsValid() bool         { return t.heap != nil }
func (t DescriptorTable) Heap() *DescriptorHeap { return t.heap }
func (t DescriptorTable) Offset() int           { return t.offset }
func (t DescriptorTable) Count() int            { return t.count }

func (t DescriptorTable) checkIndex(index int) {
	if index < 0 || index >= t.count {
		panic(errors.AssertionFailedf("descriptor index %d is outside a table of %d descriptors", index, t.count))
	}
}

func (t DescriptorTable) CPUHandle(index int) driver.CPUDescriptorHandle {
	t.checkIndex(index)
	return t.heap.CPUHandle(t.offset + index)
}

func (t DescriptorTable) GPUHandle(index int) driver.GPUDescriptorHandle {
	t.checkIndex(index)
	return t.heap.GPUHandle(t.offset + index)
}

// GPUBase returns the handle a root descriptor table is bound with
func (t DescriptorTable) GPUBase() driver.GPUDescriptorHandle {
	return t.heap.GPUHandle(t.offset)
}

// Copy writes src into slot index of the table
func (t DescriptorTable) Copy(index int, src driver.CPUDescriptorHandle) {
	t.checkIndex(index)
	t.heap.device.CopyDescriptor(t.heap.CPUHandle(t.offset+index), src, t.heap.heapType)
}
