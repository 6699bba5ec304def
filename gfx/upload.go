package gfx

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/gfxcore/memutils"
)

// UploadMemory is an array of equally sized elements in a mapped upload buffer. It is only valid
// until the end of the frame it was allocated in.
type UploadMemory struct {
	allocation BufferAllocation
	size       int
	stride     int
	count      int
}

// NewUploadMemory splits allocation into count elements of size bytes, each starting at a multiple
// of alignment
func NewUploadMemory(allocation BufferAllocation, size, count, alignment int) UploadMemory {
	return UploadMemory{
		allocation: allocation,
		size:       size,
		stride:     uploadStride(size, alignment),
		count:      count,
	}
}

func uploadStride(size, alignment int) int {
	if alignment <= 1 {
		return size
	}

	return memutils.AlignUp(size, alignment)
}

// uploadAllocationSize returns the bytes needed for count elements of size bytes at alignment
func uploadAllocationSize(size, count, alignment int) int {
	return uploadStride(size, alignment)*(count-1) + size
}

func (m UploadMemory) IsValid() bool       { return m.allocation.IsValid() }
func (m UploadMemory) Resource() *Resource { return m.allocation.resource }
func (m UploadMemory) Size() int           { return m.size }
func (m UploadMemory) Stride() int         { return m.stride }
func (m UploadMemory) Count() int          { return m.count }

func (m UploadMemory) checkIndex(index int) {
	if index < 0 || index >= m.count {
		panic(errors.AssertionFailedf("upload element %d is out of range for %d elements", index, m.count))
	}
}

// Offset returns the offset of element index from the start of the underlying buffer
func (m UploadMemory) Offset(index int) int {
	m.checkIndex(index)
	return m.allocation.offset + index*m.stride
}

// Bytes returns the mapped bytes of element index
func (m UploadMemory) Bytes(index int) []byte {
	m.checkIndex(index)
	start := index * m.stride
	return m.allocation.mapped[start : start+m.size : start+m.size]
}

func (m UploadMemory) GPUAddress(index int) uint64 {
	m.checkIndex(index)
	return m.allocation.GPUAddress() + uint64(index*m.stride)
}
