package driver

import (
	"github.com/gogpu/gputypes"
	"github.com/vkngwrapper/core/v2/common"
)

// QueueType identifies one of the hardware queues a device exposes
type QueueType int32

const (
	QueueTypeDirect QueueType = iota
	QueueTypeAsyncCompute
	QueueTypeAsyncCopy

	QueueTypeCount = 3
)

var queueTypeNames = map[QueueType]string{
	QueueTypeDirect:       "Direct",
	QueueTypeAsyncCompute: "AsyncCompute",
	QueueTypeAsyncCopy:    "AsyncCopy",
}

func (t QueueType) String() string {
	return queueTypeNames[t]
}

// ResourceStates is the set of ways the GPU may currently be using a resource. A resource in
// ResourceStateCommon (0) is in no particular state.
type ResourceStates int32

var resourceStatesMapping = common.NewFlagStringMapping[ResourceStates]()

func (s ResourceStates) Register(str string) {
	resourceStatesMapping.Register(s, str)
}
func (s ResourceStates) String() string {
	return resourceStatesMapping.FlagsToString(s)
}

const ResourceStateCommon ResourceStates = 0

const (
	ResourceStateVertexAndConstantBuffer ResourceStates = 1 << iota
	ResourceStateIndexBuffer
	ResourceStateRenderTarget
	ResourceStateUnorderedAccess
	ResourceStateDepthWrite
	ResourceStateDepthRead
	ResourceStateNonPixelShaderResource
	ResourceStatePixelShaderResource
	ResourceStateIndirectArgument
	ResourceStateCopyDest
	ResourceStateCopySource
	ResourceStateResolveDest
	ResourceStateResolveSource

	// ResourceStateGenericRead is the state upload heap resources must remain in
	ResourceStateGenericRead = ResourceStateVertexAndConstantBuffer | ResourceStateIndexBuffer |
		ResourceStateNonPixelShaderResource | ResourceStatePixelShaderResource |
		ResourceStateIndirectArgument | ResourceStateCopySource
)

func init() {
	ResourceStateVertexAndConstantBuffer.Register("VertexAndConstantBuffer")
	ResourceStateIndexBuffer.Register("IndexBuffer")
	ResourceStateRenderTarget.Register("RenderTarget")
	ResourceStateUnorderedAccess.Register("UnorderedAccess")
	ResourceStateDepthWrite.Register("DepthWrite")
	ResourceStateDepthRead.Register("DepthRead")
	ResourceStateNonPixelShaderResource.Register("NonPixelShaderResource")
	ResourceStatePixelShaderResource.Register("PixelShaderResource")
	ResourceStateIndirectArgument.Register("IndirectArgument")
	ResourceStateCopyDest.Register("CopyDest")
	ResourceStateCopySource.Register("CopySource")
	ResourceStateResolveDest.Register("ResolveDest")
	ResourceStateResolveSource.Register("ResolveSource")
}

// HeapType describes which memory pool a heap or committed resource lives in
type HeapType int32

const (
	HeapTypeDefault HeapType = iota
	HeapTypeUpload
	HeapTypeReadback
)

var heapTypeNames = map[HeapType]string{
	HeapTypeDefault:  "Default",
	HeapTypeUpload:   "Upload",
	HeapTypeReadback: "Readback",
}

func (t HeapType) String() string {
	return heapTypeNames[t]
}

// IsCPUAccessible returns true if resources in this heap type can be mapped
func (t HeapType) IsCPUAccessible() bool {
	return t == HeapTypeUpload || t == HeapTypeReadback
}

// DescriptorHeapType identifies which kind of descriptor a descriptor heap holds
type DescriptorHeapType int32

const (
	DescriptorHeapTypeCbvSrvUav DescriptorHeapType = iota
	DescriptorHeapTypeSampler
	DescriptorHeapTypeRtv
	DescriptorHeapTypeDsv

	DescriptorHeapTypeCount = 4
)

var descriptorHeapTypeNames = map[DescriptorHeapType]string{
	DescriptorHeapTypeCbvSrvUav: "CbvSrvUav",
	DescriptorHeapTypeSampler:   "Sampler",
	DescriptorHeapTypeRtv:       "Rtv",
	DescriptorHeapTypeDsv:       "Dsv",
}

func (t DescriptorHeapType) String() string {
	return descriptorHeapTypeNames[t]
}

// CPUDescriptorHandle addresses a descriptor for CPU-side writes and copies. The zero handle is invalid.
type CPUDescriptorHandle struct {
	Ptr uint64
}

func (h CPUDescriptorHandle) IsValid() bool { return h.Ptr != 0 }

// Offset returns the handle count descriptors after this one
func (h CPUDescriptorHandle) Offset(count, incrementSize int) CPUDescriptorHandle {
	return CPUDescriptorHandle{Ptr: h.Ptr + uint64(count*incrementSize)}
}

// GPUDescriptorHandle addresses a descriptor in a shader-visible heap. The zero handle is invalid.
type GPUDescriptorHandle struct {
	Ptr uint64
}

func (h GPUDescriptorHandle) IsValid() bool { return h.Ptr != 0 }

func (h GPUDescriptorHandle) Offset(count, incrementSize int) GPUDescriptorHandle {
	return GPUDescriptorHandle{Ptr: h.Ptr + uint64(count*incrementSize)}
}

type ResourceDimension int32

const (
	ResourceDimensionBuffer ResourceDimension = iota
	ResourceDimensionTexture
)

var resourceDimensionNames = map[ResourceDimension]string{
	ResourceDimensionBuffer:  "Buffer",
	ResourceDimensionTexture: "Texture",
}

func (d ResourceDimension) String() string {
	return resourceDimensionNames[d]
}

// ResourceDesc describes a buffer or a texture. Buffers use ByteSize and BufferUsage, textures use
// every other field.
type ResourceDesc struct {
	Dimension ResourceDimension

	ByteSize    int
	BufferUsage gputypes.BufferUsage

	TextureDimension gputypes.TextureDimension
	Size             gputypes.Extent3D
	MipLevelCount    uint32
	SampleCount      uint32
	Format           gputypes.TextureFormat
	TextureUsage     gputypes.TextureUsage
}

// BufferDesc is a convenience constructor for buffer descriptions
func BufferDesc(byteSize int, usage gputypes.BufferUsage) ResourceDesc {
	return ResourceDesc{
		Dimension:   ResourceDimensionBuffer,
		ByteSize:    byteSize,
		BufferUsage: usage,
	}
}

// Texture2DDesc is a convenience constructor for single-mip 2D texture descriptions
func Texture2DDesc(width, height uint32, format gputypes.TextureFormat, sampleCount uint32, usage gputypes.TextureUsage) ResourceDesc {
	return ResourceDesc{
		Dimension:        ResourceDimensionTexture,
		TextureDimension: gputypes.TextureDimension2D,
		Size:             gputypes.NewExtent2D(width, height),
		MipLevelCount:    1,
		SampleCount:      sampleCount,
		Format:           format,
		TextureUsage:     usage,
	}
}

func (d ResourceDesc) IsBuffer() bool { return d.Dimension == ResourceDimensionBuffer }

// ArraySize returns the number of array slices of a texture. 3D textures and buffers have one.
func (d ResourceDesc) ArraySize() uint32 {
	if d.IsBuffer() || d.TextureDimension == gputypes.TextureDimension3D {
		return 1
	}

	return max(d.Size.DepthOrArrayLayers, 1)
}

// SubresourceCount returns the number of mip and array slice pairs of a texture. Buffers have a
// single subresource.
func (d ResourceDesc) SubresourceCount() uint32 {
	if d.IsBuffer() {
		return 1
	}

	return max(d.MipLevelCount, 1) * d.ArraySize()
}

// SubresourceIndex returns the index of a mip slice of an array slice. Subresources are ordered by
// array slice, then by mip level.
func (d ResourceDesc) SubresourceIndex(mipSlice, arraySlice uint32) uint32 {
	return mipSlice + arraySlice*max(d.MipLevelCount, 1)
}

// MipSize returns the extent of a mip level. Array textures keep their array size at every level.
func (d ResourceDesc) MipSize(mipSlice uint32) gputypes.Extent3D {
	size := gputypes.Extent3D{
		Width:              max(d.Size.Width>>mipSlice, 1),
		Height:             max(d.Size.Height>>mipSlice, 1),
		DepthOrArrayLayers: 1,
	}

	if d.TextureDimension == gputypes.TextureDimension3D {
		size.DepthOrArrayLayers = max(d.Size.DepthOrArrayLayers>>mipSlice, 1)
	}

	return size
}

// IsMultisampled returns true for textures with more than one sample per texel
func (d ResourceDesc) IsMultisampled() bool {
	return d.Dimension == ResourceDimensionTexture && d.SampleCount > 1
}

// IsRenderTarget returns true for textures that can be bound as color or depth attachments
func (d ResourceDesc) IsRenderTarget() bool {
	return d.Dimension == ResourceDimensionTexture && d.TextureUsage.Contains(gputypes.TextureUsageRenderAttachment)
}

// ResourceAllocationInfo is the size and placement alignment a resource needs inside a heap
type ResourceAllocationInfo struct {
	SizeInBytes int
	Alignment   int
}

// ClearValue is the optimized clear value for render target and depth stencil textures
type ClearValue struct {
	Format  gputypes.TextureFormat
	Color   gputypes.Color
	Depth   float32
	Stencil uint8
}

// SamplerDesc describes a sampler. It is comparable and is used directly as a cache key.
type SamplerDesc = gputypes.SamplerDescriptor

// AllSubresources targets every subresource of a resource in a barrier
const AllSubresources uint32 = 0xffffffff

const (
	// TextureDataPitchAlignment is the alignment of row pitches of texture data in buffers
	TextureDataPitchAlignment = 256
	// TextureDataPlacementAlignment is the alignment of subresource offsets of texture data in buffers
	TextureDataPlacementAlignment = 512
)

// PlacedSubresourceFootprint is the layout of one texture subresource in a buffer
type PlacedSubresourceFootprint struct {
	Offset int
	Width  uint32
	Height uint32
	Depth  uint32
	// RowPitch is the distance in bytes between rows, a multiple of TextureDataPitchAlignment
	RowPitch int
	// RowSize is the number of meaningful bytes in each row
	RowSize int
}

// TextureCopyLocation is a texture subresource, or a footprint in a buffer when Footprint is set
type TextureCopyLocation struct {
	Resource    Resource
	Subresource uint32
	Footprint   *PlacedSubresourceFootprint
}

// ResourceBarrier is a state transition of a resource
type ResourceBarrier struct {
	Resource    Resource
	Subresource uint32
	StateBefore ResourceStates
	StateAfter  ResourceStates
}

type ClearFlags int32

const (
	ClearFlagDepth ClearFlags = 1 << iota
	ClearFlagStencil
)

type Viewport struct {
	TopLeftX float32
	TopLeftY float32
	Width    float32
	Height   float32
	MinDepth float32
	MaxDepth float32
}

type Rect struct {
	Left   int32
	Top    int32
	Right  int32
	Bottom int32
}

type VertexBufferView struct {
	BufferLocation uint64
	SizeInBytes    uint32
	StrideInBytes  uint32
}

type IndexBufferView struct {
	BufferLocation uint64
	SizeInBytes    uint32
	Format         gputypes.IndexFormat
}
