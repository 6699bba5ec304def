package gfx

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/dolthub/maphash"
	"github.com/gogpu/gputypes"
	"github.com/vkngwrapper/gfxcore/gfx/driver"
	"github.com/vkngwrapper/gfxcore/memutils"
	"github.com/vkngwrapper/gfxcore/memutils/release"
	"golang.org/x/exp/slog"
)

const (
	defaultPlacedHeapSize            = 64 * 1024 * 1024
	defaultPlacedMinBlockSize        = 64 * 1024
	defaultUploadPageSize            = 2 * 1024 * 1024
	defaultConstantBufferPageSize    = 1024 * 1024
	defaultConstantBufferMinBlock    = 256
	defaultOfflineDescriptorPageSize = 256
	defaultOnlineViewDescriptors     = 4096
	defaultStaticViewDescriptors     = 256
	defaultStaticSamplerDescriptors  = 64
	defaultOnlineSamplerDescriptors  = 2048

	constantBufferAlignment = 256
)

// CreateOptions configures a Device. Zero sizes are replaced with defaults.
type CreateOptions struct {
	Flags CreateFlags

	// PlacedHeapSize is the size of each heap backing the placed resource allocators
	PlacedHeapSize int
	// PlacedMinBlockSize is the smallest block placed resources are rounded up to
	PlacedMinBlockSize int
	// UploadPageSize is the page size of the transient upload memory allocator
	UploadPageSize             int
	ConstantBufferPageSize     int
	ConstantBufferMinBlockSize int
	OfflineDescriptorPageSize  int
	// OnlineViewDescriptors is the ring capacity of each shader-visible CBV/SRV/UAV heap
	OnlineViewDescriptors int
	// StaticViewDescriptors and StaticSamplerDescriptors size the shader-visible heaps that hold
	// tables living across frames
	StaticViewDescriptors    int
	StaticSamplerDescriptors int
	// OnlineSamplerDescriptors is the capacity of each shader-visible sampler heap. It must be a
	// power of two.
	OnlineSamplerDescriptors int
}

func withDefault(value, fallback int) int {
	if value == 0 {
		return fallback
	}

	return value
}

func (o CreateOptions) withDefaults() CreateOptions {
	o.PlacedHeapSize = withDefault(o.PlacedHeapSize, defaultPlacedHeapSize)
	o.PlacedMinBlockSize = withDefault(o.PlacedMinBlockSize, defaultPlacedMinBlockSize)
	o.UploadPageSize = withDefault(o.UploadPageSize, defaultUploadPageSize)
	o.ConstantBufferPageSize = withDefault(o.ConstantBufferPageSize, defaultConstantBufferPageSize)
	o.ConstantBufferMinBlockSize = withDefault(o.ConstantBufferMinBlockSize, defaultConstantBufferMinBlock)
	o.OfflineDescriptorPageSize = withDefault(o.OfflineDescriptorPageSize, defaultOfflineDescriptorPageSize)
	o.OnlineViewDescriptors = withDefault(o.OnlineViewDescriptors, defaultOnlineViewDescriptors)
	o.StaticViewDescriptors = withDefault(o.StaticViewDescriptors, defaultStaticViewDescriptors)
	o.StaticSamplerDescriptors = withDefault(o.StaticSamplerDescriptors, defaultStaticSamplerDescriptors)
	o.OnlineSamplerDescriptors = withDefault(o.OnlineSamplerDescriptors, defaultOnlineSamplerDescriptors)
	return o
}

// Device owns the command manager and every allocator built on top of a driver device
type Device struct {
	logger     *slog.Logger
	hw         driver.Device
	options    CreateOptions
	manager    *CommandManager
	frameIndex uint64

	committedDefault  *CommittedResourceAllocator
	committedUpload   *CommittedResourceAllocator
	committedReadback *CommittedResourceAllocator

	placedBuffers            *PlacedResourceAllocator
	placedTextures           *PlacedResourceAllocator
	placedRenderTextures     *PlacedResourceAllocator
	placedMsaaRenderTextures *PlacedResourceAllocator
	placedUpload             *PlacedResourceAllocator

	constantBuffers *BufferMultiBuddySubAllocator
	transientUpload *BufferLinearSubAllocator

	offline        [driver.DescriptorHeapTypeCount]*OfflineDescriptorAllocator
	onlineViews    *OnlineDescriptorMultiAllocator
	onlineSamplers *OnlineDescriptorMultiAllocator
	staticTables   [driver.DescriptorHeapTypeSampler + 1]*StaticDescriptorTableAllocator

	staticSamplers *Registry[driver.SamplerDesc, OfflineDescriptor]
	rootSignatures *Registry[uint64, driver.RootSignature]
	signatureHash  maphash.Hasher[string]

	releases release.Queue[*Resource]
}

var _ FrameAllocator = &Device{}
var _ FrameFences = &Device{}

// New creates a device over hw. The submission goroutine starts immediately unless
// DeviceCreateSynchronousSubmission is set.
func New(logger *slog.Logger, hw driver.Device, options CreateOptions) (*Device, error) {
	options = options.withDefaults()

	err := memutils.CheckPow2(options.OnlineSamplerDescriptors, "OnlineSamplerDescriptors")
	if err != nil {
		return nil, err
	}

	logger.LogAttrs(context.Background(), slog.LevelDebug, "Device::New",
		slog.String("Flags", options.Flags.String()),
		slog.Int("PlacedHeapSize", options.PlacedHeapSize),
		slog.Int("UploadPageSize", options.UploadPageSize),
	)

	externallySynchronized := options.Flags&DeviceCreateExternallySynchronized != 0
	synchronous := options.Flags&DeviceCreateSynchronousSubmission != 0

	d := &Device{
		logger:  logger,
		hw:      hw,
		options: options,

		committedDefault:  NewCommittedResourceAllocator(hw, driver.HeapTypeDefault),
		committedUpload:   NewCommittedResourceAllocator(hw, driver.HeapTypeUpload),
		committedReadback: NewCommittedResourceAllocator(hw, driver.HeapTypeReadback),

		staticSamplers: NewRegistry[driver.SamplerDesc, OfflineDescriptor](!externallySynchronized),
		rootSignatures: NewRegistry[uint64, driver.RootSignature](!externallySynchronized),
		signatureHash:  maphash.NewHasher[string](),
	}

	d.manager, err = NewCommandManager(logger, hw, d, synchronous, !externallySynchronized)
	if err != nil {
		return nil, err
	}

	err = d.createAllocators()
	if err != nil {
		_ = d.Destroy()
		return nil, err
	}

	return d, nil
}

func (d *Device) createAllocators() error {
	var err error
	o := d.options

	d.placedBuffers, err = NewPlacedResourceAllocator(d.logger, "PlacedBuffers", d.hw, driver.HeapTypeDefault, o.PlacedMinBlockSize, o.PlacedHeapSize, false)
	if err != nil {
		return err
	}

	d.placedTextures, err = NewPlacedResourceAllocator(d.logger, "PlacedTextures", d.hw, driver.HeapTypeDefault, o.PlacedMinBlockSize, o.PlacedHeapSize, false)
	if err != nil {
		return err
	}

	d.placedRenderTextures, err = NewPlacedResourceAllocator(d.logger, "PlacedRenderTextures", d.hw, driver.HeapTypeDefault, o.PlacedMinBlockSize, o.PlacedHeapSize, false)
	if err != nil {
		return err
	}

	d.placedMsaaRenderTextures, err = NewPlacedResourceAllocator(d.logger, "PlacedMsaaRenderTextures", d.hw, driver.HeapTypeDefault, o.PlacedMinBlockSize, o.PlacedHeapSize, true)
	if err != nil {
		return err
	}

	d.placedUpload, err = NewPlacedResourceAllocator(d.logger, "PlacedUpload", d.hw, driver.HeapTypeUpload, o.PlacedMinBlockSize, o.PlacedHeapSize, false)
	if err != nil {
		return err
	}

	d.constantBuffers, err = NewBufferMultiBuddySubAllocator(d.logger, "ConstantBuffers", d.manager, d.placedUpload, o.ConstantBufferMinBlockSize, o.ConstantBufferPageSize)
	if err != nil {
		return err
	}

	d.transientUpload, err = NewBufferLinearSubAllocator(d.logger, "TransientUpload", d.manager, d.committedUpload, o.UploadPageSize)
	if err != nil {
		return err
	}

	for i := range d.offline {
		d.offline[i] = NewOfflineDescriptorAllocator(d.logger, d.hw, d.manager, driver.DescriptorHeapType(i), o.OfflineDescriptorPageSize)
	}

	d.onlineViews, err = NewOnlineDescriptorMultiAllocator(d.logger, "OnlineViewDescriptors", d.manager, func() (OnlineDescriptorTableAllocator, error) {
		return NewOnlineViewDescriptorAllocator(d.hw, d.manager, driver.DescriptorHeapTypeCbvSrvUav, o.OnlineViewDescriptors)
	})
	if err != nil {
		return err
	}

	useMutex := o.Flags&DeviceCreateExternallySynchronized == 0
	d.staticTables[driver.DescriptorHeapTypeCbvSrvUav], err = NewStaticDescriptorTableAllocator(d.hw, driver.DescriptorHeapTypeCbvSrvUav, o.StaticViewDescriptors, useMutex)
	if err != nil {
		return err
	}

	d.staticTables[driver.DescriptorHeapTypeSampler], err = NewStaticDescriptorTableAllocator(d.hw, driver.DescriptorHeapTypeSampler, o.StaticSamplerDescriptors, useMutex)
	if err != nil {
		return err
	}

	d.onlineSamplers, err = NewOnlineDescriptorMultiAllocator(d.logger, "OnlineSamplerDescriptors", d.manager, func() (OnlineDescriptorTableAllocator, error) {
		return NewOnlineSamplerDescriptorAllocator(d.hw, d.manager, o.OnlineSamplerDescriptors)
	})
	return err
}

func (d *Device) Driver() driver.Device           { return d.hw }
func (d *Device) Options() CreateOptions          { return d.options }
func (d *Device) CommandManager() *CommandManager { return d.manager }

// FrameIndex returns the number of frames ended so far
func (d *Device) FrameIndex() uint64 { return d.frameIndex }

func (d *Device) GetNextFrameFence() uint64 {
	return d.manager.GetNextFrameFence()
}

func (d *Device) IsFrameFenceCompleted(value uint64) bool {
	return d.manager.IsFrameFenceCompleted(value)
}

// RequestContext returns an open command context for the provided queue type
func (d *Device) RequestContext(queueType driver.QueueType) (*CommandContext, error) {
	return d.manager.RequestAndOpenContext(queueType)
}

// EndFrame reclaims everything the GPU has finished with, signals the frame fences, and hands the
// frame's deferred command lists to the submission goroutine
func (d *Device) EndFrame() error {
	d.manager.RefreshCompletedFrameFence()

	released := d.releases.Drain(d.manager.IsFrameFenceCompleted, func(_ uint64, resource *Resource) {
		resource.Release()
	})

	d.onlineViews.CleanUpAllocations()
	d.onlineSamplers.CleanUpAllocations()
	d.constantBuffers.CleanUpAllocations()
	d.transientUpload.CleanUpAllocations()

	frameFence := d.manager.GetNextFrameFence()

	err := d.manager.SignalNextFrameFence(false)
	if err != nil {
		return err
	}

	err = d.manager.SyncOnMainThread()
	if err != nil {
		return err
	}
	d.manager.RefreshCompletedFrameFence()

	d.frameIndex++
	d.logger.LogAttrs(context.Background(), slog.LevelDebug, "Device::EndFrame",
		slog.Uint64("FrameIndex", d.frameIndex),
		slog.Uint64("FrameFence", frameFence),
		slog.Uint64("CompletedFrameFence", d.manager.CompletedFrameFence()),
		slog.Int("ReleasedResources", released),
	)

	if d.options.Flags&DeviceCreateValidateAllocators != 0 {
		return d.Validate()
	}

	return nil
}

// WaitForGpuIdle executes all pending work and blocks until the GPU has finished it. If
// releaseUnused is set, every deferred release is carried out.
func (d *Device) WaitForGpuIdle(releaseUnused bool) error {
	err := d.manager.SignalNextFrameFence(true)
	if err != nil {
		return err
	}

	err = d.manager.WaitForGpuIdle()
	if err != nil {
		return err
	}

	if releaseUnused {
		d.releases.Drain(d.manager.IsFrameFenceCompleted, func(_ uint64, resource *Resource) {
			resource.Release()
		})
		d.constantBuffers.CleanUpAllocations()
	}

	return nil
}

// AllocateTransientUploadMemory returns count elements of size bytes in mapped upload memory,
// each starting at a multiple of alignment. The memory is only valid until the end of the frame.
func (d *Device) AllocateTransientUploadMemory(size, count, alignment int) (UploadMemory, error) {
	if size <= 0 || count <= 0 {
		panic(errors.AssertionFailedf("upload memory of %d elements of %d bytes was requested", count, size))
	}

	allocation, err := d.transientUpload.Allocate(uploadAllocationSize(size, count, alignment), max(alignment, 1))
	if err != nil {
		return UploadMemory{}, err
	}

	return NewUploadMemory(allocation, size, count, alignment), nil
}

func (d *Device) AllocateViewTable(srcs []driver.CPUDescriptorHandle) (driver.GPUDescriptorHandle, *DescriptorHeap, error) {
	return d.onlineViews.Allocate(srcs)
}

func (d *Device) AllocateSamplerTable(srcs []driver.CPUDescriptorHandle) (driver.GPUDescriptorHandle, *DescriptorHeap, error) {
	return d.onlineSamplers.Allocate(srcs)
}

// AllocateTransientDescriptorTable reserves count shader-visible descriptors for the current frame.
// Only CbvSrvUav tables can be allocated uninitialized.
func (d *Device) AllocateTransientDescriptorTable(heapType driver.DescriptorHeapType, count int) (DescriptorTable, error) {
	if heapType != driver.DescriptorHeapTypeCbvSrvUav {
		panic(errors.AssertionFailedf("transient descriptor tables of type %s are not supported", heapType))
	}

	return d.onlineViews.AllocateTable(count)
}

func (d *Device) staticTableAllocator(heapType driver.DescriptorHeapType) *StaticDescriptorTableAllocator {
	if heapType != driver.DescriptorHeapTypeCbvSrvUav && heapType != driver.DescriptorHeapTypeSampler {
		panic(errors.AssertionFailedf("static descriptor tables of type %s are not supported", heapType))
	}

	return d.staticTables[heapType]
}

// StaticDescriptorTable returns the whole static heap of the provided type as one table. Its
// contents are owned by the caller and stay valid across frames.
func (d *Device) StaticDescriptorTable(heapType driver.DescriptorHeapType) DescriptorTable {
	return d.staticTableAllocator(heapType).Table()
}

// AllocateStaticDescriptorTable reserves count shader-visible descriptors that stay valid until the
// device is destroyed
func (d *Device) AllocateStaticDescriptorTable(heapType driver.DescriptorHeapType, count int) (DescriptorTable, error) {
	allocator := d.staticTableAllocator(heapType)

	table, ok := allocator.AllocateTable(count)
	if !ok {
		return DescriptorTable{}, errors.Newf("a static %s table of %d descriptors does not fit: %d of %d are in use", heapType, count, allocator.UsedCount(), allocator.Capacity())
	}

	return table, nil
}

// AllocateDescriptor returns a long-lived descriptor that is not shader visible
func (d *Device) AllocateDescriptor(heapType driver.DescriptorHeapType) (OfflineDescriptor, error) {
	return d.offline[heapType].Allocate()
}

// ReleaseDescriptor makes descriptor reusable once the current frame has finished
func (d *Device) ReleaseDescriptor(descriptor OfflineDescriptor) {
	descriptor.allocator.Release(descriptor)
}

// AllocateConstantBuffer returns size bytes of mapped upload memory aligned for constant buffer
// views. It lives until ReleaseConstantBuffer.
func (d *Device) AllocateConstantBuffer(size int) (BufferAllocation, error) {
	return d.constantBuffers.Allocate(size, constantBufferAlignment)
}

func (d *Device) ReleaseConstantBuffer(allocation BufferAllocation) {
	d.constantBuffers.DeferredRelease(allocation)
}

// CreateBuffer creates a buffer in the provided heap type. Buffers too large for a placed heap
// are committed.
func (d *Device) CreateBuffer(name string, byteSize int, usage gputypes.BufferUsage, heapType driver.HeapType, initialState driver.ResourceStates) (*Resource, error) {
	desc := driver.BufferDesc(byteSize, usage)

	switch heapType {
	case driver.HeapTypeDefault:
		return d.allocatePlaced(d.placedBuffers, d.committedDefault, name, desc, initialState, nil)
	case driver.HeapTypeUpload:
		return d.allocatePlaced(d.placedUpload, d.committedUpload, name, desc, initialState, nil)
	default:
		return d.committedReadback.Allocate(name, desc, initialState, nil)
	}
}

// CreateTexture creates a texture in the default heap. Render targets and multisampled textures
// are placed in separate heaps.
func (d *Device) CreateTexture(name string, desc driver.ResourceDesc, initialState driver.ResourceStates, clearValue *driver.ClearValue) (*Resource, error) {
	if desc.IsBuffer() {
		panic(errors.AssertionFailedf("CreateTexture was called with buffer description %q", name))
	}

	placed := d.placedTextures
	if desc.IsRenderTarget() {
		placed = d.placedRenderTextures
		if desc.IsMultisampled() {
			placed = d.placedMsaaRenderTextures
		}
	}

	return d.allocatePlaced(placed, d.committedDefault, name, desc, initialState, clearValue)
}

func (d *Device) allocatePlaced(placed *PlacedResourceAllocator, committed *CommittedResourceAllocator, name string, desc driver.ResourceDesc, initialState driver.ResourceStates, clearValue *driver.ClearValue) (*Resource, error) {
	resource, err := placed.Allocate(name, desc, initialState, clearValue)
	if errors.Is(err, ErrAllocationTooLarge) {
		d.logger.LogAttrs(context.Background(), slog.LevelDebug, "Device::allocatePlaced falling back to a committed resource",
			slog.String("Allocator", placed.Name()),
			slog.String("Name", name),
		)
		return committed.Allocate(name, desc, initialState, clearValue)
	}

	return resource, err
}

// DeferredRelease releases resource once the GPU has finished the current frame
func (d *Device) DeferredRelease(resource *Resource) {
	d.releases.Push(d.manager.GetNextFrameFence(), resource)
}

// PendingReleaseCount returns the number of resources waiting on DeferredRelease
func (d *Device) PendingReleaseCount() int { return d.releases.Len() }

// StaticSampler returns the shared sampler descriptor for desc, creating it on first use
func (d *Device) StaticSampler(desc driver.SamplerDesc) (OfflineDescriptor, error) {
	return d.staticSamplers.GetOrCreate(desc, func(desc driver.SamplerDesc) (OfflineDescriptor, error) {
		descriptor, err := d.offline[driver.DescriptorHeapTypeSampler].Allocate()
		if err != nil {
			return OfflineDescriptor{}, err
		}

		d.hw.CreateSampler(desc, descriptor.Handle())
		return descriptor, nil
	})
}

// RootSignature returns the shared root signature for a serialized description, creating it on
// first use
func (d *Device) RootSignature(serialized []byte) (driver.RootSignature, error) {
	key := d.signatureHash.Hash(string(serialized))

	return d.rootSignatures.GetOrCreate(key, func(uint64) (driver.RootSignature, error) {
		signature, err := d.hw.CreateRootSignature(serialized)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create root signature")
		}

		return signature, nil
	})
}

// ClearCaches drops the static sampler and root signature caches. The GPU must be idle.
func (d *Device) ClearCaches() {
	d.staticSamplers.Clear(func(_ driver.SamplerDesc, descriptor OfflineDescriptor) {
		descriptor.allocator.Release(descriptor)
	})
	d.rootSignatures.Clear(func(_ uint64, signature driver.RootSignature) {
		signature.Destroy()
	})
}

// Validate checks the consistency of every buddy-backed allocator
func (d *Device) Validate() error {
	var err error
	for _, validatable := range []memutils.Validatable{
		d.placedBuffers,
		d.placedTextures,
		d.placedRenderTextures,
		d.placedMsaaRenderTextures,
		d.placedUpload,
		d.constantBuffers,
	} {
		err = errors.CombineErrors(err, validatable.Validate())
	}

	return err
}

// Destroy waits for the GPU, stops the submission goroutine and destroys everything the device
// owns
func (d *Device) Destroy() error {
	var err error
	if d.manager != nil {
		err = d.manager.Shutdown()
		if errors.Is(err, ErrShutdown) {
			err = nil
		}
	}

	for !d.releases.Empty() {
		_, resource, _ := d.releases.Pop()
		resource.Release()
	}

	d.ClearCaches()

	if d.transientUpload != nil {
		d.transientUpload.Destroy()
	}
	if d.constantBuffers != nil {
		d.constantBuffers.Destroy()
	}
	if d.onlineViews != nil {
		d.onlineViews.Destroy()
	}
	if d.onlineSamplers != nil {
		d.onlineSamplers.Destroy()
	}
	for _, static := range d.staticTables {
		if static != nil {
			static.Destroy()
		}
	}
	for _, offline := range d.offline {
		if offline != nil {
			offline.Destroy()
		}
	}
	for _, placed := range []*PlacedResourceAllocator{
		d.placedBuffers,
		d.placedTextures,
		d.placedRenderTextures,
		d.placedMsaaRenderTextures,
		d.placedUpload,
	} {
		if placed != nil {
			placed.Destroy()
		}
	}

	if d.manager != nil {
		d.manager.Destroy()
		d.manager = nil
	}

	return err
}
