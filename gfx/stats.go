package gfx

import (
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/vkngwrapper/gfxcore/gfx/driver"
	"github.com/vkngwrapper/gfxcore/memutils"
)

type jsonBlockWriter interface {
	AddStatistics(stats *memutils.MemoryStatistics)
	BlockJsonData(json *jwriter.ObjectState)
}

type descriptorStatisticsSource interface {
	AddStatistics(stats *memutils.DescriptorStatistics)
}

func writeMemoryStatistics(json *jwriter.ObjectState, stats memutils.MemoryStatistics) {
	obj := json.Name("Memory").Object()
	defer obj.End()

	obj.Name("PageCount").Int(stats.PageCount)
	obj.Name("PageBytes").Int(stats.PageBytes)
	obj.Name("AllocationCount").Int(stats.AllocationCount)
	obj.Name("AllocationBytes").Int(stats.AllocationBytes)
	obj.Name("UnusedBytes").Int(stats.UnusedBytes())
}

func writeDescriptorStatistics(json *jwriter.ObjectState, stats memutils.DescriptorStatistics) {
	json.Name("HeapCount").Int(stats.HeapCount)
	json.Name("Capacity").Int(stats.Capacity)
	json.Name("InUse").Int(stats.InUse)
	json.Name("PendingRelease").Int(stats.PendingRelease)
	json.Name("Free").Int(stats.Free())
}

// AddStatistics sums the statistics of every resource and buffer allocator
func (d *Device) AddStatistics(stats *memutils.MemoryStatistics) {
	for _, allocator := range d.jsonBlockWriters() {
		allocator.writer.AddStatistics(stats)
	}
}

type namedDescriptorSource struct {
	name     string
	heapType driver.DescriptorHeapType
	source   descriptorStatisticsSource
}

func (d *Device) descriptorSources() []namedDescriptorSource {
	sources := make([]namedDescriptorSource, 0, len(d.offline)+4)
	for _, offline := range d.offline {
		sources = append(sources, namedDescriptorSource{name: offline.name, heapType: offline.Type(), source: offline})
	}

	return append(sources,
		namedDescriptorSource{name: "OnlineViewDescriptors", heapType: driver.DescriptorHeapTypeCbvSrvUav, source: d.onlineViews},
		namedDescriptorSource{name: "StaticViewDescriptors", heapType: driver.DescriptorHeapTypeCbvSrvUav, source: d.staticTables[driver.DescriptorHeapTypeCbvSrvUav]},
		namedDescriptorSource{name: "OnlineSamplerDescriptors", heapType: driver.DescriptorHeapTypeSampler, source: d.onlineSamplers},
		namedDescriptorSource{name: "StaticSamplerDescriptors", heapType: driver.DescriptorHeapTypeSampler, source: d.staticTables[driver.DescriptorHeapTypeSampler]},
	)
}

// AddDescriptorStatistics sums the statistics of every descriptor allocator of the provided heap type
func (d *Device) AddDescriptorStatistics(heapType driver.DescriptorHeapType, stats *memutils.DescriptorStatistics) {
	for _, named := range d.descriptorSources() {
		if named.heapType == heapType {
			named.source.AddStatistics(stats)
		}
	}
}

type namedBlockWriter struct {
	name   string
	writer jsonBlockWriter
}

func (d *Device) jsonBlockWriters() []namedBlockWriter {
	return []namedBlockWriter{
		{name: "PlacedBuffers", writer: d.placedBuffers},
		{name: "PlacedTextures", writer: d.placedTextures},
		{name: "PlacedRenderTextures", writer: d.placedRenderTextures},
		{name: "PlacedMsaaRenderTextures", writer: d.placedMsaaRenderTextures},
		{name: "PlacedUpload", writer: d.placedUpload},
		{name: "ConstantBuffers", writer: d.constantBuffers},
		{name: "TransientUpload", writer: d.transientUpload},
	}
}

// BuildStatsString returns a JSON document describing the device's allocators, descriptor heaps
// and command pools
func (d *Device) BuildStatsString() string {
	writer := jwriter.NewWriter()
	root := writer.Object()

	var total memutils.MemoryStatistics
	d.AddStatistics(&total)
	writeMemoryStatistics(&root, total)

	root.Name("FrameIndex").Int(int(d.frameIndex))
	root.Name("CompletedFrameFence").Int(int(d.manager.CompletedFrameFence()))
	root.Name("PendingReleases").Int(d.releases.Len())

	allocators := root.Name("Allocators").Object()
	for _, named := range d.jsonBlockWriters() {
		obj := allocators.Name(named.name).Object()

		var stats memutils.MemoryStatistics
		named.writer.AddStatistics(&stats)
		writeMemoryStatistics(&obj, stats)
		named.writer.BlockJsonData(&obj)

		obj.End()
	}
	allocators.End()

	heapTypes := root.Name("DescriptorHeapTypes").Object()
	for i := range driver.DescriptorHeapTypeCount {
		heapType := driver.DescriptorHeapType(i)

		var stats memutils.DescriptorStatistics
		d.AddDescriptorStatistics(heapType, &stats)

		obj := heapTypes.Name(heapType.String()).Object()
		writeDescriptorStatistics(&obj, stats)
		obj.End()
	}
	heapTypes.End()

	descriptors := root.Name("Descriptors").Object()
	for _, named := range d.descriptorSources() {
		var stats memutils.DescriptorStatistics
		named.source.AddStatistics(&stats)

		obj := descriptors.Name(named.name).Object()
		writeDescriptorStatistics(&obj, stats)
		if current, ok := named.source.(*OnlineDescriptorMultiAllocator); ok {
			if samplers, ok := current.Current().(*OnlineSamplerDescriptorAllocator); ok {
				obj.Name("Tables").Int(samplers.TableCount())
				obj.Name("Hits").Int(samplers.Hits())
				obj.Name("Evictions").Int(samplers.Evictions())
			}
		}
		obj.End()
	}

	descriptors.Name("StaticSamplers").Int(d.staticSamplers.Len())
	descriptors.Name("RootSignatures").Int(d.rootSignatures.Len())
	descriptors.End()

	queues := root.Name("Queues").Array()
	for i := range driver.QueueTypeCount {
		queue := d.manager.Queue(driver.QueueType(i))

		obj := queues.Object()
		obj.Name("Type").String(queue.Type().String())
		obj.Name("CommandAllocators").Int(queue.AllocatorCount())
		obj.Name("CompletedValue").Int(int(queue.Fence().CompletedValue()))
		obj.End()
	}
	queues.End()

	root.Name("CommandContexts").Int(d.manager.ContextCount())
	root.Name("CommandLists").Int(d.manager.ListCount())

	root.End()
	return string(writer.Bytes())
}
