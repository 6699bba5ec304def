package memutils

// MemoryStatistics summarizes the driver memory held by a resource or buffer allocator. A page is
// one driver heap or one committed buffer that allocations are carved from.
type MemoryStatistics struct {
	PageCount       int
	PageBytes       int
	AllocationCount int
	AllocationBytes int
}

func (s *MemoryStatistics) Clear() {
	*s = MemoryStatistics{}
}

func (s *MemoryStatistics) Add(other *MemoryStatistics) {
	s.PageCount += other.PageCount
	s.PageBytes += other.PageBytes
	s.AllocationCount += other.AllocationCount
	s.AllocationBytes += other.AllocationBytes
}

// AddPage counts a page of size bytes with no allocations
func (s *MemoryStatistics) AddPage(size int) {
	s.PageCount++
	s.PageBytes += size
}

// UnusedBytes is the part of the pages not covered by allocations
func (s *MemoryStatistics) UnusedBytes() int {
	return s.PageBytes - s.AllocationBytes
}

// BuddyStatistics adds the per-order block layout of buddy pages to MemoryStatistics. Order 0
// blocks are the minimum block size and each order doubles it.
type BuddyStatistics struct {
	MemoryStatistics
	FreeBlocksPerOrder []int
	LiveBlocksPerOrder []int
	LargestFreeBlock   int
}

func (s *BuddyStatistics) Clear() {
	s.MemoryStatistics.Clear()
	s.FreeBlocksPerOrder = s.FreeBlocksPerOrder[:0]
	s.LiveBlocksPerOrder = s.LiveBlocksPerOrder[:0]
	s.LargestFreeBlock = 0
}

func growOrders(counts []int, order int) []int {
	for len(counts) <= order {
		counts = append(counts, 0)
	}
	return counts
}

func (s *BuddyStatistics) AddFreeBlock(order, size int) {
	s.FreeBlocksPerOrder = growOrders(s.FreeBlocksPerOrder, order)
	s.FreeBlocksPerOrder[order]++
	s.LargestFreeBlock = max(s.LargestFreeBlock, size)
}

// AddLiveBlock counts a reserved block. Its bytes are already part of AllocationBytes.
func (s *BuddyStatistics) AddLiveBlock(order int) {
	s.LiveBlocksPerOrder = growOrders(s.LiveBlocksPerOrder, order)
	s.LiveBlocksPerOrder[order]++
}

// DescriptorStatistics summarizes the descriptor heaps of one heap type
type DescriptorStatistics struct {
	HeapCount      int
	Capacity       int
	InUse          int
	PendingRelease int
}

func (s *DescriptorStatistics) Add(other *DescriptorStatistics) {
	s.HeapCount += other.HeapCount
	s.Capacity += other.Capacity
	s.InUse += other.InUse
	s.PendingRelease += other.PendingRelease
}

// Free is the number of descriptors that can be handed out without creating another heap
func (s *DescriptorStatistics) Free() int {
	return s.Capacity - s.InUse - s.PendingRelease
}
