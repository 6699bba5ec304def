package buddy

import (
	"context"

	cerrors "github.com/cockroachdb/errors"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/vkngwrapper/gfxcore/memutils"
	"golang.org/x/exp/slog"
)

// AppendPageFunc is called by MultiAllocator before it starts handing out offsets from a new page,
// so that the consumer can create whatever backs the page. pageIndex is the index the page will
// report through Allocation.Page.
type AppendPageFunc func(pageIndex int, sizeInBytes int) error

// MultiAllocator is a list of buddy pages. Requests are served by the first page that can fit them,
// and a new page is appended when none can. Pages are never removed except by Reset.
type MultiAllocator struct {
	logger              *slog.Logger
	name                string
	minBlockSize        int
	defaultMaxBlockSize int
	appendPage          AppendPageFunc

	pages []*Allocator
}

var _ memutils.Validatable = &MultiAllocator{}

// NewMulti creates a MultiAllocator whose pages are defaultMaxBlockSize bytes unless a single
// request needs more
func NewMulti(logger *slog.Logger, name string, minBlockSize, defaultMaxBlockSize int, appendPage AppendPageFunc) (*MultiAllocator, error) {
	err := memutils.CheckPow2(minBlockSize, "minBlockSize")
	if err != nil {
		return nil, err
	}

	err = memutils.CheckPow2(defaultMaxBlockSize, "defaultMaxBlockSize")
	if err != nil {
		return nil, err
	}

	if minBlockSize > defaultMaxBlockSize {
		return nil, cerrors.Wrapf(memutils.BlockSizeError, "%s: min block size %d, default max block size %d", name, minBlockSize, defaultMaxBlockSize)
	}

	return &MultiAllocator{
		logger:              logger,
		name:                name,
		minBlockSize:        minBlockSize,
		defaultMaxBlockSize: defaultMaxBlockSize,
		appendPage:          appendPage,
	}, nil
}

func (m *MultiAllocator) Name() string          { return m.name }
func (m *MultiAllocator) PageCount() int        { return len(m.pages) }
func (m *MultiAllocator) Page(i int) *Allocator { return m.pages[i] }

// Allocate serves the request from the first page that fits it. If no page fits, a page is
// appended and the request is retried once against it. ok is false only when the new page
// still cannot serve the request. Errors come from the page callback.
func (m *MultiAllocator) Allocate(size, alignment int) (alloc Allocation, ok bool, err error) {
	for _, page := range m.pages {
		alloc, ok = page.Allocate(size, alignment)
		if ok {
			return alloc, true, nil
		}
	}

	pageSize := size
	if alignment != 0 && m.minBlockSize%alignment != 0 {
		pageSize += alignment
	}

	if pageSize <= m.defaultMaxBlockSize {
		pageSize = m.defaultMaxBlockSize
	} else {
		units := memutils.DivideRoundingUp(pageSize, m.minBlockSize)
		pageSize = (1 << memutils.Log2Ceil(uint64(units))) * m.minBlockSize
	}

	page, err := m.appendNewPage(pageSize)
	if err != nil {
		return Allocation{}, false, err
	}

	alloc, ok = page.Allocate(size, alignment)
	return alloc, ok, nil
}

func (m *MultiAllocator) appendNewPage(maxBlockSize int) (*Allocator, error) {
	pageIndex := len(m.pages)

	page, err := New(m.name, m.minBlockSize, maxBlockSize)
	if err != nil {
		return nil, err
	}
	page.pageIndex = pageIndex

	if m.appendPage != nil {
		err = m.appendPage(pageIndex, maxBlockSize)
		if err != nil {
			return nil, cerrors.Wrapf(err, "%s failed to append page %d", m.name, pageIndex)
		}
	}

	m.pages = append(m.pages, page)
	m.logger.LogAttrs(context.Background(), slog.LevelDebug, "buddy allocator created new page",
		slog.String("Name", m.name),
		slog.Int("PageIndex", pageIndex),
		slog.Int("MinBlockSize", m.minBlockSize),
		slog.Int("MaxBlockSize", maxBlockSize),
	)

	return page, nil
}

// Release hands the allocation back to the page that produced it
func (m *MultiAllocator) Release(alloc Allocation) {
	if alloc.owner == nil || alloc.owner.pageIndex >= len(m.pages) || m.pages[alloc.owner.pageIndex] != alloc.owner {
		panic(cerrors.AssertionFailedf("multi allocator %s received an allocation from a page it does not own", m.name))
	}

	alloc.owner.Release(alloc)
}

// Reset drops every page. The consumer is responsible for releasing whatever backed them.
func (m *MultiAllocator) Reset() {
	m.pages = nil
}

func (m *MultiAllocator) AllocationCount() int {
	count := 0
	for _, page := range m.pages {
		count += page.AllocationCount()
	}
	return count
}

func (m *MultiAllocator) Validate() error {
	for i, page := range m.pages {
		if page.pageIndex != i {
			return cerrors.Newf("page %d believes it is page %d", i, page.pageIndex)
		}

		err := page.Validate()
		if err != nil {
			return cerrors.Wrapf(err, "page %d", i)
		}
	}

	return nil
}

func (m *MultiAllocator) AddStatistics(stats *memutils.MemoryStatistics) {
	for _, page := range m.pages {
		page.AddStatistics(stats)
	}
}

func (m *MultiAllocator) AddBuddyStatistics(stats *memutils.BuddyStatistics) {
	for _, page := range m.pages {
		page.AddBuddyStatistics(stats)
	}
}

// BlockJsonData populates a json object with one entry per page
func (m *MultiAllocator) BlockJsonData(json *jwriter.ObjectState) {
	json.Name("Name").String(m.name)
	json.Name("MinBlockSize").Int(m.minBlockSize)
	json.Name("DefaultMaxBlockSize").Int(m.defaultMaxBlockSize)

	pages := json.Name("Pages").Array()
	defer pages.End()

	for _, page := range m.pages {
		obj := pages.Object()
		page.BlockJsonData(&obj)
		obj.End()
	}
}
