package buddy

import (
	"context"

	cerrors "github.com/cockroachdb/errors"
	"github.com/vkngwrapper/gfxcore/memutils"
	"golang.org/x/exp/slog"
)

// RequestPageFunc hands the LinearAllocator a page of at least size bytes. large is true when the
// page is dedicated to a single request bigger than the allocator's page size. isNew reports whether
// the page had to be created rather than recycled, and is only used for logging.
type RequestPageFunc func(size int, large bool) (pageIndex int, isNew bool, err error)

// LinearAllocation is a range handed out by LinearAllocator
type LinearAllocation struct {
	PageIndex int
	Offset    int
	Large     bool
}

// LinearAllocator bumps an offset through fixed-size pages. It never frees individual ranges:
// the consumer recycles whole pages and calls Reset when it does.
type LinearAllocator struct {
	logger      *slog.Logger
	name        string
	pageSize    int
	requestPage RequestPageFunc

	hasPage        bool
	currentPage    int
	nextAllocation int
}

// NewLinear creates a LinearAllocator that requests pages of pageSize bytes
func NewLinear(logger *slog.Logger, name string, pageSize int, requestPage RequestPageFunc) (*LinearAllocator, error) {
	if pageSize <= 0 {
		return nil, cerrors.Wrapf(memutils.ZeroSizeError, "%s page size is %d", name, pageSize)
	}

	return &LinearAllocator{
		logger:      logger,
		name:        name,
		pageSize:    pageSize,
		requestPage: requestPage,
	}, nil
}

func (l *LinearAllocator) Name() string  { return l.name }
func (l *LinearAllocator) PageSize() int { return l.pageSize }

// Reset forgets the current page so the next allocation requests a fresh one
func (l *LinearAllocator) Reset() {
	l.hasPage = false
	l.currentPage = 0
	l.nextAllocation = 0
}

// Allocate returns size bytes at the requested alignment (0 for none). Requests larger than the
// page size get a dedicated large page at offset 0 and do not disturb the current page.
func (l *LinearAllocator) Allocate(size, alignment int) (LinearAllocation, error) {
	if size <= 0 {
		return LinearAllocation{}, cerrors.Wrapf(memutils.ZeroSizeError, "%s received a request of %d bytes", l.name, size)
	}

	if size > l.pageSize {
		pageIndex, isNew, err := l.requestPage(size, true)
		if err != nil {
			return LinearAllocation{}, cerrors.Wrapf(err, "%s failed to request a large page", l.name)
		}

		if isNew {
			l.logger.LogAttrs(context.Background(), slog.LevelDebug, "linear allocator created new large page",
				slog.String("Name", l.name),
				slog.Int("Size", size),
			)
		}

		return LinearAllocation{PageIndex: pageIndex, Offset: 0, Large: true}, nil
	}

	offset := memutils.AlignUp(l.nextAllocation, alignment)

	if !l.hasPage || offset+size > l.pageSize {
		pageIndex, isNew, err := l.requestPage(l.pageSize, false)
		if err != nil {
			return LinearAllocation{}, cerrors.Wrapf(err, "%s failed to request a page", l.name)
		}

		if isNew {
			l.logger.LogAttrs(context.Background(), slog.LevelDebug, "linear allocator created new page",
				slog.String("Name", l.name),
				slog.Int("Size", l.pageSize),
			)
		}

		l.hasPage = true
		l.currentPage = pageIndex
		offset = 0
	}

	l.nextAllocation = offset + size
	return LinearAllocation{PageIndex: l.currentPage, Offset: offset}, nil
}
