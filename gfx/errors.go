package gfx

import "github.com/cockroachdb/errors"

// ErrResourceStateLocked is returned when a resource whose state has been locked, such as an upload
// buffer that must stay in GenericRead, is asked to transition to another state
var ErrResourceStateLocked = errors.New("resource state is locked")

// ErrAllocationTooLarge is returned by placed allocators when a request cannot fit in a single
// page. Callers fall back to a committed allocation.
var ErrAllocationTooLarge = errors.New("allocation is larger than the allocator's maximum page size")

// ErrShutdown is returned by CommandManager operations attempted after Shutdown
var ErrShutdown = errors.New("command manager has been shut down")
