// Package release implements the fence-gated FIFO used for every deferred release in the core:
// payloads are pushed together with the fence value after which the GPU no longer reads them,
// and are handed back from the front once that value completes.
package release

import "github.com/cockroachdb/errors"

const minCapacity = 8

// CompletionCheck reports whether the provided fence value has been reached by the GPU
type CompletionCheck func(fenceValue uint64) bool

type entry[T any] struct {
	fenceValue uint64
	payload    T
}

// Queue is a ring buffer of (fence value, payload) pairs. Fence values must be pushed in
// non-decreasing order, which lets consumers stop draining at the first incomplete entry.
//
// Queue is not safe for concurrent use.
type Queue[T any] struct {
	entries []entry[T]
	head    int
	count   int
}

// Len returns the number of queued payloads
func (q *Queue[T]) Len() int { return q.count }

// Empty returns true if nothing is queued
func (q *Queue[T]) Empty() bool { return q.count == 0 }

// Push queues a payload that may be reused once fenceValue completes. Pushing a fence value lower
// than the most recently pushed one panics.
func (q *Queue[T]) Push(fenceValue uint64, payload T) {
	if q.count > 0 {
		last := q.entries[(q.head+q.count-1)%len(q.entries)]
		if fenceValue < last.fenceValue {
			panic(errors.AssertionFailedf("release queue fence values must not decrease: pushed %d after %d", fenceValue, last.fenceValue))
		}
	}

	if q.count == len(q.entries) {
		q.grow()
	}

	q.entries[(q.head+q.count)%len(q.entries)] = entry[T]{fenceValue: fenceValue, payload: payload}
	q.count++
}

func (q *Queue[T]) grow() {
	newCap := len(q.entries) * 2
	if newCap < minCapacity {
		newCap = minCapacity
	}

	entries := make([]entry[T], newCap)
	for i := 0; i < q.count; i++ {
		entries[i] = q.entries[(q.head+i)%len(q.entries)]
	}

	q.entries = entries
	q.head = 0
}

// Front returns the oldest fence value and payload without removing them
func (q *Queue[T]) Front() (fenceValue uint64, payload T, ok bool) {
	if q.count == 0 {
		return 0, payload, false
	}

	e := q.entries[q.head]
	return e.fenceValue, e.payload, true
}

// Pop removes and returns the oldest payload regardless of its fence value
func (q *Queue[T]) Pop() (fenceValue uint64, payload T, ok bool) {
	if q.count == 0 {
		return 0, payload, false
	}

	e := q.entries[q.head]
	var zero entry[T]
	q.entries[q.head] = zero
	q.head = (q.head + 1) % len(q.entries)
	q.count--

	return e.fenceValue, e.payload, true
}

// PopCompleted removes and returns the oldest payload only if its fence value has completed
func (q *Queue[T]) PopCompleted(isCompleted CompletionCheck) (payload T, ok bool) {
	fenceValue, _, ok := q.Front()
	if !ok || !isCompleted(fenceValue) {
		return payload, false
	}

	_, payload, _ = q.Pop()
	return payload, true
}

// Drain pops every payload from the front whose fence value has completed, stopping at the first
// one that has not, and passes each to the provided callback. It returns the number drained.
func (q *Queue[T]) Drain(isCompleted CompletionCheck, handle func(fenceValue uint64, payload T)) int {
	drained := 0

	for q.count > 0 {
		e := q.entries[q.head]
		if !isCompleted(e.fenceValue) {
			break
		}

		q.Pop()
		drained++
		if handle != nil {
			handle(e.fenceValue, e.payload)
		}
	}

	return drained
}

// Visit calls the provided callback for each queued entry from oldest to newest
func (q *Queue[T]) Visit(visit func(fenceValue uint64, payload T)) {
	for i := 0; i < q.count; i++ {
		e := q.entries[(q.head+i)%len(q.entries)]
		visit(e.fenceValue, e.payload)
	}
}

// Clear drops all queued payloads
func (q *Queue[T]) Clear() {
	var zero entry[T]
	for i := range q.entries {
		q.entries[i] = zero
	}
	q.head = 0
	q.count = 0
}
