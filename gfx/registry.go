package gfx

import (
	"github.com/dolthub/swiss"
	"github.com/vkngwrapper/gfxcore/gfx/internal/utils"
)

// Registry is a process-scoped cache keyed by content. Entries are created lazily on first request
// and live until Clear, which the device calls on teardown and consumers call on hot reload.
type Registry[K comparable, V any] struct {
	mutex   utils.OptionalRWMutex
	entries *swiss.Map[K, V]
}

// NewRegistry creates an empty registry. When useMutex is false the consumer must synchronize
// access itself.
func NewRegistry[K comparable, V any](useMutex bool) *Registry[K, V] {
	return &Registry[K, V]{
		mutex: utils.OptionalRWMutex{
			UseMutex: useMutex,
		},
		entries: swiss.NewMap[K, V](16),
	}
}

func (r *Registry[K, V]) Get(key K) (V, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return r.entries.Get(key)
}

// GetOrCreate returns the entry for key, calling create to populate it if it is missing. If create
// fails, nothing is stored.
func (r *Registry[K, V]) GetOrCreate(key K, create func(key K) (V, error)) (V, error) {
	r.mutex.RLock()
	value, ok := r.entries.Get(key)
	r.mutex.RUnlock()

	if ok {
		return value, nil
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	// Another goroutine may have populated the entry between the locks
	value, ok = r.entries.Get(key)
	if ok {
		return value, nil
	}

	value, err := create(key)
	if err != nil {
		return value, err
	}

	r.entries.Put(key, value)
	return value, nil
}

func (r *Registry[K, V]) Len() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return r.entries.Count()
}

// Clear removes every entry, passing each to onEvict if it is not nil
func (r *Registry[K, V]) Clear(onEvict func(key K, value V)) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if onEvict != nil {
		r.entries.Iter(func(key K, value V) bool {
			onEvict(key, value)
			return false
		})
	}

	r.entries.Clear()
}
