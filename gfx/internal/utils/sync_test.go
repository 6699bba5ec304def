package utils

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOptionalMutexSerializes(t *testing.T) {
	mutex := &OptionalMutex{UseMutex: true}
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				unlock := mutex.Guard()
				counter++
				unlock()
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 8000, counter)
}

func TestOptionalMutexDisabled(t *testing.T) {
	mutex := &OptionalMutex{}

	// A disabled mutex can be locked repeatedly without blocking
	mutex.Lock()
	mutex.Lock()
	mutex.Unlock()
	require.True(t, mutex.Mutex.TryLock())
	mutex.Mutex.Unlock()

	rw := &OptionalRWMutex{}
	rw.Lock()
	rw.RLock()
	rw.RUnlock()
	rw.Unlock()
}
