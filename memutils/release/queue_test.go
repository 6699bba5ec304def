package release_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/gfxcore/memutils/release"
)

func completedThrough(value uint64) release.CompletionCheck {
	return func(fenceValue uint64) bool {
		return fenceValue <= value
	}
}

func TestQueueDrainStopsAtFirstIncomplete(t *testing.T) {
	var q release.Queue[string]
	q.Push(1, "a")
	q.Push(2, "b")
	q.Push(2, "c")
	q.Push(5, "d")

	var drained []string
	count := q.Drain(completedThrough(2), func(fenceValue uint64, payload string) {
		drained = append(drained, payload)
	})

	require.Equal(t, 3, count)
	require.Equal(t, []string{"a", "b", "c"}, drained)
	require.Equal(t, 1, q.Len())

	fence, payload, ok := q.Front()
	require.True(t, ok)
	require.Equal(t, uint64(5), fence)
	require.Equal(t, "d", payload)

	count = q.Drain(completedThrough(4), nil)
	require.Equal(t, 0, count)
	require.Equal(t, 1, q.Len())
}

func TestQueuePopCompleted(t *testing.T) {
	var q release.Queue[int]

	_, ok := q.PopCompleted(completedThrough(100))
	require.False(t, ok)

	q.Push(3, 30)
	_, ok = q.PopCompleted(completedThrough(2))
	require.False(t, ok)

	payload, ok := q.PopCompleted(completedThrough(3))
	require.True(t, ok)
	require.Equal(t, 30, payload)
	require.True(t, q.Empty())
}

func TestQueueGrowsAcrossWrap(t *testing.T) {
	var q release.Queue[int]

	for i := 0; i < 6; i++ {
		q.Push(uint64(i), i)
	}
	for i := 0; i < 4; i++ {
		_, payload, ok := q.Pop()
		require.True(t, ok)
		require.Equal(t, i, payload)
	}
	for i := 6; i < 30; i++ {
		q.Push(uint64(i), i)
	}

	require.Equal(t, 26, q.Len())

	var visited []int
	q.Visit(func(fenceValue uint64, payload int) {
		require.Equal(t, uint64(payload), fenceValue)
		visited = append(visited, payload)
	})
	require.Len(t, visited, 26)
	require.Equal(t, 4, visited[0])
	require.Equal(t, 29, visited[25])

	q.Clear()
	require.True(t, q.Empty())
}

func TestQueueRejectsDecreasingFence(t *testing.T) {
	var q release.Queue[int]
	q.Push(10, 1)

	require.Panics(t, func() {
		q.Push(9, 2)
	})
}
