package partition

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit_RoundRobin(t *testing.T) {
	tasks := []string{"a", "b", "c", "d", "e"}

	groups := Split(tasks, 2)

	require.Len(t, groups, 2)
	assert.Equal(t, []string{"a", "c", "e"}, groups[0])
	assert.Equal(t, []string{"b", "d"}, groups[1])
}

func TestSplit_EveryTaskAssignedExactlyOnce(t *testing.T) {
	for size := 0; size <= 7; size++ {
		for n := 1; n <= 5; n++ {
			t.Run(fmt.Sprintf("%d tasks across %d groups", size, n), func(t *testing.T) {
				tasks := make([]string, size)
				for i := range tasks {
					tasks[i] = fmt.Sprintf("file-%d", i)
				}

				groups := Split(tasks, n)
				require.Len(t, groups, n)

				var union []string
				for _, group := range groups {
					union = append(union, group...)
				}
				assert.ElementsMatch(t, tasks, union)
			})
		}
	}
}

func TestSplit_FewerTasksThanGroups(t *testing.T) {
	groups := Split([]string{"only"}, 4)

	require.Len(t, groups, 4)
	assert.Equal(t, []string{"only"}, groups[0])
	for _, group := range groups[1:] {
		assert.Empty(t, group)
	}
}

func TestSplit_Deterministic(t *testing.T) {
	tasks := []string{"w", "x", "y", "z"}

	assert.Equal(t, Split(tasks, 3), Split(tasks, 3))
}

func TestSplit_NonPositiveGroupCount(t *testing.T) {
	groups := Split([]string{"a", "b"}, 0)

	require.Len(t, groups, 1)
	assert.Equal(t, []string{"a", "b"}, groups[0])
}
