package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairtick/fairtick/pkg/types"
)

func openTestStore(t *testing.T, runID string) *Store {
	t.Helper()
	store, err := Open(t.TempDir(), Session{
		RunID:     runID,
		StartedAt: time.Now(),
		CPUs:      2,
		Quantum:   1,
	})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestAppendAndReadBack(t *testing.T) {
	store := openTestStore(t, "run-1")

	for vtime := 0; vtime < 5; vtime++ {
		require.NoError(t, store.Append(&types.Decision{
			VTime:    vtime,
			Schedule: []string{"t1", types.IdleSlot},
		}))
	}

	decisions, err := store.Decisions()
	require.NoError(t, err)
	require.Len(t, decisions, 5)
	for i, d := range decisions {
		assert.Equal(t, i, d.VTime, "decisions must come back in tick order")
		assert.Equal(t, []string{"t1", "idle"}, d.Schedule)
	}
}

func TestDecisionsOrderedAcrossWideVtimes(t *testing.T) {
	store := openTestStore(t, "run-2")

	// Key padding must keep numeric order, not lexicographic surprises.
	for _, vtime := range []int{100, 9, 1000, 50} {
		require.NoError(t, store.Append(&types.Decision{VTime: vtime, Schedule: []string{"x"}}))
	}

	decisions, err := store.Decisions()
	require.NoError(t, err)
	got := make([]int, 0, len(decisions))
	for _, d := range decisions {
		got = append(got, d.VTime)
	}
	assert.Equal(t, []int{9, 50, 100, 1000}, got)
}

func TestMetaSurvivesRoundTrip(t *testing.T) {
	store := openTestStore(t, "run-3")

	require.NoError(t, store.Append(&types.Decision{
		VTime:    1,
		Schedule: []string{"a"},
		Meta: &types.Meta{
			Preemptions:   2,
			Migrations:    1,
			RunnableTasks: []string{"a", "b"},
			BlockedTasks:  []string{"c"},
		},
	}))

	decisions, err := store.Decisions()
	require.NoError(t, err)
	require.Len(t, decisions, 1)
	require.NotNil(t, decisions[0].Meta)
	assert.Equal(t, 2, decisions[0].Meta.Preemptions)
	assert.Equal(t, []string{"c"}, decisions[0].Meta.BlockedTasks)
}

func TestEmptyStore(t *testing.T) {
	store := openTestStore(t, "run-4")
	decisions, err := store.Decisions()
	require.NoError(t, err)
	assert.Empty(t, decisions)
}
