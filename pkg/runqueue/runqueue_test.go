package runqueue

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairtick/fairtick/pkg/types"
)

func task(id string, vruntime float64) *types.Task {
	t := types.NewTask(id, 0, "")
	t.Vruntime = vruntime
	return t
}

func TestInsertExtractOrder(t *testing.T) {
	q := New(4)
	q.Insert(task("c", 3.0))
	q.Insert(task("a", 1.0))
	q.Insert(task("b", 2.0))

	assert.Equal(t, 3, q.Len())
	assert.Equal(t, "a", q.ExtractMin().ID)
	assert.Equal(t, "b", q.ExtractMin().ID)
	assert.Equal(t, "c", q.ExtractMin().ID)
	assert.Nil(t, q.ExtractMin())
	assert.True(t, q.Empty())
}

func TestBackPointerMaintained(t *testing.T) {
	q := New(4)
	tasks := []*types.Task{
		task("t1", 5.0), task("t2", 3.0), task("t3", 8.0),
		task("t4", 1.0), task("t5", 4.0),
	}
	for _, tk := range tasks {
		q.Insert(tk)
	}

	// Every enqueued task's index must point at its own slot.
	for _, tk := range tasks {
		require.GreaterOrEqual(t, tk.QueueIndex, 0)
		assert.True(t, q.Contains(tk))
	}

	min := q.ExtractMin()
	assert.Equal(t, "t4", min.ID)
	assert.Equal(t, types.NotQueued, min.QueueIndex)
	for _, tk := range tasks {
		if tk == min {
			continue
		}
		assert.True(t, q.Contains(tk))
	}
}

func TestPeekDoesNotRemove(t *testing.T) {
	q := New(2)
	assert.Nil(t, q.Peek())

	q.Insert(task("a", 2.0))
	q.Insert(task("b", 1.0))
	assert.Equal(t, "b", q.Peek().ID)
	assert.Equal(t, 2, q.Len())
}

func TestUpdateAfterVruntimeChange(t *testing.T) {
	q := New(4)
	a := task("a", 1.0)
	b := task("b", 2.0)
	c := task("c", 3.0)
	q.Insert(a)
	q.Insert(b)
	q.Insert(c)

	// Push the minimum to the back.
	a.Vruntime = 10.0
	q.Update(a)
	assert.Equal(t, "b", q.Peek().ID)

	// Pull the maximum to the front.
	c.Vruntime = 0.5
	q.Update(c)
	assert.Equal(t, "c", q.Peek().ID)

	assert.Equal(t, "c", q.ExtractMin().ID)
	assert.Equal(t, "b", q.ExtractMin().ID)
	assert.Equal(t, "a", q.ExtractMin().ID)
}

func TestRemoveInterior(t *testing.T) {
	q := New(8)
	tasks := make([]*types.Task, 0, 7)
	for i, v := range []float64{4, 2, 6, 1, 3, 5, 7} {
		tk := task(string(rune('a'+i)), v)
		tasks = append(tasks, tk)
		q.Insert(tk)
	}

	victim := tasks[2] // vruntime 6, interior slot
	assert.True(t, q.Remove(victim))
	assert.Equal(t, types.NotQueued, victim.QueueIndex)
	assert.False(t, q.Remove(victim))
	assert.Equal(t, 6, q.Len())

	var got []float64
	for !q.Empty() {
		got = append(got, q.ExtractMin().Vruntime)
	}
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 7}, got)
}

func TestRemoveNotEnqueued(t *testing.T) {
	q := New(2)
	outsider := task("x", 1.0)
	assert.False(t, q.Remove(outsider))
}

func TestTieBreakOnID(t *testing.T) {
	// Equal vruntimes must extract in id order regardless of insertion
	// order — decisions depend on this determinism.
	orders := [][]string{
		{"t1", "t2", "t3"},
		{"t3", "t1", "t2"},
		{"t2", "t3", "t1"},
	}
	for _, order := range orders {
		q := New(4)
		for _, id := range order {
			q.Insert(task(id, 1.0))
		}
		assert.Equal(t, "t1", q.ExtractMin().ID)
		assert.Equal(t, "t2", q.ExtractMin().ID)
		assert.Equal(t, "t3", q.ExtractMin().ID)
	}
}

func TestClearResetsIndices(t *testing.T) {
	q := New(4)
	a := task("a", 1.0)
	b := task("b", 2.0)
	q.Insert(a)
	q.Insert(b)

	q.Clear()
	assert.True(t, q.Empty())
	assert.Equal(t, types.NotQueued, a.QueueIndex)
	assert.Equal(t, types.NotQueued, b.QueueIndex)
}

func TestGrowthBeyondInitialCapacity(t *testing.T) {
	q := New(1)
	const n = 500
	rng := rand.New(rand.NewSource(7))

	want := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		v := rng.Float64() * 1000
		want = append(want, v)
		q.Insert(task(string(rune('a'+i%26))+string(rune('0'+i%10)), v))
	}
	sort.Float64s(want)

	got := make([]float64, 0, n)
	for !q.Empty() {
		got = append(got, q.ExtractMin().Vruntime)
	}
	assert.Equal(t, want, got)
}
