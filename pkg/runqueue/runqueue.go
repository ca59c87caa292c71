package runqueue

import (
	"github.com/fairtick/fairtick/pkg/types"
)

// Queue is an indexed binary min-heap of tasks keyed by vruntime, with task
// id as the deterministic tie-break.
type Queue struct {
	tasks []*types.Task
}

// New creates a queue with the given initial capacity.
func New(capacity int) *Queue {
	if capacity < 1 {
		capacity = 1
	}
	return &Queue{tasks: make([]*types.Task, 0, capacity)}
}

// Len returns the number of enqueued tasks.
func (q *Queue) Len() int { return len(q.tasks) }

// Empty reports whether the queue holds no tasks.
func (q *Queue) Empty() bool { return len(q.tasks) == 0 }

// less orders by vruntime ascending, then id ascending.
func less(a, b *types.Task) bool {
	if a.Vruntime != b.Vruntime {
		return a.Vruntime < b.Vruntime
	}
	return a.ID < b.ID
}

func (q *Queue) swap(i, j int) {
	q.tasks[i], q.tasks[j] = q.tasks[j], q.tasks[i]
	q.tasks[i].QueueIndex = i
	q.tasks[j].QueueIndex = j
}

func (q *Queue) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !less(q.tasks[i], q.tasks[parent]) {
			break
		}
		q.swap(i, parent)
		i = parent
	}
}

func (q *Queue) siftDown(i int) {
	n := len(q.tasks)
	for {
		min := i
		if left := 2*i + 1; left < n && less(q.tasks[left], q.tasks[min]) {
			min = left
		}
		if right := 2*i + 2; right < n && less(q.tasks[right], q.tasks[min]) {
			min = right
		}
		if min == i {
			return
		}
		q.swap(i, min)
		i = min
	}
}

// Insert adds a task to the queue and records its slot in Task.QueueIndex.
func (q *Queue) Insert(t *types.Task) {
	q.tasks = append(q.tasks, t)
	t.QueueIndex = len(q.tasks) - 1
	q.siftUp(t.QueueIndex)
}

// Peek returns the minimum-vruntime task without removing it, or nil.
func (q *Queue) Peek() *types.Task {
	if len(q.tasks) == 0 {
		return nil
	}
	return q.tasks[0]
}

// ExtractMin removes and returns the minimum-vruntime task, or nil when
// empty. The extracted task's QueueIndex is reset to NotQueued.
func (q *Queue) ExtractMin() *types.Task {
	if len(q.tasks) == 0 {
		return nil
	}
	min := q.tasks[0]
	min.QueueIndex = types.NotQueued

	last := len(q.tasks) - 1
	q.tasks[0] = q.tasks[last]
	q.tasks[last] = nil
	q.tasks = q.tasks[:last]
	if last > 0 {
		q.tasks[0].QueueIndex = 0
		q.siftDown(0)
	}
	return min
}

// Update restores heap order after the task's vruntime changed. The task
// must currently be enqueued.
func (q *Queue) Update(t *types.Task) {
	i := t.QueueIndex
	if i < 0 || i >= len(q.tasks) || q.tasks[i] != t {
		return
	}
	if i > 0 && less(t, q.tasks[(i-1)/2]) {
		q.siftUp(i)
	} else {
		q.siftDown(i)
	}
}

// Remove deletes the task from an arbitrary slot. Returns false if the task
// is not enqueued.
func (q *Queue) Remove(t *types.Task) bool {
	i := t.QueueIndex
	if i < 0 || i >= len(q.tasks) || q.tasks[i] != t {
		return false
	}
	t.QueueIndex = types.NotQueued

	last := len(q.tasks) - 1
	if i != last {
		q.tasks[i] = q.tasks[last]
		q.tasks[i].QueueIndex = i
	}
	q.tasks[last] = nil
	q.tasks = q.tasks[:last]
	if i < len(q.tasks) {
		if i > 0 && less(q.tasks[i], q.tasks[(i-1)/2]) {
			q.siftUp(i)
		} else {
			q.siftDown(i)
		}
	}
	return true
}

// Clear empties the queue, resetting every member's QueueIndex.
func (q *Queue) Clear() {
	for _, t := range q.tasks {
		t.QueueIndex = types.NotQueued
	}
	q.tasks = q.tasks[:0]
}

// Contains reports whether the task is currently enqueued here.
func (q *Queue) Contains(t *types.Task) bool {
	i := t.QueueIndex
	return i >= 0 && i < len(q.tasks) && q.tasks[i] == t
}
