/*
Package runqueue implements the indexed min-priority-queue of runnable tasks.

The queue is a binary min-heap ordered by (vruntime, task id) ascending. The
task id component makes the ordering total, so extraction is deterministic
for a given event history — equal-vruntime ties always break the same way.

# Architecture

The heap is a slice of task pointers; each task carries a back-pointer
(Task.QueueIndex) holding its current 0-based slot, maintained on every
swap:

	slice:   [ t4 | t2 | t5 | t1 | t3 ]
	            0    1    2    3    4
	                 ▲
	                 │ t2.QueueIndex == 1
	                 │
	       Update(t2) / Remove(t2) start here — no search

The back-pointer is what makes Update and Remove O(log n) from a task
handle. Without it, repositioning a task after a vruntime change means
either a linear scan or a remove-by-key round trip through a composite-key
tree; with it, the operation starts at the task's own slot and sifts from
there.

# Core Components

Queue: the heap itself. Created with an initial capacity and grown by the
runtime's append doubling on overflow.

	q := runqueue.New(64)

Operations and their costs:

	Insert      O(log n)   append at tail, sift up
	Peek        O(1)
	ExtractMin  O(log n)   move tail to root, sift down
	Update      O(log n)   sift up or down from the stored slot
	Remove      O(log n)   ExtractMin at an interior slot
	Clear       O(n)       resets every member's back-pointer
	Contains    O(1)       back-pointer validity check

# Usage Examples

## Selection loop with set-asides

	var deferred []*types.Task
	var picked *types.Task
	for !q.Empty() {
		candidate := q.ExtractMin()
		if !eligible(candidate) {
			deferred = append(deferred, candidate)
			continue
		}
		picked = candidate
		break
	}
	for _, t := range deferred {
		q.Insert(t) // ordering is restored, nothing is lost
	}

## Repositioning after a vruntime change

	task.Vruntime = newValue
	if q.Contains(task) {
		q.Update(task)
	}

# Performance Considerations

The scheduler rebuilds the queue from scratch every tick (Clear plus n
Inserts) rather than maintaining membership incrementally. Rebuild is
O(n log n), but it makes queue membership impossible to desynchronize from
task state and keeps the heap layout a function of the task set alone.
Update and Remove still matter between rebuilds: events arriving mid-batch
(yield, block, exit) reposition or remove tasks without waiting for the
next tick.

The queue stores pointers and never copies tasks. It aliases records owned
by the scheduler's registry; a task must be in at most one queue at a time,
and the queue never outlives the registry.

# Troubleshooting

## Update or Remove appears to do nothing

Both validate the back-pointer first: a task whose QueueIndex is stale or
sentinel is silently skipped (Remove reports false). If a task that should
be enqueued is not, the bug is at the call site that changed its state
without inserting or removing it.

## Nondeterministic extraction order

Cannot happen across equal inputs: the (vruntime, id) key is a total order,
so ExtractMin returns the same task regardless of insertion order. If two
runs disagree, the inputs differ — typically a float accumulated in a
different order upstream.

# See Also

  - pkg/sched - rebuilds and drains this queue every tick
  - pkg/types - the Task record carrying the QueueIndex back-pointer
*/
package runqueue
