/*
Package sched implements the fair-share scheduling core of fairtick.

The scheduler owns the task and cgroup registries, the run queue of runnable
tasks, and the per-CPU assignment slots. It advances in discrete virtual-time
ticks: the engine applies a batch of events through Apply, then calls Tick
exactly once, which returns the decision record for that virtual time.

# Architecture

One tick runs five phases in a fixed order:

	┌──────────────────────────────────────────────────────────┐
	│ 1. Prologue    store vtime, zero counters, refresh       │
	│                cgroup periods                            │
	│ 2. Accounting  charge vruntime (unless bursting) and     │
	│                cgroup quota to every running task,       │
	│                count down bursts, demote to runnable     │
	│ 3. Rebuild     re-insert every runnable task into the    │
	│                run queue from scratch                    │
	│ 4. Selection   per CPU ascending: extract minimum        │
	│                candidates until one passes affinity,     │
	│                cgroup mask, and quota admission;         │
	│                set-asides go back into the queue         │
	│ 5. Epilogue    unselected runnable tasks lose their CPU, │
	│                decision record is assembled              │
	└──────────────────────────────────────────────────────────┘

Quota admission is atomic across CPUs within a tick: a per-cgroup planned
tally counts runtime already committed to earlier CPUs, so a cgroup whose
remaining quota covers one quantum cannot be admitted on two CPUs at once.

The full rebuild in phase 3 trades O(n log n) work per tick for queue membership
that cannot drift from task state, and for selection that is a pure function
of the event history: the run queue breaks vruntime ties on task id, so the
same input always yields the same schedule.

# Core Components

Scheduler: registries, run queue, per-CPU slots, and the tick counter.

	scheduler := sched.New(4, 1) // 4 CPUs, 1ms quantum

Apply: the event dispatcher. Mutates state for one event, or returns one of
the sentinel errors (ErrUnknownAction, ErrMissingField, ErrTaskNotFound,
ErrTaskExists, ErrCgroupNotFound, ErrCgroupExists). A failed event leaves
the scheduler unchanged.

Tick: the per-tick algorithm. Always returns a decision — one task id or
"idle" per CPU — even when no event in the batch succeeded.

# Task Life Cycle

	            create                  selection (phase 4)
	  (none) ──────────► Runnable ◄──────────────► Running
	                        │  ▲                      │
	                  block │  │ unblock        block │
	                        ▼  │                      │
	                      Blocked ◄───────────────────┘
	                        │
	                  exit  ▼  (exit from any state)
	                      Exited

Burst is an orthogonal flag, not a state: it suspends vruntime accounting in
phase 2 while quota accounting continues, and expires after its tick count.

# Usage Examples

## Driving the scheduler by hand

	scheduler := sched.New(2, 1)

	nice := -5
	if err := scheduler.Apply(&types.Event{
		Action: types.ActionTaskCreate,
		TaskID: "worker-1",
		Nice:   &nice,
	}); err != nil {
		// Event-level failure: log and continue, never abort the batch.
	}

	decision := scheduler.Tick(0)
	for cpu, id := range decision.Schedule {
		fmt.Printf("cpu%d -> %s\n", cpu, id)
	}

## Bandwidth-limited cgroup

	shares, period := 1024, 100000
	_ = scheduler.Apply(&types.Event{
		Action:      types.ActionCgroupCreate,
		CgroupID:    "batch",
		CPUShares:   &shares,
		CPUQuotaUs:  types.Quota{Set: true, Us: 50000},
		CPUPeriodUs: &period,
	})
	_ = scheduler.Apply(&types.Event{
		Action:   types.ActionTaskCreate,
		TaskID:   "job-1",
		CgroupID: "batch",
	})
	// "batch" members run at most 50ms of every 100ms window.

# Performance Characteristics

Per tick with T tasks, G cgroups, and C CPUs:

  - Period refresh: O(G)
  - Accounting: O(C)
  - Queue rebuild: O(T log T)
  - Selection: O((T + C) log T) worst case — every rejected candidate is
    one extract plus one reinsert
  - Epilogue + metadata: O(T log T) for the sorted id lists

At the stated limits (T ≤ 1024, G ≤ 64, C ≤ 128) a tick is microseconds of
work; the transport round-trip dominates end to end. Memory is one Task
record per live task and one Cgroup record per group; the run queue stores
pointers only.

Cgroup deletion rewrites membership by scanning the task registry, O(T) per
deletion. A reverse index would remove the scan at the cost of two-way
consistency; at these limits the scan wins.

# Troubleshooting

## Events are rejected with "task not found"

The producer referenced an id before its TASK_CREATE or after its
TASK_EXIT. Check the batch ordering — events apply strictly in array order,
so a create later in the same batch does not rescue an earlier reference.

## A task never runs

Three filters can exclude it: its affinity mask, its cgroup's CPU mask, and
its cgroup's quota. Affinity and mask must both contain at least one real
CPU index; a quota smaller than one quantum's microseconds can never admit
the cgroup at all.

## Both CPUs idle despite runnable tasks in one cgroup

Working as designed when the cgroup's remaining quota covers fewer quanta
than there are CPUs: the planned tally admits only as many members as the
quota can pay for this tick.

## TASK_UNBLOCK appears to do nothing

Unblock only applies to Blocked tasks; on any other state it is a
deliberate no-op, not an error.

# See Also

  - pkg/runqueue - the indexed min-heap behind phase 3 and 4
  - pkg/types - task, cgroup, event, and decision records
  - pkg/engine - applies batches and emits decisions over the transport
*/
package sched
