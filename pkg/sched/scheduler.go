package sched

import (
	"sort"

	"github.com/fairtick/fairtick/pkg/runqueue"
	"github.com/fairtick/fairtick/pkg/types"
)

const initialQueueCapacity = 64

// Scheduler holds all scheduling state: registries, the run queue, per-CPU
// slots, and per-tick counters. It is not safe for concurrent use.
type Scheduler struct {
	cpuCount int
	quantum  int // ms of runtime accounted per tick

	tasks   map[string]*types.Task
	cgroups map[string]*types.Cgroup
	queue   *runqueue.Queue
	slots   []*types.Task // current assignment per CPU, nil when idle

	vtime int

	preemptions int
	migrations  int
}

// New creates a scheduler for cpuCount CPUs accounting quantum ms per tick.
// Non-positive quantum falls back to 1.
func New(cpuCount, quantum int) *Scheduler {
	if quantum < 1 {
		quantum = 1
	}
	return &Scheduler{
		cpuCount: cpuCount,
		quantum:  quantum,
		tasks:    make(map[string]*types.Task),
		cgroups:  make(map[string]*types.Cgroup),
		queue:    runqueue.New(initialQueueCapacity),
		slots:    make([]*types.Task, cpuCount),
	}
}

// CPUCount returns the number of CPUs being scheduled.
func (s *Scheduler) CPUCount() int { return s.cpuCount }

// Quantum returns the runtime (ms) accounted per tick.
func (s *Scheduler) Quantum() int { return s.quantum }

// VTime returns the most recent virtual time seen by Tick.
func (s *Scheduler) VTime() int { return s.vtime }

// FindTask returns the task with the given id, or nil.
func (s *Scheduler) FindTask(id string) *types.Task { return s.tasks[id] }

// FindCgroup returns the cgroup with the given id, or nil. The default
// cgroup "0" exists implicitly and is not registered.
func (s *Scheduler) FindCgroup(id string) *types.Cgroup { return s.cgroups[id] }

// TaskCount returns the number of registered tasks.
func (s *Scheduler) TaskCount() int { return len(s.tasks) }

// Queued reports whether the task is currently in the run queue.
func (s *Scheduler) Queued(t *types.Task) bool { return s.queue.Contains(t) }

// minVruntime returns the minimum vruntime over runnable and running tasks,
// or 0 when there are none.
func (s *Scheduler) minVruntime() float64 {
	min, found := 0.0, false
	for _, t := range s.tasks {
		if t.State != types.TaskStateRunnable && t.State != types.TaskStateRunning {
			continue
		}
		if !found || t.Vruntime < min {
			min, found = t.Vruntime, true
		}
	}
	return min
}

// maxVruntime returns the maximum vruntime over runnable and running tasks,
// or 0 when there are none.
func (s *Scheduler) maxVruntime() float64 {
	max := 0.0
	for _, t := range s.tasks {
		if t.State != types.TaskStateRunnable && t.State != types.TaskStateRunning {
			continue
		}
		if t.Vruntime > max {
			max = t.Vruntime
		}
	}
	return max
}

// effectiveWeight scales the task weight by its cgroup's shares, with a
// floor of 1.
func (s *Scheduler) effectiveWeight(t *types.Task) int {
	weight := int64(t.Weight)
	if cg := s.cgroups[t.CgroupID]; cg != nil && cg.CPUShares > 0 {
		weight = weight * int64(cg.CPUShares) / types.DefaultCPUShares
	}
	if weight < 1 {
		weight = 1
	}
	return int(weight)
}

// rebuildQueue empties the run queue and re-inserts every runnable task.
// Queue indices of non-runnable tasks are reset to the sentinel.
func (s *Scheduler) rebuildQueue() {
	s.queue.Clear()
	for _, t := range s.tasks {
		t.QueueIndex = types.NotQueued
		if t.State == types.TaskStateRunnable {
			s.queue.Insert(t)
		}
	}
}

// taskIDsByState collects sorted ids of tasks matching any of the states.
func (s *Scheduler) taskIDsByState(states ...types.TaskState) []string {
	ids := []string{}
	for _, t := range s.tasks {
		for _, st := range states {
			if t.State == st {
				ids = append(ids, t.ID)
				break
			}
		}
	}
	sort.Strings(ids)
	return ids
}

// clearSlot removes the task from any CPU slot it occupies.
func (s *Scheduler) clearSlot(t *types.Task) {
	for cpu, cur := range s.slots {
		if cur == t {
			s.slots[cpu] = nil
		}
	}
}
