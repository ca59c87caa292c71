package sched

import (
	"github.com/fairtick/fairtick/pkg/types"
)

// Tick runs one scheduling step at the given virtual time and returns the
// decision record. Meta is always populated; callers that did not request
// metadata drop it before encoding.
func (s *Scheduler) Tick(vtime int) *types.Decision {
	s.vtime = vtime
	s.preemptions = 0
	s.migrations = 0
	s.refreshPeriods(vtime)

	quantumUs := float64(s.quantum) * 1000.0

	// Advance accounting for tasks that ran last tick and demote them to
	// runnable. Quota is charged even during a burst; vruntime is not.
	previous := make([]*types.Task, s.cpuCount)
	for cpu, current := range s.slots {
		previous[cpu] = current
		if current != nil && current.State == types.TaskStateRunning {
			if !current.InBurst {
				delta := types.VruntimeDelta(float64(s.quantum), s.effectiveWeight(current))
				current.Vruntime += delta
			}
			if cg := s.cgroups[current.CgroupID]; cg != nil {
				cg.AccountRuntime(quantumUs)
			}
			if current.InBurst && current.BurstRemaining > 0 {
				current.BurstRemaining--
				if current.BurstRemaining == 0 {
					current.InBurst = false
				}
			}
			current.State = types.TaskStateRunnable
		}
		s.slots[cpu] = nil
	}

	s.rebuildQueue()

	// Runtime already promised to quota-bearing cgroups on earlier CPUs
	// this tick, keyed by cgroup id. Keeps multi-CPU admission atomic.
	planned := make(map[string]float64)

	schedule := make([]string, s.cpuCount)
	for cpu := 0; cpu < s.cpuCount; cpu++ {
		best := s.pickTaskForCPU(cpu, planned, quantumUs)
		if best == nil {
			schedule[cpu] = types.IdleSlot
			continue
		}

		if prev := previous[cpu]; prev != nil && prev != best {
			s.preemptions++
		}
		if best.CurrentCPU != types.NoCPU && best.CurrentCPU != cpu {
			s.migrations++
		}

		best.CurrentCPU = cpu
		best.State = types.TaskStateRunning
		s.slots[cpu] = best
		schedule[cpu] = best.ID
	}

	// Runnable tasks passed over this tick hold no CPU.
	for _, t := range s.tasks {
		if t.State == types.TaskStateRunnable {
			t.CurrentCPU = types.NoCPU
		}
	}

	return &types.Decision{
		VTime:    vtime,
		Schedule: schedule,
		Meta: &types.Meta{
			Preemptions:   s.preemptions,
			Migrations:    s.migrations,
			RunnableTasks: s.taskIDsByState(types.TaskStateRunnable, types.TaskStateRunning),
			BlockedTasks:  s.taskIDsByState(types.TaskStateBlocked),
		},
	}
}

// refreshPeriods resets every cgroup whose accounting window has elapsed.
// A vtime behind the period start means the producer's clock jumped
// backward; resetting is the safe fallback.
func (s *Scheduler) refreshPeriods(vtime int) {
	tickUs := int64(s.quantum) * 1000
	for _, cg := range s.cgroups {
		if cg.CPUPeriodUs <= 0 {
			continue
		}
		if vtime < cg.PeriodStart {
			cg.ResetPeriod(vtime)
			continue
		}
		elapsedUs := int64(vtime-cg.PeriodStart) * tickUs
		if elapsedUs >= int64(cg.CPUPeriodUs) {
			cg.ResetPeriod(vtime)
		}
	}
}

// pickTaskForCPU extracts minimum-vruntime candidates until one passes the
// affinity, cgroup-mask, and quota filters. Rejected candidates are set
// aside and reinserted before returning, so their ordering is preserved.
func (s *Scheduler) pickTaskForCPU(cpu int, planned map[string]float64, quantumUs float64) *types.Task {
	var deferred []*types.Task
	var selected *types.Task

	for !s.queue.Empty() {
		candidate := s.queue.ExtractMin()

		if !candidate.CanRunOn(cpu) {
			deferred = append(deferred, candidate)
			continue
		}

		if cg := s.cgroups[candidate.CgroupID]; cg != nil {
			if !cg.AllowsCPU(cpu) {
				deferred = append(deferred, candidate)
				continue
			}
			if !cg.HasQuota() {
				deferred = append(deferred, candidate)
				continue
			}
			if cg.CPUQuotaUs >= 0 {
				projected := cg.QuotaUsed + planned[cg.ID] + quantumUs
				if projected > float64(cg.CPUQuotaUs) {
					deferred = append(deferred, candidate)
					continue
				}
			}
		}

		selected = candidate
		break
	}

	for _, t := range deferred {
		s.queue.Insert(t)
	}

	if selected != nil {
		if cg := s.cgroups[selected.CgroupID]; cg != nil && cg.CPUQuotaUs >= 0 {
			planned[cg.ID] += quantumUs
		}
	}
	return selected
}
