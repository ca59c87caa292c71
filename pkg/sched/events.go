package sched

import (
	"errors"
	"fmt"

	"github.com/fairtick/fairtick/pkg/types"
)

// Event-level failures. They are logged by the caller and never abort the
// batch or the tick.
var (
	ErrUnknownAction  = errors.New("unknown action")
	ErrMissingField   = errors.New("missing required field")
	ErrTaskNotFound   = errors.New("task not found")
	ErrTaskExists     = errors.New("task already exists")
	ErrCgroupNotFound = errors.New("cgroup not found")
	ErrCgroupExists   = errors.New("cgroup already exists")
)

// Apply mutates scheduler state according to one event. Failures are
// returned to the caller; the scheduler is left unchanged by a failed event.
func (s *Scheduler) Apply(ev *types.Event) error {
	switch ev.Action {
	case types.ActionTaskCreate:
		return s.applyTaskCreate(ev)
	case types.ActionTaskExit:
		return s.applyTaskExit(ev)
	case types.ActionTaskBlock:
		return s.applyTaskBlock(ev)
	case types.ActionTaskUnblock:
		return s.applyTaskUnblock(ev)
	case types.ActionTaskYield:
		return s.applyTaskYield(ev)
	case types.ActionTaskSetNice:
		return s.applyTaskSetNice(ev)
	case types.ActionTaskSetAffinity:
		return s.applyTaskSetAffinity(ev)
	case types.ActionCgroupCreate:
		return s.applyCgroupCreate(ev)
	case types.ActionCgroupModify:
		return s.applyCgroupModify(ev)
	case types.ActionCgroupDelete:
		return s.applyCgroupDelete(ev)
	case types.ActionTaskMoveCgroup:
		return s.applyTaskMoveCgroup(ev)
	case types.ActionCPUBurst:
		return s.applyCPUBurst(ev)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, ev.Action)
	}
}

func (s *Scheduler) requireTask(ev *types.Event) (*types.Task, error) {
	if ev.TaskID == "" {
		return nil, fmt.Errorf("%w: taskId", ErrMissingField)
	}
	t := s.tasks[ev.TaskID]
	if t == nil {
		return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, ev.TaskID)
	}
	return t, nil
}

func (s *Scheduler) applyTaskCreate(ev *types.Event) error {
	if ev.TaskID == "" {
		return fmt.Errorf("%w: taskId", ErrMissingField)
	}
	if _, ok := s.tasks[ev.TaskID]; ok {
		return fmt.Errorf("%w: %s", ErrTaskExists, ev.TaskID)
	}

	// New tasks start at the maximum vruntime over live tasks so they
	// cannot starve incumbents.
	maxVr := s.maxVruntime()

	nice := 0
	if v, ok := ev.NiceValue(); ok {
		nice = v
	}
	t := types.NewTask(ev.TaskID, nice, ev.CgroupID)
	t.Vruntime = maxVr
	if ev.CPUMask != nil {
		t.SetAffinity(*ev.CPUMask)
	}

	s.tasks[t.ID] = t
	s.queue.Insert(t)
	return nil
}

func (s *Scheduler) applyTaskExit(ev *types.Event) error {
	t, err := s.requireTask(ev)
	if err != nil {
		return err
	}
	s.queue.Remove(t)
	s.clearSlot(t)
	t.State = types.TaskStateExited
	delete(s.tasks, t.ID)
	return nil
}

func (s *Scheduler) applyTaskBlock(ev *types.Event) error {
	t, err := s.requireTask(ev)
	if err != nil {
		return err
	}
	t.State = types.TaskStateBlocked
	s.queue.Remove(t)
	s.clearSlot(t)
	t.CurrentCPU = types.NoCPU
	return nil
}

func (s *Scheduler) applyTaskUnblock(ev *types.Event) error {
	t, err := s.requireTask(ev)
	if err != nil {
		return err
	}
	if t.State != types.TaskStateBlocked {
		return nil
	}
	// Latency bonus: lift the waker to just below the current minimum so it
	// is favored without erasing accumulated runtime. The minimum is taken
	// before the waker turns runnable, so it does not count itself.
	if min := s.minVruntime(); t.Vruntime < min-unblockBonus {
		t.Vruntime = min - unblockBonus
	}
	t.State = types.TaskStateRunnable
	s.queue.Insert(t)
	return nil
}

// unblockBonus is the vruntime headroom granted on unblock. The magnitude is
// arbitrary; correctness only requires that the bonus cannot accumulate.
const unblockBonus = 1.0

func (s *Scheduler) applyTaskYield(ev *types.Event) error {
	t, err := s.requireTask(ev)
	if err != nil {
		return err
	}
	t.Vruntime = s.maxVruntime()
	if s.queue.Contains(t) {
		s.queue.Update(t)
	}
	return nil
}

func (s *Scheduler) applyTaskSetNice(ev *types.Event) error {
	nice, ok := ev.NiceValue()
	if !ok {
		return fmt.Errorf("%w: nice", ErrMissingField)
	}
	t, err := s.requireTask(ev)
	if err != nil {
		return err
	}
	t.SetNice(nice)
	return nil
}

func (s *Scheduler) applyTaskSetAffinity(ev *types.Event) error {
	if ev.CPUMask == nil {
		return fmt.Errorf("%w: cpuMask", ErrMissingField)
	}
	t, err := s.requireTask(ev)
	if err != nil {
		return err
	}
	t.SetAffinity(*ev.CPUMask)
	return nil
}

func (s *Scheduler) applyCgroupCreate(ev *types.Event) error {
	if ev.CgroupID == "" {
		return fmt.Errorf("%w: cgroupId", ErrMissingField)
	}
	if _, ok := s.cgroups[ev.CgroupID]; ok {
		return fmt.Errorf("%w: %s", ErrCgroupExists, ev.CgroupID)
	}

	shares := types.DefaultCPUShares
	if ev.CPUShares != nil {
		shares = *ev.CPUShares
	}
	quota := types.UnlimitedQuota
	if ev.CPUQuotaUs.Set {
		quota = ev.CPUQuotaUs.Us
	}
	period := types.DefaultCPUPeriodUs
	if ev.CPUPeriodUs != nil {
		period = *ev.CPUPeriodUs
	}
	var mask []int
	if ev.CPUMask != nil {
		mask = *ev.CPUMask
	}

	cg := types.NewCgroup(ev.CgroupID, shares, quota, period, mask)
	cg.PeriodStart = s.vtime
	s.cgroups[cg.ID] = cg
	return nil
}

func (s *Scheduler) applyCgroupModify(ev *types.Event) error {
	if ev.CgroupID == "" {
		return fmt.Errorf("%w: cgroupId", ErrMissingField)
	}
	cg := s.cgroups[ev.CgroupID]
	if cg == nil {
		return fmt.Errorf("%w: %s", ErrCgroupNotFound, ev.CgroupID)
	}

	if ev.CPUShares != nil && *ev.CPUShares > 0 {
		cg.CPUShares = *ev.CPUShares
	}
	if ev.CPUQuotaUs.Set {
		cg.CPUQuotaUs = ev.CPUQuotaUs.Us
	}
	if ev.CPUMask != nil && len(*ev.CPUMask) > 0 {
		cg.CPUMask = append([]int(nil), (*ev.CPUMask)...)
	}
	if ev.CPUPeriodUs != nil && *ev.CPUPeriodUs > 0 {
		cg.CPUPeriodUs = *ev.CPUPeriodUs
		// A new window length invalidates the old accounting window.
		cg.ResetPeriod(s.vtime)
	}
	return nil
}

func (s *Scheduler) applyCgroupDelete(ev *types.Event) error {
	if ev.CgroupID == "" {
		return fmt.Errorf("%w: cgroupId", ErrMissingField)
	}
	if _, ok := s.cgroups[ev.CgroupID]; !ok {
		return fmt.Errorf("%w: %s", ErrCgroupNotFound, ev.CgroupID)
	}
	for _, t := range s.tasks {
		if t.CgroupID == ev.CgroupID {
			t.CgroupID = types.DefaultCgroupID
		}
	}
	delete(s.cgroups, ev.CgroupID)
	return nil
}

func (s *Scheduler) applyTaskMoveCgroup(ev *types.Event) error {
	if ev.NewCgroupID == "" {
		return fmt.Errorf("%w: newCgroupId", ErrMissingField)
	}
	t, err := s.requireTask(ev)
	if err != nil {
		return err
	}
	t.CgroupID = ev.NewCgroupID
	return nil
}

func (s *Scheduler) applyCPUBurst(ev *types.Event) error {
	if ev.Duration <= 0 {
		return fmt.Errorf("%w: duration", ErrMissingField)
	}
	t, err := s.requireTask(ev)
	if err != nil {
		return err
	}
	t.InBurst = true
	t.BurstRemaining = ev.Duration
	return nil
}
