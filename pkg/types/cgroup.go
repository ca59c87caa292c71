package types

// Cgroup represents a control group applying resource constraints to its
// member tasks. Membership is by Task.CgroupID; the cgroup itself does not
// track its members.
type Cgroup struct {
	ID          string
	CPUShares   int   // relative weight between cgroups, default 1024
	CPUQuotaUs  int   // bandwidth limit per period, UnlimitedQuota for none
	CPUPeriodUs int   // accounting window, default 100000
	CPUMask     []int // allowed CPU ids; empty means all

	QuotaUsed   float64 // microseconds consumed in the current period
	PeriodStart int     // vtime when the current period began
}

// NewCgroup creates a cgroup, substituting defaults for non-positive shares
// and period values.
func NewCgroup(id string, shares, quotaUs, periodUs int, mask []int) *Cgroup {
	if shares <= 0 {
		shares = DefaultCPUShares
	}
	if periodUs <= 0 {
		periodUs = DefaultCPUPeriodUs
	}
	cg := &Cgroup{
		ID:          id,
		CPUShares:   shares,
		CPUQuotaUs:  quotaUs,
		CPUPeriodUs: periodUs,
	}
	if len(mask) > 0 {
		cg.CPUMask = append([]int(nil), mask...)
	}
	return cg
}

// AllowsCPU reports whether the cgroup's mask permits the given CPU.
// An empty mask permits all CPUs.
func (c *Cgroup) AllowsCPU(cpu int) bool {
	if len(c.CPUMask) == 0 {
		return true
	}
	for _, id := range c.CPUMask {
		if id == cpu {
			return true
		}
	}
	return false
}

// HasQuota reports whether the cgroup may still run within the current
// period.
func (c *Cgroup) HasQuota() bool {
	if c.CPUQuotaUs < 0 {
		return true
	}
	return c.QuotaUsed < float64(c.CPUQuotaUs)
}

// AccountRuntime charges runtime (microseconds) against the current period.
// Unlimited cgroups keep no accounting.
func (c *Cgroup) AccountRuntime(us float64) {
	if c.CPUQuotaUs > 0 && us > 0 {
		c.QuotaUsed += us
	}
}

// ResetPeriod starts a fresh accounting period at the given vtime.
func (c *Cgroup) ResetPeriod(vtime int) {
	c.QuotaUsed = 0
	c.PeriodStart = vtime
}
