package types

import "encoding/json"

// Action identifies the kind of a scheduler event
type Action string

const (
	ActionTaskCreate      Action = "TASK_CREATE"
	ActionTaskExit        Action = "TASK_EXIT"
	ActionTaskBlock       Action = "TASK_BLOCK"
	ActionTaskUnblock     Action = "TASK_UNBLOCK"
	ActionTaskYield       Action = "TASK_YIELD"
	ActionTaskSetNice     Action = "TASK_SETNICE"
	ActionTaskSetAffinity Action = "TASK_SET_AFFINITY"
	ActionCgroupCreate    Action = "CGROUP_CREATE"
	ActionCgroupModify    Action = "CGROUP_MODIFY"
	ActionCgroupDelete    Action = "CGROUP_DELETE"
	ActionTaskMoveCgroup  Action = "TASK_MOVE_CGROUP"
	ActionCPUBurst        Action = "CPU_BURST"
)

// Known reports whether the action tag is one the dispatcher understands.
func (a Action) Known() bool {
	switch a {
	case ActionTaskCreate, ActionTaskExit, ActionTaskBlock, ActionTaskUnblock,
		ActionTaskYield, ActionTaskSetNice, ActionTaskSetAffinity,
		ActionCgroupCreate, ActionCgroupModify, ActionCgroupDelete,
		ActionTaskMoveCgroup, ActionCPUBurst:
		return true
	}
	return false
}

// Quota is a tri-state quota field: absent, explicit null (unlimited), or a
// microsecond value. JSON null decodes to UnlimitedQuota with Set true;
// an omitted field leaves Set false.
type Quota struct {
	Set bool
	Us  int
}

// UnmarshalJSON implements json.Unmarshaler.
func (q *Quota) UnmarshalJSON(data []byte) error {
	q.Set = true
	if string(data) == "null" {
		q.Us = UnlimitedQuota
		return nil
	}
	return json.Unmarshal(data, &q.Us)
}

// Event is one decoded scheduler event. Optional fields are pointers so the
// dispatcher can distinguish absent from zero.
type Event struct {
	Action      Action `json:"action"`
	TaskID      string `json:"taskId,omitempty"`
	CgroupID    string `json:"cgroupId,omitempty"`
	NewCgroupID string `json:"newCgroupId,omitempty"`

	Nice    *int `json:"nice,omitempty"`
	NewNice *int `json:"newNice,omitempty"` // alias accepted for TASK_SETNICE

	CPUMask *[]int `json:"cpuMask,omitempty"`

	CPUShares   *int  `json:"cpuShares,omitempty"`
	CPUQuotaUs  Quota `json:"cpuQuotaUs"`
	CPUPeriodUs *int  `json:"cpuPeriodUs,omitempty"`

	Duration int `json:"duration,omitempty"` // CPU_BURST ticks
}

// NiceValue resolves the nice/newNice alias, preferring newNice.
func (e *Event) NiceValue() (int, bool) {
	if e.NewNice != nil {
		return *e.NewNice, true
	}
	if e.Nice != nil {
		return *e.Nice, true
	}
	return 0, false
}

// Batch is one tick's worth of events tagged with a virtual time.
type Batch struct {
	VTime  int     `json:"vtime"`
	Events []Event `json:"events"`
}
