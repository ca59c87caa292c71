package codec

import (
	"encoding/json"
	"fmt"

	"github.com/fairtick/fairtick/pkg/types"
)

// DecodeBatch parses one event batch. Unknown actions and missing event
// fields are preserved as-is; only malformed JSON and a negative vtime are
// errors.
func DecodeBatch(data []byte) (*types.Batch, error) {
	var batch types.Batch
	if err := json.Unmarshal(data, &batch); err != nil {
		return nil, fmt.Errorf("decode batch: %w", err)
	}
	if batch.VTime < 0 {
		return nil, fmt.Errorf("decode batch: negative vtime %d", batch.VTime)
	}
	return &batch, nil
}

// EncodeDecision serializes a decision record. Slots never encode as empty
// strings: a nil or short schedule is padded with idle markers so the array
// length always equals the CPU count the producer expects.
func EncodeDecision(d *types.Decision, cpuCount int) ([]byte, error) {
	out := types.Decision{
		VTime:    d.VTime,
		Schedule: make([]string, cpuCount),
		Meta:     d.Meta,
	}
	for i := 0; i < cpuCount; i++ {
		if i < len(d.Schedule) && d.Schedule[i] != "" {
			out.Schedule[i] = d.Schedule[i]
		} else {
			out.Schedule[i] = types.IdleSlot
		}
	}

	data, err := json.Marshal(&out)
	if err != nil {
		return nil, fmt.Errorf("encode decision: %w", err)
	}
	return data, nil
}
