package trial

import (
	"cmp"
	"encoding/json"
	"slices"
	"time"
)

// Frequency is one entry of the ring frequency table.
type Frequency struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// Report aggregates the outcomes of a run.
type Report struct {
	RunID       string  `json:"run_id"`
	Fingerprint string  `json:"fingerprint"`
	Groups      string  `json:"groups"`
	Options     Options `json:"options"`

	Trials    int `json:"trials"`
	Valid     int `json:"valid"`
	Invalid   int `json:"invalid"`
	Cycles    int `json:"cycles"`
	NonCycles int `json:"non_cycles"`

	// ForcedDraws counts steps, over all trials, where the largest group
	// had to be drawn to keep the rest of the sequence buildable.
	ForcedDraws int `json:"forced_draws"`

	StartGroups    map[string]int     `json:"start_groups"`
	ExpectedStarts map[string]float64 `json:"expected_starts,omitempty"`
	Circuits       map[string]int     `json:"circuits"`
	Top            []Frequency        `json:"top"`
	Sequences      [][]string         `json:"sequences,omitempty"`

	CreatedAt time.Time     `json:"created_at"`
	Duration  time.Duration `json:"duration_ns"`
}

// TopCircuits returns the n most frequent rings, by count descending and key
// ascending among equal counts. n <= 0 returns every ring.
func (r *Report) TopCircuits(n int) []Frequency {
	out := make([]Frequency, 0, len(r.Circuits))
	for k, v := range r.Circuits {
		out = append(out, Frequency{Key: k, Count: v})
	}
	slices.SortFunc(out, func(a, b Frequency) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Key, b.Key)
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// StartShare returns the fraction of trials that opened with group.
func (r *Report) StartShare(group string) float64 {
	if r.Trials == 0 {
		return 0
	}
	return float64(r.StartGroups[group]) / float64(r.Trials)
}

// CycleRate returns the fraction of trials whose ends belong to different groups.
func (r *Report) CycleRate() float64 {
	if r.Trials == 0 {
		return 0
	}
	return float64(r.Cycles) / float64(r.Trials)
}

// Distinct returns the number of different rings observed.
func (r *Report) Distinct() int { return len(r.Circuits) }

// MarshalReport serializes a report to JSON.
func MarshalReport(r *Report) ([]byte, error) {
	return json.Marshal(r)
}

// UnmarshalReport deserializes a report from JSON.
func UnmarshalReport(data []byte) (*Report, error) {
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return &r, nil
}
