package trial

import (
	"github.com/matzehuels/necklace/pkg/sequence"
)

// Outcome is the classification of one built sequence.
type Outcome struct {
	Valid      bool   // no two neighbours share a group
	Cycle      bool   // head and tail belong to different groups
	StartGroup string // group of the first item
	Key        string // ring key; canonicalized when an anchor is set
}

// Evaluate classifies seq. With a non-empty anchor the key is taken from the
// rotation starting at the anchor; the anchor must occur exactly once.
func Evaluate(seq sequence.Sequence, anchor string) (Outcome, error) {
	out := Outcome{
		Valid: sequence.IsValid(seq),
		Cycle: sequence.IsCycle(seq),
	}
	if head, ok := seq.Head(); ok {
		out.StartGroup = head.Group
	}

	if anchor == "" {
		out.Key = seq.Key()
		return out, nil
	}
	canon, err := sequence.Canonicalize(seq, anchor)
	if err != nil {
		return Outcome{}, err
	}
	out.Key = canon.Key()
	return out, nil
}

// Tally accumulates outcomes. A Tally is owned by one goroutine; combine
// tallies from several workers with [Tally.Merge].
type Tally struct {
	Trials    int
	Valid     int
	Invalid   int
	Cycles    int
	NonCycles int
	Forced    int

	Starts   map[string]int
	Circuits map[string]int

	Sequences [][]string
	keep      int
}

// NewTally returns an empty tally that retains up to keep raw sequences.
func NewTally(keep int) *Tally {
	return &Tally{
		Starts:   make(map[string]int),
		Circuits: make(map[string]int),
		keep:     keep,
	}
}

// Record adds one outcome. Only cycles enter the ring frequency table.
func (t *Tally) Record(o Outcome) {
	t.Trials++
	if o.Valid {
		t.Valid++
	} else {
		t.Invalid++
	}
	if o.Cycle {
		t.Cycles++
		t.Circuits[o.Key]++
	} else {
		t.NonCycles++
	}
	if o.StartGroup != "" {
		t.Starts[o.StartGroup]++
	}
}

// Keep retains the labels of seq while the tally has room for them.
func (t *Tally) Keep(seq sequence.Sequence) {
	if len(t.Sequences) < t.keep {
		t.Sequences = append(t.Sequences, seq.Labels())
	}
}

// Merge adds every count of other into t.
func (t *Tally) Merge(other *Tally) {
	t.Trials += other.Trials
	t.Valid += other.Valid
	t.Invalid += other.Invalid
	t.Cycles += other.Cycles
	t.NonCycles += other.NonCycles
	t.Forced += other.Forced
	for k, v := range other.Starts {
		t.Starts[k] += v
	}
	for k, v := range other.Circuits {
		t.Circuits[k] += v
	}
	for _, s := range other.Sequences {
		if len(t.Sequences) >= t.keep {
			break
		}
		t.Sequences = append(t.Sequences, s)
	}
}
