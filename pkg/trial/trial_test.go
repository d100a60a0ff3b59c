package trial

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	nerrors "github.com/matzehuels/necklace/pkg/errors"
	"github.com/matzehuels/necklace/pkg/groups"
	"github.com/matzehuels/necklace/pkg/observability"
	"github.com/matzehuels/necklace/pkg/sequence"
)

const studySpec = "A1,A2,A3,A4 B1,B2,B3 C1 D1,D2,D3,D4 E1 F1"

func mustParse(t testing.TB, spec string) *groups.GroupSet {
	t.Helper()
	gs, err := groups.Parse(spec)
	require.NoError(t, err)
	return gs
}

func TestOptionsDefaults(t *testing.T) {
	var o Options
	require.NoError(t, o.ValidateAndSetDefaults())

	assert.Equal(t, DefaultTrials, o.Trials)
	assert.Equal(t, DefaultSeed, o.Seed)
	assert.Equal(t, DefaultTopN, o.TopN)
	assert.Positive(t, o.Workers)

	// Idempotent
	o.Trials = 7
	require.NoError(t, o.ValidateAndSetDefaults())
	assert.Equal(t, 7, o.Trials)
}

func TestOptionsValidation(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"negative trials", Options{Trials: -1}},
		{"negative workers", Options{Workers: -2}},
		{"too many trials", Options{Trials: MaxTrials + 1}},
		{"anchor with space", Options{Anchor: "C 1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			require.Error(t, err)
			assert.True(t, nerrors.Is(err, nerrors.ErrCodeInvalidInput))
		})
	}
}

func TestOptionsWorkersCapped(t *testing.T) {
	o := Options{Trials: 3, Workers: 16}
	require.NoError(t, o.ValidateAndSetDefaults())
	assert.Equal(t, 3, o.Workers)
}

func TestOptionsShare(t *testing.T) {
	o := Options{Trials: 10, Workers: 3}
	require.NoError(t, o.ValidateAndSetDefaults())

	total := 0
	for w := range o.Workers {
		total += o.share(w)
	}
	assert.Equal(t, 10, total)
	assert.Equal(t, 4, o.share(0))
	assert.Equal(t, 3, o.share(2))
}

func TestEvaluate(t *testing.T) {
	gs := mustParse(t, "A1,A2 B1 C1")
	items := map[string]groups.Item{}
	for _, it := range gs.Items() {
		items[it.Label] = it
	}
	seq := sequence.Sequence{items["A1"], items["B1"], items["A2"], items["C1"]}

	o, err := Evaluate(seq, "")
	require.NoError(t, err)
	assert.True(t, o.Valid)
	assert.True(t, o.Cycle)
	assert.Equal(t, "A", o.StartGroup)
	assert.Equal(t, "A1B1A2C1", o.Key)

	o, err = Evaluate(seq, "C1")
	require.NoError(t, err)
	assert.Equal(t, "C1A1B1A2", o.Key)
	assert.Equal(t, "A", o.StartGroup, "start group is taken before rotation")

	_, err = Evaluate(seq, "Z9")
	assert.True(t, nerrors.Is(err, nerrors.ErrCodePrecondition))
}

func TestTallyRecordAndMerge(t *testing.T) {
	a := NewTally(1)
	a.Record(Outcome{Valid: true, Cycle: true, StartGroup: "A", Key: "x"})
	a.Record(Outcome{Valid: true, Cycle: false, StartGroup: "B", Key: "y"})

	b := NewTally(1)
	b.Record(Outcome{Valid: false, Cycle: true, StartGroup: "A", Key: "x"})
	b.Sequences = [][]string{{"A1"}}

	a.Merge(b)
	assert.Equal(t, 3, a.Trials)
	assert.Equal(t, 2, a.Valid)
	assert.Equal(t, 1, a.Invalid)
	assert.Equal(t, 2, a.Cycles)
	assert.Equal(t, 1, a.NonCycles)
	assert.Equal(t, map[string]int{"A": 2, "B": 1}, a.Starts)
	assert.Equal(t, map[string]int{"x": 2}, a.Circuits, "non-cycles are not counted as rings")
	assert.Len(t, a.Sequences, 1)
}

func TestTopCircuits(t *testing.T) {
	r := &Report{Circuits: map[string]int{"b": 3, "a": 3, "c": 5, "d": 1}}

	top := r.TopCircuits(3)
	assert.Equal(t, []Frequency{{"c", 5}, {"a", 3}, {"b", 3}}, top)
	assert.Len(t, r.TopCircuits(0), 4)
}

func TestStartShare(t *testing.T) {
	r := &Report{Trials: 4, StartGroups: map[string]int{"A": 3, "B": 1}}
	assert.InDelta(t, 0.75, r.StartShare("A"), 1e-12)
	assert.Zero(t, r.StartShare("Z"))
	assert.Zero(t, (&Report{}).StartShare("A"))
}

func TestRunInfeasible(t *testing.T) {
	_, err := Run(context.Background(), mustParse(t, "A1,A2,A3 B1"), Options{Trials: 10})
	require.Error(t, err)
	assert.Equal(t, nerrors.ErrCodeInfeasible, nerrors.GetCode(err))
}

func TestRunUnknownAnchor(t *testing.T) {
	_, err := Run(context.Background(), mustParse(t, studySpec), Options{Trials: 10, Anchor: "Z1"})
	require.Error(t, err)
	assert.Equal(t, nerrors.ErrCodeInvalidInput, nerrors.GetCode(err))
}

func TestRunStudySet(t *testing.T) {
	trials := 100000
	if testing.Short() {
		trials = 20000
	}
	gs := mustParse(t, studySpec)
	r, err := Run(context.Background(), gs, Options{Trials: trials, Workers: 4, Seed: 7, Anchor: "C1"})
	require.NoError(t, err)

	assert.Equal(t, trials, r.Trials)
	assert.Equal(t, trials, r.Valid)
	assert.Zero(t, r.Invalid)
	assert.Equal(t, r.Trials, r.Cycles+r.NonCycles)
	assert.NotEmpty(t, r.RunID)
	assert.Equal(t, gs.Fingerprint(), r.Fingerprint)
	assert.LessOrEqual(t, len(r.Top), DefaultTopN)

	sum := 0
	for _, c := range r.Circuits {
		sum += c
	}
	assert.Equal(t, r.Cycles, sum)
	for key := range r.Circuits {
		assert.Equal(t, "C1", key[:2], "rings are keyed from the anchor")
	}

	assert.Greater(t, r.StartShare("B"), r.StartShare("A"))
	for g, p := range r.ExpectedStarts {
		assert.InDelta(t, p, r.StartShare(g), 0.02, g)
	}
}

func TestRunDeterministic(t *testing.T) {
	gs := mustParse(t, studySpec)
	opts := Options{Trials: 2000, Workers: 3, Seed: 99}

	a, err := Run(context.Background(), gs, opts)
	require.NoError(t, err)
	b, err := Run(context.Background(), gs, opts)
	require.NoError(t, err)

	assert.Equal(t, a.Circuits, b.Circuits)
	assert.Equal(t, a.StartGroups, b.StartGroups)
	assert.NotEqual(t, a.RunID, b.RunID)
}

func TestRunKeepSequences(t *testing.T) {
	gs := mustParse(t, "A1,A2 B1,B2 C1")
	r, err := Run(context.Background(), gs, Options{Trials: 50, Workers: 2, KeepSequences: true})
	require.NoError(t, err)

	require.Len(t, r.Sequences, 50)
	for _, s := range r.Sequences {
		assert.Len(t, s, gs.Total())
	}
}

func TestRunProgress(t *testing.T) {
	var mu sync.Mutex
	last := 0
	opts := Options{Trials: 1000, Workers: 3, OnProgress: func(done, total int) {
		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, 1000, total)
		last = max(last, done)
	}}

	_, err := Run(context.Background(), mustParse(t, studySpec), opts)
	require.NoError(t, err)
	assert.Equal(t, 1000, last)
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, mustParse(t, studySpec), Options{Trials: 1000, Workers: 2})
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRunHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetTrialHooks(hooks)
	defer observability.Reset()

	_, err := Run(context.Background(), mustParse(t, "A1 B1"), Options{Trials: 5, Workers: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, hooks.started)
	assert.Equal(t, 1, hooks.completed)
	assert.Zero(t, hooks.violations)
}

type recordingHooks struct {
	observability.NoopTrialHooks
	started, completed, violations int
}

func (h *recordingHooks) OnRunStart(context.Context, string, int, int) { h.started++ }
func (h *recordingHooks) OnRunComplete(context.Context, string, int, time.Duration, error) {
	h.completed++
}
func (h *recordingHooks) OnViolation(context.Context, string, string) { h.violations++ }
