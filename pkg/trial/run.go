package trial

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/necklace/pkg/errors"
	"github.com/matzehuels/necklace/pkg/groups"
	"github.com/matzehuels/necklace/pkg/observability"
	"github.com/matzehuels/necklace/pkg/sequence"
)

// cancelCheckEvery is how many trials a worker builds between context checks.
const cancelCheckEvery = 256

// Run builds opts.Trials sequences from gs and aggregates their outcomes.
//
// An infeasible group set is reported as INFEASIBLE_INPUT before any sequence
// is built. The first worker error cancels the others and is returned.
func Run(ctx context.Context, gs *groups.GroupSet, opts Options) (*Report, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if err := groups.CheckFeasible(gs); err != nil {
		return nil, err
	}
	if err := opts.CheckAnchor(gs); err != nil {
		return nil, err
	}

	fingerprint := gs.Fingerprint()
	hooks := observability.Trials()
	hooks.OnRunStart(ctx, fingerprint, opts.Trials, opts.Workers)
	start := time.Now()

	keep := 0
	if opts.KeepSequences {
		keep = min(opts.Trials, MaxKeptSequences)
	}

	var done atomic.Int64
	report := func(n int) {
		total := done.Add(int64(n))
		if opts.OnProgress != nil {
			opts.OnProgress(int(total), opts.Trials)
		}
	}

	tallies := make([]*Tally, opts.Workers)
	g, gctx := errgroup.WithContext(ctx)
	for w := range opts.Workers {
		tallies[w] = NewTally(keep)
		g.Go(func() error {
			return work(gctx, gs, opts, w, tallies[w], fingerprint, report)
		})
	}
	err := g.Wait()
	hooks.OnRunComplete(ctx, fingerprint, opts.Trials, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	total := NewTally(keep)
	for _, t := range tallies {
		total.Merge(t)
	}

	r := &Report{
		RunID:          uuid.NewString(),
		Fingerprint:    fingerprint,
		Groups:         gs.String(),
		Options:        opts,
		Trials:         total.Trials,
		Valid:          total.Valid,
		Invalid:        total.Invalid,
		Cycles:         total.Cycles,
		NonCycles:      total.NonCycles,
		ForcedDraws:    total.Forced,
		StartGroups:    total.Starts,
		ExpectedStarts: sequence.StartOdds(gs),
		Circuits:       total.Circuits,
		Sequences:      total.Sequences,
		CreatedAt:      time.Now().UTC(),
		Duration:       time.Since(start),
	}
	r.Top = r.TopCircuits(opts.TopN)
	return r, nil
}

// work runs one worker's share of the trials into t.
func work(ctx context.Context, gs *groups.GroupSet, opts Options, w int, t *Tally, fingerprint string, progress func(int)) error {
	b, err := sequence.NewBuilder(gs, sequence.NewRand(sequence.DeriveSeed(opts.Seed, uint64(w))))
	if err != nil {
		return err
	}

	n := opts.share(w)
	for i := range n {
		if i%cancelCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
			if i > 0 {
				progress(cancelCheckEvery)
			}
		}

		seq, err := b.Next()
		if err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "worker %d, trial %d", w, i)
		}
		o, err := Evaluate(seq, opts.Anchor)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "worker %d, trial %d", w, i)
		}
		if !o.Valid {
			observability.Trials().OnViolation(ctx, fingerprint, seq.String())
		}
		t.Record(o)
		t.Forced += b.ForcedDraws()
		t.Keep(seq)
	}
	if n > 0 {
		// Trials since the last report inside the loop.
		progress(n - (n-1)/cancelCheckEvery*cancelCheckEvery)
	}
	return nil
}
