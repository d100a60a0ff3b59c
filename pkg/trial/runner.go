package trial

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/necklace/pkg/cache"
	"github.com/matzehuels/necklace/pkg/groups"
	"github.com/matzehuels/necklace/pkg/observability"
	"github.com/matzehuels/necklace/pkg/sequence"
)

// Archive persists finished reports, e.g. for later comparison of runs.
type Archive interface {
	Save(ctx context.Context, r *Report) error
}

// Runner encapsulates trial execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for its collaborators - it doesn't keep
// reports. Multiple goroutines can safely use the same Runner with different
// options.
type Runner struct {
	Cache   cache.Cache
	Keyer   cache.Keyer
	Archive Archive // optional
	Logger  *log.Logger

	// ReportTTL is how long reports stay cached; zero means cache.TTLReport.
	ReportTTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
// A nil archive disables archiving.
func NewRunner(c cache.Cache, keyer cache.Keyer, archive Archive, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:   c,
		Keyer:   keyer,
		Archive: archive,
		Logger:  logger,
	}
}

// Execute runs the trials with caching. The boolean reports a cache hit.
// Freshly computed reports are archived when an archive is configured;
// archive failures are logged and do not fail the run.
func (r *Runner) Execute(ctx context.Context, gs *groups.GroupSet, opts Options) (*Report, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, fmt.Errorf("invalid options: %w", err)
	}
	if err := groups.CheckFeasible(gs); err != nil {
		return nil, false, err
	}

	key := r.Keyer.ReportKey(gs.Fingerprint(), opts.KeyOpts())
	hooks := observability.Cache()

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if cached, err := UnmarshalReport(data); err == nil {
				hooks.OnCacheHit(ctx, "report")
				r.Logger.Debug("report cache hit", "run_id", cached.RunID)
				return cached, true, nil
			}
			// If deserialization fails, fall through to recompute
		} else if err != nil {
			r.Logger.Warn("cache read failed", "error", err)
		}
		hooks.OnCacheMiss(ctx, "report")
	}

	r.Logger.Info("running trials",
		"groups", gs.Len(),
		"items", gs.Total(),
		"trials", opts.Trials,
		"workers", opts.Workers,
		"seed", opts.Seed)

	report, err := Run(ctx, gs, opts)
	if err != nil {
		return nil, false, err
	}

	r.Logger.Info("trials complete",
		"valid", report.Valid,
		"cycles", report.Cycles,
		"distinct", report.Distinct(),
		"duration", report.Duration)

	if data, err := MarshalReport(report); err == nil {
		ttl := r.ReportTTL
		if ttl <= 0 {
			ttl = cache.TTLReport
		}
		if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
			r.Logger.Warn("cache write failed", "error", err)
		} else {
			hooks.OnCacheSet(ctx, "report", len(data))
		}
	}

	if r.Archive != nil {
		if err := r.Archive.Save(ctx, report); err != nil {
			r.Logger.Warn("archive failed", "run_id", report.RunID, "error", err)
		}
	}

	return report, false, nil
}

// SampleOptions configures a single sampled sequence.
type SampleOptions struct {
	Seed   uint64 `json:"seed"`
	Anchor string `json:"anchor,omitempty"`
}

// Sample is one built sequence with its classification.
type Sample struct {
	Labels []string `json:"sequence"`
	Groups []string `json:"groups"`
	Valid  bool     `json:"valid"`
	Cycle  bool     `json:"cycle"`
	Key    string   `json:"key"`
	Seed   uint64   `json:"seed"`
}

// NewSample classifies seq. With an anchor, Labels and Groups are the
// canonical rotation.
func NewSample(seq sequence.Sequence, anchor string, seed uint64) (*Sample, error) {
	o, err := Evaluate(seq, anchor)
	if err != nil {
		return nil, err
	}
	if anchor != "" {
		if seq, err = sequence.Canonicalize(seq, anchor); err != nil {
			return nil, err
		}
	}
	return &Sample{
		Labels: seq.Labels(),
		Groups: seq.Groups(),
		Valid:  o.Valid,
		Cycle:  o.Cycle,
		Key:    o.Key,
		Seed:   seed,
	}, nil
}

// Sample builds one sequence with caching. The boolean reports a cache hit.
func (r *Runner) Sample(ctx context.Context, gs *groups.GroupSet, opts SampleOptions) (*Sample, bool, error) {
	if opts.Seed == 0 {
		opts.Seed = DefaultSeed
	}
	o := Options{Anchor: opts.Anchor}
	if err := o.CheckAnchor(gs); err != nil {
		return nil, false, err
	}
	if err := groups.CheckFeasible(gs); err != nil {
		return nil, false, err
	}

	key := r.Keyer.SampleKey(gs.Fingerprint(), cache.SampleKeyOpts{Seed: opts.Seed, Anchor: opts.Anchor})
	if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
		var s Sample
		if err := json.Unmarshal(data, &s); err == nil {
			observability.Cache().OnCacheHit(ctx, "sample")
			return &s, true, nil
		}
	}
	observability.Cache().OnCacheMiss(ctx, "sample")

	seq, err := sequence.Build(gs, sequence.NewRand(opts.Seed))
	if err != nil {
		return nil, false, err
	}
	s, err := NewSample(seq, opts.Anchor, opts.Seed)
	if err != nil {
		return nil, false, err
	}

	if data, err := json.Marshal(s); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.TTLSample); err == nil {
			observability.Cache().OnCacheSet(ctx, "sample", len(data))
		}
	}
	return s, false, nil
}
