package trial

import (
	"runtime"

	"github.com/matzehuels/necklace/pkg/cache"
	"github.com/matzehuels/necklace/pkg/errors"
	"github.com/matzehuels/necklace/pkg/groups"
	"github.com/matzehuels/necklace/pkg/sequence"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultTrials is the number of sequences built per run.
	DefaultTrials = 100000

	// DefaultTopN is the number of most frequent rings kept in a report.
	DefaultTopN = 10

	// MaxTrials bounds a single run.
	MaxTrials = 50_000_000

	// MaxKeptSequences bounds how many raw sequences a report may carry.
	MaxKeptSequences = 10000
)

// DefaultSeed is the default random seed for reproducibility.
const DefaultSeed = sequence.DefaultSeed

// =============================================================================
// Options
// =============================================================================

// Options configures a trial run.
// This struct supports JSON serialization for API requests.
type Options struct {
	Trials  int    `json:"trials"`
	Workers int    `json:"workers"`
	Seed    uint64 `json:"seed"`

	// Anchor rotates every ring so it starts at this label before counting.
	// Empty counts sequences as built, so rotations of one ring count apart.
	Anchor string `json:"anchor,omitempty"`

	TopN int `json:"top"`

	// KeepSequences stores the label sequence of every trial, up to
	// MaxKeptSequences, in the report.
	KeepSequences bool `json:"keep_sequences,omitempty"`

	// Refresh bypasses cached reports. It is not part of the cache key.
	Refresh bool `json:"-"`

	// OnProgress, when set, receives the number of finished trials every few
	// hundred trials. It is called from worker goroutines and must be safe for
	// concurrent use.
	OnProgress func(done, total int) `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// ValidateAndSetDefaults checks the options and fills in defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Trials < 0 || o.Workers < 0 || o.TopN < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "trials, workers and top must not be negative")
	}
	if o.Trials > MaxTrials {
		return errors.New(errors.ErrCodeInvalidInput, "trials: %d exceeds the limit of %d", o.Trials, MaxTrials)
	}
	if o.Anchor != "" {
		if err := errors.ValidateLabel(o.Anchor); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "anchor")
		}
	}

	if o.Trials == 0 {
		o.Trials = DefaultTrials
	}
	if o.Workers == 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	if o.Workers > o.Trials {
		o.Workers = o.Trials
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.TopN == 0 {
		o.TopN = DefaultTopN
	}
	o.validated = true
	return nil
}

// CheckAnchor verifies that the anchor, when set, names an item of gs.
func (o *Options) CheckAnchor(gs *groups.GroupSet) error {
	if o.Anchor == "" {
		return nil
	}
	if _, ok := gs.Lookup(o.Anchor); !ok {
		return errors.New(errors.ErrCodeInvalidInput, "anchor %q is not an item of the group set", o.Anchor)
	}
	return nil
}

// KeyOpts returns cache key options for a report.
func (o *Options) KeyOpts() cache.ReportKeyOpts {
	return cache.ReportKeyOpts{
		Trials:  o.Trials,
		Workers: o.Workers,
		Seed:    o.Seed,
		Anchor:  o.Anchor,
		Top:     o.TopN,
		Keep:    o.KeepSequences,
	}
}

// share splits the trials as evenly as possible; the first Trials%Workers
// workers run one extra trial.
func (o *Options) share(worker int) int {
	n := o.Trials / o.Workers
	if worker < o.Trials%o.Workers {
		n++
	}
	return n
}
