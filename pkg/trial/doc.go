// Package trial runs Monte-Carlo experiments over constrained sequences.
//
// A run builds many sequences from one [groups.GroupSet], classifies each of
// them and aggregates the outcomes into a [Report]: how many were valid, how
// many close into a legal ring, which group opened them, and how often each
// distinct ring appeared.
//
// # Parallelism
//
// [Run] splits the trials across workers. Every worker owns a
// [sequence.Builder], a random stream derived from the run seed and a private
// [Tally]; the tallies are merged once all workers finish. Results therefore
// depend on the seed and on the worker count, and both are part of a report's
// cache key.
//
// # Caching
//
// [Runner] wraps Run with a [cache.Cache], an optional [Archive] and a logger,
// so the CLI and the HTTP API share one code path:
//
//	runner := trial.NewRunner(c, nil, nil, logger)
//	report, hit, err := runner.Execute(ctx, gs, trial.Options{Trials: 50000, Anchor: "C1"})
package trial
