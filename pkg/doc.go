// Package pkg provides the core libraries of necklace, a generator of random
// orderings in which no two items of the same group sit side by side.
//
// # Overview
//
// The pkg directory is organized into three areas:
//
//  1. Domain logic: [groups], [sequence] and [trial]
//  2. Infrastructure: [cache], [store], [config], [observability] and [errors]
//  3. Input and output: [io] and [render/ring]
//
// # Architecture
//
// The typical data flow:
//
//	CLI labels / JSON / necklace.toml
//	         ↓
//	    [groups] package (validate, check feasibility)
//	         ↓
//	    [sequence] package (build, classify, canonicalize)
//	         ↓
//	    [trial] package (parallel trials, tallies, report)
//	         ↓
//	    terminal tables / JSON report / ring SVG
//
// # Quick Start
//
// Build one sequence and classify it:
//
//	gs, _ := groups.Parse("A1,A2,A3,A4 B1,B2,B3 C1 D1,D2,D3,D4 E1 F1")
//	seq, _ := sequence.Build(gs, sequence.NewRand(7))
//	fmt.Println(seq, sequence.IsValid(seq), sequence.IsCycle(seq))
//
// Run trials and list the most frequent rings:
//
//	report, _ := trial.Run(ctx, gs, trial.Options{Trials: 100000, Anchor: "C1"})
//	for _, f := range report.TopCircuits(5) {
//	    fmt.Println(f.Key, f.Count)
//	}
//
// # Main Packages
//
// [groups] - Items, groups and immutable group sets, the compact label syntax,
// and the feasibility test 2*max <= n.
//
// [sequence] - The randomized greedy builder with its size-bucketed index,
// the validity and cycle classifiers, rotation to an anchor, exact start odds
// and exact arrangement counts.
//
// [trial] - The Monte-Carlo harness: workers with derived seeds, mergeable
// tallies, reports, and a [trial.Runner] that adds caching and archiving.
//
// [cache] - File, Redis and null caches for reports and samples, with key
// derivation from group set fingerprints.
//
// [store] - MongoDB archive of finished reports.
//
// [observability] - Hooks for runs, cache and HTTP events, with a Prometheus
// implementation.
//
// [render/ring] - Graphviz drawings of a sequence closed into a ring.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...            # All tests
//	go test -short ./pkg/...     # Skip tests that dial external services
package pkg
