// Package sequence builds and classifies random orderings of grouped items in
// which no two neighbours belong to the same group.
//
// # Overview
//
// The package contains the four algorithmic pieces of a trial:
//
//   - [Builder] and [Build]: randomized greedy construction over a size-keyed
//     bucket index, with a forced draw from the largest group whenever it
//     holds at least half of the remaining items
//   - [IsValid]: no two consecutive items share a group
//   - [IsCycle]: first and last items belong to different groups
//   - [Canonicalize]: rotation to a fixed anchor item for deduplication
//
// # Usage
//
//	gs, _ := groups.Parse("A1,A2,A3,A4 B1,B2,B3 C1")
//	if !groups.Feasible(gs) {
//	    return
//	}
//	b, err := sequence.NewBuilder(gs, sequence.NewRand(seed))
//	if err != nil {
//	    return err
//	}
//	seq, err := b.Next()
//	if err != nil {
//	    return err
//	}
//	if sequence.IsCycle(seq) {
//	    canon, _ := sequence.Canonicalize(seq, "C1")
//	    counts[canon.Key()]++
//	}
//
// # Sampling
//
// The builder does not sample uniformly over valid arrangements. It picks a
// group size uniformly among the sizes present, then a group of that size,
// then an item of that group. Items of many small groups are therefore drawn
// earlier than items of one large group of equal aggregate size. This bias is
// the object of study and is kept as is.
//
// On feasible input the forced draw keeps every filed group within one item of
// half the remaining count and the held-out group within half, so the builder
// never dead-ends and every sequence it returns is valid.
//
// # Determinism and concurrency
//
// Given the same group set and seed ([NewRand]) a builder yields the same
// sequences. A Builder is not safe for concurrent use; run one per goroutine
// with seeds from [DeriveSeed].
package sequence
