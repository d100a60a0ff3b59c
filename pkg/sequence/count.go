package sequence

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/matzehuels/necklace/pkg/errors"
	"github.com/matzehuels/necklace/pkg/groups"
)

// MaxCountStates bounds the memo entries [Count] may create.
const MaxCountStates = 1 << 20

// Counts holds exact arrangement counts for a group set.
type Counts struct {
	// Valid is the number of orderings of the labeled items with no two
	// same-group items adjacent.
	Valid *big.Int

	// Cycles is how many of those also have head and tail in different groups.
	Cycles *big.Int
}

// CycleShare returns Cycles/Valid, or 0 when no valid ordering exists.
func (c Counts) CycleShare() float64 {
	if c.Valid.Sign() == 0 {
		return 0
	}
	f, _ := new(big.Rat).SetFrac(c.Cycles, c.Valid).Float64()
	return f
}

// Count returns the exact number of valid orderings of gs and how many of them
// close into rings. The builder does not sample these uniformly, so the
// cycle share of a trial run and of Count generally differ.
//
// Group words (sequences of group names) are counted by memoized recursion
// over the remaining group sizes; each word stands for prod(size!) labeled
// orderings. Sets whose memo could exceed [MaxCountStates] entries are
// rejected with INVALID_INPUT before any counting starts.
func Count(gs *groups.GroupSet) (Counts, error) {
	if gs == nil {
		return Counts{}, errors.New(errors.ErrCodeInvalidInput, "group set is nil")
	}
	sizes := gs.Sizes()
	if countStates(sizes) > MaxCountStates {
		return Counts{}, errors.New(errors.ErrCodeInvalidInput,
			"group set is too large to count exactly (more than %d states)", MaxCountStates)
	}

	w := wordCounter{memo: make(map[string]*big.Int)}
	valid, cycles := new(big.Int), new(big.Int)
	for g := range sizes {
		sizes[g]--
		valid.Add(valid, w.words(sizes, g, -1))
		cycles.Add(cycles, w.words(sizes, g, g))
		sizes[g]++
	}

	labelings := big.NewInt(1)
	for _, s := range sizes {
		labelings.Mul(labelings, factorial(s))
	}
	return Counts{
		Valid:  valid.Mul(valid, labelings),
		Cycles: cycles.Mul(cycles, labelings),
	}, nil
}

// countStates returns an upper bound on the memo entries of a count over
// sizes: every remaining-size vector, times k possible last groups, times k+1
// first-group constraints (none or one of the k groups). It stops growing once
// the bound passes MaxCountStates.
func countStates(sizes []int) int {
	k := len(sizes)
	states := k * (k + 1)
	for _, s := range sizes {
		if states > MaxCountStates {
			break
		}
		states *= s + 1
	}
	return states
}

type wordCounter struct {
	memo map[string]*big.Int
}

// words counts completions of a group word whose last letter is last, using
// the remaining sizes. With first >= 0 the completed word must not end in
// first.
func (w *wordCounter) words(rest []int, last, first int) *big.Int {
	done := true
	for _, r := range rest {
		if r > 0 {
			done = false
			break
		}
	}
	if done {
		if first >= 0 && last == first {
			return new(big.Int)
		}
		return big.NewInt(1)
	}

	key := memoKey(rest, last, first)
	if n, ok := w.memo[key]; ok {
		return n
	}

	n := new(big.Int)
	for h, r := range rest {
		if h == last || r == 0 {
			continue
		}
		rest[h]--
		n.Add(n, w.words(rest, h, first))
		rest[h]++
	}
	w.memo[key] = n
	return n
}

func memoKey(rest []int, last, first int) string {
	var b strings.Builder
	for _, r := range rest {
		b.WriteString(strconv.Itoa(r))
		b.WriteByte(',')
	}
	b.WriteString(strconv.Itoa(last))
	b.WriteByte('/')
	b.WriteString(strconv.Itoa(first))
	return b.String()
}

func factorial(n int) *big.Int {
	return new(big.Int).MulRange(1, int64(max(n, 1)))
}
