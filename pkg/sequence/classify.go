package sequence

// IsValid reports whether no two consecutive items share a group. The ends do
// not wrap around; see [IsCycle] for the seam.
func IsValid(s Sequence) bool {
	for i := 1; i < len(s); i++ {
		if s[i].Group == s[i-1].Group {
			return false
		}
	}
	return true
}

// IsCycle reports whether the first and last items belong to different
// groups, i.e. whether closing the sequence into a ring keeps the seam legal.
// It looks at the endpoints only and says nothing about the interior.
// Sequences shorter than two items are never cycles.
func IsCycle(s Sequence) bool {
	if len(s) < 2 {
		return false
	}
	return s[0].Group != s[len(s)-1].Group
}

// Violations returns every position i with s[i] in the same group as s[i-1].
func Violations(s Sequence) []int {
	var out []int
	for i := 1; i < len(s); i++ {
		if s[i].Group == s[i-1].Group {
			out = append(out, i)
		}
	}
	return out
}
