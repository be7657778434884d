package match

// Levenshtein returns the number of single-byte insertions, deletions or
// substitutions needed to turn a into b.
//
// Runs in O(len(a)*len(b)) time and keeps two rows of the matrix.
func Levenshtein(a, b string) int {
	if a == b {
		return 0
	}

	if len(a) == 0 {
		return len(b)
	}

	if len(b) == 0 {
		return len(a)
	}

	// a is the shorter one, it sizes the rows
	if len(a) > len(b) {
		a, b = b, a
	}

	prev := make([]int, len(a)+1)
	curr := make([]int, len(a)+1)

	for i := range prev {
		prev[i] = i
	}

	for j := 1; j <= len(b); j++ {
		curr[0] = j

		for i := 1; i <= len(a); i++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}

			curr[i] = min(
				prev[i]+1,      // deletion
				curr[i-1]+1,    // insertion
				prev[i-1]+cost, // substitution
			)
		}

		prev, curr = curr, prev
	}

	return prev[len(a)]
}

// Similarity maps the edit distance onto [0, 1]: 1 for equal strings,
// 0 when every byte differs.
func Similarity(a, b string) float64 {
	longest := max(len(a), len(b))
	if longest == 0 {
		return 1.0
	}

	return 1.0 - float64(Levenshtein(a, b))/float64(longest)
}

// NameScore compares two type names after normalization. Decorated forms
// (OrderDTO vs Order) score as well as plain ones.
func NameScore(a, b string) float64 {
	plain := Similarity(NormalizeIdent(a), NormalizeIdent(b))
	bare := Similarity(NormalizeTypeName(a), NormalizeTypeName(b))

	return max(plain, bare)
}
