package match

import (
	"sort"

	"specweaver/internal/common"
)

const (
	// DefaultMinScore is the lowest NameScore worth suggesting.
	DefaultMinScore = 0.6
	// DefaultLimit is the number of suggestions attached to an unresolved row.
	DefaultLimit = 3
)

// Candidate is a registered FQN scored against an unresolved name.
type Candidate struct {
	FQN   string
	Score float64
}

// CandidateList is sorted by score, best first.
type CandidateList []Candidate

// Rank scores every FQN by the similarity of its simple name to the simple
// name of target. The result is sorted by score, then FQN.
func Rank(target string, fqns []string) CandidateList {
	name := common.SimpleName(target)

	out := make(CandidateList, 0, len(fqns))
	for _, fqn := range fqns {
		out = append(out, Candidate{FQN: fqn, Score: NameScore(name, common.SimpleName(fqn))})
	}

	sort.Sort(out)

	return out
}

// Suggest returns up to limit FQNs scoring at least DefaultMinScore against target.
func Suggest(target string, fqns []string, limit int) []string {
	return Rank(target, fqns).AboveThreshold(DefaultMinScore).Top(limit).FQNs()
}

// Len implements sort.Interface.
func (c CandidateList) Len() int { return len(c) }

// Swap implements sort.Interface.
func (c CandidateList) Swap(i, j int) { c[i], c[j] = c[j], c[i] }

// Less implements sort.Interface. Ties are broken by FQN for determinism.
func (c CandidateList) Less(i, j int) bool {
	if c[i].Score != c[j].Score {
		return c[i].Score > c[j].Score
	}

	return c[i].FQN < c[j].FQN
}

// Top returns the first n candidates.
func (c CandidateList) Top(n int) CandidateList {
	if n < 0 || n >= len(c) {
		return c
	}

	return c[:n]
}

// AboveThreshold returns the candidates scoring at least threshold.
func (c CandidateList) AboveThreshold(threshold float64) CandidateList {
	var out CandidateList

	for _, cand := range c {
		if cand.Score >= threshold {
			out = append(out, cand)
		}
	}

	return out
}

// FQNs returns the candidate names in order.
func (c CandidateList) FQNs() []string {
	if len(c) == 0 {
		return nil
	}

	out := make([]string, len(c))
	for i, cand := range c {
		out[i] = cand.FQN
	}

	return out
}
