package ranking

import (
	"math"
	"slices"

	"github.com/spigell/jd-matcher/internal/ai"
)

// Rank returns a copy of results ordered by similarity score, highest first.
// Entries with equal scores keep their input order. A NaN score ranks as 0.
func Rank(results []ai.ComparisonResult) []ai.ComparisonResult {
	ranked := make([]ai.ComparisonResult, len(results))
	copy(ranked, results)

	slices.SortStableFunc(ranked, func(a, b ai.ComparisonResult) int {
		sa, sb := score(a), score(b)
		switch {
		case sa > sb:
			return -1
		case sa < sb:
			return 1
		default:
			return 0
		}
	})

	return ranked
}

// Top returns at most the first n ranked results.
func Top(ranked []ai.ComparisonResult, n int) []ai.ComparisonResult {
	if n <= 0 {
		return nil
	}
	if len(ranked) <= n {
		return ranked
	}
	return ranked[:n]
}

func score(r ai.ComparisonResult) float64 {
	if math.IsNaN(r.SimilarityScore) {
		return 0
	}
	return r.SimilarityScore
}
