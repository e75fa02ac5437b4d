package ranking

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/jd-matcher/internal/ai"
)

func result(name string, score float64) ai.ComparisonResult {
	return ai.ComparisonResult{ProfileName: name, ApplicantName: name, SimilarityScore: score}
}

func names(results []ai.ComparisonResult) []string {
	out := make([]string, 0, len(results))
	for _, r := range results {
		out = append(out, r.ProfileName)
	}
	return out
}

func TestRankEmpty(t *testing.T) {
	assert.Empty(t, Rank(nil))
	assert.NotNil(t, Rank(nil))
	assert.Empty(t, Rank([]ai.ComparisonResult{}))
}

func TestRankDescending(t *testing.T) {
	input := []ai.ComparisonResult{
		result("low", 0.1),
		result("high", 0.9),
		result("mid", 0.5),
	}

	ranked := Rank(input)

	assert.Equal(t, []string{"high", "mid", "low"}, names(ranked))
	assert.Equal(t, []string{"low", "high", "mid"}, names(input), "input must not be reordered")
}

func TestRankIsPermutation(t *testing.T) {
	input := []ai.ComparisonResult{
		result("a", 0.3),
		result("b", 0.7),
		result("c", 0.3),
		result("d", 1),
		result("e", 0),
	}

	ranked := Rank(input)

	require.Len(t, ranked, len(input))
	assert.ElementsMatch(t, input, ranked)
}

func TestRankStableForTies(t *testing.T) {
	input := []ai.ComparisonResult{
		result("first", 0.6),
		result("top", 0.8),
		result("second", 0.6),
		result("third", 0.6),
	}

	assert.Equal(t, []string{"top", "first", "second", "third"}, names(Rank(input)))
}

func TestRankMissingScoreIsZero(t *testing.T) {
	var input []ai.ComparisonResult
	require.NoError(t, json.Unmarshal([]byte(`[
		{"profile_name": "missing", "applicant_name": "No Score"},
		{"profile_name": "scored", "applicant_name": "Has Score", "similarity_score": 0.2},
		{"profile_name": "zero", "applicant_name": "Zero", "similarity_score": 0}
	]`), &input))

	assert.Equal(t, []string{"scored", "missing", "zero"}, names(Rank(input)))
}

func TestRankNaNIsZero(t *testing.T) {
	input := []ai.ComparisonResult{
		result("nan", math.NaN()),
		result("negative", -0.1),
		result("positive", 0.1),
		result("zero", 0),
	}

	assert.Equal(t, []string{"positive", "nan", "zero", "negative"}, names(Rank(input)))
}

func TestTop(t *testing.T) {
	ranked := []ai.ComparisonResult{result("a", 0.9), result("b", 0.8), result("c", 0.7), result("d", 0.6)}

	assert.Equal(t, []string{"a", "b", "c"}, names(Top(ranked, 3)))
	assert.Equal(t, []string{"a", "b"}, names(Top(ranked[:2], 3)))
	assert.Empty(t, Top(nil, 3))
	assert.Empty(t, Top(ranked, 0))
}
