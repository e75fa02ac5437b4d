package ai

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComparisonResultJSONKeys(t *testing.T) {
	data, err := json.Marshal(ComparisonResult{
		ProfileName:     "jane.pdf",
		ApplicantName:   "Jane Doe",
		SimilarityScore: 0.75,
		Reasoning:       "- Go\n- Kubernetes",
	})
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"profile_name": "jane.pdf",
		"applicant_name": "Jane Doe",
		"similarity_score": 0.75,
		"reasoning": "- Go\n- Kubernetes"
	}`, string(data))
}

func TestParseErrorUnwrap(t *testing.T) {
	cause := errors.New("unexpected end of JSON input")
	err := error(&ParseError{Reason: "invalid json", Raw: "{", Err: cause})

	assert.EqualError(t, err, "parse comparison response: invalid json: unexpected end of JSON input")
	assert.ErrorIs(t, err, cause)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "{", parseErr.Raw)

	assert.EqualError(t, &ParseError{Reason: "empty comparisons"}, "parse comparison response: empty comparisons")
}
