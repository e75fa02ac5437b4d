package ai

import (
	"context"
	"fmt"

	"github.com/spigell/jd-matcher/internal/documents"
)

// ComparisonResult is the judgment of one consultant profile against one job description.
type ComparisonResult struct {
	ProfileName     string  `json:"profile_name" mapstructure:"profile_name"`
	ApplicantName   string  `json:"applicant_name" mapstructure:"applicant_name"`
	SimilarityScore float64 `json:"similarity_score" mapstructure:"similarity_score"`
	Reasoning       string  `json:"reasoning" mapstructure:"reasoning"`
}

// Comparator judges every profile of the set against a job description.
// Implementations never return an error: failures degrade to an empty result.
// When jdID is not empty the results are recorded before being returned.
type Comparator interface {
	Compare(ctx context.Context, jdID, jdContent string, profiles documents.Set) []ComparisonResult
}

// Recorder persists the comparison results of a single job description.
type Recorder interface {
	Save(jdID string, results []ComparisonResult) (string, error)
}

// ParseError reports a model response that does not have the expected shape.
type ParseError struct {
	Reason string
	Raw    string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse comparison response: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("parse comparison response: %s", e.Reason)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
