package notify

import (
	"fmt"
	"strings"

	"github.com/spigell/jd-matcher/internal/ai"
)

const signature = "Best regards,\nYour Recruitment Team"

func matchesBody(title string, top []ai.ComparisonResult) string {
	var b strings.Builder
	b.WriteString("Dear AR Requestor,\n\n")
	fmt.Fprintf(&b, "Here are the top 3 consultant profiles matching your Job Description: '%s'.\n\n", title)

	for i, m := range top {
		fmt.Fprintf(&b, "Match %d:\n", i+1)
		fmt.Fprintf(&b, "  Consultant: %s\n", m.ProfileName)
		fmt.Fprintf(&b, "  Applicant: %s\n", m.ApplicantName)
		fmt.Fprintf(&b, "  Similarity Score: %.2f\n", m.SimilarityScore)
		fmt.Fprintf(&b, "  Reasoning: %s\n\n", m.Reasoning)
	}

	b.WriteString(signature)
	return b.String()
}

func matchesFoundBody(title string) string {
	var b strings.Builder
	b.WriteString("Dear Recruiter,\n\n")
	fmt.Fprintf(&b, "We're pleased to inform you that matches have been found for the '%s' job profile.\n", title)
	b.WriteString("We continue to expect more profiles from you to further refine our recommendations and ensure the best candidate selection.\n\n")
	b.WriteString(signature)
	return b.String()
}

func noMatchBody(title string) string {
	var b strings.Builder
	b.WriteString("Dear Recruiter,\n\n")
	fmt.Fprintf(&b, "We could not find suitable consultant profiles matching your Job Description: '%s'.\n", title)
	b.WriteString("Please review the JD or consider expanding your search criteria.\n\n")
	b.WriteString(signature)
	return b.String()
}
