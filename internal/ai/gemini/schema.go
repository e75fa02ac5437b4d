package gemini

import "google.golang.org/genai"

// comparisonJSONSchema validates the decoded model answer before it is mapped onto results.
// It mirrors ComparisonSchema and additionally bounds the score.
const comparisonJSONSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["comparisons"],
  "properties": {
    "comparisons": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["profile_name", "similarity_score"],
        "properties": {
          "profile_name": {"type": "string", "minLength": 1},
          "applicant_name": {"type": "string"},
          "similarity_score": {"type": "number", "minimum": 0, "maximum": 1},
          "reasoning": {"type": "string"}
        }
      }
    }
  }
}`

// ComparisonSchema is the response schema sent with every comparison request.
func ComparisonSchema() *genai.Schema {
	minScore, maxScore := 0.0, 1.0

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"comparisons": {
				Type:        genai.TypeArray,
				Description: "One entry per consultant profile.",
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"profile_name": {
							Type:        genai.TypeString,
							Description: "Name of the consultant profile, exactly as given in its header.",
						},
						"applicant_name": {
							Type:        genai.TypeString,
							Description: "Name of the applicant found in the profile content, in title case.",
						},
						"similarity_score": {
							Type:        genai.TypeNumber,
							Description: "Similarity between 0.0 and 1.0, where 1.0 is a perfect match.",
							Minimum:     &minScore,
							Maximum:     &maxScore,
						},
						"reasoning": {
							Type:        genai.TypeString,
							Description: "Brief explanation of the score as bullet points.",
						},
					},
					Required:         []string{"profile_name", "applicant_name", "similarity_score", "reasoning"},
					PropertyOrdering: []string{"profile_name", "applicant_name", "similarity_score", "reasoning"},
				},
			},
		},
		Required: []string{"comparisons"},
	}
}
