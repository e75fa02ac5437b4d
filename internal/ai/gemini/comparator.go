package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"

	_ "embed"

	"github.com/mitchellh/mapstructure"
	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"google.golang.org/genai"

	"github.com/spigell/jd-matcher/internal/ai"
	"github.com/spigell/jd-matcher/internal/documents"
	"github.com/spigell/jd-matcher/internal/logger"
	"github.com/spigell/jd-matcher/internal/utils"
)

type jsonGenerator interface {
	GenerateJSON(ctx context.Context, system, prompt string, schema *genai.Schema) (string, error)
	Model() string
}

//go:embed prompt.md
var promptTemplate string

const (
	defaultMaxLogLength = 200

	systemInstruction = "Answer only with JSON that matches the response schema."
)

// Comparator scores consultant profiles against a job description with a single Gemini request.
type Comparator struct {
	generator jsonGenerator
	recorder  ai.Recorder
	log       *zap.Logger
	maxLogLen int
}

var _ ai.Comparator = (*Comparator)(nil)

// NewComparator builds a comparator. recorder may be nil, then results are not persisted.
func NewComparator(generator jsonGenerator, recorder ai.Recorder, log *zap.Logger, maxLogLength int) *Comparator {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Comparator{
		generator: generator,
		recorder:  recorder,
		log:       logger.WithCommonFields(log, Provider, generator.Model()),
		maxLogLen: maxLogLength,
	}
}

func (c *Comparator) Compare(ctx context.Context, jdID, jdContent string, profiles documents.Set) []ai.ComparisonResult {
	if profiles.Len() == 0 {
		return []ai.ComparisonResult{}
	}

	log := c.log.With(zap.String(logger.FieldJD, jdID))

	results, err := c.compare(ctx, log, jdContent, profiles)
	if err != nil {
		fields := []zap.Field{zap.Error(err)}
		var parseErr *ai.ParseError
		if errors.As(err, &parseErr) {
			fields = append(fields, zap.String("response_preview", utils.TruncateForLog(parseErr.Raw, c.maxLogLen)))
		}
		log.Error("comparison failed", fields...)
		return []ai.ComparisonResult{}
	}

	if jdID != "" && c.recorder != nil {
		path, err := c.recorder.Save(jdID, results)
		if err != nil {
			log.Error("saving report failed", zap.Error(err))
		} else {
			log.Info("report updated", zap.String("path", path))
		}
	}

	return results
}

func (c *Comparator) compare(ctx context.Context, log *zap.Logger, jdContent string, profiles documents.Set) ([]ai.ComparisonResult, error) {
	prompt := buildPrompt(jdContent, profiles)

	log.Debug("gemini generate content request",
		zap.Int("profiles", profiles.Len()),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, c.maxLogLen)),
	)

	raw, err := c.generator.GenerateJSON(ctx, systemInstruction, prompt, ComparisonSchema())
	if err != nil {
		return nil, err
	}

	log.Debug("gemini generate content response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, c.maxLogLen)),
	)

	results, err := parseComparisons(raw)
	if err != nil {
		return nil, err
	}

	if len(results) != profiles.Len() {
		log.Warn("comparison count differs from profile count",
			zap.Int("profiles", profiles.Len()),
			zap.Int("comparisons", len(results)),
		)
	}

	return results, nil
}

func buildPrompt(jdContent string, profiles documents.Set) string {
	var sb strings.Builder
	for _, p := range profiles {
		sb.WriteString("\n--- Consultant Profile: ")
		sb.WriteString(p.Name)
		sb.WriteString(" ---\n")
		sb.WriteString(p.Content)
		sb.WriteString("\n")
	}

	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Job Description:\n{{JD_CONTENT}}\n\nConsultant Profiles:\n{{PROFILES_CONTENT}}\n"
	}
	prompt := strings.ReplaceAll(template, "{{JD_CONTENT}}", jdContent)
	return strings.ReplaceAll(prompt, "{{PROFILES_CONTENT}}", sb.String())
}

var comparisonSchemaLoader = gojsonschema.NewStringLoader(comparisonJSONSchema)

func parseComparisons(raw string) ([]ai.ComparisonResult, error) {
	cleaned := extractJSON(raw)
	if cleaned == "" {
		return nil, &ai.ParseError{Reason: "empty response", Raw: raw}
	}

	var document map[string]any
	if err := json.Unmarshal([]byte(cleaned), &document); err != nil {
		return nil, &ai.ParseError{Reason: "invalid json", Raw: raw, Err: err}
	}

	result, err := gojsonschema.Validate(comparisonSchemaLoader, gojsonschema.NewGoLoader(document))
	if err != nil {
		return nil, &ai.ParseError{Reason: "schema validation", Raw: raw, Err: err}
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return nil, &ai.ParseError{Reason: "unexpected shape: " + strings.Join(errs, "; "), Raw: raw}
	}

	results := []ai.ComparisonResult{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  &results,
		TagName: "json",
	})
	if err != nil {
		return nil, &ai.ParseError{Reason: "decoder setup", Raw: raw, Err: err}
	}
	if err := decoder.Decode(document["comparisons"]); err != nil {
		return nil, &ai.ParseError{Reason: "decode comparisons", Raw: raw, Err: err}
	}

	for i := range results {
		results[i].ProfileName = strings.TrimSpace(results[i].ProfileName)
		results[i].ApplicantName = normalizeName(results[i].ApplicantName)
		results[i].Reasoning = strings.TrimSpace(results[i].Reasoning)
	}

	return results, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

// normalizeName title-cases names that came back entirely in one letter case.
// Mixed case is kept as is ("McDonald", "van der Berg").
func normalizeName(name string) string {
	name = utils.SingleLine(name)

	hasLetter := false
	for _, r := range name {
		if unicode.IsLetter(r) {
			hasLetter = true
			break
		}
	}
	if !hasLetter {
		return name
	}

	if name == strings.ToUpper(name) || name == strings.ToLower(name) {
		return cases.Title(language.English).String(name)
	}
	return name
}
