package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fwojciec/ndpa"
	"google.golang.org/genai"
)

// RelevanceScorerID identifies scores produced by RelevanceJudge.
const RelevanceScorerID = "ndpa-relevance"

const judgeInstructions = "You are an expert on Nigeria's Data Protection Act 2023. " +
	"Given a user's question and the assistant's cited section, determine if the section truly addresses the question. " +
	"Score based on factual alignment, relevance, and clarity. " +
	"Return only JSON in the specified schema. " +
	"Never guess NDPA content if the search-ndpa tool returns a section. Always rely on its output."

// Ensure RelevanceJudge implements ndpa.Scorer at compile time.
var _ ndpa.Scorer = (*RelevanceJudge)(nil)

// RelevanceJudge scores whether the agent cited a section that answers the
// user's question, using Gemini as the judge.
type RelevanceJudge struct {
	models ContentGenerator
	model  string
}

// NewRelevanceJudge creates a new RelevanceJudge.
func NewRelevanceJudge(models ContentGenerator, model string) *RelevanceJudge {
	return &RelevanceJudge{models: models, model: model}
}

// ID implements ndpa.Scorer.
func (j *RelevanceJudge) ID() string { return RelevanceScorerID }

// Verdict is the judge's structured answer.
type Verdict struct {
	Relevant    bool     `json:"relevant"`
	Confidence  *float64 `json:"confidence"`
	Explanation string   `json:"explanation"`
}

// Score asks the judge model whether the run's answer is relevant.
func (j *RelevanceJudge) Score(ctx context.Context, run *ndpa.Run) (*ndpa.Score, error) {
	resp, err := j.models.GenerateContent(ctx, j.model,
		[]*genai.Content{genai.NewContentFromText(BuildJudgePrompt(run.InputText(), run.OutputText()), genai.RoleUser)},
		BuildJudgeConfig(),
	)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, ndpa.Errorf(ndpa.EINTERNAL, "gemini returned nil result")
	}

	v, err := ParseVerdict(resp.Text())
	if err != nil {
		return nil, err
	}
	return ScoreVerdict(v), nil
}

// ParseVerdict decodes the judge's JSON answer, tolerating markdown code fences.
func ParseVerdict(text string) (*Verdict, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	var v Verdict
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &v); err != nil {
		return nil, ndpa.Errorf(ndpa.EINTERNAL, "invalid judge response: %v", err)
	}
	return &v, nil
}

// ScoreVerdict converts a verdict into a score: the clamped confidence when
// relevant, zero otherwise. Missing confidence defaults to 0.5.
func ScoreVerdict(v *Verdict) *ndpa.Score {
	confidence := 0.5
	if v.Confidence != nil {
		confidence = min(max(*v.Confidence, 0), 1)
	}
	var value float64
	if v.Relevant {
		value = confidence
	}
	return &ndpa.Score{
		Value: value,
		Reason: fmt.Sprintf("Relevance scoring: relevant=%t, confidence=%g. %s Score=%g.",
			v.Relevant, confidence, v.Explanation, value),
	}
}

// BuildJudgeConfig returns the GenerateContentConfig for judge calls,
// constraining the answer to the verdict schema.
func BuildJudgeConfig() *genai.GenerateContentConfig {
	temp := float32(0)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: judgeInstructions}},
		},
		Temperature:      &temp,
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"relevant":    {Type: genai.TypeBoolean},
				"confidence":  {Type: genai.TypeNumber},
				"explanation": {Type: genai.TypeString},
			},
			Required: []string{"relevant", "confidence", "explanation"},
		},
	}
}

// BuildJudgePrompt builds the prompt asking the judge to assess relevance.
func BuildJudgePrompt(question, answer string) string {
	return fmt.Sprintf(`You are assessing if a legal assistant correctly referenced the Nigeria Data Protection Act (NDPA) 2023.
User Question:
"""
%s
"""
Assistant Response:
"""
%s
"""

Tasks:
1. Determine if the NDPA section cited directly answers or applies to the user's question.
2. If yes, set "relevant" = true. Otherwise, false.
3. Assign a confidence score (0-1) based on how closely it aligns.
Return JSON like:
{
  "relevant": boolean,
  "confidence": number,
  "explanation": string
}
`, question, answer)
}
