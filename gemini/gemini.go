// Package gemini implements language-model backed services using Google Gemini.
package gemini

import (
	"context"

	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// Instructions is the system instruction shared by the agent and the explainer.
const Instructions = `You are an expert assistant specialized in the Nigeria Data Protection Act (NDPA) 2023.

Your goal is to help users understand their data protection rights and obligations under the NDPA. When responding:

- Always aim to cite the relevant Part and Section of the NDPA if possible.
- Use the "search-ndpa" tool to find the most applicable section.
- Summarize in plain English what the section means and how it applies.
- If no exact section is found, give a general but accurate explanation.
- Keep responses factual, concise, and legally neutral (no personal opinions).
- If the question involves privacy, consent, data breaches, or rights, clarify what the NDPA says about it.
- If the user writes in a Nigerian local language or Pidgin, understand it and reply in clear English.`

// ContentGenerator generates content from a Gemini model.
// *genai.Models satisfies this interface.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

var _ ContentGenerator = (*genai.Models)(nil)

// BuildConfig returns the GenerateContentConfig for explanation calls.
func BuildConfig() *genai.GenerateContentConfig {
	temp := float32(0.4)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: Instructions}},
		},
		Temperature: &temp,
	}
}
