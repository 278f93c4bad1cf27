package mock

import (
	"context"

	"google.golang.org/genai"
)

// ContentGenerator is a mock implementation of gemini.ContentGenerator.
type ContentGenerator struct {
	GenerateContentFn func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

func (g *ContentGenerator) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	return g.GenerateContentFn(ctx, model, contents, config)
}

// TextResponse returns a response whose first candidate contains text.
func TextResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: genai.NewContentFromText(text, genai.RoleModel),
		}},
	}
}

// FunctionCallResponse returns a response whose first candidate requests a function call.
func FunctionCallResponse(id, name string, args map[string]any) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{
				Role: string(genai.RoleModel),
				Parts: []*genai.Part{{
					FunctionCall: &genai.FunctionCall{ID: id, Name: name, Args: args},
				}},
			},
		}},
	}
}
