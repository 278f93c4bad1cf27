package gemini

import (
	"context"
	"fmt"

	"github.com/fwojciec/ndpa"
	"google.golang.org/genai"
)

// Ensure Explainer implements ndpa.Explainer at compile time.
var _ ndpa.Explainer = (*Explainer)(nil)

// Explainer implements ndpa.Explainer using Google Gemini.
type Explainer struct {
	models ContentGenerator
	model  string
}

// NewExplainer creates a new Explainer.
func NewExplainer(models ContentGenerator, model string) *Explainer {
	return &Explainer{models: models, model: model}
}

// Explain explains the retrieved section in plain English.
func (e *Explainer) Explain(ctx context.Context, result ndpa.Result) (string, error) {
	resp, err := e.models.GenerateContent(ctx, e.model,
		[]*genai.Content{genai.NewContentFromText(BuildExplainPrompt(result), genai.RoleUser)},
		BuildConfig(),
	)
	if err != nil {
		return "", err
	}
	if resp == nil {
		return "", ndpa.Errorf(ndpa.EINTERNAL, "gemini returned nil result")
	}
	return resp.Text(), nil
}

// BuildExplainPrompt builds the user prompt asking for an explanation of result.
func BuildExplainPrompt(result ndpa.Result) string {
	return fmt.Sprintf(`User asked about a specific part of the Nigeria Data Protection Act.

Part: %s
Section: %s

Summary:
%s

Explain in clear, simple English what this section means and how it applies to individuals or companies.
`, result.Part, result.SectionNumber, result.Summary)
}
