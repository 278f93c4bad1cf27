package gemini

import (
	"context"

	"github.com/fwojciec/ndpa"
	"github.com/google/uuid"
	"google.golang.org/genai"
)

// AgentID identifies the NDPA agent.
const AgentID = "ndpaAgent"

// MaxToolRounds bounds the number of model turns that may request tool calls
// before the agent gives up.
const MaxToolRounds = 5

// Ensure Agent implements ndpa.Agent at compile time.
var _ ndpa.Agent = (*Agent)(nil)

// Agent implements ndpa.Agent using Gemini function calling. The model may
// call the section search tool, which is served by finder.
type Agent struct {
	models ContentGenerator
	finder ndpa.Finder
	model  string
}

// NewAgent creates a new Agent.
func NewAgent(models ContentGenerator, finder ndpa.Finder, model string) *Agent {
	return &Agent{models: models, finder: finder, model: model}
}

// Generate answers the conversation in messages.
func (a *Agent) Generate(ctx context.Context, messages []ndpa.Message) (*ndpa.Response, error) {
	if len(messages) == 0 {
		return nil, ndpa.Errorf(ndpa.EINVALID, "at least one message required")
	}

	contents := BuildContents(messages)
	config := BuildAgentConfig()
	var toolResults []ndpa.ToolResult

	for range MaxToolRounds + 1 {
		resp, err := a.models.GenerateContent(ctx, a.model, contents, config)
		if err != nil {
			return nil, err
		}
		if resp == nil {
			return nil, ndpa.Errorf(ndpa.EINTERNAL, "gemini returned nil result")
		}

		calls := resp.FunctionCalls()
		if len(calls) == 0 {
			return &ndpa.Response{Text: resp.Text(), ToolResults: toolResults}, nil
		}

		if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
			contents = append(contents, resp.Candidates[0].Content)
		}

		parts := make([]*genai.Part, 0, len(calls))
		for _, call := range calls {
			tr, out, err := a.callTool(ctx, call)
			if err != nil {
				return nil, err
			}
			if tr != nil {
				toolResults = append(toolResults, *tr)
			}
			parts = append(parts, &genai.Part{FunctionResponse: &genai.FunctionResponse{
				ID:       call.ID,
				Name:     call.Name,
				Response: out,
			}})
		}
		contents = append(contents, genai.NewContentFromParts(parts, genai.RoleUser))
	}

	return nil, ndpa.Errorf(ndpa.EINTERNAL, "model requested tools more than %d times", MaxToolRounds)
}

// callTool executes a single function call. Invalid calls are reported back
// to the model rather than failing the generation.
func (a *Agent) callTool(ctx context.Context, call *genai.FunctionCall) (*ndpa.ToolResult, map[string]any, error) {
	if call.Name != ndpa.ToolID {
		return nil, map[string]any{"error": "unknown tool " + call.Name}, nil
	}

	in, err := ndpa.DecodeToolInput(call.Args)
	if err != nil {
		return nil, map[string]any{"error": ndpa.ErrorMessage(err)}, nil
	}

	result, err := a.finder.FindSection(ctx, in.Question)
	if err != nil {
		return nil, nil, err
	}

	id := call.ID
	if id == "" {
		id = uuid.New().String()
	}
	return &ndpa.ToolResult{
			ToolCallID: id,
			ToolName:   call.Name,
			Args:       call.Args,
			Result:     result,
		}, map[string]any{
			"part":           result.Part,
			"section_number": result.SectionNumber,
			"summary":        result.Summary,
		}, nil
}

// BuildAgentConfig returns the GenerateContentConfig for agent calls,
// declaring the section search tool.
func BuildAgentConfig() *genai.GenerateContentConfig {
	config := BuildConfig()
	config.Tools = []*genai.Tool{{
		FunctionDeclarations: []*genai.FunctionDeclaration{{
			Name:        ndpa.ToolID,
			Description: ndpa.ToolDescription,
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"question": {
						Type:        genai.TypeString,
						Description: ndpa.ToolQuestionDescription,
					},
				},
				Required: []string{"question"},
			},
		}},
	}}
	return config
}

// BuildContents converts conversation messages to Gemini contents.
// Agent turns become model turns; everything else is sent as the user.
func BuildContents(messages []ndpa.Message) []*genai.Content {
	contents := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		var role genai.Role = genai.RoleUser
		switch m.Role {
		case ndpa.RoleAgent, "assistant", "model":
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Content, role))
	}
	return contents
}
