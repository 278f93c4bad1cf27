package ndpa

import "context"

// Message roles.
const (
	RoleUser  = "user"
	RoleAgent = "agent"
)

// Message is one turn of a conversation with an Agent.
type Message struct {
	Role     string         `json:"role"`
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// ToolResult records one tool invocation made while generating a Response.
type ToolResult struct {
	ToolCallID string         `json:"toolCallId"`
	ToolName   string         `json:"toolName"`
	Args       map[string]any `json:"args"`
	Result     any            `json:"result"`
}

// Response is the output of an Agent.
type Response struct {
	Text        string       `json:"text"`
	ToolResults []ToolResult `json:"toolResults,omitempty"`
}

// Agent answers conversations about the act, calling tools as needed.
type Agent interface {
	// Generate produces the agent's reply to messages.
	// Returns EINVALID if messages is empty.
	Generate(ctx context.Context, messages []Message) (*Response, error)
}

// Explainer turns a retrieved section into a plain-English explanation.
type Explainer interface {
	Explain(ctx context.Context, result Result) (string, error)
}
