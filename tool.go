package ndpa

const (
	// ToolID identifies the section search tool to language models and scorers.
	ToolID = "search-ndpa"

	// ToolDescription describes the section search tool to language models.
	ToolDescription = "Search the Nigeria Data Protection Act (NDPA) 2023 for relevant sections."

	// ToolQuestionDescription describes the tool's single input field.
	ToolQuestionDescription = "User's question about the NDPA"
)

// ToolInput is the input of the section search tool.
type ToolInput struct {
	Question string `json:"question"`
}

// DecodeToolInput validates tool call arguments as produced by a language
// model. The question must be present and be a string; an empty string is
// allowed and simply matches nothing.
func DecodeToolInput(args map[string]any) (ToolInput, error) {
	v, ok := args["question"]
	if !ok || v == nil {
		return ToolInput{}, Errorf(EINVALID, "question required")
	}
	question, ok := v.(string)
	if !ok {
		return ToolInput{}, Errorf(EINVALID, "question must be a string, got %T", v)
	}
	return ToolInput{Question: question}, nil
}
