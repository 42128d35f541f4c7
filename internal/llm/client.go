package llm

import "context"

const (
	ChatRoleSystem    = "system"
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

// ChatMessage is an internal message representation that can include system prompts.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type TokenUsage struct {
	InputTokens  int32
	OutputTokens int32
	TotalTokens  int32
}

type Request struct {
	Model       string
	System      []string
	Messages    []ChatMessage
	MaxTokens   int32
	Temperature float32
	TopP        float32

	// ForceJSON asks the provider to constrain output to a single JSON
	// object. Providers without a native JSON mode ignore it; callers must
	// still validate the response.
	ForceJSON bool
}

type Response struct {
	Text       string
	Usage      TokenUsage
	StopReason string
}

// Client is the narrow contract the rest of the application has with a
// text-completion provider: one blocking call, one completion or an error.
type Client interface {
	Complete(ctx context.Context, req Request) (Response, error)
}
