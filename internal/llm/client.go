// Package llm defines the completion capability consumed by the chat
// pipeline's model fallback, plus the OpenAI-backed implementation.
package llm

import "context"

const (
	ChatRoleSystem    = "system"
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

// ChatMessage is a single conversation turn.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request describes one completion call.
type Request struct {
	Model       string
	System      string
	Messages    []ChatMessage
	MaxTokens   int
	Temperature float32
}

// Response carries the completion text.
type Response struct {
	Text string
}

// Client is the external completion capability. Implementations may fail or
// time out; callers bound every call with a context deadline.
type Client interface {
	Complete(ctx context.Context, req Request) (Response, error)
}
