package llm

import (
	"context"
	"encoding/json"
)

// Provider is the core abstraction for LLM interaction. The mentor chat
// and the room @mentor trigger both talk to the model through it.
type Provider interface {
	// Generate sends a conversation to the LLM and returns its reply.
	// When the request's Schema field is set, the provider uses its native
	// structured output mechanism and the response Content is validated
	// JSON; otherwise Content is the raw reply text.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes what to send to the LLM.
type Request struct {
	// System is the system prompt. Sets the LLM's role and constraints.
	System string

	// Messages is the conversation history, oldest first, ending with the
	// user turn to answer. Multi-turn is the common case here.
	Messages []Message

	// Schema is the JSON Schema the response must conform to.
	// Nil for free-form chat replies.
	Schema *Schema

	// MaxTokens is the maximum number of tokens in the response.
	MaxTokens int

	// Temperature controls randomness. Range: 0.0 - 1.0.
	Temperature float64
}

// Message represents a single message in the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema defines the JSON structure expected from the LLM.
type Schema struct {
	// Name identifies this schema. Kebab-case, e.g. "problem-analysis".
	Name string

	// Description is sent to the LLM to guide generation.
	Description string

	// Definition is the JSON Schema definition as a map.
	Definition map[string]any
}

// Response holds the LLM's output.
type Response struct {
	// Content is the generated output: validated JSON when a Schema was
	// requested, raw reply text otherwise.
	Content json.RawMessage

	// Usage reports token consumption for this request.
	Usage Usage

	// Model is the actual model that served the request.
	Model string

	// StopReason indicates why generation stopped.
	// Normalized to: "end", "max_tokens", "error"
	StopReason string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// Text returns the response content as plain text.
func (r *Response) Text() string {
	return string(r.Content)
}

// DefaultMaxTokens is the reply budget used by chat callers.
const DefaultMaxTokens = 1024
