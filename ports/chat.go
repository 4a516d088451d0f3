package ports

import "context"

// ChatMessage is one turn of a completion conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is a completion call to an OpenAI-compatible provider.
type ChatRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

// ChatClient is the AI text-completion collaborator. The core has no
// semantic dependency on reply content; it only relays fragments for
// display.
type ChatClient interface {
	// StreamCompletion invokes onFragment for each incremental text
	// fragment and returns the full concatenated reply once the
	// provider signals the end of the stream.
	StreamCompletion(ctx context.Context, req ChatRequest, onFragment func(fragment string)) (string, error)

	// Completion is the non-streaming one-shot variant.
	Completion(ctx context.Context, req ChatRequest) (string, error)

	// ListModels fetches the provider's available model identifiers.
	ListModels(ctx context.Context) ([]string, error)
}
