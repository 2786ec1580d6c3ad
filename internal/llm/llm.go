// Package llm wraps the language model providers used for meal generation.
package llm

import (
	"context"
	"fmt"
)

// TokenUsage tracks the tokens consumed by a request.
type TokenUsage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	Model            string
}

// ContentResponse contains the generated text and metadata like token usage.
type ContentResponse struct {
	Content string
	Usage   TokenUsage
}

// TextGenerator generates text from a prompt.
type TextGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (ContentResponse, error)
	// Name labels the provider on stored meals and in metrics.
	Name() string
}

// Closer is implemented by generators that hold resources.
type Closer interface {
	Close() error
}

// UpstreamError is returned when the provider answers with a failure.
type UpstreamError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s api error: %s", e.Provider, e.Body)
	}
	return fmt.Sprintf("%s api error: status=%d body=%s", e.Provider, e.StatusCode, e.Body)
}
