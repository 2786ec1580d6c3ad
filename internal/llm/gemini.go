package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const geminiDefaultModel = "gemini-1.5-flash"

// GeminiClient is a client for the Google Gemini API.
type GeminiClient struct {
	client    *genai.Client
	model     *genai.GenerativeModel
	modelName string
}

func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	if model == "" {
		model = geminiDefaultModel
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	m := client.GenerativeModel(model)
	m.SetTemperature(openAITemperature)
	m.SetMaxOutputTokens(openAIMaxTokens)
	m.SystemInstruction = genai.NewUserContent(genai.Text(openAISystemPrompt))
	m.ResponseMIMEType = "application/json"

	return &GeminiClient{client: client, model: m, modelName: model}, nil
}

func (c *GeminiClient) Name() string { return "gemini" }

func (c *GeminiClient) GenerateContent(ctx context.Context, prompt string) (ContentResponse, error) {
	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		if ctx.Err() != nil {
			return ContentResponse{}, ctx.Err()
		}
		return ContentResponse{}, &UpstreamError{Provider: c.Name(), Body: err.Error()}
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ContentResponse{}, &UpstreamError{Provider: c.Name(), Body: "no content generated"}
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}

	out := ContentResponse{Content: sb.String(), Usage: TokenUsage{Model: c.modelName}}
	if u := resp.UsageMetadata; u != nil {
		out.Usage.PromptTokens = int(u.PromptTokenCount)
		out.Usage.CompletionTokens = int(u.CandidatesTokenCount)
		out.Usage.TotalTokens = int(u.TotalTokenCount)
	}
	return out, nil
}

func (c *GeminiClient) Close() error {
	return c.client.Close()
}
