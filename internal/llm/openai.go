package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	openAIDefaultURL   = "https://api.openai.com/v1"
	openAIDefaultModel = "gpt-4"
	openAITemperature  = 0.8
	openAIMaxTokens    = 3000
	openAISystemPrompt = "You are a helpful family meal planning assistant. Always return valid JSON arrays of meal objects that respect dietary restrictions."
)

// OpenAIClient talks to an OpenAI-compatible chat completions endpoint.
// Calls are bounded by the caller's context only.
type OpenAIClient struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

func NewOpenAIClient(apiKey, baseURL, model string) *OpenAIClient {
	if baseURL == "" {
		baseURL = openAIDefaultURL
	}
	if model == "" {
		model = openAIDefaultModel
	}
	return &OpenAIClient{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		httpClient: &http.Client{},
	}
}

func (c *OpenAIClient) Name() string { return "openai" }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// GenerateContent sends the prompt as the user message and returns the first
// choice. Transport failures, non-200 replies and undecodable bodies become
// *UpstreamError; context cancellation is returned as is.
func (c *OpenAIClient) GenerateContent(ctx context.Context, prompt string) (ContentResponse, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: openAISystemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: openAITemperature,
		MaxTokens:   openAIMaxTokens,
	})
	if err != nil {
		return ContentResponse{}, fmt.Errorf("marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return ContentResponse{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ContentResponse{}, fmt.Errorf("send request: %w", ctx.Err())
		}
		return ContentResponse{}, &UpstreamError{Provider: c.Name(), Body: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return ContentResponse{}, &UpstreamError{Provider: c.Name(), StatusCode: resp.StatusCode, Body: string(b)}
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		if ctx.Err() != nil {
			return ContentResponse{}, fmt.Errorf("decode response: %w", ctx.Err())
		}
		return ContentResponse{}, &UpstreamError{Provider: c.Name(), StatusCode: resp.StatusCode, Body: "decode response: " + err.Error()}
	}
	if len(out.Choices) == 0 {
		return ContentResponse{}, &UpstreamError{Provider: c.Name(), StatusCode: resp.StatusCode, Body: "no choices returned"}
	}

	return ContentResponse{
		Content: out.Choices[0].Message.Content,
		Usage: TokenUsage{
			PromptTokens:     out.Usage.PromptTokens,
			CompletionTokens: out.Usage.CompletionTokens,
			TotalTokens:      out.Usage.TotalTokens,
			Model:            out.Model,
		},
	}, nil
}
