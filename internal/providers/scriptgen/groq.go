package scriptgen

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const (
	groqBaseURL = "https://api.groq.com/openai/v1"

	scriptTemperature = 0.5
	scriptMaxTokens   = 2000
	turnTemperature   = 0.7
	turnMaxTokens     = 1024
)

// Groq talks to the Groq OpenAI-compatible chat completions endpoint.
type Groq struct {
	client *openai.Client
	model  string
}

func NewGroq(apiKey, baseURL, model string) *Groq {
	if baseURL == "" {
		baseURL = groqBaseURL
	}
	if model == "" {
		model = "mixtral-8x7b-32768"
	}

	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = strings.TrimRight(baseURL, "/")
	return &Groq{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (g *Groq) Close() error { return nil }

func (g *Groq) GenerateScript(ctx context.Context, jobDescription, candidateName string) (string, error) {
	content, err := g.complete(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: scriptPrompt(jobDescription, candidateName)},
		},
		Temperature: scriptTemperature,
		MaxTokens:   scriptMaxTokens,
	})
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(content) == "" {
		return "", ErrEmptyCompletion
	}
	if err := ValidateScript(content); err != nil {
		return "", err
	}
	return content, nil
}

func (g *Groq) GenerateTurn(ctx context.Context, transcript, outline string) (*TurnResult, error) {
	content, err := g.complete(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: turnSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: turnPrompt(transcript, outline)},
		},
		Temperature: turnTemperature,
		MaxTokens:   turnMaxTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, err
	}
	return ParseTurnResult(content)
}

func (g *Groq) complete(ctx context.Context, req openai.ChatCompletionRequest) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("groq: unexpected status %d: %s", apiErr.HTTPStatusCode, apiErr.Message)
		}
		return "", fmt.Errorf("groq: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	return resp.Choices[0].Message.Content, nil
}
