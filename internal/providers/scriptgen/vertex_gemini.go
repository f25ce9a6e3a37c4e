package scriptgen

import (
	"context"
	"strings"

	vertexgenai "cloud.google.com/go/vertexai/genai"
	"google.golang.org/api/iterator"
)

// VertexGemini is the alternate Generator for deployments on Google Cloud
// (LLM_PROVIDER=vertex).
type VertexGemini struct {
	client *vertexgenai.Client
	model  *vertexgenai.GenerativeModel
}

func NewVertexGemini(ctx context.Context, projectID, location, modelName string) (*VertexGemini, error) {
	c, err := vertexgenai.NewClient(ctx, projectID, location)
	if err != nil {
		return nil, err
	}

	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}

	return &VertexGemini{client: c, model: c.GenerativeModel(modelName)}, nil
}

func (v *VertexGemini) Close() error { return v.client.Close() }

func (v *VertexGemini) GenerateScript(ctx context.Context, jobDescription, candidateName string) (string, error) {
	content, err := v.generate(ctx, scriptPrompt(jobDescription, candidateName))
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

func (v *VertexGemini) GenerateTurn(ctx context.Context, transcript, outline string) (*TurnResult, error) {
	content, err := v.generate(ctx, turnSystemPrompt+"\n\n"+turnPrompt(transcript, outline))
	if err != nil {
		return nil, err
	}
	return ParseTurnResult(content)
}

func (v *VertexGemini) generate(ctx context.Context, prompt string) (string, error) {
	var sb strings.Builder

	it := v.model.GenerateContentStream(ctx, vertexgenai.Text(prompt))
	for {
		resp, err := it.Next()
		if err == iterator.Done {
			return sb.String(), nil
		}
		if err != nil {
			return "", err
		}

		for _, cand := range resp.Candidates {
			if cand.Content == nil {
				continue
			}
			for _, part := range cand.Content.Parts {
				if t, ok := part.(vertexgenai.Text); ok {
					sb.WriteString(string(t))
				}
			}
		}
	}
}
