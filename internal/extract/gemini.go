package extract

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
)

// GeminiClient implements VisionClient over the Google AI API.
type GeminiClient struct {
	llm *googleai.GoogleAI
}

// NewGeminiClient creates a Gemini-backed vision client.
func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("initializing gemini client: %w", err)
	}
	return &GeminiClient{llm: llm}, nil
}

// Extract sends one document and prompt to the model. Decoding is
// pinned to deterministic settings so the same sheet yields the same
// transcription.
func (c *GeminiClient) Extract(ctx context.Context, mimeType string, data []byte, prompt string) (string, error) {
	var parts []llms.ContentPart
	if strings.HasPrefix(mimeType, "text/") {
		parts = append(parts, llms.TextPart(string(data)))
	} else {
		parts = append(parts, llms.BinaryPart(mimeType, data))
	}
	parts = append(parts, llms.TextPart(prompt))

	resp, err := c.llm.GenerateContent(ctx,
		[]llms.MessageContent{{
			Role:  llms.ChatMessageTypeHuman,
			Parts: parts,
		}},
		llms.WithTemperature(0),
		llms.WithTopP(0.1),
		llms.WithTopK(1),
	)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("empty response from model")
	}
	return resp.Choices[0].Content, nil
}
