package llm

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// WhisperClient turns audio files into text through the engine's
// transcription endpoint.
type WhisperClient struct {
	client   *openai.Client
	model    string
	language string
}

func NewWhisper(apiKey, baseURL, model, language string) *WhisperClient {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &WhisperClient{
		client:   openai.NewClientWithConfig(config),
		model:    model,
		language: language,
	}
}

func (c *WhisperClient) Transcribe(ctx context.Context, audioPath string) (string, error) {
	resp, err := c.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    c.model,
		FilePath: audioPath,
		Language: c.language,
	})
	if err != nil {
		return "", fmt.Errorf("failed to transcribe audio: %w", err)
	}
	return resp.Text, nil
}
