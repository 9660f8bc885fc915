package llm

import (
	"context"
	"errors"
	"fmt"
	"log"

	"govreport/internal/worker"
)

var (
	ErrInference     = errors.New("inference failed")
	ErrTranscription = errors.New("transcription failed")
)

// Gateway fronts the inference and transcription engines. Calls are
// dispatched to the worker pool and awaited, so a slow model never
// stalls a channel adapter; failures are wrapped, never retried.
type Gateway struct {
	text   Client
	vision Client
	stt    Transcriber
	pool   *worker.Pool
}

func NewGateway(text, vision Client, stt Transcriber, pool *worker.Pool) *Gateway {
	return &Gateway{text: text, vision: vision, stt: stt, pool: pool}
}

// Chat runs one completion over the vision model when useVision is set,
// the text model otherwise, regardless of the message content.
func (g *Gateway) Chat(ctx context.Context, messages []Message, useVision bool) (string, error) {
	client := g.text
	if useVision {
		client = g.vision
	}
	var resp Response
	err := g.pool.Do(ctx, func() error {
		var genErr error
		resp, genErr = client.Generate(ctx, messages)
		return genErr
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInference, err)
	}
	log.Printf("LLM response [model=%s, tokens: prompt=%d, completion=%d, total=%d]",
		resp.Model, resp.PromptTokens, resp.CompletionTokens, resp.TotalTokens)
	return resp.Content, nil
}

func (g *Gateway) Transcribe(ctx context.Context, audioPath string) (string, error) {
	var text string
	err := g.pool.Do(ctx, func() error {
		var sttErr error
		text, sttErr = g.stt.Transcribe(ctx, audioPath)
		return sttErr
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTranscription, err)
	}
	return text, nil
}
