package report

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"govreport/internal/history"
	"govreport/internal/llm"
	"govreport/internal/media"
	"govreport/internal/storage"
)

// Fixed user-facing apologies, one per input medium. Sent once on
// failure; the failed turn is never retried.
const (
	ApologyText  = "⚠️ Error processing text."
	ApologyImage = "⚠️ Error processing image."
	ApologyMedia = "⚠️ Error processing audio/video."
)

// Processor drives one report turn end to end: normalize the input,
// rebuild the conversation from the journal, run inference, then log the
// user turn followed by the agent turn. Both channel adapters share it.
type Processor struct {
	journal storage.Journal
	gateway *llm.Gateway
	builder *history.Builder
}

func New(journal storage.Journal, gateway *llm.Gateway, builder *history.Builder) *Processor {
	return &Processor{journal: journal, gateway: gateway, builder: builder}
}

func (p *Processor) ProcessText(ctx context.Context, identity, text string) (string, error) {
	text, err := media.NormalizeText(text)
	if err != nil {
		return "", err
	}
	return p.run(ctx, identity, llm.Message{Role: llm.RoleUser, Content: text}, text, false)
}

// ProcessImage triages an already-saved image file. The journal receives
// the rendered text form, never the bytes.
func (p *Processor) ProcessImage(ctx context.Context, identity, imagePath, caption string) (string, error) {
	parts, err := media.ImageParts(imagePath, caption)
	if err != nil {
		return "", fmt.Errorf("normalize image: %w", err)
	}
	rendered := media.RenderImage(filepath.Base(imagePath), caption)
	return p.run(ctx, identity, llm.Message{Role: llm.RoleUser, Parts: parts}, rendered, true)
}

// ProcessMedia transcribes an audio/video file and continues down the
// text path with the recognized speech.
func (p *Processor) ProcessMedia(ctx context.Context, identity, mediaPath string) (string, error) {
	text, err := p.gateway.Transcribe(ctx, mediaPath)
	if err != nil {
		p.logError(err)
		return "", err
	}
	text, err = media.NormalizeTranscript(text)
	if err != nil {
		return "", err
	}
	rendered := media.RenderAudioVideo(filepath.Base(mediaPath))
	return p.run(ctx, identity, llm.Message{Role: llm.RoleUser, Content: text}, rendered, false)
}

func (p *Processor) run(ctx context.Context, identity string, current llm.Message, rendered string, useVision bool) (string, error) {
	conversation, err := p.builder.Build(identity)
	if err != nil {
		return "", fmt.Errorf("build conversation: %w", err)
	}
	conversation = append(conversation, current)

	reply, err := p.gateway.Chat(ctx, conversation, useVision)
	if err != nil {
		p.logError(err)
		return "", err
	}

	if err := p.journal.AppendTurn(identity, identity, rendered); err != nil {
		return "", fmt.Errorf("log user turn: %w", err)
	}
	if err := p.journal.AppendTurn(identity, history.AgentSender, reply); err != nil {
		return "", fmt.Errorf("log agent turn: %w", err)
	}
	return reply, nil
}

func (p *Processor) logError(err error) {
	if logErr := p.journal.AppendEvent("error", map[string]any{"error": err.Error()}); logErr != nil {
		log.Printf("failed to log error event: %v", logErr)
	}
}
