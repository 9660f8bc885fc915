package llm

import (
	"context"
	"errors"
	"testing"

	"govreport/internal/worker"
)

type fakeClient struct {
	name  string
	calls int
	err   error
}

func (f *fakeClient) Generate(ctx context.Context, msgs []Message) (Response, error) {
	f.calls++
	if f.err != nil {
		return Response{}, f.err
	}
	return Response{Content: "reply from " + f.name, Model: f.name}, nil
}

type fakeTranscriber struct {
	text string
	err  error
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, path string) (string, error) {
	return f.text, f.err
}

func newTestGateway(text, vision Client, stt Transcriber) *Gateway {
	return NewGateway(text, vision, stt, worker.NewPool(1))
}

func TestGateway_ChatSelectsModelVariant(t *testing.T) {
	text := &fakeClient{name: "text"}
	vision := &fakeClient{name: "vision"}
	g := newTestGateway(text, vision, nil)

	msgs := []Message{{Role: RoleUser, Content: "just text"}}

	out, err := g.Chat(context.Background(), msgs, true)
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	if out != "reply from vision" || vision.calls != 1 || text.calls != 0 {
		t.Fatalf("useVision=true did not pick vision model: out=%q text=%d vision=%d", out, text.calls, vision.calls)
	}

	out, err = g.Chat(context.Background(), msgs, false)
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	if out != "reply from text" || text.calls != 1 || vision.calls != 1 {
		t.Fatalf("useVision=false did not pick text model: out=%q text=%d vision=%d", out, text.calls, vision.calls)
	}
}

func TestGateway_ChatWrapsFailures(t *testing.T) {
	text := &fakeClient{name: "text", err: errors.New("engine down")}
	g := newTestGateway(text, &fakeClient{name: "vision"}, nil)

	_, err := g.Chat(context.Background(), nil, false)
	if !errors.Is(err, ErrInference) {
		t.Fatalf("expected ErrInference, got %v", err)
	}
}

func TestGateway_Transcribe(t *testing.T) {
	g := newTestGateway(nil, nil, &fakeTranscriber{text: "pothole near the bridge"})
	out, err := g.Transcribe(context.Background(), "clip.ogg")
	if err != nil {
		t.Fatalf("transcribe: %v", err)
	}
	if out != "pothole near the bridge" {
		t.Fatalf("unexpected transcript: %q", out)
	}

	g = newTestGateway(nil, nil, &fakeTranscriber{err: errors.New("no audio backend")})
	if _, err := g.Transcribe(context.Background(), "clip.ogg"); !errors.Is(err, ErrTranscription) {
		t.Fatalf("expected ErrTranscription, got %v", err)
	}
}
