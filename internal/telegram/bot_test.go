package telegram

import (
	"context"
	"errors"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"govreport/internal/history"
	"govreport/internal/llm"
	"govreport/internal/report"
	"govreport/internal/storage"
	"govreport/internal/worker"
)

type fakeSender struct{ sent []string }

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	sw := c.(tgbotapi.MessageConfig)
	f.sent = append(f.sent, sw.Text)
	return tgbotapi.Message{}, nil
}

type memJournal struct {
	turns  map[string][]storage.Turn
	events []string
}

func (m *memJournal) AppendTurn(identity, sender, text string) error {
	if m.turns == nil {
		m.turns = make(map[string][]storage.Turn)
	}
	m.turns[identity] = append(m.turns[identity], storage.Turn{Sender: sender, Text: text})
	return nil
}

func (m *memJournal) Turns(identity string) ([]storage.Turn, error) { return m.turns[identity], nil }

func (m *memJournal) AppendEvent(kind string, fields map[string]any) error {
	m.events = append(m.events, kind)
	return nil
}

type fakeLLM struct {
	resp llm.Response
	err  error
}

func (f fakeLLM) Generate(ctx context.Context, msgs []llm.Message) (llm.Response, error) {
	return f.resp, f.err
}

func newTestBot(j *memJournal, client llm.Client) (*Bot, *fakeSender) {
	gw := llm.NewGateway(client, client, nil, worker.NewPool(1))
	p := report.New(j, gw, history.NewBuilder(j, "sys"))
	fs := &fakeSender{}
	return &Bot{s: fs, processor: p, journal: j, now: func() int64 { return 1 }}, fs
}

func textMessage(text string) *tgbotapi.Message {
	return &tgbotapi.Message{
		Text: text,
		From: &tgbotapi.User{ID: 42, UserName: "alice"},
		Chat: &tgbotapi.Chat{ID: 7},
	}
}

func TestHandleIncomingMessage_TextFlow(t *testing.T) {
	j := &memJournal{}
	b, fs := newTestBot(j, fakeLLM{resp: llm.Response{Content: "routed to LTA"}})

	b.handleIncomingMessage(context.Background(), textMessage("pothole on main st"))

	if len(fs.sent) != 1 || fs.sent[0] != "routed to LTA" {
		t.Fatalf("unexpected replies: %+v", fs.sent)
	}
	turns := j.turns["alice"]
	if len(turns) != 2 || turns[0].Sender != "alice" || turns[1].Sender != history.AgentSender {
		t.Fatalf("unexpected journal turns: %+v", turns)
	}
	if len(j.events) != 1 || j.events[0] != "raw_message" {
		t.Fatalf("expected one raw_message event, got %+v", j.events)
	}
}

func TestHandleIncomingMessage_StartCommand(t *testing.T) {
	b, fs := newTestBot(&memJournal{}, fakeLLM{})
	msg := textMessage("/start")
	msg.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: 6}}

	b.handleIncomingMessage(context.Background(), msg)

	if len(fs.sent) != 1 || fs.sent[0] != greeting {
		t.Fatalf("expected greeting, got %+v", fs.sent)
	}
}

func TestHandleText_InferenceFailureSendsApology(t *testing.T) {
	j := &memJournal{}
	b, fs := newTestBot(j, fakeLLM{err: errors.New("engine down")})

	b.handleIncomingMessage(context.Background(), textMessage("report"))

	if len(fs.sent) != 1 || fs.sent[0] != report.ApologyText {
		t.Fatalf("expected text apology, got %+v", fs.sent)
	}
	if len(j.turns["alice"]) != 0 {
		t.Fatalf("failed turn must not be logged: %+v", j.turns["alice"])
	}
	// raw_message on receipt plus the error event.
	if len(j.events) != 2 || j.events[1] != "error" {
		t.Fatalf("unexpected events: %+v", j.events)
	}
}

func TestHandleText_EmptyInput(t *testing.T) {
	j := &memJournal{}
	b, fs := newTestBot(j, fakeLLM{resp: llm.Response{Content: "nope"}})

	b.handleIncomingMessage(context.Background(), textMessage("   "))

	if len(fs.sent) != 1 || fs.sent[0] != emptyInputReply {
		t.Fatalf("expected empty-input reply, got %+v", fs.sent)
	}
	if len(j.turns["alice"]) != 0 {
		t.Fatalf("empty input must not be logged as a turn")
	}
}

func TestIdentityFor_FallsBackToUserID(t *testing.T) {
	if got := identityFor(&tgbotapi.User{ID: 42, UserName: "alice"}); got != "alice" {
		t.Fatalf("unexpected identity: %q", got)
	}
	if got := identityFor(&tgbotapi.User{ID: 42}); got != "42" {
		t.Fatalf("unexpected fallback identity: %q", got)
	}
}

func TestMediaFileID(t *testing.T) {
	msg := &tgbotapi.Message{}
	if mediaFileID(msg) != "" {
		t.Fatalf("expected no media file id")
	}
	msg.Voice = &tgbotapi.Voice{FileID: "v1"}
	if mediaFileID(msg) != "v1" {
		t.Fatalf("voice file id not picked")
	}
	msg = &tgbotapi.Message{Video: &tgbotapi.Video{FileID: "vid"}}
	if mediaFileID(msg) != "vid" {
		t.Fatalf("video file id not picked")
	}
}
