package llm

import "context"

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one role-tagged entry of a conversation. Content carries
// plain text; Parts, when set, carries multimodal content instead.
type Message struct {
	Role    string
	Content string
	Parts   []Part
}

// Part is one element of a multimodal message. Exactly one of Text or
// Image is set.
type Part struct {
	Text  string
	Image *Image
}

// Image carries base64-encoded image bytes plus their MIME type.
type Image struct {
	MIME string
	Data string
}

type Response struct {
	Content          string
	Model            string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

type Client interface {
	Generate(ctx context.Context, messages []Message) (Response, error)
}

type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}
