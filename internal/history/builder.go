package history

import (
	"fmt"
	"strings"

	"govreport/internal/llm"
	"govreport/internal/storage"
)

// AgentSender labels agent replies in stored turns.
const AgentSender = "GovReport"

// Builder reconstructs a conversation from the journal: one system
// instruction followed by every stored turn in append order. It never
// writes; the current turn is appended by the caller.
type Builder struct {
	journal      storage.Journal
	systemPrompt string
}

func NewBuilder(journal storage.Journal, systemPrompt string) *Builder {
	return &Builder{journal: journal, systemPrompt: systemPrompt}
}

func (b *Builder) Build(identity string) ([]llm.Message, error) {
	turns, err := b.journal.Turns(identity)
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	msgs := make([]llm.Message, 0, len(turns)+1)
	msgs = append(msgs, llm.Message{Role: llm.RoleSystem, Content: b.systemPrompt})
	for _, t := range turns {
		msgs = append(msgs, llm.Message{Role: RoleForSender(t.Sender), Content: t.Text})
	}
	return msgs, nil
}

// RoleForSender maps a stored sender label to a conversation role.
// Matching is case-insensitive and recognizes exactly the agent label
// and the literal "assistant"; any other sender is the user.
func RoleForSender(sender string) string {
	switch strings.ToLower(sender) {
	case strings.ToLower(AgentSender), llm.RoleAssistant:
		return llm.RoleAssistant
	default:
		return llm.RoleUser
	}
}
