package storage

// Turn is a single logged exchange unit: either a user submission or an
// agent reply, rendered as plain text. Turns are append-only and their
// position in the per-identity log is the only ordering signal.
type Turn struct {
	Sender   string `json:"sender"`
	Text     string `json:"text"`
	LoggedAt int64  `json:"logged_at"`
}

// Journal abstracts persistence of conversation turns and diagnostic events.
// Implementations can be file-based, database, etc.
// Turns must return records in append order; AppendTurn must write each
// record atomically. Implementations must be safe for concurrent use.
type Journal interface {
	AppendTurn(identity, sender, text string) error
	Turns(identity string) ([]Turn, error)
	AppendEvent(kind string, fields map[string]any) error
}
