package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// FileJournal keeps one append-only JSONL file per identity under dir,
// plus a single global JSONL file for raw/error diagnostic events.
type FileJournal struct {
	dir     string
	logPath string
	mu      sync.Mutex
	now     func() int64
}

func NewFileJournal(dir, logPath string) (*FileJournal, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to ensure messages dir: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to ensure log dir: %w", err)
	}
	f, err := os.OpenFile(logPath, os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to init log file: %w", err)
	}
	_ = f.Close()
	return &FileJournal{dir: dir, logPath: logPath, now: func() int64 { return time.Now().Unix() }}, nil
}

func (j *FileJournal) AppendTurn(identity, sender, text string) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	t := Turn{Sender: sender, Text: text, LoggedAt: j.now()}
	return appendLine(j.identityPath(identity), t)
}

func (j *FileJournal) Turns(identity string) ([]Turn, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	f, err := os.Open(j.identityPath(identity))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open read: %w", err)
	}
	defer func(f *os.File) {
		err := f.Close()
		if err != nil {
		}
	}(f)
	s := bufio.NewScanner(f)
	buf := make([]byte, 0, 1024*1024)
	s.Buffer(buf, 10*1024*1024)
	var turns []Turn
	for s.Scan() {
		line := s.Bytes()
		if len(line) == 0 {
			continue
		}
		var t Turn
		if err := json.Unmarshal(line, &t); err != nil {
			continue
		}
		turns = append(turns, t)
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	return turns, nil
}

func (j *FileJournal) AppendEvent(kind string, fields map[string]any) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	rec := make(map[string]any, len(fields)+2)
	for k, v := range fields {
		rec[k] = v
	}
	rec["type"] = kind
	rec["logged_at"] = j.now()
	return appendLine(j.logPath, rec)
}

// appendLine writes one complete record with a single write call so a
// concurrent reader never observes a partial line.
func appendLine(path string, record any) error {
	b, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode append: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open append: %w", err)
	}
	defer func(f *os.File) {
		err := f.Close()
		if err != nil {
		}
	}(f)
	if _, err := f.Write(append(b, '\n')); err != nil {
		return fmt.Errorf("write append: %w", err)
	}
	return nil
}

func (j *FileJournal) identityPath(identity string) string {
	return filepath.Join(j.dir, sanitizeIdentity(identity)+"_messages.jsonl")
}

func sanitizeIdentity(identity string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '-' || r == '_':
			return r
		default:
			return '_'
		}
	}, identity)
}
