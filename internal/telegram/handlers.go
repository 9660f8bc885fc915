package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"govreport/internal/media"
	"govreport/internal/report"
)

const emptyInputReply = "Please describe the issue in text, or send an image or a voice note."

func (b *Bot) handleIncomingMessage(ctx context.Context, msg *tgbotapi.Message) {
	identity := identityFor(msg.From)
	log.Printf("Incoming message from %s: %q", identity, msg.Text)
	b.logRaw(identity, msg)

	if msg.IsCommand() {
		if msg.Command() == "start" {
			b.sendMessage(msg.Chat.ID, greeting)
		}
		return
	}

	switch {
	case len(msg.Photo) > 0:
		b.handlePhoto(ctx, msg, identity)
	case mediaFileID(msg) != "":
		b.handleAudioVideo(ctx, msg, identity)
	default:
		b.handleText(ctx, msg, identity)
	}
}

func (b *Bot) handleText(ctx context.Context, msg *tgbotapi.Message, identity string) {
	reply, err := b.processor.ProcessText(ctx, identity, msg.Text)
	if err != nil {
		if errors.Is(err, media.ErrEmptyInput) {
			b.sendMessage(msg.Chat.ID, emptyInputReply)
			return
		}
		log.Printf("failed to process text from %s: %v", identity, err)
		b.sendMessage(msg.Chat.ID, report.ApologyText)
		return
	}
	b.sendMessage(msg.Chat.ID, reply)
}

func (b *Bot) handlePhoto(ctx context.Context, msg *tgbotapi.Message, identity string) {
	// Largest size is last.
	photo := msg.Photo[len(msg.Photo)-1]
	path, err := b.downloadFile(photo.FileID, identity, ".jpg")
	if err != nil {
		log.Printf("failed to download photo from %s: %v", identity, err)
		b.sendMessage(msg.Chat.ID, report.ApologyImage)
		return
	}

	reply, err := b.processor.ProcessImage(ctx, identity, path, msg.Caption)
	if err != nil {
		log.Printf("failed to process image from %s: %v", identity, err)
		b.sendMessage(msg.Chat.ID, report.ApologyImage)
		return
	}
	b.sendMessage(msg.Chat.ID, reply)
}

func (b *Bot) handleAudioVideo(ctx context.Context, msg *tgbotapi.Message, identity string) {
	path, err := b.downloadFile(mediaFileID(msg), identity, ".ogg")
	if err != nil {
		log.Printf("failed to download media from %s: %v", identity, err)
		b.sendMessage(msg.Chat.ID, report.ApologyMedia)
		return
	}

	reply, err := b.processor.ProcessMedia(ctx, identity, path)
	if err != nil {
		if errors.Is(err, media.ErrEmptyInput) {
			b.sendMessage(msg.Chat.ID, "Could not hear anything in that recording, please try again.")
			return
		}
		log.Printf("failed to process media from %s: %v", identity, err)
		b.sendMessage(msg.Chat.ID, report.ApologyMedia)
		return
	}
	b.sendMessage(msg.Chat.ID, reply)
}

func (b *Bot) downloadFile(fileID, identity, ext string) (string, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return "", fmt.Errorf("get file: %w", err)
	}
	resp, err := http.Get(file.Link(b.api.Token))
	if err != nil {
		return "", fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if err := os.MkdirAll(b.mediaDir, 0o755); err != nil {
		return "", fmt.Errorf("ensure media dir: %w", err)
	}
	path := filepath.Join(b.mediaDir, fmt.Sprintf("%s_%d%s", identity, b.now(), ext))
	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create media file: %w", err)
	}
	defer func(out *os.File) {
		err := out.Close()
		if err != nil {
		}
	}(out)
	if _, err := io.Copy(out, resp.Body); err != nil {
		return "", fmt.Errorf("save media file: %w", err)
	}
	return path, nil
}

func (b *Bot) logRaw(identity string, msg *tgbotapi.Message) {
	if b.journal == nil {
		return
	}
	fields := map[string]any{
		"chat_id":    msg.Chat.ID,
		"message_id": msg.MessageID,
		"from":       identity,
	}
	if msg.Text != "" {
		fields["text"] = msg.Text
	}
	if err := b.journal.AppendEvent("raw_message", fields); err != nil {
		log.Printf("failed to log raw message: %v", err)
	}
}

// identityFor partitions bot history by username, falling back to the
// numeric user id when no username is set.
func identityFor(u *tgbotapi.User) string {
	if u == nil {
		return "unknown"
	}
	if u.UserName != "" {
		return u.UserName
	}
	return strconv.FormatInt(u.ID, 10)
}

func mediaFileID(msg *tgbotapi.Message) string {
	switch {
	case msg.Voice != nil:
		return msg.Voice.FileID
	case msg.Audio != nil:
		return msg.Audio.FileID
	case msg.VideoNote != nil:
		return msg.VideoNote.FileID
	case msg.Video != nil:
		return msg.Video.FileID
	default:
		return ""
	}
}
