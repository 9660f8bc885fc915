package telegram

import (
	"context"
	"log"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"govreport/internal/report"
	"govreport/internal/storage"
)

const greeting = "Community issue reporting bot.\n" +
	"Send a text, an image (optionally with a caption), or a voice note describing a public issue and I will triage it."

type Bot struct {
	api       *tgbotapi.BotAPI
	s         sender
	processor *report.Processor
	journal   storage.Journal
	mediaDir  string
	now       func() int64
}

func New(botToken string, processor *report.Processor, journal storage.Journal, mediaDir string) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, err
	}
	return &Bot{
		api:       api,
		s:         botAPISender{api: api},
		processor: processor,
		journal:   journal,
		mediaDir:  mediaDir,
		now:       func() int64 { return time.Now().Unix() },
	}, nil
}

func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	log.Printf("🤖 Telegram bot polling as @%s", b.api.Self.UserName)
	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message != nil {
				b.handleIncomingMessage(ctx, update.Message)
			}
		}
	}
}

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.s.Send(msg); err != nil {
		log.Printf("failed to send message: %v", err)
	}
}
