package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"govreport/internal/config"
	"govreport/internal/history"
	"govreport/internal/llm"
	"govreport/internal/media"
	"govreport/internal/report"
	"govreport/internal/scheduler"
	"govreport/internal/storage"
	"govreport/internal/telegram"
	"govreport/internal/web"
	"govreport/internal/worker"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg := config.New()

	journal, err := storage.NewFileJournal(cfg.MessagesDir, cfg.LogFilePath)
	if err != nil {
		log.Fatalf("failed to init journal: %v", err)
	}

	systemPrompt := readSystemPrompt(cfg.SystemPromptPath)
	builder := history.NewBuilder(journal, systemPrompt)

	pool := worker.NewPool(cfg.InferenceWorkers)
	gateway := llm.NewGateway(
		llm.NewOpenAI(cfg.InferenceAPIKey, cfg.InferenceBaseURL, cfg.TextModel),
		llm.NewOpenAI(cfg.InferenceAPIKey, cfg.InferenceBaseURL, cfg.VisionModel),
		llm.NewWhisper(cfg.InferenceAPIKey, cfg.InferenceBaseURL, cfg.WhisperModel, cfg.WhisperLanguage),
		pool,
	)

	processor := report.New(journal, gateway, builder)

	bot, err := telegram.New(cfg.TelegramBotToken, processor, journal, cfg.MediaDir)
	if err != nil {
		log.Fatalf("failed to create bot: %v", err)
	}

	sweeper := scheduler.New()
	sweeper.SetSweepFunction(func() {
		cutoff := time.Now().Add(-cfg.MediaRetention)
		for _, dir := range []string{cfg.MediaDir, cfg.UploadsDir} {
			n, err := media.Sweep(dir, cutoff)
			if err != nil {
				log.Printf("media sweep failed for %s: %v", dir, err)
				continue
			}
			if n > 0 {
				log.Printf("swept %d stale media files from %s", n, dir)
			}
		}
	})
	if err := sweeper.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go bot.Start(ctx)

	srv := web.New(processor, journal, cfg.UploadsDir, cfg.StaticDir, cfg.HTTPPort)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("web server failed: %v", err)
		}
	}()

	<-ctx.Done()
	sweeper.Stop()
	if err := srv.Stop(); err != nil {
		log.Printf("failed to stop web server: %v", err)
	}
}

func readSystemPrompt(path string) string {
	if path == "" {
		return ""
	}
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("system prompt file not found or unreadable at %s: %v", path, err)
		return ""
	}
	return string(data)
}
