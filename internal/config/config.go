package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v6"
)

type Config struct {
	TelegramBotToken string `env:"TELEGRAM_BOT_TOKEN,required"`

	// Inference engine (any OpenAI-compatible server, e.g. a local Ollama)
	InferenceBaseURL string `env:"INFERENCE_BASE_URL" envDefault:"http://localhost:11434/v1"`
	InferenceAPIKey  string `env:"INFERENCE_API_KEY" envDefault:"local"`
	TextModel        string `env:"TEXT_MODEL" envDefault:"llama3.2"`
	VisionModel      string `env:"VISION_MODEL" envDefault:"llava"`

	// Speech-to-text
	WhisperModel    string `env:"WHISPER_MODEL" envDefault:"base"`
	WhisperLanguage string `env:"WHISPER_LANGUAGE" envDefault:"en"`

	// Prompts
	SystemPromptPath string `env:"SYSTEM_PROMPT_PATH" envDefault:"prompts/system_prompt.txt"`

	// Storage
	MessagesDir string `env:"MESSAGES_DIR" envDefault:"data/messages"`
	LogFilePath string `env:"LOG_FILE_PATH" envDefault:"logs/logs.jsonl"`
	MediaDir    string `env:"MEDIA_DIR" envDefault:"data/media"`
	UploadsDir  string `env:"UPLOADS_DIR" envDefault:"data/uploads"`
	StaticDir   string `env:"STATIC_DIR" envDefault:"static"`

	// Web channel
	HTTPPort int `env:"HTTP_PORT" envDefault:"8080"`

	// Inference dispatch
	InferenceWorkers int `env:"INFERENCE_WORKERS" envDefault:"4"`

	// Downloaded media older than this is swept; logs are never touched.
	MediaRetention time.Duration `env:"MEDIA_RETENTION" envDefault:"72h"`
}

func New() *Config {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	return cfg
}
