package config

import (
	"fmt"
	"strings"
	"time"

	env "github.com/Netflix/go-env"
	"github.com/joho/godotenv"
)

type Config struct {
	HostPort        string        `env:"HOST_PORT,default=8080"`
	DevMode         bool          `env:"DEV_MODE,default=false"`
	AllowedOrigins  string        `env:"ALLOWED_ORIGINS"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT,default=10s"`

	CanvasBackground  string  `env:"CANVAS_BACKGROUND,default=#ffffff"`
	HistoryLimit      int     `env:"HISTORY_LIMIT,default=0"`
	MessagesPerSecond float64 `env:"MESSAGES_PER_SECOND,default=20"`
	BurstLimit        int     `env:"BURST_LIMIT,default=30"`

	RedisEndpoint string `env:"REDIS_ENDPOINT"`

	SQSEndpoint             string        `env:"SQS_ENDPOINT"`
	TranscriptQueue         string        `env:"TRANSCRIPT_QUEUE"`
	TranscriptFlushInterval time.Duration `env:"TRANSCRIPT_FLUSH_INTERVAL,default=2s"`
	ControlQueue            string        `env:"CONTROL_QUEUE"`
}

// Load reads an optional .env file, then the environment. Variables already
// set in the environment win over the file.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return Config{}, fmt.Errorf("config error: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.HistoryLimit < 0 {
		return fmt.Errorf("HISTORY_LIMIT must not be negative, got %d", c.HistoryLimit)
	}
	if c.MessagesPerSecond <= 0 {
		return fmt.Errorf("MESSAGES_PER_SECOND must be positive, got %v", c.MessagesPerSecond)
	}
	if c.BurstLimit < 1 {
		return fmt.Errorf("BURST_LIMIT must be at least 1, got %d", c.BurstLimit)
	}
	if c.TranscriptFlushInterval <= 0 {
		return fmt.Errorf("TRANSCRIPT_FLUSH_INTERVAL must be positive, got %v", c.TranscriptFlushInterval)
	}
	if c.DevMode && (c.TranscriptQueue != "" || c.ControlQueue != "") && c.SQSEndpoint == "" {
		return fmt.Errorf("SQS_ENDPOINT is required in dev mode when a queue is configured")
	}
	return nil
}

// Origins splits ALLOWED_ORIGINS on commas, dropping empty entries.
func (c Config) Origins() []string {
	origins := []string{}
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
