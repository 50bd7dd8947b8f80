package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config carries the runtime settings for the service. Everything comes from
// environment variables; a .env file is loaded first when STAGE is local.
type Config struct {
	Stage string
	Port  string `validate:"required,numeric"`

	// ReminderTable selects the DynamoDB backend when set; the embedded
	// in-memory store is used otherwise.
	ReminderTable string

	SweepInterval time.Duration `validate:"min=1000000000"` // at least a second
	FeedBuffer    int           `validate:"min=1"`
	BatchSize     int           `validate:"min=1"`
	BatchLinger   time.Duration `validate:"min=1000000"` // at least a millisecond

	TwilioFromNumber string `validate:"omitempty,e164"`
	MailgunDomain    string
	MailgunApiKey    string
	EmailSender      string `validate:"omitempty,email"`
}

// Load reads the environment and validates the resulting settings.
func Load() (*Config, error) {
	if os.Getenv("STAGE") == "local" {
		if err := godotenv.Load(".env"); err != nil {
			return nil, fmt.Errorf("unable to load .env file: %w", err)
		}
	}

	sweepInterval, err := durationEnv("SWEEP_INTERVAL", time.Second*30)
	if err != nil {
		return nil, err
	}
	batchLinger, err := durationEnv("BATCH_LINGER", time.Second)
	if err != nil {
		return nil, err
	}
	feedBuffer, err := intEnv("FEED_BUFFER", 64)
	if err != nil {
		return nil, err
	}
	batchSize, err := intEnv("BATCH_SIZE", 10)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Stage:            os.Getenv("STAGE"),
		Port:             getenvDefault("PORT", "8080"),
		ReminderTable:    os.Getenv("REMINDER_TABLE"),
		SweepInterval:    sweepInterval,
		FeedBuffer:       feedBuffer,
		BatchSize:        batchSize,
		BatchLinger:      batchLinger,
		TwilioFromNumber: os.Getenv("TWILIO_FROM_NUMBER"),
		MailgunDomain:    os.Getenv("MAILGUN_DOMAIN"),
		MailgunApiKey:    os.Getenv("MAILGUN_API_KEY"),
		EmailSender:      os.Getenv("EMAIL_SENDER"),
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func intEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return i, nil
}
