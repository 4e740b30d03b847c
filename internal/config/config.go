package config

import (
	"fmt"
	"os"
	"time"
)

const (
	envCredentialsFile = "AUTOREPLY_CREDENTIALS_FILE"
	envTokenFile       = "AUTOREPLY_TOKEN_FILE"
	envQuery           = "AUTOREPLY_QUERY"
	envLabel           = "AUTOREPLY_LABEL"
	envBody            = "AUTOREPLY_BODY"
	envMinInterval     = "AUTOREPLY_MIN_INTERVAL"
	envMaxInterval     = "AUTOREPLY_MAX_INTERVAL"
)

const defaultBody = "Hi,\n\n" +
	"Thanks for your message. I haven't gotten to it yet, but I'll reply " +
	"personally as soon as I can.\n\n" +
	"This is an automated response.\n"

// Config holds everything the daemon reads from the environment. Every field
// has a default, so an empty environment runs the stock auto-responder.
type Config struct {
	// CredentialsFile is the OAuth client registration JSON ("installed" or
	// "web" key), read once when the interactive flow is needed.
	CredentialsFile string
	// TokenFile is the cached authorized-user credential written after a
	// successful interactive authorization.
	TokenFile string

	// Query selects the threads to inspect each cycle.
	Query string
	// Label is applied to every thread that received an auto-reply.
	Label string
	// Body is the canned reply text.
	Body string

	// MinInterval and MaxInterval bound the randomized poll interval,
	// redrawn before every tick.
	MinInterval time.Duration
	MaxInterval time.Duration
}

// FromEnv builds a Config from environment variables, falling back to
// defaults for anything unset.
func FromEnv() (Config, error) {
	cfg := Config{
		CredentialsFile: getenv(envCredentialsFile, "credentials.json"),
		TokenFile:       getenv(envTokenFile, "token.json"),
		Query:           getenv(envQuery, "is:unread"),
		Label:           getenv(envLabel, "autoreply"),
		Body:            getenv(envBody, defaultBody),
	}

	var err error
	cfg.MinInterval, err = getduration(envMinInterval, 45*time.Second)
	if err != nil {
		return Config{}, err
	}
	cfg.MaxInterval, err = getduration(envMaxInterval, 120*time.Second)
	if err != nil {
		return Config{}, err
	}

	if cfg.MinInterval <= 0 {
		return Config{}, fmt.Errorf("%s must be positive, got %s", envMinInterval, cfg.MinInterval)
	}
	if cfg.MaxInterval < cfg.MinInterval {
		return Config{}, fmt.Errorf("%s (%s) must not be below %s (%s)",
			envMaxInterval, cfg.MaxInterval, envMinInterval, cfg.MinInterval)
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getduration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
