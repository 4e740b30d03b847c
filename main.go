// Command gmail-autoreply polls a Gmail account for unread threads and sends
// a canned reply to every conversation the account owner has not answered,
// labeling handled threads.
package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"gmail-autoreply/internal/autoreply"
	"gmail-autoreply/internal/config"
	"gmail-autoreply/internal/googleauth"
	"gmail-autoreply/internal/logger"
	"gmail-autoreply/internal/mailbox"
)

func main() {
	// Load environment variables from .env file if it exists
	if err := godotenv.Load(); err == nil {
		log.Printf("Loaded .env file")
	}

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	zlog := logger.GetLogger()
	defer zlog.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	responder := autoreply.New(cfg, zlog, func(ctx context.Context) (mailbox.Service, error) {
		session, err := googleauth.NewSession(ctx, cfg.CredentialsFile, cfg.TokenFile)
		if err != nil {
			return nil, err
		}
		return mailbox.NewGmail(ctx, session.TokenSource)
	})

	driver := &autoreply.Driver{
		Responder:   responder,
		MinInterval: cfg.MinInterval,
		MaxInterval: cfg.MaxInterval,
		Log:         zlog,
	}

	zlog.Infow("gmail auto-reply daemon starting",
		"credentials", cfg.CredentialsFile,
		"tokenCache", cfg.TokenFile,
		"query", cfg.Query,
		"label", cfg.Label,
		"minInterval", cfg.MinInterval,
		"maxInterval", cfg.MaxInterval,
	)

	if err := driver.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		zlog.Errorw("driver stopped", "error", err)
		os.Exit(1)
	}

	zlog.Info("shutdown complete")
}
