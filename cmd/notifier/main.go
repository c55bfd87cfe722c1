// Command notifier consumes booking and review events and posts them to the staff
// Discord channel.
package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Luckyraj9295/Bharat-Yatra/internal/config"
	"github.com/Luckyraj9295/Bharat-Yatra/internal/events"
	"github.com/Luckyraj9295/Bharat-Yatra/internal/logging"
	"github.com/Luckyraj9295/Bharat-Yatra/internal/notifier"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.AMQPURL == "" {
		log.Fatal("AMQP_URL is required")
	}

	logger, err := logging.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	session, err := notifier.NewDiscordSession(cfg.DiscordBotToken)
	if err != nil {
		logger.Fatal("discord notifier not initialized", zap.Error(err))
	}
	discord := notifier.NewDiscordNotifier(session, cfg.DiscordNotificationsChannelID)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger.Info("consuming events", zap.String("queue", cfg.EventsQueue))
	err = events.Consume(ctx, cfg.AMQPURL, cfg.EventsQueue, func(ctx context.Context, ev events.Event) error {
		return discord.Notify(ctx, ev)
	}, logger)
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("consumer stopped", zap.Error(err))
	}
}
