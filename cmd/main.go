// Package main provides the entry point for the YouTube Audio Bot: a
// Telegram bot that converts YouTube videos to MP3, replies with the file
// and keeps a copy in cloud storage.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ytaudiobot/internal/api/handlers"
	"ytaudiobot/internal/api/router"
	"ytaudiobot/internal/bot"
	"ytaudiobot/internal/config"
	"ytaudiobot/internal/services/pipeline"
	"ytaudiobot/internal/services/storage"
	"ytaudiobot/internal/services/telegram"
	"ytaudiobot/internal/services/youtube"
	"ytaudiobot/internal/utils"
)

func main() {
	// Missing credentials stop the process before any message is accepted
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := utils.GetLogger()
	logger.Info("Starting YouTube Audio Bot")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize cloud storage
	cloudStorage, err := storage.NewStorage(ctx, cfg)
	if err != nil {
		logger.Fatalf("Failed to initialize storage: %v", err)
	}
	logger.Infof("Using %s storage backend", cloudStorage.Backend())

	// Initialize Telegram client
	chatClient, err := telegram.NewBotClient(&cfg.Telegram)
	if err != nil {
		logger.Fatalf("Failed to initialize Telegram client: %v", err)
	}

	if err := chatClient.Connect(ctx); err != nil {
		logger.Fatalf("Failed to connect to Telegram: %v", err)
	}

	// Initialize pipeline and bot
	youtubeClient := youtube.NewClient()
	requestPipeline := pipeline.NewPipeline(youtubeClient, chatClient, cloudStorage, cfg)
	audioBot := bot.New(chatClient, youtubeClient, requestPipeline)

	// Health endpoints for the hosting platform
	healthHandler := handlers.NewHealthHandler(chatClient, cloudStorage)
	r := router.NewRouter(cfg, healthHandler)

	go func() {
		logger.Infof("Starting health server on %s:%s", cfg.Server.Host, cfg.Server.Port)
		if err := r.Start(); err != nil {
			logger.Fatalf("Failed to start health server: %v", err)
		}
	}()

	go audioBot.Run(ctx)
	logger.Info("Bot is running")

	// Wait for termination signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := r.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Failed to shut down health server: %v", err)
	}

	if err := chatClient.Close(); err != nil {
		logger.Errorf("Failed to close Telegram client: %v", err)
	}

	logger.Info("Shutdown complete")
}
