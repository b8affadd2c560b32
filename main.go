package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/anthropics/tg-awaybot/awaybot"
	"github.com/anthropics/tg-awaybot/internal/conf"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := conf.LoadFromEnv()

	bot, err := awaybot.New(cfg)
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Println("\nShutting down...")
		bot.Stop()
		os.Exit(0)
	}()

	fmt.Println("Starting Telegram away bot...")
	if err := bot.Start(); err != nil {
		log.Fatalf("Bot error: %v", err)
	}
}
