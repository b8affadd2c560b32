package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/anthropics/tg-awaybot/telegram"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	token := os.Getenv("BOT_TOKEN")
	if token == "" {
		fmt.Println("Error: BOT_TOKEN must be set")
		os.Exit(1)
	}

	if len(os.Args) < 3 {
		fmt.Println("Usage: send-message <chat_id> <message>")
		os.Exit(1)
	}

	chatID, err := strconv.ParseInt(os.Args[1], 10, 64)
	if err != nil {
		fmt.Printf("Error: invalid chat id %q\n", os.Args[1])
		os.Exit(1)
	}
	message := os.Args[2]

	client := telegram.NewClient(token, os.Getenv("TELEGRAM_BASE_URL"), 0)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := client.SendText(ctx, chatID, message); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Message sent successfully!")
}
