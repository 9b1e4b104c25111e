package main

import (
	"telegram-delivery-bot/internal/bot"
	"telegram-delivery-bot/internal/config"
	"telegram-delivery-bot/internal/flow"
	"telegram-delivery-bot/internal/scheduler"
	"telegram-delivery-bot/internal/session"
	"telegram-delivery-bot/internal/storage"
	"telegram-delivery-bot/internal/utils"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load() // TELEGRAM_BOT_TOKEN, DB_PATH

	cfg := config.Load()

	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	utils.Must(err)

	// no schema -> no service
	db, err := storage.New(cfg.DBPath)
	utils.Must(err)

	_, err = scheduler.Start(db)
	utils.Must(err)

	engine := flow.NewEngine(session.NewMemoryStore(), db)
	bot.New(api, engine).Run()
}
