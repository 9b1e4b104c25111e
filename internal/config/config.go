package config

import (
	"log"
	"os"
	"strings"
)

type Config struct {
	DBPath        string
	TelegramToken string
}

func Load() Config {
	return Config{
		DBPath:        getDBPath(),
		TelegramToken: getBotToken(),
	}
}

func getDBPath() string {
	if p := strings.TrimSpace(os.Getenv("DB_PATH")); p != "" {
		return p
	}
	return defaultDBPath
}

func getBotToken() string {
	if data, err := os.ReadFile("/run/secrets/telegram_bot_token"); err == nil {
		token := strings.TrimSpace(string(data))
		if token != "" {
			return token
		}
	}
	token := strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN"))
	if token != "" {
		return token
	}
	log.Fatal("❌ Токен не найден: отсутствует и Docker Secret, и переменная окружения")
	return ""
}

const defaultDBPath = "delivery_bot.db"
