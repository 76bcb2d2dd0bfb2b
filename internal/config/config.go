package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	ServerPort    string
	ReconcileCron string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("no .env file found, using system environment variables")
	}

	return &Config{
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "5432"),
		DBUser:        getEnv("DB_USER", "todo_user"),
		DBPassword:    getEnv("DB_PASSWORD", "todo_pass"),
		DBName:        getEnv("DB_NAME", "todo_db"),
		ServerPort:    getEnv("SERVER_PORT", "8080"),
		ReconcileCron: getEnv("RECONCILE_CRON", "0 * * * *"),
	}
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}
