package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port          string
	DatabaseURL   string
	RoomTTL       int // seconds
	HistoryLimit  int
	AllowedOrigin string
}

func Load() Config {
	cfg := Config{
		Port:          getEnv("PORT", "8080"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RoomTTL:       getEnvInt("ROOM_TTL", 600),
		HistoryLimit:  getEnvInt("HISTORY_LIMIT", 100),
		AllowedOrigin: getEnv("ALLOWED_ORIGIN", "*"),
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
