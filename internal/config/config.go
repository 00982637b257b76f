package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config carries the environment-driven settings. Everything has a workable
// default except the optional integrations, which stay off when unset.
type Config struct {
	Port           string
	GinMode        string
	FrontendOrigin string
	KafkaBroker    string
	LogLevel       string
	WordsDir       string
}

// Load reads an optional .env file, then the process environment.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port:           getenv("PORT", "8080"),
		GinMode:        os.Getenv("GIN_MODE"),
		FrontendOrigin: os.Getenv("FRONTEND_ORIGIN"),
		KafkaBroker:    os.Getenv("KAFKA_BROKER"),
		LogLevel:       getenv("LOG_LEVEL", "info"),
		WordsDir:       os.Getenv("WORDS_DIR"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
