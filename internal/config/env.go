package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Environment variables consulted for the Gemini key, in order.
const (
	EnvGeminiAPIKey = "GEMINI_API_KEY"
	EnvAPIKey       = "API_KEY"
)

// LoadEnv loads variables from the .env file at path, if it exists.
// Variables already set in the process environment win.
func LoadEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}

// GeminiAPIKeyFromEnv returns the ambient Gemini key, or "".
func GeminiAPIKeyFromEnv() string {
	if key := os.Getenv(EnvGeminiAPIKey); key != "" {
		return key
	}
	return os.Getenv(EnvAPIKey)
}
