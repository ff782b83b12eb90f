package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port string
	Env  string

	// Database
	DatabaseURL string

	// Redis
	RedisURL string

	// JWT
	JWTSecret string

	// Chat proxy. Only the provider selection is captured here; the upstream
	// credential is read from the environment at request time so late
	// configuration is tolerated.
	ChatProvider string
	ChatProxyURL string

	// Product recommender (Groq-hosted, OpenAI-compatible)
	RecommendBaseURL string
	RecommendModel   string
	RecommendAPIKey  string

	// Static assets (system prompt, quick questions, materi catalog)
	DataPath string

	// Frontend
	FrontendURL string

	// Rate limiting on the chat proxy route
	ProxyRateLimit int
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:             getEnvOrDefault("PORT", "8080"),
		Env:              getEnvOrDefault("ENV", "development"),
		DatabaseURL:      mustGetEnv("DATABASE_URL"),
		RedisURL:         mustGetEnv("REDIS_URL"),
		JWTSecret:        mustGetEnv("JWT_SECRET"),
		ChatProvider:     getEnvOrDefault("CHAT_PROVIDER", "chutes"),
		ChatProxyURL:     getEnvOrDefault("CHAT_PROXY_URL", "http://localhost:8080"),
		RecommendBaseURL: getEnvOrDefault("RECOMMEND_BASE_URL", "https://api.groq.com/openai/v1"),
		RecommendModel:   getEnvOrDefault("RECOMMEND_MODEL", "llama3-8b-8192"),
		RecommendAPIKey:  getEnvOrDefault("GROQ_API_KEY", ""),
		DataPath:         getEnvOrDefault("DATA_PATH", "./data"),
		FrontendURL:      getEnvOrDefault("FRONTEND_URL", "http://localhost:5173"),
		ProxyRateLimit:   getEnvAsIntOrDefault("PROXY_RATE_LIMIT", 20),
	}

	return cfg
}

func mustGetEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic(fmt.Sprintf("required environment variable %s is not set", key))
	}
	return val
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}
