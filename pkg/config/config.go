package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const (
	BackendPostgres  = "postgres"
	BackendFirestore = "firestore"

	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

type Config struct {
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	AutoMigrate      bool

	StoreBackend       string
	FirestoreProjectID string
	GoogleCredentials  string

	RedisAddr            string
	RedisPassword        string
	RedisDB              int
	InstructionsCacheTTL time.Duration

	TextProvider  string
	GeminiAPIKey  string
	GeminiModel   string
	GeminiBaseURL string
	OpenAIKey     string
	OpenAIModel   string
	ImageBaseURL  string

	TelegramToken      string
	TelegramWebhookURL string
	ServerHost         string
	ServerPort         string
	JWTSigningKey      string
	LogLevel           string
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		logrus.Warn(".env file not found, using process environment")
	}

	return &Config{
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "postgres"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "postgres"),
		PostgresDB:       getEnv("POSTGRES_DB", "genstudio"),
		AutoMigrate:      getEnvBool("AUTO_MIGRATE", true),

		StoreBackend:       getEnv("STORE_BACKEND", BackendPostgres),
		FirestoreProjectID: getEnv("FIRESTORE_PROJECT_ID", ""),
		GoogleCredentials:  getEnv("GOOGLE_CREDENTIALS", ""),

		RedisAddr:            getEnv("REDIS_ADDR", ""),
		RedisPassword:        getEnv("REDIS_PASSWORD", ""),
		RedisDB:              getEnvInt("REDIS_DB", 0),
		InstructionsCacheTTL: getEnvDuration("INSTRUCTIONS_CACHE_TTL", time.Minute),

		TextProvider:  getEnv("TEXT_PROVIDER", ProviderGemini),
		GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
		GeminiModel:   getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		GeminiBaseURL: getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
		OpenAIKey:     getEnv("OPENAI_KEY", ""),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-4.1"),
		ImageBaseURL:  getEnv("IMAGE_BASE_URL", "https://image.pollinations.ai"),

		TelegramToken:      getEnv("TELEGRAM_TOKEN", ""),
		TelegramWebhookURL: getEnv("TELEGRAM_WEBHOOK_URL", ""),
		ServerHost:         getEnv("SERVER_HOST", "0.0.0.0"),
		ServerPort:         getEnv("SERVER_PORT", "8080"),
		JWTSigningKey:      getEnv("JWT_SIGNING_KEY", "your-secret-signing-key"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
	}
}

// DefaultCredential returns the server-side key for the configured text provider.
func (c *Config) DefaultCredential() string {
	if c.TextProvider == ProviderOpenAI {
		return c.OpenAIKey
	}
	return c.GeminiAPIKey
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		logrus.Warnf("Invalid integer in %s=%q, using %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		logrus.Warnf("Invalid boolean in %s=%q, using %t", key, value, defaultValue)
		return defaultValue
	}
	return b
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		logrus.Warnf("Invalid duration in %s=%q, using %s", key, value, defaultValue)
		return defaultValue
	}
	return d
}
