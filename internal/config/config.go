package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// LLM provider identifiers.
const (
	ProviderGoogleAI  = "googleai"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderOllama    = "ollama"
	ProviderBedrock   = "bedrock"
)

// Config holds all configuration values.
type Config struct {
	// LLM provider
	LLMProvider     string
	LLMModel        string
	GoogleAPIKey    string
	OpenAIAPIKey    string
	AnthropicAPIKey string
	OllamaHost      string

	// SurrealDB store (showcase cache + wishlist)
	StoreURL       string
	StoreNamespace string
	StoreDatabase  string
	StoreUser      string
	StorePass      string

	// Affiliate
	AmazonTag      string
	MercadoLivreID string
	AffiliateRules string // optional YAML rule file path

	// Showcase
	ShowcaseTTL  time.Duration
	ShowcaseSize int

	// Serve mode
	ListenAddr string

	// Logging
	LogFile  string
	LogLevel slog.Level
}

// Load reads configuration from environment variables.
func Load() Config {
	return Config{
		LLMProvider:     getEnv("SHOPCHAT_LLM_PROVIDER", ProviderGoogleAI),
		LLMModel:        getEnv("SHOPCHAT_LLM_MODEL", "gemini-2.5-flash"),
		GoogleAPIKey:    getEnv("GOOGLE_API_KEY", os.Getenv("API_KEY")),
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		OllamaHost:      getEnv("OLLAMA_HOST", "http://localhost:11434"),

		StoreURL:       getEnv("SHOPCHAT_STORE_URL", "ws://localhost:8000/rpc"),
		StoreNamespace: getEnv("SHOPCHAT_STORE_NAMESPACE", "shopchat"),
		StoreDatabase:  getEnv("SHOPCHAT_STORE_DATABASE", "store"),
		StoreUser:      getEnv("SHOPCHAT_STORE_USER", "root"),
		StorePass:      getEnv("SHOPCHAT_STORE_PASS", "root"),

		AmazonTag:      getEnv("SHOPCHAT_AMAZON_TAG", "shopai-20"),
		MercadoLivreID: getEnv("SHOPCHAT_MERCADOLIVRE_ID", "123456789"),
		AffiliateRules: os.Getenv("SHOPCHAT_AFFILIATE_RULES"),

		ShowcaseTTL:  getEnvDuration("SHOPCHAT_SHOWCASE_TTL", 24*time.Hour),
		ShowcaseSize: getEnvInt("SHOPCHAT_SHOWCASE_SIZE", 10),

		ListenAddr: getEnv("SHOPCHAT_LISTEN_ADDR", ":8484"),

		LogFile:  getEnv("SHOPCHAT_LOG_FILE", "/tmp/shopchat.log"),
		LogLevel: parseLogLevel(getEnv("SHOPCHAT_LOG_LEVEL", "INFO")),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
