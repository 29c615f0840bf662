package common

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	LLM      LLMConfig
	Extract  ExtractConfig
	Resource ResourceConfig
	Database DatabaseConfig
	Analysis AnalysisConfig
	Log      LogConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	GRPCAddr       string
	MaxSessions    int
	SessionIdleTTL time.Duration
}

// LLMConfig holds LLM-related configuration
type LLMConfig struct {
	Provider    string // "gemini" | "openai"
	Model       string
	APIKey      string
	BaseURL     string
	Temperature float32
	MaxTokens   int    // 0 = provider default
	OpenAIOrg   string // optional OpenAI-Organization header
	Timeout     time.Duration
	Lenient     bool // repair near-miss JSON before rejecting it
}

// ExtractConfig holds PDF text extraction configuration
type ExtractConfig struct {
	Pdftotext     string
	Pdftoppm      string
	Tesseract     string
	TessdataDir   string
	TesseractLang string
	DPI           int
	MaxPages      int
	MaxUploadMB   int
}

// ResourceConfig selects where binary document views live.
type ResourceConfig struct {
	Store    string // "memory" | "redis"
	RedisURL string
	TTL      time.Duration
}

// DatabaseConfig holds run-ledger configuration. An empty DSN disables the ledger.
type DatabaseConfig struct {
	DSN             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	DialTimeout     time.Duration
}

// AnalysisConfig tunes the orchestrator.
type AnalysisConfig struct {
	TickInterval    time.Duration
	RiskAttempts    int
	RiskBackoffStep time.Duration
	RunTimeout      time.Duration
}

// LogConfig controls the slog handler.
type LogConfig struct {
	Level  string
	Format string // "json" | "text"
	File   string // optional rotated log file
}

// LoadConfig loads configuration from environment variables. A .env file in the
// working directory is read first when present; real env vars win.
func LoadConfig() *Config {
	_ = godotenv.Load()

	provider := strings.ToLower(getEnv("LLM_PROVIDER", "gemini"))
	apiKey := getEnv("LLM_API_KEY", "")
	if apiKey == "" {
		if provider == "openai" {
			apiKey = getEnv("OPENAI_API_KEY", "")
		} else {
			apiKey = getEnv("GEMINI_API_KEY", getEnv("GOOGLE_API_KEY", ""))
		}
	}
	defaultModel := "gemini-2.0-flash"
	if provider == "openai" {
		defaultModel = "gpt-4o-mini"
	}

	return &Config{
		Server: ServerConfig{
			GRPCAddr:       getEnv("GRPC_ADDR", ":8080"),
			MaxSessions:    getEnvAsInt("MAX_SESSIONS", 100),
			SessionIdleTTL: getEnvAsDuration("SESSION_IDLE_TTL", 30*time.Minute),
		},
		LLM: LLMConfig{
			Provider:    provider,
			Model:       getEnv("LLM_MODEL", defaultModel),
			APIKey:      apiKey,
			BaseURL:     getEnv("LLM_BASE_URL", ""),
			Temperature: getEnvAsFloat32("LLM_TEMPERATURE", 0.0),
			MaxTokens:   getEnvAsInt("LLM_MAX_TOKENS", 0),
			OpenAIOrg:   getEnv("OPENAI_ORGANIZATION", ""),
			Timeout:     getEnvAsDuration("LLM_TIMEOUT", 60*time.Second),
			Lenient:     getEnvAsBool("LLM_LENIENT", true),
		},
		Extract: ExtractConfig{
			Pdftotext:     getEnv("PDFTOTEXT_BIN", "pdftotext"),
			Pdftoppm:      getEnv("PDFTOPPM_BIN", "pdftoppm"),
			Tesseract:     getEnv("TESSERACT_BIN", "tesseract"),
			TessdataDir:   getEnv("TESSDATA_PREFIX", ""),
			TesseractLang: getEnv("TESSERACT_LANG", "eng"),
			DPI:           getEnvAsInt("OCR_DPI", 300),
			MaxPages:      getEnvAsInt("OCR_MAX_PAGES", 0),
			MaxUploadMB:   getEnvAsInt("MAX_UPLOAD_MB", 20),
		},
		Resource: ResourceConfig{
			Store:    strings.ToLower(getEnv("VIEW_STORE", "memory")),
			RedisURL: getEnv("REDIS_URL", "redis://localhost:6379/0"),
			TTL:      getEnvAsDuration("VIEW_TTL", 2*time.Hour),
		},
		Database: DatabaseConfig{
			DSN:             getEnv("DB_URL", ""),
			MaxConns:        getEnvAsInt32("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt32("DB_MIN_CONNS", 1),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
			DialTimeout:     getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
		},
		Analysis: AnalysisConfig{
			TickInterval:    getEnvAsDuration("ANALYSIS_TICK", time.Second),
			RiskAttempts:    getEnvAsInt("RISK_MAX_ATTEMPTS", 3),
			RiskBackoffStep: getEnvAsDuration("RISK_BACKOFF_STEP", 2*time.Second),
			RunTimeout:      getEnvAsDuration("ANALYSIS_TIMEOUT", 5*time.Minute),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
			File:   getEnv("LOG_FILE", ""),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.LLM.APIKey == "" {
		return NewAppError(CodeConfig, "LLM_API_KEY is required", ErrInvalidInput)
	}
	switch c.LLM.Provider {
	case "gemini", "openai":
	default:
		return NewAppError(CodeConfig, "LLM_PROVIDER must be gemini or openai", ErrInvalidInput)
	}
	switch c.Resource.Store {
	case "memory", "redis":
	default:
		return NewAppError(CodeConfig, "VIEW_STORE must be memory or redis", ErrInvalidInput)
	}
	if c.Analysis.RiskAttempts < 1 {
		return NewAppError(CodeConfig, "RISK_MAX_ATTEMPTS must be at least 1", ErrInvalidInput)
	}
	return nil
}
