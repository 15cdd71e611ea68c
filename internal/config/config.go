package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// developmentTokenSecret signs tokens when the mock database is in use and no
// secret was configured.
const developmentTokenSecret = "ava-development-secret"

// Config captures the runtime configuration for the application.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Logging  LoggingConfig
	Auth     AuthConfig
	OCR      OCRConfig
	LLM      LLMConfig
	Catalog  CatalogConfig
}

// ServerConfig configures the HTTP server runtime behavior.
type ServerConfig struct {
	Addr string
}

// DatabaseConfig contains the database connection settings. URLs starting
// with "sqlite:" or "file:" open a sqlite database; anything else is handed
// to the postgres driver.
type DatabaseConfig struct {
	URL             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	UseMock         bool
}

// LoggingConfig controls the global logger.
type LoggingConfig struct {
	Level string
}

// AuthConfig groups the web session and bearer token settings.
type AuthConfig struct {
	Session SessionConfig
	Token   TokenConfig
}

// SessionConfig configures the cookie session used by browser clients.
type SessionConfig struct {
	Lifetime     time.Duration
	CookieName   string
	CookieDomain string
	CookieSecure bool
}

// TokenConfig configures the signed bearer tokens handed to the mobile app.
type TokenConfig struct {
	Secret string
	TTL    time.Duration
}

// OCRConfig selects and configures the label text extractor.
type OCRConfig struct {
	Provider       string
	AWSRegion      string
	MistralAPIKey  string
	MistralBaseURL string
	MistralModel   string
}

// LLMConfig selects and configures the assistant's response generator.
type LLMConfig struct {
	Provider              string
	OpenAIAPIKey          string
	OpenAIModel           string
	OpenAIBaseURL         string
	GoogleProjectID       string
	GoogleLocation        string
	GoogleCredentialsFile string
	VertexModel           string
}

// CatalogConfig controls the in-memory ingredient catalog snapshot.
type CatalogConfig struct {
	CacheTTL time.Duration
}

// LoadDotenv loads variables from the given .env files, or ".env" when none
// are given. Missing files are ignored and existing variables win.
func LoadDotenv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
	}
	return nil
}

// DatabaseFromEnv reads only the database settings. Tools that need a
// database but not the HTTP server use it instead of Load.
func DatabaseFromEnv() DatabaseConfig {
	return DatabaseConfig{
		URL: firstNonEmpty(
			os.Getenv("DATABASE_URL"),
			os.Getenv("DB_URL"),
		),
		MaxIdleConns:    parseIntWithDefault(os.Getenv("DATABASE_MAX_IDLE_CONNS"), 5),
		MaxOpenConns:    parseIntWithDefault(os.Getenv("DATABASE_MAX_OPEN_CONNS"), 25),
		ConnMaxLifetime: parseDurationWithDefault(os.Getenv("DATABASE_CONN_MAX_LIFETIME"), 30*time.Minute),
		ConnMaxIdleTime: parseDurationWithDefault(os.Getenv("DATABASE_CONN_MAX_IDLE_TIME"), 5*time.Minute),
		UseMock:         parseBoolWithDefault(os.Getenv("DATABASE_USE_MOCK"), false),
	}
}

// Load inspects the environment and builds a Config value.
func Load() (Config, error) {
	cfg := Config{}

	port := strings.TrimSpace(os.Getenv("PORT"))
	if port != "" {
		port = ":" + port
	}
	cfg.Server = ServerConfig{
		Addr: firstNonEmpty(
			os.Getenv("SERVER_ADDR"),
			os.Getenv("ADDR"),
			port,
			":8080",
		),
	}

	cfg.Database = DatabaseFromEnv()

	cfg.Logging = LoggingConfig{
		Level: strings.ToLower(firstNonEmpty(os.Getenv("LOG_LEVEL"), "info")),
	}

	cfg.Auth = AuthConfig{
		Session: SessionConfig{
			Lifetime:     parseDurationWithDefault(os.Getenv("SESSION_LIFETIME"), 24*time.Hour),
			CookieName:   firstNonEmpty(os.Getenv("SESSION_COOKIE_NAME"), "ava_session"),
			CookieDomain: strings.TrimSpace(os.Getenv("SESSION_COOKIE_DOMAIN")),
			CookieSecure: parseBoolWithDefault(os.Getenv("SESSION_COOKIE_SECURE"), true),
		},
		Token: TokenConfig{
			Secret: firstNonEmpty(os.Getenv("JWT_SECRET"), os.Getenv("AUTH_TOKEN_SECRET")),
			TTL:    parseDurationWithDefault(os.Getenv("AUTH_TOKEN_TTL"), 7*24*time.Hour),
		},
	}

	cfg.OCR = OCRConfig{
		Provider:       strings.ToLower(firstNonEmpty(os.Getenv("OCR_PROVIDER"), "mock")),
		AWSRegion:      firstNonEmpty(os.Getenv("AWS_REGION"), os.Getenv("AWS_DEFAULT_REGION"), "us-east-1"),
		MistralAPIKey:  strings.TrimSpace(os.Getenv("MISTRAL_API_KEY")),
		MistralBaseURL: firstNonEmpty(os.Getenv("MISTRAL_BASE_URL"), "https://api.mistral.ai/v1"),
		MistralModel:   firstNonEmpty(os.Getenv("MISTRAL_OCR_MODEL"), "mistral-ocr-latest"),
	}

	cfg.LLM = LLMConfig{
		Provider:              strings.ToLower(firstNonEmpty(os.Getenv("LLM_PROVIDER"), "mock")),
		OpenAIAPIKey:          strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		OpenAIModel:           firstNonEmpty(os.Getenv("OPENAI_MODEL"), "gpt-4o-mini"),
		OpenAIBaseURL:         firstNonEmpty(os.Getenv("OPENAI_BASE_URL"), "https://api.openai.com/v1"),
		GoogleProjectID:       firstNonEmpty(os.Getenv("GOOGLE_PROJECT_ID"), os.Getenv("GOOGLE_CLOUD_PROJECT")),
		GoogleLocation:        firstNonEmpty(os.Getenv("GOOGLE_LOCATION"), "us-central1"),
		GoogleCredentialsFile: strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")),
		VertexModel:           firstNonEmpty(os.Getenv("VERTEX_MODEL"), "gemini-1.5-flash"),
	}

	cfg.Catalog = CatalogConfig{
		CacheTTL: parseDurationWithDefault(os.Getenv("CATALOG_CACHE_TTL"), 5*time.Minute),
	}

	if strings.TrimSpace(cfg.Server.Addr) == "" {
		return Config{}, fmt.Errorf("server address must not be empty")
	}
	if !cfg.Database.UseMock && strings.TrimSpace(cfg.Database.URL) == "" {
		return Config{}, fmt.Errorf("database URL must be set unless DATABASE_USE_MOCK is enabled")
	}
	if cfg.Auth.Token.Secret == "" {
		if !cfg.Database.UseMock {
			return Config{}, fmt.Errorf("JWT_SECRET must be set")
		}
		cfg.Auth.Token.Secret = developmentTokenSecret
	}

	return cfg, nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

func parseIntWithDefault(value string, def int) int {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return def
	}
	return parsed
}

func parseDurationWithDefault(value string, def time.Duration) time.Duration {
	parsed, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return def
	}
	return parsed
}

func parseBoolWithDefault(value string, def bool) bool {
	parsed, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return def
	}
	return parsed
}
