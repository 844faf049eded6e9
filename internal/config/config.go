package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Addr        string
	CORSOrigins []string
}

// StoreConfig selects and configures the record store backend.
type StoreConfig struct {
	Backend     string // file, redis or postgres
	RedisURL    string
	PostgresDSN string
	MatchID     string
}

// ExtractionConfig holds vision model configuration.
type ExtractionConfig struct {
	APIKey     string
	Model      string
	PromptPath string
	SchemaPath string
}

// PathsConfig holds every writable location the service uses.
type PathsConfig struct {
	DataDir   string
	UploadDir string
	DebugPath string
}

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	Store      StoreConfig
	Extraction ExtractionConfig
	Paths      PathsConfig
}

// Load reads configuration from environment variables. EPHEMERAL_MODE
// relocates every writable path to the system temp directory for
// deployments without a persistent disk.
func Load() *Config {
	dataDir := getEnv("DATA_DIR", "./data")
	if getEnv("EPHEMERAL_MODE", "") != "" {
		dataDir = filepath.Join(os.TempDir(), "scoresheet-service")
	}

	return &Config{
		Server: ServerConfig{
			Addr:        getEnv("SERVER_ADDR", ":8080"),
			CORSOrigins: splitList(getEnv("CORS_ORIGINS", "*")),
		},
		Store: StoreConfig{
			Backend:     getEnv("STORE_BACKEND", "file"),
			RedisURL:    getEnv("REDIS_URL", "redis://localhost:6379"),
			PostgresDSN: getEnv("POSTGRES_DSN", ""),
			MatchID:     getEnv("MATCH_ID", "current"),
		},
		Extraction: ExtractionConfig{
			APIKey:     firstEnv("GEMINI_API_KEY", "GOOGLE_API_KEY"),
			Model:      getEnv("SCORESHEET_MODEL", "gemini-1.5-flash"),
			PromptPath: getEnv("PROMPT_FILE", ""),
			SchemaPath: getEnv("SCHEMA_FILE", ""),
		},
		Paths: PathsConfig{
			DataDir:   dataDir,
			UploadDir: filepath.Join(dataDir, "uploads"),
			DebugPath: filepath.Join(dataDir, "last_extraction.json"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// firstEnv returns the first non-empty value among the given variables.
func firstEnv(keys ...string) string {
	for _, key := range keys {
		if value := os.Getenv(key); value != "" {
			return value
		}
	}
	return ""
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
