package config

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const maxConfigFileSize = 1 << 20

// AIConfig is the explicit configuration handed to the AI gateway at startup.
type AIConfig struct {
	Provider string
	Model    string
	APIKey   string
	Timeout  time.Duration
}

// Configured reports whether a model credential is present.
func (c AIConfig) Configured() bool {
	return strings.TrimSpace(c.APIKey) != ""
}

// Config holds application configuration.
type Config struct {
	Port            string
	Env             string
	DatabaseURL     string
	CORSAllowOrigin []string
	SpoolStoreType  string
	SpoolDir        string
	AWSRegion       string
	S3Bucket        string
	S3Prefix        string
	S3KMSKeyID      string
	JWTSecret       string
	JWTTTL          time.Duration
	AI              AIConfig
}

// Load reads configuration from .env files, an optional YAML file named by CONFIG_FILE,
// and environment variables, in increasing order of precedence.
func Load() (Config, error) {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	k := koanf.New(".")
	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		raw, err := readConfigFile(path)
		if err != nil {
			return Config{}, err
		}
		if err := k.Load(rawbytes.Provider(raw), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load config file %s: %w", path, err)
		}
	}
	// Flat keys: PORT -> port, GEMINI_API_KEY -> gemini_api_key. Empty variables
	// are skipped so they do not mask values from the file.
	if err := k.Load(env.ProviderWithValue("", ".", envValue), nil); err != nil {
		return Config{}, fmt.Errorf("load env: %w", err)
	}

	return FromKoanf(k), nil
}

func envValue(key, value string) (string, any) {
	if strings.TrimSpace(value) == "" {
		return "", nil
	}
	return strings.ToLower(key), value
}

// FromKoanf maps loaded keys onto Config, applying defaults.
func FromKoanf(k *koanf.Koanf) Config {
	envName := normalizeEnv(getString(k, "env", "dev"))
	provider := normalizeProvider(getString(k, "ai_provider", "gemini"))

	model := getString(k, "ai_model", "")
	if model == "" {
		model = getString(k, "genai_model", "")
	}
	if model == "" {
		model = defaultModel(provider)
	}

	apiKey := getString(k, "gemini_api_key", "")
	if provider == "openai" {
		apiKey = getString(k, "openai_api_key", "")
	}

	return Config{
		Port:            getString(k, "port", "8080"),
		Env:             envName,
		DatabaseURL:     getString(k, "database_url", ""),
		CORSAllowOrigin: splitAndTrim(getString(k, "cors_allow_origins", "http://localhost:5173")),
		SpoolStoreType:  normalizeStoreType(getString(k, "spool_store", "local")),
		SpoolDir:        getString(k, "spool_dir", "./data/uploads"),
		AWSRegion:       getString(k, "aws_region", ""),
		S3Bucket:        getString(k, "s3_bucket", ""),
		S3Prefix:        getString(k, "s3_prefix", "uploads/"),
		S3KMSKeyID:      getString(k, "s3_kms_key_id", ""),
		JWTSecret:       getString(k, "jwt_secret", ""),
		JWTTTL:          getDuration(k, "jwt_ttl", 24*time.Hour),
		AI: AIConfig{
			Provider: provider,
			Model:    model,
			APIKey:   apiKey,
			Timeout:  time.Duration(getInt(k, "ai_timeout_seconds", 120)) * time.Second,
		},
	}
}

// Validate rejects configurations that cannot run in the selected environment.
func (c Config) Validate() error {
	if c.Env != "production" {
		return nil
	}
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required in production")
	}
	if strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("JWT_SECRET is required in production")
	}
	return nil
}

// IsDevLike reports whether in-memory fallbacks are allowed.
func (c Config) IsDevLike() bool {
	switch c.Env {
	case "dev", "local":
		return true
	default:
		return false
	}
}

func readConfigFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat config file: %w", err)
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file %s exceeds %d bytes", path, maxConfigFileSize)
	}

	raw, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return raw, nil
}

func getString(k *koanf.Koanf, key, def string) string {
	if val := strings.TrimSpace(k.String(key)); val != "" {
		return val
	}
	return def
}

func getInt(k *koanf.Koanf, key string, def int) int {
	raw := strings.TrimSpace(k.String(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val <= 0 {
		return def
	}
	return val
}

func getDuration(k *koanf.Koanf, key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(k.String(key))
	if raw == "" {
		return def
	}
	val, err := time.ParseDuration(raw)
	if err != nil || val <= 0 {
		return def
	}
	return val
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}

func normalizeProvider(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "openai":
		return "openai"
	default:
		return "gemini"
	}
}

func defaultModel(provider string) string {
	if provider == "openai" {
		return "gpt-4o-mini"
	}
	return "gemini-1.5-flash"
}
