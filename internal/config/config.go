package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/xxxsen/common/logger"
)

const (
	EnvAPIKey    = "CONTENTINTEL_AI_API_KEY"
	EnvJWTSecret = "CONTENTINTEL_JWT_SECRET"
)

type Config struct {
	Port          int              `json:"port"`
	LogConfig     logger.LogConfig `json:"log_config"`
	JWTSecret     string           `json:"jwt_secret"`
	CORSAllowlist []string         `json:"cors_allowlist"`
	RateLimitMS   int              `json:"rate_limit_ms"`
	Embedding     EmbeddingConfig  `json:"embedding"`
	QueryCache    QueryCacheConfig `json:"query_cache"`
	Search        SearchConfig     `json:"search"`
	Summary       LengthConfig     `json:"summary"`
	Excerpt       LengthConfig     `json:"excerpt"`
	Reading       ReadingConfig    `json:"reading"`
	AI            AIConfig         `json:"ai"`
	Schedule      ScheduleConfig   `json:"schedule"`
}

type EmbeddingConfig struct {
	Disabled bool  `json:"disabled"`
	Seed     int64 `json:"seed"`
	// memoized article embeddings
	CacheSize       int `json:"cache_size"`
	CacheTTLSeconds int `json:"cache_ttl_seconds"`
}

type QueryCacheConfig struct {
	Capacity int `json:"capacity"`
}

type SearchConfig struct {
	Workers int `json:"workers"`
}

type LengthConfig struct {
	MaxLength int `json:"max_length"`
}

type ReadingConfig struct {
	WPM int `json:"wpm"`
}

type AIConfig struct {
	Timeout       int                `json:"timeout"`
	MaxInputChars int                `json:"max_input_chars"`
	Providers     []AIProviderConfig `json:"providers"`
}

type AIProviderConfig struct {
	Name  string                 `json:"name"`
	Type  string                 `json:"type"`
	Model string                 `json:"model"`
	Data  map[string]interface{} `json:"data"`
}

type ScheduleConfig struct {
	ProbeSpec string `json:"probe_spec"`
	StatsSpec string `json:"stats_spec"`
}

// Load reads the JSON config at path. A .env file next to it, when present,
// is loaded into the process environment first; it never overrides variables
// that are already set.
func Load(path string) (*Config, error) {
	if err := loadDotEnv(filepath.Join(filepath.Dir(path), ".env")); err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	applyEnv(&cfg)
	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default is the configuration used by one-shot CLI commands run without
// a config file.
func Default() *Config {
	cfg := &Config{}
	applyEnv(cfg)
	applyDefaults(cfg)
	return cfg
}

func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("stat env file: %w", err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = os.Getenv(EnvJWTSecret)
	}
	for i := range cfg.AI.Providers {
		p := &cfg.AI.Providers[i]
		if p.Data == nil {
			p.Data = map[string]interface{}{}
		}
		if v, ok := p.Data["api_key"].(string); ok && strings.TrimSpace(v) != "" {
			continue
		}
		key := os.Getenv(EnvAPIKey + "_" + envSuffix(p.Name))
		if key == "" {
			key = os.Getenv(EnvAPIKey)
		}
		if key != "" {
			p.Data["api_key"] = key
		}
	}
}

func envSuffix(name string) string {
	return strings.ToUpper(strings.NewReplacer("-", "_", " ", "_", ".", "_").Replace(strings.TrimSpace(name)))
}

func applyDefaults(cfg *Config) {
	if cfg.Port == 0 {
		cfg.Port = 8080
	}
	if cfg.LogConfig.Level == "" {
		cfg.LogConfig.Level = "info"
	}
	if cfg.Embedding.Seed == 0 {
		cfg.Embedding.Seed = 42
	}
	if cfg.Embedding.CacheSize == 0 {
		cfg.Embedding.CacheSize = 2048
	}
	if cfg.Embedding.CacheTTLSeconds == 0 {
		cfg.Embedding.CacheTTLSeconds = 3600
	}
	if cfg.QueryCache.Capacity == 0 {
		cfg.QueryCache.Capacity = 100
	}
	if cfg.Summary.MaxLength == 0 {
		cfg.Summary.MaxLength = 300
	}
	if cfg.Excerpt.MaxLength == 0 {
		cfg.Excerpt.MaxLength = 160
	}
	if cfg.Reading.WPM == 0 {
		cfg.Reading.WPM = 200
	}
	if cfg.AI.Timeout == 0 {
		cfg.AI.Timeout = 30
	}
	if cfg.AI.MaxInputChars == 0 {
		cfg.AI.MaxInputChars = 20000
	}
	if cfg.Schedule.ProbeSpec == "" {
		cfg.Schedule.ProbeSpec = "*/5 * * * *"
	}
	if cfg.Schedule.StatsSpec == "" {
		cfg.Schedule.StatsSpec = "*/30 * * * *"
	}
	for i := range cfg.AI.Providers {
		p := &cfg.AI.Providers[i]
		if p.Name == "" {
			p.Name = p.Type
		}
	}
}

func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("port out of range: %d", c.Port)
	}
	if c.RateLimitMS < 0 {
		return fmt.Errorf("rate_limit_ms must not be negative")
	}
	if c.QueryCache.Capacity < 0 {
		return fmt.Errorf("query_cache.capacity must not be negative")
	}
	if c.Search.Workers < 0 {
		return fmt.Errorf("search.workers must not be negative")
	}
	if c.Summary.MaxLength < 0 || c.Excerpt.MaxLength < 0 || c.Reading.WPM < 0 {
		return fmt.Errorf("summary, excerpt and reading settings must not be negative")
	}
	for i, p := range c.AI.Providers {
		if strings.TrimSpace(p.Type) == "" {
			return fmt.Errorf("ai.providers[%d].type is required", i)
		}
		if strings.TrimSpace(p.Model) == "" {
			return fmt.Errorf("ai.providers[%d].model is required", i)
		}
	}
	return nil
}
