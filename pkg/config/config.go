package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/fieldside-ai/fieldside/pkg/llm"
)

// Config holds all fieldside configuration.
type Config struct {
	DBPath string       `yaml:"db_path"`
	Store  StoreConfig  `yaml:"store"`
	LLM    llm.Config   `yaml:"llm"`
	Cache  CacheConfig  `yaml:"cache"`
	Warmup WarmupConfig `yaml:"warmup"`
}

// StoreConfig selects and configures the cache backend.
// Backend is "sqlite" (default) or "redis".
type StoreConfig struct {
	Backend string      `yaml:"backend"`
	Redis   RedisConfig `yaml:"redis"`
}

// RedisConfig configures the Redis cache backend.
type RedisConfig struct {
	Addr      string `yaml:"addr"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db"`
	KeyPrefix string `yaml:"key_prefix"`
}

// CacheConfig controls the response cache. TTL entries override the
// built-in per-operation table.
type CacheConfig struct {
	TTL map[string]time.Duration `yaml:"ttl"`
}

// WarmupConfig controls cache warmup.
type WarmupConfig struct {
	MaxPlayers int `yaml:"max_players"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		DBPath: "fieldside.db",
		Store: StoreConfig{
			Backend: "sqlite",
		},
		LLM: llm.DefaultConfig(),
		Warmup: WarmupConfig{
			MaxPlayers: 20,
		},
	}
}

// Load reads a YAML config file and expands environment variables.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return cfg, nil
}
