// Package config loads attestiz configuration from a YAML file, a .env file
// and the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the full application configuration.
type Config struct {
	BotToken        string        `yaml:"bot_token"`
	BlockOneCount   int           `yaml:"block_one_count"`
	CommonQuestions string        `yaml:"common_questions"`
	Roles           []RoleConfig  `yaml:"roles"`
	Results         ResultsConfig `yaml:"results"`
	Admin           AdminConfig   `yaml:"admin"`
	LogLevel        string        `yaml:"log_level"`
	LogFormat       string        `yaml:"log_format"`

	// Seed fixes the random source. 0 seeds from the clock.
	Seed int64 `yaml:"seed"`
}

// RoleConfig describes one selectable role and its question file.
type RoleConfig struct {
	Slug          string `yaml:"slug"`
	Title         string `yaml:"title"`
	Path          string `yaml:"path"`
	BlockTwoCount int    `yaml:"block_two_count"`
}

// ResultsConfig selects and configures result sinks.
type ResultsConfig struct {
	Backends []string    `yaml:"backends"`
	FilePath string      `yaml:"file_path"`
	DBPath   string      `yaml:"db_path"`
	Mongo    MongoConfig `yaml:"mongo"`
	Redis    RedisConfig `yaml:"redis"`
	AMQP     AMQPConfig  `yaml:"amqp"`
}

// MongoConfig configures the MongoDB result backend.
type MongoConfig struct {
	URI        string `yaml:"uri"`
	Database   string `yaml:"database"`
	Collection string `yaml:"collection"`
}

// RedisConfig configures the Redis stream result backend. MaxLen caps the
// stream approximately; 0 leaves it unbounded.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Stream   string `yaml:"stream"`
	MaxLen   int64  `yaml:"max_len"`
}

// AMQPConfig configures the AMQP result backend. Records are published to
// Exchange, a durable topic exchange.
type AMQPConfig struct {
	URL      string `yaml:"url"`
	Exchange string `yaml:"exchange"`
}

// AdminConfig configures the read-only admin HTTP API. An empty Addr
// disables it.
type AdminConfig struct {
	Addr string `yaml:"addr"`
}

// Defaults.
const (
	DefaultBlockOneCount = 25
	DefaultBlockTwoCount = 15
	DefaultResultsFile   = "storage/results.jsonl"
	DefaultMongoDatabase = "attestiz"
	DefaultCollection    = "results"
	DefaultStream        = "attestiz:results"
	DefaultStreamMaxLen  = 100000
	DefaultExchange      = "attestiz.results"
)

// DefaultConfig returns a Config with defaults for everything except the
// bank files and the bot token.
func DefaultConfig() Config {
	return Config{
		BlockOneCount: DefaultBlockOneCount,
		Results: ResultsConfig{
			Backends: []string{"file"},
			FilePath: DefaultResultsFile,
			Mongo: MongoConfig{
				Database:   DefaultMongoDatabase,
				Collection: DefaultCollection,
			},
			Redis: RedisConfig{
				Stream: DefaultStream,
				MaxLen: DefaultStreamMaxLen,
			},
			AMQP: AMQPConfig{
				Exchange: DefaultExchange,
			},
		},
		LogLevel:  "info",
		LogFormat: "json",
	}
}

// Load reads the YAML file at path over the defaults, applies environment
// overrides (after loading .env from the working directory, if present),
// normalizes and validates the result.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.ApplyEnv()
	cfg.Normalize(filepath.Dir(path))
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from ATTESTIZ_* environment variables.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("ATTESTIZ_BOT_TOKEN"); v != "" {
		c.BotToken = v
	} else if v := os.Getenv("BOT_TOKEN"); v != "" && c.BotToken == "" {
		c.BotToken = v
	}
	if v := os.Getenv("ATTESTIZ_DB"); v != "" {
		c.Results.DBPath = v
	}
	if v := os.Getenv("ATTESTIZ_ADMIN_ADDR"); v != "" {
		c.Admin.Addr = v
	}
	if v := os.Getenv("ATTESTIZ_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("ATTESTIZ_MONGO_URI"); v != "" {
		c.Results.Mongo.URI = v
	}
	if v := os.Getenv("ATTESTIZ_REDIS_ADDR"); v != "" {
		c.Results.Redis.Addr = v
	}
	if v := os.Getenv("ATTESTIZ_AMQP_URL"); v != "" {
		c.Results.AMQP.URL = v
	}
	if v := os.Getenv("ATTESTIZ_SEED"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = n
		}
	}
}

// Normalize fills zero-valued counts with defaults and resolves relative
// file paths against baseDir.
func (c *Config) Normalize(baseDir string) {
	if c.BlockOneCount == 0 {
		c.BlockOneCount = DefaultBlockOneCount
	}
	for i := range c.Roles {
		r := &c.Roles[i]
		if r.BlockTwoCount == 0 {
			r.BlockTwoCount = DefaultBlockTwoCount
		}
		if r.Title == "" {
			r.Title = r.Slug
		}
		r.Path = resolve(baseDir, r.Path)
	}
	c.CommonQuestions = resolve(baseDir, c.CommonQuestions)
	c.Results.FilePath = resolve(baseDir, c.Results.FilePath)
	c.Results.DBPath = resolve(baseDir, c.Results.DBPath)
}

func resolve(baseDir, p string) string {
	if p == "" || filepath.IsAbs(p) || baseDir == "" {
		return p
	}
	return filepath.Join(baseDir, p)
}

// HasBackend reports whether name is among the configured result backends.
func (c Config) HasBackend(name string) bool {
	for _, b := range c.Results.Backends {
		if b == name {
			return true
		}
	}
	return false
}
