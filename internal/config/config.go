// Package config loads server and CLI settings from an optional YAML file and
// environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pysugar/account-tabs/internal/db/models"
	"github.com/pysugar/account-tabs/internal/parser"
	"gopkg.in/yaml.v3"
)

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"

	defaultMaxUploadBytes = 10 << 20
)

type Server struct {
	Host           string `yaml:"host"`
	Port           string `yaml:"port"`
	MaxUploadBytes int64  `yaml:"max_upload_bytes"`
}

type Redis struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type Store struct {
	Backend  string `yaml:"backend"`
	DataPath string `yaml:"data_path"`
	Key      string `yaml:"key"`
	Redis    Redis  `yaml:"redis"`
}

type Import struct {
	ParseMode   string `yaml:"parse_mode"`
	Timeout     string `yaml:"timeout"`
	Concurrency int    `yaml:"concurrency"`
}

type Log struct {
	Level    string `yaml:"level"`
	Encoding string `yaml:"encoding"`
}

// Config is the full application configuration.
type Config struct {
	Server Server                  `yaml:"server"`
	Store  Store                   `yaml:"store"`
	Import Import                  `yaml:"import"`
	Log    Log                     `yaml:"log"`
	Tabs   map[models.Group]string `yaml:"tabs"`

	// Path is the file the configuration was read from, empty for defaults.
	Path string `yaml:"-"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: Server{Host: "127.0.0.1", Port: "3000", MaxUploadBytes: defaultMaxUploadBytes},
		Store:  Store{Backend: BackendFile, DataPath: "data/accounts.json", Key: models.DocumentKey},
		Import: Import{ParseMode: string(parser.ModeSimple), Timeout: "30s", Concurrency: 4},
		Log:    Log{Level: "info", Encoding: "json"},
	}
}

// Load resolves the config file, applies environment overrides and validates
// the result.
func Load() (Config, error) {
	cfg := Default()

	path, err := resolveConfigPath()
	if err != nil {
		return cfg, err
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config file %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file %q: %w", path, err)
		}
		cfg.Path = path
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Server.Host = env("HOST", c.Server.Host)
	c.Server.Port = env("PORT", c.Server.Port)
	c.Store.Backend = env("TABS_STORE", c.Store.Backend)
	c.Store.DataPath = env("TABS_DATA_PATH", c.Store.DataPath)
	c.Import.ParseMode = env("TABS_PARSE_MODE", c.Import.ParseMode)
	c.Store.Redis.Addr = env("REDIS_ADDR", c.Store.Redis.Addr)
	c.Store.Redis.Password = env("REDIS_PASSWORD", c.Store.Redis.Password)
	c.Store.Redis.DB = envInt("REDIS_DB", c.Store.Redis.DB)
	c.Log.Level = env("LOG_LEVEL", c.Log.Level)
	c.Log.Encoding = env("LOG_ENCODING", c.Log.Encoding)
}

// Validate rejects unknown backends and parse modes and fills zero values.
func (c *Config) Validate() error {
	c.Store.Backend = strings.ToLower(strings.TrimSpace(c.Store.Backend))
	switch c.Store.Backend {
	case "":
		c.Store.Backend = BackendFile
	case BackendFile, BackendSQLite, BackendRedis, BackendMemory:
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	if c.Store.Backend == BackendRedis && c.Store.Redis.Addr == "" {
		return fmt.Errorf("store backend redis requires store.redis.addr or REDIS_ADDR")
	}

	mode, err := parser.ParseMode(c.Import.ParseMode)
	if err != nil {
		return err
	}
	c.Import.ParseMode = string(mode)

	if _, err := time.ParseDuration(c.Import.Timeout); err != nil {
		return fmt.Errorf("invalid import timeout %q: %w", c.Import.Timeout, err)
	}
	if c.Import.Concurrency <= 0 {
		c.Import.Concurrency = 4
	}
	if c.Server.MaxUploadBytes <= 0 {
		c.Server.MaxUploadBytes = defaultMaxUploadBytes
	}
	if c.Store.Key == "" {
		c.Store.Key = models.DocumentKey
	}
	for g := range c.Tabs {
		if !g.Valid() {
			return fmt.Errorf("unknown tab %q in tabs labels", g)
		}
	}
	return nil
}

// Addr returns host:port for the HTTP listener.
func (c Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}

// ParseMode returns the validated parse mode.
func (c Config) ParseMode() parser.Mode {
	m, _ := parser.ParseMode(c.Import.ParseMode)
	return m
}

// ImportTimeout returns the fetch timeout for URL imports.
func (c Config) ImportTimeout() time.Duration {
	d, err := time.ParseDuration(c.Import.Timeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// Label returns the display label of g, falling back to "Database N".
func (c Config) Label(g models.Group) string {
	if l := strings.TrimSpace(c.Tabs[g]); l != "" {
		return l
	}
	return g.DefaultLabel()
}

func resolveConfigPath() (string, error) {
	if explicit := strings.TrimSpace(os.Getenv("TABS_CONFIG")); explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", err
		}
		return explicit, nil
	}

	candidates := []string{
		"config/tabs.yaml",
		"/etc/tabs/tabs.yaml",
	}
	if homeDir, err := os.UserHomeDir(); err == nil && homeDir != "" {
		candidates = append(candidates, filepath.Join(homeDir, ".config", "tabs", "tabs.yaml"))
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", nil
}

func env(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return def
}
