package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/nzaccagnino/jotaku-notes/internal/db"
	"gopkg.in/yaml.v3"
)

type ServerConfig struct {
	// Addr is where cmd/server listens.
	Addr string `yaml:"addr"`
	// URL points the client at a running server for remote mode.
	URL string `yaml:"url"`
	// RateLimit caps requests per client per minute. Zero disables it.
	RateLimit int `yaml:"rate_limit"`
}

type Config struct {
	DBPath         string        `yaml:"db_path"`
	LogFile        string        `yaml:"log_file"`
	Language       string        `yaml:"language"`
	Theme          string        `yaml:"theme"`
	DefaultSort    string        `yaml:"default_sort"`
	UndoWindow     time.Duration `yaml:"undo_window"`
	MessageTimeout time.Duration `yaml:"message_timeout"`
	Server         ServerConfig  `yaml:"server"`
}

func DefaultConfigPath() string {
	exe, err := os.Executable()
	if err != nil {
		return "config.yml"
	}
	return filepath.Join(filepath.Dir(exe), "config.yml")
}

func DefaultDBPath() string {
	exe, err := os.Executable()
	if err != nil {
		return "notes.db"
	}
	return filepath.Join(filepath.Dir(exe), "notes.db")
}

// DefaultLogPath is where the interactive UI logs, since it owns the
// terminal.
func DefaultLogPath() string {
	exe, err := os.Executable()
	if err != nil {
		return "jotaku.log"
	}
	return filepath.Join(filepath.Dir(exe), "jotaku.log")
}

func ConfigExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

func Default() *Config {
	return &Config{
		DBPath:         DefaultDBPath(),
		LogFile:        DefaultLogPath(),
		Language:       "en",
		Theme:          "dark",
		DefaultSort:    db.DefaultSort.String(),
		UndoWindow:     5 * time.Second,
		MessageTimeout: 2 * time.Second,
		Server: ServerConfig{
			Addr:      ":8080",
			RateLimit: 100,
		},
	}
}

func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.DBPath == "" {
		cfg.DBPath = DefaultDBPath()
	}

	if cfg.LogFile == "" {
		cfg.LogFile = DefaultLogPath()
	}

	if cfg.DBPath[0] == '~' {
		home, _ := os.UserHomeDir()
		cfg.DBPath = filepath.Join(home, cfg.DBPath[1:])
	}

	if _, err := cfg.SortKey(); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.UndoWindow <= 0 {
		cfg.UndoWindow = 5 * time.Second
	}
	if cfg.MessageTimeout <= 0 {
		cfg.MessageTimeout = 2 * time.Second
	}

	return cfg, nil
}

func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// SortKey is the sort every notes screen starts with.
func (c *Config) SortKey() (db.SortKey, error) {
	return db.ParseSortKey(c.DefaultSort)
}
