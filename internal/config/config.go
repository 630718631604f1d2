package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	SQLite struct {
		Path string `yaml:"path"`
	} `yaml:"sqlite"`
	Store struct {
		CacheTTL string `yaml:"cache_ttl"`
	} `yaml:"store"`
	Game struct {
		Difficulty string `yaml:"difficulty"`
	} `yaml:"game"`
	Payment struct {
		ReportURL  string `yaml:"report_url"`
		BrainURL   string `yaml:"brain_url"`
		QuantumURL string `yaml:"quantum_url"`
	} `yaml:"payment"`
	Delivery struct {
		ConfirmWait string `yaml:"confirm_wait"`
	} `yaml:"delivery"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// Load reads YAML config from path. A missing file yields the zero config so
// the service can run on defaults and environment variables alone.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}

// RedisTTL is the expiry applied to key-value entries stored in Redis. Entries
// persist unless redis.ttl is set explicitly.
func (c Config) RedisTTL() time.Duration {
	return TTLDuration(c.Redis.TTL, 0)
}
