package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Broker queues
const (
	EventsQueue    = "earn_events"
	SnapshotsQueue = "snapshot_updates"
)

type BackendConfig struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

type EarnConfig struct {
	BotUsername     string        `yaml:"bot_username"`
	SupportUsername string        `yaml:"support_username"`
	MinWithdrawal   float64       `yaml:"min_withdrawal"`
	AdReward        float64       `yaml:"ad_reward"`
	AdDelay         time.Duration `yaml:"ad_delay"`
}

type SessionConfig struct {
	Expiration   time.Duration `yaml:"expiration"`
	CookieSecure bool          `yaml:"cookie_secure"`
	RedisURL     string        `yaml:"redis_url"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "console" or "json"
}

type Config struct {
	Listen  string        `yaml:"listen"`
	DBPath  string        `yaml:"db_path"`
	AMQPURL string        `yaml:"amqp_url"`
	Backend BackendConfig `yaml:"backend"`
	Earn    EarnConfig    `yaml:"earn"`
	Session SessionConfig `yaml:"session"`
	Log     LogConfig     `yaml:"log"`
}

func DefaultConfig() *Config {
	return &Config{
		Listen: ":8080",
		DBPath: "./app.db",
		Backend: BackendConfig{
			URL:     "http://localhost:8090",
			Timeout: 10 * time.Second,
		},
		Earn: EarnConfig{
			BotUsername:     "EarnMoneyBot",
			SupportUsername: "EarnMoneySupport",
			MinWithdrawal:   100,
			AdReward:        5,
			AdDelay:         3 * time.Second,
		},
		Session: SessionConfig{
			Expiration: 24 * time.Hour,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load merges defaults, the optional YAML file at path, .env and the process environment,
// in that order.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return nil, err
		}
	}

	_ = godotenv.Load()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.Listen, "LISTEN_ADDR")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("LISTEN_ADDR") == "" {
		c.Listen = ":" + port
	}
	setString(&c.DBPath, "DB_PATH")
	setString(&c.AMQPURL, "AMQP_URL")
	setString(&c.Backend.URL, "BACKEND_URL")
	setString(&c.Earn.BotUsername, "BOT_USERNAME")
	setString(&c.Earn.SupportUsername, "SUPPORT_USERNAME")
	setString(&c.Session.RedisURL, "REDIS_URL")
	setString(&c.Log.Level, "LOG_LEVEL")
	setString(&c.Log.Format, "LOG_FORMAT")

	var err error
	if c.Backend.Timeout, err = durationEnv("BACKEND_TIMEOUT", c.Backend.Timeout); err != nil {
		return err
	}
	if c.Earn.AdDelay, err = durationEnv("AD_DELAY", c.Earn.AdDelay); err != nil {
		return err
	}
	if c.Session.Expiration, err = durationEnv("SESSION_EXPIRATION", c.Session.Expiration); err != nil {
		return err
	}
	if c.Earn.MinWithdrawal, err = floatEnv("MINIMUM_WITHDRAWAL", c.Earn.MinWithdrawal); err != nil {
		return err
	}
	if c.Earn.AdReward, err = floatEnv("AD_EARNING_RATE", c.Earn.AdReward); err != nil {
		return err
	}
	if v := os.Getenv("COOKIE_SECURE"); v != "" {
		c.Session.CookieSecure, err = strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("COOKIE_SECURE: %w", err)
		}
	}
	c.Earn.BotUsername = strings.TrimPrefix(c.Earn.BotUsername, "@")
	c.Earn.SupportUsername = strings.TrimPrefix(c.Earn.SupportUsername, "@")
	return nil
}

// Validate rejects settings the flows cannot work with.
func (c *Config) Validate() error {
	if c.Backend.URL == "" {
		return fmt.Errorf("backend url is required")
	}
	if c.Earn.BotUsername == "" {
		return fmt.Errorf("bot username is required")
	}
	if c.Earn.MinWithdrawal <= 0 {
		return fmt.Errorf("min withdrawal must be positive, got %v", c.Earn.MinWithdrawal)
	}
	if c.Earn.AdReward <= 0 {
		return fmt.Errorf("ad reward must be positive, got %v", c.Earn.AdReward)
	}
	if c.Earn.AdDelay < 0 {
		return fmt.Errorf("ad delay must not be negative")
	}
	c.Backend.URL = strings.TrimRight(c.Backend.URL, "/")
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func floatEnv(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}
