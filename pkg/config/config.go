package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	xdgAppName = "schedalize"
	configFile = "config.yaml"

	DefaultAPIURL     = "https://social-reply-api-production.up.railway.app"
	DefaultCalendar   = "Schedalize"
	DefaultWindowDays = 30
	DefaultTimeout    = 30 * time.Second
	DefaultDevAddr    = "127.0.0.1:8080"
)

var ErrUnknownKey = errors.New("unknown config key")

type Config struct {
	APIURL        string        `yaml:"api_url"`
	Calendar      string        `yaml:"calendar"`
	WindowDays    int           `yaml:"window_days"`
	Timeout       time.Duration `yaml:"timeout"`
	TemplatesFile string        `yaml:"templates_file,omitempty"`
	Dev           DevConfig     `yaml:"dev"`
}

// DevConfig configures the local development backend.
type DevConfig struct {
	Addr   string `yaml:"addr"`
	Secret string `yaml:"secret,omitempty"`
}

func Default() *Config {
	return &Config{
		APIURL:     DefaultAPIURL,
		Calendar:   DefaultCalendar,
		WindowDays: DefaultWindowDays,
		Timeout:    DefaultTimeout,
		Dev:        DevConfig{Addr: DefaultDevAddr},
	}
}

func GetConfigPath() (string, error) {
	xdgHome, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(xdgHome, ".config", xdgAppName, configFile), nil
}

func Load() (*Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads the config at path. A missing file yields the defaults.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.fillDefaults()
	return cfg, nil
}

func (c *Config) fillDefaults() {
	d := Default()
	if c.APIURL == "" {
		c.APIURL = d.APIURL
	}
	if c.Calendar == "" {
		c.Calendar = d.Calendar
	}
	if c.WindowDays <= 0 {
		c.WindowDays = d.WindowDays
	}
	if c.Timeout <= 0 {
		c.Timeout = d.Timeout
	}
	if c.Dev.Addr == "" {
		c.Dev.Addr = d.Dev.Addr
	}
}

func Save(cfg *Config) error {
	path, err := GetConfigPath()
	if err != nil {
		return err
	}
	return SaveTo(path, cfg)
}

func SaveTo(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Keys lists the names accepted by Set.
var Keys = []string{"api_url", "calendar", "window_days", "timeout", "templates_file", "dev.addr", "dev.secret"}

// Set assigns a single field by its YAML key.
func (c *Config) Set(key, value string) error {
	value = strings.TrimSpace(value)
	switch key {
	case "api_url":
		c.APIURL = value
	case "calendar":
		c.Calendar = value
	case "window_days":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("window_days must be a positive integer, got %q", value)
		}
		c.WindowDays = n
	case "timeout":
		d, err := time.ParseDuration(value)
		if err != nil || d <= 0 {
			return fmt.Errorf("timeout must be a positive duration like 30s, got %q", value)
		}
		c.Timeout = d
	case "templates_file":
		c.TemplatesFile = value
	case "dev.addr":
		c.Dev.Addr = value
	case "dev.secret":
		c.Dev.Secret = value
	default:
		return fmt.Errorf("%w: %s (valid keys: %s)", ErrUnknownKey, key, strings.Join(Keys, ", "))
	}
	return nil
}
