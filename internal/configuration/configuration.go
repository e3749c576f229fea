package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata" // site time zones on hosts without zoneinfo

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/zdziszkee/bankmap/internal/database"
)

type Config struct {
	AppName   string          `koanf:"app_name"`
	Server    ServerConfig    `koanf:"server"`
	Database  database.Config `koanf:"database"`
	Log       LogConfig       `koanf:"log"`
	Session   SessionConfig   `koanf:"session"`
	Site      SiteConfig      `koanf:"site"`
	Data      DataConfig      `koanf:"data"`
	Bootstrap BootstrapConfig `koanf:"bootstrap"`
}

type ServerConfig struct {
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

type SessionConfig struct {
	CookieName string        `koanf:"cookie_name"`
	TTL        time.Duration `koanf:"ttl"`
	Secure     bool          `koanf:"secure"`
}

// SiteConfig carries the display labels shown on every page.
// It is read once at startup and never changed afterwards.
type SiteConfig struct {
	Header     string `koanf:"header"`
	Title      string `koanf:"title"`
	IndexTitle string `koanf:"index_title"`
	TimeZone   string `koanf:"time_zone"`
}

type DataConfig struct {
	SeedFile string `koanf:"seed_file"`
	AutoLoad bool   `koanf:"auto_load"`
}

type BootstrapConfig struct {
	SuperuserUsername string `koanf:"superuser_username"`
	SuperuserPassword string `koanf:"superuser_password"`
}

// DefaultConfig returns the default configuration for bankmap
func DefaultConfig() *Config {
	return &Config{
		AppName: "bankmap",
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Database: database.Config{
			Type:            "postgres",
			Host:            "postgres",
			Port:            5432,
			User:            "bankmap",
			Password:        "bankmap",
			Name:            "bankmap",
			SSLMode:         "disable",
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 1 * time.Hour,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Session: SessionConfig{
			CookieName: "_sid",
			TTL:        14 * 24 * time.Hour,
			Secure:     false,
		},
		Site: SiteConfig{
			Header:     "Quản trị MapBank",
			Title:      "MapBank Admin",
			IndexTitle: "Bảng điều khiển",
			TimeZone:   "Asia/Ho_Chi_Minh",
		},
		Data: DataConfig{
			SeedFile: "/app/locations.csv",
			AutoLoad: false,
		},
	}
}

// Load loads the configuration from defaults, a TOML file and APP_ environment
// variables, in that order of precedence.
func Load(configPath string) (*Config, error) {
	var k = koanf.New(".")

	if err := k.Load(structs.Provider(DefaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("error loading default config: %w", err)
	}

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			if err := k.Load(file.Provider(configPath), toml.Parser()); err != nil {
				return nil, fmt.Errorf("error loading TOML config file: %w", err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("error checking config file: %w", err)
		}
	} else {
		commonPaths := []string{
			"./config.toml",
			"./config/config.toml",
			"/etc/bankmap/config.toml",
		}
		for _, path := range commonPaths {
			if _, err := os.Stat(path); err == nil {
				if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
					return nil, fmt.Errorf("error loading TOML config file from %s: %w", path, err)
				}
				break
			}
		}
	}

	// APP_DATABASE__MAX_OPEN_CONNS -> database.max_open_conns
	callback := func(s string) string {
		s = strings.TrimPrefix(s, "APP_")
		s = strings.ToLower(s)
		return strings.ReplaceAll(s, "__", ".")
	}
	if err := k.Load(env.Provider("APP_", ".", callback), nil); err != nil {
		return nil, fmt.Errorf("error loading environment variables: %w", err)
	}

	var config Config
	if err := k.Unmarshal("", &config); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation error: %w", err)
	}

	return &config, nil
}

// Location resolves the configured time zone used for displayed timestamps
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Site.TimeZone)
}

// validateConfig checks that required fields are present and valid
func validateConfig(config *Config) error {
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("server port out of range: %d", config.Server.Port)
	}

	if config.Database.Type != "postgres" {
		return fmt.Errorf("unsupported database type: %q", config.Database.Type)
	}
	if config.Database.Host == "" {
		return errors.New("database host cannot be empty")
	}
	if config.Database.Name == "" {
		return errors.New("database name cannot be empty")
	}
	if config.Database.MaxOpenConns < 0 {
		return errors.New("max open connections cannot be negative")
	}
	if config.Database.MaxIdleConns < 0 {
		return errors.New("max idle connections cannot be negative")
	}
	if config.Database.ConnMaxLifetime < 0 {
		return errors.New("connection max lifetime cannot be negative")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
		"fatal": true,
	}
	if !validLogLevels[strings.ToLower(config.Log.Level)] {
		return errors.New("invalid log level: must be one of debug, info, warn, error, fatal")
	}
	validLogFormats := map[string]bool{
		"text": true,
		"json": true,
	}
	if !validLogFormats[strings.ToLower(config.Log.Format)] {
		return errors.New("invalid log format: must be text or json")
	}

	if config.Session.CookieName == "" {
		return errors.New("session cookie_name cannot be empty")
	}
	if config.Session.TTL <= 0 {
		return errors.New("session ttl must be positive")
	}

	if _, err := time.LoadLocation(config.Site.TimeZone); err != nil {
		return fmt.Errorf("invalid site time_zone %q: %w", config.Site.TimeZone, err)
	}

	if config.Data.AutoLoad && config.Data.SeedFile == "" {
		return errors.New("data.seed_file cannot be empty when auto_load is enabled")
	}

	if (config.Bootstrap.SuperuserUsername == "") != (config.Bootstrap.SuperuserPassword == "") {
		return errors.New("bootstrap superuser_username and superuser_password must be set together")
	}

	return nil
}
