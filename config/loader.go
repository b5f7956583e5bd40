package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultPort is used when server.port is unset.
	DefaultPort = 16190

	// EnvConfigPath overrides the config file search.
	EnvConfigPath = "TRANSIT_LOS_CONFIG"
	// EnvPort overrides server.port.
	EnvPort = "TRANSIT_LOS_PORT"
)

// Config is the global application configuration
var Config = Default()

// Default returns the configuration used when no file is present.
func Default() AppConfig {
	return AppConfig{Server: ServerConfig{Port: DefaultPort}}
}

// LoadAppConfig loads and validates config.yml into Config. The file is
// looked up in $TRANSIT_LOS_CONFIG, ./config.yml and ./configs/config.yml.
// When no file exists Config keeps the defaults and the returned error
// matches fs.ErrNotExist.
func LoadAppConfig() error {
	paths := []string{"config.yml", "./configs/config.yml"}
	if p := os.Getenv(EnvConfigPath); p != "" {
		paths = []string{p}
	}
	var err error
	for _, p := range paths {
		var cfg AppConfig
		cfg, err = LoadFile(p)
		if err == nil {
			Config = cfg
			return nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	cfg := Default()
	if envErr := applyEnv(&cfg); envErr != nil {
		return envErr
	}
	Config = cfg
	return err
}

// LoadFile reads and validates one config file.
func LoadFile(path string) (AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return AppConfig{}, err
	}
	cfg, err := Parse(data)
	if err != nil {
		return AppConfig{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML, applies environment overrides and validates.
func Parse(data []byte) (AppConfig, error) {
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return AppConfig{}, err
	}
	if err := applyEnv(&cfg); err != nil {
		return AppConfig{}, err
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultPort
	}
	if err := validator.New().Struct(cfg); err != nil {
		return AppConfig{}, err
	}
	// Build the domain values once so misconfiguration fails at startup.
	if _, err := cfg.DefaultWindow(); err != nil {
		return AppConfig{}, err
	}
	if _, err := cfg.Table(); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *AppConfig) error {
	v := os.Getenv(EnvPort)
	if v == "" {
		return nil
	}
	port, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", EnvPort, err)
	}
	cfg.Server.Port = port
	return nil
}

// FindFeed returns the feed with the given name.
func (c AppConfig) FindFeed(name string) (Feed, bool) {
	for _, f := range c.Feeds {
		if f.Name == name {
			return f, true
		}
	}
	return Feed{}, false
}

// SelectFeed chooses a feed by name; fallback to first. The bool is false
// when no feed is configured.
func SelectFeed(name string) (Feed, bool) {
	if f, ok := Config.FindFeed(name); ok {
		return f, true
	}
	if len(Config.Feeds) > 0 {
		return Config.Feeds[0], true
	}
	return Feed{}, false
}
