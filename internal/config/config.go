package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	DBPath       string   `toml:"db_path"`
	StandupsDir  string   `toml:"standups_dir"`
	StandupsURL  string   `toml:"standups_url,omitempty"`
	WebPort      int      `toml:"web_port"`
	LogLevel     string   `toml:"log_level"`
	FetchTimeout Duration `toml:"fetch_timeout"`
}

// Duration reads TOML strings such as "5s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", text, err)
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

func Default() Config {
	return Config{
		WebPort:      8080,
		LogLevel:     "info",
		FetchTimeout: Duration{5 * time.Second},
	}
}

func DefaultConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "lazystandup", "config.toml"), nil
}

func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}

func Load(path string) (Config, error) {
	config := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return Config{}, err
	}

	if _, err := toml.Decode(string(data), &config); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if _, err := ParseLogLevel(config.LogLevel); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return config, nil
}

func Save(path string, cfg Config) error {
	if err := EnsureDir(path); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return err
	}

	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// ApplyDefaults fills paths that depend on where the config file lives.
func (c *Config) ApplyDefaults(configPath string) {
	base := filepath.Dir(configPath)
	if c.DBPath == "" {
		c.DBPath = filepath.Join(base, "lazystandup.db")
	}
	if c.StandupsDir == "" {
		c.StandupsDir = filepath.Join(base, "standups")
	}
	if c.WebPort == 0 {
		c.WebPort = 8080
	}
	if c.FetchTimeout.Duration <= 0 {
		c.FetchTimeout = Duration{5 * time.Second}
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}
