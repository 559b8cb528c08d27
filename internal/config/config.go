// Package config loads service settings from an optional YAML file and lets
// environment variables override them.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

type Duration struct{ time.Duration }

// [Duration] implements [json.Marshaler]
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
		return nil
	case string:
		var err error
		d.Duration, err = time.ParseDuration(value)
		return err
	default:
		return errors.New("invalid duration")
	}
}

// [Duration] implements [yaml.Unmarshaler]
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	var err error
	d.Duration, err = time.ParseDuration(s)
	return err
}

func (d Duration) MarshalYAML() (any, error) {
	return d.String(), nil
}

type Server struct {
	Addr            string   `yaml:"addr"`
	ReadTimeout     Duration `yaml:"read_timeout"`
	ShutdownTimeout Duration `yaml:"shutdown_timeout"`
	// MaxBodyBytes caps JSON request bodies.
	MaxBodyBytes int64    `yaml:"max_body_bytes"`
	CORSOrigins  []string `yaml:"cors_origins"`
}

type Config struct {
	Development bool     `yaml:"development"`
	Server      Server   `yaml:"server"`
	Database    Database `yaml:"database"`
	JWT         JWT      `yaml:"jwt"`
	Log         Log      `yaml:"log"`
}

func Default() *Config {
	return &Config{
		Server: Server{
			Addr:            ":8080",
			ReadTimeout:     Duration{10 * time.Second},
			ShutdownTimeout: Duration{30 * time.Second},
			MaxBodyBytes:    8 << 20,
		},
		Database: Database{
			Port:    5432,
			SSLMode: "disable",
		},
		Log: Log{
			Level:      "info",
			MaxSize:    50,
			MaxBackups: 3,
			MaxAge:     28,
		},
	}
}

// Load reads path, if not empty, over the defaults and then applies
// environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if development, ok := os.LookupEnv("DEVELOPMENT"); ok {
		v, err := strconv.ParseBool(development)
		if err != nil {
			return fmt.Errorf("invalid DEVELOPMENT env variable: %w", err)
		}
		c.Development = v
	}
	if addr, ok := os.LookupEnv("APP_ADDR"); ok {
		c.Server.Addr = addr
	} else if port, ok := os.LookupEnv("APP_PORT"); ok {
		c.Server.Addr = ":" + port
	}
	if origins, ok := os.LookupEnv("CORS_ORIGINS"); ok {
		c.Server.CORSOrigins = splitList(origins)
	}
	if file, ok := os.LookupEnv("LOG_FILE"); ok {
		c.Log.File = file
	}
	if level, ok := os.LookupEnv("LOG_LEVEL"); ok {
		c.Log.Level = level
	}
	if err := c.JWT.applyEnv(); err != nil {
		return err
	}
	return c.Database.applyEnv()
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (c *Config) Fields() logrus.Fields {
	return logrus.Fields{
		"development":  c.Development,
		"addr":         c.Server.Addr,
		"cors_origins": c.Server.CORSOrigins,
		"pg_host":      c.Database.Host,
		"pg_port":      c.Database.Port,
		"pg_user":      c.Database.Username,
		"pg_db_name":   c.Database.DBName,
		"log_level":    c.Log.Level,
		"log_file":     c.Log.File,
	}
}
