package config

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/snowzach/rotatefilehook"
)

type Log struct {
	Level string `yaml:"level"`
	// File enables a rotated JSON log next to the console output.
	File       string `yaml:"file"`
	MaxSize    int    `yaml:"max_size"` // megabytes
	MaxBackups int    `yaml:"max_backups"`
	MaxAge     int    `yaml:"max_age"` // days
}

// SetupLogging configures every logger in loggers the same way.
func (c *Config) SetupLogging(loggers ...*logrus.Logger) error {
	level, err := logrus.ParseLevel(c.Log.Level)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	if c.Development {
		level = max(level, logrus.DebugLevel)
	}

	var hook logrus.Hook
	if c.Log.File != "" {
		hook, err = rotatefilehook.NewRotateFileHook(rotatefilehook.RotateFileConfig{
			Filename:   c.Log.File,
			MaxSize:    c.Log.MaxSize,
			MaxBackups: c.Log.MaxBackups,
			MaxAge:     c.Log.MaxAge,
			Level:      level,
			Formatter:  &logrus.JSONFormatter{TimestampFormat: time.RFC3339},
		})
		if err != nil {
			return fmt.Errorf("unable to open log file: %w", err)
		}
	}

	for _, log := range loggers {
		log.SetLevel(level)
		if c.Development {
			log.SetFormatter(&logrus.TextFormatter{ForceColors: true})
		} else {
			log.SetFormatter(&logrus.JSONFormatter{})
		}
		if hook != nil {
			log.AddHook(hook)
		}
	}
	return nil
}
