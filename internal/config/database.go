package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNoDatabase = errors.New("no database configured")

type Database struct {
	// URL takes precedence over the individual fields.
	URL          string `yaml:"url"`
	Username     string `yaml:"user"`
	Password     string `yaml:"password"`
	PasswordFile string `yaml:"password_file"`
	Host         string `yaml:"host"`
	Port         uint16 `yaml:"port"`
	DBName       string `yaml:"db_name"`
	SSLMode      string `yaml:"sslmode"`
}

func loadPassword(d *Database) error {
	if password, ok := os.LookupEnv("POSTGRES_PASSWORD"); ok {
		d.Password = password
		return nil
	}
	if file, ok := os.LookupEnv("POSTGRES_PASSWORD_FILE"); ok {
		d.PasswordFile = file
	}
	if d.Password != "" || d.PasswordFile == "" {
		return nil
	}
	data, err := os.ReadFile(d.PasswordFile)
	if err != nil {
		return fmt.Errorf("unable to read from password file: %w", err)
	}
	d.Password = strings.TrimSpace(string(data))
	return nil
}

func (d *Database) applyEnv() error {
	if dbURL, ok := os.LookupEnv("DATABASE_URL"); ok {
		d.URL = dbURL
	}
	if username, ok := os.LookupEnv("POSTGRES_USER"); ok {
		d.Username = username
	}
	if host, ok := os.LookupEnv("POSTGRES_HOST"); ok {
		d.Host = host
	}
	if portStr, ok := os.LookupEnv("POSTGRES_PORT"); ok {
		port, err := strconv.ParseUint(portStr, 10, 16)
		if err != nil {
			return fmt.Errorf("unable to convert port to int: %w", err)
		}
		d.Port = uint16(port)
	}
	if dbName, ok := os.LookupEnv("POSTGRES_DB"); ok {
		d.DBName = dbName
	}
	if sslMode, ok := os.LookupEnv("POSTGRES_SSLMODE"); ok {
		d.SSLMode = sslMode
	}
	if err := loadPassword(d); err != nil {
		return fmt.Errorf("unable to load password: %w", err)
	}
	return nil
}

// Configured reports whether enough is set to reach a database.
func (d Database) Configured() bool {
	return d.URL != "" || (d.Host != "" && d.Username != "" && d.DBName != "")
}

// ConnString returns a postgres URL suitable for both pgx and migrate.
func (d Database) ConnString() (string, error) {
	if d.URL != "" {
		return d.URL, nil
	}
	if !d.Configured() {
		return "", fmt.Errorf("%w: set DATABASE_URL or POSTGRES_HOST, POSTGRES_USER and POSTGRES_DB", ErrNoDatabase)
	}
	u := url.URL{
		Scheme: "postgresql",
		User:   url.UserPassword(d.Username, d.Password),
		Host:   net.JoinHostPort(d.Host, strconv.Itoa(int(d.Port))),
		Path:   "/" + d.DBName,
	}
	if d.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": {d.SSLMode}}.Encode()
	}
	return u.String(), nil
}

func (d Database) PgxpoolConfig() (*pgxpool.Config, error) {
	connString, err := d.ConnString()
	if err != nil {
		return nil, err
	}
	return pgxpool.ParseConfig(connString)
}
