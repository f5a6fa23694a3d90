// backend/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type ServerConfig struct {
	Port string `yaml:"port"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
}

type CheckinConfig struct {
	// Timezone is the IANA name of the fixed app timezone used for every
	// timestamp the system writes (e.g. "Asia/Tokyo").
	Timezone      string `yaml:"timezone"`
	SessionTTLStr string `yaml:"session_ttl"`
	SessionTTL    time.Duration
	HistoryLimit  int `yaml:"history_limit"`
}

type BackupConfig struct {
	Dir string `yaml:"dir"`
}

type AdminConfig struct {
	// User and Password come from the environment (ADMIN_USER /
	// ADMIN_PASSWORD), not from the yaml file, so the secret never lands
	// in a committed file. An empty Password is a fatal configuration
	// error at the point an admin action is attempted.
	User     string
	Password string
}

type QRConfig struct {
	ConfirmBaseURL string `yaml:"confirm_base_url"`
}

type SMSConfig struct {
	WebhookURL string `yaml:"webhook_url"`
	TimeoutStr string `yaml:"timeout"`
	Timeout    time.Duration
}

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Checkin  CheckinConfig  `yaml:"checkin"`
	Backup   BackupConfig   `yaml:"backup"`
	QR       QRConfig       `yaml:"qr"`
	SMS      SMSConfig      `yaml:"sms"`
	Admin    AdminConfig    `yaml:"-"`
}

var AppConfig Config

// LoadConfig reads the yaml configuration file, applies environment
// overrides and fills in defaults.
func LoadConfig(configPath string) error {
	file, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(file, &AppConfig); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Environment overrides. The admin credentials only exist as env vars.
	AppConfig.Admin.User = getenv("ADMIN_USER", "admin")
	AppConfig.Admin.Password = os.Getenv("ADMIN_PASSWORD")
	if v := os.Getenv("DB_HOST"); v != "" {
		AppConfig.Database.Host = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		AppConfig.Database.Password = v
	}
	if v := os.Getenv("CONFIRM_BASE_URL"); v != "" {
		AppConfig.QR.ConfirmBaseURL = v
	}
	if v := os.Getenv("SMS_WEBHOOK_URL"); v != "" {
		AppConfig.SMS.WebhookURL = v
	}

	// Defaults.
	if AppConfig.Server.Port == "" {
		AppConfig.Server.Port = "8080"
	}
	if AppConfig.Checkin.Timezone == "" {
		AppConfig.Checkin.Timezone = "Asia/Tokyo"
	}
	if AppConfig.Checkin.HistoryLimit <= 0 {
		AppConfig.Checkin.HistoryLimit = 20
	}
	if AppConfig.Backup.Dir == "" {
		AppConfig.Backup.Dir = "backups"
	}
	if AppConfig.QR.ConfirmBaseURL == "" {
		AppConfig.QR.ConfirmBaseURL = "http://localhost:8080/checkin"
	}

	// Parse durations.
	AppConfig.Checkin.SessionTTL = 30 * time.Minute
	if AppConfig.Checkin.SessionTTLStr != "" {
		AppConfig.Checkin.SessionTTL, err = time.ParseDuration(AppConfig.Checkin.SessionTTLStr)
		if err != nil {
			return fmt.Errorf("failed to parse session_ttl: %w", err)
		}
	}
	AppConfig.SMS.Timeout = 10 * time.Second
	if AppConfig.SMS.TimeoutStr != "" {
		AppConfig.SMS.Timeout, err = time.ParseDuration(AppConfig.SMS.TimeoutStr)
		if err != nil {
			return fmt.Errorf("failed to parse sms timeout: %w", err)
		}
	}

	// The backup directory must exist before the first deletion runs.
	if err := os.MkdirAll(AppConfig.Backup.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create backup directory %s: %w", AppConfig.Backup.Dir, err)
	}

	return nil
}

// FindConfigFile probes the usual locations for config.yaml, depending on
// whether the binary is run from the repo root or from backend/.
func FindConfigFile() (string, error) {
	potentialPaths := []string{
		"config/config.yaml",
		"backend/config/config.yaml",
		filepath.Join("..", "config", "config.yaml"),
	}
	for _, p := range potentialPaths {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("config.yaml not found in standard locations")
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
