package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultLedgerPath    = "/var/log/password_notify/last_notified.json"
	defaultMaxAgeDays    = 90
	defaultThresholdDays = 7
	defaultCronSpec      = "0 9 * * *"
	defaultEmailSubject  = "Password expiration notice"
	defaultLogLevel      = "info"
	defaultEnvironment   = "development"
)

// AppConfig holds all configuration for the notifier.
type AppConfig struct {
	LDAPServer   string `json:"ldap_server"`
	LDAPUser     string `json:"ldap_user"`
	LDAPPassword string `json:"ldap_password"`
	BaseDN       string `json:"base_dn"`
	LDAPCACert   string `json:"ldap_ca_cert"`

	EmailServer  string `json:"email_server"`
	EmailSender  string `json:"email_sender"`
	EmailSubject string `json:"email_subject"`

	LedgerPath string `json:"ledger_path"`
	LedgerDSN  string `json:"ledger_dsn"` // non-empty selects the Postgres ledger store

	PasswordMaxAgeDays  int `json:"password_max_age_days"`
	NotifyThresholdDays int `json:"notify_threshold_days"`

	CronSpec string `json:"cron_spec"`

	TelegramToken  string `json:"telegram_token"`
	TelegramChatID int64  `json:"telegram_chat_id"`

	LogLevel    string `json:"log_level"`
	Environment string `json:"environment"`
}

// PasswordMaxAge returns the policy window as a duration.
func (c *AppConfig) PasswordMaxAge() time.Duration {
	return time.Duration(c.PasswordMaxAgeDays) * 24 * time.Hour
}

// Load reads the JSON configuration file at path, applies defaults and
// environment overrides, and validates required keys. A missing or
// unreadable file is a fatal setup error for the caller.
func Load(path string) (*AppConfig, error) {
	// Attempt to load .env file. Errors are ignored if the file doesn't
	// exist; godotenv will not override existing env variables.
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file %s: %w", path, err)
	}

	cfg := &AppConfig{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("could not parse config file %s: %w", path, err)
	}

	// Secrets may come from the environment instead of the config file.
	if v := os.Getenv("LDAP_PASSWORD"); v != "" {
		cfg.LDAPPassword = v
	}
	if v := os.Getenv("TELEGRAM_TOKEN"); v != "" {
		cfg.TelegramToken = v
	}

	if cfg.LDAPServer == "" {
		return nil, fmt.Errorf("ldap_server is not set")
	}
	if cfg.LDAPUser == "" {
		return nil, fmt.Errorf("ldap_user is not set")
	}
	if cfg.LDAPPassword == "" {
		return nil, fmt.Errorf("ldap_password is not set")
	}
	if cfg.BaseDN == "" {
		return nil, fmt.Errorf("base_dn is not set")
	}
	if cfg.EmailServer == "" {
		return nil, fmt.Errorf("email_server is not set")
	}
	if cfg.EmailSender == "" {
		return nil, fmt.Errorf("email_sender is not set")
	}

	if cfg.LedgerPath == "" {
		cfg.LedgerPath = defaultLedgerPath
	}
	if cfg.PasswordMaxAgeDays == 0 {
		cfg.PasswordMaxAgeDays = defaultMaxAgeDays
	}
	if cfg.NotifyThresholdDays == 0 {
		cfg.NotifyThresholdDays = defaultThresholdDays
	}
	if cfg.CronSpec == "" {
		cfg.CronSpec = defaultCronSpec
	}
	if cfg.EmailSubject == "" {
		cfg.EmailSubject = defaultEmailSubject
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaultLogLevel
	}
	cfg.Environment = strings.ToLower(cfg.Environment)
	if cfg.Environment == "" {
		cfg.Environment = defaultEnvironment
	}

	return cfg, nil
}
