package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/mr1hm/go-air-alerts/internal/models"
)

type Config struct {
	Server       ServerConfig
	Ingestion    IngestionConfig
	Cycle        CycleConfig
	Notification NotificationConfig
	Twilio       TwilioConfig
	Dispatch     DispatchConfig
	Audit        AuditConfig
	Logging      LoggingConfig
}

type ServerConfig struct {
	Enabled   bool
	Host      string
	Port      int
	RateLimit float64 // requests per second across all clients
}

type IngestionConfig struct {
	PollutionPath    string
	SubscribersPath  string
	RetryInterval    time.Duration
	DeleteAfterLoad  bool
	HistoryFromAudit bool
}

type CycleConfig struct {
	Interval time.Duration
}

// NotificationConfig is read from the TOML notification file.
type NotificationConfig struct {
	FromNumber string            `toml:"from_number"`
	StartHour  int               `toml:"start_hour"`
	EndHour    int               `toml:"end_hour"`
	BandWidth  float64           `toml:"band_width"`
	Levels     []string          `toml:"levels"`
	Messages   map[string]string `toml:"messages"`
}

type TwilioConfig struct {
	AccountSID string
	AuthToken  string
}

// Configured reports whether real SMS delivery is possible.
func (t TwilioConfig) Configured() bool {
	return t.AccountSID != "" && t.AuthToken != ""
}

type DispatchConfig struct {
	Workers            int
	RatePerSecond      float64
	DefaultCountryCode string
}

type AuditConfig struct {
	Backend       string
	Dir           string
	DBPath        string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

type LoggingConfig struct {
	Level  string
	Format string
}

const (
	AuditBackendFile   = "file"
	AuditBackendSQLite = "sqlite"
	AuditBackendRedis  = "redis"
)

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Enabled:   getEnvBool("SERVER_ENABLED", true),
			Host:      getEnv("SERVER_HOST", "localhost"),
			Port:      getEnvInt("SERVER_PORT", 8080),
			RateLimit: getEnvFloat("SERVER_RATE_LIMIT", 5),
		},
		Ingestion: IngestionConfig{
			PollutionPath:    getEnv("POLLUTION_CSV_PATH", "data/air-pollution.csv"),
			SubscribersPath:  getEnv("SUBSCRIBERS_CSV_PATH", "data/subscribers.csv"),
			RetryInterval:    getEnvDuration("INGEST_RETRY_INTERVAL", time.Minute),
			DeleteAfterLoad:  getEnvBool("INGEST_DELETE_AFTER_LOAD", true),
			HistoryFromAudit: getEnvBool("HISTORY_FROM_AUDIT", false),
		},
		Cycle: CycleConfig{
			Interval: getEnvDuration("CYCLE_INTERVAL", time.Hour),
		},
		Twilio: TwilioConfig{
			AccountSID: getEnv("TWILIO_ACCOUNT_SID", ""),
			AuthToken:  getEnv("TWILIO_AUTH_TOKEN", ""),
		},
		Dispatch: DispatchConfig{
			Workers:            getEnvInt("DISPATCH_WORKERS", 1),
			RatePerSecond:      getEnvFloat("SMS_RATE_PER_SECOND", 1),
			DefaultCountryCode: getEnv("DEFAULT_COUNTRY_CODE", "44"),
		},
		Audit: AuditConfig{
			Backend:       getEnv("AUDIT_BACKEND", AuditBackendFile),
			Dir:           getEnv("AUDIT_DIR", "data/notification-logs"),
			DBPath:        getEnv("AUDIT_DB_PATH", "data/notification-logs.db"),
			RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       getEnvInt("REDIS_DB", 0),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	notification, err := LoadNotificationFile(getEnv("NOTIFICATION_CONFIG", "notification_config.toml"))
	if err != nil {
		return nil, err
	}
	cfg.Notification = notification

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// DefaultNotification is used for any key missing from the notification file.
func DefaultNotification() NotificationConfig {
	return NotificationConfig{
		FromNumber: "+442033225373",
		StartHour:  8,
		EndHour:    20,
		BandWidth:  50,
		Levels:     append([]string(nil), models.DefaultScale...),
		Messages: map[string]string{
			"green":  "There is no need to take any additional precautions.",
			"yellow": "Avoid strenuous outdoor activity where possible and take precautions to avoid prolonged outdoor exposure.",
			"amber":  "Avoid all strenuous outdoor activity and limit outdoor exposure.",
			"red":    "Avoid all outdoor activity. Consider staying home.",
		},
	}
}

// LoadNotificationFile decodes path over the defaults. A missing file yields
// the defaults unchanged.
func LoadNotificationFile(path string) (NotificationConfig, error) {
	cfg := DefaultNotification()

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}

	var file NotificationConfig
	md, err := toml.DecodeFile(path, &file)
	if err != nil {
		return NotificationConfig{}, fmt.Errorf("error decoding notification config %s: %w", path, err)
	}

	if md.IsDefined("from_number") {
		cfg.FromNumber = file.FromNumber
	}
	if md.IsDefined("start_hour") {
		cfg.StartHour = file.StartHour
	}
	if md.IsDefined("end_hour") {
		cfg.EndHour = file.EndHour
	}
	if md.IsDefined("band_width") {
		cfg.BandWidth = file.BandWidth
	}
	if md.IsDefined("levels") {
		cfg.Levels = file.Levels
	}
	// Messages merge per level so a file may override a single advisory.
	for k, v := range file.Messages {
		cfg.Messages[strings.ToLower(k)] = v
	}

	for i, l := range cfg.Levels {
		cfg.Levels[i] = strings.ToLower(strings.TrimSpace(l))
	}

	return cfg, nil
}

// Scale returns the ordered tier list.
func (n NotificationConfig) Scale() models.Scale {
	return models.Scale(n.Levels)
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.RateLimit <= 0 {
		return fmt.Errorf("server rate limit must be positive")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "text" {
		return fmt.Errorf("invalid log format: %s", c.Logging.Format)
	}

	if c.Ingestion.RetryInterval <= 0 {
		return fmt.Errorf("ingest retry interval must be positive")
	}
	if c.Cycle.Interval <= 0 {
		return fmt.Errorf("cycle interval must be positive")
	}
	if c.Dispatch.Workers < 1 {
		return fmt.Errorf("dispatch workers must be at least 1")
	}
	if c.Dispatch.RatePerSecond <= 0 {
		return fmt.Errorf("SMS rate per second must be positive")
	}

	switch c.Audit.Backend {
	case AuditBackendFile, AuditBackendSQLite, AuditBackendRedis:
	default:
		return fmt.Errorf("invalid audit backend: %s", c.Audit.Backend)
	}
	if c.Ingestion.HistoryFromAudit && c.Audit.Backend != AuditBackendSQLite {
		return fmt.Errorf("HISTORY_FROM_AUDIT requires the sqlite audit backend")
	}

	return c.Notification.validate()
}

func (n NotificationConfig) validate() error {
	if n.StartHour < 0 || n.StartHour > 23 || n.EndHour < 0 || n.EndHour > 23 {
		return fmt.Errorf("notification hours must be within 0-23, got %d-%d", n.StartHour, n.EndHour)
	}
	if n.StartHour > n.EndHour {
		return fmt.Errorf("notification start hour %d is after end hour %d", n.StartHour, n.EndHour)
	}
	if n.BandWidth <= 0 {
		return fmt.Errorf("band width must be positive")
	}
	if len(n.Levels) == 0 {
		return fmt.Errorf("at least one level is required")
	}
	if n.FromNumber == "" {
		return fmt.Errorf("from number is required")
	}

	seen := make(map[string]bool, len(n.Levels))
	for _, l := range n.Levels {
		if l == "" {
			return fmt.Errorf("empty level name")
		}
		if seen[l] {
			return fmt.Errorf("duplicate level: %s", l)
		}
		seen[l] = true
		if _, ok := n.Messages[l]; !ok {
			return fmt.Errorf("no message configured for level: %s", l)
		}
	}

	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}
