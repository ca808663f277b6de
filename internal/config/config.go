package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Log       LogConfig       `yaml:"log"`
	Storage   StorageConfig   `yaml:"storage"`
	Redis     RedisConfig     `yaml:"redis"`
	Database  DatabaseConfig  `yaml:"database"`
	Backup    BackupConfig    `yaml:"backup"`
	SendGrid  SendGridConfig  `yaml:"sendgrid"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Currency  CurrencyConfig  `yaml:"currency"`
	Renewal   RenewalConfig   `yaml:"renewal"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// StorageConfig selects where the registry snapshot lives
type StorageConfig struct {
	Type string `yaml:"type"` // "file", "redis" or "postgres"
	Dir  string `yaml:"dir"`  // For file storage
}

// RedisConfig contains redis connection settings
type RedisConfig struct {
	Addr      string `yaml:"addr"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db"`
	KeyPrefix string `yaml:"key_prefix"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

// BackupConfig contains snapshot backup settings
type BackupConfig struct {
	Type            string `yaml:"type"` // "local" or "s3"
	Dir             string `yaml:"dir"`
	Bucket          string `yaml:"bucket"`
	Prefix          string `yaml:"prefix"`
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
}

// SendGridConfig contains email service settings
type SendGridConfig struct {
	APIKey   string `yaml:"api_key"`
	Host     string `yaml:"host"`
	From     string `yaml:"from"`
	FromName string `yaml:"from_name"`
	To       string `yaml:"to"`
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	BackupSnapshot    string `yaml:"backup_snapshot"`
	SendRenewalDigest string `yaml:"send_renewal_digest"`
	FlushMetrics      string `yaml:"flush_metrics"`
}

// MetricsConfig controls the node-exporter textfile export
type MetricsConfig struct {
	TextfilePath string `yaml:"textfile_path"`
}

// CurrencyConfig describes how amounts are rendered
type CurrencyConfig struct {
	Symbol    string `yaml:"symbol"`
	Decimal   string `yaml:"decimal"`
	Thousands string `yaml:"thousands"`
}

// RenewalConfig contains renewal digest settings
type RenewalConfig struct {
	DigestWindowDays int `yaml:"digest_window_days"`
}

// Load reads configuration from a YAML file. A .env file in the working
// directory is loaded first. An empty path uses defaults plus environment.
func Load(configPath string) (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	// Override with environment variables if present
	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// LoadOptional is Load that falls back to defaults when configPath does not
// exist.
func LoadOptional(configPath string) (*Config, error) {
	if configPath != "" {
		if _, err := os.Stat(configPath); errors.Is(err, fs.ErrNotExist) {
			configPath = ""
		}
	}
	return Load(configPath)
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Storage
	if val := os.Getenv("FLEETDESK_STORAGE"); val != "" {
		c.Storage.Type = val
	}
	if val := os.Getenv("FLEETDESK_DATA_DIR"); val != "" {
		c.Storage.Dir = val
	}

	// Redis
	if val := os.Getenv("REDIS_ADDR"); val != "" {
		c.Redis.Addr = val
	}
	if val := os.Getenv("REDIS_PASSWORD"); val != "" {
		c.Redis.Password = val
	}
	if val := os.Getenv("REDIS_DB"); val != "" {
		fmt.Sscanf(val, "%d", &c.Redis.DB)
	}

	// Database
	if val := os.Getenv("DB_HOST"); val != "" {
		c.Database.Host = val
	}
	if val := os.Getenv("DB_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Database.Port)
	}
	if val := os.Getenv("DB_USER"); val != "" {
		c.Database.User = val
	}
	if val := os.Getenv("DB_PASSWORD"); val != "" {
		c.Database.Password = val
	}
	if val := os.Getenv("DB_NAME"); val != "" {
		c.Database.Database = val
	}
	if val := os.Getenv("DB_SSL_MODE"); val != "" {
		c.Database.SSLMode = val
	}

	// Backup
	if val := os.Getenv("FLEETDESK_BACKUP"); val != "" {
		c.Backup.Type = val
	}
	if val := os.Getenv("FLEETDESK_BACKUP_DIR"); val != "" {
		c.Backup.Dir = val
	}
	if val := os.Getenv("S3_BUCKET"); val != "" {
		c.Backup.Bucket = val
	}
	if val := os.Getenv("S3_ENDPOINT"); val != "" {
		c.Backup.Endpoint = val
	}
	if val := os.Getenv("AWS_REGION"); val != "" {
		c.Backup.Region = val
	}
	if val := os.Getenv("AWS_ACCESS_KEY_ID"); val != "" {
		c.Backup.AccessKeyID = val
	}
	if val := os.Getenv("AWS_SECRET_ACCESS_KEY"); val != "" {
		c.Backup.SecretAccessKey = val
	}

	// SendGrid
	if val := os.Getenv("SENDGRID_API_KEY"); val != "" {
		c.SendGrid.APIKey = val
	}
	if val := os.Getenv("SENDGRID_FROM"); val != "" {
		c.SendGrid.From = val
	}
	if val := os.Getenv("FLEETDESK_DIGEST_TO"); val != "" {
		c.SendGrid.To = val
	}

	// Metrics
	if val := os.Getenv("FLEETDESK_METRICS_TEXTFILE"); val != "" {
		c.Metrics.TextfilePath = val
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}
}

// Validate checks the configuration and fills in defaults
func (c *Config) Validate() error {
	// Log defaults
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}

	// Storage validation
	c.Storage.Type = strings.ToLower(c.Storage.Type)
	switch c.Storage.Type {
	case "":
		c.Storage.Type = "file"
		fallthrough
	case "file":
		if c.Storage.Dir == "" {
			c.Storage.Dir = "./data"
		}
	case "redis":
		if c.Redis.Addr == "" {
			return fmt.Errorf("redis address is required for redis storage")
		}
	case "postgres":
		if c.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
		if c.Database.User == "" {
			return fmt.Errorf("database user is required")
		}
		if c.Database.Database == "" {
			return fmt.Errorf("database name is required")
		}
		if c.Database.Port == 0 {
			c.Database.Port = 5432
		}
		if c.Database.SSLMode == "" {
			c.Database.SSLMode = "disable"
		}
	default:
		return fmt.Errorf("unknown storage type: %s", c.Storage.Type)
	}
	if c.Redis.KeyPrefix == "" {
		c.Redis.KeyPrefix = "cadastro"
	}

	// Backup validation
	c.Backup.Type = strings.ToLower(c.Backup.Type)
	switch c.Backup.Type {
	case "":
		c.Backup.Type = "local"
		fallthrough
	case "local":
		if c.Backup.Dir == "" {
			c.Backup.Dir = "./backups"
		}
	case "s3":
		if c.Backup.Bucket == "" {
			return fmt.Errorf("S3 bucket is required for s3 backups")
		}
		if c.Backup.Region == "" {
			c.Backup.Region = "us-east-1"
		}
	default:
		return fmt.Errorf("unknown backup type: %s", c.Backup.Type)
	}
	if c.Backup.Prefix == "" {
		c.Backup.Prefix = "snapshots"
	}

	// SendGrid defaults
	if c.SendGrid.From == "" {
		c.SendGrid.From = "noreply@fleetdesk.local"
	}
	if c.SendGrid.FromName == "" {
		c.SendGrid.FromName = "Fleetdesk"
	}

	// Scheduler defaults
	if c.Scheduler.BackupSnapshot == "" {
		c.Scheduler.BackupSnapshot = "0 0 2 * * *" // 2 AM UTC
	}
	if c.Scheduler.SendRenewalDigest == "" {
		c.Scheduler.SendRenewalDigest = "0 0 9 * * *" // Daily at 9 AM UTC
	}
	if c.Scheduler.FlushMetrics == "" {
		c.Scheduler.FlushMetrics = "0 */5 * * * *" // Every 5 minutes
	}

	// Currency defaults
	if c.Currency.Symbol == "" {
		c.Currency.Symbol = "R$"
	}
	if c.Currency.Decimal == "" {
		c.Currency.Decimal = ","
	}
	if c.Currency.Thousands == "" {
		c.Currency.Thousands = "."
	}
	if c.Currency.Decimal == c.Currency.Thousands {
		return fmt.Errorf("currency decimal and thousands separators must differ")
	}

	if c.Renewal.DigestWindowDays <= 0 {
		c.Renewal.DigestWindowDays = 7
	}

	return nil
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}
