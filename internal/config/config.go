package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type ServerConfig struct {
	Address string `mapstructure:"address"`
	Port    int    `mapstructure:"port"`
	Mode    string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Path    string `mapstructure:"path"`
	LogMode bool   `mapstructure:"log_mode"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	Issuer      string `mapstructure:"issuer"`
	ExpireHours int    `mapstructure:"expire_hours"`
}

type SecurityConfig struct {
	BcryptCost    int    `mapstructure:"bcrypt_cost"`
	EncryptionKey string `mapstructure:"encryption_key"`
}

type LogConfig struct {
	File   string `mapstructure:"file"`
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // console / json
}

type BackupConfig struct {
	Dir string `mapstructure:"dir"`
}

type AppSubConfig struct {
	PageSize        int    `mapstructure:"page_size"`
	DefaultCurrency string `mapstructure:"default_currency"`
}

// RecurringConfig controls the recurring transaction materialization job.
type RecurringConfig struct {
	Timezone       string        `mapstructure:"timezone"`
	MonthEndPolicy string        `mapstructure:"month_end_policy"` // exact / clamp
	Timeout        time.Duration `mapstructure:"timeout"`
	NotifyFailures bool          `mapstructure:"notify_failures"`
}

// Location resolves Timezone, falling back to UTC when it is empty.
func (r RecurringConfig) Location() (*time.Location, error) {
	if r.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(r.Timezone)
}

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Security  SecurityConfig  `mapstructure:"security"`
	Log       LogConfig       `mapstructure:"log"`
	Backup    BackupConfig    `mapstructure:"backup"`
	App       AppSubConfig    `mapstructure:"app"`
	Recurring RecurringConfig `mapstructure:"recurring"`
}

var (
	appConfig *Config
	mu        sync.RWMutex
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("database.path", "data/ledger.db")
	v.SetDefault("database.log_mode", false)
	v.SetDefault("jwt.issuer", "pocket-ledger")
	v.SetDefault("jwt.expire_hours", 24)
	v.SetDefault("security.bcrypt_cost", 12)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("backup.dir", "data/backups")
	v.SetDefault("app.page_size", 20)
	v.SetDefault("app.default_currency", "CNY")
	v.SetDefault("recurring.timezone", "UTC")
	v.SetDefault("recurring.month_end_policy", "exact")
	v.SetDefault("recurring.timeout", "5m")
	v.SetDefault("recurring.notify_failures", true)
}

// Load loads configuration from given file path (e.g. "config.yaml").
// If path is empty, it looks for config.yaml in the current working directory
// and falls back to defaults plus environment when none exists.
// A .env file next to the binary is applied to the process environment first.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if path == "" {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	} else {
		v.SetConfigFile(path)
	}

	// environment overrides, e.g. PPL_SERVER_PORT=9000
	v.SetEnvPrefix("PPL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	mu.Lock()
	appConfig = &c
	mu.Unlock()
	return &c, nil
}

// Validate checks settings that would otherwise fail late at runtime.
func (c *Config) Validate() error {
	if c.Server.Mode == "release" {
		if c.JWT.Secret == "" {
			return errors.New("config: jwt.secret is required in release mode")
		}
		if c.Security.EncryptionKey == "" {
			return errors.New("config: security.encryption_key is required in release mode")
		}
	}
	if _, err := c.Recurring.Location(); err != nil {
		return fmt.Errorf("config: recurring.timezone: %w", err)
	}
	switch c.Recurring.MonthEndPolicy {
	case "", "exact", "clamp":
	default:
		return fmt.Errorf("config: recurring.month_end_policy must be exact or clamp, got %q", c.Recurring.MonthEndPolicy)
	}
	return nil
}

// Get returns the loaded global configuration.
// Call Load() once at application startup.
func Get() *Config {
	mu.RLock()
	defer mu.RUnlock()
	return appConfig
}
