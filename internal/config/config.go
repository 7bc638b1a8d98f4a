package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const appName = "mingle"

// Config holds all application configuration
type Config struct {
	API      APIConfig      `mapstructure:"api"`
	Loader   LoaderConfig   `mapstructure:"loader"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	UI       UIConfig       `mapstructure:"ui"`
	Advanced AdvancedConfig `mapstructure:"advanced"`
}

// APIConfig describes the backend the client talks to
type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	WebURL  string        `mapstructure:"web_url"` // public site used for shared links
	Timeout time.Duration `mapstructure:"timeout"`
	Token   string        `mapstructure:"token"` // optional static bearer token
}

// LoaderConfig tunes the trending retry policy and the loading grid
type LoaderConfig struct {
	TrendingTimeout time.Duration `mapstructure:"trending_timeout"`
	TrendingRetries int           `mapstructure:"trending_retries"`
	RetryDelay      time.Duration `mapstructure:"retry_delay"`
	SkeletonCells   int           `mapstructure:"skeleton_cells"`
}

// StorageConfig selects where durable client state (search history, session) lives
type StorageConfig struct {
	Backend   string      `mapstructure:"backend"` // sqlite, bolt, redis, memory
	Namespace string      `mapstructure:"namespace"`
	BoltPath  string      `mapstructure:"bolt_path"`
	Redis     RedisConfig `mapstructure:"redis"`
}

// RedisConfig holds redis connection settings for the redis storage backend
type RedisConfig struct {
	Addr        string        `mapstructure:"addr"`
	Password    string        `mapstructure:"password"`
	DB          int           `mapstructure:"db"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
}

// DatabaseConfig holds sqlite settings
type DatabaseConfig struct {
	Path           string `mapstructure:"path"`
	MaxConnections int    `mapstructure:"max_connections"`
	WALMode        bool   `mapstructure:"wal_mode"`
	AutoVacuum     bool   `mapstructure:"auto_vacuum"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"` // text or json
	File       string `mapstructure:"file"`
	MaxSize    int    `mapstructure:"max_size"` // megabytes
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"` // days
	Compress   bool   `mapstructure:"compress"`
	Color      bool   `mapstructure:"color"`
}

// UIConfig holds terminal UI preferences
type UIConfig struct {
	Mouse       bool `mapstructure:"mouse"`
	GridColumns int  `mapstructure:"grid_columns"`
}

// AdvancedConfig holds rarely changed settings
type AdvancedConfig struct {
	Debug     bool            `mapstructure:"debug"`
	Clipboard ClipboardConfig `mapstructure:"clipboard"`
}

// ClipboardConfig overrides the clipboard command
type ClipboardConfig struct {
	Command string `mapstructure:"command"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "http://localhost:8000",
			WebURL:  "http://localhost:3000",
			Timeout: 10 * time.Second,
		},
		Loader: LoaderConfig{
			TrendingTimeout: 30 * time.Second,
			TrendingRetries: 2,
			RetryDelay:      3 * time.Second,
			SkeletonCells:   12,
		},
		Storage: StorageConfig{
			Backend:   "sqlite",
			Namespace: appName,
			BoltPath:  filepath.Join(getDataDir(), appName, "mingle.bolt"),
			Redis: RedisConfig{
				Addr:        "localhost:6379",
				DialTimeout: 5 * time.Second,
			},
		},
		Database: DatabaseConfig{
			Path:           filepath.Join(getDataDir(), appName, "mingle.db"),
			MaxConnections: 4,
			WALMode:        true,
			AutoVacuum:     true,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			File:       filepath.Join(getStateDir(), appName, "mingle.log"),
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
			Compress:   true,
			Color:      true,
		},
		UI: UIConfig{
			Mouse:       true,
			GridColumns: 4,
		},
	}
}

// setDefaults registers every default with viper so env overrides resolve
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("api.base_url", cfg.API.BaseURL)
	v.SetDefault("api.web_url", cfg.API.WebURL)
	v.SetDefault("api.timeout", cfg.API.Timeout)
	v.SetDefault("api.token", cfg.API.Token)

	v.SetDefault("loader.trending_timeout", cfg.Loader.TrendingTimeout)
	v.SetDefault("loader.trending_retries", cfg.Loader.TrendingRetries)
	v.SetDefault("loader.retry_delay", cfg.Loader.RetryDelay)
	v.SetDefault("loader.skeleton_cells", cfg.Loader.SkeletonCells)

	v.SetDefault("storage.backend", cfg.Storage.Backend)
	v.SetDefault("storage.namespace", cfg.Storage.Namespace)
	v.SetDefault("storage.bolt_path", cfg.Storage.BoltPath)
	v.SetDefault("storage.redis.addr", cfg.Storage.Redis.Addr)
	v.SetDefault("storage.redis.password", cfg.Storage.Redis.Password)
	v.SetDefault("storage.redis.db", cfg.Storage.Redis.DB)
	v.SetDefault("storage.redis.dial_timeout", cfg.Storage.Redis.DialTimeout)

	v.SetDefault("database.path", cfg.Database.Path)
	v.SetDefault("database.max_connections", cfg.Database.MaxConnections)
	v.SetDefault("database.wal_mode", cfg.Database.WALMode)
	v.SetDefault("database.auto_vacuum", cfg.Database.AutoVacuum)

	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.max_size", cfg.Logging.MaxSize)
	v.SetDefault("logging.max_backups", cfg.Logging.MaxBackups)
	v.SetDefault("logging.max_age", cfg.Logging.MaxAge)
	v.SetDefault("logging.compress", cfg.Logging.Compress)
	v.SetDefault("logging.color", cfg.Logging.Color)

	v.SetDefault("ui.mouse", cfg.UI.Mouse)
	v.SetDefault("ui.grid_columns", cfg.UI.GridColumns)

	v.SetDefault("advanced.debug", cfg.Advanced.Debug)
	v.SetDefault("advanced.clipboard.command", cfg.Advanced.Clipboard.Command)
}

// Load reads the config file (if any), environment overrides and defaults.
// The returned viper instance is used by callers for hot reload.
func Load(cfgFile string) (*Config, *viper.Viper, error) {
	v := viper.New()
	cfg := DefaultConfig()
	setDefaults(v, cfg)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(GetConfigDir())
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("MINGLE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, nil, fmt.Errorf("error parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	return cfg, v, nil
}

// Validate rejects settings the client cannot run with
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url must be set")
	}
	switch c.Storage.Backend {
	case "sqlite", "bolt", "redis", "memory":
	default:
		return fmt.Errorf("unknown storage backend %q (want sqlite, bolt, redis or memory)", c.Storage.Backend)
	}
	if c.Loader.TrendingRetries < 0 {
		return fmt.Errorf("loader.trending_retries must not be negative")
	}
	return nil
}

// WriteDefault writes the default configuration to path, refusing to overwrite
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists: %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	setDefaults(v, DefaultConfig())
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// DefaultConfigFile returns the path of the config file in the config dir
func DefaultConfigFile() string {
	return filepath.Join(GetConfigDir(), "config.yaml")
}

// InitializeDirs creates the config, data and state directories
func InitializeDirs() error {
	for _, dir := range []string{
		GetConfigDir(),
		filepath.Join(getDataDir(), appName),
		filepath.Join(getStateDir(), appName),
	} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return nil
}

// GetConfigDir returns the mingle config directory
func GetConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", appName)
}

func getDataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return dir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share")
}

func getStateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return dir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state")
}
