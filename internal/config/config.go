package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

// Storage drivers
const (
	DriverSQLite   = "sqlite"
	DriverFile     = "file"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Database DatabaseConfig `mapstructure:"database"`
	Editor   EditorConfig   `mapstructure:"editor"`
	Export   ExportConfig   `mapstructure:"export"`
	OpenAI   OpenAIConfig   `mapstructure:"openai"`
	Quotes   QuotesConfig   `mapstructure:"quotes"`
	Logger   LoggerConfig   `mapstructure:"logger"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Mode         string        `mapstructure:"mode"` // debug, release, test
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// Addr returns host:port
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// StorageConfig selects where quotes and settings are persisted
type StorageConfig struct {
	Driver string `mapstructure:"driver"` // sqlite, file, postgres, memory
	Dir    string `mapstructure:"dir"`    // file driver only
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path            string        `mapstructure:"path"`
	DSN             string        `mapstructure:"dsn"` // postgres driver only
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// EditorConfig holds editor session configuration
type EditorConfig struct {
	AutosaveDelay time.Duration `mapstructure:"autosave_delay"`
}

// ExportConfig holds renderer configuration
type ExportConfig struct {
	OutputDir    string  `mapstructure:"output_dir"`
	DPI          float64 `mapstructure:"dpi"`
	FontPath     string  `mapstructure:"font_path"`
	BoldFontPath string  `mapstructure:"bold_font_path"`
}

// OpenAIConfig holds OpenAI API configuration
type OpenAIConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	APIKey      string        `mapstructure:"api_key"`
	BaseURL     string        `mapstructure:"base_url"`
	Model       string        `mapstructure:"model"`
	Timeout     time.Duration `mapstructure:"timeout"`
	PromptsPath string        `mapstructure:"prompts_path"`
}

// QuotesConfig holds quote lifecycle configuration
type QuotesConfig struct {
	StrictLifecycle bool `mapstructure:"strict_lifecycle"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// Load loads configuration from an optional YAML file, a .env file in the
// working directory and QUOTEBOOK_* environment variables, in increasing
// order of precedence
func Load(configPath string) (*Config, error) {
	if err := gotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("QUOTEBOOK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set defaults
	setDefaults(v)

	// Read config file
	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Override with environment variables
	if err := bindEnvVars(v); err != nil {
		return nil, fmt.Errorf("failed to bind environment: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)

	// Storage defaults
	v.SetDefault("storage.driver", DriverSQLite)
	v.SetDefault("storage.dir", "data")

	// Database defaults
	v.SetDefault("database.path", "data/quotebook.db")
	v.SetDefault("database.max_open_conns", 1)
	v.SetDefault("database.max_idle_conns", 1)
	v.SetDefault("database.conn_max_lifetime", 0)

	// Editor defaults
	v.SetDefault("editor.autosave_delay", 500*time.Millisecond)

	// Export defaults
	v.SetDefault("export.output_dir", "exports")
	v.SetDefault("export.dpi", 150)

	// OpenAI defaults
	v.SetDefault("openai.enabled", false)
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("openai.timeout", 60*time.Second)

	// Quote defaults
	v.SetDefault("quotes.strict_lifecycle", false)

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.output_path", "stdout")
	v.SetDefault("logger.format", "json")
}

// bindEnvVars binds environment variables that do not follow the prefix scheme
func bindEnvVars(v *viper.Viper) error {
	// Sensitive credentials from environment
	if err := v.BindEnv("openai.api_key", "QUOTEBOOK_OPENAI_API_KEY", "OPENAI_API_KEY"); err != nil {
		return err
	}
	return v.BindEnv("database.dsn", "QUOTEBOOK_DATABASE_DSN", "DATABASE_URL")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}

	switch c.Storage.Driver {
	case DriverSQLite:
		if c.Database.Path == "" {
			return fmt.Errorf("database.path is required for the sqlite driver")
		}
	case DriverFile:
		if c.Storage.Dir == "" {
			return fmt.Errorf("storage.dir is required for the file driver")
		}
	case DriverPostgres:
		if c.Database.DSN == "" {
			return fmt.Errorf("database.dsn is required for the postgres driver")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown storage.driver %q", c.Storage.Driver)
	}

	if c.Editor.AutosaveDelay <= 0 {
		return fmt.Errorf("editor.autosave_delay must be positive")
	}
	if c.Export.DPI <= 0 {
		return fmt.Errorf("export.dpi must be positive")
	}

	// Validate OpenAI credentials
	if c.OpenAI.Enabled && c.OpenAI.APIKey == "" {
		return fmt.Errorf("openai.api_key is required when openai.enabled is true")
	}

	return nil
}

// DraftingEnabled reports whether AI drafting should be wired
func (c *Config) DraftingEnabled() bool {
	return c.OpenAI.Enabled && c.OpenAI.APIKey != ""
}
