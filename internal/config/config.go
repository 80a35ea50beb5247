package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/username/cesu-salary/internal/calendar"
)

// Config represents application configuration
type Config struct {
	Salary   SalaryConfig   `mapstructure:"salary"`
	Holidays HolidaysConfig `mapstructure:"holidays"`
	Log      LogConfig      `mapstructure:"log"`
	Output   OutputConfig   `mapstructure:"output"`
}

// SalaryConfig represents the contract figures
type SalaryConfig struct {
	HourlyRate         float64 `mapstructure:"hourly_rate"`         // Net hourly rate in euros
	TransportAllowance float64 `mapstructure:"transport_allowance"` // Monthly, in euros
	AbsentDays         int     `mapstructure:"absent_days"`
}

// HolidaysConfig represents where public holidays come from
type HolidaysConfig struct {
	LocalFile       string `mapstructure:"local_file"`
	RemoteURL       string `mapstructure:"remote_url"`
	FetchTimeout    string `mapstructure:"fetch_timeout"`
	FetchAttempts   int    `mapstructure:"fetch_attempts"`
	PersistDownload bool   `mapstructure:"persist_download"`
	Fallback        string `mapstructure:"fallback"` // "empty", "builtin" or "none"
}

// LogConfig represents logging configuration
type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// OutputConfig represents report output configuration
type OutputConfig struct {
	Format           string `mapstructure:"format"` // "text" or "json"
	NamedOutputsFile string `mapstructure:"named_outputs_file"`
}

const (
	DefaultHourlyRate         = 12.0
	DefaultTransportAllowance = 60.0
	DefaultLocalFile          = "jours_feries_metropole.ics"
	defaultFetchTimeout       = 30 * time.Second
	defaultFetchAttempts      = 3
)

// Load loads configuration from defaults, an optional file, .env and the environment.
// A missing config file is only an error when configPath is set explicitly.
func Load(configPath string) (*Config, error) {
	// Existing variables take precedence over .env entries
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("cesu")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.cesu-salary")
	}

	// Read environment variables: CESU_SALARY_HOURLY_RATE, CESU_HOLIDAYS_LOCAL_FILE, ...
	v.SetEnvPrefix("cesu")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("output.named_outputs_file", "CESU_OUTPUT_NAMED_OUTPUTS_FILE", "GITHUB_OUTPUT"); err != nil {
		return nil, fmt.Errorf("failed to bind env: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("salary.hourly_rate", DefaultHourlyRate)
	v.SetDefault("salary.transport_allowance", DefaultTransportAllowance)
	v.SetDefault("salary.absent_days", 0)

	v.SetDefault("holidays.local_file", DefaultLocalFile)
	v.SetDefault("holidays.remote_url", calendar.DefaultRemoteURL)
	v.SetDefault("holidays.fetch_timeout", defaultFetchTimeout.String())
	v.SetDefault("holidays.fetch_attempts", defaultFetchAttempts)
	v.SetDefault("holidays.persist_download", true)
	v.SetDefault("holidays.fallback", string(calendar.FallbackEmpty))

	v.SetDefault("log.file", "")
	v.SetDefault("log.level", "info")

	v.SetDefault("output.format", "text")
	v.SetDefault("output.named_outputs_file", "")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Salary.HourlyRate < 0 {
		return fmt.Errorf("salary.hourly_rate cannot be negative")
	}
	if c.Salary.TransportAllowance < 0 {
		return fmt.Errorf("salary.transport_allowance cannot be negative")
	}
	if c.Salary.AbsentDays < 0 {
		return fmt.Errorf("salary.absent_days cannot be negative")
	}

	policy, err := c.FallbackPolicy()
	if err != nil {
		return fmt.Errorf("holidays.fallback: %w", err)
	}
	if policy == calendar.FallbackNone && c.Holidays.LocalFile == "" && c.Holidays.RemoteURL == "" {
		return fmt.Errorf("holidays.local_file or holidays.remote_url is required when holidays.fallback is 'none'")
	}
	if c.Holidays.FetchTimeout != "" {
		if d, err := time.ParseDuration(c.Holidays.FetchTimeout); err != nil || d <= 0 {
			return fmt.Errorf("holidays.fetch_timeout must be a positive duration, got '%s'", c.Holidays.FetchTimeout)
		}
	}
	if c.Holidays.FetchAttempts < 0 {
		return fmt.Errorf("holidays.fetch_attempts cannot be negative")
	}

	switch c.Output.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("output.format must be 'text' or 'json', got '%s'", c.Output.Format)
	}

	return nil
}

// FallbackPolicy returns the parsed holidays fallback policy
func (c *Config) FallbackPolicy() (calendar.FallbackPolicy, error) {
	return calendar.ParseFallbackPolicy(c.Holidays.Fallback)
}

// GetFetchTimeout returns the remote fetch timeout duration
func (c *HolidaysConfig) GetFetchTimeout() time.Duration {
	if c.FetchTimeout == "" {
		return defaultFetchTimeout
	}
	duration, err := time.ParseDuration(c.FetchTimeout)
	if err != nil || duration <= 0 {
		return defaultFetchTimeout
	}
	return duration
}

// ProviderConfig converts the holidays section into a calendar.ProviderConfig
func (c *Config) ProviderConfig() calendar.ProviderConfig {
	policy, err := c.FallbackPolicy()
	if err != nil {
		policy = calendar.FallbackEmpty
	}

	return calendar.ProviderConfig{
		LocalFile:       c.Holidays.LocalFile,
		RemoteURL:       c.Holidays.RemoteURL,
		FetchTimeout:    c.Holidays.GetFetchTimeout(),
		FetchAttempts:   c.Holidays.FetchAttempts,
		PersistDownload: c.Holidays.PersistDownload,
		Fallback:        policy,
	}
}
