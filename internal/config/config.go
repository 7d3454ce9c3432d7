package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/username/attendance-report/pkg/dateutil"
)

// Config represents application configuration
type Config struct {
	Database   DatabaseConfig   `mapstructure:"database"`
	Calendar   CalendarConfig   `mapstructure:"calendar"`
	Attendance AttendanceConfig `mapstructure:"attendance"`
	Approvals  ApprovalsConfig  `mapstructure:"approvals"`
	Server     ServerConfig     `mapstructure:"server"`
	Log        LogConfig        `mapstructure:"log"`
}

// DatabaseConfig represents the entry and calendar store
type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"` // "sqlite" or "postgres"
	DSN      string `mapstructure:"dsn"`
	LogLevel string `mapstructure:"log_level"` // gorm logger: silent, error, warn, info
}

// CalendarConfig represents the public holiday source
type CalendarConfig struct {
	Type         string `mapstructure:"type"` // "builtin" or "holidays-api"
	APIURL       string `mapstructure:"api_url"`
	FallbackFile string `mapstructure:"fallback_file"`
	CacheTTL     string `mapstructure:"cache_ttl"`
}

// AttendanceConfig represents the working-time rules used by the monthly report
type AttendanceConfig struct {
	ScheduledStart    string   `mapstructure:"scheduled_start"` // HH:MM
	ScheduledEnd      string   `mapstructure:"scheduled_end"`   // HH:MM
	DailyHours        int      `mapstructure:"daily_hours"`
	MainTitles        []string `mapstructure:"main_titles"`
	OtherSummaryLimit int      `mapstructure:"other_summary_limit"`
}

// ApprovalsConfig holds bcrypt hashes of the per-role approval passwords
type ApprovalsConfig struct {
	ManagerPasswordHash   string `mapstructure:"manager_password_hash"`
	DirectorPasswordHash  string `mapstructure:"director_password_hash"`
	PresidentPasswordHash string `mapstructure:"president_password_hash"`
}

// ServerConfig represents the HTTP API listener
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// LogConfig represents log output. An empty File logs to the console.
type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "attendance.db")
	v.SetDefault("database.log_level", "warn")

	v.SetDefault("calendar.type", "builtin")
	v.SetDefault("calendar.cache_ttl", "24h")

	v.SetDefault("attendance.scheduled_start", "08:30")
	v.SetDefault("attendance.scheduled_end", "17:30")
	v.SetDefault("attendance.daily_hours", 8)
	v.SetDefault("attendance.other_summary_limit", 50)

	v.SetDefault("server.addr", ":8080")

	v.SetDefault("log.level", "info")
}

// Load loads configuration from file. Without an explicit path a missing
// config file is not an error and defaults apply.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.attendance-report")
		v.AddConfigPath("/etc/attendance-report")
	}

	// Read environment variables, e.g. ATTENDANCE_DATABASE_DSN
	v.SetEnvPrefix("ATTENDANCE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

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

	config.ExpandEnvVars()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("database.driver must be 'sqlite' or 'postgres', got '%s'", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required")
	}

	switch c.Calendar.Type {
	case "builtin", "holidays-api":
	default:
		return fmt.Errorf("calendar.type must be 'builtin' or 'holidays-api', got '%s'", c.Calendar.Type)
	}

	start, err := dateutil.ParseClock(c.Attendance.ScheduledStart)
	if err != nil {
		return fmt.Errorf("attendance.scheduled_start: %w", err)
	}
	end, err := dateutil.ParseClock(c.Attendance.ScheduledEnd)
	if err != nil {
		return fmt.Errorf("attendance.scheduled_end: %w", err)
	}
	if end <= start {
		return fmt.Errorf("attendance.scheduled_end must be after scheduled_start")
	}
	if c.Attendance.DailyHours <= 0 || c.Attendance.DailyHours > 24 {
		return fmt.Errorf("attendance.daily_hours must be between 1 and 24")
	}
	if c.Attendance.OtherSummaryLimit <= 0 {
		return fmt.Errorf("attendance.other_summary_limit must be positive")
	}

	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}

	return nil
}

// GetCacheTTL returns cache TTL duration
func (c *CalendarConfig) GetCacheTTL() time.Duration {
	if c.CacheTTL == "" {
		return 24 * time.Hour
	}
	duration, err := time.ParseDuration(c.CacheTTL)
	if err != nil {
		return 24 * time.Hour
	}
	return duration
}

// GetScheduledStart returns the scheduled start in minutes since midnight.
// Default: 08:30
func (c *AttendanceConfig) GetScheduledStart() int {
	m, err := dateutil.ParseClock(c.ScheduledStart)
	if err != nil {
		return 8*60 + 30
	}
	return m
}

// GetScheduledEnd returns the scheduled end in minutes since midnight.
// Default: 17:30
func (c *AttendanceConfig) GetScheduledEnd() int {
	m, err := dateutil.ParseClock(c.ScheduledEnd)
	if err != nil {
		return 17*60 + 30
	}
	return m
}

// ExpandEnvVars expands environment variables in config strings.
// Password hashes are left alone since bcrypt output contains '$'.
func (c *Config) ExpandEnvVars() {
	c.Database.DSN = os.ExpandEnv(c.Database.DSN)
	c.Log.File = os.ExpandEnv(c.Log.File)
}
