package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig
	Dashboard DashboardConfig
	Logger    LoggerConfig
	Security  SecurityConfig
}

type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// DashboardConfig controls data generation and presentation. Values may come
// from a YAML file named by DASHBOARD_CONFIG; environment variables win.
type DashboardConfig struct {
	Seed        uint64 `yaml:"seed"`
	Timezone    string `yaml:"timezone"`
	Title       string `yaml:"title"`
	PreviewRows int    `yaml:"preview_rows"`
	ChartWidth  int    `yaml:"chart_width"`
	ChartHeight int    `yaml:"chart_height"`
}

type LoggerConfig struct {
	Level  string
	Format string
}

type SecurityConfig struct {
	EnableRateLimit bool
	RateLimitRPS    int
	RateLimitBurst  int
	AllowedOrigins  []string
	TrustedProxies  []string
}

func defaultDashboard() DashboardConfig {
	return DashboardConfig{
		Seed:        42,
		Timezone:    "Asia/Seoul",
		Title:       "비즈니스 대시보드",
		PreviewRows: 100,
		ChartWidth:  900,
		ChartHeight: 400,
	}
}

func Load() (*Config, error) {
	dashboard := defaultDashboard()
	if path := os.Getenv("DASHBOARD_CONFIG"); path != "" {
		if err := loadDashboardFile(path, &dashboard); err != nil {
			return nil, err
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:            getEnvString("SERVER_HOST", "localhost"),
			Port:            getEnvInt("SERVER_PORT", 8084),
			ReadTimeout:     getEnvDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:     getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Dashboard: DashboardConfig{
			Seed:        getEnvUint64("DASHBOARD_SEED", dashboard.Seed),
			Timezone:    getEnvString("DASHBOARD_TIMEZONE", dashboard.Timezone),
			Title:       getEnvString("DASHBOARD_TITLE", dashboard.Title),
			PreviewRows: getEnvInt("DASHBOARD_PREVIEW_ROWS", dashboard.PreviewRows),
			ChartWidth:  getEnvInt("DASHBOARD_CHART_WIDTH", dashboard.ChartWidth),
			ChartHeight: getEnvInt("DASHBOARD_CHART_HEIGHT", dashboard.ChartHeight),
		},
		Logger: LoggerConfig{
			Level:  getEnvString("LOG_LEVEL", "info"),
			Format: getEnvString("LOG_FORMAT", "json"),
		},
		Security: SecurityConfig{
			EnableRateLimit: getEnvBool("SECURITY_RATE_LIMIT_ENABLED", true),
			RateLimitRPS:    getEnvInt("SECURITY_RATE_LIMIT_RPS", 100),
			RateLimitBurst:  getEnvInt("SECURITY_RATE_LIMIT_BURST", 20),
			AllowedOrigins:  getEnvStringSlice("SECURITY_ALLOWED_ORIGINS", []string{"http://localhost:8084"}),
			TrustedProxies:  getEnvStringSlice("SECURITY_TRUSTED_PROXIES", []string{"127.0.0.1"}),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func loadDashboardFile(path string, dst *DashboardConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read dashboard config: %w", err)
	}
	if err := yaml.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("parse dashboard config %s: %w", path, err)
	}
	return nil
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535, got %d", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}

	// LoadLocation maps "" to UTC, which would silently replace the default.
	if strings.TrimSpace(c.Dashboard.Timezone) == "" {
		return fmt.Errorf("dashboard timezone must not be empty")
	}

	if _, err := time.LoadLocation(c.Dashboard.Timezone); err != nil {
		return fmt.Errorf("invalid dashboard timezone %q: %w", c.Dashboard.Timezone, err)
	}

	if c.Dashboard.PreviewRows <= 0 {
		return fmt.Errorf("dashboard preview rows must be positive")
	}

	if c.Dashboard.ChartWidth <= 0 || c.Dashboard.ChartHeight <= 0 {
		return fmt.Errorf("dashboard chart size must be positive")
	}

	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLogLevels, c.Logger.Level) {
		return fmt.Errorf("invalid log level %q, must be one of: %s", c.Logger.Level, strings.Join(validLogLevels, ", "))
	}

	validLogFormats := []string{"json", "text"}
	if !contains(validLogFormats, c.Logger.Format) {
		return fmt.Errorf("invalid log format %q, must be one of: %s", c.Logger.Format, strings.Join(validLogFormats, ", "))
	}

	if c.Security.RateLimitRPS <= 0 {
		return fmt.Errorf("rate limit RPS must be positive")
	}

	if c.Security.RateLimitBurst <= 0 {
		return fmt.Errorf("rate limit burst must be positive")
	}

	return nil
}

// Location resolves the dashboard time zone. validate has already checked it.
func (c DashboardConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvUint64(key string, defaultValue uint64) uint64 {
	if value := os.Getenv(key); value != "" {
		if v, err := strconv.ParseUint(value, 10, 64); err == nil {
			return v
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvStringSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return defaultValue
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
