package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Service keys recognised by the API layer.
const (
	ServiceNotes   = "notes"
	ServiceReports = "reports"
	ServiceTasks   = "tasks"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName  string `mapstructure:"app_name"`
	Env      string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`

	APIBase        string        `mapstructure:"api_base"`
	NotesURL       string        `mapstructure:"api_notes_url"`
	ReportsURL     string        `mapstructure:"api_reports_url"`
	TasksURL       string        `mapstructure:"api_tasks_url"`
	APITimeoutMs   int64         `mapstructure:"api_timeout_ms"`
	APITimeout     time.Duration `mapstructure:"-"`
	APIToken       string        `mapstructure:"api_token"`
	PublishersFile string        `mapstructure:"publishers_file"`

	Auth0Domain       string `mapstructure:"auth0_domain"`
	Auth0ClientID     string `mapstructure:"auth0_client_id"`
	Auth0ClientSecret string `mapstructure:"auth0_client_secret"`
	Auth0Audience     string `mapstructure:"auth0_audience"`

	TokenCacheType string `mapstructure:"token_cache_type"`
	TokenCachePath string `mapstructure:"token_cache_path"`
}

// Services returns the immutable service-key to base URL mapping. Keys without an
// explicit override fall back to APIBase.
func (c *Config) Services() map[string]string {
	fallback := strings.TrimSpace(c.APIBase)
	pick := func(v string) string {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
		return fallback
	}
	return map[string]string{
		ServiceNotes:   pick(c.NotesURL),
		ServiceReports: pick(c.ReportsURL),
		ServiceTasks:   pick(c.TasksURL),
	}
}

// UsesAuth0 reports whether client-credential settings are complete.
func (c *Config) UsesAuth0() bool {
	return c.Auth0Domain != "" && c.Auth0ClientID != "" && c.Auth0ClientSecret != ""
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "samvad-dashboard")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("api_base", "")
	v.SetDefault("api_notes_url", "")
	v.SetDefault("api_reports_url", "")
	v.SetDefault("api_tasks_url", "")
	v.SetDefault("api_timeout_ms", 60000)
	v.SetDefault("api_token", "")
	v.SetDefault("publishers_file", "")
	v.SetDefault("auth0_domain", "")
	v.SetDefault("auth0_client_id", "")
	v.SetDefault("auth0_client_secret", "")
	v.SetDefault("auth0_audience", "")
	v.SetDefault("token_cache_type", "bbolt")
	v.SetDefault("token_cache_path", "./data/tokens.db")

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.finalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) finalize() error {
	if c.APITimeoutMs <= 0 {
		return fmt.Errorf("invalid api_timeout_ms (must be positive milliseconds)")
	}
	c.APITimeout = time.Duration(c.APITimeoutMs) * time.Millisecond

	c.Auth0Domain = strings.TrimSpace(c.Auth0Domain)
	c.Auth0ClientID = strings.TrimSpace(c.Auth0ClientID)
	c.Auth0ClientSecret = strings.TrimSpace(c.Auth0ClientSecret)
	partial := c.Auth0Domain != "" || c.Auth0ClientID != "" || c.Auth0ClientSecret != ""
	if partial && !c.UsesAuth0() {
		return fmt.Errorf("auth0_domain, auth0_client_id and auth0_client_secret must be set together")
	}
	return nil
}

// Redacted returns a copy safe for logging.
func (c *Config) Redacted() Config {
	out := *c
	if out.APIToken != "" {
		out.APIToken = "***"
	}
	if out.Auth0ClientSecret != "" {
		out.Auth0ClientSecret = "***"
	}
	return out
}
