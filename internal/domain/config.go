package domain

import (
	"bytes"
	_ "embed"
	"fmt"
	"path/filepath"
	"text/template"
	"time"
)

//go:embed config_template.toml
var configTemplateContent string

// Config represents the application configuration.
// Fields are ordered to minimize memory padding.
type Config struct {
	Warnings []string     `toml:"-"`
	Store    StoreConfig  `toml:"store"`
	AI       AIConfig     `toml:"ai"`
	Server   ServerConfig `toml:"server"`
	Log      LogConfig    `toml:"log"`
	Timer    TimerConfig  `toml:"timer"`
}

// StoreConfig holds persistence settings from [store] section.
type StoreConfig struct {
	RemoteURI             string `toml:"remote_uri,omitempty"`              // mongodb://, postgres:// or sqlite:// URI of the authoritative store
	LocalPath             string `toml:"local_path,omitempty"`              // JSON file used when the remote store is unavailable
	Database              string `toml:"database,omitempty"`                // Database name for mongodb URIs without one
	ConnectTimeoutSeconds int    `toml:"connect_timeout_seconds,omitempty"` // Reachability probe timeout
	Volatile              bool   `toml:"volatile,omitempty"`                // Keep the local store in memory only
}

// ConnectTimeout returns the probe timeout as a duration.
func (c StoreConfig) ConnectTimeout() time.Duration {
	if c.ConnectTimeoutSeconds <= 0 {
		return DefaultConnectTimeoutSeconds * time.Second
	}
	return time.Duration(c.ConnectTimeoutSeconds) * time.Second
}

// AIConfig holds advisory gateway settings from [ai] section.
type AIConfig struct {
	APIKey         string   `toml:"api_key,omitempty"`         // Gemini API key (prefer GEMINI_API_KEY)
	BaseURL        string   `toml:"base_url,omitempty"`        // Generative language API root
	Models         []string `toml:"models,omitempty"`          // Model preference, most preferred first
	TimeoutSeconds int      `toml:"timeout_seconds,omitempty"` // Per-call timeout
}

// Timeout returns the per-call timeout as a duration.
func (c AIConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return DefaultAITimeoutSeconds * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ServerConfig holds HTTP API settings from [server] section.
type ServerConfig struct {
	Addr          string `toml:"addr,omitempty"`            // Listen address
	JWTSecret     string `toml:"jwt_secret,omitempty"`      // HMAC secret for API tokens (prefer JWT_SECRET)
	TokenTTLHours int    `toml:"token_ttl_hours,omitempty"` // Token lifetime
}

// TokenTTL returns the token lifetime as a duration.
func (c ServerConfig) TokenTTL() time.Duration {
	if c.TokenTTLHours <= 0 {
		return DefaultTokenTTLHours * time.Hour
	}
	return time.Duration(c.TokenTTLHours) * time.Hour
}

// LogConfig holds logging settings from [log] section.
type LogConfig struct {
	Level string `toml:"level,omitempty"` // Log level: debug, info, warn, error
}

// TimerConfig holds the timing scheme from [timer] section. Values are minutes
// except RolloverHours.
type TimerConfig struct {
	ShortWork             int `toml:"short_work,omitempty"`
	ShortRest             int `toml:"short_rest,omitempty"`
	LongWork              int `toml:"long_work,omitempty"`
	LongRest              int `toml:"long_rest,omitempty"`
	DefaultSubtaskMinutes int `toml:"default_subtask_minutes,omitempty"`
	RolloverHours         int `toml:"rollover_hours,omitempty"`
}

// Intervals returns the work and rest minutes for a cycle kind.
func (c TimerConfig) Intervals(kind System) (work, rest int) {
	c = c.withDefaults()
	if kind == SystemLong {
		return c.LongWork, c.LongRest
	}
	return c.ShortWork, c.ShortRest
}

// RolloverWindow returns the minimum age of a day window before it can close.
func (c TimerConfig) RolloverWindow() time.Duration {
	return time.Duration(c.withDefaults().RolloverHours) * time.Hour
}

func (c TimerConfig) withDefaults() TimerConfig {
	d := DefaultTimerConfig()
	if c.ShortWork <= 0 {
		c.ShortWork = d.ShortWork
	}
	if c.ShortRest <= 0 {
		c.ShortRest = d.ShortRest
	}
	if c.LongWork <= 0 {
		c.LongWork = d.LongWork
	}
	if c.LongRest <= 0 {
		c.LongRest = d.LongRest
	}
	if c.DefaultSubtaskMinutes <= 0 {
		c.DefaultSubtaskMinutes = d.DefaultSubtaskMinutes
	}
	if c.RolloverHours <= 0 {
		c.RolloverHours = d.RolloverHours
	}
	return c
}

// DefaultTimerConfig returns the 25/5 and 45/15 schemes with a 12 hour window.
func DefaultTimerConfig() TimerConfig {
	return TimerConfig{
		ShortWork:             25,
		ShortRest:             5,
		LongWork:              45,
		LongRest:              15,
		DefaultSubtaskMinutes: 15,
		RolloverHours:         12,
	}
}

// Default configuration values.
const (
	DefaultLogLevel              = "info"
	DefaultConnectTimeoutSeconds = 5
	DefaultAITimeoutSeconds      = 30
	DefaultTokenTTLHours         = 24 * 7
	DefaultServerAddr            = ":5005"
	DefaultAIBaseURL             = "https://generativelanguage.googleapis.com/v1beta"
	DefaultLocalStoreFile        = "db.json"
	DefaultDatabaseName          = "focusday"
)

// DefaultModelPreference lists models from most to least preferred.
func DefaultModelPreference() []string {
	return []string{"gemini-1.5-flash", "gemini-1.5-pro", "gemini-pro-latest", "gemini-pro"}
}

// Directory and file names for focusday.
const (
	AppDirName          = "focusday"       // Directory name under XDG config/data homes
	ConfigFileName      = "config.toml"    // Global config file name
	LocalConfigFileName = ".focusday.toml" // Config file name in the working directory
	SessionFileName     = "session.toml"   // Logged-in user
	LogDirName          = "logs"           // Log directory under the data dir
	EnvFileName         = ".env"           // Loaded before environment overrides
)

// GlobalConfigDir returns the global config directory.
// configHome is typically XDG_CONFIG_HOME or ~/.config (resolved by caller).
func GlobalConfigDir(configHome string) string {
	return filepath.Join(configHome, AppDirName)
}

// GlobalConfigPath returns the global config path.
func GlobalConfigPath(configHome string) string {
	return filepath.Join(GlobalConfigDir(configHome), ConfigFileName)
}

// DataDir returns the data directory for stores and logs.
// dataHome is typically XDG_DATA_HOME or ~/.local/share (resolved by caller).
func DataDir(dataHome string) string {
	return filepath.Join(dataHome, AppDirName)
}

// ConfigInfo describes one config file on disk.
type ConfigInfo struct {
	Path    string
	Content string
	Exists  bool
}

// GlobalLogPath returns the process-wide log file.
func GlobalLogPath(dataDir string) string {
	return filepath.Join(dataDir, LogDirName, "focusday.log")
}

// UserLogPath returns the log file for one user.
func UserLogPath(dataDir, userID string) string {
	return filepath.Join(dataDir, LogDirName, "user-"+userID+".log")
}

// NewDefaultConfig returns a Config with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			ConnectTimeoutSeconds: DefaultConnectTimeoutSeconds,
			Database:              DefaultDatabaseName,
		},
		AI: AIConfig{
			BaseURL:        DefaultAIBaseURL,
			Models:         DefaultModelPreference(),
			TimeoutSeconds: DefaultAITimeoutSeconds,
		},
		Server: ServerConfig{
			Addr:          DefaultServerAddr,
			TokenTTLHours: DefaultTokenTTLHours,
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
		Timer: DefaultTimerConfig(),
	}
}

// RenderConfigTemplate renders a commented config file from cfg.
// Secrets are never written into the template.
func RenderConfigTemplate(cfg *Config) string {
	tmpl, err := template.New("config").Delims("<<", ">>").Parse(configTemplateContent)
	if err != nil {
		// Should never happen with embedded template
		panic(fmt.Sprintf("failed to parse config template: %v", err))
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, cfg); err != nil {
		panic(fmt.Sprintf("failed to execute config template: %v", err))
	}
	return buf.String()
}
