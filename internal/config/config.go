// Package config handles configuration for careerpilot.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/diogo/careerpilot/internal/models"
)

// DefaultTimeoutSeconds bounds every HTTP request to the co-pilot API
const DefaultTimeoutSeconds = 300

// DefaultProfileID is the row the single-user profile store reads and writes
const DefaultProfileID = "a6e8a5e5-71c2-4a4c-8e8a-5e5a6e8a5e5a"

// Profile store kinds
const (
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreMemory   = "memory"
	StoreDisabled = "disabled"
)

// MarkdownConfig configures markdown rendering options
type MarkdownConfig struct {
	Style            string `json:"style"`              // built-in theme name or path to JSON theme
	EnableEmoji      bool   `json:"enable_emoji"`       // Convert :emoji: to unicode
	PreserveNewLines bool   `json:"preserve_newlines"`  // Preserve original line breaks
	TableWrap        bool   `json:"table_wrap"`         // Enable word wrap in table cells
	InlineTableLinks bool   `json:"inline_table_links"` // Render links inline in tables
}

// ServerConfig configures the API served by `careerpilot serve`
type ServerConfig struct {
	Port           string   `json:"port"`
	GeminiModel    string   `json:"gemini_model"`
	ProfileStore   string   `json:"profile_store"` // sqlite, postgres, memory or disabled
	SQLitePath     string   `json:"sqlite_path,omitempty"`
	ProfileID      string   `json:"profile_id"`
	AllowedOrigins []string `json:"allowed_origins,omitempty"`
	UserName       string   `json:"user_name,omitempty"` // used in the opening greeting
	// Secrets only come from the environment and are never written to disk.
	GeminiAPIKey string `json:"-"`
	DatabaseURL  string `json:"-"`
}

// Config represents the user configuration
type Config struct {
	// APIURL is the base URL of the co-pilot API
	APIURL string `json:"api_url"`
	// TimeoutSeconds bounds each request. A hung request fails into the
	// normal error path once it elapses.
	TimeoutSeconds int `json:"timeout_seconds"`
	// Verbose enables detailed logging output during operations.
	Verbose         bool           `json:"verbose"`
	CopyToClipboard bool           `json:"copy_to_clipboard"`
	TUITheme        string         `json:"tui_theme,omitempty"`    // TUI color theme
	DownloadDir     string         `json:"download_dir,omitempty"` // Directory for TXT and PDF downloads
	Markdown        MarkdownConfig `json:"markdown,omitempty"`
	Server          ServerConfig   `json:"server"`
}

// DefaultMarkdownConfig returns the default markdown configuration
func DefaultMarkdownConfig() MarkdownConfig {
	return MarkdownConfig{
		Style:            "careerpilot",
		EnableEmoji:      true,
		PreserveNewLines: true,
		TableWrap:        true,
		InlineTableLinks: false,
	}
}

// DefaultServerConfig returns the default server configuration
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Port:         "8000",
		GeminiModel:  "gemini-1.5-flash",
		ProfileStore: StoreSQLite,
		ProfileID:    DefaultProfileID,
		AllowedOrigins: []string{
			"http://localhost:3000",
			"http://localhost:5173",
		},
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	homeDir, _ := os.UserHomeDir()
	return Config{
		APIURL:          models.DefaultBaseURL,
		TimeoutSeconds:  DefaultTimeoutSeconds,
		Verbose:         false,
		CopyToClipboard: false,
		TUITheme:        "tokyonight",
		DownloadDir:     filepath.Join(homeDir, "Downloads"),
		Markdown:        DefaultMarkdownConfig(),
		Server:          DefaultServerConfig(),
	}
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(home, ".careerpilot"), nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

// GetSQLitePath returns the profile database path, defaulting to the config dir
func GetSQLitePath(cfg Config) (string, error) {
	if cfg.Server.SQLitePath != "" {
		return cfg.Server.SQLitePath, nil
	}
	configDir, err := EnsureConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "profile.db"), nil
}

// GetDownloadDir returns the download directory from config, creating it if necessary
func GetDownloadDir(cfg Config) (string, error) {
	dir := cfg.DownloadDir
	if dir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		dir = filepath.Join(homeDir, "Downloads")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create download directory: %w", err)
	}

	return dir, nil
}

// LoadConfig loads the configuration from disk
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	configPath, err := GetConfigPath()
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Use defaults if config doesn't exist
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Load reads the config file and applies environment overrides on top of it
func Load() (Config, error) {
	cfg, err := LoadConfig()
	ApplyEnv(&cfg)
	return cfg, err
}

// SaveConfig saves the configuration to disk
func SaveConfig(cfg Config) error {
	configDir, err := EnsureConfigDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(configDir, "config.json")

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// LoadDotEnv loads KEY=VALUE pairs from the given files (".env" when none
// are given) into the process environment. Missing files are ignored;
// variables already set in the environment win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// ApplyEnv overrides cfg with values from the environment
func ApplyEnv(cfg *Config) {
	cfg.APIURL = getEnv("CAREERPILOT_API_URL", cfg.APIURL)
	cfg.TimeoutSeconds = getEnvInt("CAREERPILOT_TIMEOUT", cfg.TimeoutSeconds)
	cfg.Verbose = getEnvBool("CAREERPILOT_VERBOSE", cfg.Verbose)
	cfg.DownloadDir = getEnv("CAREERPILOT_DOWNLOAD_DIR", cfg.DownloadDir)

	s := &cfg.Server
	s.Port = getEnv("PORT", s.Port)
	s.GeminiAPIKey = getEnv("GEMINI_API_KEY", s.GeminiAPIKey)
	s.GeminiModel = getEnv("GEMINI_MODEL", s.GeminiModel)
	s.DatabaseURL = getEnv("DATABASE_URL", s.DatabaseURL)
	s.SQLitePath = getEnv("SQLITE_PATH", s.SQLitePath)
	s.ProfileStore = getEnv("PROFILE_STORE", s.ProfileStore)
	s.ProfileID = getEnv("PROFILE_ID", s.ProfileID)
	s.UserName = getEnv("CAREERPILOT_USER_NAME", s.UserName)
	if origins, ok := os.LookupEnv("CORS_ORIGINS"); ok {
		s.AllowedOrigins = splitList(origins)
	}
}

// Validate checks the fields the client and server cannot run without
func (c Config) Validate() error {
	if strings.TrimSpace(c.APIURL) == "" {
		return fmt.Errorf("api_url cannot be empty")
	}
	if c.TimeoutSeconds <= 0 {
		return fmt.Errorf("timeout_seconds must be > 0")
	}
	switch c.Server.ProfileStore {
	case StoreSQLite, StorePostgres, StoreMemory, StoreDisabled:
	default:
		return fmt.Errorf("unknown profile_store %q", c.Server.ProfileStore)
	}
	return nil
}

// setters maps the keys accepted by `careerpilot config set` to their fields
var setters = map[string]func(*Config, string) error{
	"api_url": func(c *Config, v string) error {
		c.APIURL = strings.TrimRight(v, "/")
		return nil
	},
	"timeout_seconds": func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fmt.Errorf("timeout_seconds must be a positive integer")
		}
		c.TimeoutSeconds = n
		return nil
	},
	"verbose":           boolSetter(func(c *Config, b bool) { c.Verbose = b }),
	"copy_to_clipboard": boolSetter(func(c *Config, b bool) { c.CopyToClipboard = b }),
	"tui_theme": func(c *Config, v string) error {
		c.TUITheme = v
		return nil
	},
	"download_dir": func(c *Config, v string) error {
		c.DownloadDir = v
		return nil
	},
	"markdown.style": func(c *Config, v string) error {
		c.Markdown.Style = v
		return nil
	},
	"server.port": func(c *Config, v string) error {
		c.Server.Port = v
		return nil
	},
	"server.gemini_model": func(c *Config, v string) error {
		c.Server.GeminiModel = v
		return nil
	},
	"server.profile_store": func(c *Config, v string) error {
		c.Server.ProfileStore = v
		return nil
	},
	"server.sqlite_path": func(c *Config, v string) error {
		c.Server.SQLitePath = v
		return nil
	},
	"server.profile_id": func(c *Config, v string) error {
		c.Server.ProfileID = v
		return nil
	},
	"server.user_name": func(c *Config, v string) error {
		c.Server.UserName = v
		return nil
	},
}

// Set assigns value to the dotted key and validates the result
func (c *Config) Set(key, value string) error {
	set, ok := setters[key]
	if !ok {
		return fmt.Errorf("unknown config key %q (known: %s)", key, strings.Join(SettableKeys(), ", "))
	}
	next := *c
	if err := set(&next, strings.TrimSpace(value)); err != nil {
		return err
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	return nil
}

// SettableKeys lists the keys accepted by Set, sorted
func SettableKeys() []string {
	keys := make([]string, 0, len(setters))
	for k := range setters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func boolSetter(apply func(*Config, bool)) func(*Config, string) error {
	return func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("expected true or false, got %q", v)
		}
		apply(c, b)
		return nil
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
