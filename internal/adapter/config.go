package adapter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/mmcdole/panda/internal/domain"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Site    SiteConfig    `mapstructure:"site"`
	Storage StorageConfig `mapstructure:"storage"`
	Logging LoggingConfig `mapstructure:"logging"`
	UI      UIConfig      `mapstructure:"ui"`
}

// SiteConfig holds gallery site configuration
type SiteConfig struct {
	Host        string        `mapstructure:"host"`        // "e-hentai.org" or "exhentai.org"
	Timeout     time.Duration `mapstructure:"timeout"`     // per request
	Concurrency int           `mapstructure:"concurrency"` // image page fan-out
}

// StorageConfig holds the settings database location
type StorageConfig struct {
	Dir string `mapstructure:"dir"` // empty keeps everything in memory
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Dir   string `mapstructure:"dir"`
	Level string `mapstructure:"level"`
}

// UIConfig holds UI configuration
type UIConfig struct {
	PreviewRows int    `mapstructure:"preview_rows"`
	Browser     string `mapstructure:"browser"` // command used to open URLs, empty for system default
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Site: SiteConfig{
			Host:        "e-hentai.org",
			Timeout:     30 * time.Second,
			Concurrency: 4,
		},
		Storage: StorageConfig{
			Dir: defaultDataPath(),
		},
		Logging: LoggingConfig{
			Dir:   filepath.Join(defaultDataPath(), "logs"),
			Level: "INFO",
		},
		UI: UIConfig{
			PreviewRows: domain.DefaultPreviewRows,
		},
	}
}

// GalleryHost returns the configured host, falling back to E-Hentai
func (c *Config) GalleryHost() domain.GalleryHost {
	host, err := domain.ParseGalleryHost(c.Site.Host)
	if err != nil {
		return domain.HostEHentai
	}
	return host
}

// defaultDataPath returns the default data directory for the current OS
func defaultDataPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "panda")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "panda")
	}
}

// DefaultConfigPath returns the default config directory for the current OS
func DefaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "panda")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "panda")
	}
}

func newViper(configDir string) *viper.Viper {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)
	v.AddConfigPath(".")

	// Environment variable overrides, e.g. PANDA_SITE_HOST
	v.SetEnvPrefix("PANDA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultConfig()
	v.SetDefault("site.host", defaults.Site.Host)
	v.SetDefault("site.timeout", defaults.Site.Timeout)
	v.SetDefault("site.concurrency", defaults.Site.Concurrency)
	v.SetDefault("storage.dir", defaults.Storage.Dir)
	v.SetDefault("logging.dir", defaults.Logging.Dir)
	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("ui.preview_rows", defaults.UI.PreviewRows)
	v.SetDefault("ui.browser", defaults.UI.Browser)
	return v
}

// LoadConfig loads configuration from configDir and the environment. An
// empty configDir uses DefaultConfigPath.
func LoadConfig(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigPath()
	}
	v := newViper(configDir)

	// Read config file if it exists
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}
	cfg.Storage.Dir = expandHome(cfg.Storage.Dir)
	cfg.Logging.Dir = expandHome(cfg.Logging.Dir)
	return cfg, nil
}

// SaveConfig writes cfg to config.yaml in configDir
func SaveConfig(configDir string, cfg *Config) error {
	if configDir == "" {
		configDir = DefaultConfigPath()
	}
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	// Set fields individually to ensure correct key names (snake_case)
	v.Set("site.host", cfg.Site.Host)
	v.Set("site.timeout", cfg.Site.Timeout.String())
	v.Set("site.concurrency", cfg.Site.Concurrency)
	v.Set("storage.dir", cfg.Storage.Dir)
	v.Set("logging.dir", cfg.Logging.Dir)
	v.Set("logging.level", cfg.Logging.Level)
	v.Set("ui.preview_rows", cfg.UI.PreviewRows)
	v.Set("ui.browser", cfg.UI.Browser)

	configFile := filepath.Join(configDir, "config.yaml")
	if err := v.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// expandHome expands a leading ~ to the user's home directory
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
