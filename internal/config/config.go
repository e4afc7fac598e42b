package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	defaultHTTPTimeoutSec = 20
	defaultIconCacheSize  = 256
	defaultServerURL      = "http://localhost:8080/api"
)

const (
	defaultUserAgent  = "drawer/0.1"
	configFolderName  = "drawer"
	configFileName    = "config.toml"
	configPathEnvName = "XDG_CONFIG_HOME"
)

type Config struct {
	DBPath        string
	ServerURL     string
	HTTPTimeout   time.Duration
	UserAgent     string
	IconCacheSize int
	Language      string
	LogLevel      slog.Level
}

func LoadConfig() (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, err
	}
	defaultDB := filepath.Join(home, ".local", "share", "drawer", "drawer.db")

	cfg := Config{
		DBPath:        defaultDB,
		ServerURL:     defaultServerURL,
		HTTPTimeout:   defaultHTTPTimeoutSec * time.Second,
		UserAgent:     defaultUserAgent,
		IconCacheSize: defaultIconCacheSize,
		Language:      defaultLanguage(),
		LogLevel:      slog.LevelWarn,
	}

	configPath, hasConfig, err := findConfigPath(home)
	if err != nil {
		return Config{}, err
	}
	if hasConfig {
		fileCfg, err := loadFileConfig(configPath)
		if err != nil {
			return Config{}, err
		}
		applyFileConfig(&cfg, fileCfg)
	}

	applyEnvOverrides(&cfg)

	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = defaultHTTPTimeoutSec * time.Second
	}
	if cfg.IconCacheSize < 1 {
		cfg.IconCacheSize = defaultIconCacheSize
	}
	return cfg, nil
}

type fileConfig struct {
	DBPath             *string `toml:"db_path"`
	ServerURL          *string `toml:"server_url"`
	HTTPTimeoutSeconds *int    `toml:"http_timeout_seconds"`
	UserAgent          *string `toml:"user_agent"`
	IconCacheSize      *int    `toml:"icon_cache_size"`
	Language           *string `toml:"language"`
	LogLevel           *string `toml:"log_level"`
}

func findConfigPath(home string) (string, bool, error) {
	candidates := make([]string, 0, 2)
	if xdgConfigHome := strings.TrimSpace(os.Getenv(configPathEnvName)); xdgConfigHome != "" {
		candidates = append(candidates, filepath.Join(xdgConfigHome, configFolderName, configFileName))
	}
	candidates = append(candidates, filepath.Join(home, ".config", configFolderName, configFileName))

	for _, candidate := range candidates {
		info, err := os.Stat(candidate)
		if err == nil {
			if info.IsDir() {
				return "", false, fmt.Errorf("config path %q is a directory; expected a file", candidate)
			}
			return candidate, true, nil
		}
		if os.IsNotExist(err) {
			continue
		}
		return "", false, fmt.Errorf("failed to read config path %q: %w", candidate, err)
	}
	return "", false, nil
}

func loadFileConfig(path string) (fileConfig, error) {
	var cfg fileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return fileConfig{}, fmt.Errorf("invalid config file %q: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		unknown := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			unknown = append(unknown, key.String())
		}
		sort.Strings(unknown)
		return fileConfig{}, fmt.Errorf("invalid config file %q: unknown key(s): %s", path, strings.Join(unknown, ", "))
	}
	if err := validateFileConfig(path, cfg); err != nil {
		return fileConfig{}, err
	}
	return cfg, nil
}

func validateFileConfig(path string, cfg fileConfig) error {
	if cfg.DBPath != nil && strings.TrimSpace(*cfg.DBPath) == "" {
		return fmt.Errorf("invalid config file %q: db_path must be non-empty when provided", path)
	}
	if cfg.ServerURL != nil && strings.TrimSpace(*cfg.ServerURL) == "" {
		return fmt.Errorf("invalid config file %q: server_url must be non-empty when provided", path)
	}
	if cfg.HTTPTimeoutSeconds != nil && *cfg.HTTPTimeoutSeconds <= 0 {
		return fmt.Errorf("invalid config file %q: http_timeout_seconds must be > 0", path)
	}
	if cfg.IconCacheSize != nil && *cfg.IconCacheSize < 1 {
		return fmt.Errorf("invalid config file %q: icon_cache_size must be >= 1", path)
	}
	if cfg.LogLevel != nil {
		if _, err := ParseLogLevel(*cfg.LogLevel); err != nil {
			return fmt.Errorf("invalid config file %q: %w", path, err)
		}
	}
	return nil
}

func applyFileConfig(cfg *Config, fileCfg fileConfig) {
	if fileCfg.DBPath != nil {
		cfg.DBPath = *fileCfg.DBPath
	}
	if fileCfg.ServerURL != nil {
		cfg.ServerURL = *fileCfg.ServerURL
	}
	if fileCfg.HTTPTimeoutSeconds != nil {
		cfg.HTTPTimeout = time.Duration(*fileCfg.HTTPTimeoutSeconds) * time.Second
	}
	if fileCfg.UserAgent != nil && strings.TrimSpace(*fileCfg.UserAgent) != "" {
		cfg.UserAgent = *fileCfg.UserAgent
	}
	if fileCfg.IconCacheSize != nil {
		cfg.IconCacheSize = *fileCfg.IconCacheSize
	}
	if fileCfg.Language != nil && strings.TrimSpace(*fileCfg.Language) != "" {
		cfg.Language = *fileCfg.Language
	}
	if fileCfg.LogLevel != nil {
		cfg.LogLevel, _ = ParseLogLevel(*fileCfg.LogLevel)
	}
}

func applyEnvOverrides(cfg *Config) {
	if v, ok := os.LookupEnv("DRAWER_DB_PATH"); ok && v != "" {
		cfg.DBPath = v
	}
	if v, ok := os.LookupEnv("DRAWER_SERVER_URL"); ok && v != "" {
		cfg.ServerURL = v
	}
	if v, ok := os.LookupEnv("DRAWER_HTTP_TIMEOUT_SECONDS"); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.HTTPTimeout = time.Duration(n) * time.Second
		}
	}
	if v, ok := os.LookupEnv("DRAWER_USER_AGENT"); ok && v != "" {
		cfg.UserAgent = v
	}
	if v, ok := os.LookupEnv("DRAWER_ICON_CACHE_SIZE"); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 {
			cfg.IconCacheSize = n
		}
	}
	if v, ok := os.LookupEnv("DRAWER_LANG"); ok && v != "" {
		cfg.Language = v
	}
	if v, ok := os.LookupEnv("DRAWER_LOG_LEVEL"); ok && v != "" {
		if level, err := ParseLogLevel(v); err == nil {
			cfg.LogLevel = level
		}
	}
}

// ParseLogLevel accepts debug, info, warn and error.
func ParseLogLevel(v string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(v))); err != nil {
		return 0, fmt.Errorf("invalid log level %q (expected debug|info|warn|error)", v)
	}
	return level, nil
}

func defaultLanguage() string {
	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" && v != "C" && v != "POSIX" {
			return v
		}
	}
	return "en"
}
