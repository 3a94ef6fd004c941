package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	configName = "config"
	configType = "toml"
	configDir  = ".feedsync"
	envPrefix  = "FEEDSYNC"
)

const (
	KeyAPIBaseURL            = "api.base_url"
	KeyAPILoginPath          = "api.login_path"
	KeyAPIRefreshPath        = "api.refresh_path"
	KeyAPITimeout            = "api.timeout"
	KeySessionProfile        = "session.profile"
	KeySessionBackend        = "session.backend"
	KeySessionPath           = "session.path"
	KeySessionRefreshSkew    = "session.refresh_skew"
	KeySessionRefreshTimeout = "session.refresh_timeout"
	KeyFeedResource          = "feed.resource"
	KeyFeedPageSize          = "feed.page_size"
	KeyWorkflowsPath         = "workflows.path"
	KeyLogLevel              = "log.level"
	KeyLogFormat             = "log.format"
)

type Backend string

const (
	BackendTOML   Backend = "toml"
	BackendFile   Backend = "file"
	BackendPass   Backend = "pass"
	BackendSQLite Backend = "sqlite"
	BackendChain  Backend = "chain"
)

func (b Backend) Valid() bool {
	switch b {
	case BackendTOML, BackendFile, BackendPass, BackendSQLite, BackendChain:
		return true
	default:
		return false
	}
}

type Config struct {
	API       APIConfig
	Session   SessionConfig
	Feed      FeedConfig
	Workflows WorkflowsConfig
	Log       LogConfig
}

type APIConfig struct {
	BaseURL     string
	LoginPath   string
	RefreshPath string
	Timeout     time.Duration
}

type SessionConfig struct {
	Profile        string
	Backend        Backend
	Path           string
	RefreshSkew    time.Duration
	RefreshTimeout time.Duration
}

type FeedConfig struct {
	Resource string
	PageSize int
}

type WorkflowsConfig struct {
	Path string
}

type LogConfig struct {
	Level  string
	Format string
}

// Load reads ~/.feedsync/config.toml when present, then FEEDSYNC_* environment
// overrides, on top of the defaults.
func Load(cfg *viper.Viper) (Config, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return Config{}, fmt.Errorf("resolve home directory: %w", err)
	}
	baseDir := filepath.Join(homeDir, configDir)

	cfg.SetConfigName(configName)
	cfg.SetConfigType(configType)
	cfg.AddConfigPath(baseDir)
	cfg.SetEnvPrefix(envPrefix)
	cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	cfg.AutomaticEnv()
	setDefaults(cfg, baseDir)

	if err := cfg.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	loaded := Config{
		API: APIConfig{
			BaseURL:     strings.TrimSpace(cfg.GetString(KeyAPIBaseURL)),
			LoginPath:   strings.TrimSpace(cfg.GetString(KeyAPILoginPath)),
			RefreshPath: strings.TrimSpace(cfg.GetString(KeyAPIRefreshPath)),
			Timeout:     cfg.GetDuration(KeyAPITimeout),
		},
		Session: SessionConfig{
			Profile:        strings.TrimSpace(cfg.GetString(KeySessionProfile)),
			Backend:        Backend(strings.ToLower(strings.TrimSpace(cfg.GetString(KeySessionBackend)))),
			Path:           strings.TrimSpace(cfg.GetString(KeySessionPath)),
			RefreshSkew:    cfg.GetDuration(KeySessionRefreshSkew),
			RefreshTimeout: cfg.GetDuration(KeySessionRefreshTimeout),
		},
		Feed: FeedConfig{
			Resource: strings.Trim(strings.TrimSpace(cfg.GetString(KeyFeedResource)), "/"),
			PageSize: cfg.GetInt(KeyFeedPageSize),
		},
		Workflows: WorkflowsConfig{
			Path: strings.TrimSpace(cfg.GetString(KeyWorkflowsPath)),
		},
		Log: LogConfig{
			Level:  cfg.GetString(KeyLogLevel),
			Format: cfg.GetString(KeyLogFormat),
		},
	}

	if loaded.Session.Path, err = expandHome(loaded.Session.Path, homeDir); err != nil {
		return Config{}, err
	}
	if loaded.Workflows.Path, err = expandHome(loaded.Workflows.Path, homeDir); err != nil {
		return Config{}, err
	}

	if err := loaded.Validate(); err != nil {
		return Config{}, err
	}
	return loaded, nil
}

func setDefaults(cfg *viper.Viper, baseDir string) {
	cfg.SetDefault(KeyAPIBaseURL, "http://127.0.0.1:8000")
	cfg.SetDefault(KeyAPILoginPath, "/auth/login")
	cfg.SetDefault(KeyAPIRefreshPath, "/token/refresh")
	cfg.SetDefault(KeyAPITimeout, 30*time.Second)
	cfg.SetDefault(KeySessionProfile, "default")
	cfg.SetDefault(KeySessionBackend, string(BackendTOML))
	cfg.SetDefault(KeySessionPath, filepath.Join(baseDir, "session.toml"))
	cfg.SetDefault(KeySessionRefreshSkew, 30*time.Second)
	cfg.SetDefault(KeySessionRefreshTimeout, 15*time.Second)
	cfg.SetDefault(KeyFeedResource, "posts")
	cfg.SetDefault(KeyFeedPageSize, 10)
	cfg.SetDefault(KeyWorkflowsPath, filepath.Join(baseDir, "workflows.yaml"))
	cfg.SetDefault(KeyLogLevel, "info")
	cfg.SetDefault(KeyLogFormat, "text")
}

func (c Config) Validate() error {
	parsed, err := url.Parse(c.API.BaseURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return fmt.Errorf("invalid %s %q: must be an http(s) url", KeyAPIBaseURL, c.API.BaseURL)
	}
	if c.API.LoginPath == "" || c.API.RefreshPath == "" {
		return fmt.Errorf("%s and %s are required", KeyAPILoginPath, KeyAPIRefreshPath)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("%s must be positive", KeyAPITimeout)
	}
	if c.Session.Profile == "" || strings.ContainsAny(c.Session.Profile, `/\`) {
		return fmt.Errorf("invalid %s %q", KeySessionProfile, c.Session.Profile)
	}
	if !c.Session.Backend.Valid() {
		return fmt.Errorf("invalid %s %q: expected toml, file, pass, sqlite or chain", KeySessionBackend, c.Session.Backend)
	}
	if c.Session.Path == "" {
		return fmt.Errorf("%s is empty", KeySessionPath)
	}
	if c.Session.RefreshSkew < 0 {
		return fmt.Errorf("%s must not be negative", KeySessionRefreshSkew)
	}
	if c.Session.RefreshTimeout <= 0 {
		return fmt.Errorf("%s must be positive", KeySessionRefreshTimeout)
	}
	if c.Feed.Resource == "" {
		return fmt.Errorf("%s is empty", KeyFeedResource)
	}
	if c.Feed.PageSize <= 0 {
		return fmt.Errorf("%s must be positive", KeyFeedPageSize)
	}
	return nil
}

func expandHome(path, homeDir string) (string, error) {
	if path == "~" {
		return homeDir, nil
	}
	if strings.HasPrefix(path, "~/") {
		path = filepath.Join(homeDir, path[2:])
	}
	if path == "" {
		return "", nil
	}
	abs, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("resolve path %q: %w", path, err)
	}
	return abs, nil
}
