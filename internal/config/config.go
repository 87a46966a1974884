package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store  StoreConfig  `yaml:"store" mapstructure:"store"`
	Scrape ScrapeConfig `yaml:"scrape" mapstructure:"scrape"`
	Render RenderConfig `yaml:"render" mapstructure:"render"`
	Sync   SyncConfig   `yaml:"sync" mapstructure:"sync"`
	JobLog JobLogConfig `yaml:"joblog" mapstructure:"joblog"`
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the dataset blob backend.
type StoreConfig struct {
	Backend string `yaml:"backend" mapstructure:"backend"`
	Dir     string `yaml:"dir" mapstructure:"dir"`

	Endpoint  string `yaml:"endpoint" mapstructure:"endpoint"`
	AccessKey string `yaml:"access_key" mapstructure:"access_key"`
	SecretKey string `yaml:"secret_key" mapstructure:"secret_key"`
	Bucket    string `yaml:"bucket" mapstructure:"bucket"`
	Region    string `yaml:"region" mapstructure:"region"`
	UseSSL    bool   `yaml:"use_ssl" mapstructure:"use_ssl"`
	Prefix    string `yaml:"prefix" mapstructure:"prefix"`
}

// ScrapeConfig configures the tour site fetch client.
type ScrapeConfig struct {
	BaseURL           string  `yaml:"base_url" mapstructure:"base_url"`
	UserAgent         string  `yaml:"user_agent" mapstructure:"user_agent"`
	TimeoutSecs       int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxAttempts       int     `yaml:"max_attempts" mapstructure:"max_attempts"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
}

// RenderConfig configures the headless render service used for
// script-populated pages.
type RenderConfig struct {
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
	Token       string `yaml:"token" mapstructure:"token"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxAttempts int    `yaml:"max_attempts" mapstructure:"max_attempts"`
	WaitUntil   string `yaml:"wait_until" mapstructure:"wait_until"`
}

// SyncConfig holds per-flow sync limits.
type SyncConfig struct {
	MaxWeeks        int      `yaml:"max_weeks" mapstructure:"max_weeks"`
	NumPlayers      int      `yaml:"num_players" mapstructure:"num_players"`
	TournamentTypes []string `yaml:"tournament_types" mapstructure:"tournament_types"`
}

// JobLogConfig configures the durable sync audit log.
type JobLogConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// ServerConfig configures the query API server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AdminPassword  string   `yaml:"admin_password" mapstructure:"admin_password"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("ATP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.backend", "local")
	v.SetDefault("store.dir", "data")
	v.SetDefault("store.region", "us-east-1")
	v.SetDefault("store.use_ssl", true)
	v.SetDefault("store.prefix", "data")
	v.SetDefault("scrape.base_url", "https://www.atptour.com")
	v.SetDefault("scrape.timeout_secs", 30)
	v.SetDefault("scrape.max_attempts", 3)
	v.SetDefault("scrape.requests_per_second", 2)
	v.SetDefault("render.base_url", "http://localhost:3000")
	v.SetDefault("render.timeout_secs", 30)
	v.SetDefault("render.max_attempts", 3)
	v.SetDefault("render.wait_until", "networkidle0")
	v.SetDefault("sync.max_weeks", 0)
	v.SetDefault("sync.num_players", 100)
	v.SetDefault("sync.tournament_types", []string{"gs", "atp", "ch", "fu"})
	v.SetDefault("joblog.path", "data/joblog.db")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the fields a given mode actually needs. Modes are
// "sync" (scrape plus storage), "players" (sync plus the render
// service), and "serve" (query API).
func (c *Config) Validate(mode string) error {
	var problems []string

	switch c.Store.Backend {
	case "local":
		if c.Store.Dir == "" {
			problems = append(problems, "store.dir is required for the local backend")
		}
	case "s3":
		if c.Store.Endpoint == "" {
			problems = append(problems, "store.endpoint is required for the s3 backend")
		}
		if c.Store.AccessKey == "" || c.Store.SecretKey == "" {
			problems = append(problems, "store.access_key and store.secret_key are required for the s3 backend")
		}
		if c.Store.Bucket == "" {
			problems = append(problems, "store.bucket is required for the s3 backend")
		}
	default:
		problems = append(problems, "store.backend must be local or s3")
	}

	switch mode {
	case "sync":
		if c.Scrape.RequestsPerSecond <= 0 {
			problems = append(problems, "scrape.requests_per_second must be > 0")
		}
	case "players":
		if c.Scrape.RequestsPerSecond <= 0 {
			problems = append(problems, "scrape.requests_per_second must be > 0")
		}
		if c.Render.BaseURL == "" {
			problems = append(problems, "render.base_url is required for player bio sync")
		}
	case "serve":
		if c.Server.Port <= 0 {
			problems = append(problems, "server.port must be > 0")
		}
		if c.Server.AdminPassword == "" {
			problems = append(problems, "server.admin_password is required to expose admin endpoints")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(problems) > 0 {
		return eris.Errorf("config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
