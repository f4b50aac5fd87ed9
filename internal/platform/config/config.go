package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	App       AppConfig       `mapstructure:"app"`
	Assets    AssetsConfig    `mapstructure:"assets"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Clicks    ClicksConfig    `mapstructure:"clicks"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	URL            string `mapstructure:"url"`
	MaxConnections int    `mapstructure:"max_connections"`
}

// AppConfig.PublicURL overrides the origin used in scan URLs. When empty the
// origin is taken from the inbound request.
type AppConfig struct {
	PublicURL string `mapstructure:"public_url"`
}

type AssetsConfig struct {
	PublicRoot string `mapstructure:"public_root"`
}

type CacheConfig struct {
	LinkTTL time.Duration `mapstructure:"link_ttl"`
}

type ClicksConfig struct {
	BufferSize  int `mapstructure:"buffer_size"`
	WorkerCount int `mapstructure:"worker_count"`
}

type RateLimitConfig struct {
	ArtifactPerMinute int  `mapstructure:"artifact_per_minute"`
	RedirectPerMinute int  `mapstructure:"redirect_per_minute"`
	TrustProxy        bool `mapstructure:"trust_proxy"`
}

type LoggingConfig struct {
	Level    string `mapstructure:"level"`
	Format   string `mapstructure:"format"`
	Output   string `mapstructure:"output"`
	FilePath string `mapstructure:"file_path"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 15*time.Second)
	v.SetDefault("database.url", "file:data/kompi.db")
	v.SetDefault("database.max_connections", 10)
	v.SetDefault("app.public_url", "")
	v.SetDefault("assets.public_root", "public")
	v.SetDefault("cache.link_ttl", 5*time.Minute)
	v.SetDefault("clicks.buffer_size", 1000)
	v.SetDefault("clicks.worker_count", 4)
	v.SetDefault("rate_limit.artifact_per_minute", 600)
	v.SetDefault("rate_limit.redirect_per_minute", 10000)
	v.SetDefault("rate_limit.trust_proxy", false)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")
}

// Load reads the YAML file at path, layering environment overrides and
// defaults on top. A missing file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	// APP_URL is the name deployments already use for the public origin.
	if err := v.BindEnv("app.public_url", "APP_PUBLIC_URL", "APP_URL"); err != nil {
		return nil, err
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
