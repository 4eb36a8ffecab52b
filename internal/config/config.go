package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Database struct {
		// DSN is a SQLite file path or a postgres:// URL.
		DSN string `mapstructure:"dsn"`
	} `mapstructure:"database"`

	Irys struct {
		PrivateKey string        `mapstructure:"private_key"`
		NodeURL    string        `mapstructure:"node_url"`
		GatewayURL string        `mapstructure:"gateway_url"`
		Timeout    time.Duration `mapstructure:"timeout"`
	} `mapstructure:"irys"`

	Redis struct {
		Address  string `mapstructure:"address"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
	} `mapstructure:"redis"`

	Worker struct {
		Concurrency int            `mapstructure:"concurrency"`
		Queues      map[string]int `mapstructure:"queues"`
	} `mapstructure:"worker"`

	Analysis struct {
		Refine struct {
			Enabled  bool   `mapstructure:"enabled"`
			Provider string `mapstructure:"provider"` // "openai" or "gemini"
			Model    string `mapstructure:"model"`
			Prompt   string `mapstructure:"prompt"` // path to a prompt template; empty uses the built-in one
		} `mapstructure:"refine"`
	} `mapstructure:"analysis"`

	OpenaiApiKey string `mapstructure:"openai_api_key"`
	GoogleApiKey string `mapstructure:"google_api_key"`

	Archive struct {
		Enabled         bool   `mapstructure:"enabled"`
		Endpoint        string `mapstructure:"endpoint"`
		AccessKeyID     string `mapstructure:"access_key_id"`
		SecretAccessKey string `mapstructure:"secret_access_key"`
		Bucket          string `mapstructure:"bucket"`
		Region          string `mapstructure:"region"`
		UseSSL          bool   `mapstructure:"use_ssl"`
		Prefix          string `mapstructure:"prefix"`
	} `mapstructure:"archive"`

	Server struct {
		Addr string `mapstructure:"addr"`
		Port int    `mapstructure:"port"`
	} `mapstructure:"server"`

	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"` // "text" or "json"
	} `mapstructure:"log"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.dsn", "hush.db")
	v.SetDefault("irys.private_key", "")
	v.SetDefault("irys.node_url", "https://devnet.irys.xyz")
	v.SetDefault("irys.gateway_url", "https://devnet.irys.xyz")
	v.SetDefault("irys.timeout", 30*time.Second)
	v.SetDefault("redis.address", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("worker.concurrency", 5)
	v.SetDefault("worker.queues", map[string]int{"analysis": 1})
	v.SetDefault("analysis.refine.enabled", false)
	v.SetDefault("analysis.refine.provider", "openai")
	v.SetDefault("analysis.refine.model", "gpt-4o-mini")
	v.SetDefault("analysis.refine.prompt", "")
	v.SetDefault("openai_api_key", "")
	v.SetDefault("google_api_key", "")
	v.SetDefault("archive.enabled", false)
	v.SetDefault("archive.endpoint", "")
	v.SetDefault("archive.access_key_id", "")
	v.SetDefault("archive.secret_access_key", "")
	v.SetDefault("archive.bucket", "hush-confessions")
	v.SetDefault("archive.region", "us-east-1")
	v.SetDefault("archive.use_ssl", true)
	v.SetDefault("archive.prefix", "")
	v.SetDefault("server.addr", "")
	v.SetDefault("server.port", 8000)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// LoadConfig reads config.yaml from the working directory if present and
// overlays environment variables (HUSH_DATABASE_DSN, IRYS_PRIVATE_KEY,
// OPENAI_API_KEY, GEMINI_API_KEY, ...).
func LoadConfig() (*Config, error) {
	return load(viper.GetViper(), ".")
}

func load(v *viper.Viper, dirs ...string) (*Config, error) {
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, d := range dirs {
		v.AddConfigPath(d)
	}

	setDefaults(v)

	v.SetEnvPrefix("HUSH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Well-known variable names shared with other tooling.
	_ = v.BindEnv("irys.private_key", "HUSH_IRYS_PRIVATE_KEY", "IRYS_PRIVATE_KEY")
	_ = v.BindEnv("openai_api_key", "HUSH_OPENAI_API_KEY", "OPENAI_API_KEY")
	_ = v.BindEnv("google_api_key", "HUSH_GOOGLE_API_KEY", "GEMINI_API_KEY")

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; defaults and env vars apply.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}
	return &cfg, nil
}

// ListenAddr is the host:port the API server binds to.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Addr, c.Server.Port)
}
