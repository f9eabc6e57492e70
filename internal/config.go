package internal

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/viper"

	"github.com/tuannm99/novabuf/internal/bufferpool"
	"github.com/tuannm99/novabuf/internal/storage"
)

const envPrefix = "NOVABUF"

type NovaBufConfig struct {
	AppName string `mapstructure:"app_name"`

	BufferPool struct {
		Capacity int    `mapstructure:"capacity"`
		Policy   string `mapstructure:"policy"`
		K        int    `mapstructure:"k"`
	} `mapstructure:"buffer_pool"`

	Storage struct {
		Workdir  string `mapstructure:"workdir"`
		File     string `mapstructure:"file"`
		PageSize int    `mapstructure:"page_size"`
	} `mapstructure:"storage"`

	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_name", "novabuf")
	v.SetDefault("buffer_pool.capacity", bufferpool.DefaultCapacity)
	v.SetDefault("buffer_pool.policy", string(bufferpool.PolicyLRUK))
	v.SetDefault("buffer_pool.k", bufferpool.DefaultK)
	v.SetDefault("storage.workdir", "./data")
	v.SetDefault("storage.file", "pages.db")
	v.SetDefault("storage.page_size", storage.DefaultPageSize)
	v.SetDefault("log.level", "info")
}

// LoadConfig reads the YAML file at path (skipped when empty), applies
// NOVABUF_* environment overrides, e.g. NOVABUF_BUFFER_POOL_K, and validates.
func LoadConfig(path string) (*NovaBufConfig, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg NovaBufConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func (c *NovaBufConfig) Validate() error {
	if c.BufferPool.Capacity <= 0 {
		return fmt.Errorf("buffer_pool.capacity must be greater than 0")
	}
	if c.BufferPool.K <= 0 {
		return fmt.Errorf("buffer_pool.k must be greater than 0")
	}
	if _, err := bufferpool.ParsePolicy(c.BufferPool.Policy); err != nil {
		return err
	}
	if c.Storage.PageSize < storage.MinPageSize || c.Storage.PageSize%storage.MinPageSize != 0 {
		return fmt.Errorf("storage.page_size must be a multiple of %d", storage.MinPageSize)
	}
	if _, err := ParseLogLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// PoolOptions converts the buffer_pool section.
func (c *NovaBufConfig) PoolOptions() bufferpool.Options {
	policy, _ := bufferpool.ParsePolicy(c.BufferPool.Policy)
	return bufferpool.Options{
		Capacity: c.BufferPool.Capacity,
		Policy:   policy,
		K:        c.BufferPool.K,
	}
}

func ParseLogLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log level %q (must be debug, info, warn, or error)", s)
	}
	return lvl, nil
}
