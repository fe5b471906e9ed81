// Package config loads poemlab settings from the environment, an optional .env file and
// an optional config file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const EnvPrefix = "POEMLAB"

// DefaultCacheDir is the file cache location used when nothing else is configured.
const DefaultCacheDir = ".poemlab/cache"

type LogConfig struct {
	Level      string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format     string `mapstructure:"format" validate:"oneof=console json"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" validate:"gte=0"`
	MaxBackups int    `mapstructure:"max_backups" validate:"gte=0"`
	MaxAgeDays int    `mapstructure:"max_age_days" validate:"gte=0"`
}

type CacheConfig struct {
	Backend    string        `mapstructure:"backend" validate:"oneof=memory file sqlite redis none"`
	TTL        time.Duration `mapstructure:"ttl" validate:"gt=0"`
	Prefix     string        `mapstructure:"prefix" validate:"required"`
	Dir        string        `mapstructure:"dir" validate:"required_if=Backend file"`
	SQLitePath string        `mapstructure:"sqlite_path" validate:"required_if=Backend sqlite"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr" validate:"required"`
	DB       int    `mapstructure:"db" validate:"gte=0"`
	Password string `mapstructure:"password"`
}

type DictionaryConfig struct {
	Path string `mapstructure:"path"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr" validate:"required"`
}

type Config struct {
	Log        LogConfig        `mapstructure:"log"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Dictionary DictionaryConfig `mapstructure:"dictionary"`
	Server     ServerConfig     `mapstructure:"server"`
	Workers    int              `mapstructure:"workers" validate:"gte=0"`
	Workspace  string           `mapstructure:"workspace"`
}

func setDefault(v *viper.Viper) {
	v.SetDefault("LOG__LEVEL", "info")
	v.SetDefault("LOG__FORMAT", "console")
	v.SetDefault("LOG__FILE", "")
	v.SetDefault("LOG__MAX_SIZE_MB", 10)
	v.SetDefault("LOG__MAX_BACKUPS", 3)
	v.SetDefault("LOG__MAX_AGE_DAYS", 28)

	v.SetDefault("CACHE__BACKEND", "memory")
	v.SetDefault("CACHE__TTL", "24h")
	v.SetDefault("CACHE__PREFIX", "poem-analysis:")
	v.SetDefault("CACHE__DIR", DefaultCacheDir)
	v.SetDefault("CACHE__SQLITE_PATH", ".poemlab/cache.db")

	v.SetDefault("REDIS__ADDR", "localhost:6379")
	v.SetDefault("REDIS__DB", 0)
	v.SetDefault("REDIS__PASSWORD", "")

	v.SetDefault("DICTIONARY__PATH", "")
	v.SetDefault("SERVER__ADDR", ":8080")
	v.SetDefault("WORKERS", 0)
	v.SetDefault("WORKSPACE", "")
}

// Load reads configuration. A .env file in the working directory is applied to the
// process environment first; path, when set, names a yaml/json/toml/env config file.
// Environment variables (POEMLAB_CACHE__BACKEND and so on) override file values.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.NewWithOptions(viper.KeyDelimiter("__"))
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "__"))
	v.AutomaticEnv()
	setDefault(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}
