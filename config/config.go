package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/GMBuzatto/CutOut/utils"
)

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Upload  UploadConfig  `mapstructure:"upload"`
	Removal RemovalConfig `mapstructure:"removal"`
	Remote  RemoteConfig  `mapstructure:"remote"`
}

type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	Mode         string        `mapstructure:"mode"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type UploadConfig struct {
	MaxSize         int64         `mapstructure:"max_size"`
	UploadDir       string        `mapstructure:"upload_dir"`
	AllowedTypes    []string      `mapstructure:"allowed_types"`
	CleanupSchedule string        `mapstructure:"cleanup_schedule"`
	MaxAge          time.Duration `mapstructure:"max_age"`
}

// RemovalConfig tunes the background-removal pipeline. The heuristic
// thresholds themselves are fixed; only operational knobs live here.
type RemovalConfig struct {
	MaxConcurrent          int    `mapstructure:"max_concurrent"`
	QueueTimeout           int    `mapstructure:"queue_timeout"`
	CleanupTempFiles       bool   `mapstructure:"cleanup_temp_files"`
	MaxDimension           int    `mapstructure:"max_dimension"`
	MultilayerSeed         int64  `mapstructure:"multilayer_seed"`
	InvertDistancePolarity bool   `mapstructure:"invert_distance_polarity"`
	PaletteMethod          string `mapstructure:"palette_method"`
	PaletteSize            int    `mapstructure:"palette_size"`
}

// RemoteConfig describes the optional remote classifier. When enabled it is
// tried before the local cascade; any failure falls back silently.
type RemoteConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	BaseURL     string        `mapstructure:"base_url"`
	APIKey      string        `mapstructure:"api_key"`
	Timeout     time.Duration `mapstructure:"timeout"`
	PreviewSize int           `mapstructure:"preview_size"`
}

// Load reads the configuration from a YAML file.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// New loads config.yaml from the working directory, falling back to defaults.
func New() *Config {
	cfg, err := Load("config.yaml")
	if err != nil {
		return getDefaultConfig()
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", 24*time.Hour)

	v.SetDefault("upload.max_size", 10*1024*1024)
	v.SetDefault("upload.upload_dir", "./uploads")
	v.SetDefault("upload.allowed_types", []string{"image/jpeg", "image/png", "image/jpg"})
	v.SetDefault("upload.cleanup_schedule", "@every 1h")
	v.SetDefault("upload.max_age", 6*time.Hour)

	v.SetDefault("removal.max_concurrent", utils.DefaultMaxConcurrent())
	v.SetDefault("removal.queue_timeout", 60)
	v.SetDefault("removal.cleanup_temp_files", true)
	v.SetDefault("removal.max_dimension", 1200)
	v.SetDefault("removal.multilayer_seed", 1)
	v.SetDefault("removal.invert_distance_polarity", false)
	v.SetDefault("removal.palette_method", "dominantcolor")
	v.SetDefault("removal.palette_size", 5)

	v.SetDefault("remote.enabled", false)
	v.SetDefault("remote.base_url", "")
	v.SetDefault("remote.api_key", "")
	v.SetDefault("remote.timeout", 20*time.Second)
	v.SetDefault("remote.preview_size", 800)
}

func getDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         ":8080",
			Mode:         "debug",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Redis: RedisConfig{
			Addr:     "localhost:6379",
			Password: "",
			DB:       0,
			TTL:      24 * time.Hour,
		},
		Upload: UploadConfig{
			MaxSize:         10 * 1024 * 1024,
			UploadDir:       "./uploads",
			AllowedTypes:    []string{"image/jpeg", "image/png", "image/jpg"},
			CleanupSchedule: "@every 1h",
			MaxAge:          6 * time.Hour,
		},
		Removal: RemovalConfig{
			MaxConcurrent:    utils.DefaultMaxConcurrent(),
			QueueTimeout:     60,
			CleanupTempFiles: true,
			MaxDimension:     1200,
			MultilayerSeed:   1,
			PaletteMethod:    "dominantcolor",
			PaletteSize:      5,
		},
		Remote: RemoteConfig{
			Enabled:     false,
			Timeout:     20 * time.Second,
			PreviewSize: 800,
		},
	}
}
