package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the server, the seed tool and the
// terminal client. Values are read by Viper from a config file or
// environment variables.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Images   ImagesConfig   `mapstructure:"images"`
	Log      LogConfig      `mapstructure:"log"`
	Client   ClientConfig   `mapstructure:"client"`
}

type ServerConfig struct {
	Address      string          `mapstructure:"address"`
	Mode         string          `mapstructure:"mode"` // gin mode: debug, release, test
	ReadTimeout  time.Duration   `mapstructure:"read_timeout"`
	WriteTimeout time.Duration   `mapstructure:"write_timeout"`
	CORSOrigins  []string        `mapstructure:"cors_origins"`
	RateLimit    RateLimitConfig `mapstructure:"rate_limit"`
}

// RateLimitConfig allows Requests per Window for each client IP with Burst headroom.
// Requests <= 0 disables limiting.
type RateLimitConfig struct {
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
	Burst    int           `mapstructure:"burst"`
}

type DatabaseConfig struct {
	URI     string        `mapstructure:"uri"`
	Name    string        `mapstructure:"name"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// ImagesConfig controls how exercise image file names become URLs.
// When S3.BucketName is set images are served through presigned S3 URLs,
// otherwise BaseURL + "/" + file name is used.
type ImagesConfig struct {
	BaseURL string   `mapstructure:"base_url"`
	S3      S3Config `mapstructure:"s3"`
}

type S3Config struct {
	Endpoint        string        `mapstructure:"endpoint"`
	Region          string        `mapstructure:"region"`
	AccessKeyID     string        `mapstructure:"access_key_id"`
	SecretAccessKey string        `mapstructure:"secret_access_key"`
	BucketName      string        `mapstructure:"bucket_name"`
	KeyPrefix       string        `mapstructure:"key_prefix"`
	UseSSL          bool          `mapstructure:"use_ssl"`
	PresignExpiry   time.Duration `mapstructure:"presign_expiry"`
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
	File        string `mapstructure:"file"` // optional output path, used by the terminal client
}

type ClientConfig struct {
	APIURL    string        `mapstructure:"api_url"`
	PageLimit int           `mapstructure:"page_limit"`
	Timeout   time.Duration `mapstructure:"timeout"`
	Health    HealthConfig  `mapstructure:"health"`
}

// HealthConfig bounds the startup readiness probe.
type HealthConfig struct {
	InitialInterval time.Duration `mapstructure:"initial_interval"`
	MaxInterval     time.Duration `mapstructure:"max_interval"`
	MaxAttempts     int           `mapstructure:"max_attempts"`
	Timeout         time.Duration `mapstructure:"timeout"`
}

// DefaultImageBaseURL is where the public exercise dataset hosts its images.
const DefaultImageBaseURL = "https://raw.githubusercontent.com/yuhonas/free-exercise-db/main/exercises"

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (Config, error) {
	return load(viper.New(), path)
}

func load(v *viper.Viper, path string) (config Config, err error) {
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// Nested keys map to env vars, e.g. server.address -> SERVER_ADDRESS
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	setDefaults(v)

	// A missing config file is fine; defaults and env vars still apply.
	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return config, err
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return config, err
	}
	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":5000")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "10s")
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("server.rate_limit.requests", 120)
	v.SetDefault("server.rate_limit.window", "1m")
	v.SetDefault("server.rate_limit.burst", 30)

	v.SetDefault("database.uri", "mongodb://localhost:27017")
	v.SetDefault("database.name", "muscle_dynamics")
	v.SetDefault("database.timeout", "10s")

	v.SetDefault("images.base_url", DefaultImageBaseURL)
	// Registered so AutomaticEnv can fill them (IMAGES_S3_BUCKET_NAME, ...)
	for _, key := range []string{"endpoint", "region", "access_key_id", "secret_access_key", "bucket_name", "key_prefix"} {
		v.SetDefault("images.s3."+key, "")
	}
	v.SetDefault("images.s3.use_ssl", true)
	v.SetDefault("images.s3.presign_expiry", "15m")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
	v.SetDefault("log.file", "")

	v.SetDefault("client.api_url", "http://localhost:5000")
	v.SetDefault("client.page_limit", 50)
	v.SetDefault("client.timeout", "15s")
	v.SetDefault("client.health.initial_interval", "500ms")
	v.SetDefault("client.health.max_interval", "5s")
	v.SetDefault("client.health.max_attempts", 10)
	v.SetDefault("client.health.timeout", "30s")
}
