package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host           string
	Port           int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxUploadBytes int64
	MaxFiles       int
}

type PostgresConfig struct {
	DSN             string
	MaxOpen         int
	MaxIdle         int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type StorageConfig struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	PublicBaseURL string
	UseSSL        bool
	Region        string
	RootFolder    string
}

type SecurityConfig struct {
	JWTSecret  string
	TokenTTL   time.Duration
	SetupToken string
}

type CacheConfig struct {
	Enabled   bool
	TTL       time.Duration
	WindowTTL time.Duration
	Prefix    string
}

// Windowed caps TTL at WindowTTL for listings filtered by validity dates,
// bounding how long an expired offer or notification stays visible.
func (c CacheConfig) Windowed() CacheConfig {
	if c.WindowTTL > 0 && (c.TTL <= 0 || c.WindowTTL < c.TTL) {
		c.TTL = c.WindowTTL
	}
	return c
}

type KeepAliveConfig struct {
	URL      string
	Interval time.Duration
}

type SetupConfig struct {
	AdminName     string
	AdminEmail    string
	AdminPassword string
}

type AppConfig struct {
	Environment      string
	HTTP             HTTPConfig
	Postgres         PostgresConfig
	Redis            RedisConfig
	Storage          StorageConfig
	Security         SecurityConfig
	Cache            CacheConfig
	KeepAlive        KeepAliveConfig
	Setup            SetupConfig
	AllowCORSOrigins []string
}

func (c *AppConfig) IsProduction() bool {
	return c.Environment == "production"
}

// Validate checks the settings the process cannot start without.
func (c *AppConfig) Validate() error {
	var problems []string
	if strings.TrimSpace(c.Security.JWTSecret) == "" {
		problems = append(problems, "security.jwtsecret is required")
	}
	if c.Security.TokenTTL <= 0 {
		problems = append(problems, "security.tokenttl must be positive")
	}
	if c.HTTP.MaxFiles <= 0 {
		problems = append(problems, "http.maxfiles must be positive")
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("../config")

	v.SetEnvPrefix("CSC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")

	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 5000)
	v.SetDefault("http.readtimeout", "30s")
	v.SetDefault("http.writetimeout", "60s")
	v.SetDefault("http.idletimeout", "60s")
	v.SetDefault("http.maxuploadbytes", 10<<20)
	v.SetDefault("http.maxfiles", 10)

	v.SetDefault("postgres.dsn", "postgres://localhost:5432/csc?sslmode=disable")
	v.SetDefault("postgres.maxopen", 20)
	v.SetDefault("postgres.maxidle", 2)
	v.SetDefault("postgres.connmaxlifetime", "30m")

	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.db", 0)

	v.SetDefault("storage.bucket", "csc-media")
	v.SetDefault("storage.usessl", false)
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.rootfolder", "csc")

	v.SetDefault("security.tokenttl", "24h")

	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.ttl", "30s")
	v.SetDefault("cache.windowttl", "5s")
	v.SetDefault("cache.prefix", "csc:cache")

	v.SetDefault("keepalive.interval", "14m")

	v.SetDefault("setup.adminname", "Super Admin")

	// Explicit keys so AutomaticEnv can see values that have no default.
	for _, key := range []string{
		"storage.endpoint", "storage.accesskey", "storage.secretkey", "storage.publicbaseurl",
		"redis.password", "security.jwtsecret", "security.setuptoken",
		"keepalive.url", "setup.adminemail", "setup.adminpassword", "allowcorsorigins",
	} {
		_ = v.BindEnv(key)
	}
}
