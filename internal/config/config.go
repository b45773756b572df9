package config

import (
	"errors"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

type Config struct {
	Server  ServerConfig
	API     APIConfig
	Session SessionConfig
	Redis   RedisConfig
}

type ServerConfig struct {
	Port            string        `env:"SERVER_PORT" envDefault:"8080"`
	Timeout         time.Duration `env:"SERVER_TIMEOUT" envDefault:"5m"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	ThrottleLimit   int           `env:"SERVER_THROTTLE_LIMIT" envDefault:"50"`
	MaxUploadSize   int64         `env:"SERVER_MAX_UPLOAD_SIZE" envDefault:"209715200"`
	AllowedOrigins  []string      `env:"SERVER_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
}

// APIConfig points at the remote inference service.
type APIConfig struct {
	BaseURL string        `env:"API_BASE_URL" envDefault:"https://api.hackathon2025.ai.in.th/team06-1"`
	Timeout time.Duration `env:"API_TIMEOUT" envDefault:"0s"`
}

type SessionConfig struct {
	Store      string `env:"SESSION_STORE" envDefault:"memory"`
	CookieName string `env:"SESSION_COOKIE" envDefault:"damz_session"`
}

type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR" envDefault:"redis:6379"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB" envDefault:"0"`
	TTL      time.Duration `env:"REDIS_TTL" envDefault:"24h"`
}

// Load reads an optional .env file from the working directory and then
// parses the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if cfg.Session.Store != SessionStoreMemory && cfg.Session.Store != SessionStoreRedis {
		return nil, errors.New("SESSION_STORE must be memory or redis")
	}
	return cfg, nil
}
