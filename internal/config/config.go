package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type Config struct {
	RemoteAPIBaseURL string        `env:"REMOTE_API_BASE_URL" envDefault:"http://localhost:8080" validate:"required,url"`
	RemoteAPITimeout time.Duration `env:"REMOTE_API_TIMEOUT"  envDefault:"10s"                   validate:"min=1s"`

	RedisHost     string `env:"REDIS_HOST"     envDefault:"localhost"`
	RedisPort     uint16 `env:"REDIS_PORT"     envDefault:"6379" validate:"min=1000,max=65535"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB"       envDefault:"0"    validate:"min=0,max=15"`

	CacheTTL       time.Duration `env:"CACHE_TTL"       envDefault:"5m"`
	// Zero disables background cache warming.
	CacheWarmInterval time.Duration `env:"CACHE_WARM_INTERVAL" envDefault:"4m"`
	SearchDebounce time.Duration `env:"SEARCH_DEBOUNCE" envDefault:"500ms"`
	PageSize       int           `env:"PAGE_SIZE"       envDefault:"12" validate:"min=1,max=100"`

	// Empty means tokens are parsed without signature verification.
	JWTSecret   string   `env:"JWT_SECRET"`
	CORSOrigins []string `env:"CORS_ORIGINS" envDefault:"http://localhost:3000" envSeparator:","`

	HttpServerPort uint16 `env:"HTTP_SERVER_PORT" envDefault:"8085" validate:"min=1000,max=65535"`
}

func LoadConfig() (*Config, error) {
	// Load environment variables from .env file
	err := godotenv.Load(".env")
	if err != nil {
		zap.L().Debug(".env file not found", zap.Error(err))
	}

	cfg := &Config{}
	if err = env.Parse(cfg); err != nil {
		zap.L().Error("config_load_failed", zap.Error(err))
		return nil, err
	}

	validate := validator.New()
	err = validate.Struct(cfg)
	if err != nil {
		zap.L().Error("config_validation_failed", zap.Error(err))
		return nil, err
	}
	return cfg, nil
}
