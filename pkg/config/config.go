package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvPrefix namespaces every environment variable read by Load.
	EnvPrefix = "TRENDORA"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Cart          CartConfig
	FeatureFlags  FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"TRENDORA_APP_ENV" required:"true"`
	Port         string `envconfig:"TRENDORA_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"TRENDORA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"TRENDORA_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"TRENDORA_DB_DSN"`
	Driver string `envconfig:"TRENDORA_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"TRENDORA_DB_HOST"`
	Port     int    `envconfig:"TRENDORA_DB_PORT" default:"5432"`
	User     string `envconfig:"TRENDORA_DB_USER"`
	Password string `envconfig:"TRENDORA_DB_PASSWORD"`
	Name     string `envconfig:"TRENDORA_DB_NAME"`
	SSLMode  string `envconfig:"TRENDORA_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"TRENDORA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"TRENDORA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"TRENDORA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"TRENDORA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (d *DBConfig) ensureDSN() error {
	if d.DSN != "" {
		return nil
	}
	if d.Host == "" || d.User == "" || d.Name == "" {
		return fmt.Errorf("database DSN or host/user/name are required")
	}
	d.DSN = fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(d.User),
		url.QueryEscape(d.Password),
		d.Host,
		d.Port,
		d.Name,
		d.SSLMode,
	)
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"TRENDORA_REDIS_URL"`
	Address      string        `envconfig:"TRENDORA_REDIS_ADDR"`
	Password     string        `envconfig:"TRENDORA_REDIS_PASSWORD"`
	DB           int           `envconfig:"TRENDORA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"TRENDORA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"TRENDORA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"TRENDORA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"TRENDORA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"TRENDORA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"TRENDORA_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"TRENDORA_JWT_ISSUER" default:"trendora"`
	ExpirationMinutes      int    `envconfig:"TRENDORA_JWT_EXPIRATION_MINUTES" default:"60"`
	RefreshTokenTTLMinutes int    `envconfig:"TRENDORA_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"TRENDORA_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"TRENDORA_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"TRENDORA_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"TRENDORA_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"TRENDORA_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	CheckWindow      time.Duration `envconfig:"TRENDORA_AUTH_RATE_LIMIT_CHECK_WINDOW" default:"1m"`
	CheckMobileLimit int           `envconfig:"TRENDORA_AUTH_RATE_LIMIT_CHECK_MOBILE_LIMIT" default:"5"`
	CheckIPLimit     int           `envconfig:"TRENDORA_AUTH_RATE_LIMIT_CHECK_IP_LIMIT" default:"20"`

	RegisterWindow      time.Duration `envconfig:"TRENDORA_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterMobileLimit int           `envconfig:"TRENDORA_AUTH_RATE_LIMIT_REGISTER_MOBILE_LIMIT" default:"3"`
	RegisterIPLimit     int           `envconfig:"TRENDORA_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type CartConfig struct {
	// TaxRate is the fixed tax multiplier applied to cart subtotals,
	// expressed as a decimal string so money math never touches floats.
	TaxRate        string        `envconfig:"TRENDORA_CART_TAX_RATE" default:"0.18"`
	RequestTimeout time.Duration `envconfig:"TRENDORA_CART_REQUEST_TIMEOUT" default:"10s"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"TRENDORA_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"TRENDORA_AUTO_MIGRATE" default:"false"`
}
