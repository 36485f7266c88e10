package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	App       AppConfig
	DB        DBConfig
	Redis     RedisConfig
	Engine    EngineConfig
	RateLimit RateLimitConfig
	Metrics   MetricsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Engine.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"PACKFINDERZ_APP_ENV" required:"true"`
	Port         string `envconfig:"PACKFINDERZ_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"PACKFINDERZ_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PACKFINDERZ_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"PACKFINDERZ_DB_DSN"`

	LegacyHost     string `envconfig:"PACKFINDERZ_DB_HOST"`
	LegacyPort     int    `envconfig:"PACKFINDERZ_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"PACKFINDERZ_DB_USER"`
	LegacyPassword string `envconfig:"PACKFINDERZ_DB_PASSWORD"`
	LegacyName     string `envconfig:"PACKFINDERZ_DB_NAME"`
	LegacySSLMode  string `envconfig:"PACKFINDERZ_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"PACKFINDERZ_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PACKFINDERZ_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PACKFINDERZ_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PACKFINDERZ_DB_CONN_MAX_IDLE_TIME" default:"10m"`
	AutoMigrate     bool          `envconfig:"PACKFINDERZ_AUTO_MIGRATE" default:"false"`
}

// RedisConfig is optional; an empty URL and address disables rate limiting.
type RedisConfig struct {
	URL          string        `envconfig:"PACKFINDERZ_REDIS_URL"`
	Address      string        `envconfig:"PACKFINDERZ_REDIS_ADDR"`
	Password     string        `envconfig:"PACKFINDERZ_REDIS_PASSWORD"`
	DB           int           `envconfig:"PACKFINDERZ_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PACKFINDERZ_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PACKFINDERZ_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PACKFINDERZ_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PACKFINDERZ_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PACKFINDERZ_REDIS_WRITE_TIMEOUT" default:"5s"`
}

func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

// EngineConfig tunes the attribution and revenue engines.
type EngineConfig struct {
	Epsilon          string        `envconfig:"PACKFINDERZ_ENGINE_EPSILON" default:"0.01"`
	TopProductsLimit int           `envconfig:"PACKFINDERZ_ENGINE_TOP_PRODUCTS_LIMIT" default:"5"`
	MaxTopProducts   int           `envconfig:"PACKFINDERZ_ENGINE_MAX_TOP_PRODUCTS" default:"100"`
	QueryChunkSize   int           `envconfig:"PACKFINDERZ_ENGINE_QUERY_CHUNK_SIZE" default:"500"`
	RequestTimeout   time.Duration `envconfig:"PACKFINDERZ_ENGINE_REQUEST_TIMEOUT" default:"10s"`
}

// EpsilonDecimal returns the parsed tolerance.
func (e EngineConfig) EpsilonDecimal() decimal.Decimal {
	d, err := decimal.NewFromString(e.Epsilon)
	if err != nil {
		return decimal.New(1, -2)
	}
	return d
}

func (e EngineConfig) validate() error {
	d, err := decimal.NewFromString(e.Epsilon)
	if err != nil {
		return fmt.Errorf("%s must be a decimal: %w", EnvEngineEpsilon, err)
	}
	if !d.IsPositive() {
		return fmt.Errorf("%s must be positive", EnvEngineEpsilon)
	}
	if e.TopProductsLimit <= 0 || e.MaxTopProducts < e.TopProductsLimit {
		return fmt.Errorf("%s must be between 1 and %s", EnvEngineTopProducts, EnvEngineMaxTopProducts)
	}
	if e.QueryChunkSize <= 0 {
		return fmt.Errorf("%s must be positive", EnvEngineChunkSize)
	}
	return nil
}

type RateLimitConfig struct {
	Window        time.Duration `envconfig:"PACKFINDERZ_RATE_LIMIT_WINDOW" default:"1m"`
	RevenuePerMin int           `envconfig:"PACKFINDERZ_RATE_LIMIT_REVENUE_LIMIT" default:"60"`
}

type MetricsConfig struct {
	Enabled bool   `envconfig:"PACKFINDERZ_METRICS_ENABLED" default:"true"`
	Path    string `envconfig:"PACKFINDERZ_METRICS_PATH" default:"/metrics"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
