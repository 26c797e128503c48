package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "vyapaar"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "VYAPAAR_DB_DSN"
	EnvDBHost = "VYAPAAR_DB_HOST"
	EnvDBUser = "VYAPAAR_DB_USER"
	EnvDBName = "VYAPAAR_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	AuthService   AuthServiceConfig
	OrderPolicy   OrderPolicyConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Idempotency   IdempotencyConfig
	Mail          MailConfig
	Links         LinksConfig
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
	Env          string `envconfig:"VYAPAAR_APP_ENV" required:"true"`
	Port         string `envconfig:"VYAPAAR_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"VYAPAAR_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"VYAPAAR_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"VYAPAAR_DB_DSN"`
	Driver string `envconfig:"VYAPAAR_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"VYAPAAR_DB_HOST"`
	LegacyPort     int    `envconfig:"VYAPAAR_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"VYAPAAR_DB_USER"`
	LegacyPassword string `envconfig:"VYAPAAR_DB_PASSWORD"`
	LegacyName     string `envconfig:"VYAPAAR_DB_NAME"`
	LegacySSLMode  string `envconfig:"VYAPAAR_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"VYAPAAR_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"VYAPAAR_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"VYAPAAR_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"VYAPAAR_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"VYAPAAR_REDIS_URL" required:"true"`
	Password     string        `envconfig:"VYAPAAR_REDIS_PASSWORD"`
	DB           int           `envconfig:"VYAPAAR_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"VYAPAAR_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"VYAPAAR_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"VYAPAAR_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"VYAPAAR_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"VYAPAAR_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// AuthServiceConfig points at the external auth service that owns sessions.
// The API never mints or parses tokens itself; it forwards the session cookie
// to BaseURL + /api/validate.
type AuthServiceConfig struct {
	BaseURL    string        `envconfig:"VYAPAAR_AUTH_SERVICE_URL" required:"true"`
	CookieName string        `envconfig:"VYAPAAR_AUTH_COOKIE_NAME" default:"session"`
	Timeout    time.Duration `envconfig:"VYAPAAR_AUTH_SERVICE_TIMEOUT" default:"5s"`
}

// OrderPolicyConfig holds the pricing policy knobs. Amounts are paise,
// the tax rate is basis points.
type OrderPolicyConfig struct {
	TaxRateBps                 int64 `envconfig:"VYAPAAR_ORDER_TAX_RATE_BPS" default:"1800"`
	FreeShippingThresholdPaise int64 `envconfig:"VYAPAAR_ORDER_FREE_SHIPPING_THRESHOLD_PAISE" default:"50000"`
	ShippingFeePaise           int64 `envconfig:"VYAPAAR_ORDER_SHIPPING_FEE_PAISE" default:"5000"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"VYAPAAR_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"VYAPAAR_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"VYAPAAR_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"VYAPAAR_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"VYAPAAR_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	RegisterWindow     time.Duration `envconfig:"VYAPAAR_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"VYAPAAR_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"VYAPAAR_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type IdempotencyConfig struct {
	TTL time.Duration `envconfig:"VYAPAAR_IDEMPOTENCY_TTL" default:"24h"`
}

type MailConfig struct {
	ResendAPIKey string `envconfig:"VYAPAAR_RESEND_API_KEY"`
	DefaultFrom  string `envconfig:"VYAPAAR_MAIL_FROM" default:"orders@vyapaar.app"`
}

// LinksConfig configures the public storefront base used when composing
// checkout link URLs.
type LinksConfig struct {
	PublicBaseURL string `envconfig:"VYAPAAR_LINKS_PUBLIC_BASE_URL" default:"https://vyapaar.app"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"VYAPAAR_AUTO_MIGRATE" default:"false"`
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
