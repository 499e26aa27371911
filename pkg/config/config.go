package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App     AppConfig
	DB      DBConfig
	Redis   RedisConfig
	JWT     JWTConfig
	Store   StoreConfig
	Feature FeatureFlagsConfig
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
	Env          string `envconfig:"DETALHES_APP_ENV" required:"true"`
	Port         string `envconfig:"DETALHES_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"DETALHES_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"DETALHES_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// DBConfig describes the remote backend. The DSN is optional: when neither a
// DSN nor host/user/name are provided the service runs offline against the
// local snapshot cache, mirroring nothing.
type DBConfig struct {
	DSN string `envconfig:"DETALHES_DB_DSN"`

	Host     string `envconfig:"DETALHES_DB_HOST"`
	Port     int    `envconfig:"DETALHES_DB_PORT" default:"5432"`
	User     string `envconfig:"DETALHES_DB_USER"`
	Password string `envconfig:"DETALHES_DB_PASSWORD"`
	Name     string `envconfig:"DETALHES_DB_NAME"`
	SSLMode  string `envconfig:"DETALHES_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"DETALHES_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"DETALHES_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"DETALHES_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"DETALHES_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// Configured reports whether a remote backend was provided at all.
func (db DBConfig) Configured() bool {
	return db.DSN != ""
}

type RedisConfig struct {
	URL          string        `envconfig:"DETALHES_REDIS_URL" required:"true"`
	Address      string        `envconfig:"DETALHES_REDIS_ADDR"`
	Password     string        `envconfig:"DETALHES_REDIS_PASSWORD"`
	DB           int           `envconfig:"DETALHES_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"DETALHES_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"DETALHES_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"DETALHES_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"DETALHES_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"DETALHES_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"DETALHES_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"DETALHES_JWT_ISSUER" default:"detalhes-api"`
	ExpirationMinutes int    `envconfig:"DETALHES_JWT_EXPIRATION_MINUTES" default:"720"`
}

// AccessTokenTTL returns the admin session lifetime.
func (j JWTConfig) AccessTokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

// StoreConfig tunes store-container behavior.
type StoreConfig struct {
	NotificationTTL time.Duration `envconfig:"DETALHES_NOTIFICATION_TTL" default:"3s"`
	VisitSessionTTL time.Duration `envconfig:"DETALHES_VISIT_SESSION_TTL" default:"30m"`
	CachePath       string        `envconfig:"DETALHES_CACHE_PATH" default:"detalhes_cache.db"`
	HydrateTimeout  time.Duration `envconfig:"DETALHES_HYDRATE_TIMEOUT" default:"15s"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"DETALHES_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.Host == "" && db.User == "" && db.Name == "" {
		// Offline mode: no remote backend at all.
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range dbEnvVars {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
