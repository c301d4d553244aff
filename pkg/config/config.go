package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Orders        OrdersConfig
	FeatureFlags  FeatureFlagsConfig
	GCP           GCPConfig
	GCS           GCSConfig
	Media         MediaConfig
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
	Env          string `envconfig:"KIDCYCLE_APP_ENV" required:"true"`
	Port         string `envconfig:"KIDCYCLE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"KIDCYCLE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"KIDCYCLE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"KIDCYCLE_DB_DSN"`
	Driver string `envconfig:"KIDCYCLE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"KIDCYCLE_DB_HOST"`
	LegacyPort     int    `envconfig:"KIDCYCLE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"KIDCYCLE_DB_USER"`
	LegacyPassword string `envconfig:"KIDCYCLE_DB_PASSWORD"`
	LegacyName     string `envconfig:"KIDCYCLE_DB_NAME"`
	LegacySSLMode  string `envconfig:"KIDCYCLE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"KIDCYCLE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"KIDCYCLE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"KIDCYCLE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"KIDCYCLE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"KIDCYCLE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"KIDCYCLE_REDIS_ADDR"`
	Password     string        `envconfig:"KIDCYCLE_REDIS_PASSWORD"`
	DB           int           `envconfig:"KIDCYCLE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"KIDCYCLE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"KIDCYCLE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"KIDCYCLE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"KIDCYCLE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"KIDCYCLE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"KIDCYCLE_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"KIDCYCLE_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"KIDCYCLE_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"KIDCYCLE_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"KIDCYCLE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"KIDCYCLE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"KIDCYCLE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"KIDCYCLE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"KIDCYCLE_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"KIDCYCLE_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"KIDCYCLE_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"KIDCYCLE_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"KIDCYCLE_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"KIDCYCLE_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"KIDCYCLE_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type OrdersConfig struct {
	// PlaceOrder retries hitting the same idempotency key within this
	// window get the stored response instead of a second order.
	IdempotencyTTL time.Duration `envconfig:"KIDCYCLE_ORDERS_IDEMPOTENCY_TTL" default:"24h"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"KIDCYCLE_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"KIDCYCLE_GCP_PROJECT_ID" required:"true"`
	CredentialsJSON        string `envconfig:"KIDCYCLE_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"KIDCYCLE_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName string `envconfig:"KIDCYCLE_GCS_BUCKET_NAME" required:"true"`
	PublicBase string `envconfig:"KIDCYCLE_GCS_PUBLIC_BASE" default:"https://storage.googleapis.com"`
}

type MediaConfig struct {
	MaxUploadMB int `envconfig:"KIDCYCLE_MAX_UPLOAD_MB" default:"10"`
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
