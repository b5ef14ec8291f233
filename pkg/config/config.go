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
	FeatureFlags  FeatureFlagsConfig
	GCP           GCPConfig
	GCS           GCSConfig
	Media         MediaConfig
	Stripe        StripeConfig
	Access        AccessConfig
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
	Env          string `envconfig:"PIXELMART_APP_ENV" required:"true"`
	Port         string `envconfig:"PIXELMART_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"PIXELMART_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PIXELMART_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"PIXELMART_DB_DSN"`
	Driver string `envconfig:"PIXELMART_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"PIXELMART_DB_HOST"`
	LegacyPort     int    `envconfig:"PIXELMART_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"PIXELMART_DB_USER"`
	LegacyPassword string `envconfig:"PIXELMART_DB_PASSWORD"`
	LegacyName     string `envconfig:"PIXELMART_DB_NAME"`
	LegacySSLMode  string `envconfig:"PIXELMART_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"PIXELMART_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PIXELMART_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PIXELMART_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PIXELMART_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"PIXELMART_REDIS_URL" required:"true"`
	Address      string        `envconfig:"PIXELMART_REDIS_ADDR"`
	Password     string        `envconfig:"PIXELMART_REDIS_PASSWORD"`
	DB           int           `envconfig:"PIXELMART_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PIXELMART_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PIXELMART_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PIXELMART_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PIXELMART_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PIXELMART_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"PIXELMART_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"PIXELMART_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"PIXELMART_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"PIXELMART_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"PIXELMART_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"PIXELMART_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"PIXELMART_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"PIXELMART_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"PIXELMART_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"PIXELMART_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"PIXELMART_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"PIXELMART_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"PIXELMART_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"PIXELMART_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"PIXELMART_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"PIXELMART_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"PIXELMART_GCP_PROJECT_ID" required:"true"`
	CredentialsJSON        string `envconfig:"PIXELMART_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"PIXELMART_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName        string        `envconfig:"PIXELMART_GCS_BUCKET_NAME" required:"true"`
	UploadURLExpiry   time.Duration `envconfig:"PIXELMART_GCS_UPLOAD_URL_EXPIRY" required:"true"`
	DownloadURLExpiry time.Duration `envconfig:"PIXELMART_GCS_DOWNLOAD_URL_EXPIRY" required:"true"`
}

type MediaConfig struct {
	MaxUploadMB int `envconfig:"PIXELMART_MAX_UPLOAD_MB" default:"20"`
}

type StripeConfig struct {
	APIKey          string `envconfig:"PIXELMART_STRIPE_API_KEY"`
	Secret          string `envconfig:"PIXELMART_STRIPE_SECRET"`
	Env             string `envconfig:"PIXELMART_STRIPE_ENV" default:"test"`
	ImagePriceCents int64  `envconfig:"PIXELMART_STRIPE_IMAGE_PRICE_CENTS" default:"500"`
	Currency        string `envconfig:"PIXELMART_STRIPE_CURRENCY" default:"usd"`
}

// AccessConfig drives the download gate's object resolution order.
type AccessConfig struct {
	// ProtectedPrefix is probed first; LegacyPrefix covers objects that
	// predate the protected storage layout.
	ProtectedPrefix string `envconfig:"PIXELMART_ACCESS_PROTECTED_PREFIX" default:"protected-images"`
	LegacyPrefix    string `envconfig:"PIXELMART_ACCESS_LEGACY_PREFIX" default:"images"`
}

// ObjectPrefixes returns the ordered candidate prefixes for download probing.
func (a AccessConfig) ObjectPrefixes() []string {
	prefixes := make([]string, 0, 2)
	if p := strings.TrimSpace(a.ProtectedPrefix); p != "" {
		prefixes = append(prefixes, p)
	}
	if p := strings.TrimSpace(a.LegacyPrefix); p != "" {
		prefixes = append(prefixes, p)
	}
	return prefixes
}

// Environment returns the normalized Stripe environment (test/live).
func (s StripeConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(s.Env))
	if env == "" {
		return "test"
	}
	return env
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
