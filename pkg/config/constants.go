package config

// EnvPrefix is empty because every field carries a fully-qualified env tag.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

// Environment variable names shared by Load, ensureDSN, and the tests.
const (
	EnvAppEnv    = "PIXELMART_APP_ENV"
	EnvPort      = "PIXELMART_APP_PORT"
	EnvDBDSN     = "PIXELMART_DB_DSN"
	EnvDBHost    = "PIXELMART_DB_HOST"
	EnvDBUser    = "PIXELMART_DB_USER"
	EnvDBName    = "PIXELMART_DB_NAME"
	EnvRedisURL  = "PIXELMART_REDIS_URL"
	EnvJWTSecret = "PIXELMART_JWT_SECRET"
	EnvJWTIssuer = "PIXELMART_JWT_ISSUER"
	EnvJWTExpMins             = "PIXELMART_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "PIXELMART_REFRESH_TOKEN_TTL_MINUTES"
	EnvGCPProjectID           = "PIXELMART_GCP_PROJECT_ID"
	EnvGCSBucket              = "PIXELMART_GCS_BUCKET_NAME"
	EnvGCSUploadExpiry        = "PIXELMART_GCS_UPLOAD_URL_EXPIRY"
	EnvGCSDownloadExpiry      = "PIXELMART_GCS_DOWNLOAD_URL_EXPIRY"
	EnvStripeAPIKey           = "PIXELMART_STRIPE_API_KEY"
	EnvStripeSecret           = "PIXELMART_STRIPE_SECRET"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
