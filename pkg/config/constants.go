package config

// EnvPrefix is the envconfig prefix shared by every variable.
const EnvPrefix = "KIDCYCLE"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

// Environment variable names referenced outside struct tags (tests, docs).
const (
	EnvAppEnv                 = "KIDCYCLE_APP_ENV"
	EnvPort                   = "KIDCYCLE_APP_PORT"
	EnvDBDSN                  = "KIDCYCLE_DB_DSN"
	EnvDBHost                 = "KIDCYCLE_DB_HOST"
	EnvDBUser                 = "KIDCYCLE_DB_USER"
	EnvDBName                 = "KIDCYCLE_DB_NAME"
	EnvRedisURL               = "KIDCYCLE_REDIS_URL"
	EnvJWTSecret              = "KIDCYCLE_JWT_SECRET"
	EnvJWTIssuer              = "KIDCYCLE_JWT_ISSUER"
	EnvJWTExpMins             = "KIDCYCLE_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "KIDCYCLE_REFRESH_TOKEN_TTL_MINUTES"
	EnvGCPProjectID           = "KIDCYCLE_GCP_PROJECT_ID"
	EnvGCSBucket              = "KIDCYCLE_GCS_BUCKET_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
