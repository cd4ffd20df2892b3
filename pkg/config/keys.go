package config

// EnvPrefix is the envconfig prefix shared by every variable.
const EnvPrefix = "KINDERKITCHEN"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

// Canonical environment variable names, kept in one place so tests and
// deployment manifests stay in sync.
const (
	EnvAppEnv   = "KINDERKITCHEN_APP_ENV"
	EnvPort     = "KINDERKITCHEN_APP_PORT"
	EnvLogLevel = "KINDERKITCHEN_LOG_LEVEL"

	EnvDBDSN      = "KINDERKITCHEN_DB_DSN"
	EnvDBHost     = "KINDERKITCHEN_DB_HOST"
	EnvDBPort     = "KINDERKITCHEN_DB_PORT"
	EnvDBUser     = "KINDERKITCHEN_DB_USER"
	EnvDBPassword = "KINDERKITCHEN_DB_PASSWORD"
	EnvDBName     = "KINDERKITCHEN_DB_NAME"
	EnvDBSSLMode  = "KINDERKITCHEN_DB_SSLMODE"

	EnvRedisURL = "KINDERKITCHEN_REDIS_URL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
