package config

const (
	EnvPrefix = "detalhes"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv = "DETALHES_APP_ENV"
	EnvPort   = "DETALHES_APP_PORT"

	EnvDBDSN  = "DETALHES_DB_DSN"
	EnvDBHost = "DETALHES_DB_HOST"
	EnvDBUser = "DETALHES_DB_USER"
	EnvDBName = "DETALHES_DB_NAME"

	EnvRedisURL  = "DETALHES_REDIS_URL"
	EnvJWTSecret = "DETALHES_JWT_SECRET"
)

var dbEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
