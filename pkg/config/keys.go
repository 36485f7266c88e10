package config

// EnvPrefix is passed to envconfig; every field carries an explicit full name.
const EnvPrefix = "PACKFINDERZ"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

const (
	EnvAppEnv   = "PACKFINDERZ_APP_ENV"
	EnvPort     = "PACKFINDERZ_APP_PORT"
	EnvLogLevel = "PACKFINDERZ_LOG_LEVEL"

	EnvDBDSN  = "PACKFINDERZ_DB_DSN"
	EnvDBHost = "PACKFINDERZ_DB_HOST"
	EnvDBUser = "PACKFINDERZ_DB_USER"
	EnvDBName = "PACKFINDERZ_DB_NAME"

	EnvRedisURL = "PACKFINDERZ_REDIS_URL"

	EnvEngineEpsilon        = "PACKFINDERZ_ENGINE_EPSILON"
	EnvEngineTopProducts    = "PACKFINDERZ_ENGINE_TOP_PRODUCTS_LIMIT"
	EnvEngineMaxTopProducts = "PACKFINDERZ_ENGINE_MAX_TOP_PRODUCTS"
	EnvEngineChunkSize      = "PACKFINDERZ_ENGINE_QUERY_CHUNK_SIZE"
	EnvEngineTimeout        = "PACKFINDERZ_ENGINE_REQUEST_TIMEOUT"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
