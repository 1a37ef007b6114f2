package config

// EnvPrefix scopes every environment variable consumed by this client.
const EnvPrefix = "CHRONOSHOP"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

const (
	EnvAppEnv          = "CHRONOSHOP_APP_ENV"
	EnvLogLevel        = "CHRONOSHOP_LOG_LEVEL"
	EnvLogWarnStack    = "CHRONOSHOP_LOG_WARN_STACK"
	EnvAPIBaseURL      = "CHRONOSHOP_API_BASE_URL"
	EnvAPITimeout      = "CHRONOSHOP_API_TIMEOUT"
	EnvAPIUserAgent    = "CHRONOSHOP_API_USER_AGENT"
	EnvCheckoutCountry = "CHRONOSHOP_CHECKOUT_DEFAULT_COUNTRY"
)
