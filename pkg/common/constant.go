package common

const (
	EnvKeyGoEnv string = "GO_ENV"

	EnvKeyRunIntegrationTests string = "RUN_INTEGRATION_TESTS"

	EnvKeyConsoleDBType string = "CONSOLE_DB_TYPE"
	EnvKeyConsoleDbPath string = "CONSOLE_DB_PATH"

	EnvKeyConsoleHttpHostPort string = "CONSOLE_HTTP_HOST_PORT"
	EnvKeyConsoleGrpcHostPort string = "CONSOLE_GRPC_HOST_PORT"

	EnvKeyConsoleDefaultRate  string = "CONSOLE_DEFAULT_RATE"
	EnvKeyConsoleDefaultBurst string = "CONSOLE_DEFAULT_BURST"

	EnvKeyConsoleActor           string = "CONSOLE_ACTOR"
	EnvKeyConsoleNotificationTTL string = "CONSOLE_NOTIFICATION_TTL"
	EnvKeyConsoleAckTimeout      string = "CONSOLE_ACK_TIMEOUT"
	EnvKeyConsoleSoundAsset      string = "CONSOLE_SOUND_ASSET"

	EnvKeyFeedType       string = "FEED_TYPE"
	EnvKeyFeedRedisAddr  string = "FEED_REDIS_ADDR"
	EnvKeyFeedRedisDB    string = "FEED_REDIS_DB"
	EnvKeyFeedPath       string = "FEED_PATH"
	EnvKeyFeedMQTTBroker string = "FEED_MQTT_BROKER"

	EnvKeyBackendBaseURL    string = "BACKEND_BASE_URL"
	EnvKeyBackendTimeout    string = "BACKEND_TIMEOUT"
	EnvKeyBackendRetryCount string = "BACKEND_RETRY_COUNT"

	LoggerNameConsole       string = "alert_console"
	LoggerNameRestfulServer string = "restful_server"
	LoggerNameGrpcServer    string = "grpc_server"
	LoggerNameFeed          string = "feed"
	LoggerNameBackend       string = "backend"
	LoggerNameSimulator     string = "simulator"
	LoggerFieldCategory     string = "category"
	LoggerCategoryFeed      string = "feed"
	LoggerCategoryAck       string = "ack"
	LoggerCategoryNotify    string = "notify"
	LoggerCategoryModal     string = "modal"
)
