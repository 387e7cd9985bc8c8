package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvRedisAddr     = "REDIS_ADDR"
	EnvRedisPassword = "REDIS_PASSWORD"
	EnvRedisDB       = "REDIS_DB"

	EnvStoreBackend = "STORE_BACKEND"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvTimeZone = "TIME_ZONE"

	EnvCancellationWindow = "CANCELLATION_WINDOW"
	EnvNotificationWindow = "NOTIFICATION_WINDOW"

	EnvAllowGuestBookings  = "ALLOW_GUEST_BOOKINGS"
	EnvAllowNotes          = "ALLOW_NOTES"
	EnvSessionTypeRequired = "SESSION_TYPE_REQUIRED"

	EnvJWTSecret   = "JWT_SECRET"
	EnvJWTTokenTTL = "JWT_TOKEN_TTL"

	EnvMailerSendAPIKey = "MAILERSEND_API_KEY"
	EnvMailerFromName   = "MAILER_FROM_NAME"
	EnvMailerFromEmail  = "MAILER_FROM_EMAIL"
	EnvNotifyEmail      = "NOTIFY_EMAIL"

	EnvKafkaBrokers           = "KAFKA_BROKERS"
	EnvKafkaCancellationTopic = "KAFKA_CANCELLATION_TOPIC"

	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"
)
