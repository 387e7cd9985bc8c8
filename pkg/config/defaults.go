package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "tunnelsessions"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultRedisAddr = "localhost:6379"
	DefaultRedisDB   = 0

	// Store backends: memory, redis, mongo.
	DefaultStoreBackend = "memory"

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultTimeZone = "Europe/Madrid"

	DefaultCancellationWindow = 72 * time.Hour
	DefaultNotificationWindow = 168 * time.Hour

	DefaultAllowGuestBookings  = true
	DefaultAllowNotes          = true
	DefaultSessionTypeRequired = false

	DefaultJWTTokenTTL = 24 * time.Hour

	DefaultKafkaCancellationTopic = "session-cancellations"

	DefaultIdempotencyTTL = 24 * time.Hour

	DefaultRateLimitRequests = 20
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultPaginationLimit = 100
)
