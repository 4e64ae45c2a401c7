package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "fleetbook"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	// Transaction retry budget for the optimistic check-then-write path.
	DefaultMaxTxnRetries = 3

	// Upper bound on candidate bookings examined per admission check.
	DefaultConflictScanLimit = 50

	DefaultReportSendTime = "20:00"
	DefaultReportTimezone = "Asia/Bangkok"

	DefaultNotificationsTopic    = "fleetbook.notifications"
	DefaultNotificationsDLQTopic = "fleetbook.notifications.dlq"
	DefaultNotifierGroupID       = "fleetbook-notifier"

	DefaultPaginationLimit = 100
)
