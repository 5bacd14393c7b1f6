package config

import "time"

// Database connection pool settings
const (
	DBMaxOpenConns    = 25
	DBMaxIdleConns    = 5
	DBConnMaxLifetime = 5 * time.Minute
)

// HTTP server timeouts
const (
	ServerRequestTimeout  = 60 * time.Second
	ServerReadTimeout     = 15 * time.Second
	ServerWriteTimeout    = 75 * time.Second
	ServerIdleTimeout     = 120 * time.Second
	ServerShutdownTimeout = 30 * time.Second
)

// Database ping timeout for health checks
const DBPingTimeout = 5 * time.Second

// Background job intervals
const SessionCleanupInterval = 15 * time.Minute

// Password hashing
const (
	MinBcryptCost    = 10
	HashQueueTimeout = 30 * time.Second
	HashQueuePerSlot = 4
)

// Request bodies for this API are small JSON documents.
const MaxRequestBodySize = 64 << 10

// Per-IP limiter on the credential endpoints
const (
	LoginMaxAttempts = 5
	LoginWindow      = time.Minute
)
