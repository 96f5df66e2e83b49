// Package constants provides shared constants used across the codebase.
package constants

import "time"

// Timeouts
const (
	// IndexTimeout bounds one indexing run started outside an HTTP request
	IndexTimeout = 2 * time.Minute

	// HealthCheckTimeout bounds the person store ping of /healthz
	HealthCheckTimeout = 5 * time.Second

	// ShutdownTimeout is how long in-flight requests get on SIGTERM
	ShutdownTimeout = 30 * time.Second
)

// Connection pool sizes
const (
	// ScopedMaxOpenConns sizes the pool opened for a single indexing run
	ScopedMaxOpenConns = 2

	// ScopedMaxIdleConns keeps one connection warm during that run
	ScopedMaxIdleConns = 1
)

// Request limits
const (
	// MaxEventBodySize is the largest storage notification accepted
	MaxEventBodySize = 1 << 20

	// MultipartOverhead leaves room for the text fields next to an uploaded photo
	MultipartOverhead = 1 << 20

	// MultipartMemory is the part of a multipart form kept in memory
	MultipartMemory = 32 << 20
)
