package utils

import (
	"time"
)

// Context keys carried by request contexts
type contextKey string

// RequestIDKey holds the request id; audit entries fall back to it
const RequestIDKey contextKey = "request_id"

// CORS and security constants
const (
	// CORSMaxAge is the maximum age for CORS preflight requests (24 hours)
	CORSMaxAge = 86400
)

// Request and upload limits
const (
	// RequestTimeout bounds every request context built by handlers
	RequestTimeout = 30 * time.Second

	// MaxUploadSize is the largest accepted helper file (10MB)
	MaxUploadSize = int64(10 * 1024 * 1024)
)

// UploadsRoutePrefix is where locally stored helper files are served
const UploadsRoutePrefix = "/uploads"

// Cache keys (prefixed with CacheConfig.RedisPrefix)
const (
	SummaryListCacheKey     = "helpers:summaries"
	SummaryReconcileLockKey = "helpers:summary-reconcile:lock"
)
