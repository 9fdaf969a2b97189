package cache

import "errors"

// Sentinel errors for caching operations.
var (
	// ErrCacheMiss is returned by helpers that treat a miss as an error
	// rather than a boolean.
	ErrCacheMiss = errors.New("cache miss")
)
