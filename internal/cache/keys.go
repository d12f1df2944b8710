// Package cache holds the Redis client and the key layout used in it.
package cache

import (
	"strconv"
	"strings"
)

const (
	GlobalKeyPrefix = "pdfquiz"
)

// GenerateCacheKey generates a cache key for a given service, object type, and identifier.
// If paramsKey are provided, they are joined by "_" and appended to the cache key.
func GenerateCacheKey(serviceName, objectType, identifier string, paramsKey ...string) string {
	baseKey := strings.Join([]string{GlobalKeyPrefix, serviceName, objectType, identifier}, ":")
	if len(paramsKey) > 0 {
		return strings.Join([]string{baseKey, strings.Join(paramsKey, "_")}, ":")
	}
	return baseKey
}

// RateLimitKey is the counter key for one client within one fixed window.
func RateLimitKey(clientID string, window int64) string {
	return GenerateCacheKey("ratelimit", "client", clientID, strconv.FormatInt(window, 10))
}
