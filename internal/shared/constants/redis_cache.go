package constants

import (
	"time"
)

// Redis Cache Configuration
// This file centralizes all Redis keys and TTL values for the theatre service
// Pattern: theatre:{module}:{operation}:{identifier}

// ================== CACHE TTL DURATIONS ==================

// Static Data (rarely changes)
const (
	TTL_STATIC_LONG   = 24 * time.Hour
	TTL_STATIC_MEDIUM = 12 * time.Hour
)

// Semi-Static Data (changes occasionally)
const (
	TTL_SEMI_STATIC_MEDIUM = 2 * time.Hour
)

// ================== REDIS KEY PREFIXES ==================

const (
	CACHE_PREFIX = "theatre"
)

// ================== CATALOG ==================

const (
	CACHE_KEY_GENRES_ALL  = CACHE_PREFIX + ":genres:list:all"
	CACHE_KEY_ACTORS_ALL  = CACHE_PREFIX + ":actors:list:all"
	CACHE_KEY_HALLS_ALL   = CACHE_PREFIX + ":halls:list:all"
	CACHE_KEY_PLAY_DETAIL = CACHE_PREFIX + ":plays:detail:uuid:" // + play-id
)

const (
	TTL_GENRES_LIST = TTL_STATIC_LONG
	TTL_ACTORS_LIST = TTL_STATIC_MEDIUM
	TTL_HALLS_LIST  = TTL_STATIC_LONG
	TTL_PLAY_DETAIL = TTL_SEMI_STATIC_MEDIUM
)

// ================== RESERVATIONS ==================

const (
	LOCK_KEY_PERFORMANCE = CACHE_PREFIX + ":locks:performance:" // + performance-id
)

// ================== RATE LIMITING ==================

const (
	RATE_LIMIT_PREFIX = CACHE_PREFIX + ":rate_limit"
)

// ================== CACHE INVALIDATION PATTERNS ==================

const (
	PATTERN_INVALIDATE_PLAYS_ALL = CACHE_PREFIX + ":plays:*"
)

// ================== HELPER FUNCTIONS ==================

func BuildPlayDetailKey(playID string) string {
	return CACHE_KEY_PLAY_DETAIL + playID
}

func BuildPerformanceLockKey(performanceID string) string {
	return LOCK_KEY_PERFORMANCE + performanceID
}
