package constants

// Context keys
const (
	ContextTokenData = "token_data"
)

// Database pool settings
const (
	DatabaseMaxOpenConns    = 25
	DatabaseMaxIdleConns    = 5
	DatabaseConnMaxLifetime = 30 // minutes
	DatabaseSSLMode         = "disable"
)

// Cache key prefixes
const (
	CacheKeyProperty       = "property:"
	CacheKeyTokenBlacklist = "token:blacklist:"
)
