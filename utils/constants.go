package utils

import (
	"time"
)

// Token and session time constants
const (
	// AccessTokenTTL is the time-to-live for access tokens (24 hours)
	AccessTokenTTL = 24 * time.Hour

	// AccessTokenTTLSeconds is the time-to-live for access tokens in seconds (86400 seconds = 24 hours)
	AccessTokenTTLSeconds = 86400

	// RefreshTokenTTL is the time-to-live for refresh tokens (7 days)
	RefreshTokenTTL = 7 * 24 * time.Hour

	// SessionTimeout is the default session timeout (24 hours)
	SessionTimeout = 24 * time.Hour
)

// CORS and security constants
const (
	// CORSMaxAge is the maximum age for CORS preflight requests (24 hours)
	CORSMaxAge = 86400
)

// Marketplace constants
const (
	// INRCurrency is the only settlement currency the gateway is charged in
	INRCurrency = "INR"

	// PaisePerRupee converts rupee amounts to the paise unit the gateway expects
	PaisePerRupee = 100

	// NumberEntryLength is the exact digit count of a listed mobile number
	NumberEntryLength = 10

	// MaxNumbersPerPurchase bounds a single sale
	MaxNumbersPerPurchase = 50

	// RandomListingCount is how many numbers the public random endpoint returns
	RandomListingCount = 10

	// RandomListingCacheTTL is how long the cached random listing is served
	RandomListingCacheTTL = 60 * time.Second

	// RandomListingCacheKey is the cache key for the public random listing
	RandomListingCacheKey = "numbers:random"
)
