package constants

import "time"

// Context keys
const (
	ContextKeyUserID = "user_id"
)

// Validation limits
const (
	MinUsernameLength = 3
	MinPasswordLength = 6
)

// TokenTTL is how long an issued bearer token stays valid.
const TokenTTL = 7 * 24 * time.Hour
