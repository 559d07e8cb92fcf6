package domain

import "time"

// Session identifies an issued access token.
type Session struct {
	TokenID   string
	UserID    string
	ExpiresAt time.Time
}
