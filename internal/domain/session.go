package domain

import "time"

// Session rows never hold the bearer token itself, only its SHA-256 digest.
// The raw token exists transiently: minted at register/login, handed to the
// client in a cookie, and recovered only from that cookie afterwards.
type Session struct {
	ID          string    `gorm:"type:text;primaryKey" db:"id"`
	UserID      int64     `gorm:"index;not null" db:"user_id"`
	SessionHash string    `gorm:"type:text;uniqueIndex:ux_sessions_hash" db:"session_hash"`
	ExpiresAt   time.Time `gorm:"not null;index" db:"expires_at"`
	UserAgent   string    `gorm:"type:text" db:"user_agent"`
	CreatedAt   time.Time `gorm:"not null" db:"created_at"`
}

func (Session) TableName() string { return "sessions" }
