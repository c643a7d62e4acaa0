package models

import "time"

// Session maps an opaque cookie token to a user. Created on login,
// invalidated on logout, otherwise read-only.
type Session struct {
	Token     string    `db:"token" json:"-"`
	UserID    int64     `db:"user_id" json:"userId"`
	ExpiresAt time.Time `db:"expires_at" json:"expiresAt"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Expired reports whether the session is past its expiry.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
