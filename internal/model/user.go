package model

import "time"

// User is an account allowed to sign in to the map
type User struct {
	ID           int64      `db:"id"`
	Username     string     `db:"username"`
	Email        string     `db:"email"`
	PasswordHash string     `db:"password_hash"`
	IsSuperuser  bool       `db:"is_superuser"`
	IsActive     bool       `db:"is_active"`
	DateJoined   time.Time  `db:"date_joined"`
	LastLogin    *time.Time `db:"last_login"`
}

// Session binds a browser cookie to a user until ExpiresAt.
// Only the SHA-256 of the cookie token is stored.
type Session struct {
	ID        int64     `db:"id"`
	TokenHash string    `db:"token_hash"`
	UserID    int64     `db:"user_id"`
	ExpiresAt time.Time `db:"expires_at"`
	CreatedAt time.Time `db:"created_at"`
}
