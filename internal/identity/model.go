package identity

import "time"

// User represents a registered renter. Email is the unique lookup key; the
// password is held only as a bcrypt hash and never leaves this package.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash []byte
	CreatedAt    time.Time
}

// Credentials carries the caller-supplied registration or login fields.
type Credentials struct {
	Name     string
	Email    string
	Password string
}
