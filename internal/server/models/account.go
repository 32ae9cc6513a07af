package models

import "time"

// Account is a stored identity. PasswordHash is never the plaintext.
type Account struct {
	ID           int64
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
