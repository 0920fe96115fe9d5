package domain

import "time"

// User is the identity owned by the account layer.
// The chat core only reads its ID and Username.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
