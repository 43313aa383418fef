package domain

import "time"

// User is the stored representation of one registered identity. The password
// hash never leaves the service layer; handlers serialize users without it.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
