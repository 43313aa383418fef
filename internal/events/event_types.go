package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered  EventType = "user_registered"
	EventPasswordChanged EventType = "password_changed"
)

// Event represents an account event emitted by the auth service. Events carry
// only the username; never credentials or hashes.
type Event struct {
	Type      EventType `json:"type"`
	Username  string    `json:"username"`
	Timestamp time.Time `json:"timestamp"`
}
