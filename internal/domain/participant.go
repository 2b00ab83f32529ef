package domain

import "time"

// Participant represents a registered event participant.
type Participant struct {
	ID           int64
	StudentID    string
	FirstName    string
	LastName     string
	Email        string
	Department   string
	PasswordHash string
	CreatedAt    time.Time
}
