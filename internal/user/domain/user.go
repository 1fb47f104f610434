package domain

import "time"

type ID string

type User struct {
	ID           ID
	Username     string
	PasswordHash string
	Salt         string
	CreatedAt    time.Time
}

// Summary is the listing shape: never carries hash or salt.
type Summary struct {
	ID        ID
	Username  string
	CreatedAt time.Time
}

// Identity is what the gate attaches to a request.
type Identity struct {
	ID       ID
	Username string
}
