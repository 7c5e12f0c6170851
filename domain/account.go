package domain

import "time"

// Account represents a registered user identity with its coin balance.
type Account struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Coins        int       `json:"coins"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Connections holds both sides of the follow graph for one account.
type Connections struct {
	Following []string `json:"following"`
	Followers []string `json:"followers"`
}
