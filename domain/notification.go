package domain

import "time"

// Notification is a short message delivered to one account, e.g. when someone
// starts following them or when they win an event.
type Notification struct {
	ID        string    `json:"id"`
	AccountID string    `json:"account_id"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}
