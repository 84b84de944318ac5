package domain

import "time"

// Notification is an append-only message to one recipient user. Creation is
// best-effort from the caller's perspective; the database row is the only
// delivery guarantee.
type Notification struct {
	ID         int64            `json:"id"`
	UserID     int64            `json:"userId"`
	Type       NotificationType `json:"type"`
	Title      string           `json:"title,omitempty"`
	Message    string           `json:"message"`
	Link       string           `json:"link,omitempty"`
	ContractID *int64           `json:"contractId,omitempty"`
	Read       bool             `json:"read"`
	CreatedAt  time.Time        `json:"createdAt"`
}
