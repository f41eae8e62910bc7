package entity

import "time"

// Estados de uso.
const (
	UsageActive   = "active"
	UsageInactive = "inactive"
)

// Usage vincula un usuario con un software que utiliza.
type Usage struct {
	ID         string
	UserID     string
	SoftwareID string
	Status     string
	LastUsed   *time.Time
	CreatedAt  time.Time
}
