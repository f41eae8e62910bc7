package entity

import (
	"encoding/json"
	"time"
)

// Tipos de notificación.
const (
	NotificationContractExpiry  = "contract_expiry"
	NotificationNewRequest      = "new_request"
	NotificationRequestApproved = "request_approved"
	NotificationRequestRejected = "request_rejected"
	NotificationSystem          = "system"
)

// Notification aviso dirigido a un usuario.
type Notification struct {
	ID           string
	Type         string
	Title        string
	Message      string
	TargetUserID string
	Payload      json.RawMessage
	ReadAt       *time.Time
	CreatedAt    time.Time
}
