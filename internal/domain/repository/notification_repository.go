package repository

import (
	"context"

	"github.com/jhoicas/logicielhub-api/internal/domain/entity"
)

// NotificationRepository puerto de persistencia para Notification.
type NotificationRepository interface {
	Create(ctx context.Context, n *entity.Notification) error
	ListByUser(ctx context.Context, userID string, unreadOnly bool, limit int) ([]*entity.Notification, error)
	MarkRead(ctx context.Context, id, userID string) (bool, error)
	// ExistsForContract informa si ya se avisó a userID del vencimiento de contractID.
	ExistsForContract(ctx context.Context, userID, contractID string) (bool, error)
}
