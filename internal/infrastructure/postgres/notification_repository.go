package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/logicielhub-api/internal/domain/entity"
	"github.com/jhoicas/logicielhub-api/internal/domain/repository"
)

var _ repository.NotificationRepository = (*NotificationRepo)(nil)

// NotificationRepo implementación del puerto NotificationRepository sobre PostgreSQL.
type NotificationRepo struct {
	db DBTX
}

// NewNotificationRepository construye el adaptador de persistencia para notificaciones.
func NewNotificationRepository(db DBTX) *NotificationRepo {
	return &NotificationRepo{db: db}
}

// Create persiste una notificación. Payload vacío se guarda como '{}'.
func (r *NotificationRepo) Create(ctx context.Context, n *entity.Notification) error {
	payload := n.Payload
	if len(payload) == 0 {
		payload = []byte("{}")
	}
	query := `
		INSERT INTO notifications (id, type, title, message, target_user_id, payload, read_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.Exec(ctx, query, n.ID, n.Type, n.Title, n.Message, n.TargetUserID, payload, n.ReadAt, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

// ListByUser avisos del usuario, el más reciente primero.
func (r *NotificationRepo) ListByUser(ctx context.Context, userID string, unreadOnly bool, limit int) ([]*entity.Notification, error) {
	query := `
		SELECT id, type, title, message, target_user_id, payload, read_at, created_at
		FROM notifications
		WHERE target_user_id = $1 AND ($2 = false OR read_at IS NULL)
		ORDER BY created_at DESC
		LIMIT $3`
	rows, err := r.db.Query(ctx, query, userID, unreadOnly, limit)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return collect(rows, func(s rowScanner) (*entity.Notification, error) {
		var n entity.Notification
		if err := s.Scan(&n.ID, &n.Type, &n.Title, &n.Message, &n.TargetUserID, &n.Payload, &n.ReadAt, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		return &n, nil
	})
}

// MarkRead marca como leída una notificación del usuario. false si no existe o no es suya.
func (r *NotificationRepo) MarkRead(ctx context.Context, id, userID string) (bool, error) {
	query := `UPDATE notifications SET read_at = COALESCE(read_at, $3) WHERE id = $1 AND target_user_id = $2`
	tag, err := r.db.Exec(ctx, query, id, userID, time.Now())
	if err != nil {
		return false, fmt.Errorf("mark notification read: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// ExistsForContract informa si ya hay un aviso de vencimiento de contractID para userID.
func (r *NotificationRepo) ExistsForContract(ctx context.Context, userID, contractID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM notifications
			WHERE target_user_id = $1 AND type = $2 AND payload->>'contract_id' = $3
		)`
	var exists bool
	if err := r.db.QueryRow(ctx, query, userID, entity.NotificationContractExpiry, contractID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check contract notification: %w", err)
	}
	return exists, nil
}
