package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/logicielhub-api/internal/application/dto"
	"github.com/jhoicas/logicielhub-api/internal/domain"
	"github.com/jhoicas/logicielhub-api/internal/domain/entity"
	"github.com/jhoicas/logicielhub-api/internal/domain/repository"
)

// Notifier lo consumen los casos de uso que emiten avisos (solicitudes, onboarding).
type Notifier interface {
	Notify(ctx context.Context, targetUserID, kind, title, message string, payload map[string]any) error
	NotifyAdmins(ctx context.Context, companyID, kind, title, message string, payload map[string]any) int
}

var _ Notifier = (*NotificationUseCase)(nil)

const defaultNotificationLimit = 50

// NotificationUseCase bandeja de avisos del usuario.
type NotificationUseCase struct {
	repo  repository.NotificationRepository
	users repository.UserRepository
	log   zerolog.Logger
	now   func() time.Time
}

// NewNotificationUseCase construye el caso de uso.
func NewNotificationUseCase(repo repository.NotificationRepository, users repository.UserRepository, log zerolog.Logger) *NotificationUseCase {
	return &NotificationUseCase{repo: repo, users: users, log: log, now: time.Now}
}

// List avisos del usuario, el más reciente primero.
func (uc *NotificationUseCase) List(ctx context.Context, userID string, unreadOnly bool, page dto.PageRequest) (*dto.NotificationListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.ListByUser(ctx, userID, unreadOnly, page.Limit)
	if err != nil {
		return nil, err
	}
	out := &dto.NotificationListResponse{Notifications: make([]dto.NotificationResponse, 0, len(list))}
	for _, n := range list {
		out.Notifications = append(out.Notifications, dto.ToNotificationResponse(n))
		if n.ReadAt == nil {
			out.Unread++
		}
	}
	return out, nil
}

// MarkRead marca un aviso propio como leído. domain.ErrNotFound si no existe o es de otro usuario.
func (uc *NotificationUseCase) MarkRead(ctx context.Context, userID, id string) error {
	ok, err := uc.repo.MarkRead(ctx, id, userID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotFound
	}
	return nil
}

// Notify crea un aviso para un usuario.
func (uc *NotificationUseCase) Notify(ctx context.Context, targetUserID, kind, title, message string, payload map[string]any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("payload de notificación: %w", err)
	}
	if payload == nil {
		raw = nil
	}
	return uc.repo.Create(ctx, &entity.Notification{
		ID:           uuid.New().String(),
		Type:         kind,
		Title:        title,
		Message:      message,
		TargetUserID: targetUserID,
		Payload:      raw,
		CreatedAt:    uc.now(),
	})
}

// NotifyAdmins avisa a cada administrador de la empresa. Los fallos se registran y no
// interrumpen el envío al resto; devuelve cuántos avisos se crearon.
func (uc *NotificationUseCase) NotifyAdmins(ctx context.Context, companyID, kind, title, message string, payload map[string]any) int {
	admins, err := uc.users.ListAdmins(ctx, companyID)
	if err != nil {
		uc.log.Error().Err(err).Str("company_id", companyID).Msg("notificaciones: error listando administradores")
		return 0
	}
	sent := 0
	for _, admin := range admins {
		if err := uc.Notify(ctx, admin.ID, kind, title, message, payload); err != nil {
			uc.log.Error().Err(err).Str("user_id", admin.ID).Str("type", kind).Msg("notificaciones: error creando aviso")
			continue
		}
		sent++
	}
	return sent
}
