package http

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"github.com/jhoicas/logicielhub-api/internal/application/dto"
	"github.com/jhoicas/logicielhub-api/internal/application/session"
	"github.com/jhoicas/logicielhub-api/internal/infrastructure/metrics"
)

const defaultHeartbeat = 25 * time.Second

// SessionHandler expone el estado de sesión y su flujo de cambios (SSE).
type SessionHandler struct {
	hub       *session.Hub
	heartbeat time.Duration
}

// NewSessionHandler construye el handler. heartbeat <= 0 usa 25s.
func NewSessionHandler(hub *session.Hub, heartbeat time.Duration) *SessionHandler {
	if heartbeat <= 0 {
		heartbeat = defaultHeartbeat
	}
	return &SessionHandler{hub: hub, heartbeat: heartbeat}
}

func toSessionResponse(s session.Snapshot) dto.SessionResponse {
	return dto.SessionResponse{
		State:   string(s.State),
		User:    dto.ToUserResponse(s.User),
		Company: dto.ToCompanyResponse(s.Company),
	}
}

// Get godoc
// @Summary      Estado de sesión (anonymous, pending_onboarding, onboarded)
// @Tags         session
// @Produce      json
// @Success      200  {object}  dto.SessionResponse
// @Router       /api/session [get]
func (h *SessionHandler) Get(c *fiber.Ctx) error {
	return c.JSON(toSessionResponse(h.hub.Resolve(c.UserContext(), GetUserID(c))))
}

// Stream godoc
// @Summary      Flujo de cambios de sesión (Server-Sent Events)
// @Description  Emite "loading", el estado resuelto y un evento por cada cambio. Termina con el logout.
// @Tags         session
// @Produce      text/event-stream
// @Param        access_token  query  string  false  "JWT (EventSource no admite cabeceras)"
// @Success      200
// @Router       /api/session/stream [get]
func (h *SessionHandler) Stream(c *fiber.Ctx) error {
	userID := GetUserID(c)
	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	// El writer corre después de que el handler retorna: el ctx de Fiber ya no es válido.
	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		stream, stop := h.hub.Subscribe(ctx, userID)
		defer stop()
		metrics.SessionSubscribed()
		defer metrics.SessionUnsubscribed()

		ticker := time.NewTicker(h.heartbeat)
		defer ticker.Stop()
		for {
			select {
			case snap, ok := <-stream:
				if !ok {
					return
				}
				if err := writeSessionEvent(w, snap); err != nil {
					return
				}
				// Sin usuario no habrá más cambios que enviar.
				if userID == "" && snap.State != session.StateLoading {
					return
				}
			case <-ticker.C:
				if _, err := w.WriteString(": ping\n\n"); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	}))
	return nil
}

func writeSessionEvent(w *bufio.Writer, snap session.Snapshot) error {
	payload, err := json.Marshal(toSessionResponse(snap))
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: session\ndata: %s\n\n", payload); err != nil {
		return err
	}
	return w.Flush()
}
