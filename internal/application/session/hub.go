package session

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Notifier lo usan auth y onboarding para anunciar cambios de sesión.
type Notifier interface {
	// Changed vuelve a resolver el estado del usuario, lo difunde y lo devuelve.
	Changed(ctx context.Context, userID string) Snapshot
	// LoggedOut difunde anonymous y cierra las suscripciones del usuario.
	LoggedOut(userID string)
}

var _ Notifier = (*Hub)(nil)

const subscriberBuffer = 8

type subscriber struct {
	ch     chan Snapshot
	closed bool
	// lastSeq número de la última resolución entregada.
	lastSeq uint64
}

// Hub reparte instantáneas de sesión por usuario. Cada suscripción produce
// loading, luego el estado resuelto y después una instantánea por cambio;
// termina con el logout del usuario, la cancelación o el cierre del hub.
type Hub struct {
	gate *Gate
	log  zerolog.Logger

	mu     sync.Mutex
	subs   map[string]map[*subscriber]struct{}
	closed bool
	// seq numera las resoluciones en el orden en que empiezan a leer.
	seq uint64
}

// NewHub construye el hub sobre el gate.
func NewHub(gate *Gate, log zerolog.Logger) *Hub {
	return &Hub{gate: gate, log: log, subs: map[string]map[*subscriber]struct{}{}}
}

// Resolve delega en el gate (GET /api/session).
func (h *Hub) Resolve(ctx context.Context, userID string) Snapshot {
	return h.gate.Resolve(ctx, userID)
}

// Subscribe abre una suscripción. El canal se cierra al llamar cancel, al cancelarse ctx
// o en el logout del usuario.
func (h *Hub) Subscribe(ctx context.Context, userID string) (<-chan Snapshot, func()) {
	sub := &subscriber{ch: make(chan Snapshot, subscriberBuffer)}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(sub.ch)
		return sub.ch, func() {}
	}
	if h.subs[userID] == nil {
		h.subs[userID] = map[*subscriber]struct{}{}
	}
	h.subs[userID][sub] = struct{}{}
	h.deliver(sub, Snapshot{State: StateLoading, At: h.gate.now()})
	seq := h.nextSeq()
	h.mu.Unlock()

	resolved := h.gate.Resolve(ctx, userID)
	h.mu.Lock()
	h.deliverResolved(sub, resolved, seq)
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			h.remove(userID, sub)
		})
	}
	go func() {
		<-ctx.Done()
		cancel()
	}()
	return sub.ch, cancel
}

// Changed resuelve de nuevo el estado y lo envía a todas las suscripciones del usuario.
// Una resolución que empezó antes que otra ya entregada no se envía.
func (h *Hub) Changed(ctx context.Context, userID string) Snapshot {
	h.mu.Lock()
	seq := h.nextSeq()
	h.mu.Unlock()

	snap := h.gate.Resolve(ctx, userID)
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subs[userID] {
		h.deliverResolved(sub, snap, seq)
	}
	return snap
}

// LoggedOut envía anonymous y cierra las suscripciones del usuario.
func (h *Hub) LoggedOut(userID string) {
	snap := Snapshot{State: StateAnonymous, At: h.gate.now()}
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subs[userID] {
		h.deliver(sub, snap)
		h.remove(userID, sub)
	}
}

// Subscribers número de suscripciones abiertas del usuario.
func (h *Hub) Subscribers(userID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[userID])
}

// Close cierra todas las suscripciones (apagado del servidor).
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for userID, set := range h.subs {
		for sub := range set {
			h.remove(userID, sub)
		}
	}
}

// deliver envía sin bloquear; con el buffer lleno descarta la instantánea más antigua.
// Requiere h.mu.
func (h *Hub) deliver(sub *subscriber, snap Snapshot) {
	if sub.closed {
		return
	}
	select {
	case sub.ch <- snap:
		return
	default:
	}
	select {
	case <-sub.ch:
		h.log.Warn().Str("state", string(snap.State)).Msg("sesión: suscriptor lento, se descarta una instantánea")
	default:
	}
	select {
	case sub.ch <- snap:
	default:
	}
}

// nextSeq requiere h.mu.
func (h *Hub) nextSeq() uint64 {
	h.seq++
	return h.seq
}

// deliverResolved entrega snap salvo que el suscriptor ya tenga una resolución posterior.
// Requiere h.mu.
func (h *Hub) deliverResolved(sub *subscriber, snap Snapshot, seq uint64) {
	if seq < sub.lastSeq {
		return
	}
	sub.lastSeq = seq
	h.deliver(sub, snap)
}

// remove requiere h.mu.
func (h *Hub) remove(userID string, sub *subscriber) {
	set := h.subs[userID]
	if _, ok := set[sub]; !ok {
		return
	}
	delete(set, sub)
	if len(set) == 0 {
		delete(h.subs, userID)
	}
	sub.closed = true
	close(sub.ch)
}

// WaitIdle espera a que el usuario no tenga suscripciones o venza timeout (tests y apagado).
func (h *Hub) WaitIdle(userID string, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if h.Subscribers(userID) == 0 {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return h.Subscribers(userID) == 0
}
