package dto

// SessionResponse instantánea del estado de sesión (GET /api/session y cada evento SSE).
type SessionResponse struct {
	State   string           `json:"state"` // loading, anonymous, pending_onboarding, onboarded
	User    *UserResponse    `json:"user,omitempty"`
	Company *CompanyResponse `json:"company,omitempty"`
}
