package entity

import "time"

// Límites de la calificación.
const (
	MinRating = 1
	MaxRating = 5
)

// Review opinión de un usuario sobre un software (una por par usuario/software).
type Review struct {
	ID         string
	UserID     string
	SoftwareID string
	Rating     int
	Comment    string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ValidRating indica si r ∈ [1,5].
func ValidRating(r int) bool { return r >= MinRating && r <= MaxRating }
