package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/logicielhub-api/internal/application/dto"
	"github.com/jhoicas/logicielhub-api/internal/application/ports"
	"github.com/jhoicas/logicielhub-api/internal/application/session"
	"github.com/jhoicas/logicielhub-api/internal/domain"
	"github.com/jhoicas/logicielhub-api/internal/domain/entity"
	"github.com/jhoicas/logicielhub-api/internal/domain/repository"
	"github.com/jhoicas/logicielhub-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// TokenIssuer emite un JWT para el estado actual del usuario (lo usa onboarding).
type TokenIssuer interface {
	IssueToken(u *entity.User) (string, error)
}

var _ TokenIssuer = (*AuthUseCase)(nil)

// AuthUseCase casos de uso de autenticación: registro, login y logout.
type AuthUseCase struct {
	userRepo repository.UserRepository
	tokens   ports.TokenStore
	session  session.Notifier
	jwtCfg   JWTConfig
	log      zerolog.Logger
	now      func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(
	userRepo repository.UserRepository,
	tokens ports.TokenStore,
	sessions session.Notifier,
	jwtCfg JWTConfig,
	log zerolog.Logger,
) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, tokens: tokens, session: sessions, jwtCfg: jwtCfg, log: log, now: time.Now}
}

// RegisterUser crea una cuenta sin empresa (rol user). ErrEmailAlreadyExists si el email ya existe.
func (uc *AuthUseCase) RegisterUser(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	existing, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	name := strings.TrimSpace(in.DisplayName)
	if name == "" {
		name = email
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  name,
		Role:         entity.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	uc.log.Info().Str("user_id", user.ID).Msg("auth: usuario registrado")
	return dto.ToUserResponse(user), nil
}

// Login verifica email/password, genera JWT y difunde el nuevo estado de sesión.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByEmail(ctx, strings.TrimSpace(in.Email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	token, err := uc.IssueToken(user)
	if err != nil {
		return nil, err
	}
	snap := uc.session.Changed(ctx, user.ID)
	return &dto.LoginResponse{
		Token:   token,
		User:    *dto.ToUserResponse(user),
		Session: string(snap.State),
	}, nil
}

// Logout revoca el jti hasta su expiración y cierra las suscripciones de sesión del usuario.
func (uc *AuthUseCase) Logout(ctx context.Context, claims *jwt.Claims) error {
	if claims == nil || claims.TokenID() == "" {
		return domain.ErrUnauthorized
	}
	if err := uc.tokens.Revoke(ctx, claims.TokenID(), claims.ExpiresIn(uc.now())); err != nil {
		return err
	}
	uc.session.LoggedOut(claims.UserID)
	uc.log.Info().Str("user_id", claims.UserID).Msg("auth: sesión cerrada")
	return nil
}

// IssueToken firma un JWT con la empresa y el rol actuales del usuario.
func (uc *AuthUseCase) IssueToken(u *entity.User) (string, error) {
	return jwt.Generate(uc.jwtCfg.Secret, u.ID, u.CompanyID, u.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
}
