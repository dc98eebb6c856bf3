package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/spec-kit/msp-dashboard/internal/auth"
	"github.com/spec-kit/msp-dashboard/internal/config"
	"github.com/spec-kit/msp-dashboard/internal/domain"
	"github.com/spec-kit/msp-dashboard/internal/repository"
	"github.com/spec-kit/msp-dashboard/pkg/util/errorutil"
)

// SessionRevoker ends sessions before their natural expiry.
type SessionRevoker interface {
	RevokeSession(ctx context.Context, tokenID string, until time.Time) error
}

// AuthService coordinates login, logout and account creation.
type AuthService struct {
	users      repository.UserRepository
	revoker    SessionRevoker
	tokenMgr   *auth.TokenManager
	bcryptCost int
}

// AuthDependencies encapsulates collaborators for the auth service.
type AuthDependencies struct {
	UserRepo repository.UserRepository
	Revoker  SessionRevoker
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		revoker:    deps.Revoker,
		tokenMgr:   auth.NewTokenManager(cfg.JWTSecret, cfg.SessionTTL()),
		bcryptCost: cfg.BcryptCost,
	}
}

// Login verifies credentials and issues a session token. Unknown emails and
// wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, *domain.Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, "", nil, errorutil.NewValidationError("email and password are required", nil)
	}
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errorutil.IsNotFound(err) {
			return nil, "", nil, errorutil.NewUnauthorized("invalid credentials")
		}
		return nil, "", nil, err
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, "", nil, errorutil.NewUnauthorized("invalid credentials")
	}
	token, session, err := s.tokenMgr.GenerateToken(user)
	if err != nil {
		return nil, "", nil, err
	}
	return user, token, session, nil
}

// Logout revokes the session until it would have expired.
func (s *AuthService) Logout(ctx context.Context, session *domain.Session) error {
	if session == nil || s.revoker == nil {
		return nil
	}
	return s.revoker.RevokeSession(ctx, session.TokenID, session.ExpiresAt)
}

// CurrentUser loads the account behind a session.
func (s *AuthService) CurrentUser(ctx context.Context, session *domain.Session) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		if errorutil.IsNotFound(err) {
			return nil, errorutil.NewUnauthorized("user not found")
		}
		return nil, err
	}
	return user, nil
}

// CreateUser provisions an engineer account.
func (s *AuthService) CreateUser(ctx context.Context, name, email, password string, role domain.UserRole) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)
	if name == "" || email == "" {
		return nil, errorutil.NewValidationError("name and email are required", nil)
	}
	if role == "" {
		role = domain.UserRoleEngineer
	}
	if role != domain.UserRoleAdmin && role != domain.UserRoleEngineer {
		return nil, errorutil.NewValidationError("unknown role", map[string]any{"role": string(role)})
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, errorutil.NewConflict("email already registered", map[string]any{"email": email})
	} else if !errorutil.IsNotFound(err) {
		return nil, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooShort) {
			return nil, errorutil.NewValidationError(err.Error(), map[string]any{"password": "min=8"})
		}
		return nil, err
	}

	user := &domain.User{Name: name, Email: email, PasswordHash: hash, Role: role}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
