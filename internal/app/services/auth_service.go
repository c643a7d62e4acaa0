package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"coursefolio/internal/app/models"
	"coursefolio/internal/pkg/apperrors"
)

// UserStore is the persistence surface for admin users.
type UserStore interface {
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

// SessionStore is the persistence surface for login sessions.
type SessionStore interface {
	Create(ctx context.Context, s *models.Session) error
	Get(ctx context.Context, token string) (*models.Session, error)
	Delete(ctx context.Context, token string) error
}

// AuthService handles login, logout and per-request session validation.
type AuthService interface {
	Login(ctx context.Context, username, password string) (*models.User, string, error)
	Logout(ctx context.Context, token string) error
	ValidateSession(ctx context.Context, token string) (*models.User, error)
}

type authServiceImpl struct {
	users         UserStore
	sessions      SessionStore
	adminUsername string
	sessionTTL    time.Duration
	logger        zerolog.Logger
}

// NewAuthService creates a new AuthService. adminUsername is the single
// account allowed to log in; its bcrypt hash lives on the seeded user row.
func NewAuthService(users UserStore, sessions SessionStore, adminUsername string, sessionTTL time.Duration, lgr zerolog.Logger) AuthService {
	if sessionTTL <= 0 {
		sessionTTL = 720 * time.Hour
	}
	return &authServiceImpl{
		users:         users,
		sessions:      sessions,
		adminUsername: adminUsername,
		sessionTTL:    sessionTTL,
		logger:        lgr,
	}
}

// Login checks the credentials against the fixed admin account and creates
// a session, returning its opaque token.
func (s *authServiceImpl) Login(ctx context.Context, username, password string) (*models.User, string, error) {
	if subtle.ConstantTimeCompare([]byte(username), []byte(s.adminUsername)) != 1 {
		return nil, "", apperrors.ErrInvalidCredentials
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			s.logger.Error().Str("operation", "login").Msg("Admin user missing from database, seed did not run")
			return nil, "", apperrors.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", apperrors.ErrInvalidCredentials
	}

	session := &models.Session{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(s.sessionTTL),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, "", err
	}

	s.logger.Info().Str("operation", "login").Str("username", user.Username).Msg("Session created")
	return user, session.Token, nil
}

// Logout invalidates the session. Unknown tokens are ignored.
func (s *authServiceImpl) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessions.Delete(ctx, token)
}

// ValidateSession resolves a cookie token to its user. Expired sessions are
// deleted on sight and reported as expired.
func (s *authServiceImpl) ValidateSession(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, apperrors.ErrUnauthenticated
	}

	session, err := s.sessions.Get(ctx, token)
	if err != nil {
		return nil, err
	}

	if session.Expired(time.Now()) {
		_ = s.sessions.Delete(ctx, token)
		return nil, apperrors.ErrSessionExpired
	}

	return s.users.GetByID(ctx, session.UserID)
}
