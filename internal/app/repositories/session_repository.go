package repositories

import (
	"context"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"coursefolio/internal/app/models"
	"coursefolio/internal/pkg/apperrors"
	"coursefolio/internal/pkg/logger"
)

// SessionRepository handles database operations for login sessions.
type SessionRepository struct {
	DB *pgxpool.Pool
}

// NewSessionRepository creates a new instance of SessionRepository.
func NewSessionRepository(db *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{DB: db}
}

// Create stores a new session row.
func (r *SessionRepository) Create(ctx context.Context, s *models.Session) error {
	sqlStr, args, err := squirrel.Insert("sessions").
		Columns("token", "user_id", "expires_at").
		Values(s.Token, s.UserID, s.ExpiresAt).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create session SQL")
		return err
	}

	if _, err := r.DB.Exec(ctx, sqlStr, args...); err != nil {
		logger.Error().Err(err).Int64("userId", s.UserID).Msg("Error executing create session query")
		return err
	}
	return nil
}

// Get retrieves a session by its token.
func (r *SessionRepository) Get(ctx context.Context, token string) (*models.Session, error) {
	sqlStr, args, err := squirrel.Select("token", "user_id", "expires_at", "created_at").
		From("sessions").
		Where(squirrel.Eq{"token": token}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get session SQL")
		return nil, err
	}

	var s models.Session
	err = r.DB.QueryRow(ctx, sqlStr, args...).Scan(&s.Token, &s.UserID, &s.ExpiresAt, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSessionNotFound
		}
		logger.Error().Err(err).Msg("Error executing get session query")
		return nil, err
	}
	return &s, nil
}

// Delete removes a session. Removing an unknown token is not an error.
func (r *SessionRepository) Delete(ctx context.Context, token string) error {
	sqlStr, args, err := squirrel.Delete("sessions").
		Where(squirrel.Eq{"token": token}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building delete session SQL")
		return err
	}

	if _, err := r.DB.Exec(ctx, sqlStr, args...); err != nil {
		logger.Error().Err(err).Msg("Error executing delete session query")
		return err
	}
	return nil
}

// DeleteExpired prunes sessions past their expiry. Called opportunistically
// at startup; expired sessions are also rejected at validation time.
func (r *SessionRepository) DeleteExpired(ctx context.Context) error {
	sqlStr, args, err := squirrel.Delete("sessions").
		Where(squirrel.Expr("expires_at < now()")).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building delete expired sessions SQL")
		return err
	}

	if _, err := r.DB.Exec(ctx, sqlStr, args...); err != nil {
		logger.Error().Err(err).Msg("Error executing delete expired sessions query")
		return err
	}
	return nil
}
