package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"coursefolio/internal/app/models"
	"coursefolio/internal/db"
	"coursefolio/internal/pkg/apperrors"
	"coursefolio/internal/pkg/logger"
)

// AssignmentRepository handles database operations for assignment/resource records.
type AssignmentRepository struct {
	DB *pgxpool.Pool
}

// NewAssignmentRepository creates a new instance of AssignmentRepository.
func NewAssignmentRepository(db *pgxpool.Pool) *AssignmentRepository {
	return &AssignmentRepository{DB: db}
}

const assignmentColumns = "id, course_code, title, description, type, file_url, file_type, screenshot_url, position, created_at"

func scanAssignment(row pgx.Row) (*models.Assignment, error) {
	var a models.Assignment
	err := row.Scan(
		&a.ID, &a.CourseCode, &a.Title, &a.Description, &a.Type,
		&a.FileURL, &a.FileType, &a.ScreenshotURL, &a.Position, &a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAssignmentNotFound
		}
		logger.Error().Err(err).Msg("Error scanning assignment row")
		return nil, err
	}
	return &a, nil
}

// ListByCourse retrieves every record for a course, positioned items first
// in position order, then unpositioned items newest first.
func (r *AssignmentRepository) ListByCourse(ctx context.Context, courseCode string) ([]*models.Assignment, error) {
	sqlStr, args, err := squirrel.Select(assignmentColumns).
		From("assignments").
		Where(squirrel.Eq{"course_code": courseCode}).
		OrderBy("position ASC NULLS LAST", "created_at DESC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list assignments SQL")
		return nil, err
	}

	rows, err := r.DB.Query(ctx, sqlStr, args...)
	if err != nil {
		logger.Error().Err(err).Str("courseCode", courseCode).Msg("Error executing list assignments query")
		return nil, err
	}
	defer rows.Close()

	items := make([]*models.Assignment, 0)
	for rows.Next() {
		item, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error after iterating assignment rows")
		return nil, fmt.Errorf("database iteration error: %w", err)
	}

	return items, nil
}

// GetByID retrieves the record matching (id, course_code).
func (r *AssignmentRepository) GetByID(ctx context.Context, courseCode, id string) (*models.Assignment, error) {
	sqlStr, args, err := squirrel.Select(assignmentColumns).
		From("assignments").
		Where(squirrel.Eq{"id": id, "course_code": courseCode}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get assignment SQL")
		return nil, err
	}

	return scanAssignment(r.DB.QueryRow(ctx, sqlStr, args...))
}

// Create inserts a new record, assigning the next position within the
// course (max+1, or 0 for the first record) atomically in the insert.
// The stored row is returned with its server-assigned id and timestamp.
func (r *AssignmentRepository) Create(ctx context.Context, a *models.Assignment) (*models.Assignment, error) {
	sqlStr, args, err := squirrel.Insert("assignments").
		Columns("course_code", "title", "description", "type", "file_url", "file_type", "screenshot_url", "position").
		Values(
			a.CourseCode, a.Title, a.Description, a.Type,
			a.FileURL, a.FileType, a.ScreenshotURL,
			squirrel.Expr("(SELECT COALESCE(MAX(position) + 1, 0) FROM assignments WHERE course_code = ?)", a.CourseCode),
		).
		Suffix("RETURNING " + assignmentColumns).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create assignment SQL")
		return nil, err
	}

	created, err := scanAssignment(r.DB.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		logger.Error().Err(err).Str("courseCode", a.CourseCode).Msg("Error executing create assignment query")
		return nil, err
	}

	return created, nil
}

// Update overwrites the mutable fields of the row matching (id, course_code)
// and returns the row after the update. Type, course and position are not
// touched here.
func (r *AssignmentRepository) Update(ctx context.Context, a *models.Assignment) (*models.Assignment, error) {
	sqlStr, args, err := squirrel.Update("assignments").
		Set("title", a.Title).
		Set("description", a.Description).
		Set("file_url", a.FileURL).
		Set("file_type", a.FileType).
		Set("screenshot_url", a.ScreenshotURL).
		Where(squirrel.Eq{"id": a.ID, "course_code": a.CourseCode}).
		Suffix("RETURNING " + assignmentColumns).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update assignment SQL")
		return nil, err
	}

	updated, err := scanAssignment(r.DB.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if !errors.Is(err, apperrors.ErrAssignmentNotFound) {
			logger.Error().Err(err).Str("id", a.ID).Str("courseCode", a.CourseCode).Msg("Error executing update assignment query")
		}
		return nil, err
	}

	return updated, nil
}

// SetScreenshotURL stores the outcome of a screenshot generation job.
// A nil url clears the cached screenshot.
func (r *AssignmentRepository) SetScreenshotURL(ctx context.Context, id string, url *string) error {
	sqlStr, args, err := squirrel.Update("assignments").
		Set("screenshot_url", url).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building set screenshot URL SQL")
		return err
	}

	if _, err := r.DB.Exec(ctx, sqlStr, args...); err != nil {
		logger.Error().Err(err).Str("id", id).Msg("Error executing set screenshot URL query")
		return err
	}
	return nil
}

// Delete hard-deletes the row matching (id, course_code). Deleting a
// nonexistent id is not an error.
func (r *AssignmentRepository) Delete(ctx context.Context, courseCode, id string) error {
	sqlStr, args, err := squirrel.Delete("assignments").
		Where(squirrel.Eq{"id": id, "course_code": courseCode}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building delete assignment SQL")
		return err
	}

	if _, err := r.DB.Exec(ctx, sqlStr, args...); err != nil {
		logger.Error().Err(err).Str("id", id).Str("courseCode", courseCode).Msg("Error executing delete assignment query")
		return err
	}
	return nil
}

// Reorder sets position = index for each id in orderedIDs, in one
// transaction. A failing write rolls the whole batch back so a partial
// failure can never leave a mixed order.
func (r *AssignmentRepository) Reorder(ctx context.Context, courseCode string, orderedIDs []string) error {
	return db.WithTransaction(ctx, r.DB, func(ctx context.Context, tx pgx.Tx) error {
		for idx, id := range orderedIDs {
			sqlStr, args, err := squirrel.Update("assignments").
				Set("position", idx).
				Where(squirrel.Eq{"id": id, "course_code": courseCode}).
				PlaceholderFormat(squirrel.Dollar).
				ToSql()
			if err != nil {
				return err
			}
			if _, err := tx.Exec(ctx, sqlStr, args...); err != nil {
				logger.Error().Err(err).Str("id", id).Str("courseCode", courseCode).Int("position", idx).Msg("Reorder write failed, rolling back")
				return err
			}
		}
		return nil
	})
}
