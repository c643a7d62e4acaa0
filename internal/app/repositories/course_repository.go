package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"coursefolio/internal/app/models"
	"coursefolio/internal/pkg/logger"
)

// CourseRepository handles database operations for the course catalog.
type CourseRepository struct {
	DB *pgxpool.Pool
}

// NewCourseRepository creates a new instance of CourseRepository.
func NewCourseRepository(db *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{DB: db}
}

// ListAll retrieves the full catalog in code order.
func (r *CourseRepository) ListAll(ctx context.Context) ([]*models.Course, error) {
	sqlStr, args, err := squirrel.Select("code", "name", "units", "status", "description").
		From("courses").
		OrderBy("code ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list courses SQL")
		return nil, err
	}

	rows, err := r.DB.Query(ctx, sqlStr, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list courses query")
		return nil, err
	}
	defer rows.Close()

	courses := make([]*models.Course, 0)
	for rows.Next() {
		var c models.Course
		if err := rows.Scan(&c.Code, &c.Name, &c.Units, &c.Status, &c.Description); err != nil {
			logger.Error().Err(err).Msg("Error scanning course row")
			return nil, err
		}
		courses = append(courses, &c)
	}

	if err = rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error after iterating course rows")
		return nil, fmt.Errorf("database iteration error: %w", err)
	}

	return courses, nil
}

// Upsert inserts a catalog entry or refreshes its fields if the code exists.
func (r *CourseRepository) Upsert(ctx context.Context, c *models.Course) error {
	sqlStr, args, err := squirrel.Insert("courses").
		Columns("code", "name", "units", "status", "description").
		Values(c.Code, c.Name, c.Units, c.Status, c.Description).
		Suffix("ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name, units = EXCLUDED.units, status = EXCLUDED.status, description = EXCLUDED.description").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building upsert course SQL")
		return err
	}

	if _, err := r.DB.Exec(ctx, sqlStr, args...); err != nil {
		logger.Error().Err(err).Str("code", c.Code).Msg("Error executing upsert course query")
		return err
	}
	return nil
}
