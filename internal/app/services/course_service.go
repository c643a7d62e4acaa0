package services

import (
	"context"

	"coursefolio/internal/app/models"
)

// CourseStore is the persistence surface for the course catalog.
type CourseStore interface {
	ListAll(ctx context.Context) ([]*models.Course, error)
}

// CourseService serves the course catalog.
type CourseService interface {
	List(ctx context.Context) ([]*models.Course, error)
}

type courseServiceImpl struct {
	repo CourseStore
}

// NewCourseService creates a new CourseService.
func NewCourseService(repo CourseStore) CourseService {
	return &courseServiceImpl{repo: repo}
}

func (s *courseServiceImpl) List(ctx context.Context) ([]*models.Course, error) {
	return s.repo.ListAll(ctx)
}
