package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"coursefolio/internal/app/models"
	"coursefolio/internal/app/models/dto"
	"coursefolio/internal/pkg/apperrors"
	"coursefolio/internal/preview"
)

// AssignmentStore is the persistence surface the service needs.
type AssignmentStore interface {
	ListByCourse(ctx context.Context, courseCode string) ([]*models.Assignment, error)
	GetByID(ctx context.Context, courseCode, id string) (*models.Assignment, error)
	Create(ctx context.Context, a *models.Assignment) (*models.Assignment, error)
	Update(ctx context.Context, a *models.Assignment) (*models.Assignment, error)
	SetScreenshotURL(ctx context.Context, id string, url *string) error
	Delete(ctx context.Context, courseCode, id string) error
	Reorder(ctx context.Context, courseCode string, orderedIDs []string) error
}

// ScreenshotGenerator captures a page screenshot and returns a stored image URL.
type ScreenshotGenerator interface {
	Generate(ctx context.Context, pageURL string) (string, error)
}

// AssignmentService defines the operations on assignment/resource records.
type AssignmentService interface {
	List(ctx context.Context, courseCode string) ([]*models.Assignment, error)
	Create(ctx context.Context, courseCode string, req *dto.CreateAssignmentRequest) (*models.Assignment, error)
	Update(ctx context.Context, courseCode string, req *dto.UpdateAssignmentRequest) (*models.Assignment, error)
	Delete(ctx context.Context, courseCode, id string) error
	Reorder(ctx context.Context, courseCode string, orderedIDs []string) error
	// Wait blocks until in-flight screenshot jobs finish. Used on shutdown
	// and by tests.
	Wait()
}

type assignmentServiceImpl struct {
	repo        AssignmentStore
	screenshots ScreenshotGenerator
	shotTimeout time.Duration
	logger      zerolog.Logger
	jobs        sync.WaitGroup
}

// NewAssignmentService creates a new AssignmentService. screenshots may be
// nil, which disables preview generation entirely.
func NewAssignmentService(repo AssignmentStore, screenshots ScreenshotGenerator, shotTimeout time.Duration, lgr zerolog.Logger) AssignmentService {
	if shotTimeout <= 0 {
		shotTimeout = 5 * time.Second
	}
	return &assignmentServiceImpl{
		repo:        repo,
		screenshots: screenshots,
		shotTimeout: shotTimeout,
		logger:      lgr,
	}
}

// List returns every record for a course in display order.
func (s *assignmentServiceImpl) List(ctx context.Context, courseCode string) ([]*models.Assignment, error) {
	return s.repo.ListByCourse(ctx, courseCode)
}

// Create validates and stores a new record, then kicks off screenshot
// generation for previewable links. The record write never waits on the
// screenshot provider.
func (s *assignmentServiceImpl) Create(ctx context.Context, courseCode string, req *dto.CreateAssignmentRequest) (*models.Assignment, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, apperrors.NewValidationError("title must not be empty")
	}
	if !req.Type.Valid() {
		return nil, apperrors.NewValidationError("type must be \"assignment\" or \"resource\"")
	}

	item := &models.Assignment{
		CourseCode:    courseCode,
		Title:         req.Title,
		Description:   req.Description,
		Type:          req.Type,
		FileURL:       req.FileURL,
		FileType:      req.FileType,
		ScreenshotURL: req.ScreenshotURL,
	}
	// Screenshots only mean anything for links.
	if !item.IsLink() {
		item.ScreenshotURL = nil
	}

	created, err := s.repo.Create(ctx, item)
	if err != nil {
		return nil, err
	}

	if s.needsScreenshot(created) {
		s.scheduleScreenshot(created.ID, *created.FileURL)
	}

	return created, nil
}

// Update overwrites the mutable fields of (id, courseCode). The screenshot
// is recomputed only when the link URL actually changed; a screenshot sent
// by the client is kept as-is, and a cached one survives an update that
// doesn't touch the URL.
func (s *assignmentServiceImpl) Update(ctx context.Context, courseCode string, req *dto.UpdateAssignmentRequest) (*models.Assignment, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, apperrors.NewValidationError("title must not be empty")
	}

	existing, err := s.repo.GetByID(ctx, courseCode, req.ID)
	if err != nil {
		return nil, err
	}

	item := &models.Assignment{
		ID:            req.ID,
		CourseCode:    courseCode,
		Title:         req.Title,
		Description:   req.Description,
		FileURL:       req.FileURL,
		FileType:      req.FileType,
		ScreenshotURL: req.ScreenshotURL,
	}

	urlChanged := req.FileURL != nil && (existing.FileURL == nil || *existing.FileURL != *req.FileURL)
	if !item.IsLink() {
		item.ScreenshotURL = nil
	} else if item.ScreenshotURL == nil && !urlChanged {
		// Client didn't resend the cached screenshot; keep it.
		item.ScreenshotURL = existing.ScreenshotURL
	}

	recompute := urlChanged && s.needsScreenshot(item)

	updated, err := s.repo.Update(ctx, item)
	if err != nil {
		return nil, err
	}

	if recompute {
		s.scheduleScreenshot(updated.ID, *updated.FileURL)
	}

	return updated, nil
}

// Delete removes (id, courseCode). Idempotent.
func (s *assignmentServiceImpl) Delete(ctx context.Context, courseCode, id string) error {
	return s.repo.Delete(ctx, courseCode, id)
}

// Reorder persists position = index for the given sequence, atomically.
func (s *assignmentServiceImpl) Reorder(ctx context.Context, courseCode string, orderedIDs []string) error {
	if len(orderedIDs) == 0 {
		return apperrors.NewBadRequestError("orderedIds must be a non-empty array")
	}
	return s.repo.Reorder(ctx, courseCode, orderedIDs)
}

func (s *assignmentServiceImpl) Wait() {
	s.jobs.Wait()
}

// needsScreenshot reports whether a record should get a generated preview:
// link records with a URL, excluding YouTube (thumbnails come from the
// video id by convention), when a generator is configured and no preview
// exists yet.
func (s *assignmentServiceImpl) needsScreenshot(a *models.Assignment) bool {
	return s.screenshots != nil &&
		a.IsLink() &&
		a.FileURL != nil && *a.FileURL != "" &&
		a.ScreenshotURL == nil &&
		!preview.IsYouTubeURL(*a.FileURL)
}

// scheduleScreenshot runs the provider call on its own bounded context,
// detached from the request. Failure is logged and leaves screenshot_url
// NULL; the record write has already succeeded.
func (s *assignmentServiceImpl) scheduleScreenshot(id, pageURL string) {
	s.jobs.Add(1)
	go func() {
		defer s.jobs.Done()

		ctx, cancel := context.WithTimeout(context.Background(), s.shotTimeout)
		defer cancel()

		shotURL, err := s.screenshots.Generate(ctx, pageURL)
		if err != nil {
			s.logger.Warn().Err(err).Str("operation", "screenshot").Str("id", id).Str("url", pageURL).Msg("Screenshot generation failed, leaving preview empty")
			return
		}

		if err := s.repo.SetScreenshotURL(ctx, id, &shotURL); err != nil {
			s.logger.Error().Err(err).Str("operation", "screenshot").Str("id", id).Msg("Failed to store screenshot URL")
		}
	}()
}
