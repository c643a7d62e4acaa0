// Package service holds the client-side data layer: a per-course query
// cache over the API with optimistic reordering.
package service

import (
	"context"
	"io"
	"sync"

	"coursefolio/internal/app/models"
	"coursefolio/internal/app/models/dto"
)

// Backend is the API surface the data layer consumes. Satisfied by
// api.Client; tests substitute a double.
type Backend interface {
	ListAssignments(ctx context.Context, courseCode string) ([]*models.Assignment, error)
	CreateAssignment(ctx context.Context, courseCode string, req *dto.CreateAssignmentRequest) (*models.Assignment, error)
	UpdateAssignment(ctx context.Context, courseCode string, req *dto.UpdateAssignmentRequest) (*models.Assignment, error)
	DeleteAssignment(ctx context.Context, courseCode, id string) error
	ReorderAssignments(ctx context.Context, courseCode string, orderedIDs []string) error
	Upload(ctx context.Context, filename string, r io.Reader) (string, error)
}

// Assignments caches course records and funnels every mutation through
// cache invalidation, so readers never see stale data after a write.
type Assignments struct {
	backend Backend

	mu          sync.Mutex
	cache       map[string][]*models.Assignment
	pendingSync map[string]bool
	saving      bool
	deleting    bool
}

// NewAssignments creates the data layer over a backend.
func NewAssignments(backend Backend) *Assignments {
	return &Assignments{
		backend:     backend,
		cache:       make(map[string][]*models.Assignment),
		pendingSync: make(map[string]bool),
	}
}

// List returns a course's records, filtered by type when itemType is
// non-empty. The full course list is fetched once and cached; the type
// filter is applied locally, so both record types share one fetch.
func (a *Assignments) List(ctx context.Context, courseCode string, itemType models.ItemType) ([]*models.Assignment, error) {
	a.mu.Lock()
	items, ok := a.cache[courseCode]
	a.mu.Unlock()

	if !ok {
		fetched, err := a.backend.ListAssignments(ctx, courseCode)
		if err != nil {
			return nil, err
		}
		a.mu.Lock()
		a.cache[courseCode] = fetched
		items = fetched
		a.mu.Unlock()
	}

	if itemType == "" {
		return items, nil
	}
	filtered := make([]*models.Assignment, 0, len(items))
	for _, item := range items {
		if item.Type == itemType {
			filtered = append(filtered, item)
		}
	}
	return filtered, nil
}

// Invalidate drops the cached list for a course. The next List refetches.
func (a *Assignments) Invalidate(courseCode string) {
	a.mu.Lock()
	delete(a.cache, courseCode)
	a.mu.Unlock()
}

// Create stores a new record. When filename and file are given, the file is
// uploaded first and its URL lands on the record.
func (a *Assignments) Create(ctx context.Context, courseCode string, req *dto.CreateAssignmentRequest, filename string, file io.Reader) (*models.Assignment, error) {
	a.setSaving(true)
	defer a.setSaving(false)

	if file != nil && filename != "" {
		url, err := a.backend.Upload(ctx, filename, file)
		if err != nil {
			return nil, err
		}
		req.FileURL = &url
	}

	created, err := a.backend.CreateAssignment(ctx, courseCode, req)
	if err != nil {
		return nil, err
	}
	a.Invalidate(courseCode)
	return created, nil
}

// Update overwrites a record's mutable fields.
func (a *Assignments) Update(ctx context.Context, courseCode string, req *dto.UpdateAssignmentRequest, filename string, file io.Reader) (*models.Assignment, error) {
	a.setSaving(true)
	defer a.setSaving(false)

	if file != nil && filename != "" {
		url, err := a.backend.Upload(ctx, filename, file)
		if err != nil {
			return nil, err
		}
		req.FileURL = &url
	}

	updated, err := a.backend.UpdateAssignment(ctx, courseCode, req)
	if err != nil {
		return nil, err
	}
	a.Invalidate(courseCode)
	return updated, nil
}

// Delete removes a record.
func (a *Assignments) Delete(ctx context.Context, courseCode, id string) error {
	a.mu.Lock()
	a.deleting = true
	a.mu.Unlock()
	defer func() {
		a.mu.Lock()
		a.deleting = false
		a.mu.Unlock()
	}()

	if err := a.backend.DeleteAssignment(ctx, courseCode, id); err != nil {
		return err
	}
	a.Invalidate(courseCode)
	return nil
}

// Reorder applies a new display order. The cached sequence flips to the new
// order immediately and a sync runs behind it; if the sync fails the cache
// is replaced by a fresh authoritative fetch rather than merged or retried.
// Submitting the current order is a no-op and touches nothing.
func (a *Assignments) Reorder(ctx context.Context, courseCode string, orderedIDs []string) error {
	a.mu.Lock()
	current := a.cache[courseCode]
	if sameOrder(current, orderedIDs) {
		a.mu.Unlock()
		return nil
	}
	a.cache[courseCode] = applyOrder(current, orderedIDs)
	a.pendingSync[courseCode] = true
	a.mu.Unlock()

	err := a.backend.ReorderAssignments(ctx, courseCode, orderedIDs)

	a.mu.Lock()
	delete(a.pendingSync, courseCode)
	a.mu.Unlock()

	if err != nil {
		if fresh, ferr := a.backend.ListAssignments(ctx, courseCode); ferr == nil {
			a.mu.Lock()
			a.cache[courseCode] = fresh
			a.mu.Unlock()
		} else {
			a.Invalidate(courseCode)
		}
		return err
	}
	return nil
}

// PendingSync reports whether a reorder for the course is still in flight.
func (a *Assignments) PendingSync(courseCode string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.pendingSync[courseCode]
}

// Saving reports whether a create or update is in flight.
func (a *Assignments) Saving() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.saving
}

// Deleting reports whether a delete is in flight.
func (a *Assignments) Deleting() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.deleting
}

func (a *Assignments) setSaving(v bool) {
	a.mu.Lock()
	a.saving = v
	a.mu.Unlock()
}

func sameOrder(items []*models.Assignment, orderedIDs []string) bool {
	if len(items) != len(orderedIDs) {
		return false
	}
	for i, item := range items {
		if item.ID != orderedIDs[i] {
			return false
		}
	}
	return true
}

func applyOrder(items []*models.Assignment, orderedIDs []string) []*models.Assignment {
	byID := make(map[string]*models.Assignment, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}
	reordered := make([]*models.Assignment, 0, len(items))
	for _, id := range orderedIDs {
		if item, ok := byID[id]; ok {
			reordered = append(reordered, item)
			delete(byID, id)
		}
	}
	// Records missing from the submitted order keep their relative place
	// at the tail.
	for _, item := range items {
		if _, left := byID[item.ID]; left {
			reordered = append(reordered, item)
		}
	}
	return reordered
}
