// Package manager is the interaction model of the record manager: a
// viewing/editing state machine with an orthogonal dragging flag, mirroring
// how the admin UI drives the data layer.
package manager

import (
	"context"
	"errors"
	"io"
	"strings"

	"coursefolio/internal/app/models"
	"coursefolio/internal/app/models/dto"
	"coursefolio/internal/cli/service"
)

// Mode is the top-level state.
type Mode int

const (
	Viewing Mode = iota
	Editing
)

// FormKind selects which editor variant is open.
type FormKind int

const (
	KindFile FormKind = iota
	KindLink
)

var (
	ErrNotViewing    = errors.New("an editor is already open")
	ErrNotEditing    = errors.New("no editor is open")
	ErrBusy          = errors.New("a save is already in progress")
	ErrNotDragging   = errors.New("no drag in progress")
	ErrTitleRequired = errors.New("title is required")
	ErrURLRequired   = errors.New("link URL is required")
	ErrFileRequired  = errors.New("a file is required")
	ErrUnknownItem   = errors.New("unknown record id")
)

// Form holds the editor's fields. ID is empty while creating.
type Form struct {
	Kind        FormKind
	ID          string
	Title       string
	Description string
	Type        models.ItemType

	// Link editor.
	URL string

	// File editor. Either a new file or a pre-existing stored URL.
	FileURL     string
	FileType    string
	NewFilename string
	NewFile     io.Reader

	ScreenshotURL *string
}

// Manager coordinates one course's records of one type.
type Manager struct {
	data       *service.Assignments
	courseCode string
	itemType   models.ItemType

	mode      Mode
	form      *Form
	dragging  bool
	dragIndex int
	items     []*models.Assignment
}

// NewManager creates a manager over the data layer.
func NewManager(data *service.Assignments, courseCode string, itemType models.ItemType) *Manager {
	return &Manager{
		data:       data,
		courseCode: courseCode,
		itemType:   itemType,
	}
}

// Refresh loads the current records.
func (m *Manager) Refresh(ctx context.Context) error {
	items, err := m.data.List(ctx, m.courseCode, m.itemType)
	if err != nil {
		return err
	}
	m.items = items
	return nil
}

// Items returns the records in display order.
func (m *Manager) Items() []*models.Assignment {
	return m.items
}

// Mode returns the current top-level state.
func (m *Manager) Mode() Mode {
	return m.mode
}

// Form returns the open editor, or nil while viewing.
func (m *Manager) Form() *Form {
	return m.form
}

// StartCreate opens an empty editor of the given kind.
func (m *Manager) StartCreate(kind FormKind) error {
	if m.mode != Viewing {
		return ErrNotViewing
	}
	m.form = &Form{Kind: kind, Type: m.itemType}
	m.mode = Editing
	return nil
}

// StartEdit opens the editor pre-filled from an existing record. The kind
// follows the record: links open the link editor, everything else the file
// editor.
func (m *Manager) StartEdit(id string) error {
	if m.mode != Viewing {
		return ErrNotViewing
	}
	var item *models.Assignment
	for _, it := range m.items {
		if it.ID == id {
			item = it
			break
		}
	}
	if item == nil {
		return ErrUnknownItem
	}

	form := &Form{
		ID:            item.ID,
		Title:         item.Title,
		Description:   item.Description,
		Type:          item.Type,
		ScreenshotURL: item.ScreenshotURL,
	}
	if item.IsLink() {
		form.Kind = KindLink
		if item.FileURL != nil {
			form.URL = *item.FileURL
		}
	} else {
		form.Kind = KindFile
		if item.FileURL != nil {
			form.FileURL = *item.FileURL
		}
		if item.FileType != nil {
			form.FileType = *item.FileType
		}
	}

	m.form = form
	m.mode = Editing
	return nil
}

// Cancel closes the editor and discards its fields.
func (m *Manager) Cancel() {
	m.form = nil
	m.mode = Viewing
}

// Validate checks the open editor without submitting it.
func (m *Manager) Validate() error {
	if m.mode != Editing || m.form == nil {
		return ErrNotEditing
	}
	f := m.form
	if strings.TrimSpace(f.Title) == "" {
		return ErrTitleRequired
	}
	switch f.Kind {
	case KindLink:
		if strings.TrimSpace(f.URL) == "" {
			return ErrURLRequired
		}
	case KindFile:
		if f.NewFile == nil && f.FileURL == "" {
			return ErrFileRequired
		}
	}
	return nil
}

// Submit validates and persists the editor, then returns to viewing. A
// submit while another save runs is rejected rather than queued. Link
// submissions always go out with fileType "link", whatever the form held.
func (m *Manager) Submit(ctx context.Context) (*models.Assignment, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if m.data.Saving() {
		return nil, ErrBusy
	}

	f := m.form
	var (
		fileURL  *string
		fileType *string
		filename string
		file     io.Reader
	)
	switch f.Kind {
	case KindLink:
		url := strings.TrimSpace(f.URL)
		fileURL = &url
		linkType := models.FileTypeLink
		fileType = &linkType
	case KindFile:
		if f.NewFile != nil {
			filename = f.NewFilename
			file = f.NewFile
		} else {
			fileURL = &f.FileURL
		}
		if f.FileType != "" {
			fileType = &f.FileType
		}
	}

	var (
		saved *models.Assignment
		err   error
	)
	if f.ID == "" {
		saved, err = m.data.Create(ctx, m.courseCode, &dto.CreateAssignmentRequest{
			Title:         f.Title,
			Description:   f.Description,
			Type:          f.Type,
			FileURL:       fileURL,
			FileType:      fileType,
			ScreenshotURL: f.ScreenshotURL,
		}, filename, file)
	} else {
		saved, err = m.data.Update(ctx, m.courseCode, &dto.UpdateAssignmentRequest{
			ID:            f.ID,
			Title:         f.Title,
			Description:   f.Description,
			FileURL:       fileURL,
			FileType:      fileType,
			ScreenshotURL: f.ScreenshotURL,
		}, filename, file)
	}
	if err != nil {
		return nil, err
	}

	m.Cancel()
	if err := m.Refresh(ctx); err != nil {
		return saved, err
	}
	return saved, nil
}

// Delete removes a record and refreshes the list.
func (m *Manager) Delete(ctx context.Context, id string) error {
	if err := m.data.Delete(ctx, m.courseCode, id); err != nil {
		return err
	}
	return m.Refresh(ctx)
}

// StartDrag marks the record at index as being dragged. Dragging is
// orthogonal to the viewing/editing split.
func (m *Manager) StartDrag(index int) error {
	if index < 0 || index >= len(m.items) {
		return ErrUnknownItem
	}
	m.dragging = true
	m.dragIndex = index
	return nil
}

// Dragging reports whether a drag is in progress.
func (m *Manager) Dragging() bool {
	return m.dragging
}

// DropOn moves the dragged record to index and persists the new order.
// Dropping on the origin index ends the drag without any call.
func (m *Manager) DropOn(ctx context.Context, index int) error {
	if !m.dragging {
		return ErrNotDragging
	}
	from := m.dragIndex
	m.dragging = false

	if index < 0 || index >= len(m.items) {
		return ErrUnknownItem
	}
	if index == from {
		return nil
	}

	reordered := make([]*models.Assignment, 0, len(m.items))
	reordered = append(reordered, m.items[:from]...)
	reordered = append(reordered, m.items[from+1:]...)
	reordered = append(reordered[:index], append([]*models.Assignment{m.items[from]}, reordered[index:]...)...)
	m.items = reordered

	orderedIDs := make([]string, len(reordered))
	for i, item := range reordered {
		orderedIDs[i] = item.ID
	}
	if err := m.data.Reorder(ctx, m.courseCode, orderedIDs); err != nil {
		// The data layer has already reconciled with the server; mirror it.
		if rerr := m.Refresh(ctx); rerr != nil {
			return errors.Join(err, rerr)
		}
		return err
	}
	return nil
}

// CancelDrag ends the drag without moving anything.
func (m *Manager) CancelDrag() {
	m.dragging = false
}
