package manager

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coursefolio/internal/app/models"
	"coursefolio/internal/app/models/dto"
	"coursefolio/internal/cli/service"
)

type fakeBackend struct {
	items       []*models.Assignment
	nextID      int
	lastCreate  *dto.CreateAssignmentRequest
	lastUpdate  *dto.UpdateAssignmentRequest
	reorderSent int
	reorderIDs  []string
}

var _ service.Backend = (*fakeBackend)(nil)

func (f *fakeBackend) ListAssignments(ctx context.Context, courseCode string) ([]*models.Assignment, error) {
	out := make([]*models.Assignment, len(f.items))
	copy(out, f.items)
	return out, nil
}

func (f *fakeBackend) CreateAssignment(ctx context.Context, courseCode string, req *dto.CreateAssignmentRequest) (*models.Assignment, error) {
	f.lastCreate = req
	f.nextID++
	item := &models.Assignment{
		ID:       string(rune('a' + f.nextID - 1)),
		Title:    req.Title,
		Type:     req.Type,
		FileURL:  req.FileURL,
		FileType: req.FileType,
	}
	f.items = append(f.items, item)
	return item, nil
}

func (f *fakeBackend) UpdateAssignment(ctx context.Context, courseCode string, req *dto.UpdateAssignmentRequest) (*models.Assignment, error) {
	f.lastUpdate = req
	for _, item := range f.items {
		if item.ID == req.ID {
			item.Title = req.Title
			item.FileURL = req.FileURL
			item.FileType = req.FileType
			return item, nil
		}
	}
	return nil, ErrUnknownItem
}

func (f *fakeBackend) DeleteAssignment(ctx context.Context, courseCode, id string) error {
	for i, item := range f.items {
		if item.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeBackend) ReorderAssignments(ctx context.Context, courseCode string, orderedIDs []string) error {
	f.reorderSent++
	f.reorderIDs = orderedIDs
	byID := make(map[string]*models.Assignment)
	for _, item := range f.items {
		byID[item.ID] = item
	}
	reordered := make([]*models.Assignment, 0, len(f.items))
	for _, id := range orderedIDs {
		if item, ok := byID[id]; ok {
			reordered = append(reordered, item)
		}
	}
	f.items = reordered
	return nil
}

func (f *fakeBackend) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	return "http://host/uploads/" + filename, nil
}

func newTestManager(backend *fakeBackend) *Manager {
	return NewManager(service.NewAssignments(backend), "CST 300", models.TypeAssignment)
}

func TestStartCreate_OnlyFromViewing(t *testing.T) {
	m := newTestManager(&fakeBackend{})
	require.NoError(t, m.StartCreate(KindLink))
	assert.Equal(t, Editing, m.Mode())

	assert.ErrorIs(t, m.StartCreate(KindFile), ErrNotViewing)
}

func TestCancel_ReturnsToViewing(t *testing.T) {
	m := newTestManager(&fakeBackend{})
	require.NoError(t, m.StartCreate(KindLink))
	m.Cancel()
	assert.Equal(t, Viewing, m.Mode())
	assert.Nil(t, m.Form())
}

func TestValidate_TitleRequired(t *testing.T) {
	m := newTestManager(&fakeBackend{})
	require.NoError(t, m.StartCreate(KindLink))
	m.Form().URL = "https://example.com"

	assert.ErrorIs(t, m.Validate(), ErrTitleRequired)
	m.Form().Title = "  "
	assert.ErrorIs(t, m.Validate(), ErrTitleRequired)
}

func TestValidate_LinkRequiresURL(t *testing.T) {
	m := newTestManager(&fakeBackend{})
	require.NoError(t, m.StartCreate(KindLink))
	m.Form().Title = "ref"

	assert.ErrorIs(t, m.Validate(), ErrURLRequired)
}

func TestValidate_FileRequiresFileOrExistingURL(t *testing.T) {
	m := newTestManager(&fakeBackend{})
	require.NoError(t, m.StartCreate(KindFile))
	m.Form().Title = "paper"

	assert.ErrorIs(t, m.Validate(), ErrFileRequired)

	m.Form().NewFilename = "x.pdf"
	m.Form().NewFile = strings.NewReader("data")
	assert.NoError(t, m.Validate())
}

func TestSubmit_LinkForcesFileTypeLink(t *testing.T) {
	backend := &fakeBackend{}
	m := newTestManager(backend)
	require.NoError(t, m.StartCreate(KindLink))
	m.Form().Title = "ref"
	m.Form().URL = "  https://example.com/page  "

	saved, err := m.Submit(context.Background())
	require.NoError(t, err)
	require.NotNil(t, backend.lastCreate)
	require.NotNil(t, backend.lastCreate.FileType)
	assert.Equal(t, models.FileTypeLink, *backend.lastCreate.FileType)
	require.NotNil(t, backend.lastCreate.FileURL)
	assert.Equal(t, "https://example.com/page", *backend.lastCreate.FileURL)
	assert.NotNil(t, saved)
	assert.Equal(t, Viewing, m.Mode())
}

func TestSubmit_EditKeepsExistingFileURL(t *testing.T) {
	fileURL := "http://host/uploads/old.pdf"
	fileType := "application/pdf"
	backend := &fakeBackend{items: []*models.Assignment{{
		ID: "a", Title: "paper", Type: models.TypeAssignment,
		FileURL: &fileURL, FileType: &fileType,
	}}}
	m := newTestManager(backend)
	require.NoError(t, m.Refresh(context.Background()))

	require.NoError(t, m.StartEdit("a"))
	assert.Equal(t, KindFile, m.Form().Kind)
	m.Form().Title = "paper v2"

	_, err := m.Submit(context.Background())
	require.NoError(t, err)
	require.NotNil(t, backend.lastUpdate)
	require.NotNil(t, backend.lastUpdate.FileURL)
	assert.Equal(t, fileURL, *backend.lastUpdate.FileURL)
}

func TestStartEdit_LinkRecordOpensLinkEditor(t *testing.T) {
	url := "https://example.com"
	linkType := models.FileTypeLink
	backend := &fakeBackend{items: []*models.Assignment{{
		ID: "a", Title: "ref", Type: models.TypeAssignment,
		FileURL: &url, FileType: &linkType,
	}}}
	m := newTestManager(backend)
	require.NoError(t, m.Refresh(context.Background()))

	require.NoError(t, m.StartEdit("a"))
	assert.Equal(t, KindLink, m.Form().Kind)
	assert.Equal(t, url, m.Form().URL)
}

func TestDropOn_SameIndexIsNoop(t *testing.T) {
	backend := &fakeBackend{items: []*models.Assignment{
		{ID: "a", Title: "a", Type: models.TypeAssignment},
		{ID: "b", Title: "b", Type: models.TypeAssignment},
	}}
	m := newTestManager(backend)
	require.NoError(t, m.Refresh(context.Background()))

	require.NoError(t, m.StartDrag(0))
	assert.True(t, m.Dragging())
	require.NoError(t, m.DropOn(context.Background(), 0))

	assert.False(t, m.Dragging())
	assert.Equal(t, 0, backend.reorderSent, "same-index drop must not hit the network")
}

func TestDropOn_MovesRecordAndPersists(t *testing.T) {
	backend := &fakeBackend{items: []*models.Assignment{
		{ID: "a", Title: "a", Type: models.TypeAssignment},
		{ID: "b", Title: "b", Type: models.TypeAssignment},
		{ID: "c", Title: "c", Type: models.TypeAssignment},
	}}
	m := newTestManager(backend)
	require.NoError(t, m.Refresh(context.Background()))

	require.NoError(t, m.StartDrag(0))
	require.NoError(t, m.DropOn(context.Background(), 2))

	assert.Equal(t, []string{"b", "c", "a"}, backend.reorderIDs)
	items := m.Items()
	require.Len(t, items, 3)
	assert.Equal(t, "b", items[0].ID)
	assert.Equal(t, "a", items[2].ID)
}

func TestDropOn_WithoutDrag(t *testing.T) {
	m := newTestManager(&fakeBackend{})
	assert.ErrorIs(t, m.DropOn(context.Background(), 0), ErrNotDragging)
}

func TestDelete_RefreshesItems(t *testing.T) {
	backend := &fakeBackend{items: []*models.Assignment{
		{ID: "a", Title: "a", Type: models.TypeAssignment},
	}}
	m := newTestManager(backend)
	require.NoError(t, m.Refresh(context.Background()))
	require.Len(t, m.Items(), 1)

	require.NoError(t, m.Delete(context.Background(), "a"))
	assert.Empty(t, m.Items())
}
