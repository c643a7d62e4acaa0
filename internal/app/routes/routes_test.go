package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coursefolio/internal/app/controllers"
	"coursefolio/internal/app/models"
	"coursefolio/internal/app/services"
	"coursefolio/internal/middleware"
	"coursefolio/internal/pkg/apperrors"
)

const (
	testCookie = "cf_session"
	validToken = "tok-valid"
)

// --- In-memory assignment store ---

type memStore struct {
	mu        sync.Mutex
	items     map[string][]*models.Assignment
	nextID    int
	mutations int
}

var _ services.AssignmentStore = (*memStore)(nil)

func newMemStore() *memStore {
	return &memStore{items: make(map[string][]*models.Assignment)}
}

func (s *memStore) ListByCourse(ctx context.Context, courseCode string) ([]*models.Assignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.Assignment, len(s.items[courseCode]))
	copy(out, s.items[courseCode])
	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := out[i].Position, out[j].Position
		switch {
		case pi != nil && pj != nil:
			return *pi < *pj
		case pi != nil:
			return true
		case pj != nil:
			return false
		default:
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
	})
	return out, nil
}

func (s *memStore) GetByID(ctx context.Context, courseCode, id string) (*models.Assignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.items[courseCode] {
		if item.ID == id {
			copied := *item
			return &copied, nil
		}
	}
	return nil, apperrors.ErrAssignmentNotFound
}

func (s *memStore) Create(ctx context.Context, a *models.Assignment) (*models.Assignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mutations++
	s.nextID++
	a.ID = fmt.Sprintf("id-%d", s.nextID)
	pos := 0
	for _, item := range s.items[a.CourseCode] {
		if item.Position != nil && *item.Position >= pos {
			pos = *item.Position + 1
		}
	}
	a.Position = &pos
	a.CreatedAt = time.Now()
	s.items[a.CourseCode] = append(s.items[a.CourseCode], a)
	copied := *a
	return &copied, nil
}

func (s *memStore) Update(ctx context.Context, a *models.Assignment) (*models.Assignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mutations++
	for i, item := range s.items[a.CourseCode] {
		if item.ID == a.ID {
			a.Position = item.Position
			a.Type = item.Type
			a.CreatedAt = item.CreatedAt
			s.items[a.CourseCode][i] = a
			copied := *a
			return &copied, nil
		}
	}
	return nil, apperrors.ErrAssignmentNotFound
}

func (s *memStore) SetScreenshotURL(ctx context.Context, id string, url *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, list := range s.items {
		for _, item := range list {
			if item.ID == id {
				item.ScreenshotURL = url
				return nil
			}
		}
	}
	return apperrors.ErrAssignmentNotFound
}

func (s *memStore) Delete(ctx context.Context, courseCode, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mutations++
	list := s.items[courseCode]
	for i, item := range list {
		if item.ID == id {
			s.items[courseCode] = append(list[:i], list[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *memStore) Reorder(ctx context.Context, courseCode string, orderedIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mutations++
	byID := make(map[string]*models.Assignment)
	for _, item := range s.items[courseCode] {
		byID[item.ID] = item
	}
	for idx, id := range orderedIDs {
		if item, ok := byID[id]; ok {
			pos := idx
			item.Position = &pos
		}
	}
	return nil
}

func (s *memStore) mutationCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mutations
}

// --- Stub auth service ---

type stubAuth struct{}

var _ services.AuthService = stubAuth{}

func (stubAuth) Login(ctx context.Context, username, password string) (*models.User, string, error) {
	if username == "admin" && password == "secret" {
		return &models.User{ID: 1, Username: "admin"}, validToken, nil
	}
	return nil, "", apperrors.ErrInvalidCredentials
}

func (stubAuth) Logout(ctx context.Context, token string) error { return nil }

func (stubAuth) ValidateSession(ctx context.Context, token string) (*models.User, error) {
	if token == validToken {
		return &models.User{ID: 1, Username: "admin"}, nil
	}
	return nil, apperrors.ErrSessionNotFound
}

// --- Failing screenshot generator ---

type failingGenerator struct{}

func (failingGenerator) Generate(ctx context.Context, pageURL string) (string, error) {
	return "", errors.New("provider unavailable")
}

func newTestRouter(t *testing.T, store services.AssignmentStore, gen services.ScreenshotGenerator) (*gin.Engine, services.AssignmentService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	assignmentService := services.NewAssignmentService(store, gen, time.Second, zerolog.Nop())
	authService := stubAuth{}

	authController := controllers.NewAuthController(authService, controllers.CookieSettings{
		Name: testCookie,
		TTL:  time.Hour,
	})
	assignmentController := controllers.NewAssignmentController(assignmentService)
	courseController := controllers.NewCourseController(services.NewCourseService(emptyCourseStore{}))
	screenshotController := controllers.NewScreenshotController(gen)
	uploadController := controllers.NewUploadController(nil)
	authMiddleware := middleware.NewAuthMiddleware(authService, testCookie)

	router := gin.New()
	SetupRouter(router, authController, assignmentController, courseController, uploadController, screenshotController, authMiddleware)
	return router, assignmentService
}

type emptyCourseStore struct{}

func (emptyCourseStore) ListAll(ctx context.Context) ([]*models.Course, error) {
	return []*models.Course{}, nil
}

func doJSON(router *gin.Engine, method, path string, payload any, token string) *httptest.ResponseRecorder {
	var body *bytes.Reader
	if payload != nil {
		b, _ := json.Marshal(payload)
		body = bytes.NewReader(b)
	} else {
		body = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.AddCookie(&http.Cookie{Name: testCookie, Value: token})
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// --- Auth flow ---

func TestLogin_SetsSessionCookie(t *testing.T) {
	router, _ := newTestRouter(t, newMemStore(), nil)

	w := doJSON(router, http.MethodPost, "/api/login", gin.H{"username": "admin", "password": "secret"}, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		User struct {
			Username string `json:"username"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "admin", resp.User.Username)

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	found := false
	for _, c := range cookies {
		if c.Name == testCookie {
			found = true
			assert.Equal(t, validToken, c.Value)
			assert.True(t, c.HttpOnly)
		}
	}
	assert.True(t, found, "session cookie must be set")
}

func TestLogin_BadCredentials(t *testing.T) {
	router, _ := newTestRouter(t, newMemStore(), nil)

	w := doJSON(router, http.MethodPost, "/api/login", gin.H{"username": "admin", "password": "nope"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid credentials")
}

func TestMe_RequiresSession(t *testing.T) {
	router, _ := newTestRouter(t, newMemStore(), nil)

	w := doJSON(router, http.MethodGet, "/api/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(router, http.MethodGet, "/api/me", nil, validToken)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"admin"`)
}

// --- auth gating on every mutating endpoint ---

func TestMutatingEndpoints_RejectMissingCookie(t *testing.T) {
	store := newMemStore()
	router, _ := newTestRouter(t, store, nil)

	endpoints := []struct {
		method string
		path   string
		body   any
	}{
		{http.MethodPost, "/api/assignments/CST300", gin.H{"title": "x", "type": "assignment"}},
		{http.MethodPut, "/api/assignments/CST300", gin.H{"id": "1", "title": "x"}},
		{http.MethodPatch, "/api/assignments/CST300", gin.H{"orderedIds": []string{"1"}}},
		{http.MethodDelete, "/api/assignments/CST300", gin.H{"id": "1"}},
		{http.MethodPost, "/api/upload?filename=a.txt", nil},
		{http.MethodPost, "/api/screenshot", gin.H{"url": "https://example.com"}},
	}

	for _, ep := range endpoints {
		t.Run(ep.method+" "+ep.path, func(t *testing.T) {
			w := doJSON(router, ep.method, ep.path, ep.body, "")
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), "Authentication required")
		})
	}

	assert.Equal(t, 0, store.mutationCount(), "rejected requests must not reach the store")
}

func TestMutatingEndpoints_RejectUnknownToken(t *testing.T) {
	store := newMemStore()
	router, _ := newTestRouter(t, store, nil)

	w := doJSON(router, http.MethodPost, "/api/assignments/CST300",
		gin.H{"title": "x", "type": "assignment"}, "stale-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid session")
	assert.Equal(t, 0, store.mutationCount())
}

// --- create assigns increasing positions ---

func TestCreate_AssignsPositionsInOrder(t *testing.T) {
	router, _ := newTestRouter(t, newMemStore(), nil)

	w := doJSON(router, http.MethodPost, "/api/assignments/CST300",
		gin.H{"title": "Essay", "description": "d", "type": "assignment"}, validToken)
	require.Equal(t, http.StatusCreated, w.Code)

	var first models.Assignment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &first))
	require.NotNil(t, first.Position)
	assert.Equal(t, 0, *first.Position)

	w = doJSON(router, http.MethodPost, "/api/assignments/CST300",
		gin.H{"title": "Lab", "type": "assignment"}, validToken)
	require.Equal(t, http.StatusCreated, w.Code)

	var second models.Assignment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &second))
	require.NotNil(t, second.Position)
	assert.Equal(t, 1, *second.Position)

	w = doJSON(router, http.MethodGet, "/api/assignments/CST300", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var listed []models.Assignment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	require.Len(t, listed, 2)
	assert.Equal(t, "Essay", listed[0].Title)
	assert.Equal(t, "Lab", listed[1].Title)
}

// --- reorder flips list order ---

func TestReorder_ChangesListOrder(t *testing.T) {
	router, _ := newTestRouter(t, newMemStore(), nil)

	var ids []string
	for _, title := range []string{"one", "two"} {
		w := doJSON(router, http.MethodPost, "/api/assignments/CST300",
			gin.H{"title": title, "type": "assignment"}, validToken)
		require.Equal(t, http.StatusCreated, w.Code)
		var item models.Assignment
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &item))
		ids = append(ids, item.ID)
	}

	w := doJSON(router, http.MethodPatch, "/api/assignments/CST300",
		gin.H{"orderedIds": []string{ids[1], ids[0]}}, validToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"success":true`)

	w = doJSON(router, http.MethodGet, "/api/assignments/CST300", nil, "")
	var listed []models.Assignment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	require.Len(t, listed, 2)
	assert.Equal(t, ids[1], listed[0].ID)
	assert.Equal(t, ids[0], listed[1].ID)
}

func TestReorder_EmptyListRejected(t *testing.T) {
	router, _ := newTestRouter(t, newMemStore(), nil)

	w := doJSON(router, http.MethodPatch, "/api/assignments/CST300",
		gin.H{"orderedIds": []string{}}, validToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// --- unauthenticated delete leaves the record ---

func TestDelete_UnauthenticatedLeavesRecord(t *testing.T) {
	router, _ := newTestRouter(t, newMemStore(), nil)

	w := doJSON(router, http.MethodPost, "/api/assignments/CST300",
		gin.H{"title": "keep me", "type": "assignment"}, validToken)
	require.Equal(t, http.StatusCreated, w.Code)
	var item models.Assignment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &item))

	w = doJSON(router, http.MethodDelete, "/api/assignments/CST300", gin.H{"id": item.ID}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(router, http.MethodGet, "/api/assignments/CST300", nil, "")
	var listed []models.Assignment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, item.ID, listed[0].ID)
}

// --- provider failure still persists the record ---

func TestCreateLink_ProviderFailureLeavesNullScreenshot(t *testing.T) {
	store := newMemStore()
	router, assignmentService := newTestRouter(t, store, failingGenerator{})

	w := doJSON(router, http.MethodPost, "/api/assignments/CST300",
		gin.H{"title": "ref", "type": "resource", "fileUrl": "https://example.com/doc", "fileType": "link"},
		validToken)
	require.Equal(t, http.StatusCreated, w.Code)

	var item models.Assignment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &item))
	assignmentService.Wait()

	stored, err := store.GetByID(context.Background(), "CST300", item.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.ScreenshotURL)
}

func TestScreenshotEndpoint_ProviderFailureReturnsNull(t *testing.T) {
	router, _ := newTestRouter(t, newMemStore(), failingGenerator{})

	w := doJSON(router, http.MethodPost, "/api/screenshot",
		gin.H{"url": "https://example.com"}, validToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"screenshotUrl":null`)
}

func TestUpdate_UnknownRecordIs404(t *testing.T) {
	router, _ := newTestRouter(t, newMemStore(), nil)

	w := doJSON(router, http.MethodPut, "/api/assignments/CST300",
		gin.H{"id": "ghost", "title": "x"}, validToken)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Resource not found")
}

func TestHealth(t *testing.T) {
	router, _ := newTestRouter(t, newMemStore(), nil)
	w := doJSON(router, http.MethodGet, "/api/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
}
