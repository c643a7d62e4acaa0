// Package api is the HTTP client for the portfolio backend. One method per
// endpoint; the session rides on the cookie persisted by TokenStore.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"coursefolio/internal/app/models"
	"coursefolio/internal/app/models/dto"
)

// SessionCookieName must match the server's auth.cookie_name setting.
const SessionCookieName = "cf_session"

// APIError carries the status and decoded error envelope of a failed call.
type APIError struct {
	Status  int
	Message string
	Details string
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s (%d): %s", e.Message, e.Status, e.Details)
	}
	return fmt.Sprintf("%s (%d)", e.Message, e.Status)
}

// Client talks to the backend API.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  *TokenStore
}

// NewClient creates a client for the API rooted at baseURL (no trailing
// /api).
func NewClient(baseURL string, tokens *TokenStore) *Client {
	return &Client{
		baseURL: baseURL,
		http:    http.DefaultClient,
		tokens:  tokens,
	}
}

// Login authenticates and persists the session cookie for later calls.
func (c *Client) Login(ctx context.Context, username, password string) (*dto.UserInfo, error) {
	resp, body, err := c.do(ctx, http.MethodPost, "/api/login", dto.LoginRequest{
		Username: username,
		Password: password,
	})
	if err != nil {
		return nil, err
	}

	for _, cookie := range resp.Cookies() {
		if cookie.Name == SessionCookieName && cookie.Value != "" {
			if err := c.tokens.Save(cookie.Value); err != nil {
				return nil, fmt.Errorf("failed to persist session: %w", err)
			}
		}
	}

	var out dto.UserResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// Logout invalidates the server session and drops the stored token.
func (c *Client) Logout(ctx context.Context) error {
	if _, _, err := c.do(ctx, http.MethodPost, "/api/logout", nil); err != nil {
		return err
	}
	return c.tokens.Clear()
}

// Me returns the authenticated user.
func (c *Client) Me(ctx context.Context) (*dto.UserInfo, error) {
	_, body, err := c.do(ctx, http.MethodGet, "/api/me", nil)
	if err != nil {
		return nil, err
	}
	var out dto.UserResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// ListCourses returns the course catalog.
func (c *Client) ListCourses(ctx context.Context) ([]*models.Course, error) {
	_, body, err := c.do(ctx, http.MethodGet, "/api/courses", nil)
	if err != nil {
		return nil, err
	}
	var out []*models.Course
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListAssignments returns every record for a course in display order.
func (c *Client) ListAssignments(ctx context.Context, courseCode string) ([]*models.Assignment, error) {
	_, body, err := c.do(ctx, http.MethodGet, "/api/assignments/"+url.PathEscape(courseCode), nil)
	if err != nil {
		return nil, err
	}
	var out []*models.Assignment
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateAssignment stores a new record.
func (c *Client) CreateAssignment(ctx context.Context, courseCode string, req *dto.CreateAssignmentRequest) (*models.Assignment, error) {
	_, body, err := c.do(ctx, http.MethodPost, "/api/assignments/"+url.PathEscape(courseCode), req)
	if err != nil {
		return nil, err
	}
	var out models.Assignment
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateAssignment overwrites a record's mutable fields.
func (c *Client) UpdateAssignment(ctx context.Context, courseCode string, req *dto.UpdateAssignmentRequest) (*models.Assignment, error) {
	_, body, err := c.do(ctx, http.MethodPut, "/api/assignments/"+url.PathEscape(courseCode), req)
	if err != nil {
		return nil, err
	}
	var out models.Assignment
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteAssignment removes a record.
func (c *Client) DeleteAssignment(ctx context.Context, courseCode, id string) error {
	_, _, err := c.do(ctx, http.MethodDelete, "/api/assignments/"+url.PathEscape(courseCode), dto.DeleteAssignmentRequest{ID: id})
	return err
}

// ReorderAssignments persists a full display ordering.
func (c *Client) ReorderAssignments(ctx context.Context, courseCode string, orderedIDs []string) error {
	_, _, err := c.do(ctx, http.MethodPatch, "/api/assignments/"+url.PathEscape(courseCode), dto.ReorderRequest{OrderedIDs: orderedIDs})
	return err
}

// Upload streams a file body and returns the stored URL.
func (c *Client) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	endpoint := c.baseURL + "/api/upload?filename=" + url.QueryEscape(filename)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, r)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	c.attachSession(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return "", decodeError(resp.StatusCode, body)
	}

	var out dto.UploadResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", err
	}
	return out.URL, nil
}

// Screenshot asks the server to capture a page. A nil result means the
// provider could not produce one.
func (c *Client) Screenshot(ctx context.Context, pageURL string) (*string, error) {
	_, body, err := c.do(ctx, http.MethodPost, "/api/screenshot", dto.ScreenshotRequest{URL: pageURL})
	if err != nil {
		return nil, err
	}
	var out dto.ScreenshotResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, err
	}
	return out.ScreenshotURL, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload any) (*http.Response, []byte, error) {
	var reqBody io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, nil, err
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.attachSession(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return nil, nil, decodeError(resp.StatusCode, body)
	}
	return resp, body, nil
}

func (c *Client) attachSession(req *http.Request) {
	if token := c.tokens.Load(); token != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	}
}

func decodeError(status int, body []byte) error {
	var envelope dto.ErrorResponse
	if err := json.Unmarshal(body, &envelope); err != nil || envelope.Error == "" {
		envelope.Error = http.StatusText(status)
	}
	return &APIError{Status: status, Message: envelope.Error, Details: envelope.Details}
}
