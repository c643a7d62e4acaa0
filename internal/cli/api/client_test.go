package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coursefolio/internal/app/models/dto"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *TokenStore, *httptest.Server) {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	tokens, err := NewTokenStoreAt(t.TempDir())
	require.NoError(t, err)
	return NewClient(ts.URL, tokens), tokens, ts
}

func TestLogin_PersistsSessionCookie(t *testing.T) {
	client, tokens, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/login", r.URL.Path)
		var req dto.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "admin", req.Username)

		http.SetCookie(w, &http.Cookie{Name: SessionCookieName, Value: "tok-123"})
		_ = json.NewEncoder(w).Encode(dto.UserResponse{User: dto.UserInfo{ID: 1, Username: "admin"}})
	}))

	user, err := client.Login(context.Background(), "admin", "secret")
	require.NoError(t, err)
	assert.Equal(t, "admin", user.Username)
	assert.Equal(t, "tok-123", tokens.Load())
}

func TestRequests_CarryStoredToken(t *testing.T) {
	var gotCookie string
	client, tokens, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie(SessionCookieName); err == nil {
			gotCookie = c.Value
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	require.NoError(t, tokens.Save("tok-xyz"))

	_, err := client.ListAssignments(context.Background(), "CST 300")
	require.NoError(t, err)
	assert.Equal(t, "tok-xyz", gotCookie)
}

func TestErrorEnvelopeDecoding(t *testing.T) {
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(dto.NewErrorResponse("Authentication required"))
	}))

	_, err := client.ListAssignments(context.Background(), "CST 300")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "Authentication required", apiErr.Message)
}

func TestErrorEnvelope_FallsBackToStatusText(t *testing.T) {
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("not json"))
	}))

	_, err := client.ListAssignments(context.Background(), "CST 300")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, "Bad Gateway", apiErr.Message)
}

func TestCourseCodePathEscaping(t *testing.T) {
	var gotPath string
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		_, _ = w.Write([]byte(`[]`))
	}))

	_, err := client.ListAssignments(context.Background(), "CST 300")
	require.NoError(t, err)
	assert.Equal(t, "/api/assignments/CST%20300", gotPath)
}

func TestUpload_SendsBodyAndFilename(t *testing.T) {
	client, tokens, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/upload", r.URL.Path)
		assert.Equal(t, "report.pdf", r.URL.Query().Get("filename"))
		_ = json.NewEncoder(w).Encode(dto.UploadResponse{URL: "http://host/uploads/u.pdf"})
	}))
	require.NoError(t, tokens.Save("tok"))

	url, err := client.Upload(context.Background(), "report.pdf", strings.NewReader("%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, "http://host/uploads/u.pdf", url)
}

func TestLogout_ClearsStoredToken(t *testing.T) {
	client, tokens, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(dto.SuccessResponse{Success: true})
	}))
	require.NoError(t, tokens.Save("tok"))

	require.NoError(t, client.Logout(context.Background()))
	assert.Empty(t, tokens.Load())
}

func TestScreenshot_NullResult(t *testing.T) {
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"screenshotUrl":null}`))
	}))

	url, err := client.Screenshot(context.Background(), "https://example.com")
	require.NoError(t, err)
	assert.Nil(t, url)
}
