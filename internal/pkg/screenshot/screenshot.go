// Package screenshot captures page previews through the screenshotmachine
// provider and stores the resulting image in blob storage.
package screenshot

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"coursefolio/internal/pkg/filestorage"
	"coursefolio/internal/pkg/logger"
)

const defaultEndpoint = "https://api.screenshotmachine.com"

// Service fetches screenshots from the provider. It is best-effort by
// contract: callers must treat any error as "no preview available".
type Service struct {
	apiKey   string
	endpoint string
	storage  filestorage.BlobStorage
	client   *http.Client
}

// NewService creates a screenshot service. The client's timeout bounds the
// provider call; callers typically also pass a deadline context.
func NewService(apiKey string, storage filestorage.BlobStorage, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Service{
		apiKey:   apiKey,
		endpoint: defaultEndpoint,
		storage:  storage,
		client:   &http.Client{Timeout: timeout},
	}
}

// WithEndpoint overrides the provider endpoint. Used by tests.
func (s *Service) WithEndpoint(endpoint string) *Service {
	s.endpoint = endpoint
	return s
}

// Generate captures pageURL and returns the stored image URL.
func (s *Service) Generate(ctx context.Context, pageURL string) (string, error) {
	if s.apiKey == "" {
		return "", fmt.Errorf("screenshot service not configured")
	}

	providerURL := fmt.Sprintf("%s?key=%s&url=%s&dimension=1920x1080&format=png",
		s.endpoint, s.apiKey, url.QueryEscape(pageURL))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, providerURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build screenshot request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("screenshot provider request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("screenshot provider returned %d", resp.StatusCode)
	}

	// Filename keyed by target host, matching how stored previews are
	// recognized in the uploads directory.
	host := "page"
	if u, err := url.Parse(pageURL); err == nil && u.Hostname() != "" {
		host = u.Hostname()
	}
	filename := fmt.Sprintf("%s-%d.png", host, time.Now().UnixMilli())

	storedURL, err := s.storage.SaveReaderWithPath(resp.Body, filename, "screenshots")
	if err != nil {
		return "", fmt.Errorf("failed to store screenshot: %w", err)
	}

	logger.Info().Str("url", pageURL).Str("screenshotUrl", storedURL).Msg("Screenshot saved to blob storage")
	return storedURL, nil
}
