// backend/src/services/document_service.go
package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/username/srriwatch/backend/src/logger"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/time/rate"
)

// Document hosts sit behind CDNs that reject default Go user agents.
const fetchUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// maxDocumentBytes caps a single download; KIIDs and fact sheets are a few
// hundred KB at most.
const maxDocumentBytes = 20 << 20

// documentServiceImpl fetches disclosure documents over HTTP. A shared
// limiter keeps the fetch rate polite toward the document host even when
// extraction runs concurrently.
type documentServiceImpl struct {
	httpClient http.Client
	limiter    *rate.Limiter
}

// NewDocumentService creates a fetcher with the given request timeout and
// a sustained requests-per-second budget.
func NewDocumentService(timeout time.Duration, perSecond float64) DocumentFetcher {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		logger.L.Error("Failed to create cookie jar", "error", err)
	}
	return &documentServiceImpl{
		httpClient: http.Client{
			Jar:     jar,
			Timeout: timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(perSecond), 1),
	}
}

func (s *documentServiceImpl) Fetch(ctx context.Context, url string) ([]byte, error) {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return nil, fmt.Errorf("not a fetchable url: %q", url)
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", fetchUserAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: unexpected status %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", url, err)
	}
	return data, nil
}
