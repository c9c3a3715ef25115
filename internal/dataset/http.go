package dataset

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"sipre-forecast/internal/model"
)

// RemoteError is a non-200 answer from the remote data service.
type RemoteError struct {
	StatusCode int
	Code       string
	Message    string
	RetryAfter string // set for rate limit errors
}

func (e *RemoteError) Error() string {
	return e.Message
}

// HTTPSource fetches a Document from a remote data service.
type HTTPSource struct {
	URL    string
	APIKey string
	Client *http.Client
	Logger zerolog.Logger
}

// NewHTTPSource creates a source fetching url with the given API key.
func NewHTTPSource(url, apiKey string, logger zerolog.Logger) *HTTPSource {
	return &HTTPSource{
		URL:    url,
		APIKey: apiKey,
		Client: &http.Client{Timeout: 30 * time.Second},
		Logger: logger,
	}
}

func (s *HTTPSource) Name() string { return "http" }

func (s *HTTPSource) Load(ctx context.Context) (model.HistoricalSeries, error) {
	if s.URL == "" {
		return model.HistoricalSeries{}, unavailable(s.Name(), fmt.Errorf("url is required"))
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return model.HistoricalSeries{}, unavailable(s.Name(), fmt.Errorf("failed to create request: %w", err))
	}
	if s.APIKey != "" {
		req.Header.Set("x-api-key", s.APIKey)
	}
	req.Header.Set("Accept", "application/json")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}

	start := time.Now()
	resp, err := client.Do(req)
	duration := time.Since(start)
	if err != nil {
		s.Logger.Warn().Err(err).Dur("duration", duration).Msg("dataset request failed")
		return model.HistoricalSeries{}, unavailable(s.Name(), fmt.Errorf("failed to execute request: %w", err))
	}
	defer resp.Body.Close()

	s.Logger.Debug().
		Int("status", resp.StatusCode).
		Dur("duration", duration).
		Str("url", req.URL.Redacted()).
		Msg("dataset response")

	if rerr := remoteError(resp); rerr != nil {
		return model.HistoricalSeries{}, unavailable(s.Name(), rerr)
	}

	series, err := decodeDocument(resp.Body)
	if err != nil {
		return model.HistoricalSeries{}, unavailable(s.Name(), err)
	}
	return series, nil
}

func remoteError(resp *http.Response) *RemoteError {
	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusUnauthorized:
		return &RemoteError{
			StatusCode: resp.StatusCode,
			Code:       "UNAUTHORIZED",
			Message:    "Unauthorized: invalid API key",
		}
	case http.StatusForbidden:
		return &RemoteError{
			StatusCode: resp.StatusCode,
			Code:       "INVALID_API_KEY",
			Message:    "Invalid API key or insufficient permissions",
		}
	case http.StatusTooManyRequests:
		retryAfter := resp.Header.Get("Retry-After")
		return &RemoteError{
			StatusCode: resp.StatusCode,
			Code:       "RATE_LIMIT_EXCEEDED",
			Message:    fmt.Sprintf("Rate limit exceeded. Retry after: %s", retryAfter),
			RetryAfter: retryAfter,
		}
	default:
		return &RemoteError{
			StatusCode: resp.StatusCode,
			Code:       "API_ERROR",
			Message:    fmt.Sprintf("API returned status %d: %s", resp.StatusCode, resp.Status),
		}
	}
}
