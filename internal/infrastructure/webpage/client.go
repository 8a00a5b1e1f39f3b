package webpage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/CarlyGallagher/christmas-planner/internal/domain"
)

// DefaultUserAgent identifies the planner to origin servers.
const DefaultUserAgent = "ChristmasPlanner/1.0"

// Client retrieves product pages over HTTP. One attempt per call, no retries.
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// NewClient creates a page fetcher. A zero timeout leaves the transport default in place.
func NewClient(userAgent string, timeout time.Duration) *Client {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  userAgent,
	}
}

// Fetch performs a single GET and returns the body exactly as received.
func (c *Client) Fetch(ctx context.Context, rawURL string) (string, error) {
	u, err := domain.ValidateURL(rawURL)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn().Err(err).Str("component", "webpage").Str("url", u.String()).Msg("request failed")
		return "", fmt.Errorf("%w: %v", domain.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Info().Str("component", "webpage").Str("url", u.String()).Int("status", resp.StatusCode).Msg("non-2xx response")
		return "", &domain.FetchError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read body: %v", domain.ErrTransport, err)
	}

	log.Debug().Str("component", "webpage").Str("url", u.String()).Int("bytes", len(body)).Msg("fetched page")
	return string(body), nil
}
