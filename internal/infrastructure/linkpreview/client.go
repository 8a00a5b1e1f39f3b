package linkpreview

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/CarlyGallagher/christmas-planner/internal/domain"
)

// DefaultBaseURL is the LinkPreview.net API endpoint
const DefaultBaseURL = "https://api.linkpreview.net"

// Client handles communication with the LinkPreview API
type Client struct {
	httpClient  *http.Client
	baseURL     string
	apiKey      string
	userAgent   string
	rateLimiter *rate.Limiter
}

// NewClient creates a new link-preview client. requestsPerHour <= 0 disables the local budget.
func NewClient(baseURL, apiKey, userAgent string, requestsPerHour int) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	// Free tier allows 60 requests per hour; rate.Limit is per second.
	limiter := rate.NewLimiter(rate.Inf, 0)
	if requestsPerHour > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(requestsPerHour)/3600), requestsPerHour)
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		apiKey:      apiKey,
		userAgent:   userAgent,
		rateLimiter: limiter,
	}
}

// Preview asks the service for title, image and description of targetURL. When the hourly
// budget is spent it returns ErrRateLimited without waiting so the caller can fall back.
func (c *Client) Preview(ctx context.Context, targetURL string) (*domain.LinkPreview, error) {
	if !c.rateLimiter.Allow() {
		return nil, domain.ErrRateLimited
	}

	params := url.Values{}
	params.Set("q", targetURL)
	reqURL := fmt.Sprintf("%s/?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if c.apiKey != "" {
		req.Header.Set("X-Linkpreview-Api-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrLinkPreviewUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		log.Debug().Str("component", "linkpreview").Int("status", resp.StatusCode).Str("body", string(body)).Msg("preview rejected")
		return nil, fmt.Errorf("%w: status %d", domain.ErrLinkPreviewUnavailable, resp.StatusCode)
	}

	var preview domain.LinkPreview
	if err := json.NewDecoder(resp.Body).Decode(&preview); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", domain.ErrLinkPreviewUnavailable, err)
	}

	preview.Title = strings.TrimSpace(preview.Title)
	preview.Image = strings.TrimSpace(preview.Image)
	preview.Description = strings.TrimSpace(preview.Description)
	return &preview, nil
}
