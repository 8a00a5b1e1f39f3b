package nager

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/CarlyGallagher/christmas-planner/internal/domain"
)

// DefaultBaseURL is the public Nager.Date API
const DefaultBaseURL = "https://date.nager.at"

const maxAttempts = 3

// Client handles communication with the Nager.Date public holiday API
type Client struct {
	httpClient  *http.Client
	baseURL     string
	userAgent   string
	rateLimiter *rate.Limiter
	backoff     func(attempt int) time.Duration
	debug       bool
}

// NewClient creates a new Nager.Date API client
func NewClient(baseURL, userAgent string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		userAgent:   userAgent,
		rateLimiter: rate.NewLimiter(rate.Limit(1), 5),
		backoff:     exponentialBackoff,
	}
}

// SetDebug toggles verbose response logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// exponentialBackoff returns 500ms, 1s, 2s, ... for attempts 1, 2, 3, ...
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}

// PublicHolidays returns the public holidays of countryCode for year.
// 5xx responses and transport errors are retried; 4xx responses are not.
func (c *Client) PublicHolidays(ctx context.Context, year int, countryCode string) ([]domain.PublicHoliday, error) {
	reqURL := fmt.Sprintf("%s/api/v3/PublicHolidays/%d/%s", c.baseURL, year, strings.ToUpper(countryCode))
	logger := log.With().Str("component", "nager").Int("year", year).Str("country", countryCode).Logger()

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %v", domain.ErrHolidayAPIFailure, ctx.Err())
			case <-time.After(c.backoff(attempt - 1)):
			}
		}

		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: rate limiter: %v", domain.ErrHolidayAPIFailure, err)
		}

		holidays, retry, err := c.doRequest(ctx, reqURL)
		if err == nil {
			logger.Debug().Int("count", len(holidays)).Msg("fetched public holidays")
			return holidays, nil
		}
		logger.Warn().Err(err).Int("attempt", attempt).Msg("public holiday request failed")
		lastErr = err
		if !retry {
			break
		}
	}

	return nil, lastErr
}

// doRequest executes one GET and reports whether a failure is worth retrying
func (c *Client) doRequest(ctx context.Context, reqURL string) ([]domain.PublicHoliday, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("%w: %v", domain.ErrHolidayAPIFailure, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("%w: read body: %v", domain.ErrHolidayAPIFailure, err)
	}

	if c.debug {
		log.Debug().Str("component", "nager").Int("status", resp.StatusCode).Str("body", string(body)).Msg("raw response")
	}

	if resp.StatusCode != http.StatusOK {
		retry := resp.StatusCode >= 500
		return nil, retry, fmt.Errorf("%w: status %d", domain.ErrHolidayAPIFailure, resp.StatusCode)
	}

	var holidays []domain.PublicHoliday
	if err := json.Unmarshal(body, &holidays); err != nil {
		return nil, false, fmt.Errorf("%w: failed to decode response: %v", domain.ErrHolidayAPIFailure, err)
	}

	return holidays, false, nil
}
